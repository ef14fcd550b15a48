package mint

import "errors"

// Issuance errors. Every failure aborts the whole operation with no state
// change; callers must correct their inputs and resubmit.
var (
	ErrPaused                = errors.New("mint: sale is paused")
	ErrReentrantCall         = errors.New("mint: reentrant call")
	ErrInvalidQuantity       = errors.New("mint: quantity must be positive")
	ErrPhaseInactive         = errors.New("mint: requested phase not active")
	ErrNotEligible           = errors.New("mint: proof failed verification")
	ErrPerAddressCapExceeded = errors.New("mint: per-address claim cap exceeded")
	ErrInsufficientPayment   = errors.New("mint: attached value below required payment")
	ErrSupplyExceeded        = errors.New("mint: supply ceiling exceeded")
)
