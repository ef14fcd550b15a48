// Package mint implements the issuance engine: it validates phase, proof,
// caps and payment for a mint request, routes funds to the treasury and
// requests issuance from the token registry.
package mint

import (
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"

	"github.com/stable-net/nftdrop-go/pkg/access"
	"github.com/stable-net/nftdrop-go/pkg/bank"
	"github.com/stable-net/nftdrop-go/pkg/events"
	"github.com/stable-net/nftdrop-go/pkg/ledger"
	"github.com/stable-net/nftdrop-go/pkg/merkle"
	"github.com/stable-net/nftdrop-go/pkg/sale"
	"github.com/stable-net/nftdrop-go/pkg/token"
)

// Engine orchestrates mint requests against the sale state, the claim
// ledger, the bank and the token registry.
type Engine struct {
	sale   *sale.Manager
	claims *ledger.Ledger
	tokens *token.Registry
	bank   *bank.Bank
	access *access.Controller
	events *events.Log

	// Reentrancy guard. Held across the whole operation, including the
	// treasury transfer, so a receive hook cannot re-enter and observe a
	// half-updated ledger or supply count.
	locked atomic.Bool
}

// NewEngine creates an issuance engine.
func NewEngine(
	saleManager *sale.Manager,
	claims *ledger.Ledger,
	tokens *token.Registry,
	b *bank.Bank,
	accessController *access.Controller,
	eventLog *events.Log,
) *Engine {
	return &Engine{
		sale:   saleManager,
		claims: claims,
		tokens: tokens,
		bank:   b,
		access: accessController,
		events: eventLog,
	}
}

// WhitelistMint processes a presale mint request. The attached value is
// the payment offered by the caller; the entire attached value is routed
// to the treasury on success, including any overpayment.
func (e *Engine) WhitelistMint(caller common.Address, quantity uint64, value *big.Int, proof []common.Hash) ([]uint64, error) {
	if !e.locked.CompareAndSwap(false, true) {
		return nil, ErrReentrantCall
	}
	defer e.locked.Store(false)

	if e.access.IsPaused() {
		return nil, ErrPaused
	}
	if quantity == 0 {
		return nil, ErrInvalidQuantity
	}
	if value == nil {
		value = big.NewInt(0)
	}

	params := e.sale.Params()
	if !params.PresaleActive {
		return nil, ErrPhaseInactive
	}
	if !merkle.Verify(proof, e.sale.AllowlistRoot(), caller) {
		return nil, ErrNotEligible
	}
	claimed := e.claims.WhitelistClaimed(caller)
	if exceedsCap(claimed, quantity, params.MaxWhitelistMintPerAddress) {
		return nil, ErrPerAddressCapExceeded
	}
	if insufficient(value, params.WhitelistUnitPrice, quantity) {
		return nil, ErrInsufficientPayment
	}
	if exceedsCap(e.tokens.TotalIssued(), quantity, params.MaxSupply) {
		return nil, ErrSupplyExceeded
	}

	return e.settle(caller, sale.Whitelist, quantity, value)
}

// PublicMint processes an open-phase mint request. Same shape as
// WhitelistMint without the membership proof.
func (e *Engine) PublicMint(caller common.Address, quantity uint64, value *big.Int) ([]uint64, error) {
	if !e.locked.CompareAndSwap(false, true) {
		return nil, ErrReentrantCall
	}
	defer e.locked.Store(false)

	if e.access.IsPaused() {
		return nil, ErrPaused
	}
	if quantity == 0 {
		return nil, ErrInvalidQuantity
	}
	if value == nil {
		value = big.NewInt(0)
	}

	params := e.sale.Params()
	if !params.PublicSaleActive {
		return nil, ErrPhaseInactive
	}
	claimed := e.claims.PublicClaimed(caller)
	if exceedsCap(claimed, quantity, params.MaxPublicMintPerAddress) {
		return nil, ErrPerAddressCapExceeded
	}
	if insufficient(value, params.PublicUnitPrice, quantity) {
		return nil, ErrInsufficientPayment
	}
	if exceedsCap(e.tokens.TotalIssued(), quantity, params.MaxSupply) {
		return nil, ErrSupplyExceeded
	}

	return e.settle(caller, sale.Public, quantity, value)
}

// IsEligible reports whether the proof admits the address under the
// current allowlist commitment. Read-only; ignores phase and pause state.
func (e *Engine) IsEligible(proof []common.Hash, addr common.Address) bool {
	return merkle.Verify(proof, e.sale.AllowlistRoot(), addr)
}

// settle applies the effects of a fully validated mint: funds first, then
// the claim counter, then issuance. The fund transfer runs while the
// reentrancy guard is still held.
func (e *Engine) settle(caller common.Address, class sale.Class, quantity uint64, value *big.Int) ([]uint64, error) {
	if err := e.bank.Transfer(caller, e.sale.Treasury(), value); err != nil {
		return nil, fmt.Errorf("route payment: %w", err)
	}

	if class == sale.Whitelist {
		e.claims.AddWhitelistClaim(caller, quantity)
	} else {
		e.claims.AddPublicClaim(caller, quantity)
	}

	ids, err := e.tokens.Issue(caller, quantity)
	if err != nil {
		return nil, fmt.Errorf("issue assets: %w", err)
	}

	e.events.AppendMint(caller, string(class), quantity, ids, value)
	return ids, nil
}

// exceedsCap reports whether current + quantity would exceed limit,
// without overflowing.
func exceedsCap(current, quantity, limit uint64) bool {
	return current > limit || quantity > limit-current
}

// insufficient reports whether value covers quantity units at unitPrice.
func insufficient(value, unitPrice *big.Int, quantity uint64) bool {
	required := new(big.Int).Mul(unitPrice, new(big.Int).SetUint64(quantity))
	return value.Cmp(required) < 0
}
