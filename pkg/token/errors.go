package token

import "errors"

// Registry errors.
var (
	ErrAssetNotFound = errors.New("token: asset not found")
	ErrNotAssetOwner = errors.New("token: caller does not own asset")
	ErrZeroQuantity  = errors.New("token: quantity must be positive")
)
