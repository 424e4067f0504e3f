package cart

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidSession  = errors.New("invalid cart session")
	ErrInvalidQuantity = errors.New("invalid cart quantity")

	// -- Resource State --
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is not available")

	// -- Database & Operation Failures --
	ErrFailedGetCart   = errors.New("failed to get cart")
	ErrFailedSaveCart  = errors.New("failed to save cart")
	ErrFailedClearCart = errors.New("failed to clear cart")
)
