package order

import "errors"

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrAmountMismatch    = errors.New("payment amount does not match order total")
	ErrCurrencyMismatch  = errors.New("payment currency does not match order currency")
	ErrReferenceMismatch = errors.New("payment external reference does not match order")
	ErrConcurrentUpdate  = errors.New("order was modified concurrently")
	ErrDuplicateIdemKey  = errors.New("idempotency key already used")
)

// IsTerminalFailure reports errors that retrying the same payment cannot fix.
func IsTerminalFailure(err error) bool {
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrAmountMismatch) ||
		errors.Is(err, ErrCurrencyMismatch) ||
		errors.Is(err, ErrReferenceMismatch)
}
