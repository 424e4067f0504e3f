package checkout

import "errors"

var (
	ErrPreferenceFailed = errors.New("failed to create payment preference")
	ErrOrderFailed      = errors.New("failed to create order")
)
