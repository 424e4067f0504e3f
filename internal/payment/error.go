package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrProviderUnavailable = errors.New("payment provider unavailable")
	ErrProviderRejected    = errors.New("payment provider rejected the request")
)

// APIError is a non-2xx answer from the provider.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Body
	}
	return fmt.Sprintf("mercadopago: status %d: %s", e.StatusCode, msg)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return ErrPaymentNotFound
	case e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500:
		return ErrProviderUnavailable
	default:
		return ErrProviderRejected
	}
}

// IsRetryable reports whether a later attempt may succeed.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable) || errors.Is(err, context.DeadlineExceeded)
}
