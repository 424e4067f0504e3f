// internal/payment/payment.go
package payment

import (
	"context"
	"net/http"
)

type Gateway interface {
	CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error)
	GetPayment(ctx context.Context, paymentID string) (*Payment, error)
	SearchPayments(ctx context.Context, externalReference string) ([]Payment, error)
	VerifySignature(r *http.Request) error
}
