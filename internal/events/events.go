package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderApproved = "order.approved"
	OrderRejected = "order.rejected"
	OrderInReview = "order.in_review"
	OrderExpired  = "order.expired"
)

type OrderEvent struct {
	Type       string          `json:"type"`
	OrderID    string          `json:"orderId"`
	Number     string          `json:"number,omitempty"`
	PaymentID  string          `json:"paymentId,omitempty"`
	Status     string          `json:"status"`
	Total      decimal.Decimal `json:"total"`
	Currency   string          `json:"currency"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// Publisher delivers order lifecycle events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// TypeForStatus maps an order status to its event type.
func TypeForStatus(status string) (string, bool) {
	switch status {
	case "approved":
		return OrderApproved, true
	case "rejected":
		return OrderRejected, true
	case "in_review":
		return OrderInReview, true
	case "expired":
		return OrderExpired, true
	}
	return "", false
}
