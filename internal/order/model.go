package order

import (
	"time"

	"paulapastas-be/internal/payment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusInReview Status = "in_review"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInReview, StatusApproved, StatusRejected, StatusExpired:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// CanTransitionTo reports whether the order lifecycle allows s -> next.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusApproved || next == StatusRejected || next == StatusInReview || next == StatusExpired
	case StatusInReview:
		return next == StatusApproved || next == StatusRejected
	}
	return false
}

// StatusFromPayment maps a provider status to the order status it implies.
// The second result is false when the payment does not move the order.
func StatusFromPayment(ps payment.Status) (Status, bool) {
	switch ps {
	case payment.StatusApproved:
		return StatusApproved, true
	case payment.StatusRejected, payment.StatusCancelled, payment.StatusRefunded, payment.StatusChargedBack:
		return StatusRejected, true
	case payment.StatusInProcess, payment.StatusInMediation, payment.StatusAuthorized:
		return StatusInReview, true
	}
	return "", false
}

type DeliveryOption string

const (
	DeliveryPickup   DeliveryOption = "pickup"
	DeliveryDelivery DeliveryOption = "delivery"
)

type Buyer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Item struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID                uuid.UUID       `json:"id"`
	Number            string          `json:"number"`
	Buyer             Buyer           `json:"buyer"`
	Items             []Item          `json:"items"`
	DeliveryOption    DeliveryOption  `json:"deliveryOption"`
	Address           string          `json:"address,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	DeliveryFee       decimal.Decimal `json:"deliveryFee"`
	Total             decimal.Decimal `json:"total"`
	Currency          string          `json:"currency"`
	Status            Status          `json:"status"`
	PreferenceID      string          `json:"preferenceId,omitempty"`
	InitPoint         string          `json:"initPoint,omitempty"`
	SandboxInitPoint  string          `json:"sandboxInitPoint,omitempty"`
	PaymentID         string          `json:"paymentId,omitempty"`
	PaymentStatus     string          `json:"paymentStatus,omitempty"`
	IdempotencyKey    string          `json:"-"`
	ReconcileAttempts int             `json:"reconcileAttempts"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
	PaidAt            *time.Time      `json:"paidAt,omitempty"`
}

// ItemsTotal sums the line items, delivery fee excluded.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Change describes the outcome of applying a provider payment.
type Change struct {
	From      Status
	To        Status
	PaymentID string
	Applied   bool
}

type ListFilter struct {
	Status Status
	Limit  int
	Offset int
}
