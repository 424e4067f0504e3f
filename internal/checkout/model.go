package checkout

import (
	"paulapastas-be/internal/order"
)

type ItemInput struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1,max=99"`
}

type BuyerInput struct {
	Name  string `json:"name" validate:"required,max=120"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,min=6,max=30"`
}

// Request is the body of POST /api/checkout/create-preference. Prices sent
// by the client are ignored; items are re-priced from the catalog.
type Request struct {
	Items          []ItemInput          `json:"items" validate:"required,min=1,max=50,dive"`
	Buyer          BuyerInput           `json:"buyer"`
	DeliveryOption order.DeliveryOption `json:"deliveryOption" validate:"omitempty,oneof=pickup delivery"`
	Address        string               `json:"address" validate:"required_if=DeliveryOption delivery,max=300"`
	Notes          string               `json:"notes" validate:"max=500"`
}

// Result is what the redirect pages may display. It is built from query
// parameters only.
type Result struct {
	Outcome           string `json:"outcome"`
	Status            string `json:"status,omitempty"`
	PaymentID         string `json:"paymentId,omitempty"`
	PreferenceID      string `json:"preferenceId,omitempty"`
	ExternalReference string `json:"externalReference,omitempty"`
}

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePending = "pending"
)

// OutcomeFor maps the provider's collection_status/status query value to a
// display outcome.
func OutcomeFor(status string) string {
	switch status {
	case "approved":
		return OutcomeSuccess
	case "pending", "in_process", "in_mediation", "authorized":
		return OutcomePending
	}
	return OutcomeFailure
}
