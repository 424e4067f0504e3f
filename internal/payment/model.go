package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

const ProviderMercadoPago = "MERCADOPAGO"

// Status is the provider-side payment status.
type Status string

const (
	StatusPending     Status = "pending"
	StatusApproved    Status = "approved"
	StatusAuthorized  Status = "authorized"
	StatusInProcess   Status = "in_process"
	StatusInMediation Status = "in_mediation"
	StatusRejected    Status = "rejected"
	StatusCancelled   Status = "cancelled"
	StatusRefunded    Status = "refunded"
	StatusChargedBack Status = "charged_back"
)

// Payment is the authoritative view of a payment as reported by the provider.
type Payment struct {
	ID                string
	Status            Status
	StatusDetail      string
	ExternalReference string
	Amount            decimal.Decimal
	Currency          string
	CreatedAt         time.Time
	ApprovedAt        *time.Time
}

type PreferenceItem struct {
	ID         string
	Title      string
	Quantity   int
	UnitPrice  decimal.Decimal
	PictureURL string
}

type Payer struct {
	Name  string
	Email string
	Phone string
}

type PreferenceRequest struct {
	ExternalReference string
	Items             []PreferenceItem
	Payer             Payer
	Metadata          map[string]any
	// IdempotencyKey defaults to ExternalReference.
	IdempotencyKey string
}

type Preference struct {
	ID                string `json:"id"`
	InitPoint         string `json:"initPoint"`
	SandboxInitPoint  string `json:"sandboxInitPoint"`
	ExternalReference string `json:"externalReference"`
}
