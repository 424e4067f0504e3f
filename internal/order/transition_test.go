package order

import (
	"testing"

	"paulapastas-be/internal/payment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func pendingOrder() *Order {
	return &Order{
		ID:       uuid.MustParse("7b0c1d5e-8f7a-4c2b-9e41-3c6f5a2d9b10"),
		Status:   StatusPending,
		Total:    decimal.NewFromInt(5000),
		Currency: "ARS",
	}
}

func approvedPayment(o *Order) payment.Payment {
	return payment.Payment{
		ID:                "pay-1",
		Status:            payment.StatusApproved,
		ExternalReference: o.ID.String(),
		Amount:            decimal.RequireFromString("5000.00"),
		Currency:          "ARS",
	}
}

func TestStatus_CanTransitionTo(t *testing.T) {
	all := []Status{StatusPending, StatusInReview, StatusApproved, StatusRejected, StatusExpired}
	allowed := map[Status][]Status{
		StatusPending:  {StatusApproved, StatusRejected, StatusInReview, StatusExpired},
		StatusInReview: {StatusApproved, StatusRejected},
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, contains(allowed[from], to), from.CanTransitionTo(to), "%s -> %s", from, to)
		}
		if from.IsTerminal() {
			assert.Empty(t, allowed[from])
		}
	}
}

func contains(list []Status, s Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestStatusFromPayment(t *testing.T) {
	tests := []struct {
		in   payment.Status
		want Status
		ok   bool
	}{
		{payment.StatusApproved, StatusApproved, true},
		{payment.StatusRejected, StatusRejected, true},
		{payment.StatusCancelled, StatusRejected, true},
		{payment.StatusRefunded, StatusRejected, true},
		{payment.StatusChargedBack, StatusRejected, true},
		{payment.StatusInProcess, StatusInReview, true},
		{payment.StatusInMediation, StatusInReview, true},
		{payment.StatusAuthorized, StatusInReview, true},
		{payment.StatusPending, "", false},
		{payment.Status("mystery"), "", false},
	}
	for _, tt := range tests {
		got, ok := StatusFromPayment(tt.in)
		assert.Equal(t, tt.want, got, string(tt.in))
		assert.Equal(t, tt.ok, ok, string(tt.in))
	}
}

func TestDecideTransition(t *testing.T) {
	t.Run("Pending to approved", func(t *testing.T) {
		o := pendingOrder()
		change, err := DecideTransition(o, approvedPayment(o))
		assert.NoError(t, err)
		assert.Equal(t, Change{From: StatusPending, To: StatusApproved, PaymentID: "pay-1", Applied: true}, change)
	})

	t.Run("Same status is a no-op", func(t *testing.T) {
		o := pendingOrder()
		o.Status = StatusApproved
		o.PaymentID = "pay-1"
		change, err := DecideTransition(o, approvedPayment(o))
		assert.NoError(t, err)
		assert.False(t, change.Applied)
		assert.Equal(t, StatusApproved, change.To)
	})

	t.Run("Provider pending is a no-op", func(t *testing.T) {
		o := pendingOrder()
		p := approvedPayment(o)
		p.Status = payment.StatusPending
		change, err := DecideTransition(o, p)
		assert.NoError(t, err)
		assert.False(t, change.Applied)
	})

	t.Run("In review then approved", func(t *testing.T) {
		o := pendingOrder()
		o.Status = StatusInReview
		change, err := DecideTransition(o, approvedPayment(o))
		assert.NoError(t, err)
		assert.True(t, change.Applied)
	})

	t.Run("Terminal state cannot be left", func(t *testing.T) {
		o := pendingOrder()
		o.Status = StatusApproved
		p := approvedPayment(o)
		p.Status = payment.StatusRefunded
		change, err := DecideTransition(o, p)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.False(t, change.Applied)
	})

	t.Run("Amount mismatch", func(t *testing.T) {
		o := pendingOrder()
		p := approvedPayment(o)
		p.Amount = decimal.NewFromInt(4999)
		_, err := DecideTransition(o, p)
		assert.ErrorIs(t, err, ErrAmountMismatch)
		assert.True(t, IsTerminalFailure(err))
	})

	t.Run("Currency mismatch", func(t *testing.T) {
		o := pendingOrder()
		p := approvedPayment(o)
		p.Currency = "USD"
		_, err := DecideTransition(o, p)
		assert.ErrorIs(t, err, ErrCurrencyMismatch)
	})

	t.Run("Rejection skips the amount check", func(t *testing.T) {
		o := pendingOrder()
		p := approvedPayment(o)
		p.Status = payment.StatusRejected
		p.Amount = decimal.Zero
		change, err := DecideTransition(o, p)
		assert.NoError(t, err)
		assert.Equal(t, StatusRejected, change.To)
	})

	t.Run("Reference mismatch", func(t *testing.T) {
		o := pendingOrder()
		p := approvedPayment(o)
		p.ExternalReference = uuid.NewString()
		_, err := DecideTransition(o, p)
		assert.ErrorIs(t, err, ErrReferenceMismatch)
	})
}
