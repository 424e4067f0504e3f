package order

import (
	"fmt"
	"strings"

	"paulapastas-be/internal/payment"
)

// DecideTransition computes what applying p to o should do without touching
// storage. A payment whose status is already reflected on the order, or that
// implies no status (provider "pending"), yields a Change with Applied false.
func DecideTransition(o *Order, p payment.Payment) (Change, error) {
	change := Change{From: o.Status, To: o.Status, PaymentID: p.ID}

	if p.ExternalReference != "" && p.ExternalReference != o.ID.String() {
		return change, fmt.Errorf("%w: payment %s references %s", ErrReferenceMismatch, p.ID, p.ExternalReference)
	}

	target, ok := StatusFromPayment(p.Status)
	if !ok || target == o.Status {
		return change, nil
	}

	if !o.Status.CanTransitionTo(target) {
		return change, fmt.Errorf("%w: %s -> %s (payment %s)", ErrInvalidTransition, o.Status, target, p.ID)
	}

	if target == StatusApproved {
		if !p.Amount.Equal(o.Total) {
			return change, fmt.Errorf("%w: paid %s, expected %s", ErrAmountMismatch, p.Amount, o.Total)
		}
		if !strings.EqualFold(p.Currency, o.Currency) {
			return change, fmt.Errorf("%w: paid in %s, expected %s", ErrCurrencyMismatch, p.Currency, o.Currency)
		}
	}

	change.To = target
	change.Applied = true
	return change, nil
}
