package graph

import (
	"testing"
	"time"

	"paulapastas-be/internal/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapOrderToGraphQL(t *testing.T) {
	id := uuid.New()
	paid := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	o := order.Order{
		ID:             id,
		Number:         "PP-261001-AB12CD",
		Buyer:          order.Buyer{Name: "Ana", Email: "ana@example.com", Phone: "1155550000"},
		Items:          []order.Item{{ProductID: "noquis", Name: "Ñoquis", Quantity: 2, UnitPrice: decimal.NewFromInt(1800)}},
		DeliveryOption: order.DeliveryPickup,
		DeliveryFee:    decimal.Zero,
		Total:          decimal.NewFromInt(3600),
		Currency:       "ARS",
		Status:         order.StatusApproved,
		PaymentID:      "991",
		PaidAt:         &paid,
	}

	got := MapOrderToGraphQL(o)

	assert.Equal(t, id.String(), got.ID)
	assert.Equal(t, "Ana", got.BuyerName)
	assert.Equal(t, "pickup", got.DeliveryOption)
	assert.Equal(t, "approved", got.Status)
	assert.Nil(t, got.Address)
	require.NotNil(t, got.PaymentID)
	assert.Equal(t, "991", *got.PaymentID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "1800", got.Items[0].UnitPrice.Decimal().String())
	assert.Equal(t, "3600", got.Total.Decimal().String())
	assert.Equal(t, &paid, got.PaidAt)
}

func TestParseID(t *testing.T) {
	n, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	for _, bad := range []string{"", "-1", "0", "x1"} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}
