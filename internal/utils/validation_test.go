package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleBuyer struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
}

type sampleRequest struct {
	Items  []string    `validate:"required,min=1"`
	Buyer  sampleBuyer `validate:"required"`
	Option string      `validate:"oneof=pickup delivery"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		req := sampleRequest{
			Items:  []string{"ravioles-de-carne"},
			Buyer:  sampleBuyer{Name: "Ana", Email: "ana@example.com"},
			Option: "pickup",
		}
		assert.NoError(t, ValidateStruct(req))
	})

	t.Run("Collects field messages", func(t *testing.T) {
		req := sampleRequest{
			Buyer:  sampleBuyer{Name: "Ana", Email: "not-an-email"},
			Option: "drone",
		}

		err := ValidateStruct(req)
		ve, ok := IsValidationError(err)
		require.True(t, ok)
		assert.Contains(t, ve.Details, "items is required")
		assert.Contains(t, ve.Details, "buyer.email must be a valid email")
		assert.Contains(t, ve.Details, "option must be one of [pickup delivery]")
	})
}

func TestIsValidationError(t *testing.T) {
	wrapped := fmt.Errorf("checkout: %w", NewValidationError("buyer.phone is required"))

	ve, ok := IsValidationError(wrapped)
	require.True(t, ok)
	assert.Equal(t, []string{"buyer.phone is required"}, ve.Details)
	assert.Contains(t, wrapped.Error(), "buyer.phone is required")

	_, ok = IsValidationError(errors.New("plain"))
	assert.False(t, ok)
}
