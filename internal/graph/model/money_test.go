package model

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_MarshalGQL(t *testing.T) {
	var buf bytes.Buffer
	NewMoney(decimal.RequireFromString("2500.50")).MarshalGQL(&buf)

	assert.Equal(t, `"2500.5"`, buf.String())
}

func TestMoney_UnmarshalGQL(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    string
		wantErr bool
	}{
		{"string", "1999.99", "1999.99", false},
		{"json number", json.Number("12.5"), "12.5", false},
		{"int", 300, "300", false},
		{"int64", int64(42), "42", false},
		{"float", 10.25, "10.25", false},
		{"bad string", "doce", "", true},
		{"bool", true, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Money
			err := m.UnmarshalGQL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Decimal().String())
		})
	}
}

func TestRole(t *testing.T) {
	var r Role
	require.NoError(t, r.UnmarshalGQL("ADMIN"))
	assert.Equal(t, RoleAdmin, r)
	assert.Error(t, r.UnmarshalGQL("OWNER"))
	assert.Error(t, r.UnmarshalGQL(7))
}
