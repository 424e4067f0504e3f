package model

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
)

// Money carries prices as decimal strings so the client never sees float
// rounding.
type Money decimal.Decimal

func NewMoney(d decimal.Decimal) Money {
	return Money(d)
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.Decimal(m)
}

func (m Money) MarshalGQL(w io.Writer) {
	_, _ = io.WriteString(w, strconv.Quote(m.Decimal().String()))
}

func (m *Money) UnmarshalGQL(v any) error {
	var (
		d   decimal.Decimal
		err error
	)
	switch v := v.(type) {
	case string:
		d, err = decimal.NewFromString(v)
	case json.Number:
		d, err = decimal.NewFromString(v.String())
	case int:
		d = decimal.NewFromInt(int64(v))
	case int64:
		d = decimal.NewFromInt(v)
	case float64:
		d = decimal.NewFromFloat(v)
	default:
		return fmt.Errorf("money must be a string or number, got %T", v)
	}
	if err != nil {
		return fmt.Errorf("invalid money %v: %w", v, err)
	}
	*m = Money(d)
	return nil
}
