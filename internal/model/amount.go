package model

import (
	"github.com/shopspring/decimal"
)

// Amount is an optional money value. An invalid Amount means the value was
// missing, null, or not a finite number.
type Amount struct {
	decimal.NullDecimal
}

// NewAmount returns a valid Amount holding d.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{decimal.NewNullDecimal(d)}
}

// ParseAmount parses s, returning an invalid Amount when s is not a number.
func ParseAmount(s string) Amount {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}
	}
	return NewAmount(d)
}

// UnmarshalJSON accepts numbers, numeric strings and null. Anything else
// decodes as an invalid Amount instead of failing the enclosing record.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var nd decimal.NullDecimal
	if err := nd.UnmarshalJSON(data); err != nil {
		*a = Amount{}
		return nil
	}
	*a = Amount{nd}
	return nil
}

// String renders the amount with two decimals, or "" when invalid.
func (a Amount) String() string {
	if !a.Valid {
		return ""
	}
	return a.Decimal.StringFixed(2)
}
