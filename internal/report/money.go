// Package report renders projections and portfolios for the terminal,
// CSV and JSON.
package report

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders d in the currency's conventional format, e.g.
// "$1,234.56" or "-$12.00". Unknown codes, and amounts whose minor units
// do not fit in an int64, fall back to "1234.56 XYZ".
func FormatMoney(d decimal.Decimal, currency string) string {
	code := strings.ToUpper(currency)
	cur := money.GetCurrency(code)
	if cur == nil {
		return d.StringFixed(2) + " " + code
	}
	minor := d.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	if !minor.BigInt().IsInt64() {
		return d.StringFixed(int32(cur.Fraction)) + " " + code
	}
	return cur.Formatter().Format(minor.IntPart())
}

// FormatAmount renders an optional amount, or "-" when it is invalid.
func FormatAmount(valid bool, d decimal.Decimal, currency string) string {
	if !valid {
		return "-"
	}
	return FormatMoney(d, currency)
}
