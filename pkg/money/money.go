package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Money represents a currency amount with cent precision for display and rounding.
// The projection engine computes in float64; Money is the boundary where values
// are rounded and rendered.
type Money struct {
	decimal.Decimal
}

// NewMoney creates a new Money instance from a float64
func NewMoney(value float64) Money {
	return Money{decimal.NewFromFloat(value)}
}

// NewMoneyFromString creates a new Money instance from a string
func NewMoneyFromString(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// Round rounds the amount to cents.
func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}

// Float64 returns the amount as a float64.
func (m Money) Float64() float64 {
	return m.Decimal.InexactFloat64()
}

// Monthly converts an annual amount to monthly
func (m Money) Monthly() Money {
	return Money{m.Decimal.Div(decimal.NewFromInt(12))}
}

// String returns the plain two-decimal representation (no currency symbol).
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format renders the amount as US currency with thousands separators, e.g. "$1,234.56".
func (m Money) Format() string {
	r := m.Round()
	if r.IsNegative() {
		return "-$" + printer.Sprintf("%.2f", r.Neg().InexactFloat64())
	}
	return "$" + printer.Sprintf("%.2f", r.InexactFloat64())
}

// RoundCents rounds a float64 currency amount to cents.
func RoundCents(v float64) float64 {
	return NewMoney(v).Round().Float64()
}

// FormatUSD formats a float64 amount as US currency.
func FormatUSD(v float64) string {
	return NewMoney(v).Format()
}

// FormatPercent formats a percentage value with the given number of decimals, e.g. "7.00%".
func FormatPercent(pct float64, places int32) string {
	return decimal.NewFromFloat(pct).StringFixed(places) + "%"
}
