package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// LocaleIndia selects lakh/crore digit grouping and units.
const LocaleIndia = "en-IN"

var (
	thousand = decimal.NewFromInt(1000)
	lakh     = decimal.NewFromInt(100000)
	million  = decimal.NewFromInt(1000000)
	crore    = decimal.NewFromInt(10000000)
)

// Money represents a monetary amount with proper financial precision
type Money struct {
	decimal.Decimal
}

// NewMoney creates a new Money instance from a float64
func NewMoney(value float64) Money {
	return Money{decimal.NewFromFloat(value)}
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// NewMoneyFromString creates a new Money instance from a string
func NewMoneyFromString(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// Round rounds the money amount to cents
func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}

// Annual converts a monthly amount to annual
func (m Money) Annual() Money {
	return Money{m.Decimal.Mul(decimal.NewFromInt(12))}
}

// Monthly converts an annual amount to monthly
func (m Money) Monthly() Money {
	return Money{m.Decimal.Div(decimal.NewFromInt(12))}
}

// String returns the amount with two decimal places
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format renders the whole amount with the locale's digit grouping, e.g.
// ₹12,34,567 for en-IN and $1,234,567 elsewhere.
func (m Money) Format(symbol, locale string) string {
	whole := m.Decimal.Round(0)
	sign := ""
	if whole.IsNegative() {
		sign = "-"
		whole = whole.Neg()
	}
	return sign + symbol + group(whole.String(), locale == LocaleIndia)
}

// Compact abbreviates large amounts: crore and lakh for en-IN, M and K elsewhere.
func (m Money) Compact(symbol, locale string) string {
	abs := m.Decimal.Abs()
	if locale == LocaleIndia {
		switch {
		case abs.GreaterThanOrEqual(crore):
			return symbol + m.Decimal.Div(crore).StringFixed(2) + " Cr"
		case abs.GreaterThanOrEqual(lakh):
			return symbol + m.Decimal.Div(lakh).StringFixed(2) + " L"
		}
		return m.Format(symbol, locale)
	}
	switch {
	case abs.GreaterThanOrEqual(million):
		return symbol + m.Decimal.Div(million).StringFixed(2) + "M"
	case abs.GreaterThanOrEqual(lakh):
		return symbol + m.Decimal.Div(thousand).StringFixed(0) + "K"
	}
	return m.Format(symbol, locale)
}

// Short is Compact with one decimal place, falling back to thousands.
func (m Money) Short(symbol, locale string) string {
	abs := m.Decimal.Abs()
	if locale == LocaleIndia {
		switch {
		case abs.GreaterThanOrEqual(crore):
			return symbol + m.Decimal.Div(crore).StringFixed(1) + " Cr"
		case abs.GreaterThanOrEqual(lakh):
			return symbol + m.Decimal.Div(lakh).StringFixed(1) + " L"
		}
	} else if abs.GreaterThanOrEqual(million) {
		return symbol + m.Decimal.Div(million).StringFixed(1) + "M"
	}
	return symbol + m.Decimal.Div(thousand).StringFixed(0) + "K"
}

func group(digits string, indian bool) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	size := 3
	if indian {
		size = 2
	}

	var parts []string
	for len(head) > size {
		parts = append([]string{head[len(head)-size:]}, parts...)
		head = head[:len(head)-size]
	}
	parts = append([]string{head}, parts...)
	return strings.Join(append(parts, tail), ",")
}
