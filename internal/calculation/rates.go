package calculation

import "github.com/shopspring/decimal"

// calcPrecision bounds the scale of running balances so repeated compounding
// does not grow decimal mantissas without limit.
const calcPrecision = 10

var (
	zero    = decimal.Zero
	one     = decimal.NewFromInt(1)
	two     = decimal.NewFromInt(2)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// pct converts a whole-number percentage into a fraction.
func pct(rate decimal.Decimal) decimal.Decimal {
	return rate.Div(hundred)
}

// growthFactor returns (1 + rate/100)^years for a non-negative year count.
func growthFactor(rate decimal.Decimal, years int) decimal.Decimal {
	factor := one
	step := one.Add(pct(rate))
	for i := 0; i < years; i++ {
		factor = factor.Mul(step).Round(calcPrecision)
	}
	return factor
}

func minDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

func maxDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}
