package calculation

import (
	"github.com/rpgo/corpus-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultYieldMaxYears caps the sustainable-yield search.
const DefaultYieldMaxYears = 100

// placeholderYield is reported when returns never beat inflation.
var placeholderYield = decimal.NewFromInt(1)

// SolveYield finds the percentage of a corpus that can be withdrawn every year while
// an expense-seeded accumulator, growing at annualReturn, outpaces twice the
// inflation-adjusted expenses plus the tax on their growth. All rates are percentages.
func SolveYield(annualExpenses, annualReturn, taxRate, inflationRate decimal.Decimal, maxYears int) domain.YieldResult {
	if maxYears <= 0 {
		maxYears = DefaultYieldMaxYears
	}
	if !annualExpenses.IsPositive() {
		return domain.YieldResult{}
	}

	r := pct(annualReturn)
	tax := pct(taxRate)
	inflation := pct(inflationRate)

	if r.LessThanOrEqual(inflation) {
		return domain.YieldResult{
			Years:                     maxYears,
			Yield:                     placeholderYield,
			TotalBalance:              annualExpenses.Mul(decimal.NewFromInt(int64(maxYears))),
			InflationAdjustedExpenses: annualExpenses.Mul(growthFactor(inflationRate, maxYears)).Round(calcPrecision),
			Sustainable:               false,
		}
	}

	adjusted := annualExpenses
	accumulated := annualExpenses
	for year := 1; year <= maxYears; year++ {
		adjusted = adjusted.Mul(one.Add(inflation)).Round(calcPrecision)
		accumulated = accumulated.Add(accumulated.Mul(r)).Round(calcPrecision)

		threshold := two.Mul(adjusted).Add(tax.Mul(adjusted.Sub(annualExpenses)))
		if accumulated.GreaterThanOrEqual(threshold) {
			return yieldAt(annualExpenses, annualReturn, inflationRate, adjusted, year)
		}
	}
	return yieldAt(annualExpenses, annualReturn, inflationRate, adjusted, maxYears)
}

func yieldAt(annualExpenses, annualReturn, inflationRate, adjusted decimal.Decimal, years int) domain.YieldResult {
	balance := InvestmentFV(annualExpenses, inflationRate, annualReturn, years)
	result := domain.YieldResult{
		Years:                     years,
		TotalBalance:              balance,
		InflationAdjustedExpenses: adjusted,
		Sustainable:               true,
	}
	if balance.IsPositive() {
		result.Yield = adjusted.Div(balance).Mul(hundred)
	}
	return result
}

// InvestmentFV is the future value of a monthly contribution stream seeded at
// initialAmount a year, compounded monthly at annualReturn and escalated by
// increaseRate at each year boundary.
func InvestmentFV(initialAmount, increaseRate, annualReturn decimal.Decimal, years int) decimal.Decimal {
	if years <= 0 {
		return zero
	}

	monthlyRate := pct(annualReturn).Div(twelve)
	escalation := one.Add(pct(increaseRate))
	contribution := initialAmount
	balance := zero

	for year := 1; year <= years; year++ {
		monthly := contribution.Div(twelve)
		for month := 1; month <= 12; month++ {
			invested := balance.Add(monthly)
			balance = balance.Add(invested.Mul(monthlyRate)).Add(monthly).Round(calcPrecision)
		}
		contribution = contribution.Mul(escalation).Round(calcPrecision)
	}
	return balance
}

// RequiredCorpus converts a yearly expense into the corpus that funds it at yieldRate percent.
func RequiredCorpus(yearlyExpenses, yieldRate decimal.Decimal) decimal.Decimal {
	if !yieldRate.IsPositive() {
		return yearlyExpenses.Mul(hundred)
	}
	return yearlyExpenses.Div(pct(yieldRate))
}
