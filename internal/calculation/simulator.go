package calculation

import (
	"github.com/rpgo/corpus-planner/internal/domain"
	"github.com/rpgo/corpus-planner/internal/marketdata"
	"github.com/shopspring/decimal"
)

// DefaultSimulationYears caps a run when SimulationParameters.MaxYears is unset.
const DefaultSimulationYears = 50

// fallbackReturn is the market return used for a year missing from the series.
var fallbackReturn = decimal.NewFromInt(5)

// Simulate runs one withdrawal-and-rebalance scenario year by year against the
// historical return series. It never fails: degenerate inputs produce a
// terminated result instead.
//
// Each year expenses escalate by inflation, are grossed up for tax, and are drawn
// from equity up to the yield rate with the remainder taken from debt. A debt
// shortfall is absorbed by equity in the same year. The run ends when equity is
// exhausted; otherwise the portfolio is rebalanced to EquityRatio, paying tax on
// the gain portion of any equity sold.
func Simulate(params domain.SimulationParameters, series marketdata.YearlyReturnSeries) domain.SimulationResult {
	maxYears := params.MaxYears
	if maxYears <= 0 {
		maxYears = DefaultSimulationYears
	}

	if !params.StartingCorpus.IsPositive() {
		ranOut := params.StartYear
		return domain.SimulationResult{
			StartYear:   params.StartYear,
			FinalYear:   params.StartYear,
			EquityRatio: params.EquityRatio,
			Survived:    false,
			RanOutYear:  &ranOut,
			Ledger:      []domain.LedgerEntry{},
		}
	}

	equityRatio := params.EquityRatio
	dividend := pct(params.DividendYield)
	debtRate := pct(params.DebtReturn)
	inflation := pct(params.InflationRate)
	tax := pct(params.TaxRate)
	yieldRate := pct(params.YieldRate)

	equity := params.StartingCorpus.Mul(equityRatio).Round(calcPrecision)
	debt := params.StartingCorpus.Sub(equity)
	costBasis := equity
	expenses := params.YearlyExpenses

	endYear := series.LastYear()
	year := params.StartYear
	simYear := 0
	var ranOutYear *int
	ledger := make([]domain.LedgerEntry, 0, max(0, min(maxYears, endYear-year+1)))

	for simYear < maxYears && year <= endYear && ranOutYear == nil {
		simYear++

		marketReturn, ok := series.Return(year)
		if !ok {
			marketReturn = fallbackReturn
		}

		expenses = expenses.Mul(one.Add(inflation)).Round(calcPrecision)

		equityGrown := equity.Mul(one.Add(pct(marketReturn)).Add(dividend)).Round(calcPrecision)
		debtGrown := debt.Mul(one.Add(debtRate)).Round(calcPrecision)

		// A tax rate of 100% or more cannot be grossed up; the whole portfolio is needed.
		var preTaxNeed decimal.Decimal
		if tax.LessThan(one) {
			preTaxNeed = expenses.Div(one.Sub(tax)).Round(calcPrecision)
		} else {
			preTaxNeed = equityGrown.Add(debtGrown)
		}

		yieldAmount := equityGrown.Mul(yieldRate).Round(calcPrecision)
		equityWithdrawal := preTaxNeed
		debtWithdrawal := zero
		if yieldAmount.LessThan(preTaxNeed) {
			equityWithdrawal = yieldAmount
			debtWithdrawal = preTaxNeed.Sub(yieldAmount)
		}
		equityLeft := equityGrown.Sub(equityWithdrawal)
		debtLeft := debtGrown.Sub(debtWithdrawal)

		if equityGrown.IsPositive() && equityWithdrawal.IsPositive() {
			costBasis = costBasis.Mul(one.Sub(equityWithdrawal.Div(equityGrown))).Round(calcPrecision)
		}

		if debtLeft.IsNegative() {
			shortfall := debtLeft.Neg()
			equityLeft = equityLeft.Sub(shortfall)
			debtLeft = zero
			if equityLeft.IsPositive() {
				costBasis = costBasis.Mul(one.Sub(shortfall.Div(equityLeft.Add(shortfall)))).Round(calcPrecision)
			}
		}

		if !equityLeft.IsPositive() {
			y := year
			ranOutYear = &y
			equityLeft = zero
		}

		totalWealth := equityLeft.Add(debtLeft)
		rebalancingTax := zero
		if ranOutYear == nil && totalWealth.IsPositive() {
			idealEquity := totalWealth.Mul(equityRatio)
			switch {
			case equityLeft.GreaterThan(idealEquity):
				excess := equityLeft.Sub(idealEquity)
				rebalancingTax = maxDecimal(zero, excess.Mul(gainRatio(equityLeft, costBasis)).Mul(tax)).Round(calcPrecision)
				costBasis = costBasis.Mul(one.Sub(excess.Div(equityLeft))).Round(calcPrecision)
			case equityLeft.LessThan(idealEquity):
				costBasis = costBasis.Add(idealEquity.Sub(equityLeft)).Round(calcPrecision)
			}
			net := totalWealth.Sub(rebalancingTax)
			equity = net.Mul(equityRatio).Round(calcPrecision)
			debt = net.Sub(equity)
		} else {
			equity = equityLeft
			debt = debtLeft
		}

		ledger = append(ledger, domain.LedgerEntry{
			Year:             year,
			SimulationYear:   simYear,
			MarketReturn:     marketReturn,
			Expenses:         expenses,
			PreTaxNeed:       preTaxNeed,
			EquityWithdrawal: equityWithdrawal,
			DebtWithdrawal:   debtWithdrawal,
			RebalancingTax:   rebalancingTax,
			Equity:           equity,
			Debt:             debt,
			TotalWealth:      totalWealth,
			CostBasis:        costBasis,
			RanOut:           ranOutYear != nil,
		})
		year++
	}

	return domain.SimulationResult{
		StartYear:      params.StartYear,
		FinalYear:      year - 1,
		YearsSimulated: simYear,
		StartingCorpus: params.StartingCorpus,
		EndingCorpus:   equity.Add(debt),
		EquityRatio:    equityRatio,
		Survived:       ranOutYear == nil,
		RanOutYear:     ranOutYear,
		Ledger:         ledger,
	}
}

// gainRatio is the taxable share of an equity sale, clamped to [0, 1]. Cost basis
// is not bounded by the equity it tracks, so the raw ratio can leave that range.
func gainRatio(equity, costBasis decimal.Decimal) decimal.Decimal {
	if !equity.IsPositive() || !equity.GreaterThan(costBasis) {
		return zero
	}
	return minDecimal(one, equity.Sub(costBasis).Div(equity))
}

// SimulateMany runs params once per start year, in order.
func SimulateMany(params domain.SimulationParameters, startYears []int, series marketdata.YearlyReturnSeries) []domain.SimulationResult {
	results := make([]domain.SimulationResult, 0, len(startYears))
	for _, y := range startYears {
		p := params
		p.StartYear = y
		results = append(results, Simulate(p, series))
	}
	return results
}
