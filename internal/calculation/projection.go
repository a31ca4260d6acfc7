package calculation

import (
	"github.com/rpgo/corpus-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// Reallocation actions.
const (
	ActionNone = "none"
	ActionMove = "move"
)

// Gap statuses.
const (
	StatusSurplus   = "surplus"
	StatusShortfall = "shortfall"
)

// reallocationThreshold is the smallest debt excess worth moving to equity today.
var reallocationThreshold = decimal.NewFromInt(1000)

// InflationAdjustedExpenses escalates today's expenses over years of inflation.
func InflationAdjustedExpenses(expenses, inflationRate decimal.Decimal, years int) decimal.Decimal {
	if years <= 0 {
		return expenses
	}
	return expenses.Mul(growthFactor(inflationRate, years)).Round(calcPrecision)
}

// ProjectInvestments compounds current holdings to retirement.
func ProjectInvestments(equity, debt, equityReturn, debtReturn decimal.Decimal, years int) domain.Projection {
	if years <= 0 {
		return domain.Projection{
			FutureEquity: equity,
			FutureDebt:   debt,
			FutureTotal:  equity.Add(debt),
			EquityGrowth: one,
			DebtGrowth:   one,
		}
	}

	futureEquity := equity.Mul(growthFactor(equityReturn, years)).Round(calcPrecision)
	futureDebt := debt.Mul(growthFactor(debtReturn, years)).Round(calcPrecision)
	p := domain.Projection{
		FutureEquity: futureEquity,
		FutureDebt:   futureDebt,
		FutureTotal:  futureEquity.Add(futureDebt),
	}
	if equity.IsPositive() {
		p.EquityGrowth = futureEquity.Div(equity)
	}
	if debt.IsPositive() {
		p.DebtGrowth = futureDebt.Div(debt)
	}
	return p
}

// IdealAllocation splits total by equityRatio.
func IdealAllocation(total, equityRatio decimal.Decimal) domain.Allocation {
	equity := total.Mul(equityRatio)
	return domain.Allocation{Equity: equity, Debt: total.Sub(equity)}
}

// Reallocate compares today's debt with what grows into the ideal retirement debt.
// Excess debt above the threshold moves to equity now; otherwise any debt shortfall
// projected at retirement is reported as an amount to move then.
func Reallocate(currentEquity, currentDebt, idealEquity, idealDebt, equityReturn, debtReturn decimal.Decimal, years int) domain.Reallocation {
	projectedEquity := currentEquity.Mul(growthFactor(equityReturn, years)).Round(calcPrecision)
	projectedDebt := currentDebt.Mul(growthFactor(debtReturn, years)).Round(calcPrecision)

	idealDebtNow := idealDebt
	if years > 0 {
		idealDebtNow = idealDebt.Div(growthFactor(debtReturn, years))
	}
	excess := currentDebt.Sub(idealDebtNow)

	r := domain.Reallocation{
		Action:          ActionNone,
		NewEquity:       currentEquity,
		NewDebt:         currentDebt,
		ProjectedEquity: projectedEquity,
		ProjectedDebt:   projectedDebt,
	}

	switch {
	case excess.GreaterThan(reallocationThreshold):
		newEquity := currentEquity.Add(excess)
		r.Action = ActionMove
		r.Amount = excess
		r.From = "debt"
		r.To = "equity"
		r.NewEquity = newEquity
		r.NewDebt = currentDebt.Sub(excess)
		r.ProjectedEquity = newEquity.Mul(growthFactor(equityReturn, years)).Round(calcPrecision)
		r.ProjectedDebt = idealDebt
	case projectedDebt.LessThan(idealDebt):
		shortfall := idealDebt.Sub(projectedDebt)
		r.DebtShortfallAtRetirement = shortfall
		r.MoveAtRetirement = shortfall
	}
	return r
}

// AnalyzeGap compares the required corpus with the projected one. Difference is absolute.
func AnalyzeGap(required, projected decimal.Decimal) domain.GapAnalysis {
	diff := projected.Sub(required)
	g := domain.GapAnalysis{
		Required:   required,
		Projected:  projected,
		Difference: diff.Abs(),
		IsSurplus:  !diff.IsNegative(),
		Status:     StatusShortfall,
	}
	if g.IsSurplus {
		g.Status = StatusSurplus
	}
	return g
}
