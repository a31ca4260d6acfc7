package calculation

import (
	"github.com/rpgo/corpus-planner/internal/domain"
	"github.com/shopspring/decimal"
)

var contributionTolerance = decimal.NewFromInt(100)

const (
	contributionMaxIterations = 100
	// contributionCeilingMonths sets the search ceiling at target / (years * 6).
	contributionCeilingMonths = 6
)

// SolveContribution finds the initial monthly contribution which, stepped up by
// stepUp percent every year and compounded monthly at annualReturn, grows to target
// after years. A non-positive target or horizon yields an all-zero schedule.
func SolveContribution(target, annualReturn, stepUp decimal.Decimal, years int) domain.ContributionSchedule {
	if !target.IsPositive() || years <= 0 {
		return domain.ContributionSchedule{Years: []domain.ContributionYear{}, Converged: true}
	}

	high := target.Div(decimal.NewFromInt(int64(years * contributionCeilingMonths)))
	found := Bisect(zero, high, contributionTolerance, contributionMaxIterations, func(monthly decimal.Decimal) bool {
		return ContributionFV(monthly, annualReturn, stepUp, years).GreaterThanOrEqual(target)
	})

	schedule := domain.ContributionSchedule{
		InitialMonthly: found.Value,
		Years:          make([]domain.ContributionYear, 0, years),
		Iterations:     found.Iterations,
		Converged:      found.Converged,
	}
	escalation := one.Add(pct(stepUp))
	monthly := found.Value
	total := zero
	for year := 1; year <= years; year++ {
		yearly := monthly.Mul(twelve)
		schedule.Years = append(schedule.Years, domain.ContributionYear{Year: year, Monthly: monthly, Yearly: yearly})
		total = total.Add(yearly)
		monthly = monthly.Mul(escalation).Round(calcPrecision)
	}
	schedule.FinalMonthly = schedule.Years[len(schedule.Years)-1].Monthly
	schedule.TotalInvested = total
	return schedule
}

// ContributionFV is the value after years of a monthly contribution starting at
// initialMonthly and stepped up yearly. Each year's contributions compound monthly
// to year end and then grow annually for the remaining years.
func ContributionFV(initialMonthly, annualReturn, stepUp decimal.Decimal, years int) decimal.Decimal {
	if years <= 0 || !initialMonthly.IsPositive() {
		return zero
	}

	monthlyRate := pct(annualReturn).Div(twelve)
	var annuity decimal.Decimal
	if monthlyRate.IsPositive() {
		monthlyGrowth := growthFactorFraction(monthlyRate, 12)
		annuity = monthlyGrowth.Sub(one).Div(monthlyRate).Mul(one.Add(monthlyRate))
	} else {
		annuity = twelve
	}

	escalation := one.Add(pct(stepUp))
	monthly := initialMonthly
	total := zero
	for year := 1; year <= years; year++ {
		yearEnd := monthly.Mul(annuity)
		total = total.Add(yearEnd.Mul(growthFactor(annualReturn, years-year))).Round(calcPrecision)
		monthly = monthly.Mul(escalation).Round(calcPrecision)
	}
	return total
}

// growthFactorFraction returns (1 + rate)^periods for a rate given as a fraction.
func growthFactorFraction(rate decimal.Decimal, periods int) decimal.Decimal {
	factor := one
	step := one.Add(rate)
	for i := 0; i < periods; i++ {
		factor = factor.Mul(step).Round(calcPrecision + 6)
	}
	return factor
}
