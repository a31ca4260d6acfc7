package calculation

import "github.com/shopspring/decimal"

// BisectResult is the outcome of a bisection search.
type BisectResult struct {
	Value      decimal.Decimal
	Low        decimal.Decimal
	High       decimal.Decimal
	Iterations int
	// Converged is false when the iteration cap stopped the search before the
	// bracket narrowed to the tolerance. Value is the best midpoint either way.
	Converged bool
}

// Bisect narrows [low, high] around the smallest feasible value. feasible must be
// monotonic: once true for some x it must stay true for every larger x. A feasible
// midpoint moves the upper bound down, an infeasible one moves the lower bound up.
func Bisect(low, high, tolerance decimal.Decimal, maxIterations int, feasible func(decimal.Decimal) bool) BisectResult {
	iterations := 0
	for high.Sub(low).GreaterThan(tolerance) && iterations < maxIterations {
		iterations++
		mid := low.Add(high).Div(two)
		if feasible(mid) {
			high = mid
		} else {
			low = mid
		}
	}
	return BisectResult{
		Value:      low.Add(high).Div(two),
		Low:        low,
		High:       high,
		Iterations: iterations,
		Converged:  !high.Sub(low).GreaterThan(tolerance),
	}
}
