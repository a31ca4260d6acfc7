package calculation

import (
	"sort"

	"github.com/rpgo/corpus-planner/internal/marketdata"
	"github.com/shopspring/decimal"
)

// A start year is strong or weak by the return of the year that follows it.
var (
	strongYearReturn = decimal.NewFromInt(15)
	weakYearReturn   = decimal.NewFromInt(-10)
)

// RandomSource picks the strong and weak start years. *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// SelectYears picks up to count representative start years from valid. Every valid
// mustInclude year is kept. With a series, one strong and one weak year are added
// when slots remain, chosen through rnd (nil takes the first candidate). The rest is
// filled by striding evenly over the remaining years and then sequentially.
// The result is ascending and free of duplicates.
func SelectYears(valid []int, count int, mustInclude []int, series *marketdata.YearlyReturnSeries, rnd RandomSource) []int {
	if len(valid) == 0 || count <= 0 {
		return []int{}
	}

	validSet := make(map[int]bool, len(valid))
	for _, y := range valid {
		validSet[y] = true
	}

	selected := make(map[int]bool, count)
	add := func(y int) {
		if len(selected) < count {
			selected[y] = true
		}
	}

	for _, y := range mustInclude {
		if validSet[y] {
			add(y)
		}
	}

	if series != nil && len(selected) < count {
		strong := candidates(valid, series, func(r decimal.Decimal) bool { return r.GreaterThan(strongYearReturn) })
		weak := candidates(valid, series, func(r decimal.Decimal) bool { return r.LessThan(weakYearReturn) })
		if len(strong) > 0 {
			add(pick(strong, rnd))
		}
		if len(weak) > 0 {
			add(pick(weak, rnd))
		}
	}

	var remaining []int
	for _, y := range valid {
		if !selected[y] {
			remaining = append(remaining, y)
		}
	}

	if slots := count - len(selected); slots > 0 {
		step := max(1, len(remaining)/slots)
		for i := 0; len(selected) < count && i < len(remaining); i += step {
			add(remaining[i])
		}
	}
	for i := 0; len(selected) < count && i < len(remaining); i++ {
		add(remaining[i])
	}

	years := make([]int, 0, len(selected))
	for y := range selected {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// candidates returns the years whose following year has a nonzero return matching keep.
func candidates(valid []int, series *marketdata.YearlyReturnSeries, keep func(decimal.Decimal) bool) []int {
	var out []int
	for _, y := range valid {
		next, ok := series.Return(y + 1)
		if ok && !next.IsZero() && keep(next) {
			out = append(out, y)
		}
	}
	return out
}

func pick(years []int, rnd RandomSource) int {
	if rnd == nil {
		return years[0]
	}
	return years[rnd.Intn(len(years))]
}
