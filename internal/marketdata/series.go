// Package marketdata supplies the read-only historical tables the planner consumes:
// year-end index levels, the yearly returns derived from them and descriptive P/E data.
package marketdata

import (
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// IndexTable maps a calendar year to its year-end index level.
type IndexTable map[int]decimal.Decimal

// Years returns the table's years in ascending order.
func (t IndexTable) Years() []int {
	years := make([]int, 0, len(t))
	for y := range t {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// YearlyReturnSeries maps a calendar year to its percentage price return.
// A series is immutable once built.
type YearlyReturnSeries struct {
	returns map[int]decimal.Decimal
	years   []int
}

// NewYearlyReturnSeries builds a series from year -> percentage return.
func NewYearlyReturnSeries(returns map[int]decimal.Decimal) YearlyReturnSeries {
	s := YearlyReturnSeries{returns: make(map[int]decimal.Decimal, len(returns))}
	for y, r := range returns {
		s.returns[y] = r
		s.years = append(s.years, y)
	}
	sort.Ints(s.years)
	return s
}

// Returns derives the year-over-year percentage returns of an index table. Each
// return is keyed by the later year of the pair; the first year has none.
func Returns(table IndexTable) YearlyReturnSeries {
	years := table.Years()
	returns := make(map[int]decimal.Decimal, len(years))
	for i := 1; i < len(years); i++ {
		prev := table[years[i-1]]
		curr := table[years[i]]
		if prev.IsZero() {
			continue
		}
		returns[years[i]] = curr.Sub(prev).Div(prev).Mul(hundred)
	}
	return NewYearlyReturnSeries(returns)
}

// Return reports the percentage return for year, if present.
func (s YearlyReturnSeries) Return(year int) (decimal.Decimal, bool) {
	r, ok := s.returns[year]
	return r, ok
}

// Years returns a copy of the series years in ascending order.
func (s YearlyReturnSeries) Years() []int {
	return append([]int(nil), s.years...)
}

// Len is the number of years with a return.
func (s YearlyReturnSeries) Len() int { return len(s.years) }

// FirstYear is the earliest year with a return, or 0 for an empty series.
func (s YearlyReturnSeries) FirstYear() int {
	if len(s.years) == 0 {
		return 0
	}
	return s.years[0]
}

// LastYear is the latest year with a return, or 0 for an empty series.
func (s YearlyReturnSeries) LastYear() int {
	if len(s.years) == 0 {
		return 0
	}
	return s.years[len(s.years)-1]
}
