package calculation

import (
	"sort"
	"testing"

	"github.com/rpgo/corpus-planner/internal/marketdata"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lastSource always picks the last candidate.
type lastSource struct{}

func (lastSource) Intn(n int) int { return n - 1 }

func yearRange(from, to int) []int {
	years := make([]int, 0, to-from+1)
	for y := from; y <= to; y++ {
		years = append(years, y)
	}
	return years
}

func TestSelectYearsMustIncludeAndStride(t *testing.T) {
	years := SelectYears(yearRange(1990, 2019), 5, []int{2000}, nil, nil)

	assert.Equal(t, []int{1990, 1997, 2000, 2005, 2012}, years)
}

func TestSelectYearsProperties(t *testing.T) {
	valid := yearRange(1990, 2019)
	m := sp500(t)

	for seed := int64(1); seed <= 20; seed++ {
		for _, must := range []int{1990, 2000, 2019} {
			years := SelectYears(valid, 5, []int{must}, &m.Returns, NewRandomSource(seed))

			assert.Contains(t, years, must)
			assert.LessOrEqual(t, len(years), 5)
			assert.Len(t, years, 5)
			assert.True(t, sort.IntsAreSorted(years))
			for i := 1; i < len(years); i++ {
				assert.NotEqual(t, years[i-1], years[i])
			}
		}
	}
}

func TestSelectYearsStrongAndWeak(t *testing.T) {
	returns := make(map[int]decimal.Decimal)
	for y := 1990; y <= 2021; y++ {
		returns[y] = d(5)
	}
	returns[1996] = d(30)
	returns[1998] = d(22)
	returns[2009] = d(-40)
	returns[2012] = d(0)
	series := marketdata.NewYearlyReturnSeries(returns)

	years := SelectYears(yearRange(1990, 2019), 5, []int{2000}, &series, nil)
	assert.Contains(t, years, 1995, "first strong candidate")
	assert.Contains(t, years, 2008, "only weak candidate")
	assert.Contains(t, years, 2000)
	assert.Len(t, years, 5)

	years = SelectYears(yearRange(1990, 2019), 5, nil, &series, lastSource{})
	assert.Contains(t, years, 1997, "last strong candidate")
	assert.Contains(t, years, 2008)
}

func TestSelectYearsReproducible(t *testing.T) {
	m := sp500(t)
	valid := ValidStartYears(m.DataRange, 15)

	first := SelectYears(valid, 5, MustIncludeYears, &m.Returns, NewRandomSource(99))
	second := SelectYears(valid, 5, MustIncludeYears, &m.Returns, NewRandomSource(99))

	assert.Equal(t, first, second)
	assert.Contains(t, first, 2000)
	assert.Contains(t, first, 2008)
}

func TestSelectYearsEdgeCases(t *testing.T) {
	assert.Empty(t, SelectYears(nil, 5, []int{2000}, nil, nil))
	assert.Empty(t, SelectYears(yearRange(2000, 2005), 0, nil, nil, nil))

	// Fewer valid years than requested returns them all.
	assert.Equal(t, []int{2000, 2001, 2002}, SelectYears(yearRange(2000, 2002), 5, nil, nil, nil))

	// Invalid and duplicate must-include years are ignored.
	years := SelectYears(yearRange(2000, 2009), 3, []int{1950, 2004, 2004}, nil, nil)
	require.Len(t, years, 3)
	assert.Contains(t, years, 2004)

	// Must-include years never push the result past count.
	years = SelectYears(yearRange(2000, 2009), 2, []int{2001, 2003, 2005}, nil, nil)
	assert.Equal(t, []int{2001, 2003}, years)
}

func TestNewRandomSourceUsesSeedFunc(t *testing.T) {
	original := seedFunc
	SetSeedFunc(func() int64 { return 1234 })
	defer SetSeedFunc(original)

	a := NewRandomSource(0)
	b := NewRandomSource(1234)
	for i := 0; i < 10; i++ {
		assert.Equal(t, b.Intn(1000), a.Intn(1000))
	}
}
