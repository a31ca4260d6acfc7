package calculation

import (
	"testing"

	"github.com/rpgo/corpus-planner/internal/marketdata"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func dp(v float64) *decimal.Decimal {
	x := decimal.NewFromFloat(v)
	return &x
}

// constantSeries returns the same percentage return for every year in [from, to].
func constantSeries(from, to int, ret float64) marketdata.YearlyReturnSeries {
	returns := make(map[int]decimal.Decimal, to-from+1)
	for y := from; y <= to; y++ {
		returns[y] = d(ret)
	}
	return marketdata.NewYearlyReturnSeries(returns)
}

func defaultRegistry(t *testing.T) *marketdata.Registry {
	t.Helper()
	registry, err := marketdata.DefaultRegistry()
	require.NoError(t, err)
	return registry
}

func sp500(t *testing.T) marketdata.Market {
	t.Helper()
	m, err := defaultRegistry(t).Market("sp500")
	require.NoError(t, err)
	return m
}
