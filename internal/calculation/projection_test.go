package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInflationAdjustedExpenses(t *testing.T) {
	assert.InDelta(t, 100000, InflationAdjustedExpenses(d(100000), d(7), 0).InexactFloat64(), 1e-9)
	assert.InDelta(t, 121000, InflationAdjustedExpenses(d(100000), d(10), 2).InexactFloat64(), 1e-6)
	assert.InDelta(t, 196715.14, InflationAdjustedExpenses(d(100000), d(7), 10).InexactFloat64(), 0.01)
}

func TestProjectInvestments(t *testing.T) {
	p := ProjectInvestments(d(100000), d(50000), d(10), d(5), 2)

	assert.InDelta(t, 121000, p.FutureEquity.InexactFloat64(), 1e-6)
	assert.InDelta(t, 55125, p.FutureDebt.InexactFloat64(), 1e-6)
	assert.InDelta(t, 176125, p.FutureTotal.InexactFloat64(), 1e-6)
	assert.InDelta(t, 1.21, p.EquityGrowth.InexactFloat64(), 1e-9)
	assert.InDelta(t, 1.1025, p.DebtGrowth.InexactFloat64(), 1e-9)

	now := ProjectInvestments(d(100000), d(50000), d(10), d(5), 0)
	assert.InDelta(t, 150000, now.FutureTotal.InexactFloat64(), 1e-9)
	assert.InDelta(t, 1, now.EquityGrowth.InexactFloat64(), 1e-9)

	empty := ProjectInvestments(d(0), d(0), d(10), d(5), 5)
	assert.True(t, empty.FutureTotal.IsZero())
	assert.True(t, empty.EquityGrowth.IsZero())
	assert.True(t, empty.DebtGrowth.IsZero())
}

func TestIdealAllocation(t *testing.T) {
	a := IdealAllocation(d(1000000), DefaultEquityRatio)
	assert.InDelta(t, 850000, a.Equity.InexactFloat64(), 1e-9)
	assert.InDelta(t, 150000, a.Debt.InexactFloat64(), 1e-9)
}

func TestReallocate(t *testing.T) {
	t.Run("excess debt moves to equity", func(t *testing.T) {
		r := Reallocate(d(100000), d(500000), d(1000000), d(200000), d(10), d(0), 5)

		assert.Equal(t, ActionMove, r.Action)
		assert.Equal(t, "debt", r.From)
		assert.Equal(t, "equity", r.To)
		assert.InDelta(t, 300000, r.Amount.InexactFloat64(), 1e-6)
		assert.InDelta(t, 400000, r.NewEquity.InexactFloat64(), 1e-6)
		assert.InDelta(t, 200000, r.NewDebt.InexactFloat64(), 1e-6)
		assert.InDelta(t, 644204, r.ProjectedEquity.InexactFloat64(), 1e-3)
		assert.InDelta(t, 200000, r.ProjectedDebt.InexactFloat64(), 1e-6)
		assert.True(t, r.DebtShortfallAtRetirement.IsZero())
	})

	t.Run("small excess is left alone", func(t *testing.T) {
		r := Reallocate(d(100000), d(200500), d(1000000), d(200000), d(10), d(0), 5)
		assert.Equal(t, ActionNone, r.Action)
		assert.True(t, r.Amount.IsZero())
	})

	t.Run("projected debt shortfall", func(t *testing.T) {
		r := Reallocate(d(500000), d(10000), d(1000000), d(200000), d(10), d(5), 2)

		assert.Equal(t, ActionNone, r.Action)
		assert.InDelta(t, 11025, r.ProjectedDebt.InexactFloat64(), 1e-6)
		assert.InDelta(t, 188975, r.DebtShortfallAtRetirement.InexactFloat64(), 1e-6)
		assert.True(t, r.MoveAtRetirement.Equal(r.DebtShortfallAtRetirement))
		assert.InDelta(t, 500000, r.NewEquity.InexactFloat64(), 1e-9)
	})

	t.Run("debt on track", func(t *testing.T) {
		r := Reallocate(d(500000), d(100000), d(1000000), d(110250), d(10), d(5), 2)

		assert.Equal(t, ActionNone, r.Action)
		assert.True(t, r.DebtShortfallAtRetirement.IsZero())
		assert.True(t, r.MoveAtRetirement.IsZero())
	})
}

func TestAnalyzeGap(t *testing.T) {
	surplus := AnalyzeGap(d(100), d(150))
	assert.True(t, surplus.IsSurplus)
	assert.Equal(t, StatusSurplus, surplus.Status)
	assert.InDelta(t, 50, surplus.Difference.InexactFloat64(), 1e-9)

	shortfall := AnalyzeGap(d(150), d(100))
	assert.False(t, shortfall.IsSurplus)
	assert.Equal(t, StatusShortfall, shortfall.Status)
	assert.InDelta(t, 50, shortfall.Difference.InexactFloat64(), 1e-9)

	even := AnalyzeGap(d(100), d(100))
	assert.True(t, even.IsSurplus)
}
