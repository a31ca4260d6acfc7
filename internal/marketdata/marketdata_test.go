package marketdata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestReturns(t *testing.T) {
	series := Returns(IndexTable{
		2000: d(100),
		2001: d(110),
		2002: d(88),
		2003: d(0),
		2004: d(50),
	})

	assert.Equal(t, []int{2001, 2002, 2003}, series.Years())
	r, ok := series.Return(2001)
	require.True(t, ok)
	assert.InDelta(t, 10, r.InexactFloat64(), 1e-9)
	r, _ = series.Return(2002)
	assert.InDelta(t, -20, r.InexactFloat64(), 1e-9)

	// A zero level has no defined return for the following year.
	_, ok = series.Return(2004)
	assert.False(t, ok)
	assert.Equal(t, 2001, series.FirstYear())
	assert.Equal(t, 2003, series.LastYear())
}

func TestEmptySeries(t *testing.T) {
	var s YearlyReturnSeries
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.FirstYear())
	assert.Equal(t, 0, s.LastYear())
	assert.Empty(t, s.Years())
}

func TestSeriesYearsIsACopy(t *testing.T) {
	s := NewYearlyReturnSeries(map[int]decimal.Decimal{2001: d(1), 2000: d(2)})
	years := s.Years()
	years[0] = 1900
	assert.Equal(t, []int{2000, 2001}, s.Years())
}

func TestLoadIndexCSV(t *testing.T) {
	table, err := LoadIndexCSV(strings.NewReader("year,level\n2000,100\nbad,1\n2001,x\n2002,121\n2003\n"))
	require.NoError(t, err)
	assert.Len(t, table, 2)
	assert.True(t, table[2002].Equal(d(121)))

	_, err = LoadIndexCSV(strings.NewReader("year,level\n"))
	assert.ErrorContains(t, err, "no valid data points")

	_, err = LoadIndexCSV(strings.NewReader("year\n2000\n"))
	assert.ErrorContains(t, err, "expected at least 2 columns")

	_, err = LoadIndexCSV(strings.NewReader(""))
	assert.ErrorContains(t, err, "failed to read header")
}

func TestLoadIndexFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.csv")
	require.NoError(t, os.WriteFile(path, []byte("year,level\n2000,100\n"), 0o644))

	table, err := LoadIndexFile(path)
	require.NoError(t, err)
	assert.Len(t, table, 1)

	_, err = LoadIndexFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorContains(t, err, "failed to open file")
}

func TestComputeStatistics(t *testing.T) {
	s := NewYearlyReturnSeries(map[int]decimal.Decimal{
		2000: d(10),
		2001: d(-10),
		2003: d(30),
	})
	stats := ComputeStatistics(s)

	assert.Equal(t, 3, stats.Count)
	assert.InDelta(t, 10, stats.Mean.InexactFloat64(), 1e-9)
	assert.InDelta(t, 16.3299, stats.StdDev.InexactFloat64(), 1e-4)
	assert.InDelta(t, -10, stats.Min.InexactFloat64(), 1e-9)
	assert.InDelta(t, 30, stats.Max.InexactFloat64(), 1e-9)
	assert.Equal(t, []int{2002}, stats.MissingYears)

	assert.Equal(t, Statistics{}, ComputeStatistics(YearlyReturnSeries{}))
}

func TestValidateDataQuality(t *testing.T) {
	s := NewYearlyReturnSeries(map[int]decimal.Decimal{
		2000: d(150),
		2002: d(-60),
	})
	issues := ValidateDataQuality("test", s)
	require.Len(t, issues, 3)
	assert.Contains(t, issues[0], "Missing years")
	assert.Contains(t, issues[1], "Extreme positive return in test for year 2000")
	assert.Contains(t, issues[2], "Extreme negative return in test for year 2002")
}

func TestBandAndPE(t *testing.T) {
	assert.Equal(t, PEBandLow, Band(d(14.9)))
	assert.Equal(t, PEBandNormal, Band(d(15)))
	assert.Equal(t, PEBandNormal, Band(d(25)))
	assert.Equal(t, PEBandHigh, Band(d(25.1)))

	table, err := LoadPECSV(strings.NewReader("year,pe\n1999,30.5\n"))
	require.NoError(t, err)
	pe, ok := table.PE(1999)
	require.True(t, ok)
	assert.True(t, pe.Equal(d(30.5)))
	_, ok = table.PE(2000)
	assert.False(t, ok)

	_, err = LoadPECSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestDefaultRegistry(t *testing.T) {
	registry, err := DefaultRegistry()
	require.NoError(t, err)

	assert.Equal(t, DefaultVersion, registry.Version())
	assert.Equal(t, []string{"sensex", "sp500"}, registry.IDs())

	sp500, err := registry.Market("sp500")
	require.NoError(t, err)
	assert.Equal(t, "$", sp500.Currency)
	assert.Equal(t, DataRange{StartYear: 1986, EndYear: 2025}, sp500.DataRange)
	assert.Greater(t, sp500.Returns.Len(), 30)
	_, ok := sp500.Returns.Return(2008)
	assert.True(t, ok)

	sensex, err := registry.Market("sensex")
	require.NoError(t, err)
	assert.Equal(t, "₹", sensex.Currency)
	assert.InDelta(t, 12.5, sensex.TaxRate.InexactFloat64(), 1e-9)

	_, err = registry.Market("nikkei")
	assert.ErrorIs(t, err, ErrUnknownMarket)
}

func TestCheckStartYear(t *testing.T) {
	registry, err := DefaultRegistry()
	require.NoError(t, err)
	m, err := registry.Market("sp500")
	require.NoError(t, err)

	first, last := m.Returns.FirstYear(), m.Returns.LastYear()
	assert.NoError(t, m.CheckStartYear(first))
	assert.NoError(t, m.CheckStartYear(last))
	assert.ErrorIs(t, m.CheckStartYear(1900), ErrStartYearOutOfRange)
	assert.ErrorIs(t, m.CheckStartYear(last+1), ErrStartYearOutOfRange)
	assert.ErrorIs(t, Market{ID: "empty"}.CheckStartYear(2000), ErrStartYearOutOfRange)
}

func TestRegistryOverridesAreCopies(t *testing.T) {
	registry, err := DefaultRegistry()
	require.NoError(t, err)

	withIndex, err := registry.WithIndex("sp500", IndexTable{2010: d(100), 2011: d(105)})
	require.NoError(t, err)
	assert.Equal(t, DefaultVersion+"+sp500-index", withIndex.Version())

	m, err := withIndex.Market("sp500")
	require.NoError(t, err)
	assert.Equal(t, DataRange{StartYear: 2011, EndYear: 2011}, m.DataRange)
	assert.Equal(t, 1, m.Returns.Len())

	original, err := registry.Market("sp500")
	require.NoError(t, err)
	assert.Equal(t, 1986, original.DataRange.StartYear)

	withPE, err := withIndex.WithPE("sp500", PETable{2010: d(20)})
	require.NoError(t, err)
	m, err = withPE.Market("sp500")
	require.NoError(t, err)
	assert.Len(t, m.PE, 1)
	assert.Equal(t, 1, m.Returns.Len())
	assert.Equal(t, []string{"sensex", "sp500"}, withPE.IDs())

	_, err = registry.WithPE("nikkei", nil)
	assert.ErrorIs(t, err, ErrUnknownMarket)
}
