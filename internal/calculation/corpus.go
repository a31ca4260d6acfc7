package calculation

import (
	"fmt"
	"strconv"

	"github.com/rpgo/corpus-planner/internal/domain"
	"github.com/rpgo/corpus-planner/internal/marketdata"
	"github.com/shopspring/decimal"
)

// Corpus search bounds, expressed in multiples of yearly expenses.
var (
	corpusLowMultiple  = decimal.NewFromInt(5)
	corpusHighMultiple = decimal.NewFromInt(100)
	corpusTolerance    = decimal.NewFromFloat(0.05)
)

const (
	corpusMaxIterations = 50
	// corpusHorizonSlack extends each trial run past the target horizon.
	corpusHorizonSlack = 5
	// corpusSampleSize is how many start years a finite duration is sized against.
	corpusSampleSize = 5
)

// DefaultEquityRatio is the split corpus sizing assumes when none is given.
var DefaultEquityRatio = decimal.NewFromFloat(0.85)

// CorpusDurations are the finite horizons offered next to the perpetual option.
var CorpusDurations = []int{30, 25, 20, 15}

// CorpusSearchParams are the simulation inputs that stay fixed while the starting
// corpus is searched.
type CorpusSearchParams struct {
	YearlyExpenses decimal.Decimal
	EquityRatio    decimal.Decimal
	YieldRate      decimal.Decimal
	DebtReturn     decimal.Decimal
	DividendYield  decimal.Decimal
	InflationRate  decimal.Decimal
	TaxRate        decimal.Decimal
}

func (p CorpusSearchParams) simulation(corpus decimal.Decimal, startYear, maxYears int) domain.SimulationParameters {
	ratio := p.EquityRatio
	if ratio.IsZero() {
		ratio = DefaultEquityRatio
	}
	return domain.SimulationParameters{
		StartingCorpus: corpus,
		YearlyExpenses: p.YearlyExpenses,
		EquityRatio:    ratio,
		YieldRate:      p.YieldRate,
		DebtReturn:     p.DebtReturn,
		DividendYield:  p.DividendYield,
		InflationRate:  p.InflationRate,
		TaxRate:        p.TaxRate,
		StartYear:      startYear,
		MaxYears:       maxYears,
	}
}

// CorpusForYear is the minimum corpus found for one start year.
type CorpusForYear struct {
	StartYear  int             `json:"start_year"`
	Corpus     decimal.Decimal `json:"corpus"`
	Iterations int             `json:"iterations"`
	Converged  bool            `json:"converged"`
}

// CorpusSearchResult aggregates the per-start-year searches.
type CorpusSearchResult struct {
	Results []CorpusForYear `json:"results"`
	Min     decimal.Decimal `json:"min"`
	Max     decimal.Decimal `json:"max"`
	Average decimal.Decimal `json:"average"`
	MinYear int             `json:"min_year"`
	MaxYear int             `json:"max_year"`
	// Estimated marks the flat expenses-times-years fallback used when no start year could be tested.
	Estimated bool `json:"estimated"`
}

// FindCorpusForDuration searches, per test start year, for the smallest starting
// corpus whose simulation lasts targetYears.
func FindCorpusForDuration(params CorpusSearchParams, targetYears int, testYears []int, series marketdata.YearlyReturnSeries) CorpusSearchResult {
	if len(testYears) == 0 {
		flat := params.YearlyExpenses.Mul(decimal.NewFromInt(int64(targetYears)))
		return CorpusSearchResult{Min: flat, Max: flat, Average: flat, Estimated: true}
	}

	low := params.YearlyExpenses.Mul(corpusLowMultiple)
	high := params.YearlyExpenses.Mul(corpusHighMultiple)
	tolerance := params.YearlyExpenses.Mul(corpusTolerance)

	result := CorpusSearchResult{Results: make([]CorpusForYear, 0, len(testYears))}
	sum := zero
	for i, startYear := range testYears {
		found := Bisect(low, high, tolerance, corpusMaxIterations, func(corpus decimal.Decimal) bool {
			run := Simulate(params.simulation(corpus, startYear, targetYears+corpusHorizonSlack), series)
			return run.Survived && run.YearsSimulated >= targetYears
		})
		result.Results = append(result.Results, CorpusForYear{
			StartYear:  startYear,
			Corpus:     found.Value,
			Iterations: found.Iterations,
			Converged:  found.Converged,
		})
		sum = sum.Add(found.Value)

		if i == 0 || found.Value.LessThan(result.Min) {
			result.Min, result.MinYear = found.Value, startYear
		}
		if i == 0 || found.Value.GreaterThan(result.Max) {
			result.Max, result.MaxYear = found.Value, startYear
		}
	}
	result.Average = sum.Div(decimal.NewFromInt(int64(len(testYears))))
	return result
}

// ValidStartYears lists the start years whose duration-year window ends inside the data range.
func ValidStartYears(dataRange marketdata.DataRange, duration int) []int {
	var years []int
	for y := dataRange.StartYear; y <= dataRange.EndYear-duration; y++ {
		years = append(years, y)
	}
	return years
}

// PerpetualOption is the corpus that funds expenses forever at the sustainable yield.
func PerpetualOption(expenses, yieldRate decimal.Decimal) domain.CorpusOption {
	return domain.CorpusOption{
		Key:      domain.DurationPerpetual,
		Duration: "Perpetual",
		Corpus:   RequiredCorpus(expenses, yieldRate),
	}
}

// CorpusOptionFor sizes a finite duration against a sample of historical start years.
// The sample is biased towards strong and weak following years when rnd allows.
func CorpusOptionFor(params CorpusSearchParams, years int, dataRange marketdata.DataRange, series marketdata.YearlyReturnSeries, rnd RandomSource) domain.CorpusOption {
	option, _ := sizeDuration(params, years, dataRange, series, rnd)
	return option
}

func sizeDuration(params CorpusSearchParams, years int, dataRange marketdata.DataRange, series marketdata.YearlyReturnSeries, rnd RandomSource) (domain.CorpusOption, CorpusSearchResult) {
	valid := ValidStartYears(dataRange, years)
	testYears := SelectYears(valid, min(corpusSampleSize, len(valid)), nil, &series, rnd)
	found := FindCorpusForDuration(params, years, testYears, series)

	option := domain.CorpusOption{
		Key:       strconv.Itoa(years),
		Duration:  fmt.Sprintf("%d years", years),
		Years:     years,
		Corpus:    found.Average,
		Estimated: found.Estimated,
	}
	if !found.Estimated {
		option.Range = &domain.CorpusRange{
			Min:     found.Min,
			Max:     found.Max,
			MinYear: found.MinYear,
			MaxYear: found.MaxYear,
		}
	}
	return option, found
}

// CorpusOptions builds the perpetual option and one option per CorpusDurations entry.
func CorpusOptions(params CorpusSearchParams, dataRange marketdata.DataRange, series marketdata.YearlyReturnSeries, rnd RandomSource) map[string]domain.CorpusOption {
	options := map[string]domain.CorpusOption{
		domain.DurationPerpetual: PerpetualOption(params.YearlyExpenses, params.YieldRate),
	}
	for _, years := range CorpusDurations {
		option := CorpusOptionFor(params, years, dataRange, series, rnd)
		options[option.Key] = option
	}
	return options
}
