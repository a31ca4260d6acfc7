package calculation

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rpgo/corpus-planner/internal/domain"
	"github.com/rpgo/corpus-planner/internal/marketdata"
	"github.com/rpgo/corpus-planner/internal/metrics"
	"github.com/shopspring/decimal"
)

// SimulationHorizon is the window a historical start year must fit in to be stress tested.
const SimulationHorizon = 15

const (
	simulationSampleSize = 5
	simulationMaxYears   = 50
)

// MustIncludeYears are stress-tested whenever they are valid start years.
var MustIncludeYears = []int{2000, 2008}

// Split is an equity:debt mix run through the historical simulation.
type Split struct {
	Label       string
	EquityRatio decimal.Decimal
}

// SimulationSplits are the mixes every plan is stress tested with.
var SimulationSplits = []Split{
	{Label: "85:15", EquityRatio: decimal.NewFromFloat(0.85)},
	{Label: "60:40", EquityRatio: decimal.NewFromFloat(0.60)},
}

// Planner computes a full plan: sustainable yield, corpus options, projection and
// gap, reallocation, optional contribution schedule and a historical stress test.
type Planner struct {
	Registry *marketdata.Registry
	// Workers bounds concurrent corpus searches and simulations.
	Workers int
	Logger  Logger
}

// NewPlanner creates a planner reading market data from registry.
func NewPlanner(registry *marketdata.Registry) *Planner {
	return &Planner{
		Registry: registry,
		Workers:  DefaultWorkers,
		Logger:   NopLogger{},
	}
}

// SetLogger sets the logger for the planner. If nil is provided, a no-op logger is used.
func (p *Planner) SetLogger(l Logger) {
	if l == nil {
		p.Logger = NopLogger{}
		return
	}
	p.Logger = l
}

func (p *Planner) logger() Logger {
	if p.Logger == nil {
		return NopLogger{}
	}
	return p.Logger
}

// ResolveAssumptions fills unset rates in inputs from the market defaults.
func ResolveAssumptions(inputs domain.PlanInputs, m marketdata.Market) domain.Assumptions {
	pick := func(v *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
		if v == nil {
			return def
		}
		return *v
	}
	return domain.Assumptions{
		AverageReturn: pick(inputs.AverageReturn, m.AverageReturn),
		TaxRate:       pick(inputs.TaxRate, m.TaxRate),
		DebtReturn:    pick(inputs.DebtReturn, m.DebtReturn),
		Inflation:     pick(inputs.Inflation, m.Inflation),
		DividendYield: inputs.DividendYield,
	}
}

// Plan runs the whole pipeline for inputs. Numeric edge cases never fail; only an
// unknown market or a cancelled context returns an error.
func (p *Planner) Plan(ctx context.Context, inputs domain.PlanInputs) (*domain.PlanResult, error) {
	started := time.Now()
	result, err := p.plan(ctx, inputs)

	status := "success"
	switch {
	case err == nil:
	case ctx.Err() != nil:
		status = "cancelled"
	default:
		status = "failure"
	}
	metrics.RecordPlan(inputs.Market, status, time.Since(started).Seconds())
	return result, err
}

func (p *Planner) plan(ctx context.Context, inputs domain.PlanInputs) (*domain.PlanResult, error) {
	if p.Registry == nil {
		return nil, fmt.Errorf("planner has no market registry")
	}
	m, err := p.Registry.Market(inputs.Market)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve market: %w", err)
	}
	log := p.logger()

	a := ResolveAssumptions(inputs, m)
	duration := inputs.Duration
	if duration == "" {
		duration = domain.DurationPerpetual
	}

	seed := inputs.Seed
	if seed == 0 {
		seed = seedFunc()
	}
	log.Debugf("planning market=%s duration=%s seed=%d data=%s", m.ID, duration, seed, p.Registry.Version())

	yield := SolveYield(inputs.YearlyExpenses, a.AverageReturn, a.TaxRate, a.Inflation, DefaultYieldMaxYears)
	if !yield.Sustainable {
		log.Warnf("return %s%% does not beat inflation %s%%; yield is a placeholder", a.AverageReturn, a.Inflation)
	}

	expensesAtRetirement := InflationAdjustedExpenses(inputs.YearlyExpenses, a.Inflation, inputs.YearsToRetire)
	expensesGrowth := one
	if inputs.YearsToRetire > 0 && inputs.YearlyExpenses.IsPositive() {
		expensesGrowth = expensesAtRetirement.Div(inputs.YearlyExpenses)
	}

	options, err := p.corpusOptions(ctx, CorpusSearchParams{
		YearlyExpenses: expensesAtRetirement,
		EquityRatio:    DefaultEquityRatio,
		YieldRate:      yield.Yield,
		DebtReturn:     a.DebtReturn,
		DividendYield:  a.DividendYield,
		InflationRate:  a.Inflation,
		TaxRate:        a.TaxRate,
	}, m, seed)
	if err != nil {
		return nil, err
	}
	selected, ok := options[duration]
	if !ok {
		selected = options[domain.DurationPerpetual]
	}

	projection := ProjectInvestments(inputs.CurrentEquity, inputs.CurrentDebt, a.AverageReturn, a.DebtReturn, inputs.YearsToRetire)
	gap := AnalyzeGap(selected.Corpus, projection.FutureTotal)
	ideal := IdealAllocation(selected.Corpus, DefaultEquityRatio)
	realloc := Reallocate(inputs.CurrentEquity, inputs.CurrentDebt, ideal.Equity, ideal.Debt, a.AverageReturn, a.DebtReturn, inputs.YearsToRetire)

	var contribution *domain.ContributionPlan
	if inputs.SIPEnabled && !gap.IsSurplus {
		contribution = p.contributionPlan(inputs, a, selected, ideal, realloc)
	}

	corpus := projection.FutureTotal
	if inputs.YearsToRetire == 0 {
		corpus = inputs.CurrentEquity.Add(inputs.CurrentDebt)
	}
	simulation, err := p.historicalSimulation(ctx, m, a, corpus, expensesAtRetirement, yield.Yield, seed)
	if err != nil {
		return nil, err
	}
	simulation.IsSurplus = gap.IsSurplus

	log.Infof("plan complete market=%s corpus=%s status=%s", m.ID, selected.Corpus.StringFixed(0), gap.Status)

	return &domain.PlanResult{
		Market:               m.ID,
		Currency:             m.Currency,
		Locale:               m.Locale,
		Duration:             duration,
		Inputs:               inputs,
		Assumptions:          a,
		Yield:                yield,
		ExpensesAtRetirement: expensesAtRetirement,
		ExpensesGrowth:       expensesGrowth,
		CorpusOptions:        options,
		SelectedCorpus:       selected,
		Projection:           projection,
		Gap:                  gap,
		IdealAllocation:      ideal,
		Reallocation:         realloc,
		Contribution:         contribution,
		Simulation:           simulation,
	}, nil
}

// corpusOptions sizes every finite duration concurrently. Each job owns a random
// source derived from seed so the sample does not depend on scheduling.
func (p *Planner) corpusOptions(ctx context.Context, params CorpusSearchParams, m marketdata.Market, seed int64) (map[string]domain.CorpusOption, error) {
	sized := make([]domain.CorpusOption, len(CorpusDurations))
	err := RunBatch(ctx, len(CorpusDurations), p.Workers, func(i int) {
		option, found := sizeDuration(params, CorpusDurations[i], m.DataRange, m.Returns, sourceFor(seed, i))
		for _, r := range found.Results {
			metrics.RecordSearch("corpus", r.Iterations)
		}
		sized[i] = option
	})
	if err != nil {
		return nil, fmt.Errorf("corpus sizing interrupted: %w", err)
	}

	options := map[string]domain.CorpusOption{
		domain.DurationPerpetual: PerpetualOption(params.YearlyExpenses, params.YieldRate),
	}
	for _, o := range sized {
		if o.Estimated {
			p.logger().Warnf("no start years cover %d years in %s data; using flat estimate", o.Years, m.ID)
		}
		options[o.Key] = o
	}
	return options, nil
}

func (p *Planner) contributionPlan(inputs domain.PlanInputs, a domain.Assumptions, selected domain.CorpusOption, ideal domain.Allocation, realloc domain.Reallocation) *domain.ContributionPlan {
	after := ProjectInvestments(realloc.NewEquity, realloc.NewDebt, a.AverageReturn, a.DebtReturn, inputs.YearsToRetire)
	gap := selected.Corpus.Sub(after.FutureTotal)
	if !gap.IsPositive() || inputs.YearsToRetire <= 0 {
		return nil
	}

	schedule := SolveContribution(gap, a.AverageReturn, inputs.SIPStepUp, inputs.YearsToRetire)
	metrics.RecordSearch("contribution", schedule.Iterations)
	if !schedule.Converged {
		p.logger().Warnf("contribution search stopped after %d iterations", schedule.Iterations)
	}
	return &domain.ContributionPlan{
		Equity:                 schedule,
		TotalInitialMonthly:    schedule.InitialMonthly,
		TotalFinalMonthly:      schedule.FinalMonthly,
		TotalInvested:          schedule.TotalInvested,
		MoveToDebtAtRetirement: ideal.Debt.Sub(after.FutureDebt),
	}
}

// historicalSimulation stress tests corpus over sampled start years for every split.
func (p *Planner) historicalSimulation(ctx context.Context, m marketdata.Market, a domain.Assumptions, corpus, expenses, yieldRate decimal.Decimal, seed int64) (domain.HistoricalSimulation, error) {
	valid := ValidStartYears(m.DataRange, SimulationHorizon)
	years := SelectYears(valid, simulationSampleSize, MustIncludeYears, &m.Returns, sourceFor(seed, len(CorpusDurations)))

	sim := domain.HistoricalSimulation{
		Corpus:     corpus,
		StartYears: annotate(years, m),
		Splits:     make([]domain.SplitSimulation, len(SimulationSplits)),
	}

	results := make([][]domain.SimulationResult, len(SimulationSplits))
	for s := range results {
		results[s] = make([]domain.SimulationResult, len(years))
	}

	jobs := len(SimulationSplits) * len(years)
	err := RunBatch(ctx, jobs, p.Workers, func(i int) {
		s, y := i/len(years), i%len(years)
		results[s][y] = Simulate(domain.SimulationParameters{
			StartingCorpus: corpus,
			YearlyExpenses: expenses,
			EquityRatio:    SimulationSplits[s].EquityRatio,
			YieldRate:      yieldRate,
			DebtReturn:     a.DebtReturn,
			DividendYield:  a.DividendYield,
			InflationRate:  a.Inflation,
			TaxRate:        a.TaxRate,
			StartYear:      years[y],
			MaxYears:       simulationMaxYears,
		}, m.Returns)
	})
	if err != nil {
		return domain.HistoricalSimulation{}, fmt.Errorf("historical simulation interrupted: %w", err)
	}

	for s, split := range SimulationSplits {
		summary := AnalyzeResults(results[s])
		for _, r := range results[s] {
			metrics.RecordSimulation(split.Label, r.Survived)
		}
		if summary.Total > 0 {
			metrics.UpdateSurvivalRate(m.ID, split.Label, summary.SurvivalRate.InexactFloat64())
		}
		sim.Splits[s] = domain.SplitSimulation{
			Label:       split.Label,
			EquityRatio: split.EquityRatio,
			Results:     results[s],
			Analysis:    summary,
		}
		p.logger().Debugf("split %s: %d/%d survived", split.Label, summary.Survived, summary.Total)
	}
	return sim, nil
}

// annotate attaches the P/E at the end of the year before each start year.
func annotate(years []int, m marketdata.Market) []domain.StartYearNote {
	notes := make([]domain.StartYearNote, 0, len(years))
	for _, y := range years {
		note := domain.StartYearNote{Year: y}
		if pe, ok := m.PE.PE(y - 1); ok {
			note.PrevPE = &pe
			note.Band = marketdata.Band(pe)
		}
		notes = append(notes, note)
	}
	return notes
}

func sourceFor(seed int64, job int) RandomSource {
	return rand.New(rand.NewSource(seed + int64(job)))
}
