package integration

import (
	"context"
	"testing"

	"github.com/rpgo/corpus-planner/internal/calculation"
	"github.com/rpgo/corpus-planner/internal/config"
	"github.com/rpgo/corpus-planner/internal/marketdata"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadPlan(t *testing.T) (*marketdata.Registry, *calculation.Planner) {
	t.Helper()
	registry, err := marketdata.DefaultRegistry()
	require.NoError(t, err)
	return registry, calculation.NewPlanner(registry)
}

func TestEndToEndPlan(t *testing.T) {
	registry, planner := loadPlan(t)

	parser := config.NewInputParser(registry)
	inputs, err := parser.LoadFromFile("../testdata/plan.yaml")
	require.NoError(t, err)
	assert.Equal(t, "sp500", inputs.Market)

	result, err := planner.Plan(context.Background(), *inputs)
	require.NoError(t, err)

	assert.Equal(t, "sp500", result.Market)
	assert.Equal(t, "20", result.Duration)
	assert.Equal(t, "20", result.SelectedCorpus.Key)
	assert.Len(t, result.CorpusOptions, 5)
	assert.True(t, result.Yield.Sustainable)
	assert.True(t, result.ExpensesAtRetirement.GreaterThan(inputs.YearlyExpenses))

	for _, key := range []string{"perpetual", "30", "25", "20", "15"} {
		assert.True(t, result.CorpusOptions[key].Corpus.GreaterThan(decimal.Zero), key)
	}

	assert.True(t, result.SelectedCorpus.Corpus.Equal(result.Gap.Required))
	assert.True(t, result.Gap.Projected.Sub(result.Gap.Required).Abs().Equal(result.Gap.Difference))

	if !result.Gap.IsSurplus {
		require.NotNil(t, result.Contribution)
		assert.True(t, result.Contribution.Equity.InitialMonthly.GreaterThan(decimal.Zero))
	}

	require.Len(t, result.Simulation.Splits, len(calculation.SimulationSplits))
	for _, split := range result.Simulation.Splits {
		assert.Equal(t, len(result.Simulation.StartYears), split.Analysis.Total)
		assert.Equal(t, split.Analysis.Total, split.Analysis.Survived+split.Analysis.Failed)
	}
}

func TestPlanIsReproducibleForSeed(t *testing.T) {
	registry, planner := loadPlan(t)
	inputs, err := config.NewInputParser(registry).LoadFromFile("../testdata/plan.yaml")
	require.NoError(t, err)

	first, err := planner.Plan(context.Background(), *inputs)
	require.NoError(t, err)
	second, err := planner.Plan(context.Background(), *inputs)
	require.NoError(t, err)

	assert.Equal(t, first.Simulation.StartYears, second.Simulation.StartYears)
	for key, opt := range first.CorpusOptions {
		assert.True(t, opt.Corpus.Equal(second.CorpusOptions[key].Corpus), key)
	}
}

func TestInvalidInputsRejected(t *testing.T) {
	registry, _ := loadPlan(t)

	_, err := config.NewInputParser(registry).LoadFromFile("../testdata/invalid_plan.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidInputs)
	assert.Contains(t, err.Error(), "YearlyExpenses")
	assert.Contains(t, err.Error(), "Duration")
}

func TestCancelledPlan(t *testing.T) {
	registry, planner := loadPlan(t)
	inputs, err := config.NewInputParser(registry).LoadFromFile("../testdata/plan.yaml")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = planner.Plan(ctx, *inputs)
	assert.ErrorIs(t, err, context.Canceled)
}
