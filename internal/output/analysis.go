package output

import (
	"github.com/rpgo/corpus-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation names the equity:debt split that held up best in the historical runs.
type Recommendation struct {
	Label               string
	SurvivalRate        decimal.Decimal
	AverageEndingCorpus decimal.Decimal
}

// RecommendSplit picks the split with the highest survival rate, breaking ties on
// average ending corpus and then on order. It returns the zero value when nothing ran.
func RecommendSplit(sim domain.HistoricalSimulation) Recommendation {
	var best *domain.SplitSimulation
	for i := range sim.Splits {
		s := &sim.Splits[i]
		if s.Analysis.Total == 0 {
			continue
		}
		if best == nil {
			best = s
			continue
		}
		switch s.Analysis.SurvivalRate.Cmp(best.Analysis.SurvivalRate) {
		case 1:
			best = s
		case 0:
			if s.Analysis.AverageEndingCorpus.GreaterThan(best.Analysis.AverageEndingCorpus) {
				best = s
			}
		}
	}
	if best == nil {
		return Recommendation{}
	}
	return Recommendation{
		Label:               best.Label,
		SurvivalRate:        best.Analysis.SurvivalRate,
		AverageEndingCorpus: best.Analysis.AverageEndingCorpus,
	}
}
