package calculation

import (
	"github.com/rpgo/corpus-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// AnalyzeResults summarises a batch of runs. Any failed run is worse than every
// survivor, so the worst case is the earliest failure when one exists and the
// poorest survivor otherwise. Unlike a year-count comparison, a failure replaces the
// poorest survivor even when it lasted longer. The average ending corpus counts
// survivors only.
func AnalyzeResults(results []domain.SimulationResult) domain.SimulationSummary {
	summary := domain.SimulationSummary{Total: len(results)}
	if len(results) == 0 {
		return summary
	}

	var best, poorest, firstFailure *domain.SimulationResult
	survivedTotal := zero
	for i := range results {
		r := &results[i]
		if r.Survived {
			summary.Survived++
			survivedTotal = survivedTotal.Add(r.EndingCorpus)
			if best == nil || r.EndingCorpus.GreaterThan(best.EndingCorpus) {
				best = r
			}
			if poorest == nil || r.EndingCorpus.LessThan(poorest.EndingCorpus) {
				poorest = r
			}
			continue
		}
		summary.Failed++
		if firstFailure == nil || r.YearsSimulated < firstFailure.YearsSimulated {
			firstFailure = r
		}
	}

	summary.SurvivalRate = decimal.NewFromInt(int64(summary.Survived)).
		Div(decimal.NewFromInt(int64(summary.Total))).
		Mul(hundred)
	summary.BestCase = best
	summary.WorstCase = poorest
	if firstFailure != nil {
		summary.WorstCase = firstFailure
	}
	if summary.Survived > 0 {
		summary.AverageEndingCorpus = survivedTotal.Div(decimal.NewFromInt(int64(summary.Survived)))
	}
	return summary
}
