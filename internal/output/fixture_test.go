package output

import (
	"github.com/rpgo/corpus-planner/internal/domain"
	"github.com/shopspring/decimal"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func ledger(start, years int) []domain.LedgerEntry {
	entries := make([]domain.LedgerEntry, 0, years)
	for i := 0; i < years; i++ {
		entries = append(entries, domain.LedgerEntry{
			Year:           start + i,
			SimulationYear: i + 1,
			MarketReturn:   dec(7.5),
			Expenses:       dec(40000),
			Equity:         dec(200000),
			Debt:           dec(35000),
			TotalWealth:    dec(235000),
		})
	}
	return entries
}

func buildTestResult() *domain.PlanResult {
	ranOut := 2010
	pe := dec(30.5)
	options := map[string]domain.CorpusOption{
		domain.DurationPerpetual: {Key: domain.DurationPerpetual, Duration: "Perpetual", Corpus: dec(1000000)},
		"25": {
			Key: "25", Duration: "25 years", Years: 25, Corpus: dec(900000),
			Range: &domain.CorpusRange{Min: dec(850000), Max: dec(950000), MinYear: 1990, MaxYear: 2000},
		},
		"15": {Key: "15", Duration: "15 years", Years: 15, Corpus: dec(600000), Estimated: true},
	}

	return &domain.PlanResult{
		Market:   "sp500",
		Currency: "$",
		Locale:   "en-US",
		Duration: "25",
		Inputs: domain.PlanInputs{
			Market:         "sp500",
			Duration:       "25",
			YearlyExpenses: dec(40000),
			CurrentEquity:  dec(100000),
			CurrentDebt:    dec(20000),
			YearsToRetire:  10,
			SIPEnabled:     true,
			SIPStepUp:      dec(10),
		},
		Assumptions: domain.Assumptions{
			AverageReturn: dec(9),
			TaxRate:       dec(15),
			DebtReturn:    dec(5),
			Inflation:     dec(3),
		},
		Yield:                domain.YieldResult{Years: 13, Yield: dec(5.13), Sustainable: true},
		ExpensesAtRetirement: dec(53756.66),
		ExpensesGrowth:       dec(1.3439),
		CorpusOptions:        options,
		SelectedCorpus:       options["25"],
		Projection: domain.Projection{
			FutureEquity: dec(236736.37),
			FutureDebt:   dec(32577.89),
			FutureTotal:  dec(269314.26),
			EquityGrowth: dec(2.37),
			DebtGrowth:   dec(1.63),
		},
		Gap: domain.GapAnalysis{
			Required:   dec(900000),
			Projected:  dec(269314.26),
			Difference: dec(630685.74),
			Status:     "shortfall",
		},
		IdealAllocation: domain.Allocation{Equity: dec(765000), Debt: dec(135000)},
		Reallocation: domain.Reallocation{
			Action: "move", Amount: dec(5000), From: "debt", To: "equity",
		},
		Contribution: &domain.ContributionPlan{
			Equity: domain.ContributionSchedule{
				Years: []domain.ContributionYear{
					{Year: 1, Monthly: dec(2500), Yearly: dec(30000)},
					{Year: 2, Monthly: dec(2750), Yearly: dec(33000)},
				},
			},
			TotalInitialMonthly: dec(2500),
			TotalFinalMonthly:   dec(2750),
			TotalInvested:       dec(63000),
		},
		Simulation: domain.HistoricalSimulation{
			Corpus: dec(269314.26),
			StartYears: []domain.StartYearNote{
				{Year: 2000, PrevPE: &pe, Band: "high"},
				{Year: 2008},
			},
			Splits: []domain.SplitSimulation{
				{
					Label:       "85:15",
					EquityRatio: dec(0.85),
					Results: []domain.SimulationResult{
						{StartYear: 2000, YearsSimulated: 2, Survived: true, EndingCorpus: dec(150000), Ledger: ledger(2000, 2)},
						{StartYear: 2008, YearsSimulated: 3, RanOutYear: &ranOut, Ledger: ledger(2008, 1)},
					},
					Analysis: domain.SimulationSummary{Total: 2, Survived: 1, Failed: 1, SurvivalRate: dec(50), AverageEndingCorpus: dec(150000)},
				},
				{
					Label:       "60:40",
					EquityRatio: dec(0.6),
					Results: []domain.SimulationResult{
						{StartYear: 2000, YearsSimulated: 2, Survived: true, EndingCorpus: dec(120000), Ledger: ledger(2000, 1)},
						{StartYear: 2008, YearsSimulated: 2, Survived: true, EndingCorpus: dec(90000), Ledger: ledger(2008, 1)},
					},
					Analysis: domain.SimulationSummary{Total: 2, Survived: 2, SurvivalRate: dec(100), AverageEndingCorpus: dec(105000)},
				},
			},
		},
	}
}
