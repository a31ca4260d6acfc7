package domain

import (
	"github.com/shopspring/decimal"
)

// SimulationParameters are the inputs to one rebalancing simulation run.
// Rates are whole-number percentages (7 means 7%); EquityRatio is a fraction.
type SimulationParameters struct {
	StartingCorpus decimal.Decimal `json:"starting_corpus" yaml:"starting_corpus"`
	YearlyExpenses decimal.Decimal `json:"yearly_expenses" yaml:"yearly_expenses"`
	EquityRatio    decimal.Decimal `json:"equity_ratio" yaml:"equity_ratio"`
	YieldRate      decimal.Decimal `json:"yield_rate" yaml:"yield_rate"`
	DebtReturn     decimal.Decimal `json:"debt_return" yaml:"debt_return"`
	DividendYield  decimal.Decimal `json:"dividend_yield" yaml:"dividend_yield"`
	InflationRate  decimal.Decimal `json:"inflation_rate" yaml:"inflation_rate"`
	TaxRate        decimal.Decimal `json:"tax_rate" yaml:"tax_rate"`
	StartYear      int             `json:"start_year" yaml:"start_year"`
	MaxYears       int             `json:"max_years" yaml:"max_years"`
}

// LedgerEntry is one simulated year.
type LedgerEntry struct {
	Year             int             `json:"year"`
	SimulationYear   int             `json:"simulation_year"`
	MarketReturn     decimal.Decimal `json:"market_return"`
	Expenses         decimal.Decimal `json:"expenses"`
	PreTaxNeed       decimal.Decimal `json:"pre_tax_need"`
	EquityWithdrawal decimal.Decimal `json:"equity_withdrawal"`
	DebtWithdrawal   decimal.Decimal `json:"debt_withdrawal"`
	RebalancingTax   decimal.Decimal `json:"rebalancing_tax"`
	Equity           decimal.Decimal `json:"equity"`
	Debt             decimal.Decimal `json:"debt"`
	// TotalWealth is equity plus debt after the year's withdrawals, before any rebalancing tax.
	TotalWealth decimal.Decimal `json:"total_wealth"`
	CostBasis   decimal.Decimal `json:"cost_basis"`
	RanOut      bool            `json:"ran_out"`
}

// EndingBalance returns the portfolio value at the end of the year.
func (e LedgerEntry) EndingBalance() decimal.Decimal {
	return e.Equity.Add(e.Debt)
}

// SimulationResult summarises a single run. The ledger is owned by the result.
type SimulationResult struct {
	StartYear      int             `json:"start_year"`
	FinalYear      int             `json:"final_year"`
	YearsSimulated int             `json:"years_simulated"`
	StartingCorpus decimal.Decimal `json:"starting_corpus"`
	EndingCorpus   decimal.Decimal `json:"ending_corpus"`
	EquityRatio    decimal.Decimal `json:"equity_ratio"`
	Survived       bool            `json:"survived"`
	// RanOutYear is nil when the portfolio survived.
	RanOutYear *int          `json:"ran_out_year,omitempty"`
	Ledger     []LedgerEntry `json:"ledger"`
}

// SimulationSummary aggregates a batch of runs.
type SimulationSummary struct {
	Total               int               `json:"total_simulations"`
	Survived            int               `json:"survived"`
	Failed              int               `json:"failed"`
	SurvivalRate        decimal.Decimal   `json:"survival_rate"`
	BestCase            *SimulationResult `json:"best_case,omitempty"`
	WorstCase           *SimulationResult `json:"worst_case,omitempty"`
	AverageEndingCorpus decimal.Decimal   `json:"average_ending_corpus"`
}

// YieldResult is the outcome of the sustainable-yield solver.
type YieldResult struct {
	Years                     int             `json:"years"`
	Yield                     decimal.Decimal `json:"yield"`
	TotalBalance              decimal.Decimal `json:"total_balance"`
	InflationAdjustedExpenses decimal.Decimal `json:"inflation_adjusted_expenses"`
	// Sustainable is false when the return does not beat inflation and Yield is a placeholder.
	Sustainable bool `json:"sustainable"`
}

// CorpusRange is the spread of simulated required corpora across tested start years.
type CorpusRange struct {
	Min     decimal.Decimal `json:"min"`
	Max     decimal.Decimal `json:"max"`
	MinYear int             `json:"min_year"`
	MaxYear int             `json:"max_year"`
}

// CorpusOption pairs a named duration with a required-corpus estimate.
type CorpusOption struct {
	Key      string          `json:"key"`
	Duration string          `json:"duration"`
	Years    int             `json:"years"`
	Corpus   decimal.Decimal `json:"corpus"`
	Range    *CorpusRange    `json:"range,omitempty"`
	// Estimated marks a flat fallback that is not backed by simulation.
	Estimated bool `json:"estimated"`
}

// ContributionYear is one row of a step-up contribution schedule.
type ContributionYear struct {
	Year    int             `json:"year"`
	Monthly decimal.Decimal `json:"monthly"`
	Yearly  decimal.Decimal `json:"yearly"`
}

// ContributionSchedule is the solved SIP plan.
type ContributionSchedule struct {
	InitialMonthly decimal.Decimal    `json:"initial_monthly"`
	FinalMonthly   decimal.Decimal    `json:"final_monthly"`
	Years          []ContributionYear `json:"years"`
	TotalInvested  decimal.Decimal    `json:"total_invested"`
	Iterations     int                `json:"iterations"`
	Converged      bool               `json:"converged"`
}
