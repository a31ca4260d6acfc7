package domain

import (
	"github.com/shopspring/decimal"
)

// Duration keys accepted in PlanInputs.Duration.
const (
	DurationPerpetual = "perpetual"
)

// PlanInputs is the validated record handed over by input collection. Nil rates
// fall back to the selected market's defaults.
type PlanInputs struct {
	Market         string           `json:"market" yaml:"market" validate:"required"`
	Duration       string           `json:"duration" yaml:"duration" validate:"omitempty,oneof=perpetual 30 25 20 15"`
	YearlyExpenses decimal.Decimal  `json:"yearly_expenses" yaml:"yearly_expenses" validate:"gt=0"`
	CurrentEquity  decimal.Decimal  `json:"current_equity" yaml:"current_equity" validate:"gte=0"`
	CurrentDebt    decimal.Decimal  `json:"current_debt" yaml:"current_debt" validate:"gte=0"`
	YearsToRetire  int              `json:"years_to_retire" yaml:"years_to_retire" validate:"gte=0,lte=60"`
	AverageReturn  *decimal.Decimal `json:"average_return,omitempty" yaml:"average_return,omitempty" validate:"omitempty,gte=-50,lte=50"`
	TaxRate        *decimal.Decimal `json:"tax_rate,omitempty" yaml:"tax_rate,omitempty" validate:"omitempty,gte=0,lt=100"`
	DebtReturn     *decimal.Decimal `json:"debt_return,omitempty" yaml:"debt_return,omitempty" validate:"omitempty,gte=-50,lte=50"`
	Inflation      *decimal.Decimal `json:"inflation,omitempty" yaml:"inflation,omitempty" validate:"omitempty,gte=-10,lte=50"`
	DividendYield  decimal.Decimal  `json:"dividend_yield" yaml:"dividend_yield" validate:"gte=0,lte=20"`
	SIPEnabled     bool             `json:"sip_enabled" yaml:"sip_enabled"`
	SIPStepUp      decimal.Decimal  `json:"sip_step_up" yaml:"sip_step_up" validate:"gte=0,lte=100"`
	// Seed makes the strong/weak start-year sampling reproducible; 0 picks a fresh seed.
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// Assumptions are the rates a plan was actually computed with.
type Assumptions struct {
	AverageReturn decimal.Decimal `json:"average_return"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	DebtReturn    decimal.Decimal `json:"debt_return"`
	Inflation     decimal.Decimal `json:"inflation"`
	DividendYield decimal.Decimal `json:"dividend_yield"`
}

// Projection is the compound growth of current holdings up to retirement.
type Projection struct {
	FutureEquity decimal.Decimal `json:"future_equity"`
	FutureDebt   decimal.Decimal `json:"future_debt"`
	FutureTotal  decimal.Decimal `json:"future_total"`
	EquityGrowth decimal.Decimal `json:"equity_growth"`
	DebtGrowth   decimal.Decimal `json:"debt_growth"`
}

// GapAnalysis compares the required corpus with the projected one.
type GapAnalysis struct {
	Required   decimal.Decimal `json:"required"`
	Projected  decimal.Decimal `json:"projected"`
	Difference decimal.Decimal `json:"difference"`
	IsSurplus  bool            `json:"is_surplus"`
	Status     string          `json:"status"`
}

// Allocation splits a corpus into equity and debt.
type Allocation struct {
	Equity decimal.Decimal `json:"equity"`
	Debt   decimal.Decimal `json:"debt"`
}

// Reallocation is the suggested move between debt and equity today.
type Reallocation struct {
	Action                    string          `json:"action"`
	Amount                    decimal.Decimal `json:"amount"`
	From                      string          `json:"from,omitempty"`
	To                        string          `json:"to,omitempty"`
	NewEquity                 decimal.Decimal `json:"new_equity"`
	NewDebt                   decimal.Decimal `json:"new_debt"`
	ProjectedEquity           decimal.Decimal `json:"projected_equity"`
	ProjectedDebt             decimal.Decimal `json:"projected_debt"`
	DebtShortfallAtRetirement decimal.Decimal `json:"debt_shortfall_at_retirement"`
	MoveAtRetirement          decimal.Decimal `json:"move_at_retirement"`
}

// ContributionPlan wraps the equity SIP schedule with the retirement-time debt top-up.
type ContributionPlan struct {
	Equity                 ContributionSchedule `json:"equity"`
	TotalInitialMonthly    decimal.Decimal      `json:"total_initial_monthly"`
	TotalFinalMonthly      decimal.Decimal      `json:"total_final_monthly"`
	TotalInvested          decimal.Decimal      `json:"total_invested"`
	MoveToDebtAtRetirement decimal.Decimal      `json:"move_to_debt_at_retirement"`
}

// SplitSimulation is a batch of runs for one equity:debt split.
type SplitSimulation struct {
	Label       string             `json:"label"`
	EquityRatio decimal.Decimal    `json:"equity_ratio"`
	Results     []SimulationResult `json:"results"`
	Analysis    SimulationSummary  `json:"analysis"`
}

// StartYearNote annotates a simulated start year with the prior year's P/E.
type StartYearNote struct {
	Year   int              `json:"year"`
	PrevPE *decimal.Decimal `json:"prev_pe,omitempty"`
	Band   string           `json:"band,omitempty"`
}

// HistoricalSimulation is the stress test of the projected corpus.
type HistoricalSimulation struct {
	Corpus     decimal.Decimal   `json:"corpus"`
	StartYears []StartYearNote   `json:"start_years"`
	Splits     []SplitSimulation `json:"splits"`
	IsSurplus  bool              `json:"is_surplus"`
}

// PlanResult is the bundle handed to rendering.
type PlanResult struct {
	Market               string                  `json:"market"`
	Currency             string                  `json:"currency"`
	Locale               string                  `json:"locale"`
	Duration             string                  `json:"duration"`
	Inputs               PlanInputs              `json:"inputs"`
	Assumptions          Assumptions             `json:"assumptions"`
	Yield                YieldResult             `json:"yield"`
	ExpensesAtRetirement decimal.Decimal         `json:"expenses_at_retirement"`
	ExpensesGrowth       decimal.Decimal         `json:"expenses_growth"`
	CorpusOptions        map[string]CorpusOption `json:"corpus_options"`
	SelectedCorpus       CorpusOption            `json:"selected_corpus"`
	Projection           Projection              `json:"projection"`
	Gap                  GapAnalysis             `json:"gap"`
	IdealAllocation      Allocation              `json:"ideal_allocation"`
	Reallocation         Reallocation            `json:"reallocation"`
	Contribution         *ContributionPlan       `json:"contribution,omitempty"`
	Simulation           HistoricalSimulation    `json:"simulation"`
}
