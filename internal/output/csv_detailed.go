package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/corpus-planner/internal/domain"
)

// CSVLedgerExporter writes every simulated year: one row per split, start year and year.
type CSVLedgerExporter struct{}

func (c CSVLedgerExporter) Name() string { return "csv" }

func (c CSVLedgerExporter) Format(r *domain.PlanResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Split", "StartYear", "SimulationYear", "Year", "MarketReturn", "Expenses", "PreTaxNeed",
		"EquityWithdrawal", "DebtWithdrawal", "RebalancingTax", "Equity", "Debt", "TotalWealth", "CostBasis", "RanOut"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, split := range r.Simulation.Splits {
		for _, res := range split.Results {
			for _, e := range res.Ledger {
				row := []string{
					split.Label,
					intToString(res.StartYear),
					intToString(e.SimulationYear),
					intToString(e.Year),
					e.MarketReturn.StringFixed(2),
					e.Expenses.StringFixed(2),
					e.PreTaxNeed.StringFixed(2),
					e.EquityWithdrawal.StringFixed(2),
					e.DebtWithdrawal.StringFixed(2),
					e.RebalancingTax.StringFixed(2),
					e.Equity.StringFixed(2),
					e.Debt.StringFixed(2),
					e.TotalWealth.StringFixed(2),
					e.CostBasis.StringFixed(2),
					boolToString(e.RanOut),
				}
				if err := w.Write(row); err != nil {
					return nil, err
				}
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
