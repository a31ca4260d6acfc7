package output

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/rpgo/corpus-planner/internal/calculation"
	"github.com/rpgo/corpus-planner/internal/domain"
)

// ConsoleFormatter renders the full plan as a plain-text report.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(r *domain.PlanResult) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "RETIREMENT CORPUS PLAN")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Market: %s   Duration: %s\n", r.Market, r.SelectedCorpus.Duration)
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "Assumptions:")
	for _, a := range GenerateAssumptions(r) {
		fmt.Fprintf(&buf, "  - %s\n", a)
	}
	fmt.Fprintln(&buf)

	writeYield(&buf, r)
	writeCorpusOptions(&buf, r)
	writeProjection(&buf, r)
	writeGap(&buf, r)
	writeContribution(&buf, r)
	writeSimulation(&buf, r)
	return buf.Bytes(), nil
}

func writeYield(buf *bytes.Buffer, r *domain.PlanResult) {
	fmt.Fprintln(buf, "SUSTAINABLE WITHDRAWAL")
	if !r.Yield.Sustainable {
		fmt.Fprintln(buf, "  Returns do not beat inflation; no withdrawal rate is sustainable.")
	} else {
		fmt.Fprintf(buf, "  Safe yield: %s (balance carries %d years of expenses)\n", FormatPercentage(r.Yield.Yield), r.Yield.Years)
	}
	fmt.Fprintf(buf, "  Expenses today: %s\n", FormatCurrency(r, r.Inputs.YearlyExpenses))
	if r.Inputs.YearsToRetire > 0 {
		fmt.Fprintf(buf, "  Expenses at retirement (%d yrs): %s (%sx)\n",
			r.Inputs.YearsToRetire, FormatCurrency(r, r.ExpensesAtRetirement), r.ExpensesGrowth.StringFixed(2))
	}
	fmt.Fprintln(buf)
}

func writeCorpusOptions(buf *bytes.Buffer, r *domain.PlanResult) {
	fmt.Fprintln(buf, "REQUIRED CORPUS")
	for _, key := range optionKeys() {
		opt, ok := r.CorpusOptions[key]
		if !ok {
			continue
		}
		marker := " "
		if key == r.SelectedCorpus.Key {
			marker = "*"
		}
		line := fmt.Sprintf(" %s %-10s %s", marker, opt.Duration, FormatCurrency(r, opt.Corpus))
		switch {
		case opt.Estimated:
			line += "  (estimate, not enough history)"
		case opt.Range != nil:
			line += fmt.Sprintf("  (range %s [%d] to %s [%d])",
				FormatShort(r, opt.Range.Min), opt.Range.MinYear,
				FormatShort(r, opt.Range.Max), opt.Range.MaxYear)
		}
		fmt.Fprintln(buf, line)
	}
	fmt.Fprintln(buf)
}

func optionKeys() []string {
	keys := []string{domain.DurationPerpetual}
	for _, years := range calculation.CorpusDurations {
		keys = append(keys, strconv.Itoa(years))
	}
	return keys
}

func writeProjection(buf *bytes.Buffer, r *domain.PlanResult) {
	p := r.Projection
	fmt.Fprintf(buf, "PROJECTION (%d years)\n", r.Inputs.YearsToRetire)
	fmt.Fprintf(buf, "  Equity: %s -> %s (%sx)\n", FormatCurrency(r, r.Inputs.CurrentEquity), FormatCurrency(r, p.FutureEquity), p.EquityGrowth.StringFixed(1))
	fmt.Fprintf(buf, "  Debt:   %s -> %s (%sx)\n", FormatCurrency(r, r.Inputs.CurrentDebt), FormatCurrency(r, p.FutureDebt), p.DebtGrowth.StringFixed(1))
	fmt.Fprintf(buf, "  Total:  %s\n", FormatCurrency(r, p.FutureTotal))
	fmt.Fprintln(buf)
}

func writeGap(buf *bytes.Buffer, r *domain.PlanResult) {
	g := r.Gap
	label := "Shortfall"
	if g.IsSurplus {
		label = "Surplus"
	}
	fmt.Fprintln(buf, "GAP ANALYSIS")
	fmt.Fprintf(buf, "  Required:  %s\n", FormatCurrency(r, g.Required))
	fmt.Fprintf(buf, "  Projected: %s\n", FormatCurrency(r, g.Projected))
	fmt.Fprintf(buf, "  %s: %s\n", label, FormatCurrency(r, g.Difference))
	fmt.Fprintf(buf, "  Ideal at retirement: equity %s / debt %s\n",
		FormatCurrency(r, r.IdealAllocation.Equity), FormatCurrency(r, r.IdealAllocation.Debt))

	re := r.Reallocation
	if re.Action == calculation.ActionMove {
		fmt.Fprintf(buf, "  Rebalance now: move %s from %s to %s\n", FormatCurrency(r, re.Amount), re.From, re.To)
	} else {
		fmt.Fprintln(buf, "  Current allocation needs no change.")
	}
	if re.MoveAtRetirement.IsPositive() {
		fmt.Fprintf(buf, "  At retirement: move %s from equity to debt\n", FormatCurrency(r, re.MoveAtRetirement))
	}
	fmt.Fprintln(buf)
}

func writeContribution(buf *bytes.Buffer, r *domain.PlanResult) {
	c := r.Contribution
	if c == nil {
		return
	}
	fmt.Fprintln(buf, "MONTHLY CONTRIBUTION")
	if !c.TotalInitialMonthly.IsPositive() {
		fmt.Fprintln(buf, "  No contribution required.")
		fmt.Fprintln(buf)
		return
	}
	fmt.Fprintf(buf, "  Equity SIP: %s/month, stepping up %s%% a year to %s/month\n",
		FormatCurrency(r, c.TotalInitialMonthly), r.Inputs.SIPStepUp.String(), FormatCurrency(r, c.TotalFinalMonthly))
	fmt.Fprintf(buf, "  Total invested: %s\n", FormatCurrency(r, c.TotalInvested))
	if c.MoveToDebtAtRetirement.IsPositive() {
		fmt.Fprintf(buf, "  At retirement: move %s to debt\n", FormatCurrency(r, c.MoveToDebtAtRetirement))
	}
	for _, y := range c.Equity.Years {
		fmt.Fprintf(buf, "    Year %2d: %s/month\n", y.Year, FormatCurrency(r, y.Monthly))
	}
	fmt.Fprintln(buf)
}

func writeSimulation(buf *bytes.Buffer, r *domain.PlanResult) {
	sim := r.Simulation
	fmt.Fprintln(buf, "HISTORICAL SIMULATION")
	if len(sim.Splits) == 0 || len(sim.Splits[0].Results) == 0 {
		fmt.Fprintln(buf, "  Insufficient historical data for simulation.")
		return
	}
	fmt.Fprintf(buf, "  Corpus: %s\n", FormatCurrency(r, sim.Corpus))

	for i, note := range sim.StartYears {
		pe := "-"
		if note.PrevPE != nil {
			pe = note.PrevPE.StringFixed(1)
			if note.Band != "" {
				pe += " (" + note.Band + ")"
			}
		}
		fmt.Fprintf(buf, "  %d  P/E %-12s", note.Year, pe)
		for _, split := range sim.Splits {
			if i >= len(split.Results) {
				continue
			}
			fmt.Fprintf(buf, "  %s: %s", split.Label, describeRun(r, split.Results[i]))
		}
		fmt.Fprintln(buf)
	}

	for _, split := range sim.Splits {
		fmt.Fprintf(buf, "  %s survival rate: %s%%\n", split.Label, split.Analysis.SurvivalRate.StringFixed(0))
	}
	if rec := RecommendSplit(sim); rec.Label != "" {
		fmt.Fprintf(buf, "  Best split: %s\n", rec.Label)
	}
}

func describeRun(r *domain.PlanResult, res domain.SimulationResult) string {
	if !res.Survived {
		if res.RanOutYear != nil {
			return fmt.Sprintf("ran out %d after %d years", *res.RanOutYear, res.YearsSimulated)
		}
		return fmt.Sprintf("ran out after %d years", res.YearsSimulated)
	}
	return fmt.Sprintf("%d years, %s left", res.YearsSimulated, FormatShort(r, res.EndingCorpus))
}
