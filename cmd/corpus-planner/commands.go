package main

import (
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rpgo/corpus-planner/internal/calculation"
	"github.com/rpgo/corpus-planner/internal/config"
	"github.com/rpgo/corpus-planner/internal/domain"
	"github.com/rpgo/corpus-planner/internal/marketdata"
	"github.com/rpgo/corpus-planner/internal/output"
	"github.com/rpgo/corpus-planner/internal/server"
	money "github.com/rpgo/corpus-planner/pkg/decimal"
)

var planOpts struct {
	input  string
	format string
	out    string
	seed   int64
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute a full retirement plan from an input file",
	RunE: func(cmd *cobra.Command, args []string) error {
		parser := config.NewInputParser(registry)
		inputs, err := parser.LoadFromFile(planOpts.input)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("seed") {
			inputs.Seed = planOpts.seed
		}

		ctx, cancel := signalContext()
		defer cancel()

		result, err := newPlanner().Plan(ctx, *inputs)
		if err != nil {
			return err
		}

		if planOpts.out != "" {
			f := output.GetFormatterByName(planOpts.format)
			if f == nil {
				return fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, planOpts.format)
			}
			out := planOpts.out
			if filepath.Ext(out) == "" {
				out += "." + output.Extension(f)
			}
			if err := output.WriteReport(out, result, f.Name()); err != nil {
				return err
			}
			appLog.WithField("file", out).Info("report written")
			return nil
		}
		return output.GenerateReport(cmd.OutOrStdout(), result, planOpts.format)
	},
}

var simulateOpts struct {
	market      string
	corpus      decimalFlag
	expenses    decimalFlag
	equityRatio decimalFlag
	yield       decimalFlag
	debtReturn  decimalFlag
	dividend    decimalFlag
	inflation   decimalFlag
	tax         decimalFlag
	startYear   int
	maxYears    int
	format      string
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay one withdrawal run against historical returns and print the ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		marketID := simulateOpts.market
		if marketID == "" {
			marketID = settings.DefaultMarket
		}
		m, err := registry.Market(marketID)
		if err != nil {
			return err
		}

		params := domain.SimulationParameters{
			StartingCorpus: simulateOpts.corpus.Decimal,
			YearlyExpenses: simulateOpts.expenses.Decimal,
			EquityRatio:    simulateOpts.equityRatio.or(calculation.DefaultEquityRatio),
			DebtReturn:     simulateOpts.debtReturn.or(m.DebtReturn),
			DividendYield:  simulateOpts.dividend.Decimal,
			InflationRate:  simulateOpts.inflation.or(m.Inflation),
			TaxRate:        simulateOpts.tax.or(m.TaxRate),
			StartYear:      simulateOpts.startYear,
			MaxYears:       simulateOpts.maxYears,
		}
		if params.StartYear == 0 {
			params.StartYear = m.DataRange.StartYear
		}
		if err := m.CheckStartYear(params.StartYear); err != nil {
			return err
		}
		if simulateOpts.yield.set {
			params.YieldRate = simulateOpts.yield.Decimal
		} else {
			params.YieldRate = calculation.SolveYield(params.YearlyExpenses, m.AverageReturn, params.TaxRate,
				params.InflationRate, calculation.DefaultYieldMaxYears).Yield
		}

		result := calculation.Simulate(params, m.Returns)
		if simulateOpts.format == "json" {
			return writeJSON(cmd.OutOrStdout(), result)
		}
		printLedger(cmd.OutOrStdout(), m.Currency, m.Locale, result)
		return nil
	},
}

var yieldOpts struct {
	expenses  decimalFlag
	ret       decimalFlag
	tax       decimalFlag
	inflation decimalFlag
	maxYears  int
}

var yieldCmd = &cobra.Command{
	Use:   "yield",
	Short: "Solve the sustainable withdrawal yield",
	RunE: func(cmd *cobra.Command, args []string) error {
		result := calculation.SolveYield(yieldOpts.expenses.Decimal, yieldOpts.ret.Decimal, yieldOpts.tax.Decimal,
			yieldOpts.inflation.Decimal, yieldOpts.maxYears)
		w := cmd.OutOrStdout()
		if !result.Sustainable {
			fmt.Fprintln(w, "Return does not beat inflation; no sustainable yield.")
		}
		fmt.Fprintf(w, "Yield:            %s%%\n", result.Yield.StringFixed(4))
		fmt.Fprintf(w, "Years of buffer:  %d\n", result.Years)
		fmt.Fprintf(w, "Required corpus:  %s\n", calculation.RequiredCorpus(yieldOpts.expenses.Decimal, result.Yield).StringFixed(2))
		return nil
	},
}

var marketsCmd = &cobra.Command{
	Use:   "markets",
	Short: "List available markets and their defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "ID\tNAME\tCURRENCY\tRETURN\tTAX\tDEBT\tINFLATION\tDATA\tMEAN\tSTDDEV\n")
		for _, id := range registry.IDs() {
			m, err := registry.Market(id)
			if err != nil {
				return err
			}
			stats := marketdata.ComputeStatistics(m.Returns)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s%%\t%s%%\t%s%%\t%s%%\t%d-%d\t%s%%\t%s%%\n", m.ID, m.Name, m.Currency,
				m.AverageReturn, m.TaxRate, m.DebtReturn, m.Inflation, m.DataRange.StartYear, m.DataRange.EndYear,
				stats.Mean.StringFixed(2), stats.StdDev.StringFixed(2))
		}
		fmt.Fprintf(w, "\ndata version: %s\n", registry.Version())
		return w.Flush()
	},
}

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := settings.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		ctx, cancel := signalContext()
		defer cancel()

		srv := server.New(newPlanner(), appLog, server.OptionsFromSettings(settings.Server))
		return srv.ListenAndServe(ctx, addr)
	},
}

var exampleOut string

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Write an example plan input file",
	RunE: func(cmd *cobra.Command, args []string) error {
		parser := config.NewInputParser(registry)
		if err := parser.SaveInputs(config.ExampleInputs(), exampleOut); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Example inputs written to %s\n", exampleOut)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "corpus-planner %s (%s)\n", Version, GitCommit)
	},
}

func init() {
	planCmd.Flags().StringVarP(&planOpts.input, "input", "i", "", "Plan inputs file (YAML)")
	planCmd.Flags().StringVarP(&planOpts.format, "format", "f", "console", "Output format: console, json, csv, summary-csv")
	planCmd.Flags().StringVarP(&planOpts.out, "out", "o", "", "Write the report to a file instead of stdout")
	planCmd.Flags().Int64Var(&planOpts.seed, "seed", 0, "Override the sampling seed")
	_ = planCmd.MarkFlagRequired("input")

	f := simulateCmd.Flags()
	f.StringVar(&simulateOpts.market, "market", "", "Market id (defaults to settings default_market)")
	f.Var(&simulateOpts.corpus, "corpus", "Starting corpus")
	f.Var(&simulateOpts.expenses, "expenses", "Yearly expenses in the first year")
	f.Var(&simulateOpts.equityRatio, "equity-ratio", "Equity fraction after rebalancing (default 0.85)")
	f.Var(&simulateOpts.yield, "yield", "Yield rate in percent (default: solved from market return)")
	f.Var(&simulateOpts.debtReturn, "debt-return", "Debt return in percent (default: market)")
	f.Var(&simulateOpts.dividend, "dividend-yield", "Dividend yield on equity in percent")
	f.Var(&simulateOpts.inflation, "inflation", "Inflation in percent (default: market)")
	f.Var(&simulateOpts.tax, "tax", "Tax on equity gains in percent (default: market)")
	f.IntVar(&simulateOpts.startYear, "start-year", 0, "First simulated year (default: first year of data)")
	f.IntVar(&simulateOpts.maxYears, "max-years", calculation.DefaultSimulationYears, "Maximum years to simulate")
	f.StringVar(&simulateOpts.format, "format", "table", "Output format: table or json")
	_ = simulateCmd.MarkFlagRequired("corpus")
	_ = simulateCmd.MarkFlagRequired("expenses")

	y := yieldCmd.Flags()
	y.Var(&yieldOpts.expenses, "expenses", "Yearly expenses")
	y.Var(&yieldOpts.ret, "return", "Average equity return in percent")
	y.Var(&yieldOpts.tax, "tax", "Tax on gains in percent")
	y.Var(&yieldOpts.inflation, "inflation", "Inflation in percent")
	y.IntVar(&yieldOpts.maxYears, "max-years", calculation.DefaultYieldMaxYears, "Search limit in years")
	_ = yieldCmd.MarkFlagRequired("expenses")
	_ = yieldCmd.MarkFlagRequired("return")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from settings)")
	exampleCmd.Flags().StringVarP(&exampleOut, "out", "o", "plan.yaml", "Destination file")
}

func printLedger(out io.Writer, currency, locale string, r domain.SimulationResult) {
	amount := func(d decimal.Decimal) string {
		return money.NewMoneyFromDecimal(d).Format(currency, locale)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "YEAR\tRETURN\tEXPENSES\tTAX\tEQUITY\tDEBT\tTOTAL\t\n")
	for _, e := range r.Ledger {
		fmt.Fprintf(w, "%d\t%s%%\t%s\t%s\t%s\t%s\t%s\t\n", e.Year, e.MarketReturn.StringFixed(1),
			amount(e.Expenses), amount(e.RebalancingTax), amount(e.Equity), amount(e.Debt), amount(e.EndingBalance()))
	}
	w.Flush()

	if r.Survived {
		fmt.Fprintf(out, "\nSurvived %d years; ending corpus %s\n", r.YearsSimulated, amount(r.EndingCorpus))
	} else if r.RanOutYear != nil {
		fmt.Fprintf(out, "\nRan out in %d after %d years\n", *r.RanOutYear, r.YearsSimulated)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
