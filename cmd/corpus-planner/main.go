package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rpgo/corpus-planner/internal/calculation"
	"github.com/rpgo/corpus-planner/internal/config"
	"github.com/rpgo/corpus-planner/internal/logger"
	"github.com/rpgo/corpus-planner/internal/marketdata"
	"github.com/rpgo/corpus-planner/internal/metrics"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	logLevel   string
	logFormat  string
	indexFiles map[string]string
	peFiles    map[string]string

	appLog   *logrus.Logger
	settings *config.Settings
	registry *marketdata.Registry
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to settings file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().StringToStringVar(&indexFiles, "index-file", nil, "Replace a market's index table, e.g. sp500=./sp500.csv")
	rootCmd.PersistentFlags().StringToStringVar(&peFiles, "pe-file", nil, "Attach P/E data to a market, e.g. sensex=./pe.csv")

	rootCmd.AddCommand(planCmd, simulateCmd, yieldCmd, marketsCmd, serveCmd, exampleCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "corpus-planner",
	Short: "Retirement corpus planner backed by historical market returns",
	Long: `Sizes the corpus needed to retire on a given yearly spend, projects current
savings, suggests a step-up monthly contribution and stress-tests the plan against
historical Sensex or S&P 500 sequences.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	// A missing .env is normal; the environment is used as-is.
	_ = godotenv.Load()

	var err error
	settings, err = config.LoadSettings(configFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		settings.LogLevel = logLevel
	}
	if logFormat != "" {
		settings.LogFormat = logFormat
	}
	if settings.Data.IndexFiles == nil {
		settings.Data.IndexFiles = map[string]string{}
	}
	if settings.Data.PEFiles == nil {
		settings.Data.PEFiles = map[string]string{}
	}
	for id, path := range indexFiles {
		settings.Data.IndexFiles[id] = path
	}
	for id, path := range peFiles {
		settings.Data.PEFiles[id] = path
	}
	return nil
}

func setupDependencies() error {
	appLog = logger.NewLogger(settings.LogLevel, settings.LogFormat)
	metrics.InitRegistry()

	var err error
	registry, err = settings.Registry()
	if err != nil {
		return fmt.Errorf("failed to load market data: %w", err)
	}
	appLog.WithFields(logrus.Fields{
		"data_version": registry.Version(),
		"markets":      registry.IDs(),
	}).Debug("market data loaded")

	for _, id := range registry.IDs() {
		m, err := registry.Market(id)
		if err != nil {
			return err
		}
		for _, warning := range marketdata.ValidateDataQuality(m.Name, m.Returns) {
			appLog.WithField("market", id).Warn(warning)
		}
	}
	return nil
}

func newPlanner() *calculation.Planner {
	planner := calculation.NewPlanner(registry)
	planner.Workers = settings.Workers
	planner.SetLogger(logger.Engine(appLog))
	return planner
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
