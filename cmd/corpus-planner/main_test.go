package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "corpus-planner dev")
}

func TestYieldCommand(t *testing.T) {
	out, err := execute(t, "yield", "--expenses", "100000", "--return", "12", "--tax", "12.5", "--inflation", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Years of buffer:  17")
	assert.Contains(t, out, "Yield:            3.77")
}

func TestYieldCommandRejectsBadNumber(t *testing.T) {
	_, err := execute(t, "yield", "--expenses", "lots", "--return", "12")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid number")
}

func TestMarketsCommand(t *testing.T) {
	out, err := execute(t, "markets")
	require.NoError(t, err)
	assert.Contains(t, out, "sensex")
	assert.Contains(t, out, "sp500")
	assert.Contains(t, out, "STDDEV")
	assert.Contains(t, out, "data version:")
}

func TestSimulateCommand(t *testing.T) {
	out, err := execute(t, "simulate", "--market", "sp500", "--corpus", "1000000", "--expenses", "40000",
		"--start-year", "2000", "--max-years", "5", "--yield", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "YEAR")
	assert.Contains(t, out, "2004")
	assert.NotContains(t, out, "2005")
}

func TestSimulateCommandRejectsStartYearWithoutData(t *testing.T) {
	_, err := execute(t, "simulate", "--market", "sp500", "--corpus", "1000000", "--expenses", "40000",
		"--start-year", "1900", "--max-years", "5", "--yield", "4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start year outside market data")
}

func TestExampleThenPlan(t *testing.T) {
	dir := t.TempDir()
	inputs := filepath.Join(dir, "plan.yaml")

	out, err := execute(t, "example", "--out", inputs)
	require.NoError(t, err)
	assert.Contains(t, out, "Example inputs written")

	out, err = execute(t, "plan", "--input", inputs, "--seed", "5", "--format", "console")
	require.NoError(t, err)
	assert.Contains(t, out, "RETIREMENT CORPUS PLAN")

	report := filepath.Join(dir, "plan.csv")
	_, err = execute(t, "plan", "--input", inputs, "--format", "summary-csv", "--out", report)
	require.NoError(t, err)
	data, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Option,Years,Corpus")

	_, err = execute(t, "plan", "--input", inputs, "--format", "json", "--out", filepath.Join(dir, "report"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "report.json"))
}
