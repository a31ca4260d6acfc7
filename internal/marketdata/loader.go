package marketdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// Statistics summarises a return series.
type Statistics struct {
	Mean         decimal.Decimal `json:"mean"`
	StdDev       decimal.Decimal `json:"std_dev"`
	Min          decimal.Decimal `json:"min"`
	Max          decimal.Decimal `json:"max"`
	Count        int             `json:"count"`
	MissingYears []int           `json:"missing_years"`
}

// LoadIndexFile reads a year,level CSV file from disk.
func LoadIndexFile(path string) (IndexTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	table, err := LoadIndexCSV(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return table, nil
}

// LoadIndexCSV parses a two-column CSV with a header row. Rows with an invalid year
// or value are skipped.
func LoadIndexCSV(r io.Reader) (IndexTable, error) {
	table := make(IndexTable)
	if err := readYearValues(r, func(year int, v decimal.Decimal) { table[year] = v }); err != nil {
		return nil, err
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("no valid data points found")
	}
	return table, nil
}

func readYearValues(r io.Reader, put func(int, decimal.Decimal)) error {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 2 {
		return fmt.Errorf("invalid CSV format: expected at least 2 columns")
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read data row: %w", err)
		}
		if len(record) < 2 {
			continue
		}
		year, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		value, err := decimal.NewFromString(record[1])
		if err != nil {
			continue
		}
		put(year, value)
	}
	return nil
}

// ComputeStatistics calculates mean, population standard deviation, extremes and gaps.
func ComputeStatistics(s YearlyReturnSeries) Statistics {
	years := s.Years()
	if len(years) == 0 {
		return Statistics{}
	}

	var sum decimal.Decimal
	min := s.returns[years[0]]
	max := min
	for _, y := range years {
		v := s.returns[y]
		sum = sum.Add(v)
		if v.LessThan(min) {
			min = v
		}
		if v.GreaterThan(max) {
			max = v
		}
	}
	count := decimal.NewFromInt(int64(len(years)))
	mean := sum.Div(count)

	var varianceSum decimal.Decimal
	for _, y := range years {
		diff := s.returns[y].Sub(mean)
		varianceSum = varianceSum.Add(diff.Mul(diff))
	}
	variance, _ := varianceSum.Div(count).Float64()

	var missing []int
	for y := years[0]; y <= years[len(years)-1]; y++ {
		if _, ok := s.returns[y]; !ok {
			missing = append(missing, y)
		}
	}

	return Statistics{
		Mean:         mean,
		StdDev:       decimal.NewFromFloat(math.Sqrt(variance)),
		Min:          min,
		Max:          max,
		Count:        len(years),
		MissingYears: missing,
	}
}

// ValidateDataQuality lists gaps and extreme returns (> 100% or < -50%).
func ValidateDataQuality(name string, s YearlyReturnSeries) []string {
	var issues []string

	stats := ComputeStatistics(s)
	if len(stats.MissingYears) > 0 {
		issues = append(issues, fmt.Sprintf("Missing years in %s data: %v", name, stats.MissingYears))
	}

	for _, y := range s.Years() {
		r := s.returns[y]
		if r.GreaterThan(hundred) {
			issues = append(issues, fmt.Sprintf("Extreme positive return in %s for year %d: %s%%", name, y, r.StringFixed(2)))
		}
		if r.LessThan(decimal.NewFromInt(-50)) {
			issues = append(issues, fmt.Sprintf("Extreme negative return in %s for year %d: %s%%", name, y, r.StringFixed(2)))
		}
	}
	return issues
}
