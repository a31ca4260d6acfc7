package marketdata

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// P/E bands used for descriptive annotation.
const (
	PEBandLow    = "low"
	PEBandNormal = "normal"
	PEBandHigh   = "high"
)

var (
	peLowThreshold  = decimal.NewFromInt(15)
	peHighThreshold = decimal.NewFromInt(25)
)

// PETable maps a year to the trailing P/E at year end. It is never used in computation.
type PETable map[int]decimal.Decimal

// PE returns the P/E recorded for year.
func (t PETable) PE(year int) (decimal.Decimal, bool) {
	pe, ok := t[year]
	return pe, ok
}

// Band classifies a P/E as low (< 15), high (> 25) or normal.
func Band(pe decimal.Decimal) string {
	switch {
	case pe.LessThan(peLowThreshold):
		return PEBandLow
	case pe.GreaterThan(peHighThreshold):
		return PEBandHigh
	default:
		return PEBandNormal
	}
}

// LoadPECSV parses a year,pe CSV with a header row.
func LoadPECSV(r io.Reader) (PETable, error) {
	table := make(PETable)
	if err := readYearValues(r, func(year int, v decimal.Decimal) { table[year] = v }); err != nil {
		return nil, fmt.Errorf("failed to load P/E data: %w", err)
	}
	return table, nil
}
