package marketdata

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

//go:embed data/*.csv
var embedded embed.FS

// DefaultVersion identifies the embedded tables.
const DefaultVersion = "2025.1"

// ErrUnknownMarket is returned for a market id the registry does not hold.
var ErrUnknownMarket = errors.New("unknown market")

// ErrStartYearOutOfRange is returned for a simulation start year without return data.
var ErrStartYearOutOfRange = errors.New("start year outside market data")

// DataRange is the span of start years a market's simulations may use.
type DataRange struct {
	StartYear int `json:"start_year" yaml:"start_year"`
	EndYear   int `json:"end_year" yaml:"end_year"`
}

// Market bundles a market's defaults with its historical tables.
type Market struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Currency      string          `json:"currency"`
	Locale        string          `json:"locale"`
	AverageReturn decimal.Decimal `json:"average_return"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	DebtReturn    decimal.Decimal `json:"debt_return"`
	Inflation     decimal.Decimal `json:"inflation"`
	AveragePE     decimal.Decimal `json:"average_pe"`
	DataRange     DataRange       `json:"data_range"`

	Index   IndexTable         `json:"-"`
	Returns YearlyReturnSeries `json:"-"`
	PE      PETable            `json:"-"`
}

// Registry is an immutable, versioned set of markets.
type Registry struct {
	version string
	markets map[string]Market
}

// NewRegistry builds a registry. Missing return series are derived from the index
// table and a zero DataRange defaults to the span of the series.
func NewRegistry(version string, markets ...Market) *Registry {
	r := &Registry{version: version, markets: make(map[string]Market, len(markets))}
	for _, m := range markets {
		if m.Returns.Len() == 0 && len(m.Index) > 0 {
			m.Returns = Returns(m.Index)
		}
		if m.DataRange == (DataRange{}) {
			m.DataRange = DataRange{StartYear: m.Returns.FirstYear(), EndYear: m.Returns.LastYear()}
		}
		r.markets[m.ID] = m
	}
	return r
}

// DefaultRegistry loads the embedded S&P 500 and Sensex tables.
func DefaultRegistry() (*Registry, error) {
	sp500, err := loadEmbedded("data/sp500.csv")
	if err != nil {
		return nil, err
	}
	sensex, err := loadEmbedded("data/sensex.csv")
	if err != nil {
		return nil, err
	}

	return NewRegistry(DefaultVersion,
		Market{
			ID:            "sensex",
			Name:          "BSE Sensex",
			Currency:      "₹",
			Locale:        "en-IN",
			AverageReturn: decimal.NewFromInt(12),
			TaxRate:       decimal.NewFromFloat(12.5),
			DebtReturn:    decimal.NewFromInt(7),
			Inflation:     decimal.NewFromInt(7),
			AveragePE:     decimal.NewFromFloat(21.5),
			DataRange:     DataRange{StartYear: 1994, EndYear: 2025},
			Index:         sensex,
		},
		Market{
			ID:            "sp500",
			Name:          "S&P 500",
			Currency:      "$",
			Locale:        "en-US",
			AverageReturn: decimal.NewFromInt(9),
			TaxRate:       decimal.NewFromInt(15),
			DebtReturn:    decimal.NewFromInt(5),
			Inflation:     decimal.NewFromInt(3),
			AveragePE:     decimal.NewFromFloat(19.7),
			DataRange:     DataRange{StartYear: 1986, EndYear: 2025},
			Index:         sp500,
		},
	), nil
}

func loadEmbedded(name string) (IndexTable, error) {
	data, err := embedded.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded %s: %w", name, err)
	}
	table, err := LoadIndexCSV(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded %s: %w", name, err)
	}
	return table, nil
}

// Version identifies the data the registry was built from.
func (r *Registry) Version() string { return r.version }

// Market looks up a market by id.
func (r *Registry) Market(id string) (Market, error) {
	m, ok := r.markets[id]
	if !ok {
		return Market{}, fmt.Errorf("%w: %q", ErrUnknownMarket, id)
	}
	return m, nil
}

// CheckStartYear reports whether year has a return in the market's series.
func (m Market) CheckStartYear(year int) error {
	first, last := m.Returns.FirstYear(), m.Returns.LastYear()
	if m.Returns.Len() == 0 || year < first || year > last {
		return fmt.Errorf("%w: %d not in %s %d-%d", ErrStartYearOutOfRange, year, m.ID, first, last)
	}
	return nil
}

// IDs lists the registered market ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.markets))
	for id := range r.markets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// WithIndex returns a new registry where market id uses the given index table.
// The data range is re-derived from the new table.
func (r *Registry) WithIndex(id string, table IndexTable) (*Registry, error) {
	m, err := r.Market(id)
	if err != nil {
		return nil, err
	}
	m.Index = table
	m.Returns = YearlyReturnSeries{}
	m.DataRange = DataRange{}
	return r.replace(m, "index"), nil
}

// WithPE returns a new registry where market id carries the given P/E annotations.
func (r *Registry) WithPE(id string, table PETable) (*Registry, error) {
	m, err := r.Market(id)
	if err != nil {
		return nil, err
	}
	m.PE = table
	return r.replace(m, "pe"), nil
}

func (r *Registry) replace(m Market, what string) *Registry {
	markets := make([]Market, 0, len(r.markets))
	for id, existing := range r.markets {
		if id == m.ID {
			continue
		}
		markets = append(markets, existing)
	}
	markets = append(markets, m)
	return NewRegistry(fmt.Sprintf("%s+%s-%s", r.version, m.ID, what), markets...)
}
