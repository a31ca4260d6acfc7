package config

import (
	"fmt"
	"os"

	"github.com/rpgo/corpus-planner/internal/domain"
	"github.com/rpgo/corpus-planner/internal/marketdata"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of plan input files
type InputParser struct {
	registry  *marketdata.Registry
	validator *CustomValidator
}

// NewInputParser creates a new input parser. A nil registry skips the market check.
func NewInputParser(registry *marketdata.Registry) *InputParser {
	return &InputParser{
		registry:  registry,
		validator: NewValidator(),
	}
}

// LoadFromFile loads plan inputs from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.PlanInputs, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes YAML plan inputs and validates them.
func (ip *InputParser) Parse(data []byte) (*domain.PlanInputs, error) {
	var inputs domain.PlanInputs
	if err := yaml.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateInputs(&inputs); err != nil {
		return nil, err
	}
	return &inputs, nil
}

// ValidateInputs validates field ranges and the market id.
func (ip *InputParser) ValidateInputs(inputs *domain.PlanInputs) error {
	return ip.validator.ValidateInputs(inputs, ip.registry)
}

// SaveInputs writes plan inputs as YAML.
func (ip *InputParser) SaveInputs(inputs *domain.PlanInputs, filename string) error {
	data, err := yaml.Marshal(inputs)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// ExampleInputs returns a plan for someone fifteen years from retirement in India.
// Market rates are left unset so the market defaults apply.
func ExampleInputs() *domain.PlanInputs {
	return &domain.PlanInputs{
		Market:         "sensex",
		Duration:       "30",
		YearlyExpenses: decimal.NewFromInt(1200000),
		CurrentEquity:  decimal.NewFromInt(2500000),
		CurrentDebt:    decimal.NewFromInt(1000000),
		YearsToRetire:  15,
		DividendYield:  decimal.NewFromFloat(1.5),
		SIPEnabled:     true,
		SIPStepUp:      decimal.NewFromInt(10),
	}
}
