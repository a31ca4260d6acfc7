package main

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// decimalFlag is a pflag value that parses into a decimal and remembers whether it was set.
type decimalFlag struct {
	decimal.Decimal
	set bool
}

func (f *decimalFlag) String() string {
	if !f.set {
		return ""
	}
	return f.Decimal.String()
}

func (f *decimalFlag) Set(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	f.Decimal = d
	f.set = true
	return nil
}

func (f *decimalFlag) Type() string { return "decimal" }

// or returns the flag value when set and fallback otherwise.
func (f *decimalFlag) or(fallback decimal.Decimal) decimal.Decimal {
	if f.set {
		return f.Decimal
	}
	return fallback
}
