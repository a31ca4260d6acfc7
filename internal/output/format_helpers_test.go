//go:build unit

package output

import (
	"testing"

	"github.com/rpgo/corpus-planner/internal/domain"
	"github.com/shopspring/decimal"
)

func TestFormatCurrency(t *testing.T) {
	v := decimal.NewFromFloat(1234567.4)
	if got, want := FormatCurrency(&domain.PlanResult{Currency: "$", Locale: "en-US"}, v), "$1,234,567"; got != want {
		t.Errorf("FormatCurrency(%v) = %q, want %q", v, got, want)
	}
	if got, want := FormatCurrency(&domain.PlanResult{Currency: "₹", Locale: "en-IN"}, v), "₹12,34,567"; got != want {
		t.Errorf("FormatCurrency(%v) = %q, want %q", v, got, want)
	}
}

func TestCSVCellHelpers(t *testing.T) {
	if got, want := intToString(2008), "2008"; got != want {
		t.Errorf("intToString(2008) = %q, want %q", got, want)
	}
	opt := domain.CorpusOption{Key: "30", Estimated: true}
	if got, want := boolToString(opt.Estimated), "true"; got != want {
		t.Errorf("boolToString(Estimated) = %q, want %q", got, want)
	}
	if got, want := boolToString(opt.Key == "perpetual"), "false"; got != want {
		t.Errorf("boolToString(selected) = %q, want %q", got, want)
	}
}

func TestFormatPercentage(t *testing.T) {
	v := decimal.NewFromFloat(12.3456)
	got := FormatPercentage(v)
	want := "12.35%"
	if got != want {
		t.Errorf("FormatPercentage(%v) = %q, want %q", v, got, want)
	}
}
