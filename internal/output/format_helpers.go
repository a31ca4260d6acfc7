package output

import (
	"strconv"

	"github.com/rpgo/corpus-planner/internal/domain"
	money "github.com/rpgo/corpus-planner/pkg/decimal"
	"github.com/shopspring/decimal"
)

// FormatCurrency renders a whole amount in the plan's currency and digit grouping.
func FormatCurrency(r *domain.PlanResult, amount decimal.Decimal) string {
	return money.NewMoneyFromDecimal(amount).Format(r.Currency, r.Locale)
}

// FormatShort renders an abbreviated amount, e.g. ₹2.5 Cr or $1.5M.
func FormatShort(r *domain.PlanResult, amount decimal.Decimal) string {
	return money.NewMoneyFromDecimal(amount).Short(r.Currency, r.Locale)
}

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

func intToString(v int) string { return strconv.Itoa(v) }

func boolToString(v bool) string { return strconv.FormatBool(v) }
