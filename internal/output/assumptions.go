package output

import (
	"fmt"

	"github.com/rpgo/corpus-planner/internal/domain"
)

// GenerateAssumptions lists the rates a plan was computed with.
func GenerateAssumptions(r *domain.PlanResult) []string {
	a := r.Assumptions
	return []string{
		fmt.Sprintf("Equity return before retirement: %s%% annually", a.AverageReturn.String()),
		fmt.Sprintf("Debt return: %s%% annually", a.DebtReturn.String()),
		fmt.Sprintf("Inflation: %s%% annually", a.Inflation.String()),
		fmt.Sprintf("Capital gains tax on equity withdrawals: %s%%", a.TaxRate.String()),
		fmt.Sprintf("Dividend yield on equity: %s%%", a.DividendYield.String()),
		"Historical returns are price returns; dividends are added separately",
		"Portfolio is rebalanced to the target split every year after withdrawals",
	}
}
