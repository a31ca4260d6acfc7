package output

import (
	"github.com/goccy/go-json"
	"github.com/rpgo/corpus-planner/internal/domain"
)

// JSONFormatter serializes the plan as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(result *domain.PlanResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}
