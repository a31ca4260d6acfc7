package output

import (
	"errors"
	"sort"
	"strings"

	"github.com/rpgo/corpus-planner/internal/domain"
)

// ErrUnsupportedFormat is returned for a format name no formatter answers to.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Formatter renders a plan. Format must not write anywhere; callers decide where bytes go.
type Formatter interface {
	Format(result *domain.PlanResult) ([]byte, error)
	// Name is the canonical format name used on the command line.
	Name() string
}

var builtInFormatters = []Formatter{
	ConsoleFormatter{},
	JSONFormatter{},
	CSVLedgerExporter{},
	CSVSummarizer{},
}

// GetFormatterByName resolves name or one of its aliases. It returns nil for unknown names.
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

var aliasMap = map[string]string{
	"text":        "console",
	"txt":         "console",
	"json-pretty": "json",
	"ledger":      "csv",
	"csv-ledger":  "csv",
	"csv-summary": "summary-csv",
	"summary":     "summary-csv",
}

// NormalizeFormatName maps an alias to its canonical name, ignoring case and spaces.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// AvailableFormatterNames lists canonical names in sorted order.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(builtInFormatters))
	for _, f := range builtInFormatters {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists every alias in sorted order.
func AvailableFormatAliases() []string {
	keys := make([]string, 0, len(aliasMap))
	for k := range aliasMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Extension is the file extension a formatter's output is usually saved with.
func Extension(f Formatter) string {
	switch {
	case f.Name() == "json":
		return "json"
	case strings.Contains(f.Name(), "csv"):
		return "csv"
	default:
		return "txt"
	}
}
