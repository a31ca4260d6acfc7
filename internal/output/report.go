package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rpgo/corpus-planner/internal/domain"
)

// GenerateReport renders result with the named formatter and writes it to w.
func GenerateReport(w io.Writer, result *domain.PlanResult, format string) error {
	f := GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format,
			strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	data, err := f.Format(result)
	if err != nil {
		return fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// WriteReport renders result into filename.
func WriteReport(filename string, result *domain.PlanResult, format string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	if err := GenerateReport(file, result, format); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
