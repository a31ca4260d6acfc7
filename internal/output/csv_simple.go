package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/corpus-planner/internal/domain"
)

// CSVSummarizer writes one row per corpus option, in display order.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "summary-csv" }

func (c CSVSummarizer) Format(r *domain.PlanResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Option", "Years", "Corpus", "RangeMin", "RangeMinYear", "RangeMax", "RangeMaxYear", "Estimated", "Selected"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, key := range optionKeys() {
		opt, ok := r.CorpusOptions[key]
		if !ok {
			continue
		}
		row := []string{
			opt.Key,
			intToString(opt.Years),
			opt.Corpus.StringFixed(2),
			"", "", "", "",
			boolToString(opt.Estimated),
			boolToString(opt.Key == r.SelectedCorpus.Key),
		}
		if opt.Range != nil {
			row[3] = opt.Range.Min.StringFixed(2)
			row[4] = intToString(opt.Range.MinYear)
			row[5] = opt.Range.Max.StringFixed(2)
			row[6] = intToString(opt.Range.MaxYear)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
