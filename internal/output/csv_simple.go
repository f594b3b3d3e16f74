package output

import (
	"bytes"
	"encoding/csv"
	"sort"

	"github.com/finadvisor/retirement-forecast/internal/domain"
)

// CSVSummarizer writes the stable metrics map as metric,value rows sorted by key.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(p *domain.Projection) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Metric", "Value"}); err != nil {
		return nil, err
	}
	metrics := p.Metrics()
	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.Write([]string{k, plainAmount(metrics[k])}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
