package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/finadvisor/retirement-forecast/internal/domain"
	"github.com/goccy/go-json"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatCurrency,
	"pct":  FormatPercentage,
	"inc":  func(i int) int { return i + 1 },
	"json": func(v any) (template.JS, error) {
		b, err := json.Marshal(v)
		return template.JS(b), err
	},
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(p *domain.Projection) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.Projection
		Assumptions []string
		TaxDrag     []TaxDrag
	}{p, GenerateAssumptions(p), AnalyzeTaxDrag(p)}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
