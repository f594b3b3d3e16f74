package output

import (
	"github.com/finadvisor/retirement-forecast/internal/domain"
	"github.com/goccy/go-json"
)

// JSONFormatter serializes the projection as pretty-printed JSON, including
// the stable metrics map.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

// projectionDocument is the JSON shape: the full projection plus its metrics.
type projectionDocument struct {
	Metrics map[string]float64 `json:"metrics"`
	*domain.Projection
}

func (j JSONFormatter) Format(p *domain.Projection) ([]byte, error) {
	return json.MarshalIndent(projectionDocument{Metrics: p.Metrics(), Projection: p}, "", "  ")
}
