package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/pidlab/internal/sim"
)

type ExportData struct {
	ID      string                 `json:"id"`
	Config  interface{}            `json:"config"`
	Steps   int                    `json:"steps"`
	Times   []float64              `json:"times"`
	Values  []float64              `json:"values"`
	Outputs []float64              `json:"outputs"`
	Metrics map[string]MetricValue `json:"metrics"`
}

// ExportJSON writes a full run, series included, as indented JSON.
func ExportJSON(w io.Writer, meta *RunMetadata, result *sim.Result) error {
	data := ExportData{
		ID:      meta.ID,
		Config:  meta.Config,
		Steps:   result.Len(),
		Times:   result.Times,
		Values:  result.Values,
		Outputs: result.Outputs,
		Metrics: meta.Metrics,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
