package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/pidlab/internal/config"
	"github.com/san-kum/pidlab/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Times:   []float64{0, 0.01},
		Values:  []float64{0, 1.5},
		Outputs: []float64{100, 100},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Kp = 0.42
	runMetrics := map[string]MetricValue{
		"rise_time":     {Value: 1.2, Valid: true},
		"settling_time": {Valid: false},
	}

	runID, err := st.Save(cfg, testResult(), runMetrics)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}
	if !strings.HasPrefix(runID, config.ModelFirstOrder) {
		t.Errorf("run id should carry the model kind, got %s", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Config.Kp != 0.42 {
		t.Errorf("expected kp 0.42, got %f", meta.Config.Kp)
	}
	if meta.Steps != 2 {
		t.Errorf("expected 2 steps, got %d", meta.Steps)
	}
	if !meta.Metrics["rise_time"].Valid || meta.Metrics["rise_time"].Value != 1.2 {
		t.Errorf("rise_time metric not round-tripped: %+v", meta.Metrics["rise_time"])
	}
	if meta.Metrics["settling_time"].Valid {
		t.Error("absent metric must stay absent, not become a value")
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	if series.Len() != 2 {
		t.Errorf("expected 2 samples, got %d", series.Len())
	}
	if series.Values[1] != 1.5 || series.Outputs[0] != 100 {
		t.Error("series values not round-tripped")
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save(config.DefaultConfig(), testResult(), nil); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(config.DefaultConfig(), testResult(), nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, runID, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(tmpDir, runID, "series.csv")); os.IsNotExist(err) {
		t.Error("series.csv not created")
	}
}

func TestExportJSON(t *testing.T) {
	meta := &RunMetadata{
		ID:     "first_order_1",
		Config: config.DefaultConfig(),
		Metrics: map[string]MetricValue{
			"overshoot": {Value: 3.5, Valid: true},
		},
	}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, testResult()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var out ExportData
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("export is not valid json: %v", err)
	}
	if out.ID != "first_order_1" || out.Steps != 2 {
		t.Errorf("unexpected export header: %+v", out)
	}
	if len(out.Values) != 2 {
		t.Errorf("expected 2 values, got %d", len(out.Values))
	}
}
