package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/pidlab/internal/config"
	"github.com/san-kum/pidlab/internal/sim"
)

// Store persists completed runs under a base directory, one directory
// per run holding metadata.json and series.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// MetricValue is a metric in run metadata; absent metrics are stored
// explicitly rather than as zeroes.
type MetricValue struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

type RunMetadata struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Config    *config.Config         `json:"config"`
	Metrics   map[string]MetricValue `json:"metrics"`
	Steps     int                    `json:"steps"`
}

func (s *Store) Save(cfg *config.Config, result *sim.Result, runMetrics map[string]MetricValue) (string, error) {
	runID := fmt.Sprintf("%s_%d", cfg.ModelType, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: time.Now(),
		Config:    cfg,
		Metrics:   runMetrics,
		Steps:     result.Len(),
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "series.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"time", "value", "output"}); err != nil {
		return "", err
	}
	for i := 0; i < result.Len(); i++ {
		row := []string{
			strconv.FormatFloat(result.Times[i], 'f', 6, 64),
			strconv.FormatFloat(result.Values[i], 'f', 6, 64),
			strconv.FormatFloat(result.Outputs[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSeries reads back the recorded trajectory of a saved run.
func (s *Store) LoadSeries(runID string) (*sim.Result, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	result := &sim.Result{}
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 3 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		u, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			continue
		}
		result.Times = append(result.Times, t)
		result.Values = append(result.Values, v)
		result.Outputs = append(result.Outputs, u)
	}

	return result, nil
}
