package storage

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/san-kum/twolayer/internal/logger"
	"github.com/san-kum/twolayer/internal/scenario"
)

const (
	metadataFile   = "metadata.json"
	timeseriesFile = "timeseries.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunSummary holds the diagnostics of one driver series of a run.
// Non-finite metric values are stored as null and read back as NaN.
type RunSummary struct {
	RunIdx   int                `json:"run_idx"`
	Scenario string             `json:"scenario"`
	Metrics  map[string]float64 `json:"metrics"`
}

type runSummaryJSON struct {
	RunIdx   int                 `json:"run_idx"`
	Scenario string              `json:"scenario"`
	Metrics  map[string]*float64 `json:"metrics"`
}

func (r RunSummary) MarshalJSON() ([]byte, error) {
	out := runSummaryJSON{RunIdx: r.RunIdx, Scenario: r.Scenario}
	if r.Metrics != nil {
		out.Metrics = make(map[string]*float64, len(r.Metrics))
		for k, v := range r.Metrics {
			out.Metrics[k] = finitePtr(v)
		}
	}
	return json.Marshal(out)
}

func (r *RunSummary) UnmarshalJSON(data []byte) error {
	var in runSummaryJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	r.RunIdx = in.RunIdx
	r.Scenario = in.Scenario
	r.Metrics = nil
	if in.Metrics != nil {
		r.Metrics = make(map[string]float64, len(in.Metrics))
		for k, v := range in.Metrics {
			if v == nil {
				r.Metrics[k] = math.NaN()
				continue
			}
			r.Metrics[k] = *v
		}
	}
	return nil
}

// finitePtr is nil for NaN and the infinities, which JSON cannot carry.
func finitePtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

type RunMetadata struct {
	ID         string            `json:"id"`
	Label      string            `json:"label,omitempty"`
	Model      string            `json:"model"`
	Timestamp  time.Time         `json:"timestamp"`
	Parameters map[string]string `json:"parameters"`
	Series     int               `json:"series"`
	Runs       []RunSummary      `json:"runs"`
}

// Save writes meta and the scenario table under a new run directory and
// returns the run ID. ID and Timestamp in meta are filled in. The files
// are written to a hidden staging directory that is renamed into place,
// so a failed save leaves nothing behind.
func (s *Store) Save(meta RunMetadata, ss []scenario.Scenario) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Model, now.UnixNano())

	if err := s.Init(); err != nil {
		return "", err
	}
	staging, err := os.MkdirTemp(s.baseDir, ".staging-")
	if err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Series = len(ss)

	if err := writeRun(staging, meta, ss); err != nil {
		os.RemoveAll(staging)
		return "", err
	}
	if err := os.Rename(staging, filepath.Join(s.baseDir, runID)); err != nil {
		os.RemoveAll(staging)
		return "", err
	}

	logger.Log.Infow("run saved", "id", runID, "series", len(ss))
	return runID, nil
}

func writeRun(dir string, meta RunMetadata, ss []scenario.Scenario) error {
	metaFile, err := os.Create(filepath.Join(dir, metadataFile))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}
	if err := metaFile.Close(); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(dir, timeseriesFile))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	if err := scenario.WriteCSV(csvFile, ss); err != nil {
		return err
	}
	return csvFile.Close()
}

// List returns the metadata of every stored run, oldest first.
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
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			logger.Log.Debugw("skipping run directory", "dir", entry.Name(), "error", err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadScenarios reads back the scenario table of a run.
func (s *Store) LoadScenarios(runID string) ([]scenario.Scenario, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, timeseriesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return scenario.ReadCSV(file)
}
