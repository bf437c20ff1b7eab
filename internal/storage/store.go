package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/rdsim/internal/field"
	"github.com/san-kum/rdsim/internal/metrics"
)

const (
	metadataFile = "metadata.json"
	historyFile  = "history.csv"
	fieldsFile   = "fields.csv"
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

type RunMetadata struct {
	ID          string             `json:"id"`
	Preset      string             `json:"preset"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Cols        int                `json:"cols"`
	Rows        int                `json:"rows"`
	Da          float64            `json:"da"`
	Db          float64            `json:"db"`
	Feed        float64            `json:"feed"`
	Kill        float64            `json:"kill"`
	Dt          float64            `json:"dt"`
	Boundary    string             `json:"boundary"`
	Steps       int                `json:"steps"`
	SampleEvery int                `json:"sample_every"`
	Image       string             `json:"image,omitempty"`
	Fallback    bool               `json:"fallback"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Run is everything persisted for one simulation.
type Run struct {
	Meta    RunMetadata
	History metrics.History
	A, B    *field.Grid
}

// CellRecord is one row of fields.csv.
type CellRecord struct {
	X int     `csv:"x"`
	Y int     `csv:"y"`
	A float64 `csv:"a"`
	B float64 `csv:"b"`
}

// Save writes a new run directory and returns its ID. Fields are optional.
func (s *Store) Save(run *Run) (string, error) {
	name := run.Meta.Preset
	if name == "" {
		name = "custom"
	}
	if err := s.Init(); err != nil {
		return "", err
	}

	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)
	for i := 1; ; i++ {
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return "", err
		}
		runID = fmt.Sprintf("%s_%d_%d", name, now.UnixNano(), i)
		runDir = filepath.Join(s.baseDir, runID)
	}

	meta := run.Meta
	meta.ID = runID
	meta.Timestamp = now
	if meta.Metrics == nil {
		meta.Metrics = map[string]float64{}
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	if err := writeCSV(filepath.Join(runDir, historyFile), []metrics.Sample(run.History)); err != nil {
		return "", err
	}

	if run.A != nil && run.B != nil {
		if err := writeCSV(filepath.Join(runDir, fieldsFile), cellRecords(run.A, run.B)); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// List returns the metadata of every run, oldest first. Directories without
// readable metadata are skipped.
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
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadHistory(runID string) (metrics.History, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, historyFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var samples []metrics.Sample
	if err := gocsv.UnmarshalFile(f, &samples); err != nil {
		return nil, fmt.Errorf("run %s history: %w", runID, err)
	}
	return metrics.History(samples), nil
}

// LoadFields rebuilds the final A and B grids of a run.
func (s *Store) LoadFields(runID string) (a, b *field.Grid, err error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(filepath.Join(s.baseDir, runID, fieldsFile))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var cells []CellRecord
	if err := gocsv.UnmarshalFile(f, &cells); err != nil {
		return nil, nil, fmt.Errorf("run %s fields: %w", runID, err)
	}

	a = field.NewGrid(meta.Cols, meta.Rows, 0)
	b = field.NewGrid(meta.Cols, meta.Rows, 0)
	for _, c := range cells {
		if !a.InBounds(c.X, c.Y) {
			return nil, nil, fmt.Errorf("run %s fields: cell (%d,%d) outside %dx%d", runID, c.X, c.Y, meta.Cols, meta.Rows)
		}
		a.Set(c.X, c.Y, c.A)
		b.Set(c.X, c.Y, c.B)
	}
	return a, b, nil
}

// LoadRun loads metadata, history and, when present, fields.
func (s *Store) LoadRun(runID string) (*Run, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	history, err := s.LoadHistory(runID)
	if err != nil {
		return nil, err
	}
	run := &Run{Meta: *meta, History: history}

	a, b, err := s.LoadFields(runID)
	switch {
	case err == nil:
		run.A, run.B = a, b
	case !os.IsNotExist(err):
		return nil, err
	}
	return run, nil
}

func cellRecords(a, b *field.Grid) []CellRecord {
	out := make([]CellRecord, 0, a.Len())
	for y := 0; y < a.Rows; y++ {
		for x := 0; x < a.Cols; x++ {
			out = append(out, CellRecord{X: x, Y: y, A: a.At(x, y), B: b.At(x, y)})
		}
	}
	return out
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, records any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.Marshal(records, f)
}
