// Package storage keeps simulation runs on disk, one directory per run with
// a metadata.json and a trace.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/dragsim/internal/envelope"
	"github.com/san-kum/dragsim/internal/sim"
	"github.com/san-kum/dragsim/internal/vehicle"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

var traceHeader = []string{"time", "speed", "distance", "accel", "gear", "rpm", "thrust", "drag", "net"}

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
	ID            string                `json:"id"`
	Car           string                `json:"car"`
	CarName       string                `json:"carName"`
	Label         string                `json:"label,omitempty"`
	Timestamp     time.Time             `json:"timestamp"`
	Dt            float64               `json:"dt"`
	MaxTime       float64               `json:"maxTime"`
	Steps         int                   `json:"steps"`
	Modifications vehicle.Modifications `json:"modifications"`
	Performance   sim.Performance       `json:"performance"`
	ShiftPoints   []envelope.ShiftPoint `json:"shiftPoints"`
	Metrics       map[string]float64    `json:"metrics"`
}

// Run is what gets persisted for one simulation.
type Run struct {
	Spec   vehicle.CarSpec
	Mods   vehicle.Modifications
	Label  string
	Config sim.Config
	Result *sim.Result
}

func (s *Store) Save(run Run) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d_%s", run.Spec.ID, now.Unix(), uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Car:           run.Spec.ID,
		CarName:       run.Spec.Name(),
		Label:         run.Label,
		Timestamp:     now,
		Dt:            run.Config.Dt,
		MaxTime:       run.Config.MaxTime,
		Steps:         len(run.Result.Trace),
		Modifications: run.Mods,
		Performance:   run.Result.Performance,
		ShiftPoints:   run.Result.ShiftPoints,
		Metrics:       run.Result.Performance.Map(),
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	if err := writeTrace(filepath.Join(runDir, traceFile), run.Result.Trace); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return encode(f, v)
}

func writeTrace(path string, trace []sim.TimeStep) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(traceHeader); err != nil {
		return err
	}

	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, step := range trace {
		row := []string{
			ff(step.TimeS),
			ff(step.SpeedMs),
			ff(step.DistanceM),
			ff(step.AccelMs2),
			strconv.Itoa(step.Gear),
			ff(step.RPM),
			ff(step.ThrustN),
			ff(step.DragN),
			ff(step.NetForceN),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
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

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTrace(runID string) ([]sim.TimeStep, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(traceHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.TimeStep{}, nil
	}

	trace := make([]sim.TimeStep, 0, len(records)-1)
	for i, record := range records[1:] {
		step, err := parseStep(record)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", traceFile, i+1, err)
		}
		trace = append(trace, step)
	}

	return trace, nil
}

func parseStep(record []string) (sim.TimeStep, error) {
	var (
		step sim.TimeStep
		vals [9]float64
		err  error
	)
	for i, field := range record {
		if vals[i], err = strconv.ParseFloat(field, 64); err != nil {
			return step, err
		}
	}
	step = sim.TimeStep{
		TimeS:     vals[0],
		SpeedMs:   vals[1],
		DistanceM: vals[2],
		AccelMs2:  vals[3],
		Gear:      int(vals[4]),
		RPM:       vals[5],
		ThrustN:   vals[6],
		DragN:     vals[7],
		NetForceN: vals[8],
	}
	return step, nil
}

// Delete removes a run directory.
func (s *Store) Delete(runID string) error {
	dir := filepath.Join(s.baseDir, runID)
	if _, err := os.Stat(filepath.Join(dir, metadataFile)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return err
	}
	return os.RemoveAll(dir)
}
