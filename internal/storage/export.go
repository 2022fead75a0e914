package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/dragsim/internal/envelope"
	"github.com/san-kum/dragsim/internal/sim"
	"github.com/san-kum/dragsim/internal/thrust"
)

type ExportData struct {
	Run         RunMetadata           `json:"run"`
	GearCurves  []thrust.GearCurve    `json:"gearCurves,omitempty"`
	Envelope    []envelope.Point      `json:"envelope,omitempty"`
	ShiftPoints []envelope.ShiftPoint `json:"shiftPoints"`
	Trace       []sim.TimeStep        `json:"trace"`
}

// ExportJSON writes a stored run, metadata and trace together, to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	trace, err := s.LoadTrace(runID)
	if err != nil {
		return err
	}

	return encode(w, ExportData{
		Run:         *meta,
		ShiftPoints: meta.ShiftPoints,
		Trace:       trace,
	})
}

// ExportResult writes a fresh result, curves included, to path, or to
// stdout when path is empty or "-".
func ExportResult(path string, meta RunMetadata, res *sim.Result) error {
	data := ExportData{
		Run:         meta,
		GearCurves:  res.GearCurves,
		Envelope:    res.Envelope,
		ShiftPoints: res.ShiftPoints,
		Trace:       res.Trace,
	}

	if path == "" || path == "-" {
		return encode(os.Stdout, data)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return encode(file, data)
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
