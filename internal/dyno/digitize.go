package dyno

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/dragsim/internal/curve"
	"github.com/san-kum/dragsim/internal/physics"
)

var (
	ErrNoTrace      = errors.New("dyno: no pixels matched the trace color")
	ErrTooFewPoints = errors.New("dyno: fewer than 2 usable curve points")
	ErrUnknownUnit  = errors.New("dyno: unknown unit")
	ErrRPMRange     = errors.New("dyno: idle rpm must be >= 0 and below redline")
)

// RPMStep is the resampling interval.
const RPMStep = 200

// Unit is the physical quantity on the chart's Y axis.
type Unit string

const (
	Nm   Unit = "nm"
	LbFt Unit = "lbft"
	KW   Unit = "kw"
	HP   Unit = "hp"
)

var Units = []Unit{Nm, LbFt, KW, HP}

func ParseUnit(s string) (Unit, error) {
	for _, u := range Units {
		if string(u) == s {
			return u, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownUnit, s)
}

// ToNm converts a Y-axis value read at rpm into torque.
func (u Unit) ToNm(value, rpm float64) float64 {
	switch u {
	case LbFt:
		return physics.LbFtToNm(value)
	case KW:
		return physics.KWToNm(value, rpm)
	case HP:
		return physics.HPToNm(value, rpm)
	default:
		return value
	}
}

// TracedPoint is a pixel that belongs to the plotted line.
type TracedPoint struct {
	X, Y int
}

// Extract keeps the topmost matching pixel of every column. Columns without a
// match are skipped.
func Extract(p Pixels, target RGB, tolerance float64) []TracedPoint {
	var out []TracedPoint
	w, h := p.Width(), p.Height()
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if Matches(p.At(x, y), target, tolerance) {
				out = append(out, TracedPoint{X: x, Y: y})
				break
			}
		}
	}
	return out
}

// Resample maps traced pixels through cal and samples the result every
// RPMStep from the first multiple at or above idle up to redline. Grid rpms
// outside the traced range or at zero are skipped, as are torques that are
// not positive and finite.
func Resample(traced []TracedPoint, cal Calibration, unit Unit, idleRPM, redlineRPM float64) curve.Curve {
	if len(traced) == 0 {
		return nil
	}

	raw := make(curve.Curve, len(traced))
	for i, tp := range traced {
		x, y := cal.Map(float64(tp.X), float64(tp.Y))
		raw[i] = curve.Point{RPM: x, Value: y}
	}
	sort.SliceStable(raw, func(i, j int) bool { return raw[i].RPM < raw[j].RPM })
	lo, hi := raw[0].RPM, raw[len(raw)-1].RPM

	var out curve.Curve
	start := math.Ceil(idleRPM/RPMStep) * RPMStep
	for rpm := start; rpm <= redlineRPM; rpm += RPMStep {
		if rpm <= 0 || rpm < lo || rpm > hi {
			continue
		}
		nm := unit.ToNm(raw.At(rpm), rpm)
		if nm <= 0 || math.IsInf(nm, 0) || math.IsNaN(nm) {
			continue
		}
		out = append(out, curve.Point{RPM: rpm, Value: nm})
	}
	return out
}

// Options describes one digitization pass.
type Options struct {
	Target      RGB
	Tolerance   float64
	Calibration Calibration
	Unit        Unit
	IdleRPM     float64
	RedlineRPM  float64
}

// Digitize traces and resamples a chart. It fails with ErrRPMRange for a
// negative idle or a redline not above it, ErrNoTrace when no pixel matches
// and ErrTooFewPoints when fewer than two samples survive.
func Digitize(p Pixels, opts Options) (curve.Curve, error) {
	if opts.IdleRPM < 0 || opts.RedlineRPM <= opts.IdleRPM {
		return nil, fmt.Errorf("%w: idle %g, redline %g", ErrRPMRange, opts.IdleRPM, opts.RedlineRPM)
	}
	traced := Extract(p, opts.Target, opts.Tolerance)
	if len(traced) == 0 {
		return nil, ErrNoTrace
	}

	c := Resample(traced, opts.Calibration, opts.Unit, opts.IdleRPM, opts.RedlineRPM)
	if len(c) < 2 {
		return c, fmt.Errorf("%w: got %d from %d traced pixels", ErrTooFewPoints, len(c), len(traced))
	}
	return c, nil
}
