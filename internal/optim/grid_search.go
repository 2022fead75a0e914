// Package optim searches modification parameters for the setup that
// minimizes a performance metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/dragsim/internal/sim"
	"github.com/san-kum/dragsim/internal/vehicle"
)

const (
	ParamFinalDrive       = "final_drive"
	ParamTorqueMultiplier = "torque_multiplier"
	ParamWeightDelta      = "weight_delta"
	ParamShiftTimeMs      = "shift_time_ms"
	ParamAltitude         = "altitude"
)

var (
	ErrUnknownParam  = errors.New("optim: unknown parameter")
	ErrUnknownMetric = errors.New("optim: unknown metric")
	ErrNoResult      = errors.New("optim: no setup reached the metric")
)

// Metrics that can be minimized.
var Metrics = []string{sim.MetricZeroTo60, sim.MetricZeroTo100, sim.MetricQuarterMile}

var setters = map[string]func(*vehicle.Modifications, float64){
	ParamFinalDrive:       func(m *vehicle.Modifications, v float64) { m.FinalDrive = vehicle.Some(v) },
	ParamTorqueMultiplier: func(m *vehicle.Modifications, v float64) { m.TorqueMultiplier = vehicle.Some(v) },
	ParamWeightDelta:      func(m *vehicle.Modifications, v float64) { m.WeightDeltaKg = vehicle.Some(v) },
	ParamShiftTimeMs:      func(m *vehicle.Modifications, v float64) { m.ShiftTimeMs = vehicle.Some(v) },
	ParamAltitude:         func(m *vehicle.Modifications, v float64) { m.AltitudeM = vehicle.Some(v) },
}

func Params() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply returns a copy of mods with every named parameter overridden.
func Apply(mods vehicle.Modifications, params map[string]float64) (vehicle.Modifications, error) {
	out := mods.Merge(vehicle.Modifications{})
	for name, v := range params {
		set, ok := setters[name]
		if !ok {
			return mods, fmt.Errorf("%w: %s", ErrUnknownParam, name)
		}
		set(&out, v)
	}
	return out, nil
}

// ParseRange reads "start:stop:step" (inclusive) or a comma list.
func ParseRange(s string) ([]float64, error) {
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("optim: range %q must be start:stop:step", s)
		}
		var nums [3]float64
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, fmt.Errorf("optim: range %q: %w", s, err)
			}
			nums[i] = v
		}
		start, stop, step := nums[0], nums[1], nums[2]
		if step <= 0 || stop < start {
			return nil, fmt.Errorf("optim: range %q needs step > 0 and stop >= start", s)
		}
		n := int(math.Floor((stop-start)/step+1e-9)) + 1
		out := make([]float64, n)
		for i := range out {
			out[i] = start + float64(i)*step
		}
		return out, nil
	}

	var out []float64
	for _, p := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("optim: value %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Best is the winning point of a search.
type Best struct {
	Params map[string]float64
	Mods   vehicle.Modifications
	Value  float64
	Trials int
}

// Search runs every combination of the grid on top of base and keeps the
// lowest value of metricName. Runs that never reach the metric are skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	spec vehicle.CarSpec,
	base vehicle.Modifications,
	metricName string,
	cfg sim.Config,
) (*Best, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("optim: %d params but %d ranges", len(g.paramNames), len(g.ranges))
	}
	for _, name := range g.paramNames {
		if _, ok := setters[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownParam, name)
		}
	}
	if !knownMetric(metricName) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, metricName)
	}

	best := &Best{Value: math.Inf(1)}
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), spec, base, metricName, cfg, best); err != nil {
		return nil, err
	}
	if best.Params == nil {
		return best, ErrNoResult
	}
	return best, nil
}

func knownMetric(name string) bool {
	for _, m := range Metrics {
		if m == name {
			return true
		}
	}
	return false
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	spec vehicle.CarSpec,
	base vehicle.Modifications,
	metricName string,
	cfg sim.Config,
	best *Best,
) error {
	if depth == len(g.paramNames) {
		if err := ctx.Err(); err != nil {
			return err
		}

		mods, err := Apply(base, current)
		if err != nil {
			return err
		}
		best.Trials++
		if mods.Validate(spec) != nil {
			return nil
		}

		result, err := sim.SimulateContext(ctx, spec, mods, cfg)
		if err != nil {
			return err
		}

		val, ok := result.Performance.Get(metricName)
		if ok && val < best.Value {
			best.Value = val
			best.Mods = mods
			best.Params = make(map[string]float64, len(current))
			for k, v := range current {
				best.Params[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, spec, base, metricName, cfg, best); err != nil {
			return err
		}
	}
	return nil
}
