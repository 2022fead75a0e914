package sim

import (
	"github.com/san-kum/dragsim/internal/envelope"
	"github.com/san-kum/dragsim/internal/thrust"
)

// TimeStep is one integration sample.
type TimeStep struct {
	TimeS     float64 `json:"timeS"`
	SpeedMs   float64 `json:"speedMs"`
	DistanceM float64 `json:"distanceM"`
	AccelMs2  float64 `json:"accelMs2"`
	Gear      int     `json:"gear"`
	RPM       float64 `json:"rpm"`
	ThrustN   float64 `json:"thrustN"`
	DragN     float64 `json:"dragN"`
	NetForceN float64 `json:"netForceN"`
}

// Performance holds the derived figures. A nil field was never reached.
type Performance struct {
	ZeroTo60MphS       *float64 `json:"zeroTo60MphS,omitempty"`
	ZeroTo100KmhS      *float64 `json:"zeroTo100KmhS,omitempty"`
	QuarterMileS       *float64 `json:"quarterMileS,omitempty"`
	QuarterMileSpeedMs *float64 `json:"quarterMileSpeedMs,omitempty"`
	TopSpeedMs         *float64 `json:"topSpeedMs,omitempty"`
}

// Metric names used by Performance.Get and the optimizer.
const (
	MetricZeroTo60    = "zero_to_60"
	MetricZeroTo100   = "zero_to_100"
	MetricQuarterMile = "quarter_mile"
	MetricTrapSpeed   = "trap_speed"
	MetricTopSpeed    = "top_speed"
)

// Get looks a figure up by metric name.
func (p Performance) Get(name string) (float64, bool) {
	var f *float64
	switch name {
	case MetricZeroTo60:
		f = p.ZeroTo60MphS
	case MetricZeroTo100:
		f = p.ZeroTo100KmhS
	case MetricQuarterMile:
		f = p.QuarterMileS
	case MetricTrapSpeed:
		f = p.QuarterMileSpeedMs
	case MetricTopSpeed:
		f = p.TopSpeedMs
	}
	if f == nil {
		return 0, false
	}
	return *f, true
}

// Map flattens the figures that were reached.
func (p Performance) Map() map[string]float64 {
	out := make(map[string]float64)
	for _, name := range []string{MetricZeroTo60, MetricZeroTo100, MetricQuarterMile, MetricTrapSpeed, MetricTopSpeed} {
		if v, ok := p.Get(name); ok {
			out[name] = v
		}
	}
	return out
}

// Result is everything one run produces.
type Result struct {
	GearCurves  []thrust.GearCurve    `json:"gearCurves"`
	Envelope    []envelope.Point      `json:"envelope"`
	ShiftPoints []envelope.ShiftPoint `json:"shiftPoints"`
	Performance Performance           `json:"performance"`
	Trace       []TimeStep            `json:"trace"`
}

type Config struct {
	Dt      float64
	MaxTime float64
}

func DefaultConfig() Config {
	return Config{
		Dt:      0.01,
		MaxTime: 90,
	}
}
