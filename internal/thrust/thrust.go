// Package thrust projects an engine torque curve through each gear into
// speed→force curves at the driven wheels.
package thrust

import (
	"math"
	"sort"

	"github.com/san-kum/dragsim/internal/curve"
	"github.com/san-kum/dragsim/internal/physics"
	"github.com/san-kum/dragsim/internal/vehicle"
	"gonum.org/v1/gonum/interp"
)

// Sample is one point of a gear's thrust curve.
type Sample struct {
	SpeedMs float64 `json:"speedMs"`
	ForceN  float64 `json:"forceN"`
	RPM     float64 `json:"rpm"`
}

// GearCurve is the thrust available in one gear between idle and redline.
// An empty curve is valid and contributes nothing.
type GearCurve struct {
	Gear        int      `json:"gear"`
	Ratio       float64  `json:"ratio"`
	FinalDrive  float64  `json:"finalDrive"`
	TireRadiusM float64  `json:"tireRadiusM"`
	Points      []Sample `json:"points"`
	MinSpeedMs  float64  `json:"minSpeedMs"`
	MaxSpeedMs  float64  `json:"maxSpeedMs"`

	pred *interp.PiecewiseLinear
}

// NewGearCurve sorts samples by speed and derives the valid speed range.
func NewGearCurve(gear int, ratio, finalDrive, tireRadiusM float64, samples []Sample) GearCurve {
	pts := append([]Sample(nil), samples...)
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].SpeedMs < pts[j].SpeedMs })

	g := GearCurve{
		Gear:        gear,
		Ratio:       ratio,
		FinalDrive:  finalDrive,
		TireRadiusM: tireRadiusM,
		Points:      pts,
	}
	if len(pts) > 0 {
		g.MinSpeedMs = pts[0].SpeedMs
		g.MaxSpeedMs = pts[len(pts)-1].SpeedMs
	}
	g.fit()
	return g
}

func (g *GearCurve) fit() {
	g.pred = nil
	if len(g.Points) < 2 {
		return
	}
	xs := make([]float64, 0, len(g.Points))
	ys := make([]float64, 0, len(g.Points))
	for _, p := range g.Points {
		// Fit needs strictly increasing speeds; the later sample wins.
		if n := len(xs); n > 0 && p.SpeedMs == xs[n-1] {
			ys[n-1] = p.ForceN
			continue
		}
		xs = append(xs, p.SpeedMs)
		ys = append(ys, p.ForceN)
	}
	if len(xs) < 2 {
		return
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return
	}
	g.pred = &pl
}

func (g GearCurve) Empty() bool { return len(g.Points) == 0 }

// ForceAt returns thrust at a speed, clamped to the end points outside the
// curve's range. An empty curve yields 0.
func (g GearCurve) ForceAt(speedMs float64) float64 {
	n := len(g.Points)
	switch {
	case n == 0:
		return 0
	case speedMs <= g.Points[0].SpeedMs:
		return g.Points[0].ForceN
	case speedMs >= g.Points[n-1].SpeedMs:
		return g.Points[n-1].ForceN
	}
	if g.pred == nil {
		// decoded or hand-built curves carry no predictor yet
		g.fit()
		if g.pred == nil {
			return g.Points[n-1].ForceN
		}
	}
	return g.pred.Predict(speedMs)
}

// RPMAt returns engine speed at a road speed in this gear.
func (g GearCurve) RPMAt(speedMs float64) float64 {
	return physics.SpeedToRPM(speedMs, g.Ratio, g.FinalDrive, g.TireRadiusM)
}

// PeakForce returns the largest thrust on the curve.
func (g GearCurve) PeakForce() float64 {
	peak := 0.0
	for _, p := range g.Points {
		peak = math.Max(peak, p.ForceN)
	}
	return peak
}

// Cap clamps every sample's force to at most maxForceN.
func (g *GearCurve) Cap(maxForceN float64) {
	for i := range g.Points {
		if g.Points[i].ForceN > maxForceN {
			g.Points[i].ForceN = maxForceN
		}
	}
	g.fit()
}

// EffectiveTorque is the custom-or-stock curve scaled by the torque
// multiplier and the altitude power correction.
func EffectiveTorque(s vehicle.Setup, powerCorrection float64) curve.Curve {
	return s.TorqueCurve.Scale(s.TorqueMultiplier * powerCorrection)
}

// Build projects torque through gear index i (0 = first gear).
func Build(s vehicle.Setup, torque curve.Curve, i int) GearCurve {
	ratio := s.GearRatios[i]
	inRange := torque.Within(s.IdleRPM, s.RedlineRPM)

	samples := make([]Sample, 0, len(inRange))
	for _, p := range inRange {
		wheel := physics.WheelTorque(p.Value, ratio, s.FinalDrive, s.DrivetrainLoss)
		samples = append(samples, Sample{
			SpeedMs: physics.RPMToSpeed(p.RPM, ratio, s.FinalDrive, s.TireRadiusM),
			ForceN:  physics.WheelForce(wheel, s.TireRadiusM),
			RPM:     p.RPM,
		})
	}
	return NewGearCurve(i+1, ratio, s.FinalDrive, s.TireRadiusM, samples)
}

// BuildAll returns one curve per gear, indexed so curves[i].Gear == i+1.
func BuildAll(s vehicle.Setup, powerCorrection float64) []GearCurve {
	torque := EffectiveTorque(s, powerCorrection)
	curves := make([]GearCurve, len(s.GearRatios))
	for i := range s.GearRatios {
		curves[i] = Build(s, torque, i)
	}
	return curves
}

// ApplyTraction caps every gear at μ·m·g. Call once per run, before the
// envelope is built.
func ApplyTraction(curves []GearCurve, mu, massKg float64) {
	limit := mu * massKg * physics.Gravity
	for i := range curves {
		curves[i].Cap(limit)
	}
}
