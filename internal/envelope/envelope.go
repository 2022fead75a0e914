// Package envelope merges per-gear thrust curves into the best available
// thrust per speed and derives the up-shift points between adjacent gears.
package envelope

import (
	"math"

	"github.com/san-kum/dragsim/internal/thrust"
	"gonum.org/v1/gonum/floats"
)

// SpeedStep is the envelope sampling interval in m/s.
const SpeedStep = 0.25

// Point is the best thrust at a sampled speed and the gear that provides it.
type Point struct {
	SpeedMs float64 `json:"speedMs"`
	ForceN  float64 `json:"forceN"`
	Gear    int     `json:"gear"`
}

// ShiftPoint marks where to change from FromGear up to ToGear.
type ShiftPoint struct {
	FromGear int     `json:"fromGear"`
	ToGear   int     `json:"toGear"`
	SpeedMs  float64 `json:"speedMs"`
	RPM      float64 `json:"rpm"`
}

// covers reports whether gear curve c takes part at speed v. Every gear is
// allowed one step past its top speed so samples straddling a boundary do
// not leave a gap. The lowest gear launches from standstill on its
// first-point force.
func covers(c thrust.GearCurve, v float64, lowest bool) bool {
	if c.Empty() || v > c.MaxSpeedMs+SpeedStep {
		return false
	}
	return lowest || v >= c.MinSpeedMs
}

// Build samples speed from 0 to the highest gear top speed and keeps the
// strongest gear at each sample. Samples with no thrust are omitted.
func Build(curves []thrust.GearCurve) []Point {
	top := 0.0
	lowest := -1
	for i, c := range curves {
		if c.Empty() {
			continue
		}
		if lowest < 0 {
			lowest = i
		}
		top = math.Max(top, c.MaxSpeedMs)
	}
	if lowest < 0 {
		return nil
	}

	n := int(math.Ceil(top/SpeedStep)) + 1
	env := make([]Point, 0, n)
	forces := make([]float64, len(curves))

	for k := 0; k < n; k++ {
		v := float64(k) * SpeedStep
		for i, c := range curves {
			forces[i] = 0
			if covers(c, v, i == lowest) {
				forces[i] = c.ForceAt(v)
			}
		}

		// MaxIdx keeps the first maximum, so ties go to the lower gear.
		best := floats.MaxIdx(forces)
		if forces[best] <= 0 {
			continue
		}
		env = append(env, Point{SpeedMs: v, ForceN: forces[best], Gear: curves[best].Gear})
	}
	return env
}
