package envelope

import (
	"math"

	"github.com/san-kum/dragsim/internal/thrust"
)

// ShiftPoints returns exactly len(curves)-1 up-shifts, one per adjacent gear
// pair, strictly increasing in speed.
//
// The shift speed is the midpoint of the first envelope transition from gear
// i to gear i+1 at or before gear i's top speed, clamped to that top speed.
// Without such a transition, or when the transition would not move past the
// previous shift, the shift happens at gear i's top speed.
func ShiftPoints(env []Point, curves []thrust.GearCurve) []ShiftPoint {
	if len(curves) < 2 {
		return nil
	}

	shifts := make([]ShiftPoint, 0, len(curves)-1)
	prev := math.Inf(-1)

	for i := 0; i+1 < len(curves); i++ {
		from, to := curves[i], curves[i+1]
		top := from.MaxSpeedMs

		speed, found := transition(env, from.Gear, to.Gear, top)
		if !found || speed <= prev {
			speed = top
		}
		if speed <= prev {
			// gear i never reaches past the previous shift
			speed = math.Nextafter(prev, math.Inf(1))
		}

		shifts = append(shifts, ShiftPoint{
			FromGear: from.Gear,
			ToGear:   to.Gear,
			SpeedMs:  speed,
			RPM:      from.RPMAt(speed),
		})
		prev = speed
	}
	return shifts
}

func transition(env []Point, from, to int, top float64) (float64, bool) {
	for j := 0; j+1 < len(env); j++ {
		a, b := env[j], env[j+1]
		if a.SpeedMs > top {
			break
		}
		if a.Gear == from && b.Gear == to {
			return math.Min((a.SpeedMs+b.SpeedMs)/2, top), true
		}
	}
	return 0, false
}
