// Package curve holds rpm-indexed engine curves (torque, power, raw dyno
// units) and the clamped linear interpolation used across the simulator.
package curve

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnordered indicates rpm values that are not ascending.
	ErrUnordered = errors.New("curve: rpm values must be ascending")

	// ErrDuplicateRPM indicates two points sharing one rpm.
	ErrDuplicateRPM = errors.New("curve: duplicate rpm value")
)

// Point is one (rpm, value) sample.
type Point struct {
	RPM   float64
	Value float64
}

// Curve is a list of points ordered by ascending rpm.
type Curve []Point

// Of builds a curve from [rpm, value] pairs.
func Of(pairs ...[2]float64) Curve {
	c := make(Curve, len(pairs))
	for i, p := range pairs {
		c[i] = Point{RPM: p[0], Value: p[1]}
	}
	return c
}

func (c Curve) Validate() error {
	for i := 1; i < len(c); i++ {
		switch {
		case c[i].RPM == c[i-1].RPM:
			return fmt.Errorf("%w: %g", ErrDuplicateRPM, c[i].RPM)
		case c[i].RPM < c[i-1].RPM:
			return fmt.Errorf("%w: %g after %g", ErrUnordered, c[i].RPM, c[i-1].RPM)
		}
	}
	return nil
}

// At returns the value at rpm. Outside the curve's range the first or last
// value is returned; an empty curve yields 0.
func (c Curve) At(rpm float64) float64 {
	n := len(c)
	if n == 0 {
		return 0
	}
	if rpm <= c[0].RPM {
		return c[0].Value
	}
	if rpm >= c[n-1].RPM {
		return c[n-1].Value
	}

	i := sort.Search(n, func(i int) bool { return c[i].RPM >= rpm })
	lo, hi := c[i-1], c[i]
	if hi.RPM == lo.RPM {
		return lo.Value
	}
	t := (rpm - lo.RPM) / (hi.RPM - lo.RPM)
	return lo.Value + t*(hi.Value-lo.Value)
}

// Scale returns a copy with every value multiplied by factor.
func (c Curve) Scale(factor float64) Curve {
	out := make(Curve, len(c))
	for i, p := range c {
		out[i] = Point{RPM: p.RPM, Value: p.Value * factor}
	}
	return out
}

// Within returns the points with lo <= rpm <= hi.
func (c Curve) Within(lo, hi float64) Curve {
	out := make(Curve, 0, len(c))
	for _, p := range c {
		if p.RPM >= lo && p.RPM <= hi {
			out = append(out, p)
		}
	}
	return out
}

// Peak returns the point with the largest value. ok is false for an empty curve.
func (c Curve) Peak() (p Point, ok bool) {
	if len(c) == 0 {
		return Point{}, false
	}
	p = c[0]
	for _, q := range c[1:] {
		if q.Value > p.Value {
			p = q
		}
	}
	return p, true
}

func (c Curve) Clone() Curve {
	if c == nil {
		return nil
	}
	out := make(Curve, len(c))
	copy(out, c)
	return out
}

// PowerFromTorque converts a torque curve in Nm to a power curve in kW.
func PowerFromTorque(torque Curve) Curve {
	out := make(Curve, len(torque))
	for i, p := range torque {
		out[i] = Point{RPM: p.RPM, Value: p.Value * p.RPM / 9549}
	}
	return out
}
