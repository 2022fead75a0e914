package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/dragsim/internal/envelope"
	"github.com/san-kum/dragsim/internal/metrics"
	"github.com/san-kum/dragsim/internal/physics"
	"github.com/san-kum/dragsim/internal/thrust"
	"github.com/san-kum/dragsim/internal/vehicle"
)

// blackoutEpsilon absorbs float drift when the remaining shift time is
// decremented step by step.
const blackoutEpsilon = 1e-9

// Chassis carries the resistive side of the car.
type Chassis struct {
	MassKg        float64
	Cd            float64
	FrontalAreaM2 float64
	AirDensity    float64
	Crr           float64
}

func ChassisFor(s vehicle.Setup) Chassis {
	return Chassis{
		MassKg:        s.MassKg,
		Cd:            s.Cd,
		FrontalAreaM2: s.FrontalAreaM2,
		AirDensity:    s.AirDensity(),
		Crr:           physics.DefaultCrr,
	}
}

func (c Chassis) Drag(speedMs float64) float64 {
	return physics.AeroDrag(c.Cd, c.FrontalAreaM2, c.AirDensity, speedMs)
}

func (c Chassis) Rolling() float64 {
	return physics.RollingResistance(c.Crr, c.MassKg)
}

// Simulator integrates a straight-line launch with explicit Euler steps.
type Simulator struct {
	chassis    Chassis
	curves     []thrust.GearCurve
	shifts     []envelope.ShiftPoint
	shiftTimeS float64
}

func New(chassis Chassis, curves []thrust.GearCurve, shifts []envelope.ShiftPoint, shiftTimeMs float64) *Simulator {
	return &Simulator{
		chassis:    chassis,
		curves:     curves,
		shifts:     shifts,
		shiftTimeS: shiftTimeMs / 1000,
	}
}

func (s *Simulator) curveFor(gear int) (thrust.GearCurve, bool) {
	if i := gear - 1; i >= 0 && i < len(s.curves) && s.curves[i].Gear == gear {
		return s.curves[i], true
	}
	for _, c := range s.curves {
		if c.Gear == gear {
			return c, true
		}
	}
	return thrust.GearCurve{}, false
}

// Run steps from standstill in first gear until 0-60 mph, 0-100 km/h and
// the quarter mile have all been reached, or cfg.MaxTime elapses.
func (s *Simulator) Run(ctx context.Context, cfg Config) ([]TimeStep, Performance, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, Performance{}, err
	}

	dt := cfg.Dt
	steps := int(math.Round(cfg.MaxTime / dt))

	zeroTo60 := metrics.NewSpeedLatch(MetricZeroTo60, physics.SixtyMphMs)
	zeroTo100 := metrics.NewSpeedLatch(MetricZeroTo100, physics.HundredKphMs)
	quarter := metrics.NewDistanceLatch(MetricQuarterMile, physics.QuarterMileM)
	latches := []metrics.Metric{zeroTo60, zeroTo100, quarter}

	trace := make([]TimeStep, 0, min(steps, 2048))

	var (
		t, v, d  float64
		gear     = 1
		blackout float64
		next     int
		mass     = s.chassis.MassKg
		rolling  = s.chassis.Rolling()
	)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return trace, collect(zeroTo60, zeroTo100, quarter), ctx.Err()
		default:
		}

		thrustN := 0.0
		switch {
		case blackout > 0:
			blackout -= dt
			if blackout < blackoutEpsilon {
				blackout = 0
			}
		case next < len(s.shifts) && v >= s.shifts[next].SpeedMs:
			gear = s.shifts[next].ToGear
			next++
			blackout = math.Max(0, s.shiftTimeS-dt)
		default:
			if c, ok := s.curveFor(gear); ok {
				thrustN = c.ForceAt(v)
			}
		}

		drag := s.chassis.Drag(v)
		net := thrustN - drag - rolling
		a := net / mass

		rpm := 0.0
		if c, ok := s.curveFor(gear); ok {
			rpm = c.RPMAt(v)
		}

		trace = append(trace, TimeStep{
			TimeS:     t,
			SpeedMs:   v,
			DistanceM: d,
			AccelMs2:  a,
			Gear:      gear,
			RPM:       rpm,
			ThrustN:   thrustN,
			DragN:     drag,
			NetForceN: net,
		})

		for _, m := range latches {
			m.Observe(t, v, d)
		}
		if metrics.AllDone(latches) {
			break
		}

		nv := math.Max(0, v+a*dt)
		d += (v + nv) / 2 * dt
		v = nv
		t = float64(i+1) * dt
	}

	return trace, collect(zeroTo60, zeroTo100, quarter), nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.MaxTime <= 0 {
		return fmt.Errorf("max time must be positive, got %f", cfg.MaxTime)
	}
	if s.chassis.MassKg <= 0 {
		return fmt.Errorf("mass must be positive, got %f", s.chassis.MassKg)
	}
	return nil
}

func collect(zeroTo60, zeroTo100 *metrics.SpeedLatch, quarter *metrics.DistanceLatch) Performance {
	var p Performance
	if v, ok := zeroTo60.Value(); ok {
		p.ZeroTo60MphS = &v
	}
	if v, ok := zeroTo100.Value(); ok {
		p.ZeroTo100KmhS = &v
	}
	if v, ok := quarter.Value(); ok {
		p.QuarterMileS = &v
	}
	if v, ok := quarter.TrapSpeed(); ok {
		p.QuarterMileSpeedMs = &v
	}
	return p
}

// TopSpeed is the highest envelope speed at which thrust still beats drag
// and rolling resistance.
func TopSpeed(env []envelope.Point, c Chassis) float64 {
	top := 0.0
	rolling := c.Rolling()
	for _, p := range env {
		if p.ForceN > c.Drag(p.SpeedMs)+rolling {
			top = math.Max(top, p.SpeedMs)
		}
	}
	return top
}
