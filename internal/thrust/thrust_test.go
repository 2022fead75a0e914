package thrust

import (
	"math"
	"testing"

	"github.com/san-kum/dragsim/internal/curve"
	"github.com/san-kum/dragsim/internal/physics"
	"github.com/san-kum/dragsim/internal/vehicle"
)

func testSetup() vehicle.Setup {
	spec := vehicle.CarSpec{
		ID: "test",
		Engine: vehicle.Engine{
			TorqueCurve: curve.Of([2]float64{1000, 499}, [2]float64{2000, 480}, [2]float64{4000, 420}, [2]float64{6500, 200}),
			IdleRPM:     800,
			RedlineRPM:  7000,
			Induction:   physics.Turbocharged,
		},
		Transmission: vehicle.Transmission{
			GearRatios:     []float64{4.71, 3.14, 2.11, 1.67, 1.29, 1.0},
			FinalDrive:     3.15,
			ShiftTimeMs:    150,
			DrivetrainLoss: 0.15,
		},
		Tire:         vehicle.Tire{WidthMM: 255, AspectRatio: 35, RimIn: 19},
		Aero:         vehicle.Aero{Cd: 0.29, FrontalAreaM2: 2.2},
		CurbWeightKg: 1565,
	}
	return vehicle.Resolve(spec, vehicle.Stock())
}

func TestBuildAllOrdering(t *testing.T) {
	curves := BuildAll(testSetup(), 1)

	if len(curves) != 6 {
		t.Fatalf("expected 6 curves, got %d", len(curves))
	}

	for i, c := range curves {
		if c.Gear != i+1 {
			t.Errorf("curve %d has gear %d", i, c.Gear)
		}
		if i == 0 {
			continue
		}
		prev := curves[i-1]
		if c.MaxSpeedMs <= prev.MaxSpeedMs {
			t.Errorf("gear %d top speed %f not above gear %d %f", c.Gear, c.MaxSpeedMs, prev.Gear, prev.MaxSpeedMs)
		}
		if c.PeakForce() >= prev.PeakForce() {
			t.Errorf("gear %d peak force %f not below gear %d %f", c.Gear, c.PeakForce(), prev.Gear, prev.PeakForce())
		}
	}
}

func TestBuildFiltersRPMRange(t *testing.T) {
	s := testSetup()
	s.TorqueCurve = curve.Of([2]float64{500, 100}, [2]float64{1000, 300}, [2]float64{7000, 250}, [2]float64{7500, 100})

	c := Build(s, s.TorqueCurve, 0)
	if len(c.Points) != 2 {
		t.Fatalf("expected 2 points within idle..redline, got %d", len(c.Points))
	}
	for _, p := range c.Points {
		if p.RPM < s.IdleRPM || p.RPM > s.RedlineRPM {
			t.Errorf("point at %f rpm outside range", p.RPM)
		}
	}
	if c.MinSpeedMs != c.Points[0].SpeedMs || c.MaxSpeedMs != c.Points[1].SpeedMs {
		t.Error("speed range should match first and last point")
	}
}

func TestBuildProjection(t *testing.T) {
	s := testSetup()
	c := Build(s, s.TorqueCurve, 0)

	p := c.Points[0]
	wantForce := 499 * 4.71 * 3.15 * 0.85 / s.TireRadiusM
	if math.Abs(p.ForceN-wantForce) > 1e-6 {
		t.Errorf("expected force %f, got %f", wantForce, p.ForceN)
	}
	if math.Abs(c.RPMAt(p.SpeedMs)-1000) > 1e-9 {
		t.Errorf("RPMAt should invert the projection, got %f", c.RPMAt(p.SpeedMs))
	}
}

func TestEmptyGear(t *testing.T) {
	s := testSetup()
	s.TorqueCurve = curve.Of([2]float64{8000, 100}, [2]float64{9000, 90})

	c := Build(s, s.TorqueCurve, 2)
	if !c.Empty() {
		t.Fatal("expected empty curve")
	}
	if c.Gear != 3 {
		t.Errorf("expected gear 3, got %d", c.Gear)
	}
	for _, v := range []float64{0, 10, 100} {
		if f := c.ForceAt(v); f != 0 {
			t.Errorf("empty curve at %f should be 0, got %f", v, f)
		}
	}
}

func TestForceAtClampsAndInterpolates(t *testing.T) {
	c := NewGearCurve(1, 3, 3, 0.3, []Sample{
		{SpeedMs: 20, ForceN: 4000, RPM: 4000},
		{SpeedMs: 5, ForceN: 6000, RPM: 1000},
		{SpeedMs: 10, ForceN: 5000, RPM: 2000},
	})

	if c.Points[0].SpeedMs != 5 {
		t.Fatal("points should be sorted by speed")
	}

	tests := []struct {
		speed, expected float64
	}{
		{0, 6000},
		{5, 6000},
		{7.5, 5500},
		{15, 4500},
		{20, 4000},
		{40, 4000},
	}
	for _, tt := range tests {
		if got := c.ForceAt(tt.speed); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("ForceAt(%f): expected %f, got %f", tt.speed, tt.expected, got)
		}
	}
}

func TestForceAtCoincidentSpeeds(t *testing.T) {
	c := NewGearCurve(1, 3, 3, 0.3, []Sample{
		{SpeedMs: 5, ForceN: 6000},
		{SpeedMs: 5, ForceN: 5800},
		{SpeedMs: 10, ForceN: 5000},
	})
	if got := c.ForceAt(7.5); math.Abs(got-5400) > 1e-9 {
		t.Errorf("expected 5400, got %f", got)
	}
}

func TestForceAtWithoutPredictor(t *testing.T) {
	c := GearCurve{
		Gear: 1,
		Points: []Sample{
			{SpeedMs: 5, ForceN: 6000},
			{SpeedMs: 10, ForceN: 5000},
		},
	}
	if got := c.ForceAt(7.5); math.Abs(got-5500) > 1e-9 {
		t.Errorf("expected 5500, got %f", got)
	}

	same := NewGearCurve(1, 3, 3, 0.3, []Sample{
		{SpeedMs: 5, ForceN: 6000},
		{SpeedMs: 5, ForceN: 5800},
	})
	if got := same.ForceAt(4); got != 6000 {
		t.Errorf("below range: expected 6000, got %f", got)
	}
	if got := same.ForceAt(6); got != 5800 {
		t.Errorf("above range: expected 5800, got %f", got)
	}
}

func TestApplyTraction(t *testing.T) {
	s := testSetup()
	curves := BuildAll(s, 1)
	limit := 1.0 * s.MassKg * physics.Gravity

	if curves[0].PeakForce() <= limit {
		t.Fatal("fixture should exceed the traction limit in first gear")
	}

	ApplyTraction(curves, 1.0, s.MassKg)

	for _, c := range curves {
		if c.PeakForce() > limit+1e-9 {
			t.Errorf("gear %d exceeds limit: %f", c.Gear, c.PeakForce())
		}
	}
	if curves[0].ForceAt(curves[0].MinSpeedMs+0.1) > limit+1e-9 {
		t.Error("interpolation should use capped samples")
	}
}

func TestEffectiveTorque(t *testing.T) {
	s := testSetup()
	s.TorqueMultiplier = 1.2

	eff := EffectiveTorque(s, 0.9)
	if math.Abs(eff[0].Value-499*1.2*0.9) > 1e-9 {
		t.Errorf("unexpected effective torque %f", eff[0].Value)
	}
	if s.TorqueCurve[0].Value != 499 {
		t.Error("effective torque must not mutate the setup curve")
	}
}
