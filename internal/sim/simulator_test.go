package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/dragsim/internal/envelope"
	"github.com/san-kum/dragsim/internal/physics"
	"github.com/san-kum/dragsim/internal/thrust"
)

func flatCurve(gear int, ratio, force float64) thrust.GearCurve {
	return thrust.NewGearCurve(gear, ratio, 1, 0.3, []thrust.Sample{
		{SpeedMs: 0, ForceN: force, RPM: 0},
		{SpeedMs: 200, ForceN: force, RPM: 6000},
	})
}

func TestRunConstantThrust(t *testing.T) {
	const (
		force = 5000.0
		mass  = 1000.0
	)

	s := New(Chassis{MassKg: mass}, []thrust.GearCurve{flatCurve(1, 1, force)}, nil, 0)
	trace, perf, err := s.Run(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for i, step := range trace {
		if math.Abs(step.AccelMs2-force/mass) > 1e-12 {
			t.Fatalf("step %d: expected accel %f, got %f", i, force/mass, step.AccelMs2)
		}
	}

	if perf.ZeroTo60MphS == nil {
		t.Fatal("expected 0-60 time")
	}
	expected := physics.SixtyMphMs * mass / force
	if got := *perf.ZeroTo60MphS; math.Abs(got-expected) > DefaultConfig().Dt+1e-9 {
		t.Errorf("expected 0-60 ~%.4f, got %.4f", expected, got)
	}
}

func TestRunTraceStartsAtRest(t *testing.T) {
	s := New(Chassis{MassKg: 1000}, []thrust.GearCurve{flatCurve(1, 1, 4000)}, nil, 0)
	trace, _, err := s.Run(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(trace) == 0 {
		t.Fatal("expected trace")
	}
	first := trace[0]
	if first.TimeS != 0 || first.SpeedMs != 0 || first.DistanceM != 0 || first.Gear != 1 {
		t.Errorf("unexpected first step %+v", first)
	}
}

func TestRunEarlyExit(t *testing.T) {
	s := New(Chassis{MassKg: 1000}, []thrust.GearCurve{flatCurve(1, 1, 8000)}, nil, 0)
	trace, perf, err := s.Run(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if perf.QuarterMileS == nil || perf.ZeroTo100KmhS == nil || perf.QuarterMileSpeedMs == nil {
		t.Fatalf("expected every latch to fire, got %+v", perf)
	}
	last := trace[len(trace)-1]
	if last.TimeS != *perf.QuarterMileS {
		t.Errorf("expected run to stop at quarter mile %.2f, stopped at %.2f", *perf.QuarterMileS, last.TimeS)
	}
	if last.DistanceM < physics.QuarterMileM {
		t.Errorf("expected distance past quarter mile, got %f", last.DistanceM)
	}
}

func TestRunHitsCeiling(t *testing.T) {
	// Rolling resistance exceeds thrust, so the car never moves.
	s := New(Chassis{MassKg: 1000, Crr: 0.015}, []thrust.GearCurve{flatCurve(1, 1, 100)}, nil, 0)
	cfg := Config{Dt: 0.01, MaxTime: 2}
	trace, perf, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(trace) != 200 {
		t.Errorf("expected 200 steps, got %d", len(trace))
	}
	if perf.ZeroTo60MphS != nil || perf.QuarterMileS != nil {
		t.Errorf("expected no latched metrics, got %+v", perf)
	}
	for _, step := range trace {
		if step.SpeedMs != 0 {
			t.Fatalf("speed should stay clamped at 0, got %f", step.SpeedMs)
		}
	}
}

func TestRunShiftBlackout(t *testing.T) {
	curves := []thrust.GearCurve{flatCurve(1, 3, 6000), flatCurve(2, 2, 4000)}
	shifts := []envelope.ShiftPoint{{FromGear: 1, ToGear: 2, SpeedMs: 5}}

	s := New(Chassis{MassKg: 1000}, curves, shifts, 150)
	trace, _, err := s.Run(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	shift := -1
	for i, step := range trace {
		if step.Gear == 2 {
			shift = i
			break
		}
	}
	if shift < 0 {
		t.Fatal("expected a shift to gear 2")
	}
	if trace[shift-1].ThrustN != 6000 {
		t.Errorf("expected full thrust before the shift, got %f", trace[shift-1].ThrustN)
	}

	// 150 ms at 10 ms steps: the shift step itself plus 14 blackout steps.
	for i := shift; i < shift+15; i++ {
		if trace[i].ThrustN != 0 {
			t.Errorf("step %d: expected no thrust during blackout, got %f", i, trace[i].ThrustN)
		}
		if trace[i].NetForceN != 0 {
			t.Errorf("step %d: expected no net force, got %f", i, trace[i].NetForceN)
		}
	}
	if trace[shift+15].ThrustN != 4000 {
		t.Errorf("expected second gear thrust after blackout, got %f", trace[shift+15].ThrustN)
	}
}

func TestRunFallbackShiftBeforeNextGear(t *testing.T) {
	g1 := thrust.NewGearCurve(1, 3, 3, 0.3, []thrust.Sample{
		{SpeedMs: 2, ForceN: 8000, RPM: 1000},
		{SpeedMs: 10, ForceN: 6000, RPM: 5000},
	})
	g2 := thrust.NewGearCurve(2, 1.5, 3, 0.3, []thrust.Sample{
		{SpeedMs: 14, ForceN: 3000, RPM: 1000},
		{SpeedMs: 30, ForceN: 2000, RPM: 5000},
	})
	curves := []thrust.GearCurve{g1, g2}
	shifts := envelope.ShiftPoints(envelope.Build(curves), curves)
	if len(shifts) != 1 || shifts[0].SpeedMs != g1.MaxSpeedMs {
		t.Fatalf("expected fallback shift at %f, got %+v", g1.MaxSpeedMs, shifts)
	}

	s := New(Chassis{MassKg: 1000}, curves, shifts, 100)
	trace, _, err := s.Run(context.Background(), Config{Dt: 0.01, MaxTime: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	sawSecond := false
	for _, step := range trace {
		if step.Gear != 2 || step.ThrustN == 0 || step.SpeedMs >= g2.MinSpeedMs {
			continue
		}
		sawSecond = true
		if step.ThrustN != 3000 {
			t.Errorf("below gear 2 range at %f m/s expected first-point force 3000, got %f", step.SpeedMs, step.ThrustN)
		}
	}
	if !sawSecond {
		t.Error("expected second gear to pull below its curve's start")
	}
}

func TestRunInvalidConfig(t *testing.T) {
	s := New(Chassis{MassKg: 1000}, nil, nil, 0)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, MaxTime: 90}},
		{"negative dt", Config{Dt: -0.01, MaxTime: 90}},
		{"zero ceiling", Config{Dt: 0.01, MaxTime: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := s.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}

	massless := New(Chassis{}, nil, nil, 0)
	if _, _, err := massless.Run(context.Background(), DefaultConfig()); err == nil {
		t.Error("expected error for zero mass")
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(Chassis{MassKg: 1000}, []thrust.GearCurve{flatCurve(1, 1, 4000)}, nil, 0)
	_, _, err := s.Run(ctx, DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestTopSpeed(t *testing.T) {
	c := Chassis{MassKg: 1000, Cd: 0.3, FrontalAreaM2: 2, AirDensity: 1.225, Crr: 0.015}
	env := []envelope.Point{
		{SpeedMs: 10, ForceN: 3000, Gear: 1},
		{SpeedMs: 40, ForceN: 1200, Gear: 3},
		{SpeedMs: 60, ForceN: 1500, Gear: 4},
		{SpeedMs: 70, ForceN: 1000, Gear: 4},
	}

	// At 60 m/s drag is 1323 N plus 147 N rolling; at 70 m/s it exceeds 1000 N.
	if got := TopSpeed(env, c); got != 60 {
		t.Errorf("expected top speed 60, got %f", got)
	}
	if got := TopSpeed(nil, c); got != 0 {
		t.Errorf("expected 0 for empty envelope, got %f", got)
	}
}

func TestPerformanceGet(t *testing.T) {
	v := 4.2
	p := Performance{ZeroTo60MphS: &v}

	if got, ok := p.Get(MetricZeroTo60); !ok || got != 4.2 {
		t.Errorf("expected 4.2, got %f (%v)", got, ok)
	}
	if _, ok := p.Get(MetricQuarterMile); ok {
		t.Error("unset metric should not be found")
	}
	if _, ok := p.Get("lap_time"); ok {
		t.Error("unknown metric should not be found")
	}
	if m := p.Map(); len(m) != 1 || m[MetricZeroTo60] != 4.2 {
		t.Errorf("unexpected map %v", m)
	}
}
