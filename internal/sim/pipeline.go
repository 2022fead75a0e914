package sim

import (
	"context"

	"github.com/san-kum/dragsim/internal/envelope"
	"github.com/san-kum/dragsim/internal/thrust"
	"github.com/san-kum/dragsim/internal/vehicle"
)

// Simulate runs the full pipeline with the default step and ceiling. It is a
// pure function of its inputs; callers validate spec and mods beforehand.
func Simulate(spec vehicle.CarSpec, mods vehicle.Modifications) *Result {
	// Background never cancels and DefaultConfig always validates.
	res, _ := SimulateContext(context.Background(), spec, mods, DefaultConfig())
	return res
}

// SimulateContext builds gear curves, envelope and shift points from the
// resolved setup, then integrates the launch.
func SimulateContext(ctx context.Context, spec vehicle.CarSpec, mods vehicle.Modifications, cfg Config) (*Result, error) {
	setup := vehicle.Resolve(spec, mods)
	return SimulateSetup(ctx, setup, cfg)
}

func SimulateSetup(ctx context.Context, setup vehicle.Setup, cfg Config) (*Result, error) {
	curves := thrust.BuildAll(setup, setup.PowerCorrection())
	if mu, ok := setup.TractionMu.Get(); ok {
		thrust.ApplyTraction(curves, mu, setup.MassKg)
	}

	env := envelope.Build(curves)
	shifts := envelope.ShiftPoints(env, curves)
	chassis := ChassisFor(setup)

	res := &Result{
		GearCurves:  curves,
		Envelope:    env,
		ShiftPoints: shifts,
	}

	top := TopSpeed(env, chassis)

	trace, perf, err := New(chassis, curves, shifts, setup.ShiftTimeMs).Run(ctx, cfg)
	res.Trace = trace
	res.Performance = perf
	res.Performance.TopSpeedMs = &top
	return res, err
}
