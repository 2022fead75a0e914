package vehicle

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is matched by every ValidationError.
var ErrInvalid = errors.New("vehicle: invalid")

// ValidationError lists every problem found in one pass.
type ValidationError struct {
	Subject  string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("vehicle: invalid %s: %s", e.Subject, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalid }

func problems(subject string, errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Subject: subject, Problems: errs}
}

// Validate rejects specs the simulator cannot run.
func (c CarSpec) Validate() error {
	var errs []string

	if c.ID == "" {
		errs = append(errs, "id is required")
	}
	if len(c.Engine.TorqueCurve) == 0 {
		errs = append(errs, "engine.torque_curve must have at least one point")
	} else if err := c.Engine.TorqueCurve.Validate(); err != nil {
		errs = append(errs, "engine.torque_curve: "+err.Error())
	}
	if err := c.Engine.PowerCurve.Validate(); err != nil {
		errs = append(errs, "engine.power_curve: "+err.Error())
	}
	if c.Engine.IdleRPM <= 0 {
		errs = append(errs, "engine.idle_rpm must be > 0")
	}
	if c.Engine.RedlineRPM <= c.Engine.IdleRPM {
		errs = append(errs, "engine.redline_rpm must exceed idle_rpm")
	}
	if c.Engine.Induction != "" && !c.Engine.Induction.Valid() {
		errs = append(errs, fmt.Sprintf("engine.induction %q must be one of: na, turbo, supercharged", c.Engine.Induction))
	}

	if len(c.Transmission.GearRatios) == 0 {
		errs = append(errs, "transmission.gear_ratios must list at least one gear")
	}
	for i, r := range c.Transmission.GearRatios {
		if r <= 0 {
			errs = append(errs, fmt.Sprintf("transmission.gear_ratios[%d] must be > 0", i))
		}
	}
	if i := ascendingRatio(c.Transmission.GearRatios); i > 0 {
		errs = append(errs, fmt.Sprintf("transmission.gear_ratios[%d] must be below gear_ratios[%d]", i, i-1))
	}
	if c.Transmission.FinalDrive <= 0 {
		errs = append(errs, "transmission.final_drive must be > 0")
	}
	if c.Transmission.ShiftTimeMs < 0 {
		errs = append(errs, "transmission.shift_time_ms must be >= 0")
	}
	if c.Transmission.DrivetrainLoss < 0 || c.Transmission.DrivetrainLoss >= 1 {
		errs = append(errs, "transmission.drivetrain_loss must be in [0,1)")
	}

	errs = append(errs, tireProblems("tire", c.Tire)...)

	if c.Aero.Cd < 0 || c.Aero.FrontalAreaM2 < 0 {
		errs = append(errs, "aero values must be >= 0")
	}
	if c.CurbWeightKg <= 0 {
		errs = append(errs, "curb_weight_kg must be > 0")
	}
	switch c.Drivetrain {
	case FWD, RWD, AWD, "":
	default:
		errs = append(errs, fmt.Sprintf("drivetrain %q must be one of: fwd, rwd, awd", c.Drivetrain))
	}

	return problems("car "+c.ID, errs)
}

// ascendingRatio returns the first gear index whose ratio is not strictly
// below the previous one, or 0 when the ratios descend.
func ascendingRatio(ratios []float64) int {
	for i := 1; i < len(ratios); i++ {
		if ratios[i] >= ratios[i-1] {
			return i
		}
	}
	return 0
}

func tireProblems(field string, t Tire) []string {
	if t.WidthMM <= 0 || t.AspectRatio <= 0 || t.RimIn <= 0 {
		return []string{field + " width, aspect ratio and rim must be > 0"}
	}
	return nil
}

// Validate checks the overrides against the car they will be applied to.
func (m Modifications) Validate(spec CarSpec) error {
	var errs []string

	if d, ok := m.WeightDeltaKg.Get(); ok && spec.CurbWeightKg+d <= 0 {
		errs = append(errs, "weight_delta_kg leaves no mass")
	}
	if v, ok := m.TorqueMultiplier.Get(); ok && v <= 0 {
		errs = append(errs, "torque_multiplier must be > 0")
	}
	if c, ok := m.CustomTorqueCurve.Get(); ok {
		if len(c) == 0 {
			errs = append(errs, "custom_torque_curve must have at least one point")
		} else if err := c.Validate(); err != nil {
			errs = append(errs, "custom_torque_curve: "+err.Error())
		}
	}
	if len(m.GearRatios) > spec.Gears() {
		errs = append(errs, fmt.Sprintf("gear_ratios overrides %d gears, car has %d", len(m.GearRatios), spec.Gears()))
	}
	for i, r := range m.GearRatios {
		if v, ok := r.Get(); ok && v <= 0 {
			errs = append(errs, fmt.Sprintf("gear_ratios[%d] must be > 0", i))
		}
	}
	ratios := make([]float64, spec.Gears())
	for i, stock := range spec.Transmission.GearRatios {
		ratios[i] = m.GearRatio(i).Or(stock)
	}
	if i := ascendingRatio(ratios); i > 0 {
		errs = append(errs, fmt.Sprintf("gear %d ratio %g must be below gear %d ratio %g", i+1, ratios[i], i, ratios[i-1]))
	}
	if v, ok := m.FinalDrive.Get(); ok && v <= 0 {
		errs = append(errs, "final_drive must be > 0")
	}
	if v, ok := m.ShiftTimeMs.Get(); ok && v < 0 {
		errs = append(errs, "shift_time_ms must be >= 0")
	}
	if v, ok := m.DrivetrainLoss.Get(); ok && (v < 0 || v >= 1) {
		errs = append(errs, "drivetrain_loss must be in [0,1)")
	}
	if t, ok := m.Tire.Get(); ok {
		errs = append(errs, tireProblems("tire", t)...)
	}
	if v, ok := m.Cd.Get(); ok && v < 0 {
		errs = append(errs, "cd must be >= 0")
	}
	if v, ok := m.FrontalAreaM2.Get(); ok && v < 0 {
		errs = append(errs, "frontal_area_m2 must be >= 0")
	}
	if v, ok := m.Induction.Get(); ok && !v.Valid() {
		errs = append(errs, fmt.Sprintf("induction %q must be one of: na, turbo, supercharged", v))
	}
	if v, ok := m.AltitudeM.Get(); ok && (v < -500 || v > 11000) {
		errs = append(errs, "altitude_m must be within the troposphere (-500..11000)")
	}
	if v, ok := m.TractionMu.Get(); ok && v <= 0 {
		errs = append(errs, "traction_mu must be > 0")
	}

	return problems("modifications for "+spec.ID, errs)
}
