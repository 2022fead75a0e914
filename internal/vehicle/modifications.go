package vehicle

import (
	"github.com/san-kum/dragsim/internal/curve"
	"github.com/san-kum/dragsim/internal/physics"
)

// Modifications are sparse overrides layered on a CarSpec. Every unset
// field resolves to the stock value.
type Modifications struct {
	WeightDeltaKg    Opt[float64] `json:"weightDeltaKg,omitzero" yaml:"weight_delta_kg,omitempty"`
	TorqueMultiplier Opt[float64] `json:"torqueMultiplier,omitzero" yaml:"torque_multiplier,omitempty"`
	// CustomTorqueCurve replaces the stock curve; TorqueMultiplier still applies.
	CustomTorqueCurve Opt[curve.Curve] `json:"customTorqueCurve,omitzero" yaml:"custom_torque_curve,omitempty"`
	// GearRatios[i] overrides gear i+1.
	GearRatios     []Opt[float64]         `json:"gearRatios,omitempty" yaml:"gear_ratios,omitempty"`
	FinalDrive     Opt[float64]           `json:"finalDrive,omitzero" yaml:"final_drive,omitempty"`
	ShiftTimeMs    Opt[float64]           `json:"shiftTimeMs,omitzero" yaml:"shift_time_ms,omitempty"`
	DrivetrainLoss Opt[float64]           `json:"drivetrainLoss,omitzero" yaml:"drivetrain_loss,omitempty"`
	Tire           Opt[Tire]              `json:"tire,omitzero" yaml:"tire,omitempty"`
	Cd             Opt[float64]           `json:"cd,omitzero" yaml:"cd,omitempty"`
	FrontalAreaM2  Opt[float64]           `json:"frontalAreaM2,omitzero" yaml:"frontal_area_m2,omitempty"`
	Induction      Opt[physics.Induction] `json:"induction,omitzero" yaml:"induction,omitempty"`
	AltitudeM      Opt[float64]           `json:"altitudeM,omitzero" yaml:"altitude_m,omitempty"`
	// TractionMu caps thrust at μ·m·g when set.
	TractionMu Opt[float64] `json:"tractionMu,omitzero" yaml:"traction_mu,omitempty"`
}

// Stock is the empty modification set.
func Stock() Modifications { return Modifications{} }

// GearRatio returns the override for gear index i (0 = first gear).
func (m Modifications) GearRatio(i int) Opt[float64] {
	if i < 0 || i >= len(m.GearRatios) {
		return Opt[float64]{}
	}
	return m.GearRatios[i]
}

// SetGearRatio overrides gear index i, growing the override list as needed.
func (m *Modifications) SetGearRatio(i int, ratio float64) {
	for len(m.GearRatios) <= i {
		m.GearRatios = append(m.GearRatios, Opt[float64]{})
	}
	m.GearRatios[i] = Some(ratio)
}

// Merge layers o on top of m: fields set in o win.
func (m Modifications) Merge(o Modifications) Modifications {
	out := m
	out.GearRatios = append([]Opt[float64](nil), m.GearRatios...)

	mergeOpt(&out.WeightDeltaKg, o.WeightDeltaKg)
	mergeOpt(&out.TorqueMultiplier, o.TorqueMultiplier)
	mergeOpt(&out.CustomTorqueCurve, o.CustomTorqueCurve)
	mergeOpt(&out.FinalDrive, o.FinalDrive)
	mergeOpt(&out.ShiftTimeMs, o.ShiftTimeMs)
	mergeOpt(&out.DrivetrainLoss, o.DrivetrainLoss)
	mergeOpt(&out.Tire, o.Tire)
	mergeOpt(&out.Cd, o.Cd)
	mergeOpt(&out.FrontalAreaM2, o.FrontalAreaM2)
	mergeOpt(&out.Induction, o.Induction)
	mergeOpt(&out.AltitudeM, o.AltitudeM)
	mergeOpt(&out.TractionMu, o.TractionMu)

	for i, r := range o.GearRatios {
		if v, ok := r.Get(); ok {
			out.SetGearRatio(i, v)
		}
	}
	return out
}

func mergeOpt[T any](dst *Opt[T], src Opt[T]) {
	if src.IsSet() {
		*dst = src
	}
}
