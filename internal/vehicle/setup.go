package vehicle

import (
	"github.com/san-kum/dragsim/internal/curve"
	"github.com/san-kum/dragsim/internal/physics"
)

// Setup is a CarSpec with Modifications resolved. It is the only place
// overrides are read; everything downstream uses these effective values.
type Setup struct {
	MassKg           float64
	TorqueCurve      curve.Curve // unscaled, custom or stock
	TorqueMultiplier float64
	IdleRPM          float64
	RedlineRPM       float64
	Induction        physics.Induction
	GearRatios       []float64
	FinalDrive       float64
	ShiftTimeMs      float64
	DrivetrainLoss   float64
	Tire             Tire
	TireRadiusM      float64
	Cd               float64
	FrontalAreaM2    float64
	AltitudeM        float64
	TractionMu       Opt[float64]
}

// Resolve applies "override ?? stock" to every modifiable quantity.
func Resolve(spec CarSpec, mods Modifications) Setup {
	ratios := make([]float64, len(spec.Transmission.GearRatios))
	for i, stock := range spec.Transmission.GearRatios {
		ratios[i] = mods.GearRatio(i).Or(stock)
	}

	tire := mods.Tire.Or(spec.Tire)

	return Setup{
		MassKg:           spec.CurbWeightKg + mods.WeightDeltaKg.Or(0),
		TorqueCurve:      mods.CustomTorqueCurve.Or(spec.Engine.TorqueCurve),
		TorqueMultiplier: mods.TorqueMultiplier.Or(1),
		IdleRPM:          spec.Engine.IdleRPM,
		RedlineRPM:       spec.Engine.RedlineRPM,
		Induction:        mods.Induction.Or(spec.Engine.Induction),
		GearRatios:       ratios,
		FinalDrive:       mods.FinalDrive.Or(spec.Transmission.FinalDrive),
		ShiftTimeMs:      mods.ShiftTimeMs.Or(spec.Transmission.ShiftTimeMs),
		DrivetrainLoss:   mods.DrivetrainLoss.Or(spec.Transmission.DrivetrainLoss),
		Tire:             tire,
		TireRadiusM:      tire.Radius(),
		Cd:               mods.Cd.Or(spec.Aero.Cd),
		FrontalAreaM2:    mods.FrontalAreaM2.Or(spec.Aero.FrontalAreaM2),
		AltitudeM:        mods.AltitudeM.Or(0),
		TractionMu:       mods.TractionMu,
	}
}

// PowerCorrection is the altitude derate for this setup's induction.
func (s Setup) PowerCorrection() float64 {
	return physics.PowerCorrection(s.AltitudeM, s.Induction)
}

func (s Setup) AirDensity() float64 {
	return physics.AirDensity(s.AltitudeM)
}
