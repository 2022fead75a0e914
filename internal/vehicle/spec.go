// Package vehicle describes cars as the simulator sees them: an immutable
// stock CarSpec, sparse Modifications layered on top, and the resolved Setup
// the physics reads from.
package vehicle

import (
	"github.com/san-kum/dragsim/internal/curve"
	"github.com/san-kum/dragsim/internal/physics"
)

type Drivetrain string

const (
	FWD Drivetrain = "fwd"
	RWD Drivetrain = "rwd"
	AWD Drivetrain = "awd"
)

type TransmissionType string

const (
	Manual    TransmissionType = "manual"
	Automatic TransmissionType = "automatic"
	DCT       TransmissionType = "dct"
)

type Engine struct {
	TorqueCurve   curve.Curve       `json:"torqueCurve" yaml:"torque_curve"`                   // Nm
	PowerCurve    curve.Curve       `json:"powerCurve,omitempty" yaml:"power_curve,omitempty"` // kW
	IdleRPM       float64           `json:"idleRpm" yaml:"idle_rpm"`
	RedlineRPM    float64           `json:"redlineRpm" yaml:"redline_rpm"`
	DisplacementL float64           `json:"displacementL" yaml:"displacement_l"`
	Induction     physics.Induction `json:"induction" yaml:"induction"`
}

type Transmission struct {
	// GearRatios[0] is first gear.
	GearRatios     []float64        `json:"gearRatios" yaml:"gear_ratios"`
	FinalDrive     float64          `json:"finalDrive" yaml:"final_drive"`
	ShiftTimeMs    float64          `json:"shiftTimeMs" yaml:"shift_time_ms"`
	DrivetrainLoss float64          `json:"drivetrainLoss" yaml:"drivetrain_loss"` // fraction 0..1
	Type           TransmissionType `json:"type" yaml:"type"`
}

// Tire is a metric sidewall size, e.g. 255/35R19.
type Tire struct {
	WidthMM     float64 `json:"widthMm" yaml:"width_mm"`
	AspectRatio float64 `json:"aspectRatio" yaml:"aspect_ratio"`
	RimIn       float64 `json:"rimIn" yaml:"rim_in"`
}

func (t Tire) Radius() float64 {
	return physics.TireRadius(t.WidthMM, t.AspectRatio, t.RimIn)
}

type Aero struct {
	Cd            float64 `json:"cd" yaml:"cd"`
	FrontalAreaM2 float64 `json:"frontalAreaM2" yaml:"frontal_area_m2"`
}

// CarSpec is the OEM description of a car. The simulator never mutates it.
type CarSpec struct {
	ID           string       `json:"id" yaml:"id"`
	Make         string       `json:"make" yaml:"make"`
	Model        string       `json:"model" yaml:"model"`
	Year         int          `json:"year,omitempty" yaml:"year,omitempty"`
	Engine       Engine       `json:"engine" yaml:"engine"`
	Transmission Transmission `json:"transmission" yaml:"transmission"`
	Tire         Tire         `json:"tire" yaml:"tire"`
	Aero         Aero         `json:"aero" yaml:"aero"`
	CurbWeightKg float64      `json:"curbWeightKg" yaml:"curb_weight_kg"`
	Drivetrain   Drivetrain   `json:"drivetrain" yaml:"drivetrain"`
}

func (c CarSpec) Name() string {
	if c.Make == "" {
		return c.Model
	}
	return c.Make + " " + c.Model
}

// Gears returns the number of forward gears.
func (c CarSpec) Gears() int { return len(c.Transmission.GearRatios) }
