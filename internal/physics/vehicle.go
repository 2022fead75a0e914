package physics

import "math"

const (
	Gravity = 9.81

	// DefaultCrr is the rolling resistance coefficient of a road tire on asphalt.
	DefaultCrr = 0.015

	inchToMeter = 0.0254
)

// TireRadius returns the unloaded radius in meters of a tire sized
// widthMM/aspectRatio R rimIn.
func TireRadius(widthMM, aspectRatio, rimIn float64) float64 {
	rim := rimIn * inchToMeter / 2
	sidewall := widthMM / 1000 * aspectRatio / 100
	return rim + sidewall
}

func RollingResistance(crr, massKg float64) float64 {
	return crr * massKg * Gravity
}

// AeroDrag returns ½·Cd·A·ρ·v².
func AeroDrag(cd, frontalAreaM2, airDensity, speedMs float64) float64 {
	return 0.5 * cd * frontalAreaM2 * airDensity * speedMs * speedMs
}

// WheelTorque returns torque at the driven wheels after gearing and
// drivetrain losses.
func WheelTorque(engineTorqueNm, gearRatio, finalDrive, drivetrainLoss float64) float64 {
	return engineTorqueNm * gearRatio * finalDrive * (1 - drivetrainLoss)
}

func WheelForce(wheelTorqueNm, tireRadiusM float64) float64 {
	return wheelTorqueNm / tireRadiusM
}

// SpeedToRPM returns engine speed for a road speed in a gear.
func SpeedToRPM(speedMs, gearRatio, finalDrive, tireRadiusM float64) float64 {
	wheelRadPerSec := speedMs / tireRadiusM
	return wheelRadPerSec * gearRatio * finalDrive * 60 / (2 * math.Pi)
}

// RPMToSpeed returns road speed for an engine speed in a gear.
func RPMToSpeed(rpm, gearRatio, finalDrive, tireRadiusM float64) float64 {
	wheelRadPerSec := rpm * 2 * math.Pi / 60 / (gearRatio * finalDrive)
	return wheelRadPerSec * tireRadiusM
}
