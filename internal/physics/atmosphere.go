package physics

import "math"

// SeaLevelDensity is the ISA air density at 0 m in kg/m³.
const SeaLevelDensity = 1.225

// Induction describes how the engine is fed air.
type Induction string

const (
	NaturallyAspirated Induction = "na"
	Turbocharged       Induction = "turbo"
	Supercharged       Induction = "supercharged"
)

// Forced reports whether boost compensates part of the altitude loss.
func (i Induction) Forced() bool {
	return i == Turbocharged || i == Supercharged
}

func (i Induction) Valid() bool {
	switch i {
	case NaturallyAspirated, Turbocharged, Supercharged:
		return true
	}
	return false
}

// AirDensity follows the ISA troposphere power law.
func AirDensity(altitudeM float64) float64 {
	return SeaLevelDensity * math.Pow(1-2.25577e-5*altitudeM, 5.25588)
}

// PowerCorrection returns the multiplicative derate of engine output at
// altitude. Forced induction loses a third of what a naturally aspirated
// engine loses at the same altitude.
func PowerCorrection(altitudeM float64, induction Induction) float64 {
	na := AirDensity(altitudeM) / SeaLevelDensity
	if induction.Forced() {
		return 1 - (1-na)/3
	}
	return na
}
