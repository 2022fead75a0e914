package physics

// Display units for speed.
const (
	MPS = "mps"
	MPH = "mph"
	KPH = "kph"
)

const (
	MphToMs = 0.44704
	KphToMs = 1 / 3.6

	// Sixty mph, 100 km/h and a quarter mile in SI.
	SixtyMphMs   = 26.8224
	HundredKphMs = 27.778
	QuarterMileM = 402.336
	lbftPerNm    = 0.737562
	wattsPerHp   = 745.7
	nmRpmPerKw   = 9549.0
)

var ValidUnits = []string{MPS, MPH, KPH}

func IsValidUnit(unit string) bool {
	for _, u := range ValidUnits {
		if u == unit {
			return true
		}
	}
	return false
}

// ConvertSpeed converts m/s into the target display unit. Unknown units
// pass through as m/s.
func ConvertSpeed(speedMs float64, unit string) float64 {
	switch unit {
	case MPH:
		return speedMs / MphToMs
	case KPH:
		return speedMs * 3.6
	default:
		return speedMs
	}
}

// LbFtToNm converts pound-feet to newton-meters.
func LbFtToNm(lbft float64) float64 { return lbft / lbftPerNm }

// KWToNm returns torque for a power at an engine speed.
func KWToNm(kw, rpm float64) float64 { return kw * nmRpmPerKw / rpm }

// HPToNm returns torque for a horsepower figure at an engine speed.
func HPToNm(hp, rpm float64) float64 { return KWToNm(hp*wattsPerHp/1000, rpm) }
