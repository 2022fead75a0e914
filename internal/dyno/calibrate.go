// Package dyno reconstructs a torque curve from a dyno chart image. Two
// calibration points per axis map pixels to physical values, pixels close
// to the plotted line's color are traced column by column, and the trace is
// resampled onto a uniform rpm grid.
package dyno

// CalibrationPoint anchors a pixel position to a physical value.
type CalibrationPoint struct {
	PixelX float64 `json:"pixelX" yaml:"pixel_x"`
	PixelY float64 `json:"pixelY" yaml:"pixel_y"`
	Value  float64 `json:"value" yaml:"value"`
}

// Axis selects which pixel coordinate a calibration reads.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (p CalibrationPoint) pixel(axis Axis) float64 {
	if axis == AxisY {
		return p.PixelY
	}
	return p.PixelX
}

// MapAxis linearly maps pixel onto the value scale defined by p1 and p2,
// extrapolating outside them. Coincident pixel positions yield p1's value.
func MapAxis(pixel float64, p1, p2 CalibrationPoint, axis Axis) float64 {
	a, b := p1.pixel(axis), p2.pixel(axis)
	if a == b {
		return p1.Value
	}
	t := (pixel - a) / (b - a)
	return p1.Value + t*(p2.Value-p1.Value)
}

// Calibration holds both axes.
type Calibration struct {
	X [2]CalibrationPoint `json:"x" yaml:"x"`
	Y [2]CalibrationPoint `json:"y" yaml:"y"`
}

// Map converts a pixel to (rpm, raw y value).
func (c Calibration) Map(px, py float64) (float64, float64) {
	return MapAxis(px, c.X[0], c.X[1], AxisX), MapAxis(py, c.Y[0], c.Y[1], AxisY)
}
