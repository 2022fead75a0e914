package dyno

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

var ErrBufferSize = errors.New("dyno: buffer size does not match dimensions")

// RGB is an 8-bit color without alpha.
type RGB struct {
	R, G, B uint8
}

// Distance is the Euclidean distance between two colors in RGB space.
func Distance(a, b RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// Matches reports whether c is within tolerance of target.
func Matches(c, target RGB, tolerance float64) bool {
	return Distance(c, target) <= tolerance
}

// ParseRGB reads a hex color such as "#d03030".
func ParseRGB(hex string) (RGB, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return RGB{}, fmt.Errorf("dyno: parse color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

func (c RGB) Hex() string {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}

// Pixels is read-only access to an image.
type Pixels interface {
	Width() int
	Height() int
	At(x, y int) RGB
}

// Buffer is a row-major RGBA byte buffer.
type Buffer struct {
	width, height int
	data          []byte
}

func NewBuffer(width, height int, data []byte) (*Buffer, error) {
	if width < 0 || height < 0 || len(data) != width*height*4 {
		return nil, fmt.Errorf("%w: %dx%d needs %d bytes, got %d", ErrBufferSize, width, height, width*height*4, len(data))
	}
	return &Buffer{width: width, height: height, data: data}, nil
}

func (b *Buffer) Width() int  { return b.width }
func (b *Buffer) Height() int { return b.height }

func (b *Buffer) At(x, y int) RGB {
	i := (y*b.width + x) * 4
	return RGB{R: b.data[i], G: b.data[i+1], B: b.data[i+2]}
}

// Image adapts a decoded image to Pixels.
type Image struct {
	img image.Image
}

func FromImage(img image.Image) *Image {
	return &Image{img: img}
}

func (m *Image) Width() int  { return m.img.Bounds().Dx() }
func (m *Image) Height() int { return m.img.Bounds().Dy() }

func (m *Image) At(x, y int) RGB {
	origin := m.img.Bounds().Min
	r, g, b, _ := m.img.At(origin.X+x, origin.Y+y).RGBA()
	return RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}
