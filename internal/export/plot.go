// Package export renders simulation results as PNG/SVG charts with gonum/plot
// and as an interactive HTML page with go-echarts.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/dragsim/internal/physics"
	"github.com/san-kum/dragsim/internal/sim"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"
)

// Size is a chart size in inches.
type Size struct {
	Width, Height float64
}

var DefaultSize = Size{Width: 8, Height: 5}

// ThrustPlot draws every gear's thrust curve, the envelope and the shift
// points against speed in the given display unit.
func ThrustPlot(res *sim.Result, title, unit string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "speed (" + unit + ")"
	p.Y.Label.Text = "thrust (N)"
	p.Add(plotter.NewGrid())

	for i, c := range res.GearCurves {
		if c.Empty() {
			continue
		}
		pts := make(plotter.XYs, len(c.Points))
		for j, s := range c.Points {
			pts[j].X = physics.ConvertSpeed(s.SpeedMs, unit)
			pts[j].Y = s.ForceN
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("gear %d: %w", c.Gear, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("gear %d", c.Gear), line)
	}

	if len(res.Envelope) > 0 {
		pts := make(plotter.XYs, len(res.Envelope))
		for i, e := range res.Envelope {
			pts[i].X = physics.ConvertSpeed(e.SpeedMs, unit)
			pts[i].Y = e.ForceN
		}
		env, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("envelope: %w", err)
		}
		env.Width = vg.Points(3)
		env.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(env)
		p.Legend.Add("envelope", env)
	}

	if len(res.ShiftPoints) > 0 {
		pts := make(plotter.XYs, len(res.ShiftPoints))
		for i, sp := range res.ShiftPoints {
			pts[i].X = physics.ConvertSpeed(sp.SpeedMs, unit)
			pts[i].Y = envelopeAt(res, sp.SpeedMs)
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("shift points: %w", err)
		}
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(4)
		p.Add(sc)
		p.Legend.Add("shift", sc)
	}

	p.Legend.Top = true
	return p, nil
}

func envelopeAt(res *sim.Result, speedMs float64) float64 {
	best := 0.0
	for _, c := range res.GearCurves {
		if c.Empty() || speedMs < c.MinSpeedMs || speedMs > c.MaxSpeedMs {
			continue
		}
		if f := c.ForceAt(speedMs); f > best {
			best = f
		}
	}
	return best
}

// TracePlot draws speed over time with a marker at each gear change.
func TracePlot(res *sim.Result, title, unit string) (*plot.Plot, error) {
	if len(res.Trace) == 0 {
		return nil, fmt.Errorf("empty trace")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "speed (" + unit + ")"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(res.Trace))
	var shifts plotter.XYs
	for i, step := range res.Trace {
		pts[i].X = step.TimeS
		pts[i].Y = physics.ConvertSpeed(step.SpeedMs, unit)
		if i > 0 && step.Gear != res.Trace[i-1].Gear {
			shifts = append(shifts, pts[i])
		}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.Width = vg.Points(2)
	line.Color = plotutil.Color(0)
	p.Add(line)
	p.Legend.Add("speed", line)

	if len(shifts) > 0 {
		sc, err := plotter.NewScatter(shifts)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Color = plotutil.Color(1)
		sc.GlyphStyle.Radius = vg.Points(3)
		p.Add(sc)
		p.Legend.Add("shift", sc)
	}

	p.Legend.Top = true
	p.Legend.Left = true
	return p, nil
}

// WritePlot renders p to w as "png" or "svg".
func WritePlot(w io.Writer, p *plot.Plot, size Size, format string) error {
	width := vg.Length(size.Width) * vg.Inch
	height := vg.Length(size.Height) * vg.Inch

	var wt io.WriterTo
	switch format {
	case "png":
		c := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(150))
		p.Draw(draw.New(c))
		wt = vgimg.PngCanvas{Canvas: c}
	case "svg":
		c := vgsvg.New(width, height)
		p.Draw(draw.New(c))
		wt = c
	default:
		return fmt.Errorf("unsupported chart format %q", format)
	}

	bw := bufio.NewWriter(w)
	if _, err := wt.WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write %s: %w", format, err)
	}
	return bw.Flush()
}

// SavePlot writes p to filename, picking the format from its extension.
func SavePlot(p *plot.Plot, size Size, filename string) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if format != "png" && format != "svg" {
		return fmt.Errorf("unsupported chart file %s", filename)
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create directory: %w", err)
		}
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return WritePlot(f, p, size, format)
}
