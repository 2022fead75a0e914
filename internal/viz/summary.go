package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dragsim/internal/physics"
	"github.com/san-kum/dragsim/internal/sim"
)

// Summary renders the launch figures and shift points of one run.
func Summary(name string, res *sim.Result, unit string) string {
	var sb strings.Builder
	sb.WriteString(titleStyle().Render(name) + "\n")
	sb.WriteString(Separator(40) + "\n")

	p := res.Performance
	line := func(label, value string) {
		sb.WriteString(labelStyle().Render(label) + valueStyle().Render(value) + "\n")
	}
	seconds := func(name string) string {
		if v, ok := p.Get(name); ok {
			return fmt.Sprintf("%.2f s", v)
		}
		return "not reached"
	}
	speed := func(name string) string {
		if v, ok := p.Get(name); ok {
			return fmt.Sprintf("%.1f %s", physics.ConvertSpeed(v, unit), unit)
		}
		return "not reached"
	}

	line("0-60 mph", seconds(sim.MetricZeroTo60))
	line("0-100 km/h", seconds(sim.MetricZeroTo100))
	line("1/4 mile", seconds(sim.MetricQuarterMile))
	line("Trap speed", speed(sim.MetricTrapSpeed))
	line("Top speed", speed(sim.MetricTopSpeed))

	if len(res.ShiftPoints) > 0 {
		sb.WriteString(Separator(40) + "\n")
		for _, sp := range res.ShiftPoints {
			line(fmt.Sprintf("Shift %d→%d", sp.FromGear, sp.ToGear),
				fmt.Sprintf("%.1f %s @ %.0f rpm", physics.ConvertSpeed(sp.SpeedMs, unit), unit, sp.RPM))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// SpeedGraph plots speed against time as a plain ASCII chart.
func SpeedGraph(res *sim.Result, unit string, width, height int) string {
	series := speedSeries(res.Trace, unit, width)
	if len(series) < 2 {
		return ""
	}
	return asciigraph.Plot(series,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.LowerBound(0),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(asciigraph.Cyan),
		asciigraph.Caption("speed ("+unit+") vs time"),
	)
}
