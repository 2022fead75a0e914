package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/san-kum/dragsim/internal/physics"
	"github.com/san-kum/dragsim/internal/sim"
)

// Series is one labelled run on the comparison page.
type Series struct {
	Label  string
	Result *sim.Result
}

func initOpts(title string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Theme: "dark", Width: "1000px", Height: "560px"})
}

func xyAxes(xName, yName string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: xName, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: yName, NameLocation: "middle", NameGap: 45}),
	}
}

// ThrustChart plots gear curves and the envelope of a single run.
func ThrustChart(res *sim.Result, title, unit string) *charts.Scatter {
	sc := charts.NewScatter()
	global := append([]charts.GlobalOpts{
		initOpts(title),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%d gears, %d shifts", len(res.GearCurves), len(res.ShiftPoints))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10"}),
	}, xyAxes("speed ("+unit+")", "thrust (N)")...)
	sc.SetGlobalOptions(global...)

	for _, c := range res.GearCurves {
		if c.Empty() {
			continue
		}
		data := make([]opts.ScatterData, len(c.Points))
		for i, s := range c.Points {
			data[i] = opts.ScatterData{Value: []interface{}{physics.ConvertSpeed(s.SpeedMs, unit), s.ForceN, s.RPM}}
		}
		sc.AddSeries(fmt.Sprintf("gear %d", c.Gear), data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))
	}

	env := make([]opts.ScatterData, len(res.Envelope))
	for i, e := range res.Envelope {
		env[i] = opts.ScatterData{Value: []interface{}{physics.ConvertSpeed(e.SpeedMs, unit), e.ForceN, e.Gear}}
	}
	sc.AddSeries("envelope", env, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 2}))

	return sc
}

// SpeedChart overlays the speed traces of several runs.
func SpeedChart(series []Series, title, unit string) *charts.Scatter {
	sc := charts.NewScatter()
	global := append([]charts.GlobalOpts{
		initOpts(title),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10"}),
	}, xyAxes("time (s)", "speed ("+unit+")")...)
	sc.SetGlobalOptions(global...)

	for _, s := range series {
		data := make([]opts.ScatterData, 0, len(s.Result.Trace)/decimate(s.Result.Trace)+1)
		step := decimate(s.Result.Trace)
		for i := 0; i < len(s.Result.Trace); i += step {
			t := s.Result.Trace[i]
			data = append(data, opts.ScatterData{Value: []interface{}{t.TimeS, physics.ConvertSpeed(t.SpeedMs, unit), t.Gear}})
		}
		sc.AddSeries(s.Label, data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 2}))
	}

	return sc
}

// decimate keeps pages light: at most ~1000 points per trace.
func decimate(trace []sim.TimeStep) int {
	if n := len(trace) / 1000; n > 1 {
		return n
	}
	return 1
}

// WriteHTML renders a page with the first run's thrust chart followed by the
// speed overlay of every run.
func WriteHTML(w io.Writer, series []Series, title, unit string) error {
	if len(series) == 0 {
		return fmt.Errorf("no runs to chart")
	}

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(
		ThrustChart(series[0].Result, series[0].Label+" thrust", unit),
		SpeedChart(series, title, unit),
	)
	return page.Render(w)
}
