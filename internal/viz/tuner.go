package viz

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dragsim/internal/physics"
	"github.com/san-kum/dragsim/internal/sim"
	"github.com/san-kum/dragsim/internal/vehicle"
)

// knob is one adjustable modification.
type knob struct {
	name  string
	unit  string
	step  float64
	lo    float64
	hi    float64
	stock func(vehicle.Setup) float64
	set   func(*vehicle.Modifications, float64)
}

var knobs = []knob{
	{
		name: "Torque ×", step: 0.05, lo: 0.3, hi: 3,
		stock: func(s vehicle.Setup) float64 { return s.TorqueMultiplier },
		set:   func(m *vehicle.Modifications, v float64) { m.TorqueMultiplier = vehicle.Some(v) },
	},
	{
		name: "Weight Δ", unit: "kg", step: 25, lo: -500, hi: 500,
		stock: func(vehicle.Setup) float64 { return 0 },
		set:   func(m *vehicle.Modifications, v float64) { m.WeightDeltaKg = vehicle.Some(v) },
	},
	{
		name: "Altitude", unit: "m", step: 250, lo: 0, hi: 4000,
		stock: func(s vehicle.Setup) float64 { return s.AltitudeM },
		set:   func(m *vehicle.Modifications, v float64) { m.AltitudeM = vehicle.Some(v) },
	},
	{
		name: "Final drive", step: 0.05, lo: 2, hi: 6,
		stock: func(s vehicle.Setup) float64 { return s.FinalDrive },
		set:   func(m *vehicle.Modifications, v float64) { m.FinalDrive = vehicle.Some(v) },
	},
	{
		name: "Shift time", unit: "ms", step: 25, lo: 0, hi: 1000,
		stock: func(s vehicle.Setup) float64 { return s.ShiftTimeMs },
		set:   func(m *vehicle.Modifications, v float64) { m.ShiftTimeMs = vehicle.Some(v) },
	},
	{
		// 0 means unlimited grip
		name: "Traction μ", step: 0.1, lo: 0, hi: 2,
		stock: func(s vehicle.Setup) float64 { return s.TractionMu.Or(0) },
		set: func(m *vehicle.Modifications, v float64) {
			if v <= 0 {
				m.TractionMu = vehicle.Opt[float64]{}
				return
			}
			m.TractionMu = vehicle.Some(v)
		},
	},
}

// Tuner is the interactive tuning model. Every adjustment re-runs the full
// simulation against the baseline it started from.
type Tuner struct {
	spec     vehicle.CarSpec
	base     vehicle.Modifications
	mods     vehicle.Modifications
	values   []float64
	selected int
	unit     string

	baseline *sim.Result
	current  *sim.Result

	width, height int
}

func NewTuner(spec vehicle.CarSpec, base vehicle.Modifications, unit string) *Tuner {
	if !physics.IsValidUnit(unit) {
		unit = physics.MPH
	}
	t := &Tuner{
		spec:   spec,
		base:   base,
		unit:   unit,
		width:  80,
		height: 24,
	}
	t.reset()
	return t
}

func (t *Tuner) reset() {
	setup := vehicle.Resolve(t.spec, t.base)
	t.values = make([]float64, len(knobs))
	for i, k := range knobs {
		t.values[i] = k.stock(setup)
	}
	t.mods = t.base
	t.baseline = sim.Simulate(t.spec, t.base)
	t.current = t.baseline
}

// adjust moves the selected knob by dir steps and re-simulates.
func (t *Tuner) adjust(dir float64) {
	k := knobs[t.selected]
	v := t.values[t.selected] + dir*k.step
	v = math.Round(v/k.step) * k.step
	v = math.Max(k.lo, math.Min(k.hi, v))
	if v == t.values[t.selected] {
		return
	}

	values := append([]float64(nil), t.values...)
	values[t.selected] = v

	mods := t.base.Merge(vehicle.Modifications{})
	for i, k := range knobs {
		k.set(&mods, values[i])
	}
	if err := mods.Validate(t.spec); err != nil {
		return
	}
	t.values = values
	t.mods = mods
	t.current = sim.Simulate(t.spec, mods)
}

// Mods returns the modifications currently dialed in.
func (t *Tuner) Mods() vehicle.Modifications { return t.mods }

// Result returns the latest simulation.
func (t *Tuner) Result() *sim.Result { return t.current }

func (t *Tuner) Init() tea.Cmd { return nil }

func (t *Tuner) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return t.handleKey(msg)
	case tea.WindowSizeMsg:
		t.width, t.height = msg.Width, msg.Height
	}
	return t, nil
}

func (t *Tuner) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return t, tea.Quit
	case "tab", "down", "j":
		t.selected = (t.selected + 1) % len(knobs)
	case "shift+tab", "up", "k":
		t.selected = (t.selected + len(knobs) - 1) % len(knobs)
	case "right", "l", "+":
		t.adjust(1)
	case "left", "h", "-":
		t.adjust(-1)
	case "r":
		t.reset()
	case "u":
		t.unit = nextUnit(t.unit)
	case "t":
		nextTheme()
	}
	return t, nil
}

func nextUnit(unit string) string {
	for i, u := range physics.ValidUnits {
		if u == unit {
			return physics.ValidUnits[(i+1)%len(physics.ValidUnits)]
		}
	}
	return physics.MPH
}

func (t *Tuner) View() string {
	title := GradientText("DRAGSIM TUNER  "+t.spec.Name(), CurrentTheme.Title, CurrentTheme.Accent)

	left := panelStyle().Render(t.viewKnobs())
	right := panelStyle().Render(t.viewFigures())
	top := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	graphWidth := max(20, t.width-12)
	graph := panelStyle().Render(t.viewGraph(graphWidth))

	help := hintStyle().Render("tab/↑↓ select • ←→ adjust • r reset • u units • t theme • q quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, top, graph, help)
}

func (t *Tuner) viewKnobs() string {
	var sb strings.Builder
	sb.WriteString(titleStyle().Render("SETUP") + "\n")
	for i, k := range knobs {
		val := fmt.Sprintf("%.2f", t.values[i])
		if k.unit != "" {
			val += " " + k.unit
		}
		if k.name == "Traction μ" && t.values[i] <= 0 {
			val = "off"
		}
		cursor := "  "
		style := valueStyle()
		if i == t.selected {
			cursor = "▸ "
			style = selectedStyle()
		}
		sb.WriteString(cursor + labelStyle().Render(k.name) + style.Render(val))
		if i < len(knobs)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (t *Tuner) viewFigures() string {
	var sb strings.Builder
	sb.WriteString(titleStyle().Render("PERFORMANCE") + "\n")

	base, cur := t.baseline.Performance, t.current.Performance
	rows := []struct {
		label string
		name  string
	}{
		{"0-60 mph", sim.MetricZeroTo60},
		{"0-100 km/h", sim.MetricZeroTo100},
		{"1/4 mile", sim.MetricQuarterMile},
	}
	for _, r := range rows {
		sb.WriteString(labelStyle().Render(r.label))
		v, ok := cur.Get(r.name)
		if !ok {
			sb.WriteString(valueStyle().Render("-") + "\n")
			continue
		}
		sb.WriteString(valueStyle().Render(fmt.Sprintf("%6.2fs ", v)))
		if b, ok := base.Get(r.name); ok {
			sb.WriteString(Delta(v - b))
		}
		sb.WriteString("\n")
	}

	if v, ok := cur.Get(sim.MetricTrapSpeed); ok {
		sb.WriteString(labelStyle().Render("Trap speed") + valueStyle().Render(t.speed(v)) + "\n")
	}
	if v, ok := cur.Get(sim.MetricTopSpeed); ok {
		sb.WriteString(labelStyle().Render("Top speed") + valueStyle().Render(t.speed(v)))
	}
	return sb.String()
}

func (t *Tuner) speed(ms float64) string {
	return fmt.Sprintf("%.1f %s", physics.ConvertSpeed(ms, t.unit), t.unit)
}

func (t *Tuner) viewGraph(width int) string {
	baseSpeeds := speedSeries(t.baseline.Trace, t.unit, width)
	curSpeeds := speedSeries(t.current.Trace, t.unit, width)
	if len(baseSpeeds) < 2 || len(curSpeeds) < 2 {
		return hintStyle().Render("no trace")
	}

	return asciigraph.PlotMany(
		[][]float64{baseSpeeds, curSpeeds},
		asciigraph.Width(width),
		asciigraph.Height(max(6, t.height-22)),
		asciigraph.LowerBound(0),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(asciigraph.DarkGray, asciigraph.Cyan),
		asciigraph.SeriesLegends("stock", "tuned"),
		asciigraph.Caption("speed ("+t.unit+") vs time"),
	)
}

// speedSeries samples trace speed down to at most n points.
func speedSeries(trace []sim.TimeStep, unit string, n int) []float64 {
	if len(trace) == 0 || n <= 0 {
		return nil
	}
	stride := max(1, (len(trace)+n-1)/n)
	out := make([]float64, 0, len(trace)/stride+1)
	for i := 0; i < len(trace); i += stride {
		out = append(out, physics.ConvertSpeed(trace[i].SpeedMs, unit))
	}
	return out
}

// RunTuner starts the interactive tuner and returns the final modifications.
func RunTuner(spec vehicle.CarSpec, base vehicle.Modifications, unit string) (vehicle.Modifications, error) {
	t := NewTuner(spec, base, unit)
	if _, err := tea.NewProgram(t, tea.WithAltScreen()).Run(); err != nil {
		return base, err
	}
	return t.Mods(), nil
}
