package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/dragsim/internal/config"
	"github.com/san-kum/dragsim/internal/export"
	"github.com/san-kum/dragsim/internal/garage"
	"github.com/san-kum/dragsim/internal/optim"
	"github.com/san-kum/dragsim/internal/sim"
	"github.com/san-kum/dragsim/internal/vehicle"
	"github.com/san-kum/dragsim/internal/viz"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
)

var (
	chartKind   string
	htmlOut     string
	optParams   []string
	optMetric   string
	saveSetupAs string
)

func newChartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart [car]",
		Short: "chart gear thrust curves or the speed trace (png, svg, html)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  chartRun,
	}
	cmd.Flags().StringVar(&chartKind, "kind", "thrust", "chart kind (thrust, trace)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "chart.png", "output file")
	addModFlags(cmd)
	return cmd
}

func chartRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := context.Background()

	spec, err := resolveCar(ctx, cfg, carArg(cfg, args))
	if err != nil {
		return err
	}
	mods, err := buildMods(ctx, cmd, cfg, spec)
	if err != nil {
		return err
	}
	res, err := sim.SimulateContext(ctx, spec, mods, cfg.SimConfig())
	if err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(outFile), ".html") {
		if err := writeHTML(outFile, []export.Series{{Label: spec.Name(), Result: res}}, spec.Name(), cfg.Units); err != nil {
			return err
		}
		fmt.Printf("chart saved to %s\n", outFile)
		return nil
	}

	var build func(*sim.Result, string, string) (*plot.Plot, error)
	switch chartKind {
	case "thrust":
		build = export.ThrustPlot
	case "trace":
		build = export.TracePlot
	default:
		return fmt.Errorf("unknown chart kind %q (thrust, trace)", chartKind)
	}

	p, err := build(res, spec.Name(), cfg.Units)
	if err != nil {
		return err
	}
	size := export.Size{Width: cfg.Export.Width, Height: cfg.Export.Height}
	if err := export.SavePlot(p, size, outFile); err != nil {
		return err
	}
	fmt.Printf("chart saved to %s\n", outFile)
	return nil
}

func writeHTML(path string, series []export.Series, title, unit string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return export.WriteHTML(f, series, title, unit)
}

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [car[:preset,...]] ...",
		Short: "simulate several setups side by side",
		Long: "Each argument is a car id, garage car id or car file, optionally followed by\n" +
			"a colon and comma-separated presets, e.g. sedan-turbo:stage1,denver.",
		Args: cobra.MinimumNArgs(1),
		RunE: compareRuns,
	}
	cmd.Flags().StringVar(&htmlOut, "html", "", "write an HTML comparison chart")
	return cmd
}

func compareRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := context.Background()

	jobs := make([]sim.Job, 0, len(args))
	for _, arg := range args {
		job, err := parseJob(ctx, cfg, arg)
		if err != nil {
			return err
		}
		jobs = append(jobs, job)
	}

	results, err := sim.Compare(ctx, jobs, cfg.SimConfig())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SETUP\t0-60\t0-100\t1/4 MILE\tTRAP (%s)\tTOP (%s)\n", cfg.Units, cfg.Units)
	for i, res := range results {
		p := res.Performance
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", jobs[i].Label,
			seconds(p, sim.MetricZeroTo60),
			seconds(p, sim.MetricZeroTo100),
			seconds(p, sim.MetricQuarterMile),
			speed(p, sim.MetricTrapSpeed, cfg.Units),
			speed(p, sim.MetricTopSpeed, cfg.Units))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if htmlOut != "" {
		series := make([]export.Series, len(results))
		for i, res := range results {
			series[i] = export.Series{Label: jobs[i].Label, Result: res}
		}
		if err := writeHTML(htmlOut, series, "comparison", cfg.Units); err != nil {
			return err
		}
		fmt.Printf("\nchart saved to %s\n", htmlOut)
	}
	return nil
}

func speed(p sim.Performance, metric, unit string) string {
	if v, ok := p.Get(metric); ok {
		return fmt.Sprintf("%.1f", speedIn(v, unit))
	}
	return "-"
}

// parseJob reads "car[:preset,preset]".
func parseJob(ctx context.Context, cfg *config.Config, arg string) (sim.Job, error) {
	ref, presets, _ := strings.Cut(arg, ":")
	spec, err := resolveCar(ctx, cfg, ref)
	if err != nil {
		return sim.Job{}, err
	}

	mods := vehicle.Stock()
	if presets != "" {
		for _, name := range strings.Split(presets, ",") {
			p := cfg.Preset(strings.TrimSpace(name))
			if p == nil {
				return sim.Job{}, fmt.Errorf("unknown preset: %s (available: %v)", name, cfg.PresetNames())
			}
			mods = mods.Merge(*p)
		}
	}
	if err := mods.Validate(spec); err != nil {
		return sim.Job{}, fmt.Errorf("%s: %w", arg, err)
	}
	return sim.Job{Label: arg, Spec: spec, Mods: mods}, nil
}

func newOptimizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize [car]",
		Short: "grid search modification parameters for the best time",
		Long: "Parameters are given as name=start:stop:step or name=a,b,c. Known names: " +
			strings.Join(optim.Params(), ", "),
		Args: cobra.MaximumNArgs(1),
		RunE: optimizeRun,
	}
	cmd.Flags().StringArrayVar(&optParams, "param", nil, "parameter range (repeatable)")
	cmd.Flags().StringVar(&optMetric, "metric", sim.MetricZeroTo60, "metric to minimize ("+strings.Join(optim.Metrics, ", ")+")")
	addModFlags(cmd)
	return cmd
}

func optimizeRun(cmd *cobra.Command, args []string) error {
	if len(optParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := context.Background()

	spec, err := resolveCar(ctx, cfg, carArg(cfg, args))
	if err != nil {
		return err
	}
	base, err := buildMods(ctx, cmd, cfg, spec)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(optParams))
	ranges := make([][]float64, 0, len(optParams))
	for _, p := range optParams {
		name, rng, ok := strings.Cut(p, "=")
		if !ok {
			return fmt.Errorf("parameter %q must be name=range", p)
		}
		values, err := optim.ParseRange(rng)
		if err != nil {
			return err
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, values)
	}

	best, err := optim.NewGridSearch(names, ranges).Search(ctx, spec, base, optMetric, cfg.SimConfig())
	if err != nil {
		return err
	}

	fmt.Printf("best %s: %.3fs after %d trials\n", optMetric, best.Value, best.Trials)
	for _, name := range names {
		fmt.Printf("  %s = %g\n", name, best.Params[name])
	}
	return nil
}

func newTuneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tune [car]",
		Short: "interactive terminal tuner",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneRun,
	}
	cmd.Flags().StringVar(&saveSetupAs, "save-setup", "", "store the final setup in the garage under this name")
	addModFlags(cmd)
	return cmd
}

func tuneRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := context.Background()

	spec, err := resolveCar(ctx, cfg, carArg(cfg, args))
	if err != nil {
		return err
	}
	base, err := buildMods(ctx, cmd, cfg, spec)
	if err != nil {
		return err
	}

	mods, err := viz.RunTuner(spec, base, cfg.Units)
	if err != nil {
		return err
	}
	if saveSetupAs == "" {
		return nil
	}

	g, err := garage.Open(cfg.Garage)
	if err != nil {
		return err
	}
	defer g.Close()

	s, err := g.CreateSetup(ctx, saveSetupAs, spec.ID, mods)
	if err != nil {
		return err
	}
	fmt.Printf("saved setup %s (%s)\n", s.Name, s.ID)
	return nil
}
