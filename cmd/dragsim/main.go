package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/san-kum/dragsim/internal/config"
	"github.com/san-kum/dragsim/internal/sim"
	"github.com/san-kum/dragsim/internal/storage"
	"github.com/san-kum/dragsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	configFile string
	dataDir    string
	garagePath string
	units      string
	dt         float64
	maxTime    float64
	noSave     bool
	label      string
	outFile    string
)

// main registers every command and executes the root command. It exits with
// status 1 when a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "dragsim",
		Short:        "straight-line vehicle performance simulator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "run data directory")
	rootCmd.PersistentFlags().StringVar(&garagePath, "garage", config.DefaultGarage, "garage database file")
	rootCmd.PersistentFlags().StringVar(&units, "units", config.DefaultUnits, "speed units (mps, mph, kph)")

	runCmd := &cobra.Command{
		Use:   "run [car]",
		Short: "simulate a launch and store the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&dt, "dt", sim.DefaultConfig().Dt, "timestep (s)")
	runCmd.Flags().Float64Var(&maxTime, "max-time", sim.DefaultConfig().MaxTime, "simulation ceiling (s)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().StringVar(&label, "label", "", "run label")
	addModFlags(runCmd)

	carsCmd := &cobra.Command{
		Use:   "cars",
		Short: "list stock and garage cars",
		RunE:  listCars,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list modification presets",
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := storage.New(cfg.DataDir).Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored trace to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, carsCmd, presetsCmd, listCmd, showCmd, deleteCmd,
		exportJSONCmd, exportCSVCmd, initCmd,
		newChartCmd(), newCompareCmd(), newOptimizeCmd(), newDigitizeCmd(), newTuneCmd(), newGarageCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads --config when given, then applies persistent flags that
// were set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("garage") {
		cfg.Garage = garagePath
	}
	if flags.Changed("units") {
		cfg.Units = units
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("max-time") {
		cfg.MaxTime = maxTime
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
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

	start := time.Now()
	res, err := sim.SimulateContext(ctx, spec, mods, cfg.SimConfig())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Println(viz.Summary(spec.Name(), res, cfg.Units))
	fmt.Println()
	fmt.Println(viz.SpeedGraph(res, cfg.Units, 60, 12))
	fmt.Printf("\ncompleted in %v (%d steps)\n", elapsed, len(res.Trace))

	if noSave {
		return nil
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.Run{
		Spec:   spec,
		Mods:   mods,
		Label:  label,
		Config: cfg.SimConfig(),
		Result: res,
	})
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	for _, name := range cfg.PresetNames() {
		fmt.Println(name)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	runs, err := storage.New(cfg.DataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tCAR\tLABEL\t0-60\t1/4 MILE\tTIMESTAMP")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Car, r.Label,
			seconds(r.Performance, sim.MetricZeroTo60),
			seconds(r.Performance, sim.MetricQuarterMile),
			r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func seconds(p sim.Performance, metric string) string {
	if v, ok := p.Get(metric); ok {
		return fmt.Sprintf("%.2fs", v)
	}
	return "-"
}

func showRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}

	res := &sim.Result{
		ShiftPoints: meta.ShiftPoints,
		Performance: meta.Performance,
		Trace:       trace,
	}
	name := meta.CarName
	if meta.Label != "" {
		name += " (" + meta.Label + ")"
	}
	fmt.Println(viz.Summary(name, res, cfg.Units))
	fmt.Println()
	fmt.Println(viz.SpeedGraph(res, cfg.Units, 60, 12))
	fmt.Printf("\nrun %s, %d steps, dt %g\n", meta.ID, meta.Steps, meta.Dt)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)

	if outFile == "" {
		return st.ExportJSON(os.Stdout, args[0])
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := st.ExportJSON(f, args[0]); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outFile)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	trace, err := storage.New(cfg.DataDir).LoadTrace(args[0])
	if err != nil {
		return err
	}

	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	w.Write([]string{"time_s", "speed_" + cfg.Units, "distance_m", "gear", "rpm", "thrust_n"})
	for _, s := range trace {
		w.Write([]string{
			strconv.FormatFloat(s.TimeS, 'f', 3, 64),
			strconv.FormatFloat(speedIn(s.SpeedMs, cfg.Units), 'f', 3, 64),
			strconv.FormatFloat(s.DistanceM, 'f', 3, 64),
			strconv.Itoa(s.Gear),
			strconv.FormatFloat(s.RPM, 'f', 0, 64),
			strconv.FormatFloat(s.ThrustN, 'f', 1, 64),
		})
	}
	w.Flush()
	return w.Error()
}
