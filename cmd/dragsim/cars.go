package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/dragsim/internal/catalog"
	"github.com/san-kum/dragsim/internal/config"
	"github.com/san-kum/dragsim/internal/garage"
	"github.com/san-kum/dragsim/internal/physics"
	"github.com/san-kum/dragsim/internal/vehicle"
	"github.com/spf13/cobra"
)

var (
	presetNames []string
	setupID     string
	torqueMult  float64
	weightDelta float64
	finalDrive  float64
	shiftTimeMs float64
	altitudeM   float64
	tractionMu  float64
	dragCd      float64
)

// addModFlags registers the modification flags on cmd. Only flags the user
// sets become overrides.
func addModFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSliceVar(&presetNames, "preset", nil, "apply named presets in order")
	f.StringVar(&setupID, "setup", "", "apply a garage setup by id")
	f.Float64Var(&torqueMult, "torque", 1, "torque multiplier")
	f.Float64Var(&weightDelta, "weight", 0, "weight delta (kg)")
	f.Float64Var(&finalDrive, "final-drive", 0, "final drive ratio")
	f.Float64Var(&shiftTimeMs, "shift-time", 0, "shift time (ms)")
	f.Float64Var(&altitudeM, "altitude", 0, "altitude (m)")
	f.Float64Var(&tractionMu, "traction", 0, "tire friction coefficient")
	f.Float64Var(&dragCd, "cd", 0, "drag coefficient")
}

func carArg(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Car
}

func isCarFile(ref string) bool {
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// resolveCar finds a car by stock id, garage id or file path.
func resolveCar(ctx context.Context, cfg *config.Config, ref string) (vehicle.CarSpec, error) {
	if isCarFile(ref) {
		return catalog.LoadFile(ref)
	}

	reg, err := catalog.Stock()
	if err != nil {
		return vehicle.CarSpec{}, err
	}
	spec, err := reg.Get(ref)
	if err == nil || !errors.Is(err, catalog.ErrUnknownCar) {
		return spec, err
	}

	if _, statErr := os.Stat(cfg.Garage); statErr != nil {
		return vehicle.CarSpec{}, err
	}
	g, gerr := garage.Open(cfg.Garage)
	if gerr != nil {
		return vehicle.CarSpec{}, gerr
	}
	defer g.Close()

	car, gerr := g.GetCar(ctx, ref)
	if errors.Is(gerr, garage.ErrNotFound) {
		return vehicle.CarSpec{}, fmt.Errorf("%w (available: %v)", err, reg.IDs())
	}
	if gerr != nil {
		return vehicle.CarSpec{}, gerr
	}
	return car.Spec, nil
}

// buildMods layers presets, then a garage setup, then explicit flags.
func buildMods(ctx context.Context, cmd *cobra.Command, cfg *config.Config, spec vehicle.CarSpec) (vehicle.Modifications, error) {
	mods := vehicle.Stock()

	for _, name := range presetNames {
		p := cfg.Preset(name)
		if p == nil {
			return mods, fmt.Errorf("unknown preset: %s (available: %v)", name, cfg.PresetNames())
		}
		mods = mods.Merge(*p)
	}

	if setupID != "" {
		g, err := garage.Open(cfg.Garage)
		if err != nil {
			return mods, err
		}
		s, err := g.GetSetup(ctx, setupID)
		g.Close()
		if err != nil {
			return mods, err
		}
		if s.CarID != spec.ID {
			log.Printf("warning: setup %q was saved for %s, applying to %s", s.Name, s.CarID, spec.ID)
		}
		mods = mods.Merge(s.Mods)
	}

	f := cmd.Flags()
	if f.Changed("torque") {
		mods.TorqueMultiplier = vehicle.Some(torqueMult)
	}
	if f.Changed("weight") {
		mods.WeightDeltaKg = vehicle.Some(weightDelta)
	}
	if f.Changed("final-drive") {
		mods.FinalDrive = vehicle.Some(finalDrive)
	}
	if f.Changed("shift-time") {
		mods.ShiftTimeMs = vehicle.Some(shiftTimeMs)
	}
	if f.Changed("altitude") {
		mods.AltitudeM = vehicle.Some(altitudeM)
	}
	if f.Changed("traction") {
		mods.TractionMu = vehicle.Some(tractionMu)
	}
	if f.Changed("cd") {
		mods.Cd = vehicle.Some(dragCd)
	}

	if err := mods.Validate(spec); err != nil {
		return mods, err
	}
	return mods, nil
}

func speedIn(speedMs float64, unit string) float64 {
	return physics.ConvertSpeed(speedMs, unit)
}

func listCars(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	reg, err := catalog.Stock()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tGEARS\tWEIGHT\tINDUCTION\tSOURCE")
	for _, spec := range reg.List() {
		printCar(w, spec, "stock")
	}

	if _, err := os.Stat(cfg.Garage); err == nil {
		g, err := garage.Open(cfg.Garage)
		if err != nil {
			return err
		}
		defer g.Close()

		cars, err := g.ListCars(context.Background())
		if err != nil {
			return err
		}
		for _, c := range cars {
			printCar(w, c.Spec, "garage")
		}
	}
	return w.Flush()
}

func printCar(w *tabwriter.Writer, spec vehicle.CarSpec, source string) {
	fmt.Fprintf(w, "%s\t%s\t%d\t%.0f kg\t%s\t%s\n",
		spec.ID, spec.Name(), spec.Gears(), spec.CurbWeightKg, spec.Engine.Induction, source)
}
