package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/san-kum/dragsim/internal/catalog"
	"github.com/san-kum/dragsim/internal/garage"
	"github.com/spf13/cobra"
)

var setupCarFilter string

func newGarageCmd() *cobra.Command {
	garageCmd := &cobra.Command{
		Use:   "garage",
		Short: "manage saved setups and custom cars",
	}

	setupCmd := &cobra.Command{Use: "setup", Short: "named modification setups"}

	setupCreateCmd := &cobra.Command{
		Use:   "create [name] [car]",
		Short: "save modifications for a car",
		Args:  cobra.ExactArgs(2),
		RunE:  createSetup,
	}
	addModFlags(setupCreateCmd)

	setupListCmd := &cobra.Command{
		Use:   "list",
		Short: "list setups",
		RunE:  listSetups,
	}
	setupListCmd.Flags().StringVar(&setupCarFilter, "car", "", "only setups for this car")

	setupDeleteCmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "delete a setup",
		Args:  cobra.ExactArgs(1),
		RunE: withGarage(func(ctx context.Context, g *garage.Garage, args []string) error {
			if err := g.DeleteSetup(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted setup %s\n", args[0])
			return nil
		}),
	}
	setupCmd.AddCommand(setupCreateCmd, setupListCmd, setupDeleteCmd)

	carCmd := &cobra.Command{Use: "car", Short: "custom cars"}

	carAddCmd := &cobra.Command{
		Use:   "add [file]",
		Short: "import a car file (yaml or json)",
		Args:  cobra.ExactArgs(1),
		RunE: withGarage(func(ctx context.Context, g *garage.Garage, args []string) error {
			spec, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}
			car, err := g.CreateCar(ctx, spec)
			if err != nil {
				return err
			}
			fmt.Printf("added %s as %s\n", car.Name, car.ID)
			return nil
		}),
	}

	carListCmd := &cobra.Command{
		Use:   "list",
		Short: "list custom cars",
		RunE: withGarage(func(ctx context.Context, g *garage.Garage, args []string) error {
			cars, err := g.ListCars(ctx)
			if err != nil {
				return err
			}
			if len(cars) == 0 {
				fmt.Println("no custom cars")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tGEARS\tWEIGHT\tCREATED")
			for _, c := range cars {
				fmt.Fprintf(w, "%s\t%s\t%d\t%.0f kg\t%s\n", c.ID, c.Name, c.Spec.Gears(),
					c.Spec.CurbWeightKg, c.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		}),
	}

	carExportCmd := &cobra.Command{
		Use:   "export [id] [file]",
		Short: "write a custom car to a yaml file",
		Args:  cobra.ExactArgs(2),
		RunE: withGarage(func(ctx context.Context, g *garage.Garage, args []string) error {
			car, err := g.GetCar(ctx, args[0])
			if err != nil {
				return err
			}
			return catalog.SaveFile(args[1], car.Spec)
		}),
	}

	carDeleteCmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "delete a custom car",
		Args:  cobra.ExactArgs(1),
		RunE: withGarage(func(ctx context.Context, g *garage.Garage, args []string) error {
			if err := g.DeleteCar(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted car %s\n", args[0])
			return nil
		}),
	}
	carCmd.AddCommand(carAddCmd, carListCmd, carExportCmd, carDeleteCmd)

	garageCmd.AddCommand(setupCmd, carCmd)
	return garageCmd
}

// withGarage opens the configured garage around fn.
func withGarage(fn func(context.Context, *garage.Garage, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		g, err := garage.Open(cfg.Garage)
		if err != nil {
			return err
		}
		defer g.Close()
		return fn(cmd.Context(), g, args)
	}
}

func createSetup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	spec, err := resolveCar(ctx, cfg, args[1])
	if err != nil {
		return err
	}
	mods, err := buildMods(ctx, cmd, cfg, spec)
	if err != nil {
		return err
	}

	g, err := garage.Open(cfg.Garage)
	if err != nil {
		return err
	}
	defer g.Close()

	s, err := g.CreateSetup(ctx, args[0], spec.ID, mods)
	if err != nil {
		return err
	}
	fmt.Printf("saved setup %s (%s)\n", s.Name, s.ID)
	return nil
}

func listSetups(cmd *cobra.Command, args []string) error {
	return withGarage(func(ctx context.Context, g *garage.Garage, _ []string) error {
		setups, err := g.ListSetups(ctx, setupCarFilter)
		if err != nil {
			return err
		}
		if len(setups) == 0 {
			fmt.Println("no setups")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCAR\tCREATED")
		for _, s := range setups {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Name, s.CarID, s.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	})(cmd, args)
}
