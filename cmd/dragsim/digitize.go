package main

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/dragsim/internal/catalog"
	"github.com/san-kum/dragsim/internal/curve"
	"github.com/san-kum/dragsim/internal/dyno"
	"github.com/san-kum/dragsim/internal/vehicle"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	calFile    string
	xAxisFlag  string
	yAxisFlag  string
	traceColor string
	tolerance  float64
	dynoUnit   string
	idleRPM    float64
	redlineRPM float64
	forCar     string
)

func newDigitizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digitize [image]",
		Short: "extract a torque curve from a dyno chart image (png, jpeg)",
		Long: "Axes are calibrated with two pixel:value pairs each, e.g.\n" +
			"  --x-axis 80:1000,720:7000 --y-axis 400:0,40:500\n" +
			"or with a yaml file holding x and y calibration points.",
		Args: cobra.ExactArgs(1),
		RunE: digitizeRun,
	}
	f := cmd.Flags()
	f.StringVar(&calFile, "calibration", "", "calibration file (yaml)")
	f.StringVar(&xAxisFlag, "x-axis", "", "x calibration px:rpm,px:rpm")
	f.StringVar(&yAxisFlag, "y-axis", "", "y calibration px:value,px:value")
	f.StringVar(&traceColor, "color", "#ff0000", "trace color (hex)")
	f.Float64Var(&tolerance, "tolerance", 0, "color distance tolerance (default from config)")
	f.StringVar(&dynoUnit, "unit", "", "y axis unit: nm, lbft, kw, hp (default from config)")
	f.Float64Var(&idleRPM, "idle", 1000, "lowest rpm to keep")
	f.Float64Var(&redlineRPM, "redline", 7000, "highest rpm to keep")
	f.StringVar(&forCar, "car", "", "take idle/redline from this car and write it back with the new curve")
	f.StringVarP(&outFile, "out", "o", "", "output yaml file (default stdout)")
	return cmd
}

func digitizeRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	cal, err := loadCalibration()
	if err != nil {
		return err
	}
	target, err := dyno.ParseRGB(traceColor)
	if err != nil {
		return fmt.Errorf("invalid --color: %w", err)
	}

	opts := dyno.Options{
		Target:      target,
		Tolerance:   cfg.Dyno.Tolerance,
		Calibration: cal,
		Unit:        cfg.Dyno.Unit,
		IdleRPM:     idleRPM,
		RedlineRPM:  redlineRPM,
	}
	if cmd.Flags().Changed("tolerance") {
		opts.Tolerance = tolerance
	}
	if dynoUnit != "" {
		if opts.Unit, err = dyno.ParseUnit(dynoUnit); err != nil {
			return err
		}
	}

	var car *vehicle.CarSpec
	if forCar != "" {
		spec, err := resolveCar(context.Background(), cfg, forCar)
		if err != nil {
			return err
		}
		car = &spec
		if !cmd.Flags().Changed("idle") {
			opts.IdleRPM = spec.Engine.IdleRPM
		}
		if !cmd.Flags().Changed("redline") {
			opts.RedlineRPM = spec.Engine.RedlineRPM
		}
	}

	img, err := decodeImage(args[0])
	if err != nil {
		return err
	}
	c, err := dyno.Digitize(dyno.FromImage(img), opts)
	if err != nil {
		return err
	}
	peak, _ := c.Peak()
	fmt.Fprintf(os.Stderr, "traced %d points from %.0f to %.0f rpm, peak %.1f Nm at %.0f rpm\n",
		len(c), c[0].RPM, c[len(c)-1].RPM, peak.Value, peak.RPM)

	if car != nil && outFile != "" {
		spec := *car
		spec.Engine.TorqueCurve = c
		spec.Engine.PowerCurve = curve.PowerFromTorque(c)
		if err := catalog.SaveFile(outFile, spec); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", outFile)
		return nil
	}

	data, err := yaml.Marshal(struct {
		TorqueCurve curve.Curve `yaml:"torque_curve"`
	}{c})
	if err != nil {
		return err
	}
	if outFile == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outFile, data, 0644)
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func loadCalibration() (dyno.Calibration, error) {
	var cal dyno.Calibration
	if calFile != "" {
		data, err := os.ReadFile(calFile)
		if err != nil {
			return cal, err
		}
		if err := yaml.Unmarshal(data, &cal); err != nil {
			return cal, fmt.Errorf("parse %s: %w", calFile, err)
		}
	}

	if xAxisFlag != "" {
		pts, err := parseAxis(xAxisFlag)
		if err != nil {
			return cal, fmt.Errorf("--x-axis: %w", err)
		}
		for i, p := range pts {
			cal.X[i] = dyno.CalibrationPoint{PixelX: p[0], Value: p[1]}
		}
	}
	if yAxisFlag != "" {
		pts, err := parseAxis(yAxisFlag)
		if err != nil {
			return cal, fmt.Errorf("--y-axis: %w", err)
		}
		for i, p := range pts {
			cal.Y[i] = dyno.CalibrationPoint{PixelY: p[0], Value: p[1]}
		}
	}

	if calFile == "" && (xAxisFlag == "" || yAxisFlag == "") {
		return cal, fmt.Errorf("calibration required: --calibration or both --x-axis and --y-axis")
	}
	return cal, nil
}

// parseAxis reads "px:value,px:value".
func parseAxis(s string) ([2][2]float64, error) {
	var out [2][2]float64
	pairs := strings.Split(s, ",")
	if len(pairs) != 2 {
		return out, fmt.Errorf("expected two px:value pairs, got %q", s)
	}
	for i, pair := range pairs {
		px, val, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			return out, fmt.Errorf("expected px:value, got %q", pair)
		}
		var err error
		if out[i][0], err = strconv.ParseFloat(px, 64); err != nil {
			return out, err
		}
		if out[i][1], err = strconv.ParseFloat(val, 64); err != nil {
			return out, err
		}
	}
	return out, nil
}
