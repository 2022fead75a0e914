package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/san-kum/dragsim/internal/dyno"
	"github.com/san-kum/dragsim/internal/physics"
	"github.com/san-kum/dragsim/internal/sim"
	"github.com/san-kum/dragsim/internal/vehicle"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCar           = "sedan-turbo"
	DefaultDataDir       = "runs"
	DefaultGarage        = "garage.db"
	DefaultUnits         = physics.MPH
	DefaultDynoTolerance = 40.0
	DefaultExportWidth   = 8.0 // inches
	DefaultExportHeight  = 5.0
)

type Config struct {
	Car     string  `yaml:"car"`
	DataDir string  `yaml:"data_dir"`
	Garage  string  `yaml:"garage"`
	Units   string  `yaml:"units"`
	Dt      float64 `yaml:"dt"`
	MaxTime float64 `yaml:"max_time"`

	Dyno   DynoConfig   `yaml:"dyno"`
	Export ExportConfig `yaml:"export"`

	// Presets adds to or replaces the built-in presets by name.
	Presets map[string]vehicle.Modifications `yaml:"presets,omitempty"`
}

type DynoConfig struct {
	Tolerance float64   `yaml:"tolerance"`
	Unit      dyno.Unit `yaml:"unit"`
}

type ExportConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

func DefaultConfig() *Config {
	sc := sim.DefaultConfig()
	return &Config{
		Car:     DefaultCar,
		DataDir: DefaultDataDir,
		Garage:  DefaultGarage,
		Units:   DefaultUnits,
		Dt:      sc.Dt,
		MaxTime: sc.MaxTime,
		Dyno: DynoConfig{
			Tolerance: DefaultDynoTolerance,
			Unit:      dyno.Nm,
		},
		Export: ExportConfig{
			Width:  DefaultExportWidth,
			Height: DefaultExportHeight,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if !physics.IsValidUnit(c.Units) {
		return fmt.Errorf("units must be one of %v, got %q", physics.ValidUnits, c.Units)
	}
	if c.Dt <= 0 || c.MaxTime <= 0 {
		return fmt.Errorf("dt and max_time must be positive")
	}
	if _, err := dyno.ParseUnit(string(c.Dyno.Unit)); err != nil {
		return err
	}
	if c.Dyno.Tolerance < 0 {
		return fmt.Errorf("dyno.tolerance must be >= 0")
	}
	return nil
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{Dt: c.Dt, MaxTime: c.MaxTime}
}

// Preset looks name up in the config's own presets first, then the
// built-in ones.
func (c *Config) Preset(name string) *vehicle.Modifications {
	if m, ok := c.Presets[name]; ok {
		return &m
	}
	return GetPreset(name)
}

// PresetNames lists built-in and configured presets without duplicates.
func (c *Config) PresetNames() []string {
	names := ListPresets()
	for name := range c.Presets {
		if GetPreset(name) == nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
