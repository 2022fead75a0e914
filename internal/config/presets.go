package config

import (
	"sort"

	"github.com/san-kum/dragsim/internal/physics"
	"github.com/san-kum/dragsim/internal/vehicle"
)

// DenverAltitudeM is the elevation of Denver, CO.
const DenverAltitudeM = 1609.0

var Presets = map[string]*vehicle.Modifications{
	"stage1": {
		TorqueMultiplier: vehicle.Some(1.15),
	},
	"denver": {
		AltitudeM: vehicle.Some(DenverAltitudeM),
	},
	"sea-level": {
		AltitudeM: vehicle.Some(0.0),
	},
	"lightweight": {
		WeightDeltaKg: vehicle.Some(-100.0),
		Cd:            vehicle.Some(0.28),
	},
	"drag-radials": {
		TractionMu: vehicle.Some(1.4),
		Tire:       vehicle.Some(vehicle.Tire{WidthMM: 275, AspectRatio: 40, RimIn: 17}),
	},
	"turbo-swap": {
		Induction:        vehicle.Some(physics.Turbocharged),
		TorqueMultiplier: vehicle.Some(1.3),
		WeightDeltaKg:    vehicle.Some(25.0),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *vehicle.Modifications {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	m := *p
	return &m
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
