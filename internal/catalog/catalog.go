// Package catalog holds stock car specifications and loads user-authored
// ones from disk.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/san-kum/dragsim/internal/vehicle"
	"gopkg.in/yaml.v3"
)

//go:embed cars.json
var stockJSON []byte

var (
	ErrUnknownCar   = errors.New("catalog: unknown car")
	ErrDuplicateCar = errors.New("catalog: duplicate car id")
)

type Registry struct {
	cars map[string]vehicle.CarSpec
}

func NewRegistry() *Registry {
	return &Registry{cars: make(map[string]vehicle.CarSpec)}
}

// Stock returns a registry holding the embedded catalog.
func Stock() (*Registry, error) {
	var specs []vehicle.CarSpec
	if err := json.Unmarshal(stockJSON, &specs); err != nil {
		return nil, fmt.Errorf("catalog: decode stock cars: %w", err)
	}

	r := NewRegistry()
	for _, spec := range specs {
		if err := r.Add(spec); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add validates spec and registers it under its id.
func (r *Registry) Add(spec vehicle.CarSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if _, ok := r.cars[spec.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCar, spec.ID)
	}
	r.cars[spec.ID] = spec
	return nil
}

func (r *Registry) Get(id string) (vehicle.CarSpec, error) {
	spec, ok := r.cars[id]
	if !ok {
		return vehicle.CarSpec{}, fmt.Errorf("%w: %s", ErrUnknownCar, id)
	}
	return spec, nil
}

// List returns every car ordered by id.
func (r *Registry) List() []vehicle.CarSpec {
	out := make([]vehicle.CarSpec, 0, len(r.cars))
	for _, spec := range r.cars {
		out = append(out, spec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.cars))
	for id := range r.cars {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LoadFile reads a car spec from a .yaml, .yml or .json file and validates
// it.
func LoadFile(path string) (vehicle.CarSpec, error) {
	var spec vehicle.CarSpec

	data, err := os.ReadFile(path)
	if err != nil {
		return spec, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &spec)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &spec)
	default:
		return spec, fmt.Errorf("catalog: unsupported car file %s", path)
	}
	if err != nil {
		return spec, fmt.Errorf("catalog: parse %s: %w", path, err)
	}

	if err := spec.Validate(); err != nil {
		return spec, err
	}
	return spec, nil
}

// SaveFile writes spec as yaml.
func SaveFile(path string, spec vehicle.CarSpec) error {
	data, err := yaml.Marshal(spec)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
