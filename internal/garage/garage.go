// Package garage persists named modification setups and custom cars in a
// SQLite database. Values are stored verbatim as JSON.
package garage

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/dragsim/internal/vehicle"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

var ErrNotFound = errors.New("garage: not found")

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA foreign_keys=ON",
}

type Garage struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Garage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("garage: open %s: %w", path, err)
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("garage: %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("garage: apply schema: %w", err)
	}

	return &Garage{db: db}, nil
}

func (g *Garage) Close() error {
	return g.db.Close()
}

// Setup is a named set of modifications for one car.
type Setup struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	CarID     string                `json:"carId"`
	Mods      vehicle.Modifications `json:"modifications"`
	CreatedAt time.Time             `json:"createdAt"`
}

// CustomCar is a user-authored car. Its spec's ID equals the car ID.
type CustomCar struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Spec      vehicle.CarSpec `json:"spec"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (g *Garage) CreateSetup(ctx context.Context, name, carID string, mods vehicle.Modifications) (*Setup, error) {
	data, err := json.Marshal(mods)
	if err != nil {
		return nil, err
	}

	s := &Setup{
		ID:        uuid.NewString(),
		Name:      name,
		CarID:     carID,
		Mods:      mods,
		CreatedAt: time.Now(),
	}
	_, err = g.db.ExecContext(ctx,
		`INSERT INTO setups (id, name, car_id, mods_json, created_unix_nanos) VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.CarID, string(data), s.CreatedAt.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("garage: insert setup: %w", err)
	}
	return s, nil
}

func (g *Garage) GetSetup(ctx context.Context, id string) (*Setup, error) {
	row := g.db.QueryRowContext(ctx,
		`SELECT id, name, car_id, mods_json, created_unix_nanos FROM setups WHERE id = ?`, id)
	s, err := scanSetup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: setup %s", ErrNotFound, id)
	}
	return s, err
}

// ListSetups returns every setup, oldest first. A non-empty carID filters.
func (g *Garage) ListSetups(ctx context.Context, carID string) ([]*Setup, error) {
	query := `SELECT id, name, car_id, mods_json, created_unix_nanos FROM setups`
	var args []any
	if carID != "" {
		query += ` WHERE car_id = ?`
		args = append(args, carID)
	}
	query += ` ORDER BY created_unix_nanos, id`

	rows, err := g.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Setup
	for rows.Next() {
		s, err := scanSetup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (g *Garage) DeleteSetup(ctx context.Context, id string) error {
	return g.delete(ctx, `DELETE FROM setups WHERE id = ?`, "setup", id)
}

// CreateCar validates spec and stores it under a new id.
func (g *Garage) CreateCar(ctx context.Context, spec vehicle.CarSpec) (*CustomCar, error) {
	id := uuid.NewString()
	spec.ID = id
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	data, err := json.Marshal(spec)
	if err != nil {
		return nil, err
	}

	c := &CustomCar{
		ID:        id,
		Name:      spec.Name(),
		Spec:      spec,
		CreatedAt: time.Now(),
	}
	_, err = g.db.ExecContext(ctx,
		`INSERT INTO cars (id, name, spec_json, created_unix_nanos) VALUES (?, ?, ?, ?)`,
		c.ID, c.Name, string(data), c.CreatedAt.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("garage: insert car: %w", err)
	}
	return c, nil
}

func (g *Garage) GetCar(ctx context.Context, id string) (*CustomCar, error) {
	row := g.db.QueryRowContext(ctx,
		`SELECT id, name, spec_json, created_unix_nanos FROM cars WHERE id = ?`, id)
	c, err := scanCar(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: car %s", ErrNotFound, id)
	}
	return c, err
}

func (g *Garage) ListCars(ctx context.Context) ([]*CustomCar, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT id, name, spec_json, created_unix_nanos FROM cars ORDER BY created_unix_nanos, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*CustomCar
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (g *Garage) DeleteCar(ctx context.Context, id string) error {
	return g.delete(ctx, `DELETE FROM cars WHERE id = ?`, "car", id)
}

func (g *Garage) delete(ctx context.Context, query, kind, id string) error {
	res, err := g.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSetup(row scanner) (*Setup, error) {
	var (
		s       Setup
		modsRaw string
		created int64
	)
	if err := row.Scan(&s.ID, &s.Name, &s.CarID, &modsRaw, &created); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(modsRaw), &s.Mods); err != nil {
		return nil, fmt.Errorf("garage: decode setup %s: %w", s.ID, err)
	}
	s.CreatedAt = time.Unix(0, created)
	return &s, nil
}

func scanCar(row scanner) (*CustomCar, error) {
	var (
		c       CustomCar
		specRaw string
		created int64
	)
	if err := row.Scan(&c.ID, &c.Name, &specRaw, &created); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(specRaw), &c.Spec); err != nil {
		return nil, fmt.Errorf("garage: decode car %s: %w", c.ID, err)
	}
	c.CreatedAt = time.Unix(0, created)
	return &c, nil
}
