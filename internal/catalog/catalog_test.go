package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/san-kum/dragsim/internal/curve"
	"github.com/san-kum/dragsim/internal/physics"
	"github.com/san-kum/dragsim/internal/vehicle"
)

func TestStock(t *testing.T) {
	r, err := Stock()
	if err != nil {
		t.Fatalf("load stock catalog: %v", err)
	}

	want := []string{"coupe-na", "hatch-turbo", "sedan-turbo"}
	if diff := cmp.Diff(want, r.IDs()); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}

	list := r.List()
	for i := range list {
		if list[i].ID != want[i] {
			t.Errorf("list not sorted at %d: %s", i, list[i].ID)
		}
	}

	sedan, err := r.Get("sedan-turbo")
	if err != nil {
		t.Fatalf("get sedan: %v", err)
	}
	if sedan.Engine.Induction != physics.Turbocharged {
		t.Errorf("expected turbo, got %s", sedan.Engine.Induction)
	}
	if got := sedan.Engine.TorqueCurve; !cmp.Equal(got, curve.Of([2]float64{1000, 499}, [2]float64{6500, 200})) {
		t.Errorf("unexpected torque curve %v", got)
	}
	if sedan.Gears() != 6 || sedan.CurbWeightKg != 1565 {
		t.Errorf("unexpected sedan %+v", sedan)
	}
}

func TestGetUnknown(t *testing.T) {
	r, err := Stock()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Get("hovercraft"); !errors.Is(err, ErrUnknownCar) {
		t.Errorf("expected ErrUnknownCar, got %v", err)
	}
}

func TestAdd(t *testing.T) {
	r, err := Stock()
	if err != nil {
		t.Fatal(err)
	}
	sedan, _ := r.Get("sedan-turbo")

	if err := r.Add(sedan); !errors.Is(err, ErrDuplicateCar) {
		t.Errorf("expected ErrDuplicateCar, got %v", err)
	}

	broken := sedan
	broken.ID = "broken"
	broken.CurbWeightKg = 0
	if err := r.Add(broken); !errors.Is(err, vehicle.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestFileRoundTrip(t *testing.T) {
	r, err := Stock()
	if err != nil {
		t.Fatal(err)
	}
	coupe, _ := r.Get("coupe-na")
	coupe.ID = "my-coupe"

	path := filepath.Join(t.TempDir(), "coupe.yaml")
	if err := SaveFile(path, coupe); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(coupe, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kart.json")
	data := `{
		"id": "kart",
		"engine": {"torqueCurve": [[2000, 20], [9000, 25]], "idleRpm": 1800, "redlineRpm": 10000, "induction": "na"},
		"transmission": {"gearRatios": [2.5], "finalDrive": 4, "drivetrainLoss": 0.05},
		"tire": {"widthMm": 120, "aspectRatio": 50, "rimIn": 5},
		"aero": {"cd": 0.8, "frontalAreaM2": 0.6},
		"curbWeightKg": 160
	}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	spec, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.ID != "kart" || spec.Gears() != 1 || len(spec.Engine.TorqueCurve) != 2 {
		t.Errorf("unexpected spec %+v", spec)
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	txt := filepath.Join(dir, "car.txt")
	os.WriteFile(txt, []byte("id: x"), 0644)
	if _, err := LoadFile(txt); err == nil {
		t.Error("expected error for unsupported extension")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	os.WriteFile(invalid, []byte("id: x\ncurb_weight_kg: 1000\n"), 0644)
	if _, err := LoadFile(invalid); !errors.Is(err, vehicle.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}
