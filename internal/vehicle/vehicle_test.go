package vehicle

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/san-kum/dragsim/internal/curve"
	"github.com/san-kum/dragsim/internal/physics"
	"gopkg.in/yaml.v3"
)

func testCar() CarSpec {
	return CarSpec{
		ID:    "test",
		Make:  "Test",
		Model: "Sedan",
		Engine: Engine{
			TorqueCurve: curve.Of([2]float64{1000, 499}, [2]float64{6500, 200}),
			IdleRPM:     800,
			RedlineRPM:  7000,
			Induction:   physics.Turbocharged,
		},
		Transmission: Transmission{
			GearRatios:     []float64{4.71, 3.14, 2.11, 1.67, 1.29, 1.0},
			FinalDrive:     3.15,
			ShiftTimeMs:    150,
			DrivetrainLoss: 0.15,
			Type:           Automatic,
		},
		Tire:         Tire{WidthMM: 255, AspectRatio: 35, RimIn: 19},
		Aero:         Aero{Cd: 0.29, FrontalAreaM2: 2.2},
		CurbWeightKg: 1565,
		Drivetrain:   RWD,
	}
}

func TestResolveStock(t *testing.T) {
	car := testCar()
	s := Resolve(car, Stock())

	if s.MassKg != 1565 {
		t.Errorf("expected mass 1565, got %f", s.MassKg)
	}
	if s.TorqueMultiplier != 1 {
		t.Errorf("expected multiplier 1, got %f", s.TorqueMultiplier)
	}
	if len(s.GearRatios) != 6 || s.GearRatios[0] != 4.71 {
		t.Errorf("unexpected ratios %v", s.GearRatios)
	}
	if s.AltitudeM != 0 || s.PowerCorrection() != 1 {
		t.Errorf("stock setup should be at sea level")
	}
	if s.TractionMu.IsSet() {
		t.Error("traction should be unset")
	}
}

func TestResolveOverrides(t *testing.T) {
	car := testCar()
	custom := curve.Of([2]float64{2000, 600}, [2]float64{6000, 550})

	var mods Modifications
	mods.WeightDeltaKg = Some(-100.0)
	mods.TorqueMultiplier = Some(1.2)
	mods.CustomTorqueCurve = Some(custom)
	mods.SetGearRatio(2, 2.3)
	mods.FinalDrive = Some(3.46)
	mods.Tire = Some(Tire{WidthMM: 275, AspectRatio: 30, RimIn: 20})
	mods.Induction = Some(physics.NaturallyAspirated)
	mods.AltitudeM = Some(1609.0)

	s := Resolve(car, mods)

	if s.MassKg != 1465 {
		t.Errorf("expected mass 1465, got %f", s.MassKg)
	}
	if s.TorqueCurve[0].RPM != 2000 {
		t.Error("custom curve should replace the stock curve")
	}
	if s.GearRatios[2] != 2.3 || s.GearRatios[1] != 3.14 {
		t.Errorf("gear override not applied per gear: %v", s.GearRatios)
	}
	if s.FinalDrive != 3.46 {
		t.Errorf("expected final drive 3.46, got %f", s.FinalDrive)
	}
	if s.TireRadiusM != physics.TireRadius(275, 30, 20) {
		t.Error("tire override not reflected in radius")
	}
	if s.PowerCorrection() != physics.PowerCorrection(1609, physics.NaturallyAspirated) {
		t.Error("induction override not used for correction")
	}
	if car.Transmission.GearRatios[2] != 2.11 {
		t.Error("resolve must not mutate the spec")
	}
}

func TestMerge(t *testing.T) {
	var base Modifications
	base.TorqueMultiplier = Some(1.1)
	base.SetGearRatio(0, 4.0)

	var top Modifications
	top.AltitudeM = Some(1609.0)
	top.SetGearRatio(1, 3.0)

	m := base.Merge(top)
	if m.TorqueMultiplier.Or(0) != 1.1 || m.AltitudeM.Or(0) != 1609 {
		t.Errorf("merge lost a field: %+v", m)
	}
	if m.GearRatio(0).Or(0) != 4.0 || m.GearRatio(1).Or(0) != 3.0 {
		t.Errorf("merge lost gear overrides: %+v", m.GearRatios)
	}
	if len(base.GearRatios) != 1 {
		t.Error("merge must not mutate the receiver")
	}
}

func TestOptCodec(t *testing.T) {
	var mods Modifications
	mods.AltitudeM = Some(0.0)
	mods.SetGearRatio(1, 3.0)

	data, err := json.Marshal(mods)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Modifications
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.AltitudeM.IsSet() {
		t.Error("explicit zero override must survive a round trip")
	}
	if back.TorqueMultiplier.IsSet() {
		t.Error("unset field came back set")
	}
	if back.GearRatio(0).IsSet() || back.GearRatio(1).Or(0) != 3.0 {
		t.Errorf("unexpected gear overrides %+v", back.GearRatios)
	}

	var fromYAML Modifications
	src := "torque_multiplier: 1.15\ntraction_mu: 1.1\ninduction: turbo\n"
	if err := yaml.Unmarshal([]byte(src), &fromYAML); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if fromYAML.TorqueMultiplier.Or(0) != 1.15 || fromYAML.Induction.Or("") != physics.Turbocharged {
		t.Errorf("unexpected yaml mods %+v", fromYAML)
	}
	if fromYAML.AltitudeM.IsSet() {
		t.Error("absent yaml key should stay unset")
	}
}

func TestValidateSpec(t *testing.T) {
	if err := testCar().Validate(); err != nil {
		t.Fatalf("valid car rejected: %v", err)
	}

	bad := testCar()
	bad.Engine.RedlineRPM = 500
	bad.Transmission.GearRatios = nil
	bad.CurbWeightKg = 0

	err := bad.Validate()
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Problems) != 3 {
		t.Errorf("expected 3 problems, got %v", err)
	}
}

func TestValidateGearOrder(t *testing.T) {
	tests := []struct {
		name    string
		gear    int
		ratio   float64
		wantErr bool
	}{
		{"third above second", 2, 3.5, true},
		{"third equals second", 2, 3.14, true},
		{"fourth above third", 3, 2.2, true},
		{"tighter third", 2, 2.3, false},
		{"shorter first", 0, 5.0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mods Modifications
			mods.SetGearRatio(tt.gear, tt.ratio)
			err := mods.Validate(testCar())
			if tt.wantErr && !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}

	car := testCar()
	car.Transmission.GearRatios = []float64{3.0, 3.5, 1.0}
	if err := car.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid for ascending stock ratios, got %v", err)
	}
}

func TestValidateModifications(t *testing.T) {
	car := testCar()

	var mods Modifications
	mods.TorqueMultiplier = Some(0.0)
	mods.SetGearRatio(8, 1.0)
	mods.Induction = Some(physics.Induction("steam"))

	err := mods.Validate(car)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Problems) != 3 {
		t.Errorf("expected 3 problems, got %d: %v", len(verr.Problems), verr.Problems)
	}

	if err := Stock().Validate(car); err != nil {
		t.Errorf("stock mods rejected: %v", err)
	}
}
