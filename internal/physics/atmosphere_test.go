package physics

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestAirDensitySeaLevel(t *testing.T) {
	if AirDensity(0) != SeaLevelDensity {
		t.Errorf("expected %f at sea level, got %f", SeaLevelDensity, AirDensity(0))
	}
}

func TestAltitudeMonotonic(t *testing.T) {
	inductions := []Induction{NaturallyAspirated, Turbocharged, Supercharged}

	for _, ind := range inductions {
		if PowerCorrection(0, ind) != 1 {
			t.Errorf("%s: expected 1.0 at sea level, got %f", ind, PowerCorrection(0, ind))
		}
	}

	prevRho := AirDensity(0)
	prev := map[Induction]float64{}
	for _, ind := range inductions {
		prev[ind] = 1
	}

	for h := 250.0; h <= 5000; h += 250 {
		rho := AirDensity(h)
		if rho >= prevRho {
			t.Fatalf("density not decreasing at %g m", h)
		}
		prevRho = rho

		for _, ind := range inductions {
			c := PowerCorrection(h, ind)
			if c >= prev[ind] {
				t.Fatalf("%s: correction not decreasing at %g m", ind, h)
			}
			prev[ind] = c
		}
	}
}

func TestForcedInductionLosesOneThird(t *testing.T) {
	for _, h := range []float64{300, 1609, 2500, 4200} {
		naLoss := 1 - PowerCorrection(h, NaturallyAspirated)
		turboLoss := 1 - PowerCorrection(h, Turbocharged)
		superLoss := 1 - PowerCorrection(h, Supercharged)

		if !scalar.EqualWithinAbs(turboLoss, naLoss/3, 1e-12) {
			t.Errorf("at %g m: turbo loss %f, expected %f", h, turboLoss, naLoss/3)
		}
		if !scalar.EqualWithinAbs(superLoss, turboLoss, 1e-12) {
			t.Errorf("at %g m: supercharged loss differs from turbo", h)
		}
	}
}

func TestInductionValid(t *testing.T) {
	if !Turbocharged.Valid() || Induction("diesel").Valid() {
		t.Error("unexpected induction validity")
	}
	if NaturallyAspirated.Forced() {
		t.Error("na is not forced induction")
	}
}
