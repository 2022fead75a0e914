package sim_test

import (
	"context"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dragsim/internal/curve"
	"github.com/san-kum/dragsim/internal/physics"
	"github.com/san-kum/dragsim/internal/sim"
	"github.com/san-kum/dragsim/internal/vehicle"
)

func sedan(induction physics.Induction) vehicle.CarSpec {
	return vehicle.CarSpec{
		ID:    "sedan",
		Make:  "Test",
		Model: "Sedan",
		Year:  2020,
		Engine: vehicle.Engine{
			TorqueCurve: curve.Of([2]float64{1000, 499}, [2]float64{6500, 200}),
			IdleRPM:     800,
			RedlineRPM:  7000,
			Induction:   induction,
		},
		Transmission: vehicle.Transmission{
			GearRatios:     []float64{4.71, 3.14, 2.11, 1.67, 1.29, 1.0},
			FinalDrive:     3.15,
			ShiftTimeMs:    150,
			DrivetrainLoss: 0.15,
			Type:           vehicle.Automatic,
		},
		Tire:         vehicle.Tire{WidthMM: 255, AspectRatio: 35, RimIn: 19},
		Aero:         vehicle.Aero{Cd: 0.29, FrontalAreaM2: 2.2},
		CurbWeightKg: 1565,
		Drivetrain:   vehicle.RWD,
	}
}

func denver() vehicle.Modifications {
	return vehicle.Modifications{AltitudeM: vehicle.Some(1609.0)}
}

func zeroTo60(res *sim.Result) float64 {
	ExpectWithOffset(1, res.Performance.ZeroTo60MphS).NotTo(BeNil())
	return *res.Performance.ZeroTo60MphS
}

var _ = Describe("Simulate", func() {
	var spec vehicle.CarSpec

	BeforeEach(func() {
		spec = sedan(physics.Turbocharged)
	})

	Context("with stock modifications", func() {
		var res *sim.Result

		BeforeEach(func() {
			res = sim.Simulate(spec, vehicle.Stock())
		})

		It("builds one curve per gear", func() {
			Expect(res.GearCurves).To(HaveLen(6))
			for i, c := range res.GearCurves {
				Expect(c.Gear).To(Equal(i + 1))
			}
		})

		It("starts the trace at rest", func() {
			Expect(res.Trace).NotTo(BeEmpty())
			first := res.Trace[0]
			Expect(first.TimeS).To(BeZero())
			Expect(first.SpeedMs).To(BeZero())
			Expect(first.DistanceM).To(BeZero())
		})

		It("finds five shift points", func() {
			Expect(res.ShiftPoints).To(HaveLen(5))
		})

		It("reports a positive top speed", func() {
			Expect(res.Performance.TopSpeedMs).NotTo(BeNil())
			Expect(*res.Performance.TopSpeedMs).To(BeNumerically(">", 0))
		})

		It("latches every launch metric", func() {
			p := res.Performance
			Expect(p.ZeroTo60MphS).NotTo(BeNil())
			Expect(p.ZeroTo100KmhS).NotTo(BeNil())
			Expect(p.QuarterMileS).NotTo(BeNil())
			Expect(*p.ZeroTo100KmhS).To(BeNumerically(">", *p.ZeroTo60MphS))
			Expect(*p.QuarterMileSpeedMs).To(BeNumerically(">", physics.HundredKphMs))
		})

		It("is deterministic", func() {
			again := sim.Simulate(spec, vehicle.Stock())
			Expect(again.Performance.Map()).To(Equal(res.Performance.Map()))
			Expect(again.Trace).To(HaveLen(len(res.Trace)))
		})
	})

	Context("at altitude", func() {
		It("is slower in Denver", func() {
			sea := zeroTo60(sim.Simulate(spec, vehicle.Stock()))
			high := zeroTo60(sim.Simulate(spec, denver()))
			Expect(sea).To(BeNumerically("<", high))
		})

		It("penalizes a turbo less than a naturally aspirated engine", func() {
			na := sedan(physics.NaturallyAspirated)

			turboPenalty := zeroTo60(sim.Simulate(spec, denver())) - zeroTo60(sim.Simulate(spec, vehicle.Stock()))
			naPenalty := zeroTo60(sim.Simulate(na, denver())) - zeroTo60(sim.Simulate(na, vehicle.Stock()))

			Expect(turboPenalty).To(BeNumerically(">", 0))
			Expect(turboPenalty).To(BeNumerically("<", naPenalty))
		})
	})

	Context("with a traction limit", func() {
		It("caps every gear at mu m g", func() {
			mods := vehicle.Modifications{TractionMu: vehicle.Some(0.9)}
			res := sim.Simulate(spec, mods)

			limit := 0.9 * spec.CurbWeightKg * physics.Gravity
			for _, c := range res.GearCurves {
				Expect(c.PeakForce()).To(BeNumerically("<=", limit+1e-9))
			}
			Expect(zeroTo60(res)).To(BeNumerically(">=", zeroTo60(sim.Simulate(spec, vehicle.Stock()))))
		})
	})

	Context("when cancelled", func() {
		It("returns the context error", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := sim.SimulateContext(ctx, spec, vehicle.Stock(), sim.DefaultConfig())
			Expect(err).To(MatchError(context.Canceled))
		})
	})
})

var _ = Describe("Compare", func() {
	It("returns results in job order", func() {
		jobs := []sim.Job{
			{Label: "stock", Spec: sedan(physics.Turbocharged), Mods: vehicle.Stock()},
			{Label: "denver", Spec: sedan(physics.Turbocharged), Mods: denver()},
			{Label: "na", Spec: sedan(physics.NaturallyAspirated), Mods: vehicle.Stock()},
		}

		results, err := sim.Compare(context.Background(), jobs, sim.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))

		for i, job := range jobs {
			want := sim.Simulate(job.Spec, job.Mods)
			Expect(results[i].Performance.Map()).To(Equal(want.Performance.Map()), job.Label)
		}
	})

	It("is safe to call concurrently", func() {
		spec := sedan(physics.Turbocharged)
		want := sim.Simulate(spec, vehicle.Stock()).Performance.Map()

		var wg sync.WaitGroup
		got := make([]map[string]float64, 8)
		for i := range got {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				got[idx] = sim.Simulate(spec, vehicle.Stock()).Performance.Map()
			}(i)
		}
		wg.Wait()

		for _, g := range got {
			Expect(g).To(Equal(want))
		}
	})
})
