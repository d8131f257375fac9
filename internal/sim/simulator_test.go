package sim_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sirsim/internal/integrators"
	"github.com/san-kum/sirsim/internal/models"
	"github.com/san-kum/sirsim/internal/sim"
	"github.com/san-kum/sirsim/internal/uncertain"
)

type countingMetric struct {
	count int
	last  float64
}

func (c *countingMetric) Name() string { return "count" }
func (c *countingMetric) Observe(t float64, _ sim.State) {
	c.count++
	c.last = t
}
func (c *countingMetric) Value() float64 { return float64(c.count) }
func (c *countingMetric) Reset()         { c.count = 0 }

type recordingObserver struct{ steps []int }

func (r *recordingObserver) OnStep(k int, _ float64, _ sim.State) { r.steps = append(r.steps, k) }

var _ = Describe("Simulator", func() {
	var (
		closed *sim.Simulator
		x0     sim.State
		params sim.Params
	)

	BeforeEach(func() {
		closed = sim.New(models.NewClosed(), integrators.NewEuler())
		x0 = sim.State{S: uncertain.Point(0.75), I: uncertain.Point(0.15), R: uncertain.Point(0.10)}
		params = sim.Params{Beta: uncertain.Point(0.30), Gamma: uncertain.Point(0.20)}
	})

	Describe("the closed reference scenario", func() {
		var tr *sim.Trajectory

		BeforeEach(func() {
			res, err := closed.Run(x0, params, sim.Config{InitialTime: 0, FinalTime: 30, StepSize: 0.5})
			Expect(err).NotTo(HaveOccurred())
			tr = res.Trajectory
		})

		It("records 61 entries", func() {
			Expect(tr.Len()).To(Equal(61))
		})

		It("starts from the initial condition", func() {
			t, x := tr.At(0)
			Expect(t).To(Equal(0.0))
			Expect(x.Means()).To(Equal([3]float64{0.75, 0.15, 0.10}))
		})

		It("takes one Euler step to entry 1", func() {
			t, x := tr.At(1)
			Expect(t).To(BeNumerically("~", 0.5, 1e-12))
			m := x.Means()
			Expect(m[0]).To(BeNumerically("~", 0.733125, 1e-12))
			Expect(m[1]).To(BeNumerically("~", 0.151875, 1e-12))
			Expect(m[2]).To(BeNumerically("~", 0.115, 1e-12))
		})

		It("ends at the final time", func() {
			t, _ := tr.Final()
			Expect(t).To(BeNumerically("~", 30.0, 1e-9))
		})

		It("conserves the population up to rounding", func() {
			for k := 0; k < tr.Len()-1; k++ {
				before := tr.State(k).Total().Mean()
				after := tr.State(k + 1).Total().Mean()
				Expect(math.Abs(after - before)).To(BeNumerically("<=", 1e-12*0.5))
			}
		})

		It("has strictly increasing timestamps", func() {
			for k := 0; k < tr.Len()-1; k++ {
				Expect(tr.Time(k + 1)).To(BeNumerically(">", tr.Time(k)))
			}
		})
	})

	DescribeTable("trajectory length and time grid",
		func(cfg sim.Config, wantLen int) {
			res, err := closed.Run(x0, params, cfg)
			Expect(err).NotTo(HaveOccurred())

			tr := res.Trajectory
			Expect(tr.Len()).To(Equal(wantLen))
			Expect(tr.Time(0)).To(Equal(cfg.InitialTime))
			last := cfg.InitialTime + float64(wantLen-1)*cfg.StepSize
			Expect(tr.Time(tr.Len() - 1)).To(BeNumerically("~", last, 1e-9*math.Max(1, math.Abs(last))))
		},
		Entry("whole span", sim.Config{InitialTime: 0, FinalTime: 30, StepSize: 0.5}, 61),
		Entry("tenth steps", sim.Config{InitialTime: 0, FinalTime: 1, StepSize: 0.1}, 11),
		Entry("inexact quotient 0.3/0.1", sim.Config{InitialTime: 0, FinalTime: 0.3, StepSize: 0.1}, 4),
		Entry("non-integer span rounds up", sim.Config{InitialTime: 0, FinalTime: 1, StepSize: 0.3}, 5),
		Entry("single step", sim.Config{InitialTime: 2, FinalTime: 3, StepSize: 1}, 2),
		Entry("step larger than span", sim.Config{InitialTime: 0, FinalTime: 1, StepSize: 5}, 2),
		Entry("negative origin", sim.Config{InitialTime: -5, FinalTime: 5, StepSize: 0.25}, 41),
	)

	DescribeTable("rejects degenerate configurations",
		func(cfg sim.Config) {
			metric := &countingMetric{}
			closed.AddMetric(metric)

			res, err := closed.Run(x0, params, cfg)
			Expect(res).To(BeNil())
			Expect(errors.Is(err, sim.ErrConfiguration)).To(BeTrue())

			var cerr *sim.ConfigError
			Expect(errors.As(err, &cerr)).To(BeTrue())
			Expect(metric.count).To(BeZero())
		},
		Entry("zero step", sim.Config{InitialTime: 0, FinalTime: 30, StepSize: 0}),
		Entry("negative step", sim.Config{InitialTime: 0, FinalTime: 30, StepSize: -0.5}),
		Entry("NaN step", sim.Config{InitialTime: 0, FinalTime: 30, StepSize: math.NaN()}),
		Entry("final before initial", sim.Config{InitialTime: 10, FinalTime: 0, StepSize: 0.5}),
		Entry("empty span", sim.Config{InitialTime: 1, FinalTime: 1, StepSize: 0.5}),
		Entry("infinite final time", sim.Config{InitialTime: 0, FinalTime: math.Inf(1), StepSize: 0.5}),
	)

	It("is a pure function of state, parameters and step", func() {
		s := uncertain.NewSampler(256, 3)
		x := sim.State{
			S: s.MustSample(uncertain.Gaussian(0.75, 0.01)),
			I: s.MustSample(uncertain.Gaussian(0.15, 0.01)),
			R: s.MustSample(uncertain.Gaussian(0.10, 0.01)),
		}
		p := sim.Params{
			Beta:  s.MustSample(uncertain.Gamma(900, 0.000333)),
			Gamma: s.MustSample(uncertain.Gamma(400, 0.0005)),
		}

		first := closed.Step(x, p, 0.5)
		second := closed.Step(x, p, 0.5)
		Expect(first.S.Samples()).To(Equal(second.S.Samples()))
		Expect(first.I.Samples()).To(Equal(second.I.Samples()))
		Expect(first.R.Samples()).To(Equal(second.R.Samples()))
	})

	It("bounds the conservation error of uncertain closed runs", func() {
		s := uncertain.NewSampler(512, 11)
		x := sim.State{
			S: s.MustSample(uncertain.Gaussian(0.75, 0.01)),
			I: s.MustSample(uncertain.Gaussian(0.15, 0.01)),
			R: s.MustSample(uncertain.Gaussian(0.10, 0.01)),
		}
		p := sim.Params{
			Beta:  s.MustSample(uncertain.Gamma(900, 0.000333)),
			Gamma: s.MustSample(uncertain.Gamma(400, 0.0005)),
		}

		res, err := closed.Run(x, p, sim.Config{InitialTime: 0, FinalTime: 30, StepSize: 0.5})
		Expect(err).NotTo(HaveOccurred())

		tr := res.Trajectory
		initial := tr.State(0).Total().Samples()
		final := tr.State(tr.Len() - 1).Total().Samples()
		for i := range initial {
			Expect(final[i]).To(BeNumerically("~", initial[i], 1e-9))
		}
	})

	It("grows populations under vital dynamics with births above deaths", func() {
		vital := sim.New(models.NewVitalDynamics(), integrators.NewEuler())
		p := params
		p.Birth, p.Death = uncertain.Point(0.05), uncertain.Point(0.01)

		res, err := vital.Run(x0, p, sim.Config{InitialTime: 0, FinalTime: 10, StepSize: 0.1})
		Expect(err).NotTo(HaveOccurred())

		_, final := res.Trajectory.Final()
		Expect(final.Total().Mean()).To(BeNumerically(">", 1.0))
	})

	It("lets fractions leave [0, 1] for large steps without clamping", func() {
		p := sim.Params{Beta: uncertain.Point(5), Gamma: uncertain.Point(0.2)}
		res, err := closed.Run(x0, p, sim.Config{InitialTime: 0, FinalTime: 10, StepSize: 2})
		Expect(err).NotTo(HaveOccurred())

		negative := false
		for k := 0; k < res.Trajectory.Len(); k++ {
			if res.Trajectory.State(k).S.Mean() < 0 {
				negative = true
			}
		}
		Expect(negative).To(BeTrue())
	})

	It("feeds every entry to metrics and observers", func() {
		metric := &countingMetric{}
		obs := &recordingObserver{}
		closed.AddMetric(metric)
		closed.AddObserver(obs)

		res, err := closed.Run(x0, params, sim.Config{InitialTime: 0, FinalTime: 1, StepSize: 0.25})
		Expect(err).NotTo(HaveOccurred())

		Expect(metric.count).To(Equal(5))
		Expect(metric.last).To(Equal(1.0))
		Expect(res.Metrics).To(HaveKeyWithValue("count", 5.0))
		Expect(obs.steps).To(Equal([]int{0, 1, 2, 3, 4}))
	})

	It("does not share the returned timestamps", func() {
		res, err := closed.Run(x0, params, sim.Config{InitialTime: 0, FinalTime: 1, StepSize: 0.5})
		Expect(err).NotTo(HaveOccurred())

		times := res.Trajectory.Times()
		times[0] = 42
		Expect(res.Trajectory.Time(0)).To(Equal(0.0))
	})
})
