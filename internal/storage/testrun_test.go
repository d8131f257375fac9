package storage

import (
	"testing"
	"time"

	"github.com/san-kum/sirsim/internal/integrators"
	"github.com/san-kum/sirsim/internal/models"
	"github.com/san-kum/sirsim/internal/sim"
	"github.com/san-kum/sirsim/internal/uncertain"
)

func testRun(t *testing.T, id string, ts time.Time) Run {
	t.Helper()
	s := sim.New(models.NewClosed(), integrators.NewEuler())
	p := sim.Params{
		Beta:  uncertain.FromSamples([]float64{0.28, 0.30, 0.32}),
		Gamma: uncertain.Point(0.20),
		Birth: uncertain.Point(0),
		Death: uncertain.Point(0),
	}
	x0 := sim.State{S: uncertain.Point(0.75), I: uncertain.Point(0.15), R: uncertain.Point(0.10)}
	cfg := sim.Config{InitialTime: 0, FinalTime: 5, StepSize: 0.5}
	res, err := s.Run(x0, p, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	return NewRun(RunMetadata{
		ID:          id,
		Model:       "closed",
		Integrator:  "euler",
		Timestamp:   ts,
		Seed:        7,
		Samples:     3,
		InitialTime: cfg.InitialTime,
		FinalTime:   cfg.FinalTime,
		StepSize:    cfg.StepSize,
	}, res, []float64{0.05, 0.95})
}
