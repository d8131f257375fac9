package experiment

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/sirsim/internal/config"
	"github.com/san-kum/sirsim/internal/sim"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestClosedPreset(t *testing.T) {
	exp, err := New(config.GetPreset("closed"), NewRegistry(), quiet())
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	res, err := exp.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	tr := res.Trajectory
	if tr.Len() != 61 {
		t.Fatalf("expected 61 entries, got %d", tr.Len())
	}

	_, x := tr.At(1)
	want := [3]float64{0.733125, 0.151875, 0.115}
	for i, v := range x.Means() {
		if math.Abs(v-want[i]) > 1e-5 {
			t.Errorf("entry 1 component %d: got %.5f, want %.5f", i, v, want[i])
		}
	}

	for _, name := range []string{"mass_drift", "peak_infected", "peak_time", "domain_violations"} {
		if _, ok := res.Metrics[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
	if res.Metrics["mass_drift"] > 1e-12 {
		t.Errorf("closed point run should conserve mass, drift %v", res.Metrics["mass_drift"])
	}
	if exp.Samples() != 1 {
		t.Errorf("point run should report 1 sample, got %d", exp.Samples())
	}
	if exp.ModelName() != "closed" {
		t.Errorf("unexpected model %s", exp.ModelName())
	}
}

func TestReferenceRunIsUncertain(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Samples = 500

	exp, err := New(cfg, NewRegistry(), quiet())
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if exp.Params().Beta.Len() != 500 || exp.InitialState().S.Len() != 500 {
		t.Fatal("expected sampled inputs")
	}
	if exp.Samples() != 500 {
		t.Errorf("expected 500 samples, got %d", exp.Samples())
	}
	if !exp.Params().Birth.IsPoint() {
		t.Error("point birth rate should stay a point")
	}

	res, err := exp.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	_, final := res.Trajectory.Final()
	if final.I.StdDev() <= 0 {
		t.Error("final infected fraction should carry uncertainty")
	}
	if got := final.S.Mean(); got < 0 || got > 1 {
		t.Errorf("final susceptible mean out of range: %v", got)
	}
}

func TestSeedReproducesRun(t *testing.T) {
	run := func() []float64 {
		cfg := config.DefaultConfig()
		cfg.Samples = 64
		cfg.Seed = 99
		exp, err := New(cfg, NewRegistry(), quiet())
		if err != nil {
			t.Fatal(err)
		}
		res, err := exp.Run()
		if err != nil {
			t.Fatal(err)
		}
		_, final := res.Trajectory.Final()
		return final.R.Samples()
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs between runs with the same seed", i)
		}
	}
}

func TestRejectsBadConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero step", func(c *config.Config) { c.Time.Step = 0 }},
		{"final before initial", func(c *config.Config) { c.Time.Initial, c.Time.Final = 5, 1 }},
		{"unknown model", func(c *config.Config) { c.Model = "seir" }},
		{"unknown integrator", func(c *config.Config) { c.Integrator = "rk4" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			if _, err := New(cfg, NewRegistry(), quiet()); !errors.Is(err, sim.ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestDomainWarningIsLogged(t *testing.T) {
	cfg := config.GetPreset("closed")
	cfg.Time.Step = 4
	cfg.Parameters.InfectionRate.Value = 2

	var buf bytes.Buffer
	exp, err := New(cfg, NewRegistry(), slog.New(slog.NewTextHandler(&buf, nil)))
	if err != nil {
		t.Fatal(err)
	}
	res, err := exp.Run()
	if err != nil {
		t.Fatalf("run should not fail on domain violations: %v", err)
	}
	if res.Metrics["domain_violations"] == 0 {
		t.Fatal("expected domain violations for a large step")
	}
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("expected a warning, got %q", buf.String())
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if got := r.ListModels(); len(got) != 2 || got[0] != "closed" || got[1] != "vital" {
		t.Errorf("unexpected models %v", got)
	}
	if _, err := r.GetModel("vital"); err != nil {
		t.Error(err)
	}
	if _, err := r.GetIntegrator("euler"); err != nil {
		t.Error(err)
	}
}

type stepCounter struct{ last int }

func (c *stepCounter) OnStep(k int, _ float64, _ sim.State) { c.last = k }

func TestAddObserver(t *testing.T) {
	exp, err := New(config.GetPreset("closed"), NewRegistry(), quiet())
	if err != nil {
		t.Fatal(err)
	}
	c := &stepCounter{}
	exp.AddObserver(c)
	if _, err := exp.Run(); err != nil {
		t.Fatal(err)
	}
	if c.last != 60 {
		t.Errorf("expected last step 60, got %d", c.last)
	}
}
