package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/sirsim/internal/integrators"
	"github.com/san-kum/sirsim/internal/metrics"
	"github.com/san-kum/sirsim/internal/models"
	"github.com/san-kum/sirsim/internal/sim"
)

type Registry struct {
	models      map[string]func() sim.Model
	integrators map[string]func() sim.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]func() sim.Model),
		integrators: make(map[string]func() sim.Integrator),
	}

	r.models["vital"] = func() sim.Model { return models.NewVitalDynamics() }
	r.models["closed"] = func() sim.Model { return models.NewClosed() }

	r.integrators["euler"] = func() sim.Integrator { return integrators.NewEuler() }

	return r
}

func (r *Registry) GetModel(name string) (sim.Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown model: %s (available: %v)", sim.ErrConfiguration, name, r.ListModels())
	}
	return fn(), nil
}

func (r *Registry) GetIntegrator(name string) (sim.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown integrator: %s", sim.ErrConfiguration, name)
	}
	return fn(), nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns fresh instances of the standard run metrics. The
// domain monitor is returned separately so callers can log its warning.
func (r *Registry) DefaultMetrics() ([]sim.Metric, *metrics.Domain) {
	peak := metrics.NewPeakInfected()
	domain := metrics.NewDomain()
	return []sim.Metric{
		metrics.NewMassDrift(),
		peak,
		metrics.NewPeakTime(peak),
		domain,
	}, domain
}
