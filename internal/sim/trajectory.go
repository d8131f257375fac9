package sim

// Trajectory is the ordered, read-only record of a run: entry 0 is the
// initial condition and entry Len()-1 the terminal state.
type Trajectory struct {
	times  []float64
	states []State
}

func newTrajectory(n int) *Trajectory {
	return &Trajectory{
		times:  make([]float64, 0, n),
		states: make([]State, 0, n),
	}
}

func (tr *Trajectory) append(t float64, x State) {
	tr.times = append(tr.times, t)
	tr.states = append(tr.states, x)
}

func (tr *Trajectory) Len() int { return len(tr.times) }

func (tr *Trajectory) Time(k int) float64 { return tr.times[k] }

func (tr *Trajectory) State(k int) State { return tr.states[k] }

func (tr *Trajectory) At(k int) (float64, State) { return tr.times[k], tr.states[k] }

// Final returns the terminal entry.
func (tr *Trajectory) Final() (float64, State) {
	last := len(tr.times) - 1
	return tr.times[last], tr.states[last]
}

// Times returns a copy of the timestamps.
func (tr *Trajectory) Times() []float64 {
	c := make([]float64, len(tr.times))
	copy(c, tr.times)
	return c
}

// Means returns the per-entry compartment means, the representation used by
// exporters and plots.
func (tr *Trajectory) Means() [][3]float64 {
	out := make([][3]float64, len(tr.states))
	for i, x := range tr.states {
		out[i] = x.Means()
	}
	return out
}

// Result is the output of Simulator.Run.
type Result struct {
	Trajectory *Trajectory
	Metrics    map[string]float64
}
