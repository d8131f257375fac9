// Package storage keeps a catalog of completed runs, either as directories on
// disk or in Redis.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/sirsim/internal/export"
	"github.com/san-kum/sirsim/internal/sim"
	"github.com/san-kum/sirsim/internal/uncertain"
)

// ErrNotFound is returned when a run id is not in the catalog.
var ErrNotFound = errors.New("storage: run not found")

type Store interface {
	Save(ctx context.Context, run Run) (string, error)
	Load(ctx context.Context, id string) (*RunMetadata, error)
	LoadSeries(ctx context.Context, id string) (*export.Series, error)
	List(ctx context.Context) ([]RunMetadata, error)
	Close() error
}

type FinalState struct {
	S uncertain.Summary `json:"s"`
	I uncertain.Summary `json:"i"`
	R uncertain.Summary `json:"r"`
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Model       string             `json:"model"`
	Integrator  string             `json:"integrator"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        uint64             `json:"seed"`
	Samples     int                `json:"samples"`
	InitialTime float64            `json:"initial_time"`
	FinalTime   float64            `json:"final_time"`
	StepSize    float64            `json:"step_size"`
	Steps       int                `json:"steps"`
	Final       FinalState         `json:"final"`
	Metrics     map[string]float64 `json:"metrics"`
}

type runMetadataAlias RunMetadata

type runMetadataJSON struct {
	runMetadataAlias
	Metrics map[string]uncertain.Float `json:"metrics"`
}

// MarshalJSON keeps metrics of a diverged run, which may be NaN or infinite.
func (m RunMetadata) MarshalJSON() ([]byte, error) {
	aux := runMetadataJSON{runMetadataAlias: runMetadataAlias(m)}
	if m.Metrics != nil {
		aux.Metrics = make(map[string]uncertain.Float, len(m.Metrics))
		for k, v := range m.Metrics {
			aux.Metrics[k] = uncertain.Float(v)
		}
	}
	return json.Marshal(aux)
}

func (m *RunMetadata) UnmarshalJSON(b []byte) error {
	var aux runMetadataJSON
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*m = RunMetadata(aux.runMetadataAlias)
	m.Metrics = nil
	if aux.Metrics != nil {
		m.Metrics = make(map[string]float64, len(aux.Metrics))
		for k, v := range aux.Metrics {
			m.Metrics[k] = float64(v)
		}
	}
	return nil
}

// Run is what gets saved: the metadata plus the reduced trajectory.
type Run struct {
	Metadata RunMetadata
	Series   *export.Series
}

// NewRun fills in the result-derived parts of meta and reduces the
// trajectory to a series at the given quantile levels. A blank meta.ID is
// replaced by one derived from the model name and timestamp.
func NewRun(meta RunMetadata, res *sim.Result, levels []float64) Run {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", meta.Model, meta.Timestamp.UnixNano())
	}

	tr := res.Trajectory
	_, x := tr.Final()
	meta.Steps = tr.Len()
	meta.Final = FinalState{
		S: x.S.Summarize(levels...),
		I: x.I.Summarize(levels...),
		R: x.R.Summarize(levels...),
	}
	meta.Metrics = res.Metrics

	return Run{Metadata: meta, Series: export.NewSeries(tr, levels)}
}

func validateID(id string) error {
	if id == "" {
		return errors.New("storage: run id required")
	}
	for _, c := range id {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || c == '-' || c == '_') {
			return fmt.Errorf("storage: invalid run id %q: only alphanumeric, hyphens, and underscores allowed", id)
		}
	}
	return nil
}
