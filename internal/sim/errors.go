package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration indicates a run configuration that was rejected before
	// any integration step.
	ErrConfiguration = errors.New("sim: invalid configuration")

	// ErrSinkUnavailable indicates the output destination could not be
	// opened or written.
	ErrSinkUnavailable = errors.New("sim: output sink unavailable")
)

// ConfigError describes which part of a Config was rejected.
type ConfigError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("sim: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}
