package particle

import (
	"errors"
	"fmt"
)

// Domain errors for the particle field.
var (
	// ErrInvalidConfig indicates a configuration value that can never
	// produce a valid field (non-positive counts or radii, bad ratios).
	ErrInvalidConfig = errors.New("particle: invalid configuration")

	// ErrSurfaceUnavailable indicates the drawing target could not be
	// acquired when the frame loop started.
	ErrSurfaceUnavailable = errors.New("particle: drawing surface unavailable")
)

// ConfigError wraps an error with the offending field.
type ConfigError struct {
	Field   string
	Value   float64
	Wrapped error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s = %g", e.Wrapped.Error(), e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}

func invalid(field string, value float64) error {
	return &ConfigError{Field: field, Value: value, Wrapped: ErrInvalidConfig}
}
