package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is matched by every ConfigError through errors.Is.
	ErrConfig = errors.New("invalid simulation config")
	// ErrInvariant is matched by every InternalInvariantError through errors.Is.
	ErrInvariant = errors.New("simulation invariant violated")
)

// ConfigError reports an invalid SimulationConfig. It is returned before any
// simulation work starts.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrConfig, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

func configErrorf(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// InternalInvariantError signals an engine bug. A run that hits one is aborted
// and returns no partial result.
type InternalInvariantError struct {
	Op     string
	Detail string
}

func (e *InternalInvariantError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvariant, e.Op, e.Detail)
}

func (e *InternalInvariantError) Unwrap() error { return ErrInvariant }

func invariantf(op, format string, args ...any) *InternalInvariantError {
	return &InternalInvariantError{Op: op, Detail: fmt.Sprintf(format, args...)}
}
