package fire

import (
	"errors"
	"fmt"
)

// Configuration errors. They are always returned wrapped in a *ConfigError so
// callers can test for the class with errors.As and for the kind with
// errors.Is.
var (
	ErrUnknownMaterial    = errors.New("unknown material")
	ErrInvalidMaterial    = errors.New("invalid material")
	ErrDimensionMismatch  = errors.New("dimension mismatch")
	ErrInvalidDimensions  = errors.New("invalid dimensions")
	ErrInvalidTimestep    = errors.New("invalid timestep")
	ErrOutOfBounds        = errors.New("coordinates out of bounds")
	ErrUnknownField       = errors.New("unknown field")
	ErrInvalidConstants   = errors.New("invalid constants")
	ErrUnsupportedVersion = errors.New("unsupported export")
)

// ConfigError reports a call rejected at the API boundary. The grid is left
// untouched whenever one is returned.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("fire: %s: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IsConfigError reports whether err is, or wraps, a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

func configErr(op string, kind error, format string, args ...any) error {
	if format == "" {
		return &ConfigError{Op: op, Err: kind}
	}
	return &ConfigError{Op: op, Err: fmt.Errorf("%w: "+format, append([]any{kind}, args...)...)}
}
