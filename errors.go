package render

import (
	"errors"
	"strings"

	"github.com/pipelined/render/internal/state"
)

var (
	// ErrInvalidConfig is returned when config invariants are violated.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrGeometryMismatch is returned when a backend delivers a buffer that
	// doesn't match the configured geometry. It's an integration error:
	// the buffer is left untouched and backends must stop rendering.
	ErrGeometryMismatch = errors.New("buffer geometry mismatch")
	// ErrClosed is returned when a closed pipeline is asked to render.
	ErrClosed = errors.New("pipeline is closed")
	// ErrInvalidState is returned if a lifecycle method cannot be executed
	// at this moment.
	ErrInvalidState = state.ErrInvalidState
)

// execErrors wraps errors that might occur when multiple resources
// are released.
type execErrors []error

func (e execErrors) Error() string {
	s := []string{}
	for _, se := range e {
		s = append(s, se.Error())
	}
	return strings.Join(s, ",")
}

// Unwrap allows errors.Is and errors.As to inspect every error.
func (e execErrors) Unwrap() []error {
	return e
}

// ret returns untyped nil if error is list is empty.
func (e execErrors) ret() error {
	if len(e) > 0 {
		return e
	}
	return nil
}
