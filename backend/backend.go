// Package backend defines the contract between a render pipeline and the
// platform drivers that own the hardware stream.
//
// A backend negotiates the device format, then calls Renderer.Render once
// per hardware buffer on whatever goroutine or OS thread the platform
// mandates. Render never blocks and never allocates. Stop returns only
// after the last Render call has completed, so the caller can release the
// renderer's buffers right after it.
package backend

import (
	"errors"
	"fmt"
)

// ErrDeviceFormatUnavailable is returned by Open when the device sample
// rate or channel count cannot be determined.
var ErrDeviceFormatUnavailable = errors.New("device format unavailable")

// Format is the negotiated device format.
type Format struct {
	SampleRate  int
	NumChannels int
}

// Validate returns ErrDeviceFormatUnavailable if format is not usable.
func (f Format) Validate() error {
	if f.SampleRate <= 0 || f.NumChannels <= 0 {
		return fmt.Errorf("%w: %d Hz, %d channels", ErrDeviceFormatUnavailable, f.SampleRate, f.NumChannels)
	}
	return nil
}

func (f Format) String() string {
	return fmt.Sprintf("%d Hz, %d channels", f.SampleRate, f.NumChannels)
}

// Renderer produces interleaved float32 frames with the device channel
// count. len(out) defines the number of samples to produce.
type Renderer interface {
	Render(out []float32) error
}

// BlockRenderer is implemented by renderers that can fill a buffer of
// exactly one work buffer. Double-buffered backends use it.
type BlockRenderer interface {
	Renderer
	RenderBlock(out []float32) error
}

// Backend is a platform audio driver.
type Backend interface {
	// Open negotiates the device format.
	Open() (Format, error)
	// Start begins calling r. framesPerBuffer is the renderer's preferred
	// size, backends may deliver any other size.
	Start(r Renderer, framesPerBuffer int) error
	// Stop ends calling r and waits for the in-flight call to complete.
	Stop() error
	// Close releases platform objects. It's safe after a failed Open.
	Close() error
}

// Error is returned when a platform call fails.
type Error struct {
	Backend string
	Op      string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Backend, e.Op, e.Err)
}

// Unwrap returns the platform error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap returns nil if err is nil, or err wrapped into Error otherwise.
func Wrap(backend, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Backend: backend, Op: op, Err: err}
}
