// Package portaudio plays the rendered signal through the default
// PortAudio output device.
package portaudio

import (
	"errors"

	"github.com/gordonklaus/portaudio"

	"github.com/pipelined/render/backend"
)

const name = "portaudio"

// Backend is a PortAudio callback stream on the default output device.
type Backend struct {
	format      backend.Format
	initialized bool
	stream      *portaudio.Stream
	gate        backend.Gate
	fault       backend.Fault
	renderer    backend.Renderer
}

// Option provides a way to set parameters to portaudio backend.
type Option func(*Backend) error

// WithFormat overrides the default device format. PortAudio fails to open
// the stream if the device doesn't support it.
func WithFormat(f backend.Format) Option {
	return func(b *Backend) error {
		if err := f.Validate(); err != nil {
			return err
		}
		b.format = f
		return nil
	}
}

// New returns a portaudio backend.
func New(options ...Option) (*Backend, error) {
	b := &Backend{}
	for _, option := range options {
		if err := option(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Open initializes PortAudio and reads the default output device format.
// Devices with more than two channels are used in stereo.
func (b *Backend) Open() (backend.Format, error) {
	if err := portaudio.Initialize(); err != nil {
		return backend.Format{}, backend.Wrap(name, "initialize", err)
	}
	b.initialized = true
	if b.format != (backend.Format{}) {
		return b.format, nil
	}
	device, err := portaudio.DefaultOutputDevice()
	if err != nil {
		return backend.Format{}, backend.Wrap(name, "default device", err)
	}
	f := backend.Format{
		SampleRate:  int(device.DefaultSampleRate),
		NumChannels: min(device.MaxOutputChannels, 2),
	}
	if err := f.Validate(); err != nil {
		return backend.Format{}, err
	}
	b.format = f
	return f, nil
}

// Start opens and starts the stream. framesPerBuffer is passed to
// PortAudio as the preferred buffer size.
func (b *Backend) Start(r backend.Renderer, framesPerBuffer int) error {
	if !b.initialized {
		return backend.Wrap(name, "start", errors.New("backend is not open"))
	}
	b.renderer = r
	b.gate.Open()
	stream, err := portaudio.OpenDefaultStream(0, b.format.NumChannels, float64(b.format.SampleRate), framesPerBuffer, b.callback)
	if err != nil {
		return backend.Wrap(name, "open stream", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return backend.Wrap(name, "start stream", err)
	}
	b.stream = stream
	return nil
}

func (b *Backend) callback(out []float32) {
	if !b.gate.Enter() {
		for i := range out {
			out[i] = 0
		}
		return
	}
	b.fault.Render(b.renderer, out)
	b.gate.Leave()
}

// Stop stops the stream and waits for the last callback.
func (b *Backend) Stop() error {
	if b.stream == nil {
		return nil
	}
	b.gate.Close()
	err := b.stream.Stop()
	if cerr := b.stream.Close(); err == nil {
		err = cerr
	}
	b.stream = nil
	return backend.Wrap(name, "stop", err)
}

// Close terminates PortAudio.
func (b *Backend) Close() error {
	if !b.initialized {
		return nil
	}
	b.initialized = false
	return backend.Wrap(name, "terminate", portaudio.Terminate())
}

// Err returns the first render error.
func (b *Backend) Err() error {
	return b.fault.Load()
}
