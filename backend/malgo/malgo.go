// Package malgo plays the rendered signal through miniaudio. The device is
// opened with its native sample rate and channel count.
package malgo

import (
	"errors"

	"github.com/gen2brain/malgo"

	"github.com/pipelined/render/backend"
	"github.com/pipelined/render/log"
	"github.com/pipelined/render/signal"
)

const name = "malgo"

// Backend is a miniaudio playback device.
type Backend struct {
	log      log.Logger
	ctx      *malgo.AllocatedContext
	device   *malgo.Device
	format   backend.Format
	renderer backend.Renderer
	gate     backend.Gate
	fault    backend.Fault
}

// Option provides a way to set parameters to malgo backend.
type Option func(*Backend) error

// WithLogger receives miniaudio log messages.
func WithLogger(l log.Logger) Option {
	return func(b *Backend) error {
		if l == nil {
			return errors.New("malgo: nil logger")
		}
		b.log = l
		return nil
	}
}

// New returns a malgo backend.
func New(options ...Option) (*Backend, error) {
	b := &Backend{log: log.Discard()}
	for _, option := range options {
		if err := option(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Open initializes the miniaudio context and the playback device.
func (b *Backend) Open() (backend.Format, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		b.log.Debug(message)
	})
	if err != nil {
		return backend.Format{}, backend.Wrap(name, "init context", err)
	}
	b.ctx = ctx

	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = malgo.FormatF32
	// zero means the device default
	cfg.Playback.Channels = 0
	cfg.SampleRate = 0
	device, err := malgo.InitDevice(ctx.Context, cfg, malgo.DeviceCallbacks{
		Data: b.data,
	})
	if err != nil {
		return backend.Format{}, backend.Wrap(name, "init device", err)
	}
	b.device = device

	f := backend.Format{
		SampleRate:  int(device.SampleRate()),
		NumChannels: int(device.PlaybackChannels()),
	}
	if err := f.Validate(); err != nil {
		return backend.Format{}, err
	}
	b.format = f
	return f, nil
}

func (b *Backend) data(output, _ []byte, frames uint32) {
	out := signal.Floats(output[:int(frames)*b.format.NumChannels*4])
	if !b.gate.Enter() {
		signal.Zero(out)
		return
	}
	b.fault.Render(b.renderer, out)
	b.gate.Leave()
}

// Start starts the device. miniaudio chooses the period size,
// framesPerBuffer is ignored.
func (b *Backend) Start(r backend.Renderer, _ int) error {
	if b.device == nil {
		return backend.Wrap(name, "start", errors.New("backend is not open"))
	}
	b.renderer = r
	b.gate.Open()
	return backend.Wrap(name, "start", b.device.Start())
}

// Stop stops the device and waits for the in-flight callback.
func (b *Backend) Stop() error {
	if b.device == nil {
		return nil
	}
	b.gate.Close()
	return backend.Wrap(name, "stop", b.device.Stop())
}

// Close releases the device and the context.
func (b *Backend) Close() error {
	if b.device != nil {
		b.device.Uninit()
		b.device = nil
	}
	if b.ctx == nil {
		return nil
	}
	err := b.ctx.Uninit()
	b.ctx.Free()
	b.ctx = nil
	return backend.Wrap(name, "uninit context", err)
}

// Err returns the first render error.
func (b *Backend) Err() error {
	return b.fault.Load()
}
