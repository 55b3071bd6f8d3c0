// Package oto plays the rendered signal through ebitengine/oto. Oto pulls
// samples from an io.Reader on its own goroutine; the reader renders
// directly into the bytes it's asked for.
//
// Oto supports a single context per process, so all backends share it and
// must agree on the format.
package oto

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/pipelined/render/backend"
	"github.com/pipelined/render/signal"
)

const (
	name          = "oto"
	sampleSize    = 4
	defaultBuffer = 40 * time.Millisecond
)

// ErrFormatConflict is returned when the process-wide oto context was
// created with another format.
var ErrFormatConflict = errors.New("oto context exists with another format")

var shared struct {
	sync.Mutex
	ctx    *oto.Context
	format backend.Format
}

// sharedContext returns the shared oto context, creating it on first use.
func sharedContext(f backend.Format, bufferSize time.Duration) (*oto.Context, error) {
	shared.Lock()
	defer shared.Unlock()
	if shared.ctx != nil {
		if shared.format != f {
			return nil, fmt.Errorf("%w: %v", ErrFormatConflict, shared.format)
		}
		return shared.ctx, nil
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   f.SampleRate,
		ChannelCount: f.NumChannels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferSize,
	})
	if err != nil {
		return nil, err
	}
	<-ready
	shared.ctx, shared.format = ctx, f
	return ctx, nil
}

// Backend is an oto player.
type Backend struct {
	format     backend.Format
	bufferSize time.Duration
	ctx        *oto.Context
	player     *oto.Player
	stream     *stream
}

// Option provides a way to set parameters to oto backend.
type Option func(*Backend) error

// WithFormat sets the device format. Default is 48000 Hz stereo.
func WithFormat(f backend.Format) Option {
	return func(b *Backend) error {
		if err := f.Validate(); err != nil {
			return err
		}
		b.format = f
		return nil
	}
}

// WithBufferSize sets the oto buffer duration.
func WithBufferSize(d time.Duration) Option {
	return func(b *Backend) error {
		if d <= 0 {
			return fmt.Errorf("oto: invalid buffer size %v", d)
		}
		b.bufferSize = d
		return nil
	}
}

// New returns an oto backend.
func New(options ...Option) (*Backend, error) {
	b := &Backend{
		format:     backend.Format{SampleRate: 48000, NumChannels: 2},
		bufferSize: defaultBuffer,
	}
	for _, option := range options {
		if err := option(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Open creates or reuses the oto context.
func (b *Backend) Open() (backend.Format, error) {
	ctx, err := sharedContext(b.format, b.bufferSize)
	if err != nil {
		return backend.Format{}, backend.Wrap(name, "new context", err)
	}
	b.ctx = ctx
	return b.format, nil
}

// Start creates a player and starts playback.
func (b *Backend) Start(r backend.Renderer, framesPerBuffer int) error {
	if b.ctx == nil {
		return backend.Wrap(name, "start", errors.New("backend is not open"))
	}
	if b.player != nil {
		return backend.Wrap(name, "start", errors.New("already started"))
	}
	b.stream = newStream(r, b.format.NumChannels)
	b.player = b.ctx.NewPlayer(b.stream)
	b.player.SetBufferSize(framesPerBuffer * b.format.NumChannels * sampleSize)
	b.player.Play()
	return nil
}

// Stop pauses the player and waits for the in-flight read.
func (b *Backend) Stop() error {
	if b.player == nil {
		return nil
	}
	b.stream.gate.Close()
	b.player.Pause()
	return nil
}

// Close closes the player. The shared context stays alive.
func (b *Backend) Close() error {
	if b.player == nil {
		return nil
	}
	err := b.player.Close()
	b.player = nil
	return backend.Wrap(name, "close player", err)
}

// Err returns the first render error.
func (b *Backend) Err() error {
	if b.stream == nil {
		return nil
	}
	return b.stream.fault.Load()
}

// stream is the io.Reader consumed by the oto player.
type stream struct {
	renderer  backend.Renderer
	frameSize int
	gate      backend.Gate
	fault     backend.Fault
}

func newStream(r backend.Renderer, numChannels int) *stream {
	return &stream{
		renderer:  r,
		frameSize: numChannels * sampleSize,
	}
}

// Read renders whole frames into p. Trailing bytes that don't form a frame
// are left for the next call. It returns silence after the gate is closed
// or a render error happened.
func (s *stream) Read(p []byte) (int, error) {
	n := len(p) / s.frameSize * s.frameSize
	if n == 0 {
		return 0, nil
	}
	out := signal.Floats(p[:n])
	if !s.gate.Enter() {
		signal.Zero(out)
		return n, nil
	}
	s.fault.Render(s.renderer, out)
	s.gate.Leave()
	return n, nil
}
