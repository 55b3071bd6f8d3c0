// Package null provides a software device. A goroutine pulls buffers from
// the renderer at the device rate, or as fast as possible when realtime
// mode is off. It's used where no audio hardware is available.
package null

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pipelined/render/backend"
	"github.com/pipelined/render/signal"
)

const name = "null"

// ErrNotBlockRenderer is returned when double buffering is requested for a
// renderer that cannot render exact blocks.
var ErrNotBlockRenderer = errors.New("renderer doesn't support block rendering")

// Backend is a timer driven software device.
type Backend struct {
	format   backend.Format
	frames   int
	double   bool
	realtime bool
	limit    int
	sink     func([]float32)

	m     sync.Mutex
	fault backend.Fault
	stop  chan struct{}
	done  chan struct{}
}

// Option provides a way to set parameters to null backend.
type Option func(*Backend) error

// WithFormat sets the device format. Default is 44100 Hz stereo.
func WithFormat(f backend.Format) Option {
	return func(b *Backend) error {
		if err := f.Validate(); err != nil {
			return err
		}
		b.format = f
		return nil
	}
}

// WithFrames sets the number of frames delivered on every call. By
// default the renderer's preferred size is used.
func WithFrames(n int) Option {
	return func(b *Backend) error {
		if n <= 0 {
			return fmt.Errorf("null: invalid frames per call %d", n)
		}
		b.frames = n
		return nil
	}
}

// WithDoubleBuffer alternates two buffers of exactly the renderer's
// preferred size and fills them with RenderBlock.
func WithDoubleBuffer() Option {
	return func(b *Backend) error {
		b.double = true
		return nil
	}
}

// WithSink sets a function that receives every rendered buffer. It's
// called on the render goroutine and must not retain the buffer.
func WithSink(fn func([]float32)) Option {
	return func(b *Backend) error {
		b.sink = fn
		return nil
	}
}

// WithRealtime enables or disables waiting for the buffer duration
// between calls. Realtime is enabled by default.
func WithRealtime(realtime bool) Option {
	return func(b *Backend) error {
		b.realtime = realtime
		return nil
	}
}

// WithLimit stops rendering after n calls. Done is closed after that.
func WithLimit(n int) Option {
	return func(b *Backend) error {
		if n < 0 {
			return fmt.Errorf("null: invalid limit %d", n)
		}
		b.limit = n
		return nil
	}
}

// New returns a null backend.
func New(options ...Option) (*Backend, error) {
	b := &Backend{
		format:   backend.Format{SampleRate: 44100, NumChannels: 2},
		realtime: true,
	}
	for _, option := range options {
		if err := option(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Open implements backend.Backend.
func (b *Backend) Open() (backend.Format, error) {
	return b.format, nil
}

// blockRenderer adapts RenderBlock to the Renderer interface.
type blockRenderer struct {
	backend.BlockRenderer
}

func (r blockRenderer) Render(out []float32) error {
	return r.RenderBlock(out)
}

// Start implements backend.Backend.
func (b *Backend) Start(r backend.Renderer, framesPerBuffer int) error {
	b.m.Lock()
	defer b.m.Unlock()
	if b.stop != nil {
		return backend.Wrap(name, "start", errors.New("already started"))
	}
	frames := framesPerBuffer
	if b.frames != 0 && !b.double {
		frames = b.frames
	}
	if frames <= 0 {
		return backend.Wrap(name, "start", fmt.Errorf("invalid frames per buffer %d", frames))
	}

	buffers := [][]float32{make([]float32, frames*b.format.NumChannels)}
	if b.double {
		br, ok := r.(backend.BlockRenderer)
		if !ok {
			return backend.Wrap(name, "start", ErrNotBlockRenderer)
		}
		r = blockRenderer{br}
		buffers = append(buffers, make([]float32, frames*b.format.NumChannels))
	}

	b.stop, b.done = make(chan struct{}), make(chan struct{})
	go b.loop(r, buffers, signal.DurationOf(b.format.SampleRate, int64(frames)))
	return nil
}

func (b *Backend) loop(r backend.Renderer, buffers [][]float32, interval time.Duration) {
	defer close(b.done)
	var tick <-chan time.Time
	if b.realtime {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}
	for i := 0; b.limit == 0 || i < b.limit; i++ {
		buf := buffers[i%len(buffers)]
		b.fault.Render(r, buf)
		if b.sink != nil {
			b.sink(buf)
		}
		if tick == nil {
			select {
			case <-b.stop:
				return
			default:
			}
			continue
		}
		select {
		case <-b.stop:
			return
		case <-tick:
		}
	}
}

// Done returns a channel that's closed when the render goroutine exits.
// It's nil before Start.
func (b *Backend) Done() <-chan struct{} {
	b.m.Lock()
	defer b.m.Unlock()
	return b.done
}

// Stop implements backend.Backend. It waits for the render goroutine to
// exit.
func (b *Backend) Stop() error {
	b.m.Lock()
	defer b.m.Unlock()
	if b.stop == nil {
		return nil
	}
	close(b.stop)
	<-b.done
	b.stop = nil
	return nil
}

// Close implements backend.Backend.
func (b *Backend) Close() error {
	return nil
}

// Err returns the first render error.
func (b *Backend) Err() error {
	return b.fault.Load()
}
