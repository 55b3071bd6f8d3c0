package render

import (
	"fmt"

	"github.com/pipelined/render/backend"
	"github.com/pipelined/render/channelmap"
	"github.com/pipelined/render/delay"
	"github.com/pipelined/render/internal/workbuf"
	"github.com/pipelined/render/metric"
	"github.com/pipelined/render/pool"
	"github.com/pipelined/render/signal"
)

// Pipeline renders device buffers from the configured callback. It's
// not safe for concurrent use: after creation only the backend's render
// goroutine may call Render, Fill and RenderBlock.
type Pipeline struct {
	config   Config
	format   backend.Format
	work     *workbuf.Buffer
	channels *channelmap.Map
	strategy strategy
	scope    *pool.Scope
	measure  metric.MeasureFunc
	closed   bool
}

// NewPipeline allocates all buffers for the config and device format and
// selects the render strategy. If any allocation fails, buffers allocated
// before are released.
func NewPipeline(format backend.Format, cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := format.Validate(); err != nil {
		return nil, err
	}
	channels, err := channelmap.New(cfg.ChannelCount, format.NumChannels, cfg.Profiles...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	scope := pool.NewScope(cfg.Allocator)
	data, err := scope.Alloc(cfg.FramesPerBuffer * cfg.ChannelCount)
	if err != nil {
		return nil, fmt.Errorf("work buffer: %w", err)
	}
	s, err := newStrategy(scope, cfg, format)
	if err != nil {
		scope.Release()
		return nil, err
	}
	return &Pipeline{
		config:   cfg,
		format:   format,
		work:     workbuf.New(data, cfg.FramesPerBuffer, cfg.ChannelCount),
		channels: channels,
		strategy: s,
		scope:    scope,
	}, nil
}

func newStrategy(scope *pool.Scope, cfg Config, format backend.Format) (strategy, error) {
	d := direct{
		callback: cfg.Callback,
		frames:   cfg.FramesPerBuffer,
		channels: cfg.ChannelCount,
	}
	ringSize := delay.Samples(cfg.MaxLatencyMs, format.SampleRate, cfg.ChannelCount)
	if ringSize == 0 {
		return d, nil
	}

	scratch, err := scope.Alloc(cfg.FramesPerBuffer * cfg.ChannelCount)
	if err != nil {
		return nil, fmt.Errorf("scratch buffer: %w", err)
	}
	ring, err := scope.Alloc(ringSize)
	if err != nil {
		return nil, fmt.Errorf("delay line: %w", err)
	}
	line, err := delay.New(ring)
	if err != nil {
		return nil, err
	}
	return delayed{
		direct:  d,
		scratch: scratch,
		line:    line,
	}, nil
}

// Render zeroes out and fills it with len(out)/device channels frames.
func (p *Pipeline) Render(out []float32) error {
	if len(out)%p.channels.NumSink != 0 {
		return ErrGeometryMismatch
	}
	signal.Zero(out)
	return p.Fill(out)
}

// RenderBlock renders exactly one work buffer into out. It's used by
// double-buffered backends whose buffers must match the work buffer.
func (p *Pipeline) RenderBlock(out []float32) error {
	if len(out) != p.config.FramesPerBuffer*p.channels.NumSink {
		return ErrGeometryMismatch
	}
	return p.Render(out)
}

// Fill adds len(out)/device channels frames to out. The work buffer is
// refilled every time it's drained, so out may be smaller, equal or larger
// than the work buffer.
func (p *Pipeline) Fill(out []float32) error {
	sink := p.channels.NumSink
	if len(out)%sink != 0 {
		return ErrGeometryMismatch
	}
	if p.closed {
		return ErrClosed
	}
	frames := len(out) / sink
	var refills int64
	for written := 0; written < frames; {
		if p.work.Exhausted() {
			p.work.Rewind()
			if err := p.strategy.refill(p.work.Data); err != nil {
				return err
			}
			refills++
		}
		n := min(p.work.Available(), frames-written)
		p.channels.Mix(out[written*sink:(written+n)*sink], p.work.Next(n))
		p.work.Advance(n)
		written += n
	}
	if p.measure != nil {
		p.measure(int64(frames), refills)
	}
	return nil
}

// Close releases all buffers through the allocator.
func (p *Pipeline) Close() error {
	if p.closed {
		return fmt.Errorf("close pipeline: %w", ErrInvalidState)
	}
	p.closed = true
	p.scope.Release()
	return nil
}

// Format returns the device format.
func (p *Pipeline) Format() backend.Format {
	return p.format
}

// ChannelMap returns a copy of the channel map in use.
func (p *Pipeline) ChannelMap() channelmap.Map {
	m := *p.channels
	m.Connections = append([]channelmap.Connection(nil), p.channels.Connections...)
	return m
}

// Delayed returns true if the delay line is active.
func (p *Pipeline) Delayed() bool {
	_, ok := p.strategy.(delayed)
	return ok
}

// Latency returns the added latency in frames.
func (p *Pipeline) Latency() int {
	if d, ok := p.strategy.(delayed); ok {
		return d.line.Len() / p.config.ChannelCount
	}
	return 0
}
