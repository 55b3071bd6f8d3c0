package render

import (
	"fmt"

	"github.com/pipelined/render/channelmap"
	"github.com/pipelined/render/pool"
)

const (
	// MaxFramesPerBuffer limits the work buffer size. With at most
	// channelmap.MaxChannels channels the work buffer always fits into int.
	MaxFramesPerBuffer = 1<<16 - 1
	// MaxLatencyMs limits the added latency.
	MaxLatencyMs = 1<<16 - 1
)

// RenderFunc fills buf with frames*channels interleaved samples in range
// [-1, 1]. It's called from the render path and must not block or
// allocate.
type RenderFunc func(buf []float32, frames, channels int)

// Config defines the render pipeline. It's copied at initialization and
// never changes afterwards.
type Config struct {
	// SampleRate is the preferred sample rate. The actual rate is defined by
	// the device and returned by Context.SampleRate.
	SampleRate int
	// FramesPerBuffer is the number of frames produced by every callback.
	FramesPerBuffer int
	// MaxLatencyMs is the latency added by the delay line. 0 disables it.
	MaxLatencyMs int
	// ChannelCount is the number of channels produced by Callback.
	ChannelCount int
	// Callback produces samples.
	Callback RenderFunc
	// Allocator provides all buffers. pool.Heap is used if nil.
	Allocator pool.Allocator
	// Profiles are channel maps preferred over the predefined ones when
	// source and device channel counts match.
	Profiles []channelmap.Map
}

// Validate checks config invariants.
func (c Config) Validate() error {
	switch {
	case c.FramesPerBuffer <= 0 || c.FramesPerBuffer > MaxFramesPerBuffer:
		return fmt.Errorf("%w: frames per buffer %d", ErrInvalidConfig, c.FramesPerBuffer)
	case c.ChannelCount <= 0 || c.ChannelCount > channelmap.MaxChannels:
		return fmt.Errorf("%w: channel count %d", ErrInvalidConfig, c.ChannelCount)
	case c.MaxLatencyMs < 0 || c.MaxLatencyMs > MaxLatencyMs:
		return fmt.Errorf("%w: max latency %d ms", ErrInvalidConfig, c.MaxLatencyMs)
	case c.SampleRate < 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, c.SampleRate)
	case c.Callback == nil:
		return fmt.Errorf("%w: no render callback", ErrInvalidConfig)
	}
	return nil
}
