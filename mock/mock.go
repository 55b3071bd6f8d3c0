// Package mock provides mocks for render callbacks, allocators and
// backends and allows to execute integration tests without a device.
package mock

import (
	"fmt"
	"sync"

	"github.com/pipelined/render/backend"
	"github.com/pipelined/render/pool"
)

// Source mocks a render callback. Value defines the generated sample for
// absolute frame position and channel. If Value is nil, the source emits
// silence.
type Source struct {
	counter
	Value func(frame, channel int) float32
}

// Render is the render callback.
func (m *Source) Render(buf []float32, frames, channels int) {
	for f := 0; f < frames; f++ {
		for c := 0; c < channels; c++ {
			var v float32
			if m.Value != nil {
				v = m.Value(m.frames+f, c)
			}
			buf[f*channels+c] = v
		}
	}
	m.advance(frames)
}

// Constant returns a source that emits v on every channel.
func Constant(v float32) *Source {
	return &Source{Value: func(int, int) float32 { return v }}
}

// Ramp returns a source that emits the absolute frame position on
// every channel, offset by channel/100 to tell channels apart.
func Ramp() *Source {
	return &Source{Value: func(frame, channel int) float32 {
		return float32(frame) + float32(channel)/100
	}}
}

// FrameIndex returns a callback that emits the index of the frame within
// the buffer it fills.
func FrameIndex() func(buf []float32, frames, channels int) {
	return func(buf []float32, frames, channels int) {
		for f := 0; f < frames; f++ {
			for c := 0; c < channels; c++ {
				buf[f*channels+c] = float32(f)
			}
		}
	}
}

// counter counts calls and frames.
type counter struct {
	calls  int
	frames int
}

// advance counter's metrics.
func (c *counter) advance(frames int) {
	c.calls++
	c.frames += frames
}

// Count returns calls and frames metrics.
func (c *counter) Count() (int, int) {
	return c.calls, c.frames
}

// Allocator counts allocations and fails the allocation with index FailAt
// if it's not zero. Indices start from 1.
type Allocator struct {
	sync.Mutex
	FailAt int
	allocs int
	frees  int
	live   map[*float32]int
}

// ErrAllocation is returned when allocation fails on purpose.
var ErrAllocation = fmt.Errorf("mock: allocation refused")

// Alloc implements pool.Allocator.
func (m *Allocator) Alloc(n int) ([]float32, error) {
	m.Lock()
	defer m.Unlock()
	if m.FailAt != 0 && m.allocs+1 == m.FailAt {
		m.FailAt = 0
		return nil, ErrAllocation
	}
	m.allocs++
	b := make([]float32, n+1)[:n]
	if m.live == nil {
		m.live = map[*float32]int{}
	}
	m.live[&b[:1][0]] = n
	return b, nil
}

// Free implements pool.Allocator. Freeing unknown buffers panics.
func (m *Allocator) Free(b []float32) {
	m.Lock()
	defer m.Unlock()
	key := &b[:1][0]
	if _, ok := m.live[key]; !ok {
		panic("mock: free of unknown buffer")
	}
	delete(m.live, key)
	m.frees++
}

// Count returns number of allocations and frees.
func (m *Allocator) Count() (int, int) {
	m.Lock()
	defer m.Unlock()
	return m.allocs, m.frees
}

// Live returns number of allocated but not freed buffers.
func (m *Allocator) Live() int {
	m.Lock()
	defer m.Unlock()
	return len(m.live)
}

var _ pool.Allocator = (*Allocator)(nil)

// Backend mocks a backend.Backend. Render calls are made by the test
// through Pull.
type Backend struct {
	sync.Mutex
	Format backend.Format
	Hooks

	renderer        backend.Renderer
	framesPerBuffer int
	fault           backend.Fault
}

// Hooks allows to mock backend hooks.
type Hooks struct {
	Opened  bool
	Started bool
	Stopped bool
	Closed  bool

	ErrorOnOpen  error
	ErrorOnStart error
	ErrorOnStop  error
	ErrorOnClose error
}

// Open implements backend.Backend.
func (m *Backend) Open() (backend.Format, error) {
	m.Lock()
	defer m.Unlock()
	m.Opened = true
	if m.ErrorOnOpen != nil {
		return backend.Format{}, m.ErrorOnOpen
	}
	return m.Format, nil
}

// Start implements backend.Backend.
func (m *Backend) Start(r backend.Renderer, framesPerBuffer int) error {
	m.Lock()
	defer m.Unlock()
	if m.ErrorOnStart != nil {
		return m.ErrorOnStart
	}
	m.Started = true
	m.renderer = r
	m.framesPerBuffer = framesPerBuffer
	return nil
}

// Stop implements backend.Backend.
func (m *Backend) Stop() error {
	m.Lock()
	defer m.Unlock()
	m.Stopped = true
	m.renderer = nil
	return m.ErrorOnStop
}

// Close implements backend.Backend.
func (m *Backend) Close() error {
	m.Lock()
	defer m.Unlock()
	m.Closed = true
	return m.ErrorOnClose
}

// FramesPerBuffer returns the size passed to Start.
func (m *Backend) FramesPerBuffer() int {
	m.Lock()
	defer m.Unlock()
	return m.framesPerBuffer
}

// Pull renders frames device frames and returns them. It returns nil if
// the backend is not started or a render error happened before.
func (m *Backend) Pull(frames int) []float32 {
	m.Lock()
	defer m.Unlock()
	if m.renderer == nil {
		return nil
	}
	out := make([]float32, frames*m.Format.NumChannels)
	if !m.fault.Render(m.renderer, out) {
		return nil
	}
	return out
}

// PullRaw renders into out as is, which allows to deliver buffers with
// broken geometry.
func (m *Backend) PullRaw(out []float32) error {
	m.Lock()
	defer m.Unlock()
	if m.renderer == nil {
		return fmt.Errorf("mock: backend is not started")
	}
	if !m.fault.Render(m.renderer, out) {
		return m.fault.Load()
	}
	return nil
}

// Err returns the first render error.
func (m *Backend) Err() error {
	return m.fault.Load()
}
