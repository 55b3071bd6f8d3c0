package mock_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pipelined/render/backend"
	"github.com/pipelined/render/mock"
)

func TestSource(t *testing.T) {
	s := mock.Ramp()
	buf := make([]float32, 6)
	s.Render(buf, 3, 2)
	assert.InDeltaSlice(t, []float32{0, 0.01, 1, 1.01, 2, 2.01}, buf, 1e-6)
	s.Render(buf, 3, 2)
	assert.InDeltaSlice(t, []float32{3, 3.01, 4, 4.01, 5, 5.01}, buf, 1e-6)
	calls, frames := s.Count()
	assert.Equal(t, 2, calls)
	assert.Equal(t, 6, frames)

	silent := &mock.Source{}
	buf = []float32{1, 1}
	silent.Render(buf, 1, 2)
	assert.Equal(t, []float32{0, 0}, buf)
}

func TestFrameIndex(t *testing.T) {
	buf := make([]float32, 6)
	mock.FrameIndex()(buf, 3, 2)
	assert.Equal(t, []float32{0, 0, 1, 1, 2, 2}, buf)
}

func TestAllocator(t *testing.T) {
	a := &mock.Allocator{FailAt: 2}
	b1, err := a.Alloc(4)
	assert.Nil(t, err)
	assert.Equal(t, 4, len(b1))

	_, err = a.Alloc(4)
	assert.True(t, errors.Is(err, mock.ErrAllocation))

	b2, err := a.Alloc(0)
	assert.Nil(t, err)
	assert.Equal(t, 2, a.Live())

	a.Free(b2)
	a.Free(b1)
	allocs, frees := a.Count()
	assert.Equal(t, 2, allocs)
	assert.Equal(t, 2, frees)
	assert.Equal(t, 0, a.Live())
	assert.Panics(t, func() { a.Free(b1) })
}

type renderFunc func([]float32) error

func (fn renderFunc) Render(out []float32) error {
	return fn(out)
}

func TestBackend(t *testing.T) {
	b := &mock.Backend{Format: backend.Format{SampleRate: 44100, NumChannels: 2}}
	format, err := b.Open()
	assert.Nil(t, err)
	assert.Equal(t, b.Format, format)
	assert.Nil(t, b.Pull(4))

	renderErr := errors.New("render failed")
	calls := 0
	err = b.Start(renderFunc(func(out []float32) error {
		calls++
		if calls == 2 {
			return renderErr
		}
		for i := range out {
			out[i] = 1
		}
		return nil
	}), 4)
	assert.Nil(t, err)
	assert.Equal(t, 4, b.FramesPerBuffer())

	assert.Equal(t, []float32{1, 1, 1, 1}, b.Pull(2))
	assert.Nil(t, b.Pull(2))
	assert.Nil(t, b.Pull(2))
	assert.Equal(t, 2, calls)
	assert.True(t, errors.Is(b.Err(), renderErr))

	assert.Nil(t, b.Stop())
	assert.Nil(t, b.Close())
	assert.True(t, b.Opened)
	assert.True(t, b.Stopped)
	assert.True(t, b.Closed)
}
