// Package delay provides a fixed latency delay line.
package delay

import (
	"errors"
	"math"
	"math/bits"
)

var (
	// ErrEmptyRing is returned when a line is created without capacity.
	ErrEmptyRing = errors.New("delay ring has no capacity")
	// ErrSizeMismatch is returned when source and destination differ in size.
	ErrSizeMismatch = errors.New("delay source and destination sizes differ")
)

// Line is a ring buffer that delays a signal by its capacity.
// Interleaved signals keep their channel alignment as long as the
// capacity is a multiple of the number of channels.
type Line struct {
	ring   []float32
	cursor int
}

// New returns a line over provided ring. The ring is owned by the line
// until the owner releases it, its contents are the initial output.
func New(ring []float32) (*Line, error) {
	if len(ring) == 0 {
		return nil, ErrEmptyRing
	}
	return &Line{ring: ring}, nil
}

// Samples returns number of samples needed to delay by ms milliseconds a
// signal with provided sample rate and channels. Zero means no delay line.
// Results that don't fit into int are saturated to math.MaxInt.
func Samples(ms, sampleRate, channels int) int {
	if ms <= 0 || sampleRate <= 0 || channels <= 0 {
		return 0
	}
	hi, lo := bits.Mul64(uint64(ms), uint64(sampleRate))
	if hi != 0 {
		return math.MaxInt
	}
	hi, lo = bits.Mul64(lo/1000, uint64(channels))
	if hi != 0 || lo > math.MaxInt {
		return math.MaxInt
	}
	return int(lo)
}

// Len returns the capacity of the line in samples.
func (l *Line) Len() int {
	return len(l.ring)
}

// Apply exchanges src with the ring contents: every sample of dst receives
// the sample stored at the cursor and the cursor position receives the
// sample from src. dst and src may be the same slice.
func (l *Line) Apply(dst, src []float32) error {
	if len(dst) != len(src) {
		return ErrSizeMismatch
	}
	cursor, size := l.cursor, len(l.ring)
	for i, in := range src {
		dst[i] = l.ring[cursor]
		l.ring[cursor] = in
		cursor++
		if cursor == size {
			cursor = 0
		}
	}
	l.cursor = cursor
	return nil
}

// Reset silences the line and rewinds the cursor.
func (l *Line) Reset() {
	for i := range l.ring {
		l.ring[i] = 0
	}
	l.cursor = 0
}

// Ring returns the underlying storage so the owner can release it.
func (l *Line) Ring() []float32 {
	return l.ring
}
