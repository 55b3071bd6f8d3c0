// Package signal provides conversions for interleaved float32 signals:
//	- float to int with bit depth scaling
//	- float slices viewed as little-endian bytes
//	- durations and frame counts
package signal

import (
	"math"
	"time"
	"unsafe"
)

const (
	// BitDepth8 is 8 bit depth.
	BitDepth8 = BitDepth(8)
	// BitDepth16 is 16 bit depth.
	BitDepth16 = BitDepth(16)
	// BitDepth24 is 24 bit depth.
	BitDepth24 = BitDepth(24)
	// BitDepth32 is 32 bit depth.
	BitDepth32 = BitDepth(32)
)

// BitDepth contains values required for float-to-int conversion.
type BitDepth int

// multiplier is used when float to int conversion is done.
func (bitDepth BitDepth) multiplier() float64 {
	switch bitDepth {
	case BitDepth8:
		return math.MaxInt8
	case BitDepth16:
		return math.MaxInt16
	case BitDepth24:
		return 1<<23 - 1
	case BitDepth32:
		return math.MaxInt32
	default:
		return 1
	}
}

// MaxValue returns the full scale int value for the bit depth.
func (bitDepth BitDepth) MaxValue() int {
	return int(bitDepth.multiplier())
}

// DurationOf returns time duration of passed frames for this sample rate.
func DurationOf(sampleRate int, frames int64) time.Duration {
	return time.Duration(float64(frames) / float64(sampleRate) * float64(time.Second))
}

// FramesIn returns number of frames that fit into d at sample rate.
func FramesIn(sampleRate int, d time.Duration) int {
	return int(int64(d) * int64(sampleRate) / int64(time.Second))
}

// AsInts converts floats into ints scaled to bit depth. Values outside of
// [-1, 1] are clipped. ints must be at least as long as floats.
func AsInts(floats []float32, ints []int, bitDepth BitDepth) []int {
	multiplier := bitDepth.multiplier()
	ints = ints[:len(floats)]
	for i, v := range floats {
		f := float64(v)
		switch {
		case f > 1:
			f = 1
		case f < -1:
			f = -1
		}
		ints[i] = int(math.Round(f * multiplier))
	}
	return ints
}

// AsFloats converts ints scaled to bit depth into floats.
func AsFloats(ints []int, floats []float32, bitDepth BitDepth) []float32 {
	multiplier := bitDepth.multiplier()
	floats = floats[:len(ints)]
	for i, v := range ints {
		floats[i] = float32(float64(v) / multiplier)
	}
	return floats
}

// Bytes returns floats as a little-endian byte slice sharing the memory.
// It's only valid on little-endian platforms, which is all audio
// platforms this package is used on.
func Bytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&floats[0])), len(floats)*4)
}

// Floats returns bytes as float32 slice sharing the memory. Trailing bytes
// that don't form a full sample are ignored.
func Floats(bytes []byte) []float32 {
	if len(bytes) < 4 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&bytes[0])), len(bytes)/4)
}

// Zero sets all samples to silence.
func Zero(floats []float32) {
	for i := range floats {
		floats[i] = 0
	}
}

// Deinterleave splits interleaved samples into per-channel slices. dst
// must hold numChannels slices of len(src)/numChannels samples.
func Deinterleave(src []float32, dst [][]float32) {
	numChannels := len(dst)
	for c := range dst {
		pos := 0
		for i := c; i < len(src); i += numChannels {
			dst[c][pos] = src[i]
			pos++
		}
	}
}
