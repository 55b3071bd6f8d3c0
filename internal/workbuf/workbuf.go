// Package workbuf contains the fixed geometry buffer that render callbacks
// fill and the pipeline drains.
package workbuf

// Buffer holds NumFrames interleaved frames of NumChannels channels and the
// index of the next frame to be consumed.
type Buffer struct {
	Data        []float32
	FrameIndex  int
	NumFrames   int
	NumChannels int
}

// New wraps data. The buffer starts exhausted so the first read triggers a
// refill. data must hold exactly frames*channels samples.
func New(data []float32, frames, channels int) *Buffer {
	return &Buffer{
		Data:        data[:frames*channels],
		FrameIndex:  frames,
		NumFrames:   frames,
		NumChannels: channels,
	}
}

// Exhausted returns true when all frames are consumed.
func (b *Buffer) Exhausted() bool {
	return b.FrameIndex >= b.NumFrames
}

// Rewind marks all frames unread.
func (b *Buffer) Rewind() {
	b.FrameIndex = 0
}

// Available returns number of unread frames.
func (b *Buffer) Available() int {
	return b.NumFrames - b.FrameIndex
}

// Next returns n unread frames without consuming them.
func (b *Buffer) Next(n int) []float32 {
	start := b.FrameIndex * b.NumChannels
	return b.Data[start : start+n*b.NumChannels]
}

// Advance consumes n frames.
func (b *Buffer) Advance(n int) {
	b.FrameIndex += n
}
