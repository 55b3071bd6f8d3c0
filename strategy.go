package render

import "github.com/pipelined/render/delay"

// strategy refills the work buffer. It's selected once per pipeline.
type strategy interface {
	refill(work []float32) error
	String() string
}

// direct renders the callback output straight into the work buffer.
type direct struct {
	callback RenderFunc
	frames   int
	channels int
}

func (s direct) refill(work []float32) error {
	s.callback(work, s.frames, s.channels)
	return nil
}

func (direct) String() string {
	return "direct"
}

// delayed renders the callback output into scratch and passes it through
// the delay line into the work buffer.
type delayed struct {
	direct
	scratch []float32
	line    *delay.Line
}

func (s delayed) refill(work []float32) error {
	s.callback(s.scratch, s.frames, s.channels)
	return s.line.Apply(work, s.scratch)
}

func (delayed) String() string {
	return "delayed"
}
