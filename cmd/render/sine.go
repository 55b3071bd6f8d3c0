package main

import (
	"math"
	"sync/atomic"
)

// oscillator produces a sine wave on every channel. The device sample
// rate is known only after initialization, so it renders silence until
// the rate is set.
type oscillator struct {
	freq      float64
	amplitude float32
	rate      atomic.Int64
	phase     float64
}

func (o *oscillator) setSampleRate(rate int) {
	o.rate.Store(int64(rate))
}

func (o *oscillator) render(buf []float32, frames, channels int) {
	rate := o.rate.Load()
	if rate == 0 {
		for i := range buf[:frames*channels] {
			buf[i] = 0
		}
		return
	}
	step := 2 * math.Pi * o.freq / float64(rate)
	for f := 0; f < frames; f++ {
		v := o.amplitude * float32(math.Sin(o.phase))
		for c := 0; c < channels; c++ {
			buf[f*channels+c] = v
		}
		o.phase += step
		if o.phase >= 2*math.Pi {
			o.phase -= 2 * math.Pi
		}
	}
}
