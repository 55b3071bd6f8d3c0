package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	ossignal "os/signal"
	"time"

	"github.com/pipelined/render"
	"github.com/pipelined/render/log"
)

type playCommand struct {
	backend string
	signal  signalFlags
	timeout time.Duration
}

// signalFlags are shared by commands that render a test signal.
type signalFlags struct {
	freq      float64
	amplitude float64
	channels  int
	frames    int
	latency   int
	rate      int
}

func (s *signalFlags) register(fs *flag.FlagSet) {
	fs.Float64Var(&s.freq, "freq", 440, "sine frequency in Hz")
	fs.Float64Var(&s.amplitude, "amplitude", 0.5, "sine amplitude in [0, 1]")
	fs.IntVar(&s.channels, "channels", 1, "number of source channels")
	fs.IntVar(&s.frames, "frames", 256, "frames per callback")
	fs.IntVar(&s.latency, "latency", 0, "added latency in milliseconds")
	fs.IntVar(&s.rate, "rate", 48000, "preferred sample rate")
}

func (s *signalFlags) validate() error {
	if s.freq <= 0 {
		return fmt.Errorf("invalid frequency %v", s.freq)
	}
	if s.amplitude < 0 || s.amplitude > 1 {
		return fmt.Errorf("invalid amplitude %v", s.amplitude)
	}
	return nil
}

func (s *signalFlags) config(osc *oscillator) render.Config {
	return render.Config{
		SampleRate:      s.rate,
		FramesPerBuffer: s.frames,
		MaxLatencyMs:    s.latency,
		ChannelCount:    s.channels,
		Callback:        osc.render,
	}
}

func (cmd *playCommand) Name() string {
	return "play"
}

func (cmd *playCommand) Help() string {
	return "Play a sine wave through a device backend"
}

func (cmd *playCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.backend, "backend", "null", "backend to play with, see list command")
	fs.DurationVar(&cmd.timeout, "duration", 2*time.Second, "playback duration")
	cmd.signal.register(fs)
}

func (cmd *playCommand) Run() error {
	if err := cmd.signal.validate(); err != nil {
		return err
	}
	factory, ok := backends[cmd.backend]
	if !ok {
		return fmt.Errorf("unknown backend %q", cmd.backend)
	}
	b, err := factory.new()
	if err != nil {
		return err
	}

	osc := &oscillator{freq: cmd.signal.freq, amplitude: float32(cmd.signal.amplitude)}
	c, err := render.Init(b, cmd.signal.config(osc), render.WithName(cmd.backend), render.WithMetric())
	if err != nil {
		return err
	}
	osc.setSampleRate(c.SampleRate())

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	select {
	case <-ctx.Done():
	case <-time.After(cmd.timeout):
	}
	err = errors.Join(c.Err(), c.Terminate())
	printMetrics(log.GetLogger())
	return err
}
