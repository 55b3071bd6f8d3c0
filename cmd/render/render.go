package main

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/pipelined/render"
	"github.com/pipelined/render/backend"
	"github.com/pipelined/render/backend/wav"
	"github.com/pipelined/render/log"
	"github.com/pipelined/render/signal"
)

type renderCommand struct {
	out            string
	bitDepth       int
	deviceChannels int
	duration       time.Duration
	signal         signalFlags
}

func (cmd *renderCommand) Name() string {
	return "render"
}

func (cmd *renderCommand) Help() string {
	return "Render a sine wave into a WAV file"
}

func (cmd *renderCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.out, "out", "", "output WAV file (required)")
	fs.IntVar(&cmd.bitDepth, "bits", 16, "bit depth, 16 or 32")
	fs.IntVar(&cmd.deviceChannels, "device-channels", 2, "number of channels in the file")
	fs.DurationVar(&cmd.duration, "duration", time.Second, "rendered duration")
	cmd.signal.register(fs)
}

func (cmd *renderCommand) Validate() error {
	var message string
	if cmd.out == "" {
		message = message + "Missing -out required flag\n"
	}
	if cmd.duration <= 0 {
		message = message + fmt.Sprintf("Invalid -duration %v\n", cmd.duration)
	}
	if message != "" {
		return errors.New(message)
	}
	return cmd.signal.validate()
}

func (cmd *renderCommand) Run() error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	format := backend.Format{SampleRate: cmd.signal.rate, NumChannels: cmd.deviceChannels}
	b, err := wav.New(cmd.out, format, signal.BitDepth(cmd.bitDepth), signal.FramesIn(format.SampleRate, cmd.duration))
	if err != nil {
		return err
	}

	osc := &oscillator{freq: cmd.signal.freq, amplitude: float32(cmd.signal.amplitude)}
	osc.setSampleRate(format.SampleRate)
	c, err := render.Init(b, cmd.signal.config(osc), render.WithName(cmd.out), render.WithMetric())
	if err != nil {
		return err
	}
	<-b.Done()
	err = errors.Join(c.Err(), c.Terminate())
	printMetrics(log.GetLogger())
	return err
}
