package render

import (
	"fmt"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/pipelined/render/backend"
	"github.com/pipelined/render/internal/state"
	"github.com/pipelined/render/log"
	"github.com/pipelined/render/metric"
)

// Context owns a pipeline and the backend that drives it. Contexts are
// independent: any number of them can exist in one process as long as
// their backends allow it.
type Context struct {
	id      string
	name    string
	metered bool
	log     log.Logger

	handle   *state.Handle
	backend  backend.Backend
	pipeline *Pipeline
	format   backend.Format
}

// Option provides a way to set parameters to context.
type Option func(c *Context) error

// WithName sets name to Context.
func WithName(n string) Option {
	return func(c *Context) error {
		c.name = n
		return nil
	}
}

// WithLogger sets logger to Context.
func WithLogger(l log.Logger) Option {
	return func(c *Context) error {
		if l == nil {
			return fmt.Errorf("%w: nil logger", ErrInvalidConfig)
		}
		c.log = l
		return nil
	}
}

// WithMetric enables render metrics for the pipeline.
func WithMetric() Option {
	return func(c *Context) error {
		c.metered = true
		return nil
	}
}

// newUID returns new unique id value.
func newUID() string {
	return xid.New().String()
}

// Init negotiates the device format with b, allocates the pipeline for cfg
// and starts b. If any step fails, everything acquired before is released
// and the error is returned.
func Init(b backend.Backend, cfg Config, options ...Option) (*Context, error) {
	c := &Context{
		id:      newUID(),
		backend: b,
		handle:  state.NewHandle(),
		log:     log.GetLogger(),
	}
	for _, option := range options {
		if err := option(c); err != nil {
			return nil, err
		}
	}
	c.log = log.WithFields(c.log, logrus.Fields{"context": c.id, "name": c.name})
	if b == nil {
		return nil, fmt.Errorf("%w: no backend", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := c.handle.Send(state.Init{}, func() error { return c.init(cfg) }); err != nil {
		c.log.Info(fmt.Sprintf("init failed: %v", err))
		return nil, err
	}
	c.log.Info(fmt.Sprintf("initialized: %v, %s rendering, %d frames latency",
		c.format, c.pipeline.strategy, c.pipeline.Latency()))
	return c, nil
}

func (c *Context) init(cfg Config) error {
	format, err := c.backend.Open()
	if err == nil {
		err = format.Validate()
	}
	if err != nil {
		return c.abort(fmt.Errorf("open backend: %w", err))
	}
	c.log.Debug(fmt.Sprintf("device format: %v", format))

	p, err := NewPipeline(format, cfg)
	if err != nil {
		return c.abort(err)
	}
	if c.metered {
		p.measure = metric.Meter(p, format.SampleRate)()
	}
	c.log.Debug(fmt.Sprintf("channel map: %v", p.channels))

	if err := c.backend.Start(p, cfg.FramesPerBuffer); err != nil {
		p.Close()
		return c.abort(fmt.Errorf("start backend: %w", err))
	}
	c.pipeline, c.format = p, format
	return nil
}

// abort closes the backend after a failed initialization step.
func (c *Context) abort(err error) error {
	if cerr := c.backend.Close(); cerr != nil {
		c.log.Debug(fmt.Sprintf("close backend after failure: %v", cerr))
	}
	return err
}

// Terminate stops the backend and releases all buffers. It returns
// ErrInvalidState if the context is already terminated.
func (c *Context) Terminate() error {
	err := c.handle.Send(state.Terminate{}, func() error {
		var errs execErrors
		if err := c.backend.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop backend: %w", err))
		}
		if err := c.backend.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close backend: %w", err))
		}
		if err := c.pipeline.Close(); err != nil {
			errs = append(errs, err)
		}
		return errs.ret()
	})
	if err != nil {
		c.log.Info(fmt.Sprintf("terminate: %v", err))
		return err
	}
	c.log.Info("terminated")
	return nil
}

// Err returns the fatal error reported by the backend's render callback,
// if the backend reports them.
func (c *Context) Err() error {
	if r, ok := c.backend.(interface{ Err() error }); ok {
		return r.Err()
	}
	return nil
}

// ID returns unique context id.
func (c *Context) ID() string {
	return c.id
}

// SampleRate returns the device sample rate.
func (c *Context) SampleRate() int {
	return c.format.SampleRate
}

// Format returns the negotiated device format.
func (c *Context) Format() backend.Format {
	return c.format
}

// Pipeline returns the pipeline driven by the backend.
func (c *Context) Pipeline() *Pipeline {
	return c.pipeline
}
