// Package channelmap routes source channels onto sink channels.
//
// A Map is a static table of connections. Each connection adds a source
// channel, scaled by its gain, to a sink channel:
//
//	sink[k] += source[j] * gain
//
// The same sink may receive several connections; a sink without
// connections stays silent.
package channelmap

import (
	"errors"
	"fmt"
)

const (
	// MaxConnections limits the size of a single map.
	MaxConnections = 256
	// MaxChannels limits source and sink channel counts.
	MaxChannels = 255
)

// ErrInvalidMap is returned when a map violates its channel bounds.
var ErrInvalidMap = errors.New("invalid channel map")

// Connection routes one source channel into one sink channel.
type Connection struct {
	Source int
	Sink   int
	Gain   float32
}

// Map is a routing table from source channels to sink channels.
type Map struct {
	NumSource   int
	NumSink     int
	Connections []Connection
}

// New builds a map for provided channel counts. The first profile, from
// the custom ones and then the predefined ones, that matches the counts
// exactly is used. Otherwise the identity on min(source, sink) channels
// with unit gain is returned.
func New(source, sink int, profiles ...Map) (*Map, error) {
	if err := checkChannels(source, sink); err != nil {
		return nil, err
	}
	if p, ok := lookup(source, sink, profiles); ok {
		if err := Validate(p); err != nil {
			return nil, err
		}
		return p.clone(), nil
	}
	return Identity(source, sink), nil
}

// Identity returns the identity map on min(source, sink) channels.
func Identity(source, sink int) *Map {
	n := min(source, sink)
	m := &Map{
		NumSource:   source,
		NumSink:     sink,
		Connections: make([]Connection, n),
	}
	for i := range m.Connections {
		m.Connections[i] = Connection{Source: i, Sink: i, Gain: 1}
	}
	return m
}

// Validate checks that every connection is within channel bounds.
func Validate(m Map) error {
	if err := checkChannels(m.NumSource, m.NumSink); err != nil {
		return err
	}
	if len(m.Connections) > MaxConnections {
		return fmt.Errorf("%w: %d connections, max %d", ErrInvalidMap, len(m.Connections), MaxConnections)
	}
	for i, c := range m.Connections {
		if c.Source < 0 || c.Source >= m.NumSource {
			return fmt.Errorf("%w: connection %d: source channel %d out of [0, %d)", ErrInvalidMap, i, c.Source, m.NumSource)
		}
		if c.Sink < 0 || c.Sink >= m.NumSink {
			return fmt.Errorf("%w: connection %d: sink channel %d out of [0, %d)", ErrInvalidMap, i, c.Sink, m.NumSink)
		}
	}
	return nil
}

func checkChannels(source, sink int) error {
	if source <= 0 || source > MaxChannels {
		return fmt.Errorf("%w: source channels %d", ErrInvalidMap, source)
	}
	if sink <= 0 || sink > MaxChannels {
		return fmt.Errorf("%w: sink channels %d", ErrInvalidMap, sink)
	}
	return nil
}

// Mix adds src, interleaved with NumSource channels, into dst, interleaved
// with NumSink channels. Number of frames is defined by src. Connections
// are applied in table order.
func (m *Map) Mix(dst, src []float32) {
	frames := len(src) / m.NumSource
	for _, c := range m.Connections {
		s, d := c.Source, c.Sink
		for i := 0; i < frames; i++ {
			dst[d] += src[s] * c.Gain
			s += m.NumSource
			d += m.NumSink
		}
	}
}

// Sinks returns the number of connections targeting every sink channel.
func (m *Map) Sinks() []int {
	sinks := make([]int, m.NumSink)
	for _, c := range m.Connections {
		sinks[c.Sink]++
	}
	return sinks
}

func (m Map) clone() *Map {
	c := m
	c.Connections = append([]Connection(nil), m.Connections...)
	return &c
}

func (m Map) String() string {
	return fmt.Sprintf("%d->%d %v", m.NumSource, m.NumSink, m.Connections)
}
