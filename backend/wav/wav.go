// Package wav provides an offline device that renders a fixed duration
// of signal into a WAV file.
package wav

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/pipelined/render/backend"
	"github.com/pipelined/render/signal"
)

const name = "wav"

// pcm is WAV audio format for integer samples.
const pcm = 1

// ErrUnsupportedBitDepth is returned when unsupported bit depth is used.
var ErrUnsupportedBitDepth = errors.New("only 16 and 32 bit depth is supported")

// Backend writes rendered frames to a WAV file. Rendering runs on its own
// goroutine and ends when the requested number of frames is written.
type Backend struct {
	path     string
	format   backend.Format
	bitDepth signal.BitDepth
	frames   int

	m       sync.Mutex
	file    *os.File
	encoder *wav.Encoder
	fault   backend.Fault
	stop    chan struct{}
	done    chan struct{}
	written atomic.Int64
}

// New returns a WAV backend that writes frames frames of format to path.
func New(path string, format backend.Format, bitDepth signal.BitDepth, frames int) (*Backend, error) {
	if bitDepth != signal.BitDepth16 && bitDepth != signal.BitDepth32 {
		return nil, ErrUnsupportedBitDepth
	}
	if frames <= 0 {
		return nil, fmt.Errorf("wav: invalid number of frames %d", frames)
	}
	return &Backend{
		path:     path,
		format:   format,
		bitDepth: bitDepth,
		frames:   frames,
	}, nil
}

// Open creates the file and the encoder.
func (b *Backend) Open() (backend.Format, error) {
	if err := b.format.Validate(); err != nil {
		return backend.Format{}, err
	}
	b.m.Lock()
	defer b.m.Unlock()
	f, err := os.Create(b.path)
	if err != nil {
		return backend.Format{}, backend.Wrap(name, "create", err)
	}
	b.file = f
	b.encoder = wav.NewEncoder(f, b.format.SampleRate, int(b.bitDepth), b.format.NumChannels, pcm)
	return b.format, nil
}

// Start implements backend.Backend.
func (b *Backend) Start(r backend.Renderer, framesPerBuffer int) error {
	b.m.Lock()
	defer b.m.Unlock()
	if b.encoder == nil {
		return backend.Wrap(name, "start", errors.New("backend is not open"))
	}
	if b.stop != nil {
		return backend.Wrap(name, "start", errors.New("already started"))
	}
	if framesPerBuffer <= 0 {
		return backend.Wrap(name, "start", fmt.Errorf("invalid frames per buffer %d", framesPerBuffer))
	}
	b.stop, b.done = make(chan struct{}), make(chan struct{})
	go b.loop(r, framesPerBuffer)
	return nil
}

func (b *Backend) loop(r backend.Renderer, framesPerBuffer int) {
	defer close(b.done)
	numChannels := b.format.NumChannels
	floats := make([]float32, framesPerBuffer*numChannels)
	ib := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChannels,
			SampleRate:  b.format.SampleRate,
		},
		Data:           make([]int, len(floats)),
		SourceBitDepth: int(b.bitDepth),
	}
	written := 0
	for written < b.frames {
		select {
		case <-b.stop:
			return
		default:
		}
		n := min(framesPerBuffer, b.frames-written)
		out := floats[:n*numChannels]
		b.fault.Render(r, out)
		ib.Data = signal.AsInts(out, ib.Data[:cap(ib.Data)], b.bitDepth)
		if err := b.encoder.Write(ib); err != nil {
			b.fault.TryStore(backend.Wrap(name, "write", err))
			return
		}
		written += n
		b.written.Store(int64(written))
	}
}

// Done returns a channel that's closed when all frames are written or
// rendering is stopped. It's nil before Start.
func (b *Backend) Done() <-chan struct{} {
	b.m.Lock()
	defer b.m.Unlock()
	return b.done
}

// Stop implements backend.Backend.
func (b *Backend) Stop() error {
	b.m.Lock()
	defer b.m.Unlock()
	if b.stop == nil {
		return nil
	}
	close(b.stop)
	<-b.done
	b.stop = nil
	return nil
}

// Close flushes the encoder and closes the file.
func (b *Backend) Close() error {
	b.m.Lock()
	defer b.m.Unlock()
	if b.file == nil {
		return nil
	}
	var err error
	if b.encoder != nil {
		err = backend.Wrap(name, "flush", b.encoder.Close())
	}
	if cerr := b.file.Close(); cerr != nil && err == nil {
		err = backend.Wrap(name, "close", cerr)
	}
	b.file, b.encoder = nil, nil
	return err
}

// Written returns number of frames written so far.
func (b *Backend) Written() int {
	return int(b.written.Load())
}

// Err returns the first render or write error.
func (b *Backend) Err() error {
	return b.fault.Load()
}
