package wav_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/pipelined/render"
	"github.com/pipelined/render/backend"
	rwav "github.com/pipelined/render/backend/wav"
	"github.com/pipelined/render/log"
	"github.com/pipelined/render/mock"
	"github.com/pipelined/render/signal"
)

func TestNew(t *testing.T) {
	format := backend.Format{SampleRate: 44100, NumChannels: 2}
	_, err := rwav.New("out.wav", format, signal.BitDepth24, 10)
	assert.Equal(t, rwav.ErrUnsupportedBitDepth, err)
	_, err = rwav.New("out.wav", format, signal.BitDepth16, 0)
	assert.NotNil(t, err)
}

func TestRoundTrip(t *testing.T) {
	defer goleak.VerifyNone(t)
	tests := []struct {
		description string
		bitDepth    signal.BitDepth
		frames      int
		expected    int
	}{
		{
			description: "16 bit",
			bitDepth:    signal.BitDepth16,
			frames:      1000,
			expected:    23196,
		},
		{
			description: "32 bit partial buffer",
			bitDepth:    signal.BitDepth32,
			frames:      1001,
			expected:    1520203647,
		},
	}
	for _, test := range tests {
		path := filepath.Join(t.TempDir(), "out.wav")
		b, err := rwav.New(path, backend.Format{SampleRate: 8000, NumChannels: 2}, test.bitDepth, test.frames)
		assert.Nil(t, err, test.description)

		c, err := render.Init(b, render.Config{
			FramesPerBuffer: 64,
			ChannelCount:    1,
			Callback:        mock.Constant(1).Render,
		}, render.WithLogger(log.Discard()))
		assert.Nil(t, err, test.description)
		<-b.Done()
		assert.Equal(t, test.frames, b.Written(), test.description)
		assert.Nil(t, c.Terminate(), test.description)
		assert.Nil(t, c.Err(), test.description)

		f, err := os.Open(path)
		assert.Nil(t, err, test.description)
		d := wav.NewDecoder(f)
		assert.True(t, d.IsValidFile(), test.description)
		buf, err := d.FullPCMBuffer()
		assert.Nil(t, err, test.description)
		assert.Equal(t, 2, buf.Format.NumChannels, test.description)
		assert.Equal(t, 8000, buf.Format.SampleRate, test.description)
		assert.Equal(t, test.frames*2, len(buf.Data), test.description)
		for _, v := range buf.Data {
			assert.InDelta(t, test.expected, v, 1, test.description)
		}
		assert.Nil(t, f.Close())
	}
}

func TestWrittenWhileRendering(t *testing.T) {
	defer goleak.VerifyNone(t)
	const frames = 1 << 14
	b, err := rwav.New(filepath.Join(t.TempDir(), "out.wav"),
		backend.Format{SampleRate: 8000, NumChannels: 1}, signal.BitDepth16, frames)
	assert.Nil(t, err)
	c, err := render.Init(b, render.Config{
		FramesPerBuffer: 16,
		ChannelCount:    1,
		Callback:        mock.Constant(0.5).Render,
	}, render.WithLogger(log.Discard()))
	assert.Nil(t, err)

	for last := 0; ; {
		written := b.Written()
		assert.True(t, written >= last)
		assert.True(t, written <= frames)
		last = written
		select {
		case <-b.Done():
		default:
			continue
		}
		break
	}
	assert.Equal(t, frames, b.Written())
	assert.Nil(t, c.Terminate())
}

func TestOpenFailure(t *testing.T) {
	b, err := rwav.New(filepath.Join(t.TempDir(), "missing", "out.wav"),
		backend.Format{SampleRate: 8000, NumChannels: 1}, signal.BitDepth16, 10)
	assert.Nil(t, err)
	_, err = render.Init(b, render.Config{
		FramesPerBuffer: 64,
		ChannelCount:    1,
		Callback:        mock.Constant(1).Render,
	}, render.WithLogger(log.Discard()))
	var berr *backend.Error
	assert.ErrorAs(t, err, &berr)
	assert.Equal(t, "create", berr.Op)
}
