//go:build malgo

package malgo_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pipelined/render"
	"github.com/pipelined/render/backend/malgo"
	"github.com/pipelined/render/mock"
)

func TestPlayback(t *testing.T) {
	b, err := malgo.New()
	assert.Nil(t, err)
	c, err := render.Init(b, render.Config{
		FramesPerBuffer: 256,
		ChannelCount:    2,
		Callback:        mock.Constant(0).Render,
	})
	assert.Nil(t, err)
	assert.Equal(t, b.Err(), c.Err())
	time.Sleep(200 * time.Millisecond)
	assert.Nil(t, c.Err())
	assert.Nil(t, c.Terminate())
}
