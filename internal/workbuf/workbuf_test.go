package workbuf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pipelined/render/internal/workbuf"
)

func TestBuffer(t *testing.T) {
	b := workbuf.New([]float32{0, 1, 2, 3, 4, 5, 6, 7}, 4, 2)
	assert.True(t, b.Exhausted())
	assert.Equal(t, 0, b.Available())

	b.Rewind()
	assert.False(t, b.Exhausted())
	assert.Equal(t, 4, b.Available())
	assert.Equal(t, []float32{0, 1, 2, 3}, b.Next(2))

	b.Advance(3)
	assert.Equal(t, 1, b.Available())
	assert.Equal(t, []float32{6, 7}, b.Next(1))

	b.Advance(1)
	assert.True(t, b.Exhausted())
}

func TestNewTrimsData(t *testing.T) {
	b := workbuf.New(make([]float32, 10), 2, 3)
	assert.Equal(t, 6, len(b.Data))
}
