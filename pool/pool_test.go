package pool_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pipelined/render/pool"
)

func TestFuncs(t *testing.T) {
	alloc := func(n int) ([]float32, error) { return make([]float32, n), nil }
	free := func([]float32) {}
	tests := []struct {
		description string
		alloc       pool.AllocFunc
		free        pool.FreeFunc
		err         error
		heap        bool
	}{
		{description: "both defaulted", heap: true},
		{description: "both provided", alloc: alloc, free: free},
		{description: "only alloc", alloc: alloc, err: pool.ErrIncompleteAllocator},
		{description: "only free", free: free, err: pool.ErrIncompleteAllocator},
	}
	for _, test := range tests {
		a, err := pool.Funcs(test.alloc, test.free)
		assert.Equal(t, test.err, err, test.description)
		if test.err != nil {
			assert.Nil(t, a, test.description)
			continue
		}
		if test.heap {
			assert.Equal(t, pool.Heap, a, test.description)
		}
		b, err := a.Alloc(8)
		assert.Nil(t, err)
		assert.Equal(t, 8, len(b))
	}
}

func TestScope(t *testing.T) {
	var allocs, frees int
	a, err := pool.Funcs(
		func(n int) ([]float32, error) {
			allocs++
			b := make([]float32, n)
			for i := range b {
				b[i] = 1
			}
			return b, nil
		},
		func([]float32) { frees++ },
	)
	assert.Nil(t, err)

	s := pool.NewScope(a)
	for _, n := range []int{4, 16, 0} {
		b, err := s.Alloc(n)
		assert.Nil(t, err)
		assert.Equal(t, n, len(b))
		for _, v := range b {
			assert.Equal(t, float32(0), v)
		}
	}
	assert.Equal(t, 3, s.Len())
	s.Release()
	s.Release()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, allocs, frees)
}

func TestScopeFailure(t *testing.T) {
	failErr := errors.New("out of memory")
	tests := []struct {
		description string
		alloc       pool.AllocFunc
		freed       int
	}{
		{
			description: "allocator error",
			alloc:       func(int) ([]float32, error) { return nil, failErr },
		},
		{
			description: "short buffer",
			alloc:       func(n int) ([]float32, error) { return make([]float32, n-1), nil },
			freed:       1,
		},
	}
	for _, test := range tests {
		var freed int
		a, err := pool.Funcs(test.alloc, func([]float32) { freed++ })
		assert.Nil(t, err)
		s := pool.NewScope(a)
		b, err := s.Alloc(10)
		assert.Nil(t, b, test.description)
		assert.True(t, errors.Is(err, pool.ErrAllocationFailure), test.description)
		assert.Equal(t, 0, s.Len(), test.description)
		assert.Equal(t, test.freed, freed, test.description)
	}
}

func TestRecycler(t *testing.T) {
	r := pool.NewRecycler()
	b, err := r.Alloc(32)
	assert.Nil(t, err)
	b[0] = 1
	r.Free(b)
	assert.Equal(t, 1, r.Cached(32))

	reused, err := r.Alloc(32)
	assert.Nil(t, err)
	assert.Equal(t, float32(0), reused[0])
	assert.Equal(t, 0, r.Cached(32))

	_, err = r.Alloc(-1)
	assert.True(t, errors.Is(err, pool.ErrAllocationFailure))
	_, err = r.Alloc(pool.MaxSamples + 1)
	assert.True(t, errors.Is(err, pool.ErrAllocationFailure))
}

func TestSizeLimit(t *testing.T) {
	_, err := pool.Heap.Alloc(pool.MaxSamples + 1)
	assert.True(t, errors.Is(err, pool.ErrAllocationFailure))
	_, err = pool.Heap.Alloc(-1)
	assert.True(t, errors.Is(err, pool.ErrAllocationFailure))

	// oversized requests never reach a custom allocator
	calls := 0
	a, err := pool.Funcs(func(n int) ([]float32, error) {
		calls++
		return make([]float32, n), nil
	}, func([]float32) {})
	assert.Nil(t, err)
	s := pool.NewScope(a)
	_, err = s.Alloc(pool.MaxSamples + 1)
	assert.True(t, errors.Is(err, pool.ErrAllocationFailure))
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, s.Len())
}
