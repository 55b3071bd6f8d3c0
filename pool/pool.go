/*
Package pool provides allocators for render buffers.

Every buffer a render context owns is requested once during
initialization through an Allocator and handed back through the same
Allocator at termination. The render path itself never allocates.
*/
package pool

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrAllocationFailure is returned when an allocator cannot provide a
	// buffer.
	ErrAllocationFailure = errors.New("allocation failure")
	// ErrIncompleteAllocator is returned when only one of allocation and
	// deallocation functions is provided.
	ErrIncompleteAllocator = errors.New("allocate and free must be provided together")
)

// MaxSamples is the largest buffer provided by allocators of this package.
const MaxSamples = 1<<31 - 1

// Allocator provides float32 sample buffers. Alloc must return a zeroed
// slice of length n or an error. Free receives slices previously returned
// by Alloc.
type Allocator interface {
	Alloc(n int) ([]float32, error)
	Free([]float32)
}

// Heap allocates buffers with make and leaves them to the garbage collector.
var Heap Allocator = heap{}

type heap struct{}

func (heap) Alloc(n int) ([]float32, error) {
	if err := checkSize(n); err != nil {
		return nil, err
	}
	return make([]float32, n), nil
}

func (heap) Free([]float32) {}

func checkSize(n int) error {
	if n < 0 || n > MaxSamples {
		return fmt.Errorf("%w: size %d out of [0, %d]", ErrAllocationFailure, n, MaxSamples)
	}
	return nil
}

// AllocFunc allocates a buffer of n samples.
type AllocFunc func(n int) ([]float32, error)

// FreeFunc releases a buffer.
type FreeFunc func([]float32)

type funcs struct {
	alloc AllocFunc
	free  FreeFunc
}

// Funcs combines allocation and deallocation functions into an Allocator.
// If both are nil, Heap is returned. If only one is nil,
// ErrIncompleteAllocator is returned.
func Funcs(alloc AllocFunc, free FreeFunc) (Allocator, error) {
	switch {
	case alloc == nil && free == nil:
		return Heap, nil
	case alloc == nil || free == nil:
		return nil, ErrIncompleteAllocator
	}
	return funcs{alloc: alloc, free: free}, nil
}

func (f funcs) Alloc(n int) ([]float32, error) {
	return f.alloc(n)
}

func (f funcs) Free(b []float32) {
	f.free(b)
}

// Scope tracks buffers allocated for a single owner. If initialization of
// the owner fails half-way, Release returns everything acquired so far.
type Scope struct {
	allocator Allocator
	buffers   [][]float32
}

// NewScope returns a scope that allocates with a. Heap is used if a is nil.
func NewScope(a Allocator) *Scope {
	if a == nil {
		a = Heap
	}
	return &Scope{allocator: a}
}

// Alloc requests a zeroed buffer of n samples. Sizes above MaxSamples,
// allocator errors and short buffers are reported as ErrAllocationFailure.
func (s *Scope) Alloc(n int) ([]float32, error) {
	if err := checkSize(n); err != nil {
		return nil, err
	}
	b, err := s.allocator.Alloc(n)
	if err != nil {
		return nil, fmt.Errorf("%w: %d samples: %v", ErrAllocationFailure, n, err)
	}
	if len(b) < n {
		if b != nil {
			s.allocator.Free(b)
		}
		return nil, fmt.Errorf("%w: %d samples: got %d", ErrAllocationFailure, n, len(b))
	}
	b = b[:n]
	for i := range b {
		b[i] = 0
	}
	s.buffers = append(s.buffers, b)
	return b, nil
}

// Len returns number of buffers currently held by the scope.
func (s *Scope) Len() int {
	return len(s.buffers)
}

// Release frees all buffers in reverse order of allocation. It's safe to
// call Release multiple times.
func (s *Scope) Release() {
	for i := len(s.buffers) - 1; i >= 0; i-- {
		s.allocator.Free(s.buffers[i])
		s.buffers[i] = nil
	}
	s.buffers = s.buffers[:0]
}

// Recycler is an allocator that keeps freed buffers and hands them out
// again for requests of the same size. It's useful when contexts with
// identical geometry are created and terminated repeatedly.
type Recycler struct {
	sync.Mutex
	free map[int][][]float32
}

// NewRecycler returns an empty recycler.
func NewRecycler() *Recycler {
	return &Recycler{free: map[int][][]float32{}}
}

// Alloc returns a recycled buffer if one of the same size is available.
func (r *Recycler) Alloc(n int) ([]float32, error) {
	if err := checkSize(n); err != nil {
		return nil, err
	}
	r.Lock()
	defer r.Unlock()
	if l := r.free[n]; len(l) > 0 {
		b := l[len(l)-1]
		r.free[n] = l[:len(l)-1]
		for i := range b {
			b[i] = 0
		}
		return b, nil
	}
	return make([]float32, n), nil
}

// Free keeps the buffer for reuse.
func (r *Recycler) Free(b []float32) {
	if b == nil {
		return
	}
	r.Lock()
	defer r.Unlock()
	r.free[len(b)] = append(r.free[len(b)], b)
}

// Cached returns number of buffers of size n waiting for reuse.
func (r *Recycler) Cached(n int) int {
	r.Lock()
	defer r.Unlock()
	return len(r.free[n])
}
