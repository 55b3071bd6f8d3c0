package backend

import (
	"runtime"
	"sync/atomic"
)

// Gate lets pull-model drivers, which cannot guarantee that their
// callback is no longer running after a stop request, wait for the
// in-flight render call to finish. Enter and Leave are lock-free.
type Gate struct {
	closed   atomic.Bool
	inflight atomic.Int32
}

// Enter returns false if the gate is closed. Otherwise the caller must
// call Leave after rendering.
func (g *Gate) Enter() bool {
	g.inflight.Add(1)
	if g.closed.Load() {
		g.inflight.Add(-1)
		return false
	}
	return true
}

// Leave marks the end of a render call.
func (g *Gate) Leave() {
	g.inflight.Add(-1)
}

// Open allows render calls.
func (g *Gate) Open() {
	g.closed.Store(false)
}

// Close rejects new render calls and waits for in-flight ones.
func (g *Gate) Close() {
	g.closed.Store(true)
	for g.inflight.Load() > 0 {
		runtime.Gosched()
	}
}
