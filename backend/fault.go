package backend

import "sync/atomic"

// Fault keeps the first fatal error reported from a render callback.
// After a fault the backend renders silence and stops calling the
// renderer.
type Fault struct {
	err atomic.Pointer[error]
}

// TryStore keeps err if no error was stored before.
func (f *Fault) TryStore(err error) {
	if err == nil {
		return
	}
	f.err.CompareAndSwap(nil, &err)
}

// Load returns the stored error.
func (f *Fault) Load() error {
	if p := f.err.Load(); p != nil {
		return *p
	}
	return nil
}

// Faulted returns true if an error was stored.
func (f *Fault) Faulted() bool {
	return f.err.Load() != nil
}

// Render calls r unless a fault was stored before. On error out is
// silenced and the error is stored. It returns false if out holds silence.
func (f *Fault) Render(r Renderer, out []float32) bool {
	if !f.Faulted() {
		err := r.Render(out)
		if err == nil {
			return true
		}
		f.TryStore(err)
	}
	for i := range out {
		out[i] = 0
	}
	return false
}
