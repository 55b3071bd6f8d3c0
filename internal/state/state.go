// Package state guards the lifecycle of a render context.
//
//	Uninitialized --Init--> Initialized --Terminate--> Terminated
//
// A failed Init leaves the handle Uninitialized. Terminate always ends in
// Terminated, even if releasing resources reported errors, so that nothing
// is released twice.
package state

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidState is returned if an event cannot be handled in the
// current state.
var ErrInvalidState = errors.New("invalid state")

// State identifies one of the possible states of a context.
type State interface {
	transition(Event) (State, error)
	fmt.Stringer
}

// states
type (
	uninitialized struct{}
	initialized   struct{}
	terminated    struct{}
)

// states variables
var (
	Uninitialized uninitialized // Uninitialized means that resources are not acquired yet.
	Initialized   initialized   // Initialized means that the backend is rendering.
	Terminated    terminated    // Terminated means that all resources are released.
)

// Event triggers the state change.
// Use imperative verbs for implementations.
type Event interface {
	// commit tells if the transition happens even when the event's
	// action failed.
	commit() bool
	fmt.Stringer
}

// events
type (
	// Init is sent when resources are acquired and the backend started.
	Init struct{}
	// Terminate is sent when the backend stopped and resources are released.
	Terminate struct{}
)

func (Init) commit() bool { return false }

func (Init) String() string { return "event.Init" }

func (Terminate) commit() bool { return true }

func (Terminate) String() string { return "event.Terminate" }

func (s uninitialized) transition(e Event) (State, error) {
	if _, ok := e.(Init); ok {
		return Initialized, nil
	}
	return s, ErrInvalidState
}

func (uninitialized) String() string { return "state.Uninitialized" }

func (s initialized) transition(e Event) (State, error) {
	if _, ok := e.(Terminate); ok {
		return Terminated, nil
	}
	return s, ErrInvalidState
}

func (initialized) String() string { return "state.Initialized" }

func (s terminated) transition(Event) (State, error) {
	return s, ErrInvalidState
}

func (terminated) String() string { return "state.Terminated" }

// Handle serialises lifecycle events. It's never used on the render path.
type Handle struct {
	m     sync.Mutex
	state State
}

// NewHandle returns a handle in Uninitialized state.
func NewHandle() *Handle {
	return &Handle{state: Uninitialized}
}

// State returns the current state.
func (h *Handle) State() State {
	h.m.Lock()
	defer h.m.Unlock()
	return h.state
}

// Send validates the transition, executes action and moves to the next
// state. The action is not executed if the transition is not allowed.
func (h *Handle) Send(e Event, action func() error) error {
	h.m.Lock()
	defer h.m.Unlock()
	next, err := h.state.transition(e)
	if err != nil {
		return fmt.Errorf("%v in %v: %w", e, h.state, err)
	}
	if action != nil {
		err = action()
	}
	if err == nil || e.commit() {
		h.state = next
	}
	return err
}
