package state_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pipelined/render/internal/state"
)

var errAction = errors.New("action failed")

func TestStates(t *testing.T) {
	tests := []struct {
		description string
		preparation []state.Event
		event       state.Event
		actionErr   error
		err         error
		expected    state.State
	}{
		{
			description: "init",
			event:       state.Init{},
			expected:    state.Initialized,
		},
		{
			description: "failed init stays uninitialized",
			event:       state.Init{},
			actionErr:   errAction,
			err:         errAction,
			expected:    state.Uninitialized,
		},
		{
			description: "terminate before init",
			event:       state.Terminate{},
			err:         state.ErrInvalidState,
			expected:    state.Uninitialized,
		},
		{
			description: "terminate",
			preparation: []state.Event{state.Init{}},
			event:       state.Terminate{},
			expected:    state.Terminated,
		},
		{
			description: "failed terminate still terminates",
			preparation: []state.Event{state.Init{}},
			event:       state.Terminate{},
			actionErr:   errAction,
			err:         errAction,
			expected:    state.Terminated,
		},
		{
			description: "init twice",
			preparation: []state.Event{state.Init{}},
			event:       state.Init{},
			err:         state.ErrInvalidState,
			expected:    state.Initialized,
		},
		{
			description: "terminate twice",
			preparation: []state.Event{state.Init{}, state.Terminate{}},
			event:       state.Terminate{},
			err:         state.ErrInvalidState,
			expected:    state.Terminated,
		},
		{
			description: "init after terminate",
			preparation: []state.Event{state.Init{}, state.Terminate{}},
			event:       state.Init{},
			err:         state.ErrInvalidState,
			expected:    state.Terminated,
		},
	}
	for _, test := range tests {
		h := state.NewHandle()
		for _, e := range test.preparation {
			assert.Nil(t, h.Send(e, nil), test.description)
		}
		called := false
		err := h.Send(test.event, func() error {
			called = true
			return test.actionErr
		})
		if test.err != nil {
			assert.True(t, errors.Is(err, test.err), test.description)
		} else {
			assert.Nil(t, err, test.description)
		}
		assert.Equal(t, !errors.Is(err, state.ErrInvalidState), called, test.description)
		assert.Equal(t, test.expected, h.State(), test.description)
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "state.Uninitialized", state.Uninitialized.String())
	assert.Equal(t, "event.Terminate", state.Terminate{}.String())
}
