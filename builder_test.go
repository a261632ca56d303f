package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderValidation(t *testing.T) {
	a := NewState("a")
	b := NewState("b")

	tests := []struct {
		name    string
		builder *Builder
		wantErr string
	}{
		{
			name:    "no states",
			builder: NewBuilder(),
			wantErr: "no states defined",
		},
		{
			name:    "no initial state",
			builder: NewBuilder().States(a, b),
			wantErr: "no initial state defined",
		},
		{
			name:    "initial state not in set",
			builder: NewBuilder().States(a).Initial(b),
			wantErr: `initial state "b" is not in the state set`,
		},
		{
			name:    "final state not in set",
			builder: NewBuilder().States(a).Initial(a).FinalState(b),
			wantErr: `final state "b" is not in the state set`,
		},
		{
			name: "unknown source state",
			builder: NewBuilder().States(a, b).Initial(a).
				Transition(NewTransition("t1", NewState("x"), evGo, b)),
			wantErr: `transition "t1" fires from unknown state "x"`,
		},
		{
			name: "unknown target state",
			builder: NewBuilder().States(a, b).Initial(a).
				Transition(NewTransition("t1", a, evGo, NewState("x"))),
			wantErr: `transition "t1" targets unknown state "x"`,
		},
		{
			name: "duplicate transition name",
			builder: NewBuilder().States(a, b).Initial(a).
				Transition(NewTransition("t1", a, evGo, b)).
				Transition(NewTransition("t1", b, evGo, a)),
			wantErr: `duplicate transition name "t1"`,
		},
		{
			name: "ambiguous source and event pair",
			builder: NewBuilder().States(a, b).Initial(a).
				Transition(NewTransition("t1", a, evGo, b)).
				Transition(NewTransition("t2", a, evGo, a)),
			wantErr: `transitions "t1" and "t2" both fire from state "a" on event "go"`,
		},
		{
			name:    "empty transition name",
			builder: NewBuilder().States(a, b).Initial(a).Transition(NewTransition("", a, evGo, b)),
			wantErr: "transition with empty name",
		},
		{
			name:    "nil transition",
			builder: NewBuilder().States(a, b).Initial(a).Transition(nil),
			wantErr: "nil transition",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.builder.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			_, err = tt.builder.Build()
			assert.Error(t, err)
		})
	}
}

func TestBuilderCollectsAllDefects(t *testing.T) {
	a := NewState("a")
	b := NewState("b")

	err := NewBuilder().
		States(a).
		Transition(NewTransition("t1", a, evGo, b)).
		Transition(NewTransition("t1", b, evGo, a)).
		Validate()
	require.Error(t, err)

	// One pass reports the missing initial state, both unknown endpoints
	// and the duplicate name together.
	assert.Contains(t, err.Error(), "no initial state defined")
	assert.Contains(t, err.Error(), `targets unknown state "b"`)
	assert.Contains(t, err.Error(), `fires from unknown state "b"`)
	assert.Contains(t, err.Error(), `duplicate transition name "t1"`)
}

func TestBuilderAssemblesMachine(t *testing.T) {
	a := NewState("a")
	b := NewState("b")
	handler := &countingHandler{}

	m, err := NewBuilder().
		States(a, b).
		States(a). // duplicate add is ignored
		Initial(a).
		Transition(NewTransition("t1", a, evGo, b)).
		FinalState(b).
		Handler(handler).
		Build()
	require.NoError(t, err)

	assert.Len(t, m.States(), 2)
	assert.Len(t, m.Transitions(), 1)
	assert.Len(t, m.FinalStates(), 1)
	assert.True(t, m.InitialState().Equal(a))

	_, err = m.Fire(NewEvent(evGo))
	require.NoError(t, err)
	assert.True(t, m.CurrentState().Equal(b))
	assert.Equal(t, int32(1), handler.calls.Load())
}
