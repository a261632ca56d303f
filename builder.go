package fsm

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Builder assembles and validates a state graph before handing it to the
// engine. The engine trusts its input, so Builder is where well-formedness
// is enforced: Build refuses graphs with unknown endpoints, duplicate names
// or ambiguous (source, event type) pairs.
type Builder struct {
	states      map[string]*State
	stateOrder  []*State
	initial     *State
	finals      []*State
	transitions []*Transition
	handlers    []TransitionHandler
}

// NewBuilder creates a new state machine builder
func NewBuilder() *Builder {
	return &Builder{
		states: make(map[string]*State),
	}
}

// States adds states to the machine's state set
func (b *Builder) States(states ...*State) *Builder {
	for _, s := range states {
		if _, ok := b.states[s.Name()]; ok {
			continue
		}
		b.states[s.Name()] = s
		b.stateOrder = append(b.stateOrder, s)
	}
	return b
}

// Initial sets the state the machine starts in
func (b *Builder) Initial(s *State) *Builder {
	b.initial = s
	return b
}

// Transition adds a transition rule
func (b *Builder) Transition(t *Transition) *Builder {
	b.transitions = append(b.transitions, t)
	return b
}

// FinalState marks a state as absorbing
func (b *Builder) FinalState(s *State) *Builder {
	b.finals = append(b.finals, s)
	return b
}

// Handler registers a machine-wide transition observer
func (b *Builder) Handler(h TransitionHandler) *Builder {
	b.handlers = append(b.handlers, h)
	return b
}

// Validate checks the whole graph and reports every defect found, not just
// the first one
func (b *Builder) Validate() error {
	var result *multierror.Error

	if len(b.states) == 0 {
		result = multierror.Append(result, fmt.Errorf("no states defined"))
	}

	if b.initial == nil {
		result = multierror.Append(result, fmt.Errorf("no initial state defined"))
	} else if _, ok := b.states[b.initial.Name()]; !ok {
		result = multierror.Append(result, fmt.Errorf("initial state %q is not in the state set", b.initial.Name()))
	}

	for _, s := range b.finals {
		if _, ok := b.states[s.Name()]; !ok {
			result = multierror.Append(result, fmt.Errorf("final state %q is not in the state set", s.Name()))
		}
	}

	names := make(map[string]bool)
	pairs := make(map[transitionKey]string)
	for _, t := range b.transitions {
		if t == nil {
			result = multierror.Append(result, fmt.Errorf("nil transition"))
			continue
		}
		if t.Name() == "" {
			result = multierror.Append(result, fmt.Errorf("transition with empty name"))
		}
		if names[t.Name()] {
			result = multierror.Append(result, fmt.Errorf("duplicate transition name %q", t.Name()))
		}
		names[t.Name()] = true

		if t.SourceState() == nil || t.TargetState() == nil {
			result = multierror.Append(result, fmt.Errorf("transition %q has a nil endpoint", t.Name()))
			continue
		}
		if _, ok := b.states[t.SourceState().Name()]; !ok {
			result = multierror.Append(result, fmt.Errorf("transition %q fires from unknown state %q", t.Name(), t.SourceState().Name()))
		}
		if _, ok := b.states[t.TargetState().Name()]; !ok {
			result = multierror.Append(result, fmt.Errorf("transition %q targets unknown state %q", t.Name(), t.TargetState().Name()))
		}

		key := transitionKey{source: t.SourceState().Name(), eventType: t.EventType()}
		if prev, ok := pairs[key]; ok {
			result = multierror.Append(result, fmt.Errorf("transitions %q and %q both fire from state %q on event %q", prev, t.Name(), key.source, key.eventType))
		} else {
			pairs[key] = t.Name()
		}
	}

	return result.ErrorOrNil()
}

// Build validates the graph and creates the machine
func (b *Builder) Build(opts ...MachineOption) (*StateMachine, error) {
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("invalid state machine definition: %w", err)
	}

	m := newStateMachine(b.stateOrder, b.initial, opts...)
	for _, t := range b.transitions {
		m.registerTransition(t)
	}
	for _, s := range b.finals {
		m.registerFinalState(s)
	}
	for _, h := range b.handlers {
		m.AddTransitionHandler(h)
	}
	return m, nil
}
