package fsm

import "fmt"

// EventHandler is the optional per-transition hook, invoked with the
// triggering event before the state commit. A non-nil error aborts the fire.
type EventHandler func(Event) error

// Transition is an edge from a source state to a target state, activated by
// events of a single type. Transitions are immutable value objects and
// compare equal by name.
type Transition struct {
	name      string
	source    *State
	eventType EventType
	target    *State
	handler   EventHandler
}

// TransitionOption is a functional option for configuring a Transition
type TransitionOption func(*Transition)

// WithEventHandler sets the hook invoked with the triggering event
func WithEventHandler(h EventHandler) TransitionOption {
	return func(t *Transition) {
		t.handler = h
	}
}

// NewTransition creates a transition rule
func NewTransition(name string, source *State, eventType EventType, target *State, opts ...TransitionOption) *Transition {
	t := &Transition{
		name:      name,
		source:    source,
		eventType: eventType,
		target:    target,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the transition's name, its identity within a machine
func (t *Transition) Name() string {
	return t.name
}

// SourceState returns the state this transition fires from
func (t *Transition) SourceState() *State {
	return t.source
}

// EventType returns the event type this transition matches
func (t *Transition) EventType() EventType {
	return t.eventType
}

// TargetState returns the state entered when this transition fires
func (t *Transition) TargetState() *State {
	return t.target
}

// EventHandler returns the per-transition hook, or nil
func (t *Transition) EventHandler() EventHandler {
	return t.handler
}

// Equal reports whether both transitions carry the same name
func (t *Transition) Equal(other *Transition) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.name == other.name
}

func (t *Transition) String() string {
	return fmt.Sprintf("transition(%s: %s --%s--> %s)", t.name, t.source.Name(), t.eventType, t.target.Name())
}
