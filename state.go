package fsm

import "fmt"

// State is a named node in the automaton. States are immutable once
// constructed, compare equal by name, and may be shared between machines.
type State struct {
	name       string
	attributes map[string]any
}

// StateOption is a functional option for configuring a State
type StateOption func(*State)

// WithAttribute attaches an opaque property to the state. Attributes carry
// no meaning for the engine; they exist for handlers and embedders.
func WithAttribute(key string, value any) StateOption {
	return func(s *State) {
		s.attributes[key] = value
	}
}

// NewState creates a state with the given name
func NewState(name string, opts ...StateOption) *State {
	s := &State{
		name:       name,
		attributes: make(map[string]any),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the state's name, its identity within a machine
func (s *State) Name() string {
	return s.name
}

// Attribute returns the named property, if set
func (s *State) Attribute(key string) (any, bool) {
	v, ok := s.attributes[key]
	return v, ok
}

// Equal reports whether both states carry the same name
func (s *State) Equal(other *State) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.name == other.name
}

func (s *State) String() string {
	return fmt.Sprintf("state(%s)", s.name)
}
