package fsm

import (
	"log/slog"
	"sync"
)

// transitionKey indexes transitions by what the engine matches on
type transitionKey struct {
	source    string
	eventType EventType
}

// StateMachine is the runtime engine: it consumes events one at a time and
// advances a single current-state pointer. Build one with Builder; the
// machine itself performs no graph validation.
//
// Fire is safe for concurrent use. One mutex spans the whole
// select-handle-commit sequence, so concurrent fires serialize and every
// caller observes the machine as if the fires ran one after another.
type StateMachine struct {
	mu sync.Mutex

	states  map[string]*State
	initial *State
	current *State
	finals  map[string]*State

	transitions []*Transition
	index       map[transitionKey][]*Transition

	handlers map[TransitionHandler]struct{}

	lastEvent      Event
	lastTransition *Transition

	logger *slog.Logger
}

// MachineOption is a functional option for configuring a StateMachine
type MachineOption func(*StateMachine)

// WithLogger sets the logger for the machine
func WithLogger(logger *slog.Logger) MachineOption {
	return func(m *StateMachine) {
		m.logger = logger
	}
}

// newStateMachine assembles an engine around a validated state set. Callers
// go through Builder, which guarantees initial is a member of states.
func newStateMachine(states []*State, initial *State, opts ...MachineOption) *StateMachine {
	m := &StateMachine{
		states:   make(map[string]*State, len(states)),
		initial:  initial,
		current:  initial,
		finals:   make(map[string]*State),
		index:    make(map[transitionKey][]*Transition),
		handlers: make(map[TransitionHandler]struct{}),
		logger:   Logger,
	}
	for _, s := range states {
		m.states[s.Name()] = s
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Fire attempts exactly one state transition for the given event and returns
// the resulting current state, which may be unchanged.
//
// A nil event, an event with no matching transition from the current state,
// and any event arriving once the machine sits in a final state are all
// benign no-ops: the current state comes back untouched and no handler runs.
//
// A non-nil error is always a *FiringError from a failing handler. The state
// commit happens only after the event handler and every transition handler
// have returned nil, so a handler failure leaves the current state at its
// pre-fire value. Side effects of an already-run event handler are not
// rolled back when a later transition handler fails.
func (m *StateMachine) Fire(event Event) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.finals) > 0 {
		if _, ok := m.finals[m.current.Name()]; ok {
			m.logger.Warn("machine is in a final state, event ignored", "state", m.current.Name(), "event", eventType(event))
			return m.current, nil
		}
	}

	if event == nil {
		m.logger.Warn("nil event fired, state unchanged", "state", m.current.Name())
		return m.current, nil
	}

	transition := m.selectTransition(event)
	if transition == nil {
		m.logger.Debug("no transition matched, event dropped", "state", m.current.Name(), "event", event.Type())
		return m.current, nil
	}

	if handler := transition.EventHandler(); handler != nil {
		if err := handler(event); err != nil {
			m.logger.Error("event handler failed", "transition", transition.Name(), "event", event.Type(), "error", err)
			return m.current, &FiringError{Transition: transition, Event: event, Err: err}
		}
	}

	for handler := range m.handlers {
		if err := handler.HandleTransition(transition); err != nil {
			m.logger.Error("transition handler failed", "transition", transition.Name(), "event", event.Type(), "error", err)
			return m.current, &FiringError{Transition: transition, Event: event, Err: err}
		}
	}

	m.current = transition.TargetState()
	m.lastEvent = event
	m.lastTransition = transition

	return m.current, nil
}

// selectTransition picks the transition to fire: the first one registered
// for (current state, event type) whose target is a known state. Transitions
// pointing at states outside the machine never match.
func (m *StateMachine) selectTransition(event Event) *Transition {
	key := transitionKey{source: m.current.Name(), eventType: event.Type()}
	for _, t := range m.index[key] {
		if _, ok := m.states[t.TargetState().Name()]; ok {
			return t
		}
	}
	return nil
}

// registerTransition adds a transition rule. No graph validation happens
// here; a transition whose source or target is unknown simply never fires.
// When several transitions share (source, event type), the first registered
// one wins and later ones only show up in Transitions().
func (m *StateMachine) registerTransition(t *Transition) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions = append(m.transitions, t)
	key := transitionKey{source: t.SourceState().Name(), eventType: t.EventType()}
	m.index[key] = append(m.index[key], t)
}

// registerFinalState marks a state as absorbing. Callable at any time, even
// after the machine has already moved past the state.
func (m *StateMachine) registerFinalState(s *State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finals[s.Name()] = s
}

// AddTransitionHandler registers a machine-wide observer. Adding the same
// handler twice is a no-op. The handler value must be comparable.
func (m *StateMachine) AddTransitionHandler(h TransitionHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[h] = struct{}{}
}

// RemoveTransitionHandler unregisters an observer. Removing a handler that
// was never added is a no-op.
func (m *StateMachine) RemoveTransitionHandler(h TransitionHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.handlers, h)
}

// CurrentState returns the state the machine is currently in
func (m *StateMachine) CurrentState() *State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// InitialState returns the state the machine started in
func (m *StateMachine) InitialState() *State {
	return m.initial
}

// States returns the machine's full state set
func (m *StateMachine) States() []*State {
	m.mu.Lock()
	defer m.mu.Unlock()
	states := make([]*State, 0, len(m.states))
	for _, s := range m.states {
		states = append(states, s)
	}
	return states
}

// FinalStates returns the states currently flagged as absorbing
func (m *StateMachine) FinalStates() []*State {
	m.mu.Lock()
	defer m.mu.Unlock()
	finals := make([]*State, 0, len(m.finals))
	for _, s := range m.finals {
		finals = append(finals, s)
	}
	return finals
}

// Transitions returns every registered transition in registration order
func (m *StateMachine) Transitions() []*Transition {
	m.mu.Lock()
	defer m.mu.Unlock()
	transitions := make([]*Transition, len(m.transitions))
	copy(transitions, m.transitions)
	return transitions
}

// LastEvent returns the most recently fired event, or nil before the first
// successful fire
func (m *StateMachine) LastEvent() Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastEvent
}

// LastTransition returns the most recently fired transition, or nil before
// the first successful fire
func (m *StateMachine) LastTransition() *Transition {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastTransition
}

// eventType formats an event's type for logging, tolerating nil
func eventType(event Event) EventType {
	if event == nil {
		return "<nil>"
	}
	return event.Type()
}
