package fsm

import "fmt"

// FiringError reports a handler failure during a fire. It carries the
// transition being processed and the event that triggered it; the machine's
// current state is guaranteed unchanged when a FiringError is returned.
type FiringError struct {
	Transition *Transition
	Event      Event
	Err        error
}

func (e *FiringError) Error() string {
	return fmt.Sprintf("firing %s for event %q: %v", e.Transition, e.Event.Type(), e.Err)
}

func (e *FiringError) Unwrap() error {
	return e.Err
}
