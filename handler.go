package fsm

// TransitionHandler is a machine-wide observer invoked on every transition
// about to be committed, regardless of which event caused it. Natural home
// for auditing and telemetry.
//
// Registered values must be comparable (implement the interface on a pointer
// type) so that RemoveTransitionHandler can find them again.
type TransitionHandler interface {
	HandleTransition(*Transition) error
}
