package fsm

import "time"

// Event is a typed occurrence that may trigger a transition. Implementations
// declare which transition tag they carry via Type; payload-bearing events
// embed GenericEvent and add their own fields.
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// GenericEvent is the basic Event implementation and the embeddable base for
// custom events. Its timestamp is fixed at construction.
type GenericEvent struct {
	eventType EventType
	occurred  time.Time
}

// NewEvent creates an event of the given type, stamped with the current time
func NewEvent(eventType EventType) GenericEvent {
	return GenericEvent{
		eventType: eventType,
		occurred:  time.Now(),
	}
}

// Type returns the event's transition-matching discriminant
func (e GenericEvent) Type() EventType {
	return e.eventType
}

// Timestamp returns the event's creation time
func (e GenericEvent) Timestamp() time.Time {
	return e.occurred
}

func (e GenericEvent) String() string {
	return string(e.eventType)
}
