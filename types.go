package fsm

import "log/slog"

// EventType is the discriminant a transition matches against. The engine
// dispatches on its value, never on an event's concrete Go type.
type EventType string

// Logger is the default logger used when none is provided
var Logger = slog.Default()
