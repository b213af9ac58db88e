package log

// Logger receives provisioning events.
// Pass nil or NoopLogger to disable event logging.
type Logger interface {
	// Log records an event. Implementations must be thread-safe and must
	// not block: the workflow calls Log while an attempt is in flight.
	Log(event Event)
}

// NoopLogger discards all events. It is usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

var _ Logger = NoopLogger{}

// OrNoop returns l, or NoopLogger when l is nil.
func OrNoop(l Logger) Logger {
	if l == nil {
		return NoopLogger{}
	}
	return l
}
