package emit

// Emitter receives pipeline events.
//
// Implementations must be safe for concurrent use because one Generator may
// serve many goroutines. Emit must not block for long and must not panic;
// a failing backend drops the event.
type Emitter interface {
	Emit(event Event)
}
