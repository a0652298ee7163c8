// Package emit provides pipeline events for diagram generation.
package emit

// Event represents an observability event emitted while generating a diagram.
//
// A Generate call emits events in this order:
//   - generate_start: description received
//   - segment_done: steps parsed (meta: steps, decisions, branches)
//   - emit_done: Mermaid source rendered (meta: edges, bytes)
//   - explain_done: explanation rendered (meta: lines)
//   - generate_done: result returned (meta: duration_ms)
//
// or, when the description cannot be parsed:
//   - generate_start
//   - generate_error (meta: error, code, segment; Position is the failing segment)
type Event struct {
	// RunID identifies the Generate call that emitted this event.
	RunID string

	// Stage names the pipeline component: "generate", "segment", "emit" or
	// "explain".
	Stage string

	// Position is the 1-based segment position the event refers to.
	// Zero for events about the whole description.
	Position int

	// Msg is the event name, e.g. "segment_done".
	Msg string

	// Meta contains additional structured data specific to this event.
	// Common keys:
	//   - "duration_ms": Elapsed time in milliseconds
	//   - "error": Error message
	//   - "code": Parse error code
	//   - "steps": Number of parsed steps
	Meta map[string]interface{}
}
