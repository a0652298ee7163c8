package emit

// MultiEmitter fans each event out to several emitters in order.
//
// Example:
//
//	buffered := emit.NewBufferedEmitter()
//	logs := emit.NewLogEmitter(os.Stderr, false)
//	gen, _ := diagram.NewGenerator(diagram.WithEmitter(emit.NewMultiEmitter(buffered, logs)))
type MultiEmitter struct {
	emitters []Emitter
}

// NewMultiEmitter creates a MultiEmitter. Nil emitters are skipped.
func NewMultiEmitter(emitters ...Emitter) *MultiEmitter {
	m := &MultiEmitter{}
	for _, e := range emitters {
		if e != nil {
			m.emitters = append(m.emitters, e)
		}
	}
	return m
}

// Emit forwards the event to every emitter.
func (m *MultiEmitter) Emit(event Event) {
	for _, e := range m.emitters {
		e.Emit(event)
	}
}
