package diagram

// Step is one parsed unit of a process description.
//
// Step is a closed set with exactly two implementations:
//   - PlainStep: a sequential action with no branching
//   - DecisionStep: a branch point with a guard condition and labeled paths
//
// Steps carry no identity of their own. Node identifiers are derived from
// the step's position in the slice when the diagram is rendered, so the same
// slice always renders to the same source.
//
// Renderers switch over the concrete type:
//
//	switch s := step.(type) {
//	case PlainStep:
//	    fmt.Println(s.Text)
//	case DecisionStep:
//	    fmt.Println(s.Condition, s.Branches)
//	}
type Step interface {
	// isStep seals the interface to the types in this package.
	isStep()
}

// PlainStep is a sequential action.
type PlainStep struct {
	// Text is the segment text, kept verbatim.
	Text string
}

// DecisionStep is a branch point.
//
// A DecisionStep produced by Segment always has at least one branch.
type DecisionStep struct {
	// Condition is the guard, e.g. "If tests pass".
	Condition string

	// Branches are the outgoing path labels in input order.
	Branches []string
}

func (PlainStep) isStep()    {}
func (DecisionStep) isStep() {}

// CountEdges returns the number of edges Emit produces for steps.
//
// A PlainStep contributes one edge, a DecisionStep one edge per branch.
func CountEdges(steps []Step) int {
	n := 0
	for _, step := range steps {
		switch s := step.(type) {
		case PlainStep:
			n++
		case DecisionStep:
			n += len(s.Branches)
		default:
			panic(unknownStep(step))
		}
	}
	return n
}

// CountBranches returns the total number of decision branches in steps.
func CountBranches(steps []Step) int {
	n := 0
	for _, step := range steps {
		if d, ok := step.(DecisionStep); ok {
			n += len(d.Branches)
		}
	}
	return n
}
