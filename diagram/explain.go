package diagram

import (
	"fmt"
	"strings"
)

// ExplanationHeader is the first line of every explanation.
const ExplanationHeader = "Explanation of the diagram:"

// Explain renders steps into a numbered prose explanation.
//
// One line per step, 1-based, in input order:
//
//	Explanation of the diagram:
//	Step 1: Gather requirements
//	Step 2: Design system
//	Decision at Step 3: If tests pass with paths Deploy, Rollback
func Explain(steps []Step) string {
	var sb strings.Builder
	sb.WriteString(ExplanationHeader)
	sb.WriteString("\n")

	for i, step := range steps {
		n := i + 1
		switch s := step.(type) {
		case PlainStep:
			fmt.Fprintf(&sb, "Step %d: %s\n", n, s.Text)
		case DecisionStep:
			fmt.Fprintf(&sb, "Decision at Step %d: %s with paths %s\n",
				n, s.Condition, strings.Join(s.Branches, ", "))
		default:
			panic(unknownStep(step))
		}
	}
	return sb.String()
}
