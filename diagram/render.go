package diagram

import (
	"fmt"
	"strconv"
	"strings"
)

// Direction is a Mermaid flowchart orientation.
type Direction string

// Flowchart directions accepted by Mermaid.
const (
	TopDown   Direction = "TD"
	TopBottom Direction = "TB"
	BottomTop Direction = "BT"
	LeftRight Direction = "LR"
	RightLeft Direction = "RL"
)

// Valid reports whether d is a known flowchart direction.
func (d Direction) Valid() bool {
	switch d {
	case TopDown, TopBottom, BottomTop, LeftRight, RightLeft:
		return true
	}
	return false
}

// DefaultStartLabel labels the start node every diagram begins from.
const DefaultStartLabel = "Start"

// NodeID returns the node identifier for a diagram position.
//
// Position 0 is the start node; the step at slice index i is at position
// i+1. Identifiers are "N" followed by the position zero-padded to three
// digits and keep growing past N999 (N1000, N1001, ...), so they never
// collide or overflow.
//
//	NodeID(0)    // "N000"
//	NodeID(27)   // "N027"
//	NodeID(1000) // "N1000"
func NodeID(position int) string {
	return fmt.Sprintf("N%03d", position)
}

// branchNodeID returns the leaf identifier for branch j (0-based) of the
// decision at node.
func branchNodeID(node string, j int) string {
	return node + "_" + strconv.Itoa(j+1)
}

// Renderer renders steps into Mermaid flowchart source.
//
// Empty fields fall back to TopDown and DefaultStartLabel, so the zero
// value renders like DefaultRenderer.
type Renderer struct {
	Direction  Direction
	StartLabel string
}

// DefaultRenderer returns a top-down Renderer with the default start label.
func DefaultRenderer() Renderer {
	return Renderer{Direction: TopDown, StartLabel: DefaultStartLabel}
}

// Emit renders steps with DefaultRenderer.
func Emit(steps []Step) string {
	return DefaultRenderer().Emit(steps)
}

// Emit renders steps into Mermaid source.
//
// Output for "Gather requirements -> If tests pass, Deploy,Rollback":
//
//	graph TD;
//	N000([Start]) --> N001[Gather requirements];
//	N001 -->|Deploy| N002_1;
//	N001 -->|Rollback| N002_2;
//
// Each branch of a decision ends at its own leaf node. A step following a
// decision attaches to the decision's node (N002 above), not to a branch.
// Step text and branch labels are written verbatim; Mermaid metacharacters
// are not escaped.
//
// steps must satisfy the Segment invariants; Emit never fails for such input.
func (r Renderer) Emit(steps []Step) string {
	if r.Direction == "" {
		r.Direction = TopDown
	}
	if r.StartLabel == "" {
		r.StartLabel = DefaultStartLabel
	}

	var sb strings.Builder
	sb.WriteString("graph ")
	sb.WriteString(string(r.Direction))
	sb.WriteString(";\n")

	prev := NodeID(0)
	if len(steps) > 0 {
		prev += "([" + r.StartLabel + "])"
	}
	for i, step := range steps {
		prev = r.emitStep(&sb, prev, NodeID(i+1), step)
	}
	return sb.String()
}

// emitStep writes the edges of one step and returns the node later steps
// attach to. prev is the full left-hand side of the edge, which for the
// first step includes the start node's shape.
func (r Renderer) emitStep(sb *strings.Builder, prev, current string, step Step) string {
	switch s := step.(type) {
	case PlainStep:
		fmt.Fprintf(sb, "%s --> %s[%s];\n", prev, current, s.Text)
	case DecisionStep:
		for j, branch := range s.Branches {
			fmt.Fprintf(sb, "%s -->|%s| %s;\n", prev, branch, branchNodeID(current, j))
		}
	default:
		panic(unknownStep(step))
	}
	return current
}
