// Package diagram turns short process descriptions into Mermaid flowcharts.
//
// A description is a list of steps joined by " -> ". A step containing "If"
// is a decision: its condition, then ", ", then comma-separated paths.
//
//	d, err := diagram.Generate("Gather requirements -> Design system -> If tests pass, Deploy,Rollback")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(d.Code)
//	// graph TD;
//	// N000([Start]) --> N001[Gather requirements];
//	// N001 --> N002[Design system];
//	// N002 -->|Deploy| N003_1;
//	// N002 -->|Rollback| N003_2;
//	fmt.Print(d.Explanation)
//	// Explanation of the diagram:
//	// Step 1: Gather requirements
//	// Step 2: Design system
//	// Decision at Step 3: If tests pass with paths Deploy, Rollback
//
// # Pipeline
//
// Generate runs three stages in order:
//   - Segment splits the text into []Step (PlainStep or DecisionStep)
//   - Emit renders the steps into Mermaid source
//   - Explain renders the same steps into numbered prose
//
// Each stage is also exported for callers that need only one of them.
// Segment is the only stage that fails; Emit and Explain are total over
// any slice Segment returns.
//
// # Decisions
//
// Every branch of a decision ends at its own leaf node. Steps after a
// decision continue from the decision's node, not from one of its branches,
// and no merge node is inserted.
//
// # Start node
//
// The first edge always leaves a start node, N000([Start]), so a
// description of N plain steps yields exactly N edges and step n is node
// N<n>. Output from renderers that link step 1 to itself (A --> A[...])
// therefore differs on its first line. WithStartLabel changes the label;
// the node itself is always present.
//
// # Configuration
//
// NewGenerator accepts functional options for the decision marker, flowchart
// direction, start node label, an event emitter (package emit) and
// Prometheus metrics.
//
// # Limitations
//
// Text is embedded verbatim. Characters that Mermaid treats specially, such
// as brackets or pipes, are not escaped and may produce invalid source.
package diagram
