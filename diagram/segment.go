package diagram

import (
	"strings"
	"unicode"
)

// Default grammar of a process description.
const (
	// DefaultStepDelimiter separates consecutive steps.
	DefaultStepDelimiter = " -> "

	// DefaultDecisionMarker classifies a segment as a decision.
	DefaultDecisionMarker = "If"

	// DefaultConditionDelimiter separates a decision's condition from its paths.
	DefaultConditionDelimiter = ", "

	// DefaultBranchDelimiter separates a decision's paths.
	DefaultBranchDelimiter = ","
)

// Segmenter splits a description into steps.
//
// The zero value is not usable; start from DefaultSegmenter.
//
// Grammar:
//
//	description := segment { " -> " segment }
//	segment     := plain | decision
//	decision    := condition ", " branch { "," branch }   (condition contains "If")
//
// Example:
//
//	steps, err := diagram.DefaultSegmenter().Segment(
//	    "Gather requirements -> Design system -> If tests pass, Deploy,Rollback")
//	// steps[0] = PlainStep{Text: "Gather requirements"}
//	// steps[1] = PlainStep{Text: "Design system"}
//	// steps[2] = DecisionStep{Condition: "If tests pass", Branches: ["Deploy", "Rollback"]}
type Segmenter struct {
	StepDelimiter      string
	DecisionMarker     string
	ConditionDelimiter string
	BranchDelimiter    string
}

// DefaultSegmenter returns a Segmenter using the default grammar.
func DefaultSegmenter() Segmenter {
	return Segmenter{
		StepDelimiter:      DefaultStepDelimiter,
		DecisionMarker:     DefaultDecisionMarker,
		ConditionDelimiter: DefaultConditionDelimiter,
		BranchDelimiter:    DefaultBranchDelimiter,
	}
}

// Segment splits description into steps with the default grammar.
func Segment(description string) ([]Step, error) {
	return DefaultSegmenter().Segment(description)
}

// Segment splits description into an ordered, non-empty slice of steps.
//
// Leading and trailing whitespace of the whole description is ignored,
// but a leading or trailing step delimiter leaves a blank segment.
// Segment text is otherwise kept verbatim; branch labels are trimmed.
//
// Returns a *ParseError wrapping ErrEmptyInput when the description or any
// segment is blank, or wrapping ErrMalformedDecision when a decision segment
// has no condition delimiter or a blank branch. No partial slice is returned
// on error.
func (s Segmenter) Segment(description string) ([]Step, error) {
	if strings.TrimSpace(description) == "" {
		return nil, emptyInput(0, "", "description is empty")
	}

	// Only the outer edges are trimmed, so a leading or trailing delimiter
	// still yields a blank first or last segment.
	segments := strings.Split(description, s.StepDelimiter)
	segments[0] = strings.TrimLeftFunc(segments[0], unicode.IsSpace)
	last := len(segments) - 1
	segments[last] = strings.TrimRightFunc(segments[last], unicode.IsSpace)

	steps := make([]Step, 0, len(segments))
	for i, seg := range segments {
		step, err := s.classify(i+1, seg)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// classify turns one raw segment into a Step. position is 1-based.
func (s Segmenter) classify(position int, seg string) (Step, error) {
	if strings.TrimSpace(seg) == "" {
		return nil, emptyInput(position, seg, "segment is empty")
	}

	if !strings.Contains(seg, s.DecisionMarker) {
		return PlainStep{Text: seg}, nil
	}

	condition, paths, found := strings.Cut(seg, s.ConditionDelimiter)
	if !found {
		return nil, malformedDecision(position, seg,
			"decision has no "+quoteDelimiter(s.ConditionDelimiter)+" between condition and paths")
	}

	if strings.TrimSpace(paths) == "" {
		return nil, malformedDecision(position, seg, "decision has no paths")
	}

	raw := strings.Split(paths, s.BranchDelimiter)
	branches := make([]string, 0, len(raw))
	for _, b := range raw {
		b = strings.TrimSpace(b)
		if b == "" {
			return nil, malformedDecision(position, seg, "decision has an empty path")
		}
		branches = append(branches, b)
	}
	return DecisionStep{Condition: condition, Branches: branches}, nil
}

func quoteDelimiter(d string) string {
	return `"` + d + `"`
}
