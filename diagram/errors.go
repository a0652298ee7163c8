package diagram

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrEmptyInput indicates that the description is empty or that a segment
// between two delimiters has no text.
var ErrEmptyInput = errors.New("description contains no steps")

// ErrMalformedDecision indicates that a segment carries the decision marker
// but has no condition/paths delimiter, or yields no usable branch labels.
var ErrMalformedDecision = errors.New("malformed decision segment")

// Error codes carried by ParseError.
const (
	CodeEmptyInput        = "EMPTY_INPUT"
	CodeMalformedDecision = "MALFORMED_DECISION"
)

// ParseError reports a Segmenter failure.
//
// It always wraps one of the sentinel errors, so callers can branch with
// errors.Is and still show the offending segment:
//
//	_, err := diagram.Generate(text)
//	var perr *diagram.ParseError
//	if errors.As(err, &perr) {
//	    fmt.Printf("%s at segment %d: %q\n", perr.Code, perr.Position, perr.Segment)
//	}
//	if errors.Is(err, diagram.ErrMalformedDecision) {
//	    // ...
//	}
type ParseError struct {
	// Code is CodeEmptyInput or CodeMalformedDecision.
	Code string

	// Message describes the failure.
	Message string

	// Position is the 1-based segment position, 0 for the whole description.
	Position int

	// Segment is the raw offending segment text.
	Segment string

	// Err is the wrapped sentinel.
	Err error
}

func (e *ParseError) Error() string {
	msg := e.Code + ": " + e.Message
	if e.Position > 0 {
		msg += " (segment " + strconv.Itoa(e.Position) + ": " + strconv.Quote(e.Segment) + ")"
	}
	return msg
}

// Unwrap returns the wrapped sentinel error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

func emptyInput(position int, segment, message string) *ParseError {
	return &ParseError{
		Code:     CodeEmptyInput,
		Message:  message,
		Position: position,
		Segment:  segment,
		Err:      ErrEmptyInput,
	}
}

func malformedDecision(position int, segment, message string) *ParseError {
	return &ParseError{
		Code:     CodeMalformedDecision,
		Message:  message,
		Position: position,
		Segment:  segment,
		Err:      ErrMalformedDecision,
	}
}

// ConfigError reports an invalid Generator option.
type ConfigError struct {
	Message string
	Code    string
}

func (e *ConfigError) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return e.Message
}

func unknownStep(step Step) string {
	return fmt.Sprintf("diagram: unknown step type %T", step)
}
