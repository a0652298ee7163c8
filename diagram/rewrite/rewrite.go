// Package rewrite turns free prose into the arrow grammar that
// diagram.Generate accepts, using a chat model.
//
// The diagram package itself has no language understanding. A caller that
// starts from prose runs it through a Normalizer first:
//
//	n := rewrite.NewNormalizer(chatModel)
//	res, err := rewrite.Generate(ctx, n, gen, "First we collect the requirements, then ...")
//	fmt.Println(res.Normalized) // "Collect requirements -> ..."
//	fmt.Println(res.Diagram.Code)
package rewrite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/procdiagram-go/diagram"
	"github.com/dshills/procdiagram-go/diagram/model"
)

// ErrEmptyText is returned when the prose or the model reply is blank.
var ErrEmptyText = errors.New("rewrite: empty text")

// DefaultInstructions is the system prompt sent with every request.
const DefaultInstructions = `Rewrite the user's process description as a single line in this exact grammar:

  step -> step -> If condition, path1,path2

Rules:
- Separate steps with " -> " (space, arrow, space).
- A decision step starts with "If", then the condition, then ", " and then the path labels separated by "," with no spaces.
- Use short imperative phrases. Do not number the steps.
- Do not use "If" anywhere except at the start of a decision.
- Reply with the line only. No quotes, no markdown, no explanation.

Example:
Gather requirements -> Design system -> If tests pass, Deploy,Rollback`

// Normalizer rewrites prose with a ChatModel.
type Normalizer struct {
	Model model.ChatModel

	// Instructions overrides DefaultInstructions when non-empty.
	Instructions string
}

// NewNormalizer returns a Normalizer with the default instructions.
func NewNormalizer(m model.ChatModel) *Normalizer {
	return &Normalizer{Model: m}
}

// Normalize asks the model to rewrite text and cleans up the reply.
//
// Code fences are stripped. A reply spread over several lines is joined
// with the step delimiter.
func (n *Normalizer) Normalize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	if n.Model == nil {
		return "", errors.New("rewrite: normalizer has no model")
	}

	instructions := n.Instructions
	if instructions == "" {
		instructions = DefaultInstructions
	}

	out, err := n.Model.Chat(ctx, []model.Message{
		{Role: model.RoleSystem, Content: instructions},
		{Role: model.RoleUser, Content: text},
	})
	if err != nil {
		return "", fmt.Errorf("rewrite: chat failed: %w", err)
	}

	line := clean(out.Text)
	if line == "" {
		return "", ErrEmptyText
	}
	return line, nil
}

func clean(reply string) string {
	lines := strings.Split(strings.TrimSpace(reply), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		line = strings.Trim(line, "`\"")
		line = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, "->"), "->"))
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, diagram.DefaultStepDelimiter)
}

// Result pairs the normalised description with the diagram built from it.
type Result struct {
	Normalized string
	Diagram    diagram.Diagram
}

// Generate normalises text with n and runs gen on the result. A nil gen
// uses default settings.
//
// Errors from gen are returned unchanged, so errors.Is against
// diagram.ErrMalformedDecision still works when the model produced a bad
// decision. Result.Normalized is set whenever normalisation succeeded.
func Generate(ctx context.Context, n *Normalizer, gen *diagram.Generator, text string) (Result, error) {
	normalized, err := n.Normalize(ctx, text)
	if err != nil {
		return Result{}, err
	}

	if gen == nil {
		gen, err = diagram.NewGenerator()
		if err != nil {
			return Result{}, err
		}
	}

	d, err := gen.Generate(ctx, diagram.Request{Description: normalized})
	if err != nil {
		return Result{Normalized: normalized}, err
	}
	return Result{Normalized: normalized, Diagram: d}, nil
}
