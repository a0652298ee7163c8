package diagram

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/procdiagram-go/diagram/emit"
)

// Request is the input record of a Generate call.
type Request struct {
	// Description is the process text, e.g. "Build -> Test -> If green, Ship".
	Description string `json:"description" validate:"required"`
}

// Diagram is the paired result of a Generate call.
//
// Code and Explanation are always rendered from the same step slice, so
// explanation line n describes edge group n of the code.
type Diagram struct {
	// Code is Mermaid flowchart source.
	Code string `json:"code"`

	// Explanation is the numbered prose explanation.
	Explanation string `json:"explanation"`

	// Steps is the number of steps the description was segmented into,
	// which is also the number of explanation lines after the header.
	Steps int `json:"-"`
}

// Generator runs the segment, emit and explain pipeline.
//
// A Generator is immutable after NewGenerator returns and is safe for
// concurrent use.
type Generator struct {
	segmenter Segmenter
	renderer  Renderer
	emitter   emit.Emitter
	metrics   *PrometheusMetrics
}

// NewGenerator creates a Generator. It returns the first option error.
//
// Example:
//
//	gen, err := diagram.NewGenerator(diagram.WithDirection(diagram.LeftRight))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	d, err := gen.Generate(ctx, diagram.Request{Description: "Order -> Pay -> Ship"})
func NewGenerator(opts ...Option) (*Generator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return &Generator{
		segmenter: cfg.segmenter,
		renderer:  cfg.renderer,
		emitter:   cfg.emitter,
		metrics:   cfg.metrics,
	}, nil
}

var defaultGenerator = &Generator{
	segmenter: DefaultSegmenter(),
	renderer:  DefaultRenderer(),
	emitter:   emit.NewNullEmitter(),
}

// Generate converts description into a Diagram with default settings.
//
// On error the returned Diagram is the zero value and the error is a
// *ParseError wrapping ErrEmptyInput or ErrMalformedDecision.
func Generate(description string) (Diagram, error) {
	return defaultGenerator.Generate(context.Background(), Request{Description: description})
}

// Generate converts req.Description into a Diagram.
//
// The description is segmented once; the diagram and the explanation are
// both rendered from that one step slice. A segmenter error stops the call
// before anything is rendered.
//
// ctx carries the run ID used in events (see WithRunID). A context that is
// already done returns its error without doing any work.
func (g *Generator) Generate(ctx context.Context, req Request) (Diagram, error) {
	if err := ctx.Err(); err != nil {
		return Diagram{}, err
	}

	start := time.Now()
	runID := RunIDFromContext(ctx)
	if runID == "" {
		runID = uuid.NewString()
	}

	g.emit(runID, "generate", 0, "generate_start", map[string]interface{}{
		"description_bytes": len(req.Description),
	})

	steps, err := g.segmenter.Segment(req.Description)
	if err != nil {
		g.fail(runID, err, time.Since(start))
		return Diagram{}, err
	}
	g.emit(runID, "segment", 0, "segment_done", map[string]interface{}{
		"steps":     len(steps),
		"decisions": countDecisions(steps),
		"branches":  CountBranches(steps),
	})

	code := g.renderer.Emit(steps)
	g.emit(runID, "emit", 0, "emit_done", map[string]interface{}{
		"edges": CountEdges(steps),
		"bytes": len(code),
	})

	explanation := Explain(steps)
	g.emit(runID, "explain", 0, "explain_done", map[string]interface{}{
		"lines": len(steps),
	})

	elapsed := time.Since(start)
	if g.metrics != nil {
		g.metrics.RecordSuccess(steps, elapsed)
	}
	g.emit(runID, "generate", 0, "generate_done", map[string]interface{}{
		"duration_ms": elapsed.Milliseconds(),
	})

	return Diagram{Code: code, Explanation: explanation, Steps: len(steps)}, nil
}

func (g *Generator) fail(runID string, err error, elapsed time.Duration) {
	code := "UNKNOWN"
	meta := map[string]interface{}{"error": err.Error()}
	position := 0

	var perr *ParseError
	if errors.As(err, &perr) {
		code = perr.Code
		position = perr.Position
		meta["segment"] = perr.Segment
	}
	meta["code"] = code

	if g.metrics != nil {
		g.metrics.RecordError(code, elapsed)
	}
	g.emit(runID, "segment", position, "generate_error", meta)
}

func (g *Generator) emit(runID, stage string, position int, msg string, meta map[string]interface{}) {
	g.emitter.Emit(emit.Event{
		RunID:    runID,
		Stage:    stage,
		Position: position,
		Msg:      msg,
		Meta:     meta,
	})
}

func countDecisions(steps []Step) int {
	n := 0
	for _, step := range steps {
		if _, ok := step.(DecisionStep); ok {
			n++
		}
	}
	return n
}

type runIDKey struct{}

// WithRunID returns a context whose Generate events carry runID.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFromContext returns the run ID set by WithRunID, or "".
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}
