package diagram

import "github.com/dshills/procdiagram-go/diagram/emit"

// Option is a functional option for configuring a Generator.
//
// Example:
//
//	gen, err := diagram.NewGenerator(
//	    diagram.WithDirection(diagram.LeftRight),
//	    diagram.WithEmitter(emit.NewLogEmitter(os.Stderr, true)),
//	)
type Option func(*generatorConfig) error

// generatorConfig collects options before they are applied to a Generator.
type generatorConfig struct {
	segmenter Segmenter
	renderer  Renderer
	emitter   emit.Emitter
	metrics   *PrometheusMetrics
}

func defaultConfig() generatorConfig {
	return generatorConfig{
		segmenter: DefaultSegmenter(),
		renderer:  DefaultRenderer(),
		emitter:   emit.NewNullEmitter(),
	}
}

// WithEmitter sends pipeline events to e.
//
// Default: emit.NullEmitter.
func WithEmitter(e emit.Emitter) Option {
	return func(cfg *generatorConfig) error {
		if e == nil {
			return &ConfigError{Message: "emitter cannot be nil", Code: "NIL_EMITTER"}
		}
		cfg.emitter = e
		return nil
	}
}

// WithMetrics enables Prometheus metrics collection.
//
// Example:
//
//	registry := prometheus.NewRegistry()
//	gen, _ := diagram.NewGenerator(diagram.WithMetrics(diagram.NewPrometheusMetrics(registry)))
//	http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
func WithMetrics(metrics *PrometheusMetrics) Option {
	return func(cfg *generatorConfig) error {
		cfg.metrics = metrics
		return nil
	}
}

// WithDecisionMarker changes the substring that classifies a segment as a
// decision.
//
// Default: "If". Matching is case-sensitive.
func WithDecisionMarker(marker string) Option {
	return func(cfg *generatorConfig) error {
		if marker == "" {
			return &ConfigError{Message: "decision marker cannot be empty", Code: "EMPTY_MARKER"}
		}
		cfg.segmenter.DecisionMarker = marker
		return nil
	}
}

// WithDirection sets the flowchart orientation.
//
// Default: TopDown.
func WithDirection(d Direction) Option {
	return func(cfg *generatorConfig) error {
		if !d.Valid() {
			return &ConfigError{Message: "unknown flowchart direction: " + string(d), Code: "INVALID_DIRECTION"}
		}
		cfg.renderer.Direction = d
		return nil
	}
}

// WithStartLabel sets the label of the start node.
//
// Default: "Start".
func WithStartLabel(label string) Option {
	return func(cfg *generatorConfig) error {
		if label == "" {
			return &ConfigError{Message: "start label cannot be empty", Code: "EMPTY_START_LABEL"}
		}
		cfg.renderer.StartLabel = label
		return nil
	}
}
