package diagram

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusMetrics_Success(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewPrometheusMetrics(registry)
	gen, err := NewGenerator(WithMetrics(metrics))
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := gen.Generate(context.Background(), Request{Description: "A -> If x, B,C"}); err != nil {
			t.Fatalf("Generate: %v", err)
		}
	}

	if got := testutil.ToFloat64(metrics.generations.WithLabelValues("success")); got != 3 {
		t.Errorf("generations_total{success} = %v, want 3", got)
	}
	if got := testutil.ToFloat64(metrics.generations.WithLabelValues("error")); got != 0 {
		t.Errorf("generations_total{error} = %v, want 0", got)
	}
	if n := testutil.CollectAndCount(metrics.stepsPerDiagram); n != 1 {
		t.Errorf("steps_per_diagram series = %d, want 1", n)
	}
}

func TestPrometheusMetrics_Errors(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewPrometheusMetrics(registry)
	gen, _ := NewGenerator(WithMetrics(metrics))

	_, _ = gen.Generate(context.Background(), Request{Description: ""})
	_, _ = gen.Generate(context.Background(), Request{Description: "If x"})
	_, _ = gen.Generate(context.Background(), Request{Description: "If y"})

	if got := testutil.ToFloat64(metrics.parseErrors.WithLabelValues(CodeEmptyInput)); got != 1 {
		t.Errorf("parse_errors_total{EMPTY_INPUT} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.parseErrors.WithLabelValues(CodeMalformedDecision)); got != 2 {
		t.Errorf("parse_errors_total{MALFORMED_DECISION} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.generations.WithLabelValues("error")); got != 3 {
		t.Errorf("generations_total{error} = %v, want 3", got)
	}
}

func TestPrometheusMetrics_Disable(t *testing.T) {
	metrics := NewPrometheusMetrics(prometheus.NewRegistry())
	gen, _ := NewGenerator(WithMetrics(metrics))

	metrics.Disable()
	_, _ = gen.Generate(context.Background(), Request{Description: "A"})
	if got := testutil.ToFloat64(metrics.generations.WithLabelValues("success")); got != 0 {
		t.Errorf("recorded while disabled: %v", got)
	}

	metrics.Enable()
	_, _ = gen.Generate(context.Background(), Request{Description: "A"})
	if got := testutil.ToFloat64(metrics.generations.WithLabelValues("success")); got != 1 {
		t.Errorf("generations_total{success} = %v, want 1", got)
	}
}
