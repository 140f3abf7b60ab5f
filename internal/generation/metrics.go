package generation

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	callsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskline_generation_calls_total",
			Help: "Generation service calls by component and outcome",
		},
		[]string{"component", "outcome"},
	)

	callDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "riskline_generation_call_duration_seconds",
			Help:    "Generation service call latency in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"component"},
	)

	fallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskline_fallbacks_total",
			Help: "Deterministic fallbacks taken by component and reason",
		},
		[]string{"component", "reason"},
	)
)

// Fallback reasons.
const (
	ReasonUnavailable = "unavailable"
	ReasonCallFailed  = "call_failed"
	ReasonParseMiss   = "parse_miss"
)

// RecordFallback counts a fallback taken by a component.
func RecordFallback(component, reason string) {
	fallbacksTotal.WithLabelValues(component, reason).Inc()
}

type instrumented struct {
	next      Client
	component string
}

// Instrument wraps c so every call is counted and timed under component.
func Instrument(c Client, component string) Client {
	if component == "" {
		component = "unknown"
	}
	return &instrumented{next: c, component: component}
}

func (i *instrumented) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	out, err := i.next.Generate(ctx, prompt)
	callDuration.WithLabelValues(i.component).Observe(time.Since(start).Seconds())

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	callsTotal.WithLabelValues(i.component, outcome).Inc()
	return out, err
}
