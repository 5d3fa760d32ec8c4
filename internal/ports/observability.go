package ports

import "context"

// MetricsCollector records quantitative observability signals. The interface is
// intentionally generic so adapters can back onto Prometheus, StatsD, or
// vendor-specific SDKs. Standard metric names include:
//   - Counters:
//     formengine_compilations_total{status="success|failure"}
//     formengine_transitions_total{kind="load|access|action|submit", status="success|failure"}
//     formengine_validation_checks_total{status="pass|fail"}
//   - Gauges:
//     formengine_active_evaluations
//   - Histograms:
//     formengine_compile_duration_seconds
//     formengine_transition_duration_seconds{kind="..."}
//     formengine_thunk_evaluation_duration_seconds{subkind="..."}
type MetricsCollector interface {
	IncCounter(ctx context.Context, name string, labels map[string]string)
	SetGauge(ctx context.Context, name string, value float64, labels map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, labels map[string]string)
}

// Tracer manages distributed tracing spans. Span names follow the convention
// `<component>.<operation>` (e.g., `form.compile`, `transition.submit`,
// `thunk.evaluate`). Adapters should propagate correlation IDs and integrate
// with the chosen tracing backend.
type Tracer interface {
	StartSpan(ctx context.Context, name string, attributes ...interface{}) (context.Context, Span)
	Inject(ctx context.Context, carrier interface{}) error
	Extract(ctx context.Context, carrier interface{}) (context.Context, error)
}

// Span represents an active tracing span.
type Span interface {
	SetAttribute(key string, value interface{})
	SetStatus(status SpanStatus, message string)
	End()
}

// SpanStatus provides strongly typed span result semantics.
type SpanStatus string

const (
	SpanStatusOK    SpanStatus = "ok"
	SpanStatusError SpanStatus = "error"
)
