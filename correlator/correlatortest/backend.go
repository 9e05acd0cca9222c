// Package correlatortest provides an in-memory tracing backend for
// correlator tests, playing the role the teacher's ddtrace/mocktracer
// package plays for dd-trace-go: something test code can assert spans
// against without talking to a real OTLP collector.
package correlatortest

import (
	"context"
	"sync"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Backend is a correlator.Backend backed by an OTel SDK TracerProvider
// wired to an in-memory exporter, so finished spans can be inspected
// directly instead of parsed back off the wire.
type Backend struct {
	tp       *sdktrace.TracerProvider
	tracer   oteltrace.Tracer
	exporter *recordingExporter
}

// New builds a fresh in-memory backend. Each Backend is independent;
// tests should build a new one per test case.
func New() *Backend {
	exp := &recordingExporter{}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exp),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	return &Backend{
		tp:       tp,
		tracer:   tp.Tracer("correlatortest"),
		exporter: exp,
	}
}

// Tracer implements correlator.Backend.
func (b *Backend) Tracer() oteltrace.Tracer { return b.tracer }

// Spans returns every span that has been exported (i.e. stopped) so
// far, in export order.
func (b *Backend) Spans() []sdktrace.ReadOnlySpan {
	return b.exporter.snapshot()
}

// Reset clears recorded spans, mainly for table-driven tests that reuse
// one Backend across subtests.
func (b *Backend) Reset() {
	b.exporter.reset()
}

// Shutdown releases the underlying TracerProvider.
func (b *Backend) Shutdown(ctx context.Context) error {
	return b.tp.Shutdown(ctx)
}

type recordingExporter struct {
	mu    sync.Mutex
	spans []sdktrace.ReadOnlySpan
}

func (e *recordingExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spans = append(e.spans, spans...)
	return nil
}

func (e *recordingExporter) Shutdown(_ context.Context) error { return nil }

func (e *recordingExporter) snapshot() []sdktrace.ReadOnlySpan {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]sdktrace.ReadOnlySpan, len(e.spans))
	copy(out, e.spans)
	return out
}

func (e *recordingExporter) reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spans = nil
}
