package correlator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	corlog "github.com/hongsam14/nanolite-agent-sub001/internal/log"
)

// SpanState is the lifecycle of a Span handle: Created -> Running ->
// Stopped. Transitions are one-way (spec §4.2).
type SpanState int32

const (
	SpanCreated SpanState = iota
	SpanRunning
	SpanStopped
)

func (s SpanState) String() string {
	switch s {
	case SpanRunning:
		return "Running"
	case SpanStopped:
		return "Stopped"
	default:
		return "Created"
	}
}

// Backend is the abstraction over the tracing library that actually
// mints identifiers and ships finished spans toward a collector.
// Production code wires exporter.Backend (an OTel SDK TracerProvider);
// tests wire correlatortest.Backend.
type Backend interface {
	Tracer() oteltrace.Tracer
}

// Tracer is the C2 "span context" abstraction: a thin wrapper over the
// OTel-compatible backend that the rest of the correlator talks to
// instead of the raw OTel API. Span identity is opaque to callers except
// for the handle needed for parent linkage.
type Tracer struct {
	backend oteltrace.Tracer
}

// NewTracer builds a Tracer bound to a concrete backend.
func NewTracer(b Backend) (*Tracer, error) {
	if b == nil {
		return nil, fmt.Errorf("nil backend: %w", ErrBackendUnavailable)
	}
	t := b.Tracer()
	if t == nil {
		return nil, fmt.Errorf("backend returned nil tracer: %w", ErrBackendUnavailable)
	}
	return &Tracer{backend: t}, nil
}

// Span wraps an OTel-compatible span: trace-id, span-id, optional
// parent-span-id, start/end time, tag map and attached log records
// (spec §3). The log count is carried as a tag, not as a field here.
//
// Spans created via CreateChild start in the Created state without a
// real backend identity. Start assigns real identifiers. Actor spans
// are deliberately left in Created state until Stop (see design note on
// "created but never started" in spec §9); Stop resolves that case by
// starting the span retroactively at its recorded creation time, since
// the OTel SDK backend this agent ships with has no "stop without
// start" primitive.
type Span struct {
	mu sync.Mutex

	tracer   *Tracer
	name     string
	state    SpanState
	created  time.Time
	parentSC oteltrace.SpanContext

	otelSpan oteltrace.Span
	sc       oteltrace.SpanContext

	tags        map[string]interface{}
	pendingLogs []pendingLog
}

// pendingLog is a log record attached before the span had a real OTel
// identity (the actor-span case: AttachLog is called repeatedly while
// the span sits in Created state, and only replayed once Start/Stop
// gives it a backing otelSpan).
type pendingLog struct {
	at     time.Time
	record map[string]interface{}
}

// CreateChild creates a new span. If parent is non-nil its trace-id is
// inherited and parent-span-id is set to the parent's span-id;
// otherwise a fresh trace-id is used once the span is actually started.
// Creation does not start the clock (spec §4.2).
func (t *Tracer) CreateChild(parent *Span, name string) (*Span, error) {
	if t == nil || t.backend == nil {
		return nil, fmt.Errorf("tracer not initialized: %w", ErrBackendUnavailable)
	}
	if name == "" {
		return nil, fmt.Errorf("span name is empty: %w", ErrInvalidArgument)
	}
	s := &Span{
		tracer:  t,
		name:    name,
		state:   SpanCreated,
		created: now(),
		tags:    make(map[string]interface{}),
	}
	if parent != nil {
		parent.mu.Lock()
		s.parentSC = parent.sc
		parent.mu.Unlock()
	}
	return s, nil
}

// Start records start-time and transitions Created -> Running. Fails
// ErrInvalidState if the span is not Created.
func (s *Span) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startLocked(s.created)
}

func (s *Span) startLocked(at time.Time) error {
	if s.state != SpanCreated {
		return fmt.Errorf("span %q not in Created state: %w", s.name, ErrInvalidState)
	}
	ctx := context.Background()
	opts := []oteltrace.SpanStartOption{oteltrace.WithTimestamp(at), oteltrace.WithSpanKind(oteltrace.SpanKindInternal)}
	if s.parentSC.IsValid() {
		ctx = oteltrace.ContextWithSpanContext(ctx, s.parentSC)
	} else {
		opts = append(opts, oteltrace.WithNewRoot())
	}
	_, otelSpan := s.tracer.backend.Start(ctx, s.name, opts...)
	s.otelSpan = otelSpan
	s.sc = otelSpan.SpanContext()
	for k, v := range s.tags {
		otelSpan.SetAttributes(toAttribute(k, v))
	}
	for _, pl := range s.pendingLogs {
		otelSpan.AddEvent("log", oteltrace.WithTimestamp(pl.at), oteltrace.WithAttributes(attribute.String("log.body", fmt.Sprint(pl.record))))
	}
	s.pendingLogs = nil
	s.state = SpanRunning
	return nil
}

// SetTag sets a tag. Allowed in Created or Running state.
func (s *Span) SetTag(key string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SpanStopped {
		return fmt.Errorf("span %q is stopped: %w", s.name, ErrInvalidState)
	}
	s.tags[key] = value
	if s.state == SpanRunning && s.otelSpan != nil {
		s.otelSpan.SetAttributes(toAttribute(key, value))
	}
	return nil
}

// AttachLog records a decoded log record as a span event carrying
// log.body. The span's log-count tag (spec invariant 4) is the owning
// SystemContext's counter, written via SetTag before Stop -- not tracked
// independently here, so there is exactly one counter per actor/process
// rather than two that could drift apart.
//
// Actor spans accumulate events while still in Created state (spec §9
// note #3: they are never explicitly started); those events are queued
// and replayed with their original timestamps once the span actually
// starts, whether via Start or Stop's retroactive start.
func (s *Span) AttachLog(record map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SpanStopped {
		return fmt.Errorf("span %q is stopped: %w", s.name, ErrInvalidState)
	}
	if s.state == SpanRunning && s.otelSpan != nil {
		s.otelSpan.AddEvent("log", oteltrace.WithAttributes(attribute.String("log.body", fmt.Sprint(record))))
		return nil
	}
	s.pendingLogs = append(s.pendingLogs, pendingLog{at: now(), record: record})
	return nil
}

// Stop records end-time and flushes to the exporter; Running -> Stopped.
// If the span was never started (the actor-span case), it is started
// retroactively at its recorded creation time first, so the backend
// always sees a well-formed start/end pair.
func (s *Span) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case SpanStopped:
		// Idempotent from the correlator's perspective (spec invariant 6):
		// the owning container guards against double-destruction, so a
		// second Stop here is a no-op rather than an error.
		return nil
	case SpanCreated:
		if err := s.startLocked(s.created); err != nil {
			return err
		}
	}
	end := now()
	if end.Before(s.created) {
		end = s.created
	}
	s.otelSpan.End(oteltrace.WithTimestamp(end))
	s.state = SpanStopped
	corlog.Get().WithField("span", s.name).Debugf("span stopped")
	return nil
}

// State returns the span's current lifecycle state.
func (s *Span) State() SpanState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SpanContext returns the span's OTel span context. It is the zero value
// until the span has been started.
func (s *Span) SpanContext() oteltrace.SpanContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sc
}

func toAttribute(key string, value interface{}) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case bool:
		return attribute.Bool(key, v)
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}

// now is a seam over time.Now so tests can be made deterministic if
// needed; production always uses wall-clock time.
var now = time.Now
