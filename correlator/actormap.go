package correlator

import "fmt"

// actorEntry pairs a live actor span with the context that owns its log
// counter.
type actorEntry struct {
	span *Span
	ctx  *ActorContext
}

// ActorMap is a per-(process, direction) deduplicating map from
// actor-key to open actor span (spec §4.3). Entries within the map are
// independent of each other; flush order is unspecified.
type ActorMap struct {
	direction ActorDirection
	tracer    *Tracer
	entries   map[string]*actorEntry
}

// NewActorMap builds an empty map fixed to one direction. Upsert rejects
// actor types of any other direction with ErrInvalidActorDirection;
// ProcessActivityContext.UpsertActivity already picks the map by
// direction, so calls through it never hit that check.
func NewActorMap(direction ActorDirection, tracer *Tracer) *ActorMap {
	return &ActorMap{
		direction: direction,
		tracer:    tracer,
		entries:   make(map[string]*actorEntry),
	}
}

// Upsert returns the existing (span, context) for artifact/actorType if
// one is open, otherwise creates a child span of parentProcessSpan,
// tags it, stores it, and returns it. The span is not started by
// Upsert (spec §4.3): it is left in Created state until flush stops it.
func (m *ActorMap) Upsert(parentProcessSpan *Span, artifact Artifact, actorType ActorType) (*Span, *ActorContext, error) {
	dir, ok := DirectionOf(actorType)
	if !ok || dir != m.direction {
		return nil, nil, fmt.Errorf("actor type %s does not belong to %s map: %w", actorType, m.direction, ErrInvalidActorDirection)
	}

	actorCtx, err := NewActorContext(artifact, actorType)
	if err != nil {
		return nil, nil, err
	}

	if e, ok := m.entries[actorCtx.Key()]; ok {
		return e.span, e.ctx, nil
	}

	span, err := m.tracer.CreateChild(parentProcessSpan, spanNameForActor(actorType, artifact))
	if err != nil {
		return nil, nil, err
	}
	if err := span.SetTag("actor.direction", m.direction.String()); err != nil {
		return nil, nil, err
	}
	if err := span.SetTag("actor.type", actorType.String()); err != nil {
		return nil, nil, err
	}

	m.entries[actorCtx.Key()] = &actorEntry{span: span, ctx: actorCtx}
	return span, actorCtx, nil
}

// Flush writes each entry's log-count tag onto its span, stops the
// span, and drops the entry. After Flush the map is empty and reusable.
func (m *ActorMap) Flush() error {
	var firstErr error
	for key, e := range m.entries {
		if err := e.span.SetTag("log.count", e.ctx.LogCount()); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := e.span.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(m.entries, key)
	}
	return firstErr
}

// Len reports the number of open actor spans, mainly for tests.
func (m *ActorMap) Len() int { return len(m.entries) }

func spanNameForActor(t ActorType, art Artifact) string {
	return "actor." + t.String()
}
