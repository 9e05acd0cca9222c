package correlator

import "fmt"

// ProcessActivityContext bundles one process span with its two
// direction-partitioned actor maps, and owns the lifecycle of all child
// actor spans for one live process (spec §4.4).
type ProcessActivityContext struct {
	ProcessSpan    *Span
	ProcessContext *ProcessContext

	rr *ActorMap
	ws *ActorMap
}

// NewProcessActivityContext builds the bundle for a freshly-registered
// process.
func NewProcessActivityContext(tracer *Tracer, span *Span, pctx *ProcessContext) *ProcessActivityContext {
	return &ProcessActivityContext{
		ProcessSpan:    span,
		ProcessContext: pctx,
		rr:             NewActorMap(DirectionReadRecv, tracer),
		ws:             NewActorMap(DirectionWriteSend, tracer),
	}
}

// UpsertActivity dispatches to the appropriate actor map based on
// actorType's direction. If actorType is NotActor, it returns the
// process span/context unchanged -- the path for events that belong
// directly to the process itself (spec §4.4).
func (p *ProcessActivityContext) UpsertActivity(artifact Artifact, actorType ActorType) (*Span, SystemContext, error) {
	dir, ok := DirectionOf(actorType)
	if !ok {
		return nil, nil, fmt.Errorf("actor type %s has no known direction: %w", actorType, ErrUnsupported)
	}
	switch dir {
	case DirectionNotActor:
		return p.ProcessSpan, p.ProcessContext, nil
	case DirectionReadRecv:
		span, ctx, err := p.rr.Upsert(p.ProcessSpan, artifact, actorType)
		if err != nil {
			return nil, nil, err
		}
		return span, ctx, nil
	case DirectionWriteSend:
		span, ctx, err := p.ws.Upsert(p.ProcessSpan, artifact, actorType)
		if err != nil {
			return nil, nil, err
		}
		return span, ctx, nil
	default:
		return nil, nil, fmt.Errorf("unhandled actor direction %s: %w", dir, ErrUnsupported)
	}
}

// Flush stops both actor maps' spans, then clears internal references to
// the process span/context. It does not stop the process span itself;
// that is the registry's responsibility, since it must write a final
// log.count tag after last-event semantics (spec §4.4).
func (p *ProcessActivityContext) Flush() error {
	var firstErr error
	if err := p.rr.Flush(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := p.ws.Flush(); err != nil && firstErr == nil {
		firstErr = err
	}
	p.ProcessSpan = nil
	p.ProcessContext = nil
	return firstErr
}
