package correlator

import (
	"fmt"
	"strconv"
	"sync/atomic"
)

// SystemContext is a polymorphic handle over "anything with a log
// counter": both *ProcessContext and *ActorContext satisfy it (spec
// §4.4).
type SystemContext interface {
	Key() string
	IncrementLogCount() int64
	LogCount() int64
}

// ProcessContext identifies a live process: its pid, its Process
// artifact, and its log counter. ContextID is the stable key
// "proc:"+image-path+":"+process-id.
type ProcessContext struct {
	PID       int64
	Artifact  Artifact
	ContextID string

	logCount int64
}

// NewProcessContext validates image and builds a ProcessContext.
func NewProcessContext(pid int64, image string) (*ProcessContext, error) {
	art, err := NewArtifact(KindProcess, image)
	if err != nil {
		return nil, err
	}
	return &ProcessContext{
		PID:       pid,
		Artifact:  art,
		ContextID: "proc:" + image + ":" + strconv.FormatInt(pid, 10),
	}, nil
}

func (p *ProcessContext) Key() string { return p.ContextID }

func (p *ProcessContext) IncrementLogCount() int64 {
	return atomic.AddInt64(&p.logCount, 1)
}

func (p *ProcessContext) LogCount() int64 {
	return atomic.LoadInt64(&p.logCount)
}

// ActorContext identifies a subject-verb-object relation: the owning
// process acting on artifact via actorType. Key is the stable
// "actor:"+actor-type+":"+artifact.kind+":"+artifact.name. Two events
// producing the same key within the same process and direction MUST
// coalesce onto the same span (spec §3).
type ActorContext struct {
	Artifact  Artifact
	ActorType ActorType
	actorKey  string

	logCount int64
}

// NewActorContext validates actorType and builds an ActorContext.
func NewActorContext(art Artifact, actorType ActorType) (*ActorContext, error) {
	if actorType == ActorUndefined {
		return nil, fmt.Errorf("actor type is undefined: %w", ErrInvalidArgument)
	}
	return &ActorContext{
		Artifact:  art,
		ActorType: actorType,
		actorKey:  "actor:" + actorType.String() + ":" + art.key(),
	}, nil
}

func (a *ActorContext) Key() string { return a.actorKey }

func (a *ActorContext) IncrementLogCount() int64 {
	return atomic.AddInt64(&a.logCount, 1)
}

func (a *ActorContext) LogCount() int64 {
	return atomic.LoadInt64(&a.logCount)
}
