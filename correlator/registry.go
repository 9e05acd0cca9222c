package correlator

import (
	"fmt"
	"sync"

	corlog "github.com/hongsam14/nanolite-agent-sub001/internal/log"
)

// Registry is the heart of the correlator: a process-id -> process
// activity context map, handling launch/terminate/action dispatch and
// parent linkage (spec §4.5).
//
// The registry is logically single-writer (spec §5): callers are
// expected to serialize access through one dispatcher goroutine. The
// mutex below exists so the registry is also safe to exercise directly
// from tests without standing up a dispatcher.
type Registry struct {
	mu      sync.Mutex
	tracer  *Tracer
	procs   map[int64]*ProcessActivityContext
	flushed bool
}

// NewRegistry builds an empty registry bound to tracer.
func NewRegistry(tracer *Tracer) *Registry {
	return &Registry{
		tracer: tracer,
		procs:  make(map[int64]*ProcessActivityContext),
	}
}

// Len reports the number of live processes, mainly for tests.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.procs)
}

// OnLaunch handles a process-launch event (spec §4.5).
func (r *Registry) OnLaunch(pid, parentPID int64, image string, decodedLog map[string]interface{}) error {
	if image == "" || decodedLog == nil {
		return fmt.Errorf("on_launch: image/decoded_log required: %w", ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.procs[pid]; ok {
		// Duplicate launch: treated as a late event on the same process.
		// We re-run upsert (which just returns the existing span/context
		// unchanged) and attach the log -- we do not re-parent. Spec §9
		// open question #1: this ambiguity in the source is preserved
		// deliberately rather than guessed at.
		span, sysCtx, err := existing.UpsertActivity(existing.ProcessContext.Artifact, NotActor)
		if err != nil {
			return err
		}
		return attachLog(span, sysCtx, decodedLog)
	}

	pctx, err := NewProcessContext(pid, image)
	if err != nil {
		return err
	}

	var span *Span
	if parent, ok := r.procs[parentPID]; ok {
		span, err = r.tracer.CreateChild(parent.ProcessSpan, image)
	} else {
		span, err = r.tracer.CreateChild(nil, image)
	}
	if err != nil {
		return err
	}
	if err := span.SetTag("act.type", "launch"); err != nil {
		return err
	}
	if err := span.Start(); err != nil {
		return err
	}

	activity := NewProcessActivityContext(r.tracer, span, pctx)
	r.procs[pid] = activity

	if err := attachLog(span, pctx, decodedLog); err != nil {
		return err
	}
	corlog.Get().WithFields(map[string]interface{}{"pid": pid, "ppid": parentPID, "image": image}).Debugf("process launched")
	return nil
}

// OnTerminate handles a process-terminate event (spec §4.5). Termination
// of an untracked process is silently dropped, not an error.
func (r *Registry) OnTerminate(pid int64, decodedLog map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.procs[pid]
	if !ok {
		return nil
	}

	span, sysCtx, err := activity.UpsertActivity(activity.ProcessContext.Artifact, NotActor)
	if err != nil {
		return err
	}

	// Note §9 #2 fixes the ordering explicitly: (a) attach terminate log,
	// (b) tag log.count, (c) flush actor children, (d) stop process span.
	if err := attachLog(span, sysCtx, decodedLog); err != nil {
		return err
	}
	if err := span.SetTag("log.count", sysCtx.LogCount()); err != nil {
		return err
	}
	if err := activity.Flush(); err != nil {
		return err
	}
	if err := span.Stop(); err != nil {
		return err
	}

	delete(r.procs, pid)
	corlog.Get().WithField("pid", pid).Debugf("process terminated")
	return nil
}

// OnAction handles an action event attributed to a subject process
// acting on an object artifact (spec §4.5). Unknown event codes fail
// ErrUnsupported; actions on untracked processes are dropped silently.
func (r *Registry) OnAction(pid int64, target string, code EventCode, decodedLog map[string]interface{}) error {
	actorType, kind, err := ResolveEventCode(code)
	if err != nil {
		corlog.Get().WithField("event_code", code).Warnf("unsupported event code")
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.procs[pid]
	if !ok {
		return nil
	}

	artifact, err := NewArtifact(kind, target)
	if err != nil {
		return err
	}

	span, sysCtx, err := activity.UpsertActivity(artifact, actorType)
	if err != nil {
		return err
	}
	return attachLog(span, sysCtx, decodedLog)
}

// Flush stops every live process (flushing its actor children first,
// then its process span), then empties the registry. Safe to call
// multiple times; subsequent calls are no-ops.
func (r *Registry) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.flushed && len(r.procs) == 0 {
		return nil
	}

	var firstErr error
	for pid, activity := range r.procs {
		span := activity.ProcessSpan
		if span != nil {
			if err := span.SetTag("log.count", activity.ProcessContext.LogCount()); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		if err := activity.Flush(); err != nil && firstErr == nil {
			firstErr = err
		}
		if span != nil {
			if err := span.Stop(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		delete(r.procs, pid)
	}
	r.flushed = true
	return firstErr
}

func attachLog(span *Span, sysCtx SystemContext, decodedLog map[string]interface{}) error {
	if err := span.AttachLog(decodedLog); err != nil {
		return err
	}
	sysCtx.IncrementLogCount()
	return nil
}
