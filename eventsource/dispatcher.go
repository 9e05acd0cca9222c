package eventsource

import (
	"context"
	"errors"
	"sync"

	corlog "github.com/hongsam14/nanolite-agent-sub001/internal/log"

	"github.com/hongsam14/nanolite-agent-sub001/correlator"
)

// Recorder is the subset of correlator.Recorder the dispatcher calls
// into. Defined locally so tests can substitute a smaller fake without
// standing up a real tracing backend.
type Recorder interface {
	OnLaunch(pid, parentPID int64, image string, decodedLog map[string]interface{}) error
	OnTerminate(pid int64, decodedLog map[string]interface{}) error
	OnAction(pid int64, target string, code correlator.EventCode, decodedLog map[string]interface{}) error
	Flush() error
}

// Dispatcher is the single-writer goroutine described in spec §5: it
// fans in raw events from every attached Session onto one bounded
// channel, and is the only goroutine that ever calls into Recorder.
type Dispatcher struct {
	rec    Recorder
	decode Decoder
	pre    correlator.PreFilterChain
	post   correlator.PostFilterChain

	in   chan correlator.RawEvent
	done chan struct{}

	producers sync.WaitGroup
}

// NewDispatcher builds a Dispatcher. queueSize bounds the fan-in
// channel; producers block on send once it fills, which is the
// back-pressure mechanism spec §5 assumes.
func NewDispatcher(rec Recorder, decode Decoder, pre correlator.PreFilterChain, post correlator.PostFilterChain, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Dispatcher{
		rec:    rec,
		decode: decode,
		pre:    pre,
		post:   post,
		in:     make(chan correlator.RawEvent, queueSize),
		done:   make(chan struct{}),
	}
}

// Attach starts a goroutine that copies s's events onto the dispatcher's
// fan-in channel until s closes its channel or ctx is cancelled.
func (d *Dispatcher) Attach(ctx context.Context, s Session) {
	d.producers.Add(1)
	go func() {
		defer d.producers.Done()
		events := s.Events()
		for {
			select {
			case e, ok := <-events:
				if !ok {
					return
				}
				if d.pre != nil && !d.pre.Allow(e) {
					continue
				}
				select {
				case d.in <- e:
				case <-ctx.Done():
					return
				case <-d.done:
					return
				}
			case <-ctx.Done():
				return
			case <-d.done:
				return
			}
		}
	}()
}

// Run drains the fan-in channel and calls into Recorder, one event at a
// time, until ctx is cancelled. It is the only goroutine permitted to
// touch Recorder (spec §5's single-writer requirement). Run returns once
// ctx is done; callers should follow it with Shutdown to drain any
// remaining buffered events and flush.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case e := <-d.in:
			d.dispatch(e)
		case <-ctx.Done():
			return
		}
	}
}

func (d *Dispatcher) dispatch(e correlator.RawEvent) {
	env, ok := d.decode(e)
	if !ok {
		return
	}
	if d.post != nil && !d.post.Allow(env.Log) {
		return
	}

	var err error
	switch env.Kind {
	case OpLaunch:
		err = d.rec.OnLaunch(env.PID, env.ParentPID, env.Image, env.Log)
	case OpTerminate:
		err = d.rec.OnTerminate(env.PID, env.Log)
	case OpAction:
		err = d.rec.OnAction(env.PID, env.Target, env.Code, env.Log)
	default:
		return
	}
	if err != nil {
		entry := corlog.Get().WithFields(map[string]interface{}{"pid": env.PID, "error": err})
		if errors.Is(err, correlator.ErrBackendUnavailable) || errors.Is(err, correlator.ErrInvalidState) {
			entry.Errorf("dispatch failed")
		} else {
			entry.Warnf("dispatch failed")
		}
	}
}

// Shutdown signals every attached producer to stop, drains whatever is
// still sitting in the fan-in channel (bounded by drainCtx's deadline --
// the per-shutdown watchdog from spec §5), and flushes the recorder.
// Events still unread when drainCtx expires are discarded, per spec.
func (d *Dispatcher) Shutdown(drainCtx context.Context) error {
	close(d.done)
	d.producers.Wait()

drain:
	for {
		select {
		case e := <-d.in:
			d.dispatch(e)
		case <-drainCtx.Done():
			break drain
		default:
			break drain
		}
	}
	return d.rec.Flush()
}
