package eventsource

import (
	"context"
	"time"

	"github.com/hongsam14/nanolite-agent-sub001/correlator"
)

// SimulatedSession stands in for a real Sysmon/ETW session. It replays a
// fixed script of raw events at a configurable pace, which is enough for
// the CLI's demo mode and for integration tests that want a Session
// without a platform-specific tracing backend.
type SimulatedSession struct {
	name   string
	script []correlator.RawEvent
	pace   time.Duration
	out    chan correlator.RawEvent
}

// NewSimulatedSession builds a session named name that replays script in
// order, pausing pace between events (pace of zero sends as fast as
// possible).
func NewSimulatedSession(name string, script []correlator.RawEvent, pace time.Duration) *SimulatedSession {
	return &SimulatedSession{
		name:   name,
		script: script,
		pace:   pace,
		out:    make(chan correlator.RawEvent),
	}
}

func (s *SimulatedSession) Name() string { return s.name }

func (s *SimulatedSession) Events() <-chan correlator.RawEvent { return s.out }

// Run replays the script onto Events() until the script is exhausted or
// ctx is cancelled, then closes the channel. Callers must invoke Run on
// its own goroutine before attaching the session to a Dispatcher.
func (s *SimulatedSession) Run(ctx context.Context) {
	defer close(s.out)

	var ticker *time.Ticker
	if s.pace > 0 {
		ticker = time.NewTicker(s.pace)
		defer ticker.Stop()
	}

	for _, e := range s.script {
		select {
		case s.out <- e:
		case <-ctx.Done():
			return
		}
		if ticker != nil {
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}
}
