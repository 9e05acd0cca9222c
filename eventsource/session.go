// Package eventsource defines the producer-side contract between OS
// tracing sessions (Sysmon/ETW in production) and the correlator. The
// concrete sessions are out of scope for this repo (spec: "specified
// only through their interfaces"); this package carries the interfaces
// and a simulated producer so the dispatcher has something concrete to
// drive in tests and in the CLI's demo mode.
package eventsource

import (
	"github.com/hongsam14/nanolite-agent-sub001/correlator"
)

// Session is a single producer of raw OS events, e.g. one Sysmon or ETW
// subscription. Implementations run on their own goroutine and close
// Events() when they have nothing further to produce.
type Session interface {
	// Name identifies the session for logging, e.g. "sysmon", "kernel-registry".
	Name() string
	// Events returns the channel the session publishes raw events to.
	Events() <-chan correlator.RawEvent
}

// OperationKind distinguishes which Recorder method an Envelope maps to.
type OperationKind int

const (
	OpUnknown OperationKind = iota
	OpLaunch
	OpTerminate
	OpAction
)

// Envelope is a raw event already classified into one of the three
// Recorder operations. Decoders produce these; the Dispatcher consumes
// them without needing to know anything about session-specific wire
// formats.
type Envelope struct {
	Kind      OperationKind
	PID       int64
	ParentPID int64
	Image     string
	Target    string
	Code      correlator.EventCode
	Log       map[string]interface{}
}

// Decoder projects a raw event into an Envelope. It returns ok=false
// when the event should be dropped: the event did not match a known
// operation shape, or a filter already vetoed it upstream.
type Decoder func(correlator.RawEvent) (Envelope, bool)

// DefaultDecoder expects RawEvent.Fields to carry a "op" string
// ("launch", "terminate", or "action") plus the fields that operation
// needs. The whole Fields map, those keys included, is forwarded
// verbatim as the decoded log record. This is the shape the simulated session in this package
// emits; a real Sysmon/ETW session would supply its own Decoder.
func DefaultDecoder(e correlator.RawEvent) (Envelope, bool) {
	op, _ := e.Fields["op"].(string)

	env := Envelope{PID: e.PID, Log: e.Fields}
	switch op {
	case "launch":
		env.Kind = OpLaunch
		env.ParentPID, _ = toInt64(e.Fields["ppid"])
		env.Image, _ = e.Fields["image"].(string)
		if env.Image == "" {
			return Envelope{}, false
		}
	case "terminate":
		env.Kind = OpTerminate
	case "action":
		env.Kind = OpAction
		env.Target, _ = e.Fields["target"].(string)
		code, _ := e.Fields["code"].(string)
		if code == "" {
			return Envelope{}, false
		}
		env.Code = correlator.EventCode(code)
	default:
		return Envelope{}, false
	}
	return env, true
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}
