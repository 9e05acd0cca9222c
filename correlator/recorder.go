package correlator

import "fmt"

// Recorder is the single entry point event sessions call into (spec
// §4.7). It owns the tracing backend handle and delegates everything to
// the registry; it adds no behavior of its own beyond wiring.
type Recorder struct {
	registry *Registry
}

// NewRecorder builds a Recorder backed by b. b is typically an OTel SDK
// TracerProvider wrapper in production (see package exporter) or an
// in-memory fake in tests (see package correlatortest).
func NewRecorder(b Backend) (*Recorder, error) {
	tracer, err := NewTracer(b)
	if err != nil {
		return nil, err
	}
	return &Recorder{registry: NewRegistry(tracer)}, nil
}

// OnLaunch records a process-launch event.
func (r *Recorder) OnLaunch(pid, parentPID int64, image string, decodedLog map[string]interface{}) error {
	if err := r.registry.OnLaunch(pid, parentPID, image, decodedLog); err != nil {
		return fmt.Errorf("on_launch(pid=%d): %w", pid, err)
	}
	return nil
}

// OnTerminate records a process-terminate event.
func (r *Recorder) OnTerminate(pid int64, decodedLog map[string]interface{}) error {
	if err := r.registry.OnTerminate(pid, decodedLog); err != nil {
		return fmt.Errorf("on_terminate(pid=%d): %w", pid, err)
	}
	return nil
}

// OnAction records an action event.
func (r *Recorder) OnAction(pid int64, target string, code EventCode, decodedLog map[string]interface{}) error {
	if err := r.registry.OnAction(pid, target, code, decodedLog); err != nil {
		return fmt.Errorf("on_action(pid=%d, code=%s): %w", pid, code, err)
	}
	return nil
}

// Flush stops every live process and empties the registry. Safe to call
// multiple times.
func (r *Recorder) Flush() error {
	if err := r.registry.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// Len reports the number of live processes tracked by the recorder,
// mainly for tests and diagnostics.
func (r *Recorder) Len() int {
	return r.registry.Len()
}
