package eventsource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongsam14/nanolite-agent-sub001/correlator"
	"github.com/hongsam14/nanolite-agent-sub001/correlator/correlatortest"
)

func launchEvent(pid, ppid int64, image string) correlator.RawEvent {
	return correlator.RawEvent{PID: pid, Fields: map[string]interface{}{
		"op": "launch", "ppid": ppid, "image": image, "e": 1,
	}}
}

func actionEvent(pid int64, target, code string) correlator.RawEvent {
	return correlator.RawEvent{PID: pid, Fields: map[string]interface{}{
		"op": "action", "target": target, "code": code, "e": 2,
	}}
}

func terminateEvent(pid int64) correlator.RawEvent {
	return correlator.RawEvent{PID: pid, Fields: map[string]interface{}{
		"op": "terminate", "e": 3,
	}}
}

func TestDefaultDecoderRoutesByOp(t *testing.T) {
	env, ok := DefaultDecoder(launchEvent(1, 0, "p.exe"))
	require.True(t, ok)
	assert.Equal(t, OpLaunch, env.Kind)
	assert.Equal(t, "p.exe", env.Image)

	env, ok = DefaultDecoder(actionEvent(1, "a.txt", "Sysmon-11"))
	require.True(t, ok)
	assert.Equal(t, OpAction, env.Kind)
	assert.Equal(t, correlator.EventCode("Sysmon-11"), env.Code)

	env, ok = DefaultDecoder(terminateEvent(1))
	require.True(t, ok)
	assert.Equal(t, OpTerminate, env.Kind)

	_, ok = DefaultDecoder(correlator.RawEvent{PID: 1, Fields: map[string]interface{}{"op": "unknown"}})
	assert.False(t, ok)

	_, ok = DefaultDecoder(correlator.RawEvent{PID: 1, Fields: map[string]interface{}{"op": "launch"}})
	assert.False(t, ok, "launch without image must be dropped")
}

func TestDispatcherEndToEndThroughSimulatedSession(t *testing.T) {
	be := correlatortest.New()
	rec, err := correlator.NewRecorder(be)
	require.NoError(t, err)

	d := NewDispatcher(rec, DefaultDecoder, nil, nil, 8)

	script := []correlator.RawEvent{
		launchEvent(1, 0, "p.exe"),
		actionEvent(1, "a.txt", "Sysmon-11"),
		terminateEvent(1),
	}
	sess := NewSimulatedSession("sim", script, 0)

	ctx, cancel := context.WithCancel(context.Background())
	go sess.Run(ctx)
	d.Attach(ctx, sess)

	runDone := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(runDone)
	}()

	require.Eventually(t, func() bool {
		return rec.Len() == 0 && len(be.Spans()) == 2
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	<-runDone

	spans := be.Spans()
	assert.Len(t, spans, 2)
	assert.NotNil(t, correlatortest.FindByName(spans, "p.exe"))
	assert.NotNil(t, correlatortest.FindByName(spans, "actor.CREATE"))
}

func TestDispatcherPreFilterDropsBeforeDecode(t *testing.T) {
	be := correlatortest.New()
	rec, err := correlator.NewRecorder(be)
	require.NoError(t, err)

	pre := correlator.DefaultPreFilters(42)
	d := NewDispatcher(rec, DefaultDecoder, pre, nil, 8)

	script := []correlator.RawEvent{
		launchEvent(42, 0, "agent.exe"),
		launchEvent(1, 0, "p.exe"),
	}
	sess := NewSimulatedSession("sim", script, 0)

	ctx, cancel := context.WithCancel(context.Background())
	go sess.Run(ctx)
	d.Attach(ctx, sess)
	runDone := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(runDone)
	}()

	require.Eventually(t, func() bool {
		return rec.Len() == 1
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, 1, rec.Len())

	cancel()
	<-runDone
}

func TestDispatcherShutdownDrainsAndFlushes(t *testing.T) {
	be := correlatortest.New()
	rec, err := correlator.NewRecorder(be)
	require.NoError(t, err)

	d := NewDispatcher(rec, DefaultDecoder, nil, nil, 8)

	script := []correlator.RawEvent{launchEvent(1, 0, "p.exe")}
	sess := NewSimulatedSession("sim", script, 0)

	ctx := context.Background()
	attachCtx, cancelAttach := context.WithCancel(ctx)
	go sess.Run(attachCtx)
	d.Attach(attachCtx, sess)

	runCtx, cancelRun := context.WithCancel(ctx)
	runDone := make(chan struct{})
	go func() {
		d.Run(runCtx)
		close(runDone)
	}()

	require.Eventually(t, func() bool {
		return rec.Len() == 1
	}, 2*time.Second, 5*time.Millisecond)

	cancelRun()
	<-runDone
	cancelAttach()

	drainCtx, cancelDrain := context.WithTimeout(ctx, time.Second)
	defer cancelDrain()
	require.NoError(t, d.Shutdown(drainCtx))

	assert.Len(t, be.Spans(), 1)
}
