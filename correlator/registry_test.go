package correlator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongsam14/nanolite-agent-sub001/correlator/correlatortest"
)

func newTestRegistry(t *testing.T) (*Registry, *correlatortest.Backend) {
	t.Helper()
	tracer, be := newTestTracer(t)
	return NewRegistry(tracer), be
}

func TestOnLaunchRequiresImageAndLog(t *testing.T) {
	r, _ := newTestRegistry(t)
	err := r.OnLaunch(1, 0, "", map[string]interface{}{"e": 1})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	err = r.OnLaunch(1, 0, "p.exe", nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestOnTerminateUntrackedIsSilentlyDropped(t *testing.T) {
	r, _ := newTestRegistry(t)
	assert.NoError(t, r.OnTerminate(999, map[string]interface{}{"e": 1}))
	assert.Equal(t, 0, r.Len())
}

func TestOnActionUntrackedIsSilentlyDropped(t *testing.T) {
	r, _ := newTestRegistry(t)
	err := r.OnAction(999, "x", EventFileCreate, map[string]interface{}{"e": 1})
	assert.NoError(t, err)
}

func TestOnActionUnknownCodeFails(t *testing.T) {
	r, _ := newTestRegistry(t)
	require.NoError(t, r.OnLaunch(1, 0, "p.exe", map[string]interface{}{"e": 1}))
	err := r.OnAction(1, "x", EventCode("Sysmon-999"), map[string]interface{}{"e": 1})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestDuplicateLaunchCoalescesOntoSameProcessSpan(t *testing.T) {
	r, be := newTestRegistry(t)
	require.NoError(t, r.OnLaunch(1, 0, "p.exe", map[string]interface{}{"e": 1}))
	require.NoError(t, r.OnLaunch(1, 0, "p.exe", map[string]interface{}{"e": 2}))
	require.NoError(t, r.OnTerminate(1, map[string]interface{}{"e": 3}))

	spans := be.Spans()
	require.Len(t, spans, 1)
	assert.Equal(t, 3, correlatortest.EventCount(spans[0]))
	v, ok := correlatortest.Attr(spans[0], "log.count")
	require.True(t, ok)
	assert.EqualValues(t, 3, v)
}

func TestRegistryFlushIsIdempotent(t *testing.T) {
	r, _ := newTestRegistry(t)
	require.NoError(t, r.OnLaunch(1, 0, "p.exe", map[string]interface{}{"e": 1}))
	require.NoError(t, r.Flush())
	require.NoError(t, r.Flush())
	assert.Equal(t, 0, r.Len())
}

func TestOnTerminateTwiceEmitsOneSpan(t *testing.T) {
	r, be := newTestRegistry(t)
	require.NoError(t, r.OnLaunch(1, 0, "p.exe", map[string]interface{}{"e": 1}))
	require.NoError(t, r.OnTerminate(1, map[string]interface{}{"e": 2}))
	require.NoError(t, r.OnTerminate(1, map[string]interface{}{"e": 3}))

	assert.Len(t, be.Spans(), 1)
}
