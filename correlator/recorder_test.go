package correlator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongsam14/nanolite-agent-sub001/correlator/correlatortest"
)

func TestNewRecorderRejectsNilBackend(t *testing.T) {
	_, err := NewRecorder(nil)
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestRecorderFullLifecycle(t *testing.T) {
	be := correlatortest.New()
	rec, err := NewRecorder(be)
	require.NoError(t, err)

	require.NoError(t, rec.OnLaunch(1, 0, "p.exe", map[string]interface{}{"e": 1}))
	assert.Equal(t, 1, rec.Len())

	require.NoError(t, rec.OnAction(1, "a.txt", EventFileCreate, map[string]interface{}{"e": 2}))
	require.NoError(t, rec.OnTerminate(1, map[string]interface{}{"e": 3}))
	assert.Equal(t, 0, rec.Len())

	require.NoError(t, rec.Flush())
	assert.Len(t, be.Spans(), 2)
}

func TestRecorderWrapsRegistryErrorsWithContext(t *testing.T) {
	be := correlatortest.New()
	rec, err := NewRecorder(be)
	require.NoError(t, err)

	err = rec.OnLaunch(1, 0, "", nil)
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "on_launch(pid=1)")
}

func TestRecorderFlushIsIdempotent(t *testing.T) {
	be := correlatortest.New()
	rec, err := NewRecorder(be)
	require.NoError(t, err)

	require.NoError(t, rec.OnLaunch(1, 0, "p.exe", map[string]interface{}{"e": 1}))
	require.NoError(t, rec.Flush())
	require.NoError(t, rec.Flush())
	assert.Len(t, be.Spans(), 1)
}
