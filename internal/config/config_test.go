package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "agent.yaml")
	require.NoError(t, os.WriteFile(p, []byte(contents), 0o600))
	return p
}

func TestLoad(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		p := writeTemp(t, "collector_ip: 127.0.0.1\ncollector_port: \"4317\"\nexporter: nanolite-agent\n")
		c, err := Load(p)
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1", c.CollectorIP)
		assert.Equal(t, "127.0.0.1:4317", c.CollectorAddr())
		assert.Equal(t, "nanolite-agent", c.Exporter)
	})

	t.Run("missing collector_ip is fatal", func(t *testing.T) {
		p := writeTemp(t, "collector_port: \"4317\"\nexporter: nanolite-agent\n")
		_, err := Load(p)
		assert.Error(t, err)
	})

	t.Run("missing exporter is fatal", func(t *testing.T) {
		p := writeTemp(t, "collector_ip: 127.0.0.1\ncollector_port: \"4317\"\n")
		_, err := Load(p)
		assert.Error(t, err)
	})

	t.Run("env override", func(t *testing.T) {
		p := writeTemp(t, "collector_ip: 127.0.0.1\ncollector_port: \"4317\"\nexporter: nanolite-agent\n")
		t.Setenv("NANOLITE_COLLECTOR_IP", "10.0.0.1")
		c, err := Load(p)
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.1", c.CollectorIP)
	})
}

func TestShutdownTimeout(t *testing.T) {
	assert.Equal(t, int64(5000), Config{}.ShutdownTimeout().Milliseconds())
	assert.Equal(t, int64(250), Config{ShutdownMillis: 250}.ShutdownTimeout().Milliseconds())
}
