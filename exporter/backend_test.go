package exporter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongsam14/nanolite-agent-sub001/internal/config"
)

func TestNewBuildsTracerWithoutDialing(t *testing.T) {
	cfg := &config.Config{
		CollectorIP:   "127.0.0.1",
		CollectorPort: "4317",
		Exporter:      "nanolite-agent-test",
		AgentPID:      1234,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	be, err := New(ctx, cfg)
	require.NoError(t, err)
	require.NotNil(t, be.Tracer())

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), time.Second)
	defer cancelShutdown()
	assert.NoError(t, be.Shutdown(shutdownCtx))
}
