// Command nanolite-agent wires the correlator into a runnable process:
// load config, build the OTLP exporter backend, attach event sessions,
// and drain on shutdown signal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/hongsam14/nanolite-agent-sub001/correlator"
	"github.com/hongsam14/nanolite-agent-sub001/eventsource"
	"github.com/hongsam14/nanolite-agent-sub001/exporter"
	"github.com/hongsam14/nanolite-agent-sub001/internal/config"
	corlog "github.com/hongsam14/nanolite-agent-sub001/internal/log"
)

var (
	configPath string
	demo       bool
)

func main() {
	flag.StringVar(&configPath, "config", "nanolite-agent.yaml", "path to the agent's YAML config")
	flag.BoolVar(&demo, "demo", false, "replay a simulated event session instead of waiting for real sessions")
	flag.Parse()

	if err := run(); err != nil {
		corlog.Get().Errorf("nanolite-agent: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), terminationSignals()...)
	defer stop()

	backend, err := exporter.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("building exporter backend: %w", err)
	}

	rec, err := correlator.NewRecorder(backend)
	if err != nil {
		backend.Shutdown(context.Background())
		return fmt.Errorf("building recorder: %w", err)
	}

	pre := correlator.DefaultPreFilters(cfg.AgentPID)
	post := correlator.DefaultPostFilters(fmt.Sprintf(`(?i)%s$`, os.Args[0]))
	dispatcher := eventsource.NewDispatcher(rec, eventsource.DefaultDecoder, pre, post, 256)

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	if demo {
		sess := eventsource.NewSimulatedSession("demo", demoScript(), 200*time.Millisecond)
		go sess.Run(runCtx)
		dispatcher.Attach(runCtx, sess)
	}

	corlog.Get().WithField("collector", cfg.CollectorAddr()).Debugf("nanolite-agent started")

	dispatcher.Run(runCtx)

	drainCtx, cancelDrain := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancelDrain()
	if err := dispatcher.Shutdown(drainCtx); err != nil {
		corlog.Get().Errorf("drain: %v", err)
	}

	return backend.Shutdown(context.Background())
}

// demoScript is a small, self-contained activity trace used by -demo so
// the agent produces real spans without a platform tracing session.
func demoScript() []correlator.RawEvent {
	const demoPID = 9001
	return []correlator.RawEvent{
		{PID: demoPID, Fields: map[string]interface{}{"op": "launch", "ppid": int64(0), "image": "demo.exe"}},
		{PID: demoPID, Fields: map[string]interface{}{"op": "action", "target": "C:/demo.txt", "code": "Sysmon-11"}},
		{PID: demoPID, Fields: map[string]interface{}{"op": "terminate"}},
	}
}
