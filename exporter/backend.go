// Package exporter wires the correlator's abstract Backend interface to
// a real OTLP/gRPC pipeline: an OTel SDK TracerProvider exporting batches
// to a collector over otlptracegrpc, resource-tagged with the agent's
// service name and PID.
package exporter

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/hongsam14/nanolite-agent-sub001/internal/config"
	corlog "github.com/hongsam14/nanolite-agent-sub001/internal/log"
)

// Backend implements correlator.Backend on top of a live OTel SDK
// TracerProvider. Spans created through it are batched and shipped to
// the collector dialed at construction time; the dispatch itself runs on
// the SDK's own batching goroutine, never the correlator's dispatcher
// thread (spec §5: exporter dispatch must not block event ingestion).
type Backend struct {
	tp     *sdktrace.TracerProvider
	tracer oteltrace.Tracer
	conn   *grpc.ClientConn
}

// New creates a gRPC client for cfg's collector and builds a Backend.
// grpc.NewClient does not connect; the connection is made lazily on
// first use, so an unreachable collector is not detected here, only an
// invalid target or exporter setup.
func New(ctx context.Context, cfg *config.Config) (*Backend, error) {
	conn, err := grpc.NewClient(cfg.CollectorAddr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("exporter: dialing collector %s: %w", cfg.CollectorAddr(), err)
	}

	exp, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("exporter: building otlp exporter: %w", err)
	}

	runID, err := uuid.NewUUID()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("exporter: generating run id: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.Exporter),
			attribute.Int64("process.pid", cfg.AgentPID),
			attribute.String("agent.run_id", runID.String()),
		),
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("exporter: building resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	corlog.Get().WithField("collector", cfg.CollectorAddr()).Debugf("exporter backend ready")
	return &Backend{tp: tp, tracer: tp.Tracer(cfg.Exporter), conn: conn}, nil
}

// Tracer implements correlator.Backend.
func (b *Backend) Tracer() oteltrace.Tracer { return b.tracer }

// Shutdown flushes any pending spans and releases the gRPC connection.
// Bound ctx to the shutdown watchdog deadline (spec §5).
func (b *Backend) Shutdown(ctx context.Context) error {
	if err := b.tp.Shutdown(ctx); err != nil {
		b.conn.Close()
		return fmt.Errorf("exporter: shutdown: %w", err)
	}
	return b.conn.Close()
}

// ForceFlush blocks until all buffered spans are exported or ctx expires,
// without tearing down the provider. Useful for a mid-run drain that
// should not prevent further spans from being created.
func (b *Backend) ForceFlush(ctx context.Context) error {
	return b.tp.ForceFlush(ctx)
}
