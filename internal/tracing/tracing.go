// Package tracing configures the OpenTelemetry tracer provider.
package tracing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/soundpad/internal/config"
	"github.com/zjrosen/soundpad/internal/log"
)

// ServiceName is reported as service.name on every span.
const ServiceName = "soundpad"

// Tracing holds the active provider and whatever must be flushed on exit.
type Tracing struct {
	provider trace.TracerProvider
	closers  []func(context.Context) error
}

// Setup builds a provider from cfg and installs it globally. With tracing
// disabled a no-op provider is used. defaultFile is the trace file used by
// the file exporter when cfg.File is empty.
func Setup(ctx context.Context, cfg config.TracingConfig, defaultFile string) (*Tracing, error) {
	if !cfg.Enabled {
		t := &Tracing{provider: noop.NewTracerProvider()}
		otel.SetTracerProvider(t.provider)
		return t, nil
	}

	t := &Tracing{}
	var exporter sdktrace.SpanExporter
	switch cfg.Exporter {
	case config.ExporterFile, "":
		path := cfg.File
		if path == "" {
			path = defaultFile
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("creating trace directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // G304: path comes from config
		if err != nil {
			return nil, fmt.Errorf("opening trace file: %w", err)
		}
		t.closers = append(t.closers, func(context.Context) error { return f.Close() })
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(f))
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("creating file exporter: %w", err)
		}
	case config.ExporterOTLP:
		var err error
		exporter, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.Endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("creating otlp exporter: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown tracing exporter %q", cfg.Exporter)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", ServiceName))),
	)
	// The provider flushes before the file it writes to is closed.
	t.closers = append([]func(context.Context) error{tp.Shutdown}, t.closers...)
	t.provider = tp
	otel.SetTracerProvider(tp)

	log.Info(log.CatConfig, "Tracing enabled", "exporter", cfg.Exporter)
	return t, nil
}

// Provider returns the configured provider.
func (t *Tracing) Provider() trace.TracerProvider {
	return t.provider
}

// Tracer returns a named tracer from the configured provider.
func (t *Tracing) Tracer(name string) trace.Tracer {
	return t.provider.Tracer(name)
}

// Shutdown flushes pending spans and releases exporters.
func (t *Tracing) Shutdown(ctx context.Context) error {
	var errs []error
	for _, c := range t.closers {
		errs = append(errs, c(ctx))
	}
	t.closers = nil
	return errors.Join(errs...)
}
