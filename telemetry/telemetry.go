// Package telemetry sets up OpenTelemetry tracing for the command line tools.
// Tracing is off unless Init is called; the otel default provider discards
// spans.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const ServiceName = "sharp"

type Config struct {
	ServiceVersion string
	// Output receives one JSON document per finished span.
	Output io.Writer
	Pretty bool
}

// Init installs a tracer provider that writes spans to cfg.Output. The
// returned function flushes pending spans and must be called before exit.
func Init(cfg Config) (shutdown func(context.Context) error, err error) {
	if cfg.Output == nil {
		return nil, errors.New("telemetry: no output")
	}

	opts := []stdouttrace.Option{stdouttrace.WithWriter(cfg.Output)}
	if cfg.Pretty {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
