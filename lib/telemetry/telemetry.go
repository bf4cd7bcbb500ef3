// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package telemetry configures OpenTelemetry trace export for mmsctl.
//
// The API client wraps its transport with otelhttp, so every request
// to the membership server becomes a client span and carries a W3C
// traceparent header. Without [Setup] those spans go to the global
// no-op provider. With an OTLP endpoint configured, Setup installs a
// batching provider that exports to an OTLP/gRPC collector, letting an
// operator follow a console action into the server's own traces.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config selects the collector.
type Config struct {
	// Endpoint is the collector's host:port. Empty disables export.
	Endpoint string
	// Insecure disables TLS to the collector.
	Insecure bool
	// ServiceName is reported as service.name.
	ServiceName string
	// ServiceVersion is reported as service.version. Optional.
	ServiceVersion string
}

// ShutdownFunc flushes and stops the exporter.
type ShutdownFunc func(context.Context) error

func noop(context.Context) error { return nil }

// Setup installs the global tracer provider and propagator. With an
// empty endpoint it only installs the propagator and returns a no-op
// shutdown.
func Setup(ctx context.Context, config Config, logger *slog.Logger) (ShutdownFunc, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	if config.Endpoint == "" {
		return noop, nil
	}

	options := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(config.Endpoint)}
	if config.Insecure {
		options = append(options, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, options...)
	if err != nil {
		return noop, fmt.Errorf("telemetry: creating OTLP exporter for %s: %w", config.Endpoint, err)
	}

	attributes := []resource.Option{resource.WithAttributes(semconv.ServiceName(config.ServiceName))}
	if config.ServiceVersion != "" {
		attributes = append(attributes, resource.WithAttributes(semconv.ServiceVersion(config.ServiceVersion)))
	}
	res, err := resource.New(ctx, attributes...)
	if err != nil {
		// A partial resource is still usable.
		logger.Warn("telemetry resource incomplete", "error", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	logger.Debug("trace export enabled", "endpoint", config.Endpoint, "insecure", config.Insecure)

	return provider.Shutdown, nil
}
