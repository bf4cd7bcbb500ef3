// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{ServiceName: "mmsctl"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("no-op shutdown returned %v", err)
	}
}

func TestSetupEnabled(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	// The gRPC exporter connects lazily, so an unused endpoint is fine.
	shutdown, err := Setup(context.Background(), Config{
		Endpoint:       "127.0.0.1:4317",
		Insecure:       true,
		ServiceName:    "mmsctl",
		ServiceVersion: "test",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
		t.Errorf("global provider is %T, want the SDK provider", otel.GetTracerProvider())
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Shutting down with nothing exported must not block on the
	// unreachable collector.
	_ = shutdown(ctx)
}

func TestPropagatorInjectsTraceparent(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })
	otel.SetTracerProvider(sdktrace.NewTracerProvider())
	if _, err := Setup(context.Background(), Config{}, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	var traceparent string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		traceparent = request.Header.Get("Traceparent")
	}))
	defer server.Close()

	client := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	response, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	response.Body.Close()
	if traceparent == "" {
		t.Error("request carried no traceparent header")
	}
}
