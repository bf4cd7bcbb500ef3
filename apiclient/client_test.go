// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/mayuran19/mms-console/lib/testutil"
)

// newTestClient returns a client for server with a fresh cookie jar.
func newTestClient(t *testing.T, server *testutil.APIServer) *Client {
	t.Helper()
	client, err := NewClient(ClientConfig{ServerURL: server.URL(), HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

// loginPlatform signs client in as the seeded administrator.
func loginPlatform(t *testing.T, client *Client) {
	t.Helper()
	if _, err := client.PlatformLogin(context.Background(), LoginRequest{
		Username: testutil.PlatformUsername,
		Password: testutil.PlatformPassword,
	}); err != nil {
		t.Fatalf("PlatformLogin failed: %v", err)
	}
}

func TestNewClient(t *testing.T) {
	t.Run("valid URL", func(t *testing.T) {
		client, err := NewClient(ClientConfig{ServerURL: "http://localhost:8080/"})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		if client.baseURL != "http://localhost:8080/api" {
			t.Errorf("baseURL = %q, want http://localhost:8080/api", client.baseURL)
		}
		if client.Jar() == nil {
			t.Error("expected a cookie jar to be created")
		}
	})

	t.Run("empty URL", func(t *testing.T) {
		if _, err := NewClient(ClientConfig{}); err == nil {
			t.Fatal("expected error for empty URL")
		}
	})

	t.Run("invalid URL", func(t *testing.T) {
		if _, err := NewClient(ClientConfig{ServerURL: "://invalid"}); err == nil {
			t.Fatal("expected error for invalid URL")
		}
	})

	t.Run("non-http scheme", func(t *testing.T) {
		if _, err := NewClient(ClientConfig{ServerURL: "ftp://example.com"}); err == nil {
			t.Fatal("expected error for ftp scheme")
		}
	})

	t.Run("provided jar is used", func(t *testing.T) {
		jar, err := NewCookieJar()
		if err != nil {
			t.Fatalf("NewCookieJar: %v", err)
		}
		client, err := NewClient(ClientConfig{ServerURL: "http://localhost:8080", Jar: jar})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		if client.Jar() != jar {
			t.Error("Jar() did not return the configured jar")
		}
	})
}

func TestRequestHeaders(t *testing.T) {
	var seen http.Header
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = request.Header.Clone()
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`[]`))
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{ServerURL: server.URL, HTTPClient: server.Client(), UserAgent: "mmsctl/test"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if _, err := client.ListTenants(context.Background(), ""); err != nil {
		t.Fatalf("ListTenants failed: %v", err)
	}

	if _, err := uuid.Parse(seen.Get(RequestIDHeader)); err != nil {
		t.Errorf("%s = %q is not a UUID: %v", RequestIDHeader, seen.Get(RequestIDHeader), err)
	}
	if got := seen.Get("User-Agent"); got != "mmsctl/test" {
		t.Errorf("User-Agent = %q, want mmsctl/test", got)
	}
	if got := seen.Get("Accept"); got != "application/json" {
		t.Errorf("Accept = %q, want application/json", got)
	}
}

func TestErrorNormalization(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"message field", http.StatusBadRequest, `{"message":"Name is required"}`, "Name is required"},
		{"error field", http.StatusConflict, `{"error":"slug already exists"}`, "slug already exists"},
		{"message wins over error", http.StatusConflict, `{"message":"Tenant exists","error":"Conflict"}`, "Tenant exists"},
		{"empty body", http.StatusInternalServerError, ``, "HTTP error! status: 500"},
		{"non-JSON body", http.StatusBadGateway, `<html>bad gateway</html>`, "HTTP error! status: 502"},
		{"unauthorized", http.StatusUnauthorized, `{"message":"Not authenticated"}`, "Not authenticated"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				writer.WriteHeader(test.status)
				writer.Write([]byte(test.body))
			}))
			defer server.Close()

			client, err := NewClient(ClientConfig{ServerURL: server.URL, HTTPClient: server.Client()})
			if err != nil {
				t.Fatalf("NewClient failed: %v", err)
			}
			_, err = client.GetTenant(context.Background(), "t-1")
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *Error, got %T: %v", err, err)
			}
			if apiErr.Status != test.status {
				t.Errorf("Status = %d, want %d", apiErr.Status, test.status)
			}
			if err.Error() != test.wantMessage {
				t.Errorf("message = %q, want %q", err.Error(), test.wantMessage)
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	serverURL := server.URL
	server.Close()

	client, err := NewClient(ClientConfig{ServerURL: serverURL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	_, err = client.ListTenants(context.Background(), "")
	if err == nil {
		t.Fatal("expected error from closed server")
	}
	if StatusOf(err) != 0 {
		t.Errorf("StatusOf = %d, want 0", StatusOf(err))
	}
	if err.Error() != TransportErrorMessage {
		t.Errorf("message = %q, want the generic transport message", err.Error())
	}
	if errors.Unwrap(err) == nil {
		t.Error("transport error should wrap its cause")
	}
}

func TestCanceledContext(t *testing.T) {
	server := testutil.NewAPIServer(t)
	client := newTestClient(t, server)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Me(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain, got %v", err)
	}
	if len(server.Requests()) != 0 {
		t.Errorf("canceled request reached the server")
	}
}

func TestInvalidJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte(`{"id":`))
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{ServerURL: server.URL, HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	_, err = client.GetTenant(context.Background(), "t-1")
	if StatusOf(err) != http.StatusOK {
		t.Fatalf("expected decode error carrying status 200, got %v", err)
	}
	if !strings.Contains(err.Error(), "invalid response") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestPathEscaping(t *testing.T) {
	var rawPath string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		rawPath = request.URL.EscapedPath()
		writer.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{ServerURL: server.URL, HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if _, err := client.GetTenantUser(context.Background(), "a/b", "c d"); err != nil {
		t.Fatalf("GetTenantUser failed: %v", err)
	}
	if rawPath != "/api/platform/tenants/a%2Fb/users/c%20d" {
		t.Errorf("path = %q", rawPath)
	}
}
