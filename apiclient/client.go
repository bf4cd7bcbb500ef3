// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/publicsuffix"

	"github.com/mayuran19/mms-console/lib/netutil"
)

// BasePath is the path prefix of every API endpoint.
const BasePath = "/api"

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// ServerURL is the scheme and host of the membership server
	// (e.g., "http://localhost:8080"). BasePath is appended.
	ServerURL string

	// HTTPClient is used for all requests. If nil, a client with an
	// otelhttp-instrumented default transport is created. If its Jar is
	// nil, a copy is made with Jar installed.
	HTTPClient *http.Client

	// Jar stores the session cookie. If nil, a new in-memory jar is
	// created. Pass a jar restored by lib/cookiestore to resume a
	// session from a previous process.
	Jar http.CookieJar

	// UserAgent is sent on every request. Optional.
	UserAgent string

	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client is a cookie-session client for the membership REST API. It is
// safe for concurrent use.
type Client struct {
	baseURL    string
	serverURL  *url.URL
	httpClient *http.Client
	jar        http.CookieJar
	userAgent  string
	logger     *slog.Logger
}

// NewCookieJar returns an in-memory cookie jar using the public suffix
// list for domain matching.
func NewCookieJar() (http.CookieJar, error) {
	return cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
}

// NewClient creates a Client for the given server.
func NewClient(config ClientConfig) (*Client, error) {
	if config.ServerURL == "" {
		return nil, fmt.Errorf("apiclient: ServerURL is required")
	}
	serverURL, err := url.Parse(config.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("apiclient: invalid ServerURL %q: %w", config.ServerURL, err)
	}
	if serverURL.Scheme != "http" && serverURL.Scheme != "https" {
		return nil, fmt.Errorf("apiclient: ServerURL %q must use http or https", config.ServerURL)
	}

	jar := config.Jar
	if jar == nil {
		jar, err = NewCookieJar()
		if err != nil {
			return nil, fmt.Errorf("apiclient: creating cookie jar: %w", err)
		}
	}

	var httpClient *http.Client
	if config.HTTPClient == nil {
		httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Jar:       jar,
		}
	} else {
		clone := *config.HTTPClient
		if clone.Jar == nil {
			clone.Jar = jar
		} else {
			jar = clone.Jar
		}
		httpClient = &clone
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.ServerURL, "/") + BasePath,
		serverURL:  serverURL,
		httpClient: httpClient,
		jar:        jar,
		userAgent:  config.UserAgent,
		logger:     logger,
	}, nil
}

// ServerURL returns the server URL the client was configured with.
func (c *Client) ServerURL() *url.URL {
	copied := *c.serverURL
	return &copied
}

// Jar returns the cookie jar holding the session cookie.
func (c *Client) Jar() http.CookieJar {
	return c.jar
}

// HasSessionCookie reports whether the jar currently holds any cookie
// for the server. It says nothing about whether the server still
// accepts the session; use Me for that.
func (c *Client) HasSessionCookie() bool {
	return len(c.jar.Cookies(c.serverURL)) > 0
}

// CloseIdleConnections closes idle connections in the transport pool.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// doRequest performs one API call. requestBody is JSON-encoded when
// non-nil; responseBody is decoded from a non-empty 2xx response when
// non-nil. Every failure is returned as *Error.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, requestBody, responseBody any) error {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return &Error{Message: "Failed to encode request", Err: fmt.Errorf("apiclient: encoding %s %s body: %w", method, path, err)}
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return &Error{Message: "Failed to build request", Err: fmt.Errorf("apiclient: creating %s %s request: %w", method, path, err)}
	}

	requestID := uuid.NewString()
	request.Header.Set("Accept", "application/json")
	request.Header.Set(RequestIDHeader, requestID)
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		request.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		c.logger.Debug("api request failed",
			"method", method,
			"path", path,
			"request_id", requestID,
			"error", err,
		)
		return &Error{Message: TransportErrorMessage, Err: fmt.Errorf("apiclient: %s %s: %w", method, path, err)}
	}
	defer response.Body.Close()

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return &Error{Status: response.StatusCode, Message: TransportErrorMessage, Err: fmt.Errorf("apiclient: reading %s %s response: %w", method, path, err)}
	}

	c.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		var decoded errorBody
		// A non-JSON error body falls through to the status-only message.
		_ = json.Unmarshal(body, &decoded)
		return statusError(response.StatusCode, decoded)
	}

	if responseBody == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, responseBody); err != nil {
		return &Error{
			Status:  response.StatusCode,
			Message: "Received an invalid response from the server",
			Err:     fmt.Errorf("apiclient: decoding %s %s response: %w", method, path, err),
		}
	}
	return nil
}

// segment escapes a caller-supplied ID for use as one path segment.
func segment(value string) string {
	return url.PathEscape(value)
}
