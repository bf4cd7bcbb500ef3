// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package apiclient wraps the membership server's REST API for the
// administration console and the mmsctl CLI.
//
// [Client] holds the server URL, a cookie-carrying HTTP transport, and a
// logger. The server authenticates with a cookie session: a successful
// PlatformLogin or TenantLogin stores the session cookie in the
// client's jar, and every later request presents it. The jar is the
// durable credential; the client itself keeps no identity state (see
// lib/session for the cached identity).
//
// Every request path is relative to the API base path "/api", appended
// to the configured server URL. Request and response bodies are JSON.
// Each request carries an X-Request-ID header (a random UUID) so that
// console actions can be correlated with server logs.
//
// All failures are returned as [*Error], which normalizes the three
// failure shapes the console distinguishes:
//
//   - Status 401: the server rejected the session or the credentials.
//     [IsUnauthorized] tests for it. Only the session check treats this
//     differently from other failures ("not logged in").
//   - Any other non-2xx: Message carries the server's own message
//     verbatim (the "message" or "error" field of the JSON body), or
//     "HTTP error! status: N" when the body has neither.
//   - Transport failure: Status is 0, Message is a fixed generic text
//     suitable for display, and the cause is available via errors.Unwrap.
//
// Callers treat any non-nil error as failure regardless of status. The
// client never retries.
//
// Outbound requests are traced with otelhttp. Without a configured
// tracer provider (see lib/telemetry) the instrumentation is a no-op.
package apiclient
