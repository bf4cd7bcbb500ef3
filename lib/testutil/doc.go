// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for the console
// packages.
//
// [NewAPIServer] starts an in-memory membership server on an
// httptest listener. It speaks the same JSON and cookie-session
// protocol as the real server (login, logout, /auth/me, tenant and
// tenant user CRUD, platform users, tenant members), records every
// request it receives, and can be scripted to fail a specific endpoint
// with [APIServer.FailNext]. Tests use it to exercise the API client,
// the CLI commands, and the console screens against a realistic
// backend without network access.
//
// [RequireReceive] and [RequireClosed] encapsulate the timeout safety
// valve pattern (select with time.After fallback) so that individual
// tests do not need direct time.After calls.
//
// [UniqueID] generates monotonically increasing identifiers. The fake
// server uses it for entity and session IDs; tests use it when they
// need distinguishable names.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no console-internal dependencies, so any package's
// internal tests can import it.
package testutil
