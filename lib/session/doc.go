// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package session holds the console's view of who is signed in.
//
// The server's session cookie is the credential; this package only
// caches the identity the server reports for it. A [Store] starts in
// [PhaseUnknown] with Loading set, and moves to [PhaseAuthenticated]
// or [PhaseAnonymous] when [Store.CheckAuth] hears back from the
// server's /auth/me endpoint. Any failure of that call, whether a 401
// or an unreachable server, leaves the store anonymous: the console
// never shows protected screens on a guess.
//
// [Store.Login] and [Store.Logout] change the state without network
// calls. The login screens call the server themselves and hand the
// resulting identity to Login; logout callers end the server session
// first and then call Logout regardless of the outcome.
//
// Overlapping CheckAuth calls resolve last-call-wins. Each call takes a
// generation number and a result arriving after a newer CheckAuth,
// Login, or Logout is discarded.
//
// An identity is either a platform administrator (no tenant) or a
// member of exactly one tenant. Login rejects identities that break
// that rule, and CheckAuth treats such a server response as anonymous.
package session
