// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds key material outside the Go heap.
//
// A [Buffer] is an anonymous mmap region locked into RAM (no swap) and,
// on Linux, excluded from core dumps. Close zeros, unlocks, and unmaps
// it. mmsctl keeps the age identity that seals the saved session
// cookie in a Buffer for as long as a command runs.
package secret
