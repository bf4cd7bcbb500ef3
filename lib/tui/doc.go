// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides the terminal building blocks the console's
// screens share: the color theme, centered modal overlays spliced onto
// the underlying view, a dropdown for fixed-choice fields, a scrollbar,
// fzf-backed list filtering with match highlighting, and tinting for
// rows that were just saved or removed.
//
// Everything here is rendering and small state machines; the screens
// in consoleui own the data and the bubbletea update loop.
package tui
