// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HighlightDuration is how long a row stays tinted after it was saved
// or deleted.
const HighlightDuration = 3 * time.Second

// ChangeKind selects the tint.
type ChangeKind int

const (
	// ChangeSaved marks a created or updated row.
	ChangeSaved ChangeKind = iota
	// ChangeRemoved marks a row the user just deleted.
	ChangeRemoved
)

type change struct {
	at   time.Time
	kind ChangeKind
}

// ChangeTracker remembers recently changed rows by key so the list can
// tint them until [HighlightDuration] elapses.
type ChangeTracker struct {
	changes map[string]change
}

// NewChangeTracker creates an empty tracker.
func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{changes: make(map[string]change)}
}

// Mark records a change to key at now, replacing any earlier mark.
func (tracker *ChangeTracker) Mark(key string, kind ChangeKind, now time.Time) {
	tracker.changes[key] = change{at: now, kind: kind}
}

// Active reports whether key was changed within the highlight window
// and how.
func (tracker *ChangeTracker) Active(key string, now time.Time) (ChangeKind, bool) {
	entry, exists := tracker.changes[key]
	if !exists || now.Sub(entry.at) >= HighlightDuration {
		return ChangeSaved, false
	}
	return entry.kind, true
}

// Pending reports whether any mark is still inside its window,
// dropping the ones that are not. The caller keeps a tick running
// while it returns true.
func (tracker *ChangeTracker) Pending(now time.Time) bool {
	pending := false
	for key, entry := range tracker.changes {
		if now.Sub(entry.at) < HighlightDuration {
			pending = true
			continue
		}
		delete(tracker.changes, key)
	}
	return pending
}

// Background returns the tint for a change kind.
func (theme Theme) ChangeBackground(kind ChangeKind) lipgloss.Color {
	if kind == ChangeRemoved {
		return theme.RemovedBackground
	}
	return theme.ChangedBackground
}
