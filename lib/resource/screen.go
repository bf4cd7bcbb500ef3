// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
)

// Errors returned by screen operations.
var (
	// ErrSuperseded is returned by Load when a newer load or a scope
	// change overtook it. Its result was discarded.
	ErrSuperseded = errors.New("resource: load superseded")

	ErrNoPendingDelete = errors.New("resource: no delete awaiting confirmation")
	ErrScreenClosed    = errors.New("resource: screen closed")
)

// Screen is the list view for one entity within one scope. It owns the
// entity's dialog. Screen is safe for concurrent use.
type Screen[E any] struct {
	entity Entity[E]
	ops    Operations[E]
	dialog *Dialog[E]
	logger *slog.Logger

	mu         sync.Mutex
	scope      string
	items      []E
	loaded     bool
	loading    bool
	banner     string
	pending    *E
	deleting   bool
	generation uint64
	cancelLoad context.CancelFunc
	closed     bool
}

// NewScreen creates a screen for entity in scope. Nothing is loaded
// until Load is called.
func NewScreen[E any](entity Entity[E], ops Operations[E], scope string, logger *slog.Logger) *Screen[E] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Screen[E]{
		entity: entity,
		ops:    ops,
		dialog: NewDialog(entity),
		logger: logger.With("entity", entity.Noun),
		scope:  scope,
	}
}

// Entity returns the screen's entity description.
func (s *Screen[E]) Entity() Entity[E] {
	return s.entity
}

// Dialog returns the screen's create/edit dialog.
func (s *Screen[E]) Dialog() *Dialog[E] {
	return s.dialog
}

// Scope returns the current scope.
func (s *Screen[E]) Scope() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope
}

// SetScope switches the screen to another scope. It cancels any load
// for the old scope and clears the list; the caller then calls Load.
// Returns false when scope is unchanged.
func (s *Screen[E]) SetScope(scope string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if scope == s.scope {
		return false
	}
	s.scope = scope
	s.generation++
	if s.cancelLoad != nil {
		s.cancelLoad()
		s.cancelLoad = nil
	}
	s.items = nil
	s.loaded = false
	s.loading = false
	s.banner = ""
	s.pending = nil
	return true
}

// Load fetches the full list for the current scope and replaces the
// items. It returns ErrSuperseded when a newer load or scope change
// started before it finished. On failure the banner shows the error
// and the previous items stay.
func (s *Screen[E]) Load(ctx context.Context) ([]E, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrScreenClosed
	}
	s.generation++
	generation := s.generation
	if s.cancelLoad != nil {
		s.cancelLoad()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	s.cancelLoad = cancel
	s.loading = true
	s.banner = ""
	scope := s.scope
	s.mu.Unlock()

	items, err := s.ops.List(loadCtx, scope)

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		cancel()
		s.logger.Debug("discarding superseded load", "scope", scope)
		return nil, ErrSuperseded
	}
	cancel()
	s.cancelLoad = nil
	s.loading = false
	if err != nil {
		s.banner = err.Error()
		s.logger.Warn("load failed", "scope", scope, "error", err)
		return nil, err
	}
	s.items = items
	s.loaded = true
	return slices.Clone(items), nil
}

// Items returns the loaded records.
func (s *Screen[E]) Items() []E {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Loading reports whether a load is in flight.
func (s *Screen[E]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Loaded reports whether a load has succeeded for the current scope.
func (s *Screen[E]) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Empty reports whether the last successful load returned no records.
func (s *Screen[E]) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded && !s.loading && len(s.items) == 0
}

// Banner returns the current failure message, if any.
func (s *Screen[E]) Banner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.banner
}

// DismissBanner clears the failure message.
func (s *Screen[E]) DismissBanner() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.banner = ""
}

// OpenCreate opens the dialog in create mode.
func (s *Screen[E]) OpenCreate() error {
	return s.dialog.Open(ModeCreate, nil)
}

// OpenEdit opens the dialog in edit mode for item.
func (s *Screen[E]) OpenEdit(item E) error {
	return s.dialog.Open(ModeEdit, &item)
}

// Save performs the create or update described by payload and then
// reloads the list, returning only after the reload finished. An error
// from either step is returned so the dialog stays open.
func (s *Screen[E]) Save(ctx context.Context, payload Payload[E]) error {
	scope := s.Scope()
	var err error
	if payload.Mode == ModeEdit {
		if payload.Item == nil {
			return errors.New("resource: update payload has no record")
		}
		err = s.ops.Update(ctx, scope, *payload.Item, payload.Body)
	} else {
		err = s.ops.Create(ctx, scope, payload.Body)
	}
	if err != nil {
		s.logger.Info("save failed", "mode", payload.Mode, "error", err)
		return err
	}
	s.logger.Info("saved", "mode", payload.Mode, "scope", scope)

	if _, err := s.Load(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
		return err
	}
	return nil
}

// SubmitDialog submits the dialog through Save.
func (s *Screen[E]) SubmitDialog(ctx context.Context) error {
	return s.dialog.Submit(ctx, s.Save)
}

// RequestDelete asks for confirmation before deleting item. No request
// is made.
func (s *Screen[E]) RequestDelete(item E) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleting {
		return
	}
	s.pending = &item
}

// PendingDelete returns the record awaiting confirmation, or nil.
func (s *Screen[E]) PendingDelete() *E {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil
	}
	copied := *s.pending
	return &copied
}

// DeletePrompt returns the confirmation text for the pending delete.
func (s *Screen[E]) DeletePrompt() string {
	pending := s.PendingDelete()
	if pending == nil {
		return ""
	}
	return s.entity.DeletePrompt(*pending)
}

// Deleting reports whether a confirmed delete is in flight.
func (s *Screen[E]) Deleting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleting
}

// CancelDelete drops the pending delete without any request.
func (s *Screen[E]) CancelDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleting {
		return
	}
	s.pending = nil
}

// ConfirmDelete deletes the pending record and reloads the list. The
// confirmation closes whether or not the delete succeeds; a failure is
// shown in the banner.
func (s *Screen[E]) ConfirmDelete(ctx context.Context) error {
	s.mu.Lock()
	if s.pending == nil || s.deleting {
		s.mu.Unlock()
		return ErrNoPendingDelete
	}
	item := *s.pending
	scope := s.scope
	s.deleting = true
	s.mu.Unlock()

	err := s.ops.Delete(ctx, scope, item)

	s.mu.Lock()
	s.pending = nil
	s.deleting = false
	if err != nil {
		s.banner = err.Error()
		s.mu.Unlock()
		s.logger.Info("delete failed", "key", s.entity.Key(item), "error", err)
		return err
	}
	s.mu.Unlock()
	s.logger.Info("deleted", "key", s.entity.Key(item))

	if _, err := s.Load(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
		return err
	}
	return nil
}

// Close cancels any load in flight. Later loads fail with
// ErrScreenClosed.
func (s *Screen[E]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.generation++
	if s.cancelLoad != nil {
		s.cancelLoad()
		s.cancelLoad = nil
	}
	s.loading = false
}
