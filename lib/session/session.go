// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mayuran19/mms-console/apiclient"
)

// UserType distinguishes the two classes of console user.
type UserType string

const (
	UserPlatform UserType = "platform"
	UserTenant   UserType = "tenant"
)

// Phase is the coarse authentication state.
type Phase int

const (
	// PhaseUnknown is the state before the first CheckAuth completes.
	PhaseUnknown Phase = iota
	PhaseAnonymous
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseUnknown:
		return "unknown"
	case PhaseAnonymous:
		return "anonymous"
	case PhaseAuthenticated:
		return "authenticated"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Identity is the signed-in user as the server reports it.
type Identity struct {
	ID       string
	Username string
	Email    string
	UserType UserType
	// TenantID is set for tenant users and empty for platform users.
	TenantID string
}

// ErrInvalidIdentity is returned for identities that are neither a
// well-formed platform identity nor a well-formed tenant identity.
var ErrInvalidIdentity = errors.New("session: invalid identity")

// Validate checks the platform/tenant invariant.
func (identity Identity) Validate() error {
	if identity.ID == "" {
		return fmt.Errorf("%w: missing user id", ErrInvalidIdentity)
	}
	switch identity.UserType {
	case UserPlatform:
		if identity.TenantID != "" {
			return fmt.Errorf("%w: platform user %s carries tenant %s", ErrInvalidIdentity, identity.ID, identity.TenantID)
		}
	case UserTenant:
		if identity.TenantID == "" {
			return fmt.Errorf("%w: tenant user %s has no tenant", ErrInvalidIdentity, identity.ID)
		}
	default:
		return fmt.Errorf("%w: unknown user type %q", ErrInvalidIdentity, identity.UserType)
	}
	return nil
}

// IdentityFromLogin converts a login or /auth/me payload. The server's
// upper-case user type is normalized to lowercase.
func IdentityFromLogin(response *apiclient.LoginResponse) (Identity, error) {
	if response == nil {
		return Identity{}, fmt.Errorf("%w: empty response", ErrInvalidIdentity)
	}
	identity := Identity{
		ID:       response.UserID,
		Username: response.Username,
		Email:    response.Email,
		UserType: UserType(strings.ToLower(response.UserType)),
		TenantID: response.TenantID,
	}
	if err := identity.Validate(); err != nil {
		return Identity{}, err
	}
	return identity, nil
}

// State is a snapshot of the store.
type State struct {
	Phase Phase
	// Identity is non-nil exactly when Phase is PhaseAuthenticated.
	Identity *Identity
	// Loading is true while a CheckAuth call is outstanding.
	Loading bool
}

// Authenticated reports whether a session is present.
func (state State) Authenticated() bool {
	return state.Phase == PhaseAuthenticated && state.Identity != nil
}

// Is reports whether the session belongs to userType.
func (state State) Is(userType UserType) bool {
	return state.Authenticated() && state.Identity.UserType == userType
}

// WhoAmIer asks the server who the current cookie belongs to.
// *apiclient.Client satisfies it.
type WhoAmIer interface {
	Me(ctx context.Context) (*apiclient.LoginResponse, error)
}

// Store is the session cache. It is safe for concurrent use.
type Store struct {
	checker WhoAmIer
	logger  *slog.Logger

	mu          sync.Mutex
	state       State
	generation  uint64
	subscribers map[int]chan State
	nextID      int
}

// NewStore creates a store in PhaseUnknown with Loading set.
func NewStore(checker WhoAmIer, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		checker:     checker,
		logger:      logger,
		state:       State{Phase: PhaseUnknown, Loading: true},
		subscribers: make(map[int]chan State),
	}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Login records identity as the current session.
func (s *Store) Login(identity Identity) error {
	if err := identity.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.state = State{Phase: PhaseAuthenticated, Identity: &identity}
	s.logger.Info("session started", "user_id", identity.ID, "user_type", identity.UserType, "tenant_id", identity.TenantID)
	s.publish()
	return nil
}

// Logout clears the session.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.state = State{Phase: PhaseAnonymous}
	s.logger.Info("session cleared")
	s.publish()
}

// CheckAuth asks the server for the current identity and returns the
// resulting state. It never returns an error: every failure resolves
// to PhaseAnonymous. If a newer CheckAuth, Login, or Logout happened
// while this call was outstanding, its result is discarded and the
// current state is returned.
func (s *Store) CheckAuth(ctx context.Context) State {
	s.mu.Lock()
	s.generation++
	generation := s.generation
	s.state.Loading = true
	s.publish()
	s.mu.Unlock()

	response, err := s.checker.Me(ctx)

	var identity Identity
	if err == nil {
		identity, err = IdentityFromLogin(response)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		s.logger.Debug("discarding superseded auth check", "generation", generation, "current", s.generation)
		return s.snapshot()
	}

	if err != nil {
		if !apiclient.IsUnauthorized(err) {
			s.logger.Warn("auth check failed", "error", err)
		}
		s.state = State{Phase: PhaseAnonymous}
	} else {
		s.state = State{Phase: PhaseAuthenticated, Identity: &identity}
	}
	s.publish()
	return s.snapshot()
}

// Subscribe returns a channel that receives the state after every
// change, and a function to stop the subscription. The channel holds
// one value; a slow reader sees the latest state, not every state.
func (s *Store) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	updates := make(chan State, 1)
	s.subscribers[id] = updates
	return updates, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(updates)
		}
	}
}

// snapshot copies the state so callers cannot mutate the identity.
// Caller holds mu.
func (s *Store) snapshot() State {
	state := s.state
	if state.Identity != nil {
		identity := *state.Identity
		state.Identity = &identity
	}
	return state
}

// publish delivers the current state to every subscriber, replacing
// any value the subscriber has not read yet. Caller holds mu.
func (s *Store) publish() {
	for _, updates := range s.subscribers {
		select {
		case <-updates:
		default:
		}
		updates <- s.snapshot()
	}
}
