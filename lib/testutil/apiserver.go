// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"
)

// SessionCookie is the name of the cookie the fake server issues.
const SessionCookie = "JSESSIONID"

// Identity mirrors the server's login/me payload.
type Identity struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	UserType string `json:"userType"`
	TenantID string `json:"tenantId,omitempty"`
}

// Tenant mirrors the server's tenant read model.
type Tenant struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Status           string    `json:"status"`
	CreatedBy        string    `json:"createdBy"`
	CreatedDate      time.Time `json:"createdDate"`
	LastModifiedBy   string    `json:"lastModifiedBy"`
	LastModifiedDate time.Time `json:"lastModifiedDate"`
}

// TenantUser mirrors the server's tenant user read model. Active is
// stored but not serialized, matching the server.
type TenantUser struct {
	ID               string    `json:"id"`
	TenantID         string    `json:"tenantId"`
	Email            string    `json:"email"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	CreatedDate      time.Time `json:"createdDate"`
	LastModifiedDate time.Time `json:"lastModifiedDate"`

	Active   bool   `json:"-"`
	Password string `json:"-"`
}

// User mirrors an account row of /platform/users and /tenant/members.
type User struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	FirstName       string `json:"firstName,omitempty"`
	LastName        string `json:"lastName,omitempty"`
	IsActive        bool   `json:"isActive"`
	IsEmailVerified bool   `json:"isEmailVerified"`
}

// Request is one request received by the fake server.
type Request struct {
	Method string
	// Path is relative to /api, e.g. "/platform/tenants".
	Path  string
	Query string
	Body  map[string]any
}

// Endpoint is the "METHOD /path" form used by FailNext and Count.
func (r Request) Endpoint() string {
	return r.Method + " " + r.Path
}

type fault struct {
	status int
	body   any
}

type platformAccount struct {
	password string
	user     User
}

// APIServer is an in-memory membership server for tests.
type APIServer struct {
	server *httptest.Server

	mu            sync.Mutex
	clock         time.Time
	platform      map[string]platformAccount
	sessions      map[string]Identity
	tenants       []*Tenant
	tenantUsers   map[string][]*TenantUser
	faults        map[string][]fault
	requests      []Request
	platformAdmin User
}

// Default credentials seeded by NewAPIServer.
const (
	PlatformUsername = "admin"
	PlatformPassword = "admin-password"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// NewAPIServer starts a fake server with one platform administrator
// (PlatformUsername / PlatformPassword) and no tenants. The server is
// closed when the test completes.
func NewAPIServer(t interface {
	Helper()
	Cleanup(func())
}) *APIServer {
	t.Helper()
	admin := User{
		ID:              UniqueID("platform-user"),
		Username:        PlatformUsername,
		Email:           "admin@example.com",
		FirstName:       "Platform",
		LastName:        "Admin",
		IsActive:        true,
		IsEmailVerified: true,
	}
	s := &APIServer{
		clock:         time.Date(2026, time.March, 4, 9, 30, 0, 0, time.UTC),
		platform:      map[string]platformAccount{PlatformUsername: {password: PlatformPassword, user: admin}},
		sessions:      make(map[string]Identity),
		tenantUsers:   make(map[string][]*TenantUser),
		faults:        make(map[string][]fault),
		platformAdmin: admin,
	}
	s.server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.server.Close)
	return s
}

// URL is the server root (without /api).
func (s *APIServer) URL() string {
	return s.server.URL
}

// Client returns an http.Client for the server with no cookie jar.
func (s *APIServer) Client() *http.Client {
	return s.server.Client()
}

// AddTenant seeds a tenant directly and returns it.
func (s *APIServer) AddTenant(name, slug, status string) Tenant {
	s.mu.Lock()
	defer s.mu.Unlock()
	tenant := &Tenant{
		ID:               UniqueID("tenant"),
		Name:             name,
		Slug:             slug,
		Status:           status,
		CreatedBy:        PlatformUsername,
		CreatedDate:      s.tick(),
		LastModifiedBy:   PlatformUsername,
		LastModifiedDate: s.clock,
	}
	s.tenants = append(s.tenants, tenant)
	return *tenant
}

// AddTenantUser seeds an active user of tenantID with the given
// password and returns it.
func (s *APIServer) AddTenantUser(tenantID, email, password, firstName, lastName string) TenantUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	user := &TenantUser{
		ID:               UniqueID("tenant-user"),
		TenantID:         tenantID,
		Email:            email,
		FirstName:        firstName,
		LastName:         lastName,
		CreatedDate:      now,
		LastModifiedDate: now,
		Active:           true,
		Password:         password,
	}
	s.tenantUsers[tenantID] = append(s.tenantUsers[tenantID], user)
	return *user
}

// Tenants returns a snapshot of the stored tenants.
func (s *APIServer) Tenants() []Tenant {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Tenant, len(s.tenants))
	for i, tenant := range s.tenants {
		out[i] = *tenant
	}
	return out
}

// TenantUsers returns a snapshot of the users stored for tenantID.
func (s *APIServer) TenantUsers(tenantID string) []TenantUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TenantUser, len(s.tenantUsers[tenantID]))
	for i, user := range s.tenantUsers[tenantID] {
		out[i] = *user
	}
	return out
}

// FailNext makes the next request to endpoint ("METHOD /path", path
// relative to /api) return status with body encoded as JSON. A nil
// body sends no body at all. Faults queue in call order.
func (s *APIServer) FailNext(endpoint string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[endpoint] = append(s.faults[endpoint], fault{status: status, body: body})
}

// Requests returns every request received so far.
func (s *APIServer) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// Count returns how many requests hit endpoint ("METHOD /path").
func (s *APIServer) Count(endpoint string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, request := range s.requests {
		if request.Endpoint() == endpoint {
			count++
		}
	}
	return count
}

// ResetRequests forgets recorded requests.
func (s *APIServer) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// ExpireSessions invalidates every issued session, as a server restart
// or timeout would.
func (s *APIServer) ExpireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.sessions)
}

func (s *APIServer) tick() time.Time {
	s.clock = s.clock.Add(time.Minute)
	return s.clock
}

func (s *APIServer) serve(w http.ResponseWriter, r *http.Request) {
	path, ok := strings.CutPrefix(r.URL.Path, "/api")
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not found"})
		return
	}

	var body map[string]any
	if r.Body != nil {
		// A missing or malformed body leaves the map nil; handlers
		// validate the fields they need.
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	request := Request{Method: r.Method, Path: path, Query: r.URL.RawQuery, Body: body}
	s.requests = append(s.requests, request)

	if queued := s.faults[request.Endpoint()]; len(queued) > 0 {
		s.faults[request.Endpoint()] = queued[1:]
		if queued[0].body == nil {
			w.WriteHeader(queued[0].status)
			return
		}
		writeJSON(w, queued[0].status, queued[0].body)
		return
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case path == "/auth/platform/login" && r.Method == http.MethodPost:
		s.platformLogin(w, body)
	case path == "/auth/tenant/login" && r.Method == http.MethodPost:
		s.tenantLogin(w, body)
	case (path == "/auth/platform/logout" || path == "/auth/tenant/logout") && r.Method == http.MethodPost:
		s.logout(w, r)
	case path == "/auth/me" && r.Method == http.MethodGet:
		s.me(w, r)
	case path == "/tenant/members" && r.Method == http.MethodGet:
		s.tenantMembers(w, r)
	case path == "/platform/users" && r.Method == http.MethodGet:
		if s.requirePlatform(w, r) {
			writeJSON(w, http.StatusOK, []User{s.platformAdmin})
		}
	case len(segments) >= 2 && segments[0] == "platform" && segments[1] == "tenants":
		if s.requirePlatform(w, r) {
			s.tenantRoutes(w, r, segments[2:], body)
		}
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not found"})
	}
}

func (s *APIServer) platformLogin(w http.ResponseWriter, body map[string]any) {
	username, password := stringField(body, "username"), stringField(body, "password")
	account, ok := s.platform[username]
	if !ok || account.password != password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}
	identity := Identity{
		UserID:   account.user.ID,
		Username: account.user.Username,
		Email:    account.user.Email,
		UserType: "PLATFORM",
	}
	s.startSession(w, identity)
}

func (s *APIServer) tenantLogin(w http.ResponseWriter, body map[string]any) {
	tenant := s.findTenant(stringField(body, "tenantId"))
	if tenant == nil {
		tenant = s.findTenantBySlug(stringField(body, "tenantSlug"))
	}
	if tenant == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}
	email := stringField(body, "email")
	if email == "" {
		email = stringField(body, "username")
	}
	password := stringField(body, "password")
	for _, user := range s.tenantUsers[tenant.ID] {
		if strings.EqualFold(user.Email, email) && user.Password == password && user.Active {
			s.startSession(w, Identity{
				UserID:   user.ID,
				Username: user.Email,
				Email:    user.Email,
				UserType: "TENANT",
				TenantID: tenant.ID,
			})
			return
		}
	}
	writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
}

func (s *APIServer) startSession(w http.ResponseWriter, identity Identity) {
	sessionID := UniqueID("session")
	s.sessions[sessionID] = identity
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: sessionID, Path: "/", HttpOnly: true})
	writeJSON(w, http.StatusOK, identity)
}

func (s *APIServer) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		delete(s.sessions, cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (s *APIServer) session(r *http.Request) (Identity, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return Identity{}, false
	}
	identity, ok := s.sessions[cookie.Value]
	return identity, ok
}

func (s *APIServer) me(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.session(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authenticated"})
		return
	}
	writeJSON(w, http.StatusOK, identity)
}

func (s *APIServer) requirePlatform(w http.ResponseWriter, r *http.Request) bool {
	identity, ok := s.session(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authenticated"})
		return false
	}
	if identity.UserType != "PLATFORM" {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "Access denied"})
		return false
	}
	return true
}

func (s *APIServer) tenantMembers(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.session(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authenticated"})
		return
	}
	if identity.UserType != "TENANT" {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "Access denied"})
		return
	}
	members := []User{}
	for _, user := range s.tenantUsers[identity.TenantID] {
		members = append(members, User{
			ID:        user.ID,
			Username:  user.Email,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			IsActive:  user.Active,
		})
	}
	writeJSON(w, http.StatusOK, members)
}

// tenantRoutes handles /platform/tenants and everything below it.
// rest is the path after "tenants".
func (s *APIServer) tenantRoutes(w http.ResponseWriter, r *http.Request, rest []string, body map[string]any) {
	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		status := r.URL.Query().Get("status")
		out := []Tenant{}
		for _, tenant := range s.tenants {
			if status == "" || tenant.Status == status {
				out = append(out, *tenant)
			}
		}
		writeJSON(w, http.StatusOK, out)
	case len(rest) == 0 && r.Method == http.MethodPost:
		s.createTenant(w, body)
	case len(rest) == 2 && rest[0] == "slug" && r.Method == http.MethodGet:
		tenant := s.findTenantBySlug(rest[1])
		if tenant == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Tenant not found"})
			return
		}
		writeJSON(w, http.StatusOK, tenant)
	case len(rest) == 1:
		s.tenantItem(w, r, rest[0], body)
	case len(rest) >= 2 && rest[1] == "users":
		if s.findTenant(rest[0]) == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Tenant not found"})
			return
		}
		s.tenantUserRoutes(w, r, rest[0], rest[2:], body)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not found"})
	}
}

func (s *APIServer) createTenant(w http.ResponseWriter, body map[string]any) {
	name, slug, status := stringField(body, "name"), stringField(body, "slug"), stringField(body, "status")
	switch {
	case len(name) < 2 || len(name) > 255:
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Name must be between 2 and 255 characters"})
		return
	case len(slug) < 2 || len(slug) > 100 || !slugPattern.MatchString(slug):
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Slug must contain only lowercase letters, numbers, and hyphens"})
		return
	case status != "ACTIVE" && status != "INACTIVE" && status != "SUSPENDED":
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid status"})
		return
	}
	if s.findTenantBySlug(slug) != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "slug already exists"})
		return
	}
	now := s.tick()
	tenant := &Tenant{
		ID:               UniqueID("tenant"),
		Name:             name,
		Slug:             slug,
		Status:           status,
		CreatedBy:        PlatformUsername,
		CreatedDate:      now,
		LastModifiedBy:   PlatformUsername,
		LastModifiedDate: now,
	}
	s.tenants = append(s.tenants, tenant)
	writeJSON(w, http.StatusCreated, tenant)
}

func (s *APIServer) tenantItem(w http.ResponseWriter, r *http.Request, tenantID string, body map[string]any) {
	tenant := s.findTenant(tenantID)
	if tenant == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Tenant not found"})
		return
	}
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, tenant)
	case http.MethodPut:
		if name := stringField(body, "name"); name != "" {
			tenant.Name = name
		}
		if status := stringField(body, "status"); status != "" {
			tenant.Status = status
		}
		tenant.LastModifiedDate = s.tick()
		writeJSON(w, http.StatusOK, tenant)
	case http.MethodDelete:
		s.tenants = slices.DeleteFunc(s.tenants, func(candidate *Tenant) bool { return candidate.ID == tenantID })
		delete(s.tenantUsers, tenantID)
		w.WriteHeader(http.StatusNoContent)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "Method not allowed"})
	}
}

// tenantUserRoutes handles /platform/tenants/{id}/users and below.
func (s *APIServer) tenantUserRoutes(w http.ResponseWriter, r *http.Request, tenantID string, rest []string, body map[string]any) {
	users := s.tenantUsers[tenantID]
	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		out := []TenantUser{}
		for _, user := range users {
			out = append(out, *user)
		}
		writeJSON(w, http.StatusOK, out)
	case len(rest) == 0 && r.Method == http.MethodPost:
		email, password := stringField(body, "email"), stringField(body, "password")
		if !strings.Contains(email, "@") {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Email must be valid"})
			return
		}
		if len(password) < 8 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Password must be at least 8 characters"})
			return
		}
		for _, user := range users {
			if strings.EqualFold(user.Email, email) {
				writeJSON(w, http.StatusConflict, map[string]string{"message": "User with this email already exists"})
				return
			}
		}
		active, _ := body["isActive"].(bool)
		now := s.tick()
		user := &TenantUser{
			ID:               UniqueID("tenant-user"),
			TenantID:         tenantID,
			Email:            email,
			FirstName:        stringField(body, "firstName"),
			LastName:         stringField(body, "lastName"),
			CreatedDate:      now,
			LastModifiedDate: now,
			Active:           active,
			Password:         password,
		}
		s.tenantUsers[tenantID] = append(users, user)
		writeJSON(w, http.StatusCreated, user)
	case len(rest) == 1 && rest[0] == "count" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, len(users))
	case len(rest) == 1:
		index := slices.IndexFunc(users, func(user *TenantUser) bool { return user.ID == rest[0] })
		if index < 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "User not found"})
			return
		}
		user := users[index]
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, user)
		case http.MethodPut:
			if firstName := stringField(body, "firstName"); firstName != "" {
				user.FirstName = firstName
			}
			if lastName := stringField(body, "lastName"); lastName != "" {
				user.LastName = lastName
			}
			if active, ok := body["isActive"].(bool); ok {
				user.Active = active
			}
			user.LastModifiedDate = s.tick()
			writeJSON(w, http.StatusOK, user)
		case http.MethodDelete:
			s.tenantUsers[tenantID] = slices.Delete(users, index, index+1)
			w.WriteHeader(http.StatusNoContent)
		default:
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "Method not allowed"})
		}
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not found"})
	}
}

func (s *APIServer) findTenant(tenantID string) *Tenant {
	if tenantID == "" {
		return nil
	}
	for _, tenant := range s.tenants {
		if tenant.ID == tenantID {
			return tenant
		}
	}
	return nil
}

func (s *APIServer) findTenantBySlug(slug string) *Tenant {
	if slug == "" {
		return nil
	}
	for _, tenant := range s.tenants {
		if tenant.Slug == slug {
			return tenant
		}
	}
	return nil
}

func stringField(body map[string]any, key string) string {
	value, _ := body[key].(string)
	return value
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
