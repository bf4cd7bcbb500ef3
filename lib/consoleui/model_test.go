// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/mayuran19/mms-console/apiclient"
	"github.com/mayuran19/mms-console/lib/session"
	"github.com/mayuran19/mms-console/lib/testutil"
)

// cmdTimeout bounds one command. Commands still running after it (the
// cursor blink ticks) are abandoned.
const cmdTimeout = 2 * time.Second

var fixedNow = time.Date(2026, time.March, 4, 15, 7, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// harness drives a Model synchronously: each message's commands are
// run and their messages delivered until the model settles.
type harness struct {
	t      *testing.T
	server *testutil.APIServer
	client *apiclient.Client
	store  *session.Store
	model  Model
	quit   bool
}

func newHarness(t *testing.T, server *testutil.APIServer, startPath string) *harness {
	t.Helper()
	client, err := apiclient.NewClient(apiclient.ClientConfig{
		ServerURL:  server.URL(),
		HTTPClient: server.Client(),
		Logger:     discardLogger(),
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	store := session.NewStore(client, discardLogger())
	model := NewModel(Options{
		Client:    client,
		Store:     store,
		Logger:    discardLogger(),
		StartPath: startPath,
		Now:       func() time.Time { return fixedNow },
	})
	// Session changes reach the model through the state check after
	// every update; the blocking listener is not needed here.
	model.stopUpdates()
	model.updates = nil

	h := &harness{t: t, server: server, client: client, store: store, model: model}
	t.Cleanup(func() { h.model.Close() })
	return h
}

// start runs Init and sizes the screen.
func (h *harness) start() {
	h.t.Helper()
	h.deliver(collect(h.model.Init()))
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
}

func (h *harness) send(message tea.Msg) {
	h.t.Helper()
	h.deliver([]tea.Msg{message})
}

func (h *harness) deliver(queue []tea.Msg) {
	h.t.Helper()
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 500 {
			h.t.Fatal("model did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if ignored(next) {
			continue
		}
		if _, ok := next.(tea.QuitMsg); ok {
			h.quit = true
			continue
		}
		updated, cmd := h.model.Update(next)
		h.model = updated.(Model)
		queue = append(queue, collect(cmd)...)
	}
}

func (h *harness) typeText(text string) {
	h.t.Helper()
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func (h *harness) press(keyType tea.KeyType) {
	h.t.Helper()
	h.send(tea.KeyMsg{Type: keyType})
}

// loginPlatform signs the harness client in before the model starts.
func (h *harness) loginPlatform() {
	h.t.Helper()
	if _, err := h.client.PlatformLogin(context.Background(), apiclient.LoginRequest{
		Username: testutil.PlatformUsername,
		Password: testutil.PlatformPassword,
	}); err != nil {
		h.t.Fatalf("PlatformLogin failed: %v", err)
	}
}

// ignored drops animation messages, which would otherwise keep the
// model busy forever.
func ignored(message tea.Msg) bool {
	switch message.(type) {
	case nil, spinner.TickMsg, highlightTickMsg:
		return true
	}
	name := fmt.Sprintf("%T", message)
	return strings.HasPrefix(name, "cursor.") || strings.HasPrefix(name, "textinput.")
}

// collect runs cmd and returns the messages it produced, flattening
// batches. Batched commands run concurrently, as bubbletea runs them.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	results := make(chan tea.Msg, 1)
	go func() { results <- cmd() }()

	var message tea.Msg
	select {
	case message = <-results:
	case <-time.After(cmdTimeout):
		return nil
	}
	batch, ok := message.(tea.BatchMsg)
	if !ok {
		if message == nil {
			return nil
		}
		return []tea.Msg{message}
	}

	collected := make([][]tea.Msg, len(batch))
	var wg sync.WaitGroup
	for index, inner := range batch {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collected[index] = collect(inner)
		}()
	}
	wg.Wait()
	var messages []tea.Msg
	for _, group := range collected {
		messages = append(messages, group...)
	}
	return messages
}

func TestProtectedRouteWaitsForSessionCheck(t *testing.T) {
	server := testutil.NewAPIServer(t)
	h := newHarness(t, server, "/platform/tenants")

	if h.model.current != nil {
		t.Fatalf("screen built before the session check: %T", h.model.current)
	}
	if view := h.model.View(); !strings.Contains(view, "Checking session") {
		t.Errorf("waiting view = %q", view)
	}
	if count := server.Count("GET /platform/tenants"); count != 0 {
		t.Errorf("tenants fetched %d times before the session check", count)
	}

	h.start()
	if h.model.Path() != "/platform/login" {
		t.Fatalf("path = %q, want /platform/login", h.model.Path())
	}
	if _, ok := h.model.current.(*loginView); !ok {
		t.Errorf("current = %T, want *loginView", h.model.current)
	}
	if count := server.Count("GET /auth/me"); count != 1 {
		t.Errorf("GET /auth/me called %d times, want 1", count)
	}
}

func TestRestoredSessionOpensProtectedRoute(t *testing.T) {
	server := testutil.NewAPIServer(t)
	h := newHarness(t, server, "/platform/tenants")
	h.loginPlatform()
	h.start()

	if h.model.Path() != "/platform/tenants" {
		t.Fatalf("path = %q", h.model.Path())
	}
	if _, ok := h.model.current.(*listView[apiclient.Tenant]); !ok {
		t.Fatalf("current = %T", h.model.current)
	}
	if view := h.model.View(); !strings.Contains(view, "No tenants found") || !strings.Contains(view, "admin · platform") {
		t.Errorf("tenants view missing empty text or identity:\n%s", view)
	}
}

func TestPlatformLogin(t *testing.T) {
	server := testutil.NewAPIServer(t)
	h := newHarness(t, server, "/platform/login")
	h.start()

	h.typeText(testutil.PlatformUsername)
	h.press(tea.KeyTab)
	h.typeText(testutil.PlatformPassword)
	h.press(tea.KeyEnter)

	if h.model.Path() != "/platform/dashboard" {
		t.Fatalf("path = %q, want /platform/dashboard", h.model.Path())
	}
	if _, ok := h.model.current.(*dashboardView); !ok {
		t.Fatalf("current = %T, want *dashboardView", h.model.current)
	}
	state := h.store.State()
	if !state.Is(session.UserPlatform) || state.Identity.Username != testutil.PlatformUsername {
		t.Errorf("store state = %+v", state)
	}
}

func TestLoginFailures(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		server := testutil.NewAPIServer(t)
		h := newHarness(t, server, "/platform/login")
		h.start()
		h.typeText(testutil.PlatformUsername)
		h.press(tea.KeyCtrlS)

		login := h.model.current.(*loginView)
		if login.err != "All fields are required." {
			t.Errorf("err = %q", login.err)
		}
		if count := server.Count("POST /auth/platform/login"); count != 0 {
			t.Errorf("login sent %d times with a blank password", count)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		server := testutil.NewAPIServer(t)
		h := newHarness(t, server, "/platform/login")
		h.start()
		h.typeText(testutil.PlatformUsername)
		h.press(tea.KeyTab)
		h.typeText("wrong")
		h.press(tea.KeyEnter)

		if h.model.Path() != "/platform/login" {
			t.Fatalf("path = %q", h.model.Path())
		}
		login := h.model.current.(*loginView)
		if login.err != "Invalid credentials" || login.loading {
			t.Errorf("err = %q loading = %v", login.err, login.loading)
		}
		if h.store.State().Authenticated() {
			t.Error("store authenticated after a failed login")
		}
	})
}

func TestTenantUserCannotOpenPlatformScreens(t *testing.T) {
	server := testutil.NewAPIServer(t)
	tenant := server.AddTenant("Acme Corp", "acme", "ACTIVE")
	server.AddTenantUser(tenant.ID, "ops@acme.test", "secret-pass", "Olive", "Ops")

	h := newHarness(t, server, "/tenant/login")
	h.start()
	h.typeText("acme")
	h.press(tea.KeyTab)
	h.typeText("ops@acme.test")
	h.press(tea.KeyTab)
	h.typeText("secret-pass")
	h.press(tea.KeyEnter)

	if h.model.Path() != "/tenant/dashboard" {
		t.Fatalf("path after tenant login = %q", h.model.Path())
	}
	if !h.store.State().Is(session.UserTenant) {
		t.Fatalf("store state = %+v", h.store.State())
	}

	h.send(navigateMsg{path: "/platform/tenants"})
	if h.model.Path() != "/platform/login" {
		t.Errorf("path = %q, want /platform/login", h.model.Path())
	}
	if count := server.Count("GET /platform/tenants"); count != 0 {
		t.Errorf("platform tenants fetched %d times for a tenant user", count)
	}
}

func TestTenantCreateEditDelete(t *testing.T) {
	server := testutil.NewAPIServer(t)
	h := newHarness(t, server, "/platform/tenants")
	h.loginPlatform()
	h.start()
	tenants := h.model.current.(*listView[apiclient.Tenant])

	h.typeText("n")
	if tenants.form == nil {
		t.Fatal("create form did not open")
	}
	h.typeText("Acme Corp")
	if got := tenants.form.dialog.Value("slug"); got != "acme-corp" {
		t.Errorf("derived slug = %q, want acme-corp", got)
	}
	h.press(tea.KeyEnter)

	if tenants.form != nil {
		t.Fatalf("form still open: %q", tenants.form.dialog.Error())
	}
	stored := server.Tenants()
	if len(stored) != 1 || stored[0].Slug != "acme-corp" || stored[0].Status != "ACTIVE" {
		t.Fatalf("server tenants = %+v", stored)
	}
	if len(tenants.items) != 1 {
		t.Fatalf("list has %d rows, want 1", len(tenants.items))
	}
	if _, ok := tenants.changes.Active(stored[0].ID, fixedNow); !ok {
		t.Error("created row is not highlighted")
	}

	h.typeText("e")
	if tenants.form == nil {
		t.Fatal("edit form did not open")
	}
	h.press(tea.KeyTab) // slug is fixed after creation, so focus lands on status
	h.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	h.press(tea.KeyCtrlS)
	if tenants.form != nil {
		t.Fatalf("edit form still open: %q", tenants.form.dialog.Error())
	}
	if status := server.Tenants()[0].Status; status != "INACTIVE" {
		t.Errorf("status after edit = %q, want INACTIVE", status)
	}

	h.typeText("d")
	if view := h.model.View(); !strings.Contains(view, "Delete tenant") {
		t.Errorf("delete confirmation not shown:\n%s", view)
	}
	h.typeText("n")
	if tenants.screen.PendingDelete() != nil || len(server.Tenants()) != 1 {
		t.Fatal("cancel did not keep the tenant")
	}

	h.typeText("d")
	h.typeText("y")
	if len(server.Tenants()) != 0 {
		t.Fatalf("tenant not deleted: %+v", server.Tenants())
	}
	if len(tenants.items) != 0 {
		t.Errorf("list still has %d rows", len(tenants.items))
	}
}

func TestTenantCreateShowsServerError(t *testing.T) {
	server := testutil.NewAPIServer(t)
	server.AddTenant("Acme Corp", "acme-corp", "ACTIVE")
	h := newHarness(t, server, "/platform/tenants")
	h.loginPlatform()
	h.start()
	tenants := h.model.current.(*listView[apiclient.Tenant])

	server.FailNext("POST /platform/tenants", 409, map[string]string{"message": "Tenant slug already exists"})
	h.typeText("n")
	h.typeText("Acme Corp")
	h.press(tea.KeyEnter)

	if tenants.form == nil {
		t.Fatal("form closed after a failed save")
	}
	if got := tenants.form.dialog.Error(); got != "Tenant slug already exists" {
		t.Errorf("form error = %q", got)
	}
	h.press(tea.KeyEsc)
	if tenants.form != nil {
		t.Error("esc did not close the form")
	}
}

func TestTenantStatusFilter(t *testing.T) {
	server := testutil.NewAPIServer(t)
	server.AddTenant("Acme Corp", "acme", "ACTIVE")
	server.AddTenant("Globex", "globex", "SUSPENDED")
	h := newHarness(t, server, "/platform/tenants")
	h.loginPlatform()
	h.start()
	tenants := h.model.current.(*listView[apiclient.Tenant])
	if len(tenants.items) != 2 {
		t.Fatalf("initial rows = %d", len(tenants.items))
	}

	h.typeText("s")
	if len(tenants.items) != 1 || tenants.items[0].Slug != "acme" {
		t.Errorf("ACTIVE rows = %+v", tenants.items)
	}
	var filtered bool
	for _, request := range server.Requests() {
		if request.Endpoint() == "GET /platform/tenants" && request.Query == "status=ACTIVE" {
			filtered = true
		}
	}
	if !filtered {
		t.Error("no request carried status=ACTIVE")
	}
	if view := h.model.View(); !strings.Contains(view, "status: ACTIVE") {
		t.Errorf("subtitle missing from view:\n%s", view)
	}
}

func TestTenantFilterNarrowsRows(t *testing.T) {
	server := testutil.NewAPIServer(t)
	server.AddTenant("Acme Corp", "acme", "ACTIVE")
	server.AddTenant("Globex", "globex", "ACTIVE")
	server.AddTenant("Initech", "initech", "INACTIVE")
	h := newHarness(t, server, "/platform/tenants")
	h.loginPlatform()
	h.start()
	tenants := h.model.current.(*listView[apiclient.Tenant])

	h.typeText("/")
	h.typeText("glo")
	if len(tenants.matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(tenants.matches))
	}
	if selected, _ := tenants.selected(); selected.Slug != "globex" {
		t.Errorf("selected = %q", selected.Slug)
	}
	// q is filter text here, not quit.
	h.typeText("q")
	if h.quit {
		t.Error("q quit while typing a filter")
	}
	h.press(tea.KeyEsc)
	if len(tenants.matches) != 3 {
		t.Errorf("matches after clearing = %d, want 3", len(tenants.matches))
	}
}

func TestTenantUsersScreen(t *testing.T) {
	server := testutil.NewAPIServer(t)
	tenant := server.AddTenant("Acme Corp", "acme", "ACTIVE")
	server.AddTenantUser(tenant.ID, "ada@acme.test", "pw-123456", "Ada", "Lovelace")
	server.AddTenantUser(tenant.ID, "alan@acme.test", "pw-123456", "Alan", "Turing")
	h := newHarness(t, server, "/platform/tenants")
	h.loginPlatform()
	h.start()

	h.typeText("u")
	if want := tenantUsersPath(tenant.ID); h.model.Path() != want {
		t.Fatalf("path = %q, want %q", h.model.Path(), want)
	}
	users, ok := h.model.current.(*tenantUsersView)
	if !ok {
		t.Fatalf("current = %T", h.model.current)
	}
	header := strings.Join(users.header(), "\n")
	if !strings.Contains(header, "Tenant: Acme Corp (acme)") || !strings.Contains(header, "2 users") {
		t.Errorf("header = %q", header)
	}
	if len(users.items) != 2 {
		t.Errorf("rows = %d", len(users.items))
	}

	h.typeText("b")
	if h.model.Path() != "/platform/tenants" {
		t.Errorf("back went to %q", h.model.Path())
	}
}

func TestSectionKeysAndLogout(t *testing.T) {
	server := testutil.NewAPIServer(t)
	h := newHarness(t, server, "/platform/dashboard")
	h.loginPlatform()
	h.start()

	h.typeText("2")
	if h.model.Path() != "/platform/tenants" {
		t.Fatalf("section 2 went to %q", h.model.Path())
	}
	h.typeText("3")
	if h.model.Path() != "/platform/users" {
		t.Fatalf("section 3 went to %q", h.model.Path())
	}

	h.typeText("L")
	if h.model.Path() != "/platform/login" {
		t.Fatalf("path after logout = %q", h.model.Path())
	}
	if h.store.State().Authenticated() {
		t.Error("store still authenticated after logout")
	}
	if count := server.Count("POST /auth/platform/logout"); count != 1 {
		t.Errorf("logout requests = %d", count)
	}
}

func TestLogoutClearsSessionWhenServerFails(t *testing.T) {
	server := testutil.NewAPIServer(t)
	h := newHarness(t, server, "/platform/dashboard")
	h.loginPlatform()
	h.start()

	server.FailNext("POST /auth/platform/logout", 500, nil)
	h.typeText("L")
	if h.model.Path() != "/platform/login" || h.store.State().Authenticated() {
		t.Errorf("path = %q state = %+v", h.model.Path(), h.store.State())
	}
}

func TestHelpOverlay(t *testing.T) {
	server := testutil.NewAPIServer(t)
	h := newHarness(t, server, "/platform/dashboard")
	h.loginPlatform()
	h.start()

	h.typeText("?")
	// Headings are styled per rune, so compare against the plain text.
	view := ansi.Strip(h.model.View())
	if !strings.Contains(view, "Keyboard help") || !strings.Contains(view, "Getting around") {
		t.Fatalf("help overlay not shown:\n%s", view)
	}

	// Any key closes the overlay without acting on it.
	h.typeText("q")
	if h.quit {
		t.Fatal("q quit while the help overlay was open")
	}
	if strings.Contains(ansi.Strip(h.model.View()), "Keyboard help") {
		t.Error("help overlay still shown")
	}
	if h.model.Path() != "/platform/dashboard" {
		t.Errorf("path = %q", h.model.Path())
	}
}

func TestUnknownRouteGoesHome(t *testing.T) {
	server := testutil.NewAPIServer(t)
	h := newHarness(t, server, "/nowhere")
	h.start()
	if h.model.Path() != "/" {
		t.Fatalf("path = %q", h.model.Path())
	}
	if !strings.Contains(h.model.notice, "/nowhere") {
		t.Errorf("notice = %q", h.model.notice)
	}

	h.typeText("q")
	if !h.quit {
		t.Error("q did not quit from the home screen")
	}
}

func TestMatch(t *testing.T) {
	for _, test := range []struct {
		path string
		ok   bool
		kind routeKind
		area string
	}{
		{path: "/", ok: true, kind: routePublic},
		{path: "/platform/login", ok: true, kind: routeLogin, area: "platform"},
		{path: "/tenant/login", ok: true, kind: routeLogin, area: "tenant"},
		{path: "/tenant/dashboard", ok: true, kind: routeProtected, area: "tenant"},
		{path: "/platform/tenants/abc/users", ok: true, kind: routeProtected, area: "platform"},
		{path: "/platform/users", ok: true, kind: routeProtected, area: "platform"},
		{path: "/tenant/members", ok: true, kind: routeProtected, area: "tenant"},
		{path: "/admin/login", ok: false},
		{path: "/platform/tenants//users", ok: false},
		{path: "/tenant/tenants", ok: false},
	} {
		resolved, ok := match(test.path)
		if ok != test.ok {
			t.Errorf("match(%q) ok = %v, want %v", test.path, ok, test.ok)
			continue
		}
		if ok && (resolved.kind != test.kind || string(resolved.area) != test.area) {
			t.Errorf("match(%q) = kind %v area %q", test.path, resolved.kind, resolved.area)
		}
	}
}

func TestNextStatusFilter(t *testing.T) {
	sequence := []string{"", "ACTIVE", "INACTIVE", "SUSPENDED", ""}
	for index := 0; index+1 < len(sequence); index++ {
		if got := nextStatusFilter(sequence[index]); got != sequence[index+1] {
			t.Errorf("nextStatusFilter(%q) = %q, want %q", sequence[index], got, sequence[index+1])
		}
	}
}
