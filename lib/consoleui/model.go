// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mayuran19/mms-console/apiclient"
	"github.com/mayuran19/mms-console/lib/guard"
	"github.com/mayuran19/mms-console/lib/session"
	"github.com/mayuran19/mms-console/lib/tui"
)

// Options configures a console Model.
type Options struct {
	Client *apiclient.Client
	Store  *session.Store
	Logger *slog.Logger

	// StartPath is the first route shown. Defaults to "/".
	StartPath string

	// Context bounds every request the console makes. Defaults to
	// context.Background.
	Context context.Context

	// Now is the clock used for row highlighting. Defaults to time.Now.
	Now func() time.Time
}

// authCheckedMsg carries the result of the startup session check.
type authCheckedMsg struct {
	state session.State
}

// sessionMsg carries a session change published by the store.
type sessionMsg struct {
	state session.State
}

// logoutDoneMsg reports that the server logout call finished.
type logoutDoneMsg struct {
	area guard.Area
	err  error
}

//go:embed help.md
var helpText string

// maxRedirects bounds a chain of guard redirects for one navigation.
const maxRedirects = 4

// Model is the top-level bubbletea model of the console. It owns the
// router: every navigation, and every session change, runs the route
// guard for the current path before a screen is built.
type Model struct {
	env

	width  int
	height int

	state      session.State
	checked    bool
	path       string
	route      route
	current    view
	loggingOut bool
	helpOpen   bool
	notice     string
	spinner    spinner.Model

	updates     <-chan session.State
	stopUpdates func()
	start       tea.Cmd
}

// NewModel creates the console at options.StartPath. The session is
// unknown until Init's auth check returns, so a protected start path
// renders only the waiting indicator until then.
func NewModel(options Options) Model {
	ctx := options.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := options.Now
	if now == nil {
		now = time.Now
	}
	path := options.StartPath
	if path == "" {
		path = "/"
	}

	model := Model{
		env: env{
			ctx:    ctx,
			client: options.Client,
			store:  options.Store,
			logger: logger,
			theme:  tui.DefaultTheme,
			keys:   DefaultKeyMap,
			now:    now,
		},
		state:   options.Store.State(),
		path:    path,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	model.updates, model.stopUpdates = options.Store.Subscribe()
	model.start = model.resolve(0)
	return model
}

// Init implements tea.Model: it checks the session once, starts the
// first screen, and listens for session changes.
func (model Model) Init() tea.Cmd {
	return tea.Batch(model.start, model.checkAuth(), listenSession(model.updates), model.spinner.Tick)
}

// Close stops the session subscription and cancels the current
// screen's requests. Call it after the program exits.
func (model Model) Close() {
	if model.stopUpdates != nil {
		model.stopUpdates()
	}
	if model.current != nil {
		model.current.Close()
	}
}

// Path returns the route currently shown.
func (model Model) Path() string {
	return model.path
}

func (model Model) checkAuth() tea.Cmd {
	store, ctx := model.store, model.ctx
	return func() tea.Msg {
		return authCheckedMsg{state: store.CheckAuth(ctx)}
	}
}

func listenSession(updates <-chan session.State) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		state, ok := <-updates
		if !ok {
			return nil
		}
		return sessionMsg{state: state}
	}
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height

	case tea.KeyMsg:
		if key.Matches(message, model.keys.ForceQuit) {
			return model, tea.Quit
		}
		if model.helpOpen {
			model.helpOpen = false
			return model, nil
		}
		if model.current == nil || !model.current.Capturing() {
			if cmd, handled := model.handleGlobalKey(message); handled {
				return model, cmd
			}
		}

	case authCheckedMsg:
		model.checked = true
		return model, model.applyState(message.state)

	case sessionMsg:
		return model, tea.Batch(model.applyState(message.state), listenSession(model.updates))

	case navigateMsg:
		return model, model.navigate(message.path)

	case logoutDoneMsg:
		model.loggingOut = false
		if message.err != nil {
			model.logger.Warn("server logout failed; clearing local session anyway", "error", message.err)
		}
		model.store.Logout()
		model.state = model.store.State()
		return model, model.navigate(guard.LoginPath(message.area))

	case spinner.TickMsg:
		if model.current == nil {
			var cmd tea.Cmd
			model.spinner, cmd = model.spinner.Update(message)
			return model, cmd
		}
	}

	if model.current == nil {
		return model, nil
	}
	cmd := model.current.Update(message)
	// A screen may have changed the session (a login); re-run the
	// guard with what the store now holds.
	if state := model.store.State(); !sameState(state, model.state) {
		cmd = tea.Batch(cmd, model.applyState(state))
	}
	return model, cmd
}

func (model *Model) handleGlobalKey(message tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return tea.Quit, true

	case key.Matches(message, model.keys.Help):
		model.helpOpen = true
		return nil, true

	case key.Matches(message, model.keys.Logout):
		if !model.state.Authenticated() || model.loggingOut {
			return nil, true
		}
		return model.logout(), true
	}

	area, ok := model.navArea()
	if !ok {
		return nil, false
	}
	for index, binding := range []key.Binding{model.keys.Section1, model.keys.Section2, model.keys.Section3} {
		if key.Matches(message, binding) && index < len(sections[area]) {
			return model.navigate(sections[area][index].path), true
		}
	}
	return nil, false
}

// logout ends the session on the server, then clears it locally
// whatever the server said.
func (model *Model) logout() tea.Cmd {
	model.loggingOut = true
	area := guard.Area(model.state.Identity.UserType)
	client, ctx := model.client, model.ctx
	return func() tea.Msg {
		var err error
		if area == guard.AreaTenant {
			err = client.TenantLogout(ctx)
		} else {
			err = client.PlatformLogout(ctx)
		}
		return logoutDoneMsg{area: area, err: err}
	}
}

func (model *Model) applyState(state session.State) tea.Cmd {
	model.state = state
	return model.resolve(0)
}

// navigate shows path, subject to its guard.
func (model *Model) navigate(path string) tea.Cmd {
	return model.navigateFrom(path, 0)
}

func (model *Model) navigateFrom(path string, hops int) tea.Cmd {
	if path == model.path && model.current != nil {
		return nil
	}
	model.path = path
	return model.resolve(hops)
}

// resolve runs the guard for the current path and builds its screen
// when the guard allows it.
func (model *Model) resolve(hops int) tea.Cmd {
	resolved, ok := match(model.path)
	if !ok {
		model.notice = "Page not found: " + model.path
		model.logger.Info("unknown route", "path", model.path)
		if model.path == "/" {
			return nil
		}
		return model.navigateFrom("/", hops+1)
	}

	decision := guard.Decision{Action: guard.Render}
	switch resolved.kind {
	case routeProtected:
		decision = guard.Protect(resolved.area, model.state)
	case routeLogin:
		decision = guard.ForLogin(resolved.area, model.state)
	}

	switch decision.Action {
	case guard.Wait:
		model.closeCurrent()
		return nil
	case guard.Redirect:
		if hops >= maxRedirects {
			model.logger.Error("redirect loop", "path", model.path, "target", decision.Target)
			return nil
		}
		model.logger.Debug("guard redirect", "from", model.path, "to", decision.Target)
		return model.navigateFrom(decision.Target, hops+1)
	}

	if model.current != nil && model.route.path == resolved.path {
		return nil
	}
	model.closeCurrent()
	if hops == 0 {
		model.notice = ""
	}
	model.route = resolved
	model.current = resolved.build(model.env)
	model.logger.Debug("showing screen", "path", resolved.path)
	return model.current.Init()
}

func (model *Model) closeCurrent() {
	if model.current != nil {
		model.current.Close()
		model.current = nil
	}
}

// navArea is the area whose nav bar is shown: the area of the current
// route when the session belongs to it.
func (model Model) navArea() (guard.Area, bool) {
	if model.current == nil || model.route.kind != routeProtected {
		return "", false
	}
	if !model.state.Is(model.route.area.UserType()) {
		return "", false
	}
	return model.route.area, true
}

func sameState(a, b session.State) bool {
	if a.Phase != b.Phase || a.Loading != b.Loading {
		return false
	}
	if a.Identity == nil || b.Identity == nil {
		return a.Identity == b.Identity
	}
	return *a.Identity == *b.Identity
}

// View implements tea.Model.
func (model Model) View() string {
	width, height := model.width, model.height
	if width == 0 || height == 0 {
		width, height = 100, 30
	}
	bodyHeight := max(height-2, 1)

	var body string
	if model.current == nil {
		waiting := model.spinner.View() + " Checking session…"
		body = lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center, waiting)
	} else {
		body = model.current.View(width, bodyHeight)
	}
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).MaxWidth(width).Render(body)

	screen := model.renderNav(width) + "\n" + body + "\n" + model.renderFooter(width)
	if model.helpOpen {
		modal := tui.Modal{
			Title:  "Keyboard help",
			Body:   tui.RenderMarkdown(helpText, model.theme, min(72, max(width-12, 30))),
			Footer: "any key to close",
		}
		screen = modal.Overlay(screen, model.theme, width, height)
	}
	return screen
}

func (model Model) renderNav(width int) string {
	theme := model.theme
	brand := lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground).Render(" MMS Console ")

	var items []string
	if area, ok := model.navArea(); ok {
		for index, entry := range sections[area] {
			label := fmt.Sprintf("[%d] %s", index+1, entry.label)
			style := lipgloss.NewStyle().Foreground(theme.FaintText)
			if model.path == entry.path || (entry.path != sections[area][0].path && strings.HasPrefix(model.path, entry.path+"/")) {
				style = lipgloss.NewStyle().Bold(true).Foreground(theme.AccentColor).Underline(true)
			}
			items = append(items, style.Render(label))
		}
	}
	left := brand
	if len(items) > 0 {
		left += lipgloss.NewStyle().Foreground(theme.BorderColor).Render("│ ") + strings.Join(items, "  ")
	}

	var right string
	if model.state.Authenticated() {
		identity := model.state.Identity
		right = identity.Username + " · " + string(identity.UserType) + " "
		if model.loggingOut {
			right = "Logging out… "
		}
	}
	right = lipgloss.NewStyle().Foreground(theme.FaintText).Render(right)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	return left + strings.Repeat(" ", max(gap, 1)) + right
}

func (model Model) renderFooter(width int) string {
	theme := model.theme
	var parts []string
	if model.notice != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.StatusSuspended).Render(model.notice))
	}
	if model.current != nil {
		parts = append(parts, model.current.Help())
	}
	global := "? help  q quit"
	if model.state.Authenticated() {
		global = "L log out  " + global
	}
	if model.current != nil && model.current.Capturing() {
		global = "ctrl+c quit"
	}
	parts = append(parts, global)
	return lipgloss.NewStyle().Foreground(theme.HelpText).MaxWidth(width).Render(" " + strings.Join(parts, "  │  "))
}

// Run starts the console full screen and blocks until the operator
// quits or ctx is canceled.
func Run(ctx context.Context, options Options) error {
	options.Context = ctx
	model := NewModel(options)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if finalModel, ok := final.(Model); ok {
		finalModel.Close()
	} else {
		model.Close()
	}
	if err != nil {
		return fmt.Errorf("consoleui: %w", err)
	}
	return nil
}
