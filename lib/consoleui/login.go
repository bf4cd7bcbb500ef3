// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mayuran19/mms-console/apiclient"
	"github.com/mayuran19/mms-console/lib/guard"
	"github.com/mayuran19/mms-console/lib/session"
)

// unexpectedLoginError is shown when a login fails without a message.
const unexpectedLoginError = "An unexpected error occurred. Please try again."

// loginResultMsg carries the outcome of a login request.
type loginResultMsg struct {
	view     int64
	response *apiclient.LoginResponse
	err      error
}

// loginView is the sign-in form for one area. Platform administrators
// give a username; tenant staff also name their tenant by ID or slug.
type loginView struct {
	env
	id   int64
	area guard.Area

	inputs  []textinput.Model
	focus   int
	loading bool
	err     string
	spinner spinner.Model
	cancel  context.CancelFunc
}

// Input order within loginView.inputs.
const (
	loginTenant = iota
	loginUsername
	loginPassword
)

func newLoginView(environment env, area guard.Area) *loginView {
	view := &loginView{
		env:     environment,
		id:      nextViewID(),
		area:    area,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	tenant := textinput.New()
	tenant.Prompt = "Tenant:   "
	tenant.Placeholder = "tenant ID or slug"
	username := textinput.New()
	username.Prompt = "Username: "
	if area == guard.AreaTenant {
		username.Prompt = "Email:    "
		username.Placeholder = "you@example.com"
	}
	password := textinput.New()
	password.Prompt = "Password: "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	view.inputs = []textinput.Model{tenant, username, password}

	view.focus = loginUsername
	if area == guard.AreaTenant {
		view.focus = loginTenant
	}
	view.inputs[view.focus].Focus()
	return view
}

func (view *loginView) Init() tea.Cmd {
	return textinput.Blink
}

func (view *loginView) Capturing() bool { return true }

func (view *loginView) Close() {
	if view.cancel != nil {
		view.cancel()
	}
}

func (view *loginView) Help() string {
	return "tab next field  enter sign in  esc home  ctrl+c quit"
}

// visible reports whether input index is part of this area's form.
func (view *loginView) visible(index int) bool {
	return index != loginTenant || view.area == guard.AreaTenant
}

func (view *loginView) moveFocus(delta int) tea.Cmd {
	view.inputs[view.focus].Blur()
	for {
		view.focus = (view.focus + delta + len(view.inputs)) % len(view.inputs)
		if view.visible(view.focus) {
			break
		}
	}
	return view.inputs[view.focus].Focus()
}

func (view *loginView) Update(message tea.Msg) tea.Cmd {
	switch message := message.(type) {
	case loginResultMsg:
		if message.view != view.id {
			return nil
		}
		return view.finish(message)

	case spinner.TickMsg:
		if !view.loading {
			return nil
		}
		var cmd tea.Cmd
		view.spinner, cmd = view.spinner.Update(message)
		return cmd

	case tea.KeyMsg:
		if view.loading {
			return nil
		}
		switch {
		case message.Type == tea.KeyEsc:
			return navigate("/")
		case message.Type == tea.KeyTab, message.Type == tea.KeyDown:
			return view.moveFocus(1)
		case message.Type == tea.KeyShiftTab, message.Type == tea.KeyUp:
			return view.moveFocus(-1)
		case message.Type == tea.KeyEnter:
			if view.focus != loginPassword {
				return view.moveFocus(1)
			}
			return view.submit()
		case key.Matches(message, view.keys.Submit):
			return view.submit()
		}
		var cmd tea.Cmd
		view.inputs[view.focus], cmd = view.inputs[view.focus].Update(message)
		return cmd
	}
	return nil
}

// submit starts the login request. HTML-form semantics: every visible
// field is required.
func (view *loginView) submit() tea.Cmd {
	for index := range view.inputs {
		if view.visible(index) && strings.TrimSpace(view.inputs[index].Value()) == "" {
			view.err = "All fields are required."
			return nil
		}
	}
	view.err = ""
	view.loading = true

	ctx, cancel := context.WithCancel(view.ctx)
	view.cancel = cancel
	client := view.client
	id := view.id
	area := view.area
	tenant := view.inputs[loginTenant].Value()
	username := strings.TrimSpace(view.inputs[loginUsername].Value())
	password := view.inputs[loginPassword].Value()

	request := func() tea.Msg {
		var response *apiclient.LoginResponse
		var err error
		if area == guard.AreaTenant {
			response, err = client.TenantLogin(ctx, apiclient.NewTenantLoginRequest(tenant, username, password))
		} else {
			response, err = client.PlatformLogin(ctx, apiclient.LoginRequest{Username: username, Password: password})
		}
		return loginResultMsg{view: id, response: response, err: err}
	}
	return tea.Batch(request, view.spinner.Tick)
}

func (view *loginView) finish(message loginResultMsg) tea.Cmd {
	view.loading = false
	if message.err != nil {
		view.err = message.err.Error()
		if view.err == "" {
			view.err = unexpectedLoginError
		}
		view.logger.Info("login failed", "area", view.area, "error", message.err)
		return nil
	}
	identity, err := session.IdentityFromLogin(message.response)
	if err == nil {
		err = view.store.Login(identity)
	}
	if err != nil {
		view.err = unexpectedLoginError
		view.logger.Warn("login returned an unusable identity", "area", view.area, "error", err)
		return nil
	}
	view.inputs[loginPassword].SetValue("")
	return navigate(guard.DashboardPath(view.area))
}

func (view *loginView) View(width, height int) string {
	title := "Platform Login"
	subtitle := "Sign in as a platform administrator"
	if view.area == guard.AreaTenant {
		title = "Tenant Login"
		subtitle = "Sign in to your tenant portal"
	}

	var lines []string
	lines = append(lines, renderHeading(view.theme, title, subtitle), "")
	if view.err != "" {
		lines = append(lines, renderBanner(view.theme, view.err, min(width, 60), false), "")
	}
	for index := range view.inputs {
		if view.visible(index) {
			lines = append(lines, view.inputs[index].View())
		}
	}
	lines = append(lines, "")
	if view.loading {
		lines = append(lines, view.spinner.View()+" Signing in…")
	} else {
		lines = append(lines, lipgloss.NewStyle().Foreground(view.theme.FaintText).Render("enter to sign in"))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(view.theme.BorderColor).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
