// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mayuran19/mms-console/apiclient"
	"github.com/mayuran19/mms-console/lib/session"
	"github.com/mayuran19/mms-console/lib/tui"
)

// view is one screen behind a route. Views are pointers updated in
// place by the root model, always on the bubbletea update goroutine.
type view interface {
	// Init returns the commands that start the screen, typically its
	// first fetch.
	Init() tea.Cmd
	Update(message tea.Msg) tea.Cmd
	View(width, height int) string
	// Help is the key hint line for the footer.
	Help() string
	// Capturing reports whether keystrokes belong to an input, so the
	// root must not treat them as global shortcuts.
	Capturing() bool
	// Close cancels the screen's outstanding requests.
	Close()
}

// env is what every screen needs from the root.
type env struct {
	ctx    context.Context
	client *apiclient.Client
	store  *session.Store
	logger *slog.Logger
	theme  tui.Theme
	keys   KeyMap
	now    func() time.Time
}

var viewSequence atomic.Int64

// nextViewID identifies a screen instance so messages addressed to a
// screen that was navigated away from are ignored.
func nextViewID() int64 {
	return viewSequence.Add(1)
}

// navigateMsg asks the root to show another route.
type navigateMsg struct {
	path string
}

func navigate(path string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path} }
}

// helpLine renders key bindings as "k desc" pairs.
func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" {
			continue
		}
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return strings.Join(parts, "  ")
}

// renderBanner draws an error line across the width.
func renderBanner(theme tui.Theme, message string, width int, dismissible bool) string {
	if message == "" {
		return ""
	}
	if dismissible {
		message += "  (x to dismiss)"
	}
	return lipgloss.NewStyle().
		Foreground(theme.ErrorForeground).
		Background(theme.ErrorBackground).
		Width(width).
		Render(" " + message)
}

// renderHeading draws a screen title with an optional faint subtitle.
func renderHeading(theme tui.Theme, title, subtitle string) string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground).Render(title)
	if subtitle != "" {
		heading += "  " + lipgloss.NewStyle().Foreground(theme.FaintText).Render(subtitle)
	}
	return heading
}
