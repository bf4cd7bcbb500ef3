// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mayuran19/mms-console/lib/guard"
)

// homeView is the landing screen at "/": pick an area to sign in to.
type homeView struct {
	env
}

func newHomeView(environment env) *homeView {
	return &homeView{env: environment}
}

func (view *homeView) Init() tea.Cmd   { return nil }
func (view *homeView) Capturing() bool { return false }
func (view *homeView) Close()          {}

func (view *homeView) Help() string {
	return "p platform login  t tenant login  q quit"
}

func (view *homeView) Update(message tea.Msg) tea.Cmd {
	keyMessage, ok := message.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch keyMessage.String() {
	case "p":
		return navigate(guard.LoginPath(guard.AreaPlatform))
	case "t":
		return navigate(guard.LoginPath(guard.AreaTenant))
	}
	return nil
}

func (view *homeView) View(width, height int) string {
	faint := lipgloss.NewStyle().Foreground(view.theme.FaintText)
	accent := lipgloss.NewStyle().Bold(true).Foreground(view.theme.AccentColor)
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(view.theme.BorderColor).
		Padding(1, 2).
		Width(36)

	platform := card.Render(strings.Join([]string{
		accent.Render("Platform Admin"),
		faint.Render("Manage tenants, platform users, and system-wide settings"),
		"",
		"[p] Platform Login",
	}, "\n"))
	tenant := card.Render(strings.Join([]string{
		accent.Render("Tenant Access"),
		faint.Render("Access your tenant portal and manage members"),
		"",
		"[t] Tenant Login",
	}, "\n"))

	content := lipgloss.JoinVertical(lipgloss.Center,
		renderHeading(view.theme, "Member Management System", ""),
		faint.Render("Streamline your organization's member and tenant management"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, platform, "  ", tenant),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
