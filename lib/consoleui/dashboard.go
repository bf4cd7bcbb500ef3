// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mayuran19/mms-console/apiclient"
	"github.com/mayuran19/mms-console/lib/guard"
)

// dashboardStatsMsg carries the figures behind the dashboard cards.
type dashboardStatsMsg struct {
	view    int64
	tenants map[apiclient.TenantStatus]int
	total   int
	users   int
	err     error
}

// dashboardView is an area's landing screen: who is signed in, and
// summary cards linking to the area's sections.
type dashboardView struct {
	env
	id     int64
	area   guard.Area
	ctx    context.Context
	cancel context.CancelFunc

	loading bool
	stats   *dashboardStatsMsg
	err     string
	spinner spinner.Model
}

func newDashboardView(environment env, area guard.Area) *dashboardView {
	ctx, cancel := context.WithCancel(environment.ctx)
	return &dashboardView{
		env:     environment,
		id:      nextViewID(),
		area:    area,
		ctx:     ctx,
		cancel:  cancel,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (view *dashboardView) Init() tea.Cmd {
	view.loading = true
	client, ctx, id, area := view.client, view.ctx, view.id, view.area
	fetch := func() tea.Msg {
		message := dashboardStatsMsg{view: id, tenants: make(map[apiclient.TenantStatus]int)}
		if area == guard.AreaTenant {
			members, err := client.ListTenantMembers(ctx)
			message.users, message.err = len(members), err
			return message
		}
		tenants, err := client.ListTenants(ctx, "")
		if err != nil {
			message.err = err
			return message
		}
		for _, tenant := range tenants {
			message.tenants[tenant.Status]++
		}
		message.total = len(tenants)
		users, err := client.ListPlatformUsers(ctx)
		message.users, message.err = len(users), err
		return message
	}
	return tea.Batch(fetch, view.spinner.Tick)
}

func (view *dashboardView) Close()          { view.cancel() }
func (view *dashboardView) Capturing() bool { return false }

func (view *dashboardView) Help() string {
	if view.area == guard.AreaTenant {
		return "m members  r reload"
	}
	return "t tenants  u users  r reload"
}

func (view *dashboardView) Update(message tea.Msg) tea.Cmd {
	switch message := message.(type) {
	case dashboardStatsMsg:
		if message.view != view.id {
			return nil
		}
		view.loading = false
		if message.err != nil {
			view.err = message.err.Error()
			return nil
		}
		view.err = ""
		view.stats = &message
	case spinner.TickMsg:
		if !view.loading {
			return nil
		}
		var cmd tea.Cmd
		view.spinner, cmd = view.spinner.Update(message)
		return cmd
	case tea.KeyMsg:
		switch message.String() {
		case "r":
			if !view.loading {
				return view.Init()
			}
		case "x":
			view.err = ""
		case "t":
			if view.area == guard.AreaPlatform {
				return navigate("/platform/tenants")
			}
		case "u":
			if view.area == guard.AreaPlatform {
				return navigate("/platform/users")
			}
		case "m":
			if view.area == guard.AreaTenant {
				return navigate("/tenant/members")
			}
		}
	}
	return nil
}

func (view *dashboardView) figure(value int) string {
	switch {
	case view.stats != nil:
		return fmt.Sprint(value)
	case view.loading:
		return view.spinner.View()
	}
	return "-"
}

func (view *dashboardView) View(width, height int) string {
	theme := view.theme
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)
	big := lipgloss.NewStyle().Bold(true).Foreground(theme.AccentColor)
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		Padding(0, 2).
		Width(30)

	state := view.store.State()
	var identity []string
	if state.Identity != nil {
		identity = append(identity, "Signed in as "+state.Identity.Username+" <"+state.Identity.Email+">")
		if state.Identity.TenantID != "" {
			identity = append(identity, "Tenant "+state.Identity.TenantID)
		}
	}

	var title, subtitle string
	var cards []string
	if view.area == guard.AreaTenant {
		title, subtitle = "Tenant Dashboard", "Welcome to your tenant dashboard"
		cards = append(cards, card.Render(strings.Join([]string{
			"Members", big.Render(view.figure(view.usersFigure())), faint.Render("[m] View members"),
		}, "\n")))
	} else {
		title, subtitle = "Platform Dashboard", "Welcome to the platform administration panel"
		tenantLines := []string{"Tenants", big.Render(view.figure(view.totalFigure()))}
		if view.stats != nil {
			var breakdown []string
			for _, status := range apiclient.TenantStatuses {
				style := lipgloss.NewStyle().Foreground(theme.StatusColor(string(status)))
				breakdown = append(breakdown, style.Render(fmt.Sprintf("%d %s", view.stats.tenants[status], strings.ToLower(string(status)))))
			}
			tenantLines = append(tenantLines, strings.Join(breakdown, " "))
		}
		tenantLines = append(tenantLines, faint.Render("[t] Manage Tenants"))
		cards = append(cards,
			card.Render(strings.Join(tenantLines, "\n")),
			card.Render(strings.Join([]string{
				"Users", big.Render(view.figure(view.usersFigure())), faint.Render("[u] Manage Platform Users"),
			}, "\n")),
			card.Render(strings.Join([]string{
				"System", lipgloss.NewStyle().Bold(true).Foreground(theme.StatusActive).Render("Active"), faint.Render("System Status"),
			}, "\n")),
		)
	}

	lines := []string{renderHeading(theme, title, subtitle)}
	for _, line := range identity {
		lines = append(lines, faint.Render(line))
	}
	if view.err != "" {
		lines = append(lines, renderBanner(theme, view.err, width, true))
	}
	lines = append(lines, "", lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	return strings.Join(lines, "\n")
}

func (view *dashboardView) usersFigure() int {
	if view.stats == nil {
		return 0
	}
	return view.stats.users
}

func (view *dashboardView) totalFigure() int {
	if view.stats == nil {
		return 0
	}
	return view.stats.total
}
