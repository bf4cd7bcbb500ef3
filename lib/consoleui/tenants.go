// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mayuran19/mms-console/apiclient"
	"github.com/mayuran19/mms-console/lib/resource"
	"github.com/mayuran19/mms-console/lib/tui"
)

// tenantUsersPath is the route of one tenant's user list.
func tenantUsersPath(tenantID string) string {
	return "/platform/tenants/" + tenantID + "/users"
}

// nextStatusFilter cycles all → ACTIVE → INACTIVE → SUSPENDED → all.
func nextStatusFilter(current string) string {
	if current == "" {
		return string(apiclient.TenantStatuses[0])
	}
	for index, status := range apiclient.TenantStatuses {
		if string(status) == current && index+1 < len(apiclient.TenantStatuses) {
			return string(apiclient.TenantStatuses[index+1])
		}
	}
	return ""
}

// newTenantsView builds the platform tenant table.
func newTenantsView(environment env) *listView[apiclient.Tenant] {
	screen := resource.NewScreen(resource.TenantEntity(), resource.TenantOperations{API: environment.client}, "", environment.logger)
	var view *listView[apiclient.Tenant]
	view = newListView(environment, screen, listConfig[apiclient.Tenant]{
		title: "Tenants",
		columns: []column[apiclient.Tenant]{
			{title: "Name", width: 28, value: func(tenant apiclient.Tenant) string { return tenant.Name }},
			{title: "Slug", width: 22, value: func(tenant apiclient.Tenant) string { return tenant.Slug }},
			{title: "Status", width: 10, status: true, value: func(tenant apiclient.Tenant) string { return string(tenant.Status) }},
			{title: "Created", width: 22, value: func(tenant apiclient.Tenant) string { return tui.FormatDate(tenant.CreatedDate) }},
		},
		emptyText: "No tenants found. Press n to create your first tenant.",
		subtitle: func() string {
			if scope := screen.Scope(); scope != "" {
				return "status: " + scope
			}
			return "status: all"
		},
		extraHelp: []key.Binding{environment.keys.Users, environment.keys.Status},
		extraKeys: func(message tea.KeyMsg) (tea.Cmd, bool) {
			switch {
			case key.Matches(message, environment.keys.Users):
				if tenant, ok := view.selected(); ok {
					return navigate(tenantUsersPath(tenant.ID)), true
				}
				return nil, true
			case key.Matches(message, environment.keys.Status):
				screen.SetScope(nextStatusFilter(screen.Scope()))
				view.refresh()
				return view.load(), true
			}
			return nil, false
		},
	})
	return view
}

// tenantUsersView is the user table of one tenant, headed by the
// tenant's name and user count.
type tenantUsersView struct {
	*listView[apiclient.TenantUser]
	tenantID string
	tenant   *apiclient.Tenant
	count    *int64
	infoErr  string
}

type (
	tenantInfoMsg struct {
		view   int64
		tenant *apiclient.Tenant
		err    error
	}
	userCountMsg struct {
		view  int64
		count int64
		err   error
	}
)

func newTenantUsersView(environment env, tenantID string) *tenantUsersView {
	screen := resource.NewScreen(resource.TenantUserEntity(), resource.TenantUserOperations{API: environment.client}, tenantID, environment.logger)
	view := &tenantUsersView{tenantID: tenantID}
	view.listView = newListView(environment, screen, listConfig[apiclient.TenantUser]{
		title: "Tenant Users",
		columns: []column[apiclient.TenantUser]{
			{title: "Name", width: 26, value: apiclient.TenantUser.FullName},
			{title: "Email", width: 32, value: func(user apiclient.TenantUser) string { return user.Email }},
			{title: "Created", width: 22, value: func(user apiclient.TenantUser) string { return tui.FormatDate(user.CreatedDate) }},
		},
		emptyText: "No users found. Press n to add a user to this tenant.",
		header:    view.header,
		extraHelp: []key.Binding{environment.keys.Back},
		extraKeys: func(message tea.KeyMsg) (tea.Cmd, bool) {
			if key.Matches(message, environment.keys.Back) {
				return navigate("/platform/tenants"), true
			}
			return nil, false
		},
		afterLoad: view.fetchCount,
	})
	return view
}

func (view *tenantUsersView) Init() tea.Cmd {
	return tea.Batch(view.listView.Init(), view.fetchTenant())
}

func (view *tenantUsersView) fetchTenant() tea.Cmd {
	client, ctx, id, tenantID := view.client, view.ctx, view.id, view.tenantID
	return func() tea.Msg {
		tenant, err := client.GetTenant(ctx, tenantID)
		return tenantInfoMsg{view: id, tenant: tenant, err: err}
	}
}

func (view *tenantUsersView) fetchCount() tea.Cmd {
	client, ctx, id, tenantID := view.client, view.ctx, view.id, view.tenantID
	return func() tea.Msg {
		count, err := client.CountTenantUsers(ctx, tenantID)
		return userCountMsg{view: id, count: count, err: err}
	}
}

func (view *tenantUsersView) Update(message tea.Msg) tea.Cmd {
	switch message := message.(type) {
	case tenantInfoMsg:
		if message.view != view.id {
			return nil
		}
		if message.err != nil {
			view.infoErr = message.err.Error()
			view.logger.Info("tenant details unavailable", "tenant_id", view.tenantID, "error", message.err)
			return nil
		}
		view.tenant = message.tenant
		return nil
	case userCountMsg:
		if message.view != view.id {
			return nil
		}
		if message.err == nil {
			count := message.count
			view.count = &count
		}
		return nil
	}
	return view.listView.Update(message)
}

func (view *tenantUsersView) header() []string {
	faint := lipgloss.NewStyle().Foreground(view.theme.FaintText)
	line := "Tenant: "
	switch {
	case view.tenant != nil:
		line += view.tenant.Name + " (" + view.tenant.Slug + ")"
	case view.infoErr != "":
		line += view.tenantID + "  " + view.infoErr
	default:
		line += view.tenantID
	}
	if view.count != nil {
		noun := "users"
		if *view.count == 1 {
			noun = "user"
		}
		line += fmt.Sprintf("  ·  %d %s", *view.count, noun)
	}
	return []string{faint.Render(line)}
}
