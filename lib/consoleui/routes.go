// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	"strings"

	"github.com/mayuran19/mms-console/lib/guard"
)

// routeKind selects which guard check applies to a route.
type routeKind int

const (
	routePublic routeKind = iota
	routeLogin
	routeProtected
)

// route is a resolved path: the guard to apply and how to build its
// screen.
type route struct {
	path  string
	kind  routeKind
	area  guard.Area
	build func(environment env) view
}

// section is an entry in an area's nav bar.
type section struct {
	label string
	path  string
}

var sections = map[guard.Area][]section{
	guard.AreaPlatform: {
		{label: "Dashboard", path: "/platform/dashboard"},
		{label: "Tenants", path: "/platform/tenants"},
		{label: "Users", path: "/platform/users"},
	},
	guard.AreaTenant: {
		{label: "Dashboard", path: "/tenant/dashboard"},
		{label: "Members", path: "/tenant/members"},
	},
}

// match resolves path to a route. Unknown paths return false.
func match(path string) (route, bool) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	resolved := route{path: path}
	switch {
	case path == "/" || path == "":
		resolved.path = "/"
		resolved.build = func(environment env) view { return newHomeView(environment) }
		return resolved, true

	case len(segments) == 2 && segments[1] == "login":
		area, ok := guard.AreaOf(path)
		if !ok {
			return route{}, false
		}
		resolved.kind, resolved.area = routeLogin, area
		resolved.build = func(environment env) view { return newLoginView(environment, area) }
		return resolved, true

	case len(segments) == 2 && segments[1] == "dashboard":
		area, ok := guard.AreaOf(path)
		if !ok {
			return route{}, false
		}
		resolved.kind, resolved.area = routeProtected, area
		resolved.build = func(environment env) view { return newDashboardView(environment, area) }
		return resolved, true
	}

	resolved.kind = routeProtected
	switch {
	case path == "/platform/tenants":
		resolved.area = guard.AreaPlatform
		resolved.build = func(environment env) view { return newTenantsView(environment) }
	case len(segments) == 4 && segments[0] == "platform" && segments[1] == "tenants" && segments[3] == "users" && segments[2] != "":
		tenantID := segments[2]
		resolved.area = guard.AreaPlatform
		resolved.build = func(environment env) view { return newTenantUsersView(environment, tenantID) }
	case path == "/platform/users":
		resolved.area = guard.AreaPlatform
		resolved.build = func(environment env) view { return newPlatformUsersView(environment) }
	case path == "/tenant/members":
		resolved.area = guard.AreaTenant
		resolved.build = func(environment env) view { return newMembersView(environment) }
	default:
		return route{}, false
	}
	return resolved, true
}
