// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package guard decides whether a console screen may render for the
// current session.
//
// Screens live in one of two areas, platform and tenant, and each area
// has its own login and dashboard paths. [Protect] gates the area's
// screens: it waits while the session is still unknown, redirects to
// the area's login when there is no session for that area, and renders
// otherwise. [ForLogin] gates the login screens themselves, sending an
// already signed-in user to the area's dashboard.
package guard

import (
	"strings"

	"github.com/mayuran19/mms-console/lib/session"
)

// Area is a top-level section of the console, named after the user
// type allowed into it.
type Area string

const (
	AreaPlatform Area = "platform"
	AreaTenant   Area = "tenant"
)

// UserType is the session user type that may enter the area.
func (a Area) UserType() session.UserType {
	return session.UserType(a)
}

// LoginPath is the area's login screen.
func LoginPath(area Area) string {
	return "/" + string(area) + "/login"
}

// DashboardPath is the area's landing screen after login.
func DashboardPath(area Area) string {
	return "/" + string(area) + "/dashboard"
}

// AreaOf returns the area a path belongs to, or false for paths
// outside both areas (such as the root).
func AreaOf(path string) (Area, bool) {
	first, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	switch Area(first) {
	case AreaPlatform:
		return AreaPlatform, true
	case AreaTenant:
		return AreaTenant, true
	}
	return "", false
}

// Action is what the caller should do with a screen.
type Action int

const (
	// Wait renders nothing: the session is not known yet.
	Wait Action = iota
	Redirect
	Render
)

func (a Action) String() string {
	switch a {
	case Wait:
		return "wait"
	case Redirect:
		return "redirect"
	case Render:
		return "render"
	}
	return "unknown"
}

// Decision is the outcome of a guard check. Target is set only for
// Redirect.
type Decision struct {
	Action Action
	Target string
}

// Protect gates a screen inside area. A session for the other area is
// treated like no session: a tenant user cannot see platform screens.
func Protect(area Area, state session.State) Decision {
	switch state.Phase {
	case session.PhaseUnknown:
		return Decision{Action: Wait}
	case session.PhaseAuthenticated:
		if state.Is(area.UserType()) {
			return Decision{Action: Render}
		}
	}
	return Decision{Action: Redirect, Target: LoginPath(area)}
}

// ForLogin gates area's login screen. The login form renders while the
// session is unknown so the user is not left with a blank screen when
// the server is slow.
func ForLogin(area Area, state session.State) Decision {
	if state.Is(area.UserType()) {
		return Decision{Action: Redirect, Target: DashboardPath(area)}
	}
	return Decision{Action: Render}
}
