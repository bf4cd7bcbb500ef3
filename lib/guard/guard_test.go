// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package guard

import (
	"testing"

	"github.com/mayuran19/mms-console/lib/session"
)

var (
	unknown   = session.State{Phase: session.PhaseUnknown, Loading: true}
	anonymous = session.State{Phase: session.PhaseAnonymous}
	platform  = session.State{Phase: session.PhaseAuthenticated, Identity: &session.Identity{ID: "p1", UserType: session.UserPlatform}}
	tenant    = session.State{Phase: session.PhaseAuthenticated, Identity: &session.Identity{ID: "t1", UserType: session.UserTenant, TenantID: "tenant-1"}}
)

func TestProtect(t *testing.T) {
	tests := []struct {
		name  string
		area  Area
		state session.State
		want  Decision
	}{
		{"unknown waits", AreaPlatform, unknown, Decision{Action: Wait}},
		{"anonymous platform", AreaPlatform, anonymous, Decision{Action: Redirect, Target: "/platform/login"}},
		{"anonymous tenant", AreaTenant, anonymous, Decision{Action: Redirect, Target: "/tenant/login"}},
		{"platform renders", AreaPlatform, platform, Decision{Action: Render}},
		{"tenant renders", AreaTenant, tenant, Decision{Action: Render}},
		{"tenant in platform area", AreaPlatform, tenant, Decision{Action: Redirect, Target: "/platform/login"}},
		{"platform in tenant area", AreaTenant, platform, Decision{Action: Redirect, Target: "/tenant/login"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Protect(test.area, test.state); got != test.want {
				t.Errorf("Protect = %+v, want %+v", got, test.want)
			}
		})
	}
}

func TestProtectRecheckKeepsRendering(t *testing.T) {
	recheck := platform
	recheck.Loading = true
	if got := Protect(AreaPlatform, recheck); got.Action != Render {
		t.Errorf("Protect during recheck = %v, want render", got.Action)
	}
}

func TestForLogin(t *testing.T) {
	if got := ForLogin(AreaPlatform, platform); got != (Decision{Action: Redirect, Target: "/platform/dashboard"}) {
		t.Errorf("signed-in platform user: %+v", got)
	}
	if got := ForLogin(AreaTenant, platform); got.Action != Render {
		t.Errorf("platform user on tenant login: %+v, want render", got)
	}
	for _, state := range []session.State{unknown, anonymous} {
		if got := ForLogin(AreaTenant, state); got.Action != Render {
			t.Errorf("ForLogin(%v) = %+v, want render", state.Phase, got)
		}
	}
}

func TestAreaOf(t *testing.T) {
	tests := map[string]Area{
		"/platform/tenants":         AreaPlatform,
		"/platform/tenants/x/users": AreaPlatform,
		"/tenant/dashboard":         AreaTenant,
		"/tenant":                   AreaTenant,
	}
	for path, want := range tests {
		if got, ok := AreaOf(path); !ok || got != want {
			t.Errorf("AreaOf(%q) = %q, %v", path, got, ok)
		}
	}
	for _, path := range []string{"/", "", "/platformx", "/other/login"} {
		if _, ok := AreaOf(path); ok {
			t.Errorf("AreaOf(%q) matched", path)
		}
	}
}
