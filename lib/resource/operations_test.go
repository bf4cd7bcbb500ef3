// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/mayuran19/mms-console/apiclient"
	"github.com/mayuran19/mms-console/lib/testutil"
)

func platformClient(t *testing.T, server *testutil.APIServer) *apiclient.Client {
	t.Helper()
	client, err := apiclient.NewClient(apiclient.ClientConfig{ServerURL: server.URL(), HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if _, err := client.PlatformLogin(context.Background(), apiclient.LoginRequest{
		Username: testutil.PlatformUsername,
		Password: testutil.PlatformPassword,
	}); err != nil {
		t.Fatalf("PlatformLogin failed: %v", err)
	}
	return client
}

func TestTenantScreenAgainstServer(t *testing.T) {
	server := testutil.NewAPIServer(t)
	server.AddTenant("Acme Corp", "acme-corp", "ACTIVE")
	client := platformClient(t, server)
	ctx := context.Background()

	screen := NewScreen(TenantEntity(), Operations[apiclient.Tenant](TenantOperations{API: client}), "", discardLogger())
	t.Cleanup(screen.Close)
	if _, err := screen.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// A duplicate slug is rejected by the server with its own message.
	screen.OpenCreate()
	screen.Dialog().Set(TenantName, "Acme Corp")
	server.ResetRequests()
	if err := screen.SubmitDialog(ctx); err == nil {
		t.Fatal("expected conflict")
	}
	if got := screen.Dialog().Error(); got != "slug already exists" {
		t.Errorf("dialog error = %q", got)
	}
	if server.Count("GET /platform/tenants") != 0 {
		t.Error("failed create triggered a refetch")
	}

	screen.Dialog().Set(TenantName, "Initech Labs")
	if err := screen.SubmitDialog(ctx); err != nil {
		t.Fatalf("SubmitDialog failed: %v", err)
	}
	if server.Count("POST /platform/tenants") != 2 || server.Count("GET /platform/tenants") != 1 {
		t.Errorf("requests = %+v", server.Requests())
	}
	items := screen.Items()
	if len(items) != 2 || items[1].Slug != "initech-labs" {
		t.Fatalf("items = %+v", items)
	}

	// The status filter is the tenant screen's scope.
	server.ResetRequests()
	screen.SetScope(string(apiclient.TenantSuspended))
	if _, err := screen.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !screen.Empty() {
		t.Error("expected no suspended tenants")
	}
	if requests := server.Requests(); len(requests) != 1 || requests[0].Query != "status=SUSPENDED" {
		t.Errorf("requests = %+v", requests)
	}
}

func TestTenantUserScreenAgainstServer(t *testing.T) {
	server := testutil.NewAPIServer(t)
	acme := server.AddTenant("Acme Corp", "acme-corp", "ACTIVE")
	globex := server.AddTenant("Globex", "globex", "ACTIVE")
	server.AddTenantUser(globex.ID, "hank@globex.test", "password-h", "Hank", "Scorpio")
	client := platformClient(t, server)
	ctx := context.Background()

	screen := NewScreen(TenantUserEntity(), Operations[apiclient.TenantUser](TenantUserOperations{API: client}), acme.ID, discardLogger())
	t.Cleanup(screen.Close)
	if _, err := screen.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !screen.Empty() {
		t.Fatalf("acme has users: %+v", screen.Items())
	}

	screen.OpenCreate()
	dialog := screen.Dialog()
	dialog.Set(UserEmail, "jo@acme.test")
	dialog.Set(UserPassword, "long-enough")
	dialog.Set(UserFirstName, "Jo")
	dialog.Set(UserLastName, "Doe")
	dialog.Set(UserActive, FormatBool(false))
	if err := screen.SubmitDialog(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	stored := server.TenantUsers(acme.ID)
	if len(stored) != 1 || stored[0].Active {
		t.Fatalf("stored = %+v, want one inactive user", stored)
	}

	// Editing sends isActive true because the form cannot know the
	// stored value.
	screen.OpenEdit(screen.Items()[0])
	if err := screen.SubmitDialog(ctx); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !server.TenantUsers(acme.ID)[0].Active {
		t.Error("edit did not send isActive true")
	}

	screen.SetScope(globex.ID)
	items, err := screen.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(items) != 1 || items[0].Email != "hank@globex.test" {
		t.Fatalf("globex users = %+v", items)
	}

	screen.RequestDelete(items[0])
	if err := screen.ConfirmDelete(ctx); err != nil {
		t.Fatalf("ConfirmDelete failed: %v", err)
	}
	if !screen.Empty() {
		t.Error("user list not empty after delete")
	}
}

func TestTenantUserOperationsRequireTenant(t *testing.T) {
	ops := TenantUserOperations{}
	if _, err := ops.List(context.Background(), ""); !errors.Is(err, ErrNoTenant) {
		t.Errorf("List = %v, want ErrNoTenant", err)
	}
}

func TestTenantScreenDeleteNotFound(t *testing.T) {
	server := testutil.NewAPIServer(t)
	acme := server.AddTenant("Acme Corp", "acme-corp", "ACTIVE")
	client := platformClient(t, server)

	screen := NewScreen(TenantEntity(), Operations[apiclient.Tenant](TenantOperations{API: client}), "", discardLogger())
	t.Cleanup(screen.Close)
	if _, err := screen.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	server.FailNext("DELETE /platform/tenants/"+acme.ID, http.StatusNotFound, map[string]string{"message": "Tenant not found"})

	screen.RequestDelete(screen.Items()[0])
	err := screen.ConfirmDelete(context.Background())
	if !apiclient.IsNotFound(err) {
		t.Fatalf("ConfirmDelete = %v, want 404", err)
	}
	if screen.Banner() != "Tenant not found" || len(screen.Items()) != 1 {
		t.Errorf("banner = %q, items = %d", screen.Banner(), len(screen.Items()))
	}
}
