// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	"context"
	"errors"
	"strings"

	"github.com/mayuran19/mms-console/apiclient"
	"github.com/mayuran19/mms-console/lib/resource"
)

// accountEntity describes the read-only account rows of the platform
// users and tenant members screens.
var accountEntity = resource.Entity[apiclient.User]{
	Noun:  "user",
	Key:   func(user apiclient.User) string { return user.ID },
	Label: func(user apiclient.User) string { return user.Username },
}

var errReadOnly = errors.New("accounts are read-only in the console")

// accountOperations lists accounts through one endpoint and refuses
// every change.
type accountOperations struct {
	list func(ctx context.Context) ([]apiclient.User, error)
}

func (o accountOperations) List(ctx context.Context, _ string) ([]apiclient.User, error) {
	return o.list(ctx)
}

func (accountOperations) Create(context.Context, string, any) error {
	return errReadOnly
}

func (accountOperations) Update(context.Context, string, apiclient.User, any) error {
	return errReadOnly
}

func (accountOperations) Delete(context.Context, string, apiclient.User) error {
	return errReadOnly
}

func activeLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func accountColumns() []column[apiclient.User] {
	return []column[apiclient.User]{
		{title: "Username", width: 20, value: func(user apiclient.User) string { return user.Username }},
		{title: "Email", width: 30, value: func(user apiclient.User) string { return user.Email }},
		{title: "Name", width: 24, value: func(user apiclient.User) string {
			return strings.TrimSpace(user.FirstName + " " + user.LastName)
		}},
		{title: "Status", width: 9, status: true, value: func(user apiclient.User) string { return activeLabel(user.IsActive) }},
		{title: "Verified", width: 8, value: func(user apiclient.User) string { return yesNo(user.IsEmailVerified) }},
	}
}

// newPlatformUsersView lists platform administrators.
func newPlatformUsersView(environment env) *listView[apiclient.User] {
	operations := accountOperations{list: environment.client.ListPlatformUsers}
	screen := resource.NewScreen(accountEntity, operations, "", environment.logger)
	return newListView(environment, screen, listConfig[apiclient.User]{
		title:     "Platform Users",
		columns:   accountColumns(),
		emptyText: "No platform users found.",
		readOnly:  true,
	})
}

// newMembersView lists the staff of the signed-in tenant.
func newMembersView(environment env) *listView[apiclient.User] {
	operations := accountOperations{list: environment.client.ListTenantMembers}
	screen := resource.NewScreen(accountEntity, operations, "", environment.logger)
	return newListView(environment, screen, listConfig[apiclient.User]{
		title:     "Members",
		columns:   accountColumns(),
		emptyText: "No members found.",
		readOnly:  true,
	})
}
