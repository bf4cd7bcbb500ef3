// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/mayuran19/mms-console/apiclient"
)

// Tenant user form field keys.
const (
	UserEmail     = "email"
	UserPassword  = "password"
	UserFirstName = "firstName"
	UserLastName  = "lastName"
	UserActive    = "isActive"
)

// TenantUserEntity describes the tenant user form. The server's read
// model has no active flag, so edit mode starts the toggle at true and
// saving always sends the toggle's value.
func TenantUserEntity() Entity[apiclient.TenantUser] {
	return Entity[apiclient.TenantUser]{
		Noun: "user",
		Fields: []Field{
			{
				Key:       UserEmail,
				Label:     "Email",
				Required:  true,
				Immutable: true,
				Check:     CheckEmail,
			},
			{
				Key:        UserPassword,
				Label:      "Password",
				Kind:       KindPassword,
				Required:   true,
				CreateOnly: true,
				Hint:       "Minimum 8 characters",
				Check:      CheckPassword,
			},
			{
				Key:      UserFirstName,
				Label:    "First Name",
				Required: true,
				Check:    CheckLength(1, 100),
			},
			{
				Key:      UserLastName,
				Label:    "Last Name",
				Required: true,
				Check:    CheckLength(1, 100),
			},
			{
				Key:      UserActive,
				Label:    "Active",
				Kind:     KindToggle,
				Default:  "true",
				EditHint: "Current value is not reported by the server; saving applies this setting",
			},
		},
		Populate: func(user apiclient.TenantUser) Values {
			return Values{
				UserEmail:     user.Email,
				UserPassword:  "",
				UserFirstName: user.FirstName,
				UserLastName:  user.LastName,
				UserActive:    "true",
			}
		},
		CreatePayload: func(values Values) any {
			return apiclient.CreateTenantUserRequest{
				Email:     values[UserEmail],
				Password:  values[UserPassword],
				FirstName: values[UserFirstName],
				LastName:  values[UserLastName],
				IsActive:  values.Bool(UserActive),
			}
		},
		UpdatePayload: func(values Values) any {
			active := values.Bool(UserActive)
			return apiclient.UpdateTenantUserRequest{
				FirstName: values[UserFirstName],
				LastName:  values[UserLastName],
				IsActive:  &active,
			}
		},
		Key:   func(user apiclient.TenantUser) string { return user.ID },
		Label: func(user apiclient.TenantUser) string { return user.Email },
	}
}

// TenantUserAPI is the part of the API client the tenant user screen
// uses.
type TenantUserAPI interface {
	ListTenantUsers(ctx context.Context, tenantID string) ([]apiclient.TenantUser, error)
	CreateTenantUser(ctx context.Context, tenantID string, request apiclient.CreateTenantUserRequest) (*apiclient.TenantUser, error)
	UpdateTenantUser(ctx context.Context, tenantID, userID string, request apiclient.UpdateTenantUserRequest) (*apiclient.TenantUser, error)
	DeleteTenantUser(ctx context.Context, tenantID, userID string) error
}

// ErrNoTenant is returned when a tenant user operation has no tenant
// scope.
var ErrNoTenant = errors.New("no tenant selected")

// TenantUserOperations binds the tenant user screen to the API. The
// scope is the owning tenant's ID.
type TenantUserOperations struct {
	API TenantUserAPI
}

func (o TenantUserOperations) List(ctx context.Context, tenantID string) ([]apiclient.TenantUser, error) {
	if tenantID == "" {
		return nil, ErrNoTenant
	}
	return o.API.ListTenantUsers(ctx, tenantID)
}

func (o TenantUserOperations) Create(ctx context.Context, tenantID string, body any) error {
	if tenantID == "" {
		return ErrNoTenant
	}
	request, ok := body.(apiclient.CreateTenantUserRequest)
	if !ok {
		return fmt.Errorf("resource: user create body is %T", body)
	}
	_, err := o.API.CreateTenantUser(ctx, tenantID, request)
	return err
}

func (o TenantUserOperations) Update(ctx context.Context, tenantID string, user apiclient.TenantUser, body any) error {
	if tenantID == "" {
		return ErrNoTenant
	}
	request, ok := body.(apiclient.UpdateTenantUserRequest)
	if !ok {
		return fmt.Errorf("resource: user update body is %T", body)
	}
	_, err := o.API.UpdateTenantUser(ctx, tenantID, user.ID, request)
	return err
}

func (o TenantUserOperations) Delete(ctx context.Context, tenantID string, user apiclient.TenantUser) error {
	if tenantID == "" {
		return ErrNoTenant
	}
	return o.API.DeleteTenantUser(ctx, tenantID, user.ID)
}
