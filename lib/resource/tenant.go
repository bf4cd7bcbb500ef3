// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"context"
	"fmt"

	"github.com/mayuran19/mms-console/apiclient"
	"github.com/mayuran19/mms-console/lib/slug"
)

// Tenant form field keys.
const (
	TenantName   = "name"
	TenantSlug   = "slug"
	TenantStatus = "status"
)

// TenantEntity describes the tenant form. The slug is derived from the
// name while creating and fixed afterwards.
func TenantEntity() Entity[apiclient.Tenant] {
	statuses := make([]string, len(apiclient.TenantStatuses))
	for i, status := range apiclient.TenantStatuses {
		statuses[i] = string(status)
	}
	return Entity[apiclient.Tenant]{
		Noun: "tenant",
		Fields: []Field{
			{
				Key:      TenantName,
				Label:    "Tenant Name",
				Required: true,
				Hint:     "The display name of the tenant",
				Check:    CheckLength(2, 255),
			},
			{
				Key:       TenantSlug,
				Label:     "Slug",
				Required:  true,
				Derived:   true,
				Immutable: true,
				Hint:      "URL-friendly identifier (auto-generated from name)",
				EditHint:  "Slug cannot be changed after creation",
				Check:     slug.Check,
			},
			{
				Key:      TenantStatus,
				Label:    "Status",
				Kind:     KindChoice,
				Choices:  statuses,
				Default:  string(apiclient.TenantActive),
				Required: true,
			},
		},
		Populate: func(tenant apiclient.Tenant) Values {
			return Values{
				TenantName:   tenant.Name,
				TenantSlug:   tenant.Slug,
				TenantStatus: string(tenant.Status),
			}
		},
		Derive: func(mode Mode, changed string, values Values) {
			if mode == ModeCreate && changed == TenantName {
				values[TenantSlug] = slug.Make(values[TenantName])
			}
		},
		CreatePayload: func(values Values) any {
			return apiclient.CreateTenantRequest{
				Name:   values[TenantName],
				Slug:   values[TenantSlug],
				Status: apiclient.TenantStatus(values[TenantStatus]),
			}
		},
		UpdatePayload: func(values Values) any {
			return apiclient.UpdateTenantRequest{
				Name:   values[TenantName],
				Status: apiclient.TenantStatus(values[TenantStatus]),
			}
		},
		Key:   func(tenant apiclient.Tenant) string { return tenant.ID },
		Label: func(tenant apiclient.Tenant) string { return tenant.Name },
	}
}

// TenantAPI is the part of the API client the tenant screen uses.
type TenantAPI interface {
	ListTenants(ctx context.Context, status apiclient.TenantStatus) ([]apiclient.Tenant, error)
	CreateTenant(ctx context.Context, request apiclient.CreateTenantRequest) (*apiclient.Tenant, error)
	UpdateTenant(ctx context.Context, tenantID string, request apiclient.UpdateTenantRequest) (*apiclient.Tenant, error)
	DeleteTenant(ctx context.Context, tenantID string) error
}

// TenantOperations binds the tenant screen to the API. The scope is a
// status filter; empty lists every tenant.
type TenantOperations struct {
	API TenantAPI
}

func (o TenantOperations) List(ctx context.Context, scope string) ([]apiclient.Tenant, error) {
	return o.API.ListTenants(ctx, apiclient.TenantStatus(scope))
}

func (o TenantOperations) Create(ctx context.Context, _ string, body any) error {
	request, ok := body.(apiclient.CreateTenantRequest)
	if !ok {
		return fmt.Errorf("resource: tenant create body is %T", body)
	}
	_, err := o.API.CreateTenant(ctx, request)
	return err
}

func (o TenantOperations) Update(ctx context.Context, _ string, tenant apiclient.Tenant, body any) error {
	request, ok := body.(apiclient.UpdateTenantRequest)
	if !ok {
		return fmt.Errorf("resource: tenant update body is %T", body)
	}
	_, err := o.API.UpdateTenant(ctx, tenant.ID, request)
	return err
}

func (o TenantOperations) Delete(ctx context.Context, _ string, tenant apiclient.Tenant) error {
	return o.API.DeleteTenant(ctx, tenant.ID)
}
