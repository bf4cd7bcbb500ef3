// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"context"
	"net/http"
	"net/url"
)

// ListTenants returns every tenant, or only those in status when status
// is non-empty.
func (c *Client) ListTenants(ctx context.Context, status TenantStatus) ([]Tenant, error) {
	var query url.Values
	if status != "" {
		query = url.Values{"status": {string(status)}}
	}
	var tenants []Tenant
	if err := c.doRequest(ctx, http.MethodGet, "/platform/tenants", query, nil, &tenants); err != nil {
		return nil, err
	}
	return tenants, nil
}

// GetTenant fetches one tenant by ID.
func (c *Client) GetTenant(ctx context.Context, tenantID string) (*Tenant, error) {
	var tenant Tenant
	if err := c.doRequest(ctx, http.MethodGet, "/platform/tenants/"+segment(tenantID), nil, nil, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

// GetTenantBySlug fetches one tenant by its slug.
func (c *Client) GetTenantBySlug(ctx context.Context, slug string) (*Tenant, error) {
	var tenant Tenant
	if err := c.doRequest(ctx, http.MethodGet, "/platform/tenants/slug/"+segment(slug), nil, nil, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

// CreateTenant creates a tenant and returns the stored record.
func (c *Client) CreateTenant(ctx context.Context, request CreateTenantRequest) (*Tenant, error) {
	var tenant Tenant
	if err := c.doRequest(ctx, http.MethodPost, "/platform/tenants", nil, request, &tenant); err != nil {
		return nil, err
	}
	c.logger.Info("created tenant", "tenant_id", tenant.ID, "slug", tenant.Slug)
	return &tenant, nil
}

// UpdateTenant changes a tenant's name and/or status.
func (c *Client) UpdateTenant(ctx context.Context, tenantID string, request UpdateTenantRequest) (*Tenant, error) {
	var tenant Tenant
	if err := c.doRequest(ctx, http.MethodPut, "/platform/tenants/"+segment(tenantID), nil, request, &tenant); err != nil {
		return nil, err
	}
	c.logger.Info("updated tenant", "tenant_id", tenantID)
	return &tenant, nil
}

// DeleteTenant removes a tenant.
func (c *Client) DeleteTenant(ctx context.Context, tenantID string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/platform/tenants/"+segment(tenantID), nil, nil, nil); err != nil {
		return err
	}
	c.logger.Info("deleted tenant", "tenant_id", tenantID)
	return nil
}
