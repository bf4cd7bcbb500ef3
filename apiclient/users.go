// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"context"
	"net/http"
)

func tenantUsersPath(tenantID string) string {
	return "/platform/tenants/" + segment(tenantID) + "/users"
}

// ListTenantUsers returns the users of one tenant.
func (c *Client) ListTenantUsers(ctx context.Context, tenantID string) ([]TenantUser, error) {
	var users []TenantUser
	if err := c.doRequest(ctx, http.MethodGet, tenantUsersPath(tenantID), nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetTenantUser fetches one user of a tenant.
func (c *Client) GetTenantUser(ctx context.Context, tenantID, userID string) (*TenantUser, error) {
	var user TenantUser
	if err := c.doRequest(ctx, http.MethodGet, tenantUsersPath(tenantID)+"/"+segment(userID), nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CountTenantUsers returns the number of users in a tenant.
func (c *Client) CountTenantUsers(ctx context.Context, tenantID string) (int64, error) {
	var count int64
	if err := c.doRequest(ctx, http.MethodGet, tenantUsersPath(tenantID)+"/count", nil, nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// CreateTenantUser adds a user to a tenant.
func (c *Client) CreateTenantUser(ctx context.Context, tenantID string, request CreateTenantUserRequest) (*TenantUser, error) {
	var user TenantUser
	if err := c.doRequest(ctx, http.MethodPost, tenantUsersPath(tenantID), nil, request, &user); err != nil {
		return nil, err
	}
	c.logger.Info("created tenant user", "tenant_id", tenantID, "user_id", user.ID)
	return &user, nil
}

// UpdateTenantUser changes a tenant user's names and/or active flag.
func (c *Client) UpdateTenantUser(ctx context.Context, tenantID, userID string, request UpdateTenantUserRequest) (*TenantUser, error) {
	var user TenantUser
	if err := c.doRequest(ctx, http.MethodPut, tenantUsersPath(tenantID)+"/"+segment(userID), nil, request, &user); err != nil {
		return nil, err
	}
	c.logger.Info("updated tenant user", "tenant_id", tenantID, "user_id", userID)
	return &user, nil
}

// DeleteTenantUser removes a user from a tenant.
func (c *Client) DeleteTenantUser(ctx context.Context, tenantID, userID string) error {
	if err := c.doRequest(ctx, http.MethodDelete, tenantUsersPath(tenantID)+"/"+segment(userID), nil, nil, nil); err != nil {
		return err
	}
	c.logger.Info("deleted tenant user", "tenant_id", tenantID, "user_id", userID)
	return nil
}

// ListPlatformUsers returns the platform administrator accounts.
func (c *Client) ListPlatformUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.doRequest(ctx, http.MethodGet, "/platform/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListTenantMembers returns the staff of the caller's own tenant. Only
// valid for a tenant session.
func (c *Client) ListTenantMembers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.doRequest(ctx, http.MethodGet, "/tenant/members", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}
