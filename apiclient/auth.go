// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// PlatformLogin authenticates a platform administrator. On success the
// server sets the session cookie in the client's jar and returns the
// identity.
func (c *Client) PlatformLogin(ctx context.Context, request LoginRequest) (*LoginResponse, error) {
	var response LoginResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/platform/login", nil, request, &response); err != nil {
		return nil, err
	}
	c.logger.Info("platform login succeeded", "user_id", response.UserID, "username", response.Username)
	return &response, nil
}

// PlatformLogout ends a platform session on the server. The server
// invalidates the session even when the cookie has already expired, so
// callers clear their local state regardless of the result.
func (c *Client) PlatformLogout(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodPost, "/auth/platform/logout", nil, nil, &MessageResponse{})
}

// TenantLogin authenticates a member of a tenant's staff.
func (c *Client) TenantLogin(ctx context.Context, request TenantLoginRequest) (*LoginResponse, error) {
	var response LoginResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/tenant/login", nil, request, &response); err != nil {
		return nil, err
	}
	c.logger.Info("tenant login succeeded",
		"user_id", response.UserID,
		"username", response.Username,
		"tenant_id", response.TenantID,
	)
	return &response, nil
}

// NewTenantLoginRequest builds a tenant login body from what an
// operator types: the tenant as an ID or a slug, and a username that is
// usually an email address. A value that parses as a UUID is sent as
// the tenant ID; anything else is sent as the slug.
func NewTenantLoginRequest(tenant, username, password string) TenantLoginRequest {
	tenant = strings.TrimSpace(tenant)
	username = strings.TrimSpace(username)
	request := TenantLoginRequest{Username: username, Password: password}
	if _, err := uuid.Parse(tenant); err == nil {
		request.TenantID = tenant
	} else {
		request.TenantSlug = tenant
	}
	if strings.Contains(username, "@") {
		request.Email = username
	}
	return request
}

// TenantLogout ends a tenant session on the server.
func (c *Client) TenantLogout(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodPost, "/auth/tenant/logout", nil, nil, &MessageResponse{})
}

// Me returns the identity of the current session. Returns an *Error
// with status 401 when there is no session.
func (c *Client) Me(ctx context.Context) (*LoginResponse, error) {
	var response LoginResponse
	if err := c.doRequest(ctx, http.MethodGet, "/auth/me", nil, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}
