// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"fmt"
	"strings"
	"time"
)

// LoginResponse is the identity payload returned by both login
// endpoints and by GET /auth/me. On failure the server reuses the shape
// with only Message set.
type LoginResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	// UserType is the server's enum name ("PLATFORM" or "TENANT").
	// lib/session normalizes it to lowercase.
	UserType string `json:"userType"`
	TenantID string `json:"tenantId,omitempty"`
	Message  string `json:"message,omitempty"`
}

// LoginRequest is the body of POST /auth/platform/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TenantLoginRequest is the body of POST /auth/tenant/login. The tenant
// is named either by ID or by slug; the server resolves whichever is
// present. Email mirrors Username when the username is an address,
// because tenant staff sign in with their email.
type TenantLoginRequest struct {
	TenantID   string `json:"tenantId,omitempty"`
	TenantSlug string `json:"tenantSlug,omitempty"`
	Username   string `json:"username"`
	Email      string `json:"email,omitempty"`
	Password   string `json:"password"`
}

// MessageResponse is the body of the logout endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// TenantStatus is the lifecycle state of a tenant.
type TenantStatus string

const (
	TenantActive    TenantStatus = "ACTIVE"
	TenantInactive  TenantStatus = "INACTIVE"
	TenantSuspended TenantStatus = "SUSPENDED"
)

// TenantStatuses lists every valid status in display order.
var TenantStatuses = []TenantStatus{TenantActive, TenantInactive, TenantSuspended}

// Valid reports whether status is one of the three server values.
func (status TenantStatus) Valid() bool {
	switch status {
	case TenantActive, TenantInactive, TenantSuspended:
		return true
	}
	return false
}

// ParseTenantStatus accepts a status in any letter case.
func ParseTenantStatus(value string) (TenantStatus, error) {
	status := TenantStatus(strings.ToUpper(strings.TrimSpace(value)))
	if !status.Valid() {
		return "", fmt.Errorf("invalid tenant status %q (want ACTIVE, INACTIVE, or SUSPENDED)", value)
	}
	return status, nil
}

// Tenant is the read model returned by the tenant endpoints.
type Tenant struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Slug             string       `json:"slug"`
	Status           TenantStatus `json:"status"`
	CreatedBy        string       `json:"createdBy"`
	CreatedDate      time.Time    `json:"createdDate"`
	LastModifiedBy   string       `json:"lastModifiedBy"`
	LastModifiedDate time.Time    `json:"lastModifiedDate"`
}

// CreateTenantRequest is the body of POST /platform/tenants.
type CreateTenantRequest struct {
	Name   string       `json:"name"`
	Slug   string       `json:"slug"`
	Status TenantStatus `json:"status"`
}

// UpdateTenantRequest is the body of PUT /platform/tenants/:id. Empty
// fields are omitted and left unchanged by the server. Slug is absent:
// it cannot change after creation.
type UpdateTenantRequest struct {
	Name   string       `json:"name,omitempty"`
	Status TenantStatus `json:"status,omitempty"`
}

// TenantUser is the read model returned by the tenant user endpoints.
// It has no active flag even though create and update accept one.
type TenantUser struct {
	ID               string    `json:"id"`
	TenantID         string    `json:"tenantId"`
	Email            string    `json:"email"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	CreatedDate      time.Time `json:"createdDate"`
	LastModifiedDate time.Time `json:"lastModifiedDate"`
}

// FullName joins the first and last name.
func (user TenantUser) FullName() string {
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}

// CreateTenantUserRequest is the body of POST /platform/tenants/:id/users.
type CreateTenantUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IsActive  bool   `json:"isActive"`
}

// UpdateTenantUserRequest is the body of PUT
// /platform/tenants/:id/users/:userId. Email is absent: it cannot
// change after creation.
type UpdateTenantUserRequest struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	IsActive  *bool  `json:"isActive,omitempty"`
}

// User is an account row from GET /platform/users (platform
// administrators) or GET /tenant/members (staff of the caller's tenant).
type User struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	FirstName       string `json:"firstName,omitempty"`
	LastName        string `json:"lastName,omitempty"`
	IsActive        bool   `json:"isActive"`
	IsEmailVerified bool   `json:"isEmailVerified"`
}
