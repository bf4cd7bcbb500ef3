// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package auth implements the login, logout, and whoami commands.
// Login saves the server's session cookie so later commands reuse the
// session; the identity itself is asked of the server every time.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mayuran19/mms-console/apiclient"
	"github.com/mayuran19/mms-console/cmd/mmsctl/cli"
	"github.com/mayuran19/mms-console/lib/guard"
	"github.com/mayuran19/mms-console/lib/session"
)

// PasswordEnv supplies the login password non-interactively.
const PasswordEnv = "MMS_PASSWORD"

// IdentityOutput is the JSON form of a session identity.
type IdentityOutput struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
	TenantID string `json:"tenant_id,omitempty"`
}

func identityOutput(identity session.Identity) IdentityOutput {
	return IdentityOutput{
		UserID:   identity.ID,
		Username: identity.Username,
		Email:    identity.Email,
		UserType: string(identity.UserType),
		TenantID: identity.TenantID,
	}
}

type loginParams struct {
	cli.ConnectionParams
	cli.JSONOutput
	Username string `json:"username" flag:"username,u" desc:"username (platform) or username/email (tenant)"`
	Tenant   string `json:"tenant"   flag:"tenant,t"   desc:"tenant ID or slug (tenant login only)"`
}

// LoginCommand returns "login platform" and "login tenant".
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:    "login",
		Summary: "Log in to the platform or a tenant",
		Description: `Log in and keep the session for later commands.

The password is read from $` + PasswordEnv + `, from stdin when stdin is
not a terminal, or from an interactive prompt.`,
		Subcommands: []*cli.Command{
			loginCommand(guard.AreaPlatform),
			loginCommand(guard.AreaTenant),
		},
	}
}

func loginCommand(area guard.Area) *cli.Command {
	var params loginParams
	command := &cli.Command{
		Name:    string(area),
		Summary: "Log in as a " + string(area) + " user",
		Usage:   "mmsctl login " + string(area) + " --username NAME [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.NoArgs(args); err != nil {
				return err
			}
			if params.Username == "" {
				return cli.Validation("--username is required")
			}
			if area == guard.AreaTenant && params.Tenant == "" {
				return cli.Validation("--tenant is required for a tenant login")
			}
			password, err := cli.ReadPassword("Password: ", PasswordEnv)
			if err != nil {
				return err
			}
			if password == "" {
				return cli.Validation("password is required")
			}

			connection, err := cli.Connect(ctx, params.ConnectionParams, logger)
			if err != nil {
				return err
			}
			defer connection.Close(context.WithoutCancel(ctx))

			var response *apiclient.LoginResponse
			if area == guard.AreaTenant {
				response, err = connection.Client.TenantLogin(ctx, apiclient.NewTenantLoginRequest(params.Tenant, params.Username, password))
			} else {
				response, err = connection.Client.PlatformLogin(ctx, apiclient.LoginRequest{Username: params.Username, Password: password})
			}
			if err != nil {
				return cli.FromAPI("login failed", err)
			}
			identity, err := session.IdentityFromLogin(response)
			if err == nil {
				err = connection.Store.Login(identity)
			}
			if err != nil {
				return cli.Internal("login returned an unusable identity: %w", err)
			}
			if err := connection.SaveSession(); err != nil {
				return err
			}
			logger.Info("logged in", "user_type", identity.UserType, "user_id", identity.ID)

			if done, err := params.EmitJSON(identityOutput(identity)); done {
				return err
			}
			fmt.Printf("Logged in as %s (%s)\n", identity.Username, identity.UserType)
			return nil
		},
	}
	if area == guard.AreaTenant {
		command.Examples = []cli.Example{{
			Description: "Log in to the acme tenant",
			Command:     "mmsctl login tenant --tenant acme --username ops@acme.test",
		}}
	} else {
		command.Examples = []cli.Example{{
			Description: "Log in with the password from the environment",
			Command:     "MMS_PASSWORD=... mmsctl login platform --username admin",
		}}
	}
	return command
}

type logoutParams struct {
	cli.ConnectionParams
}

// LogoutCommand ends the saved session. The local cookie is removed
// even when the server call fails.
func LogoutCommand() *cli.Command {
	var params logoutParams
	return &cli.Command{
		Name:    "logout",
		Summary: "End the saved session",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.NoArgs(args); err != nil {
				return err
			}
			connection, err := cli.Connect(ctx, params.ConnectionParams, logger)
			if err != nil {
				return err
			}
			defer connection.Close(context.WithoutCancel(ctx))

			if !connection.Client.HasSessionCookie() {
				fmt.Println("Not logged in")
				return nil
			}
			state := connection.Store.CheckAuth(ctx)
			if state.Authenticated() {
				if state.Identity.UserType == session.UserTenant {
					err = connection.Client.TenantLogout(ctx)
				} else {
					err = connection.Client.PlatformLogout(ctx)
				}
				if err != nil {
					logger.Warn("server logout failed; removing local session anyway", "error", err)
				}
			}
			connection.Store.Logout()
			if err := connection.ForgetSession(); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

type whoamiParams struct {
	cli.ConnectionParams
	cli.JSONOutput
}

// WhoAmICommand asks the server who the saved session belongs to.
func WhoAmICommand() *cli.Command {
	var params whoamiParams
	return &cli.Command{
		Name:    "whoami",
		Summary: "Show the current session identity",
		Description: `Ask the server who the saved session belongs to.

Exits with status 1 when there is no valid session.`,
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.NoArgs(args); err != nil {
				return err
			}
			connection, err := cli.Connect(ctx, params.ConnectionParams, logger)
			if err != nil {
				return err
			}
			defer connection.Close(context.WithoutCancel(ctx))

			state := connection.Store.CheckAuth(ctx)
			if !state.Authenticated() {
				if done, err := params.EmitJSON(struct {
					Authenticated bool `json:"authenticated"`
				}{}); done && err != nil {
					return err
				} else if !done {
					fmt.Println("Not logged in")
				}
				return &cli.ExitError{Code: 1}
			}

			if done, err := params.EmitJSON(identityOutput(*state.Identity)); done {
				return err
			}
			identity := state.Identity
			fmt.Printf("User:     %s\n", identity.Username)
			fmt.Printf("Email:    %s\n", identity.Email)
			fmt.Printf("Type:     %s\n", identity.UserType)
			fmt.Printf("User ID:  %s\n", identity.ID)
			if identity.TenantID != "" {
				fmt.Printf("Tenant:   %s\n", identity.TenantID)
			}
			return nil
		},
	}
}
