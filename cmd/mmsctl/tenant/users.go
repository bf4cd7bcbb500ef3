// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/mayuran19/mms-console/apiclient"
	"github.com/mayuran19/mms-console/cmd/mmsctl/cli"
	"github.com/mayuran19/mms-console/lib/resource"
	"github.com/mayuran19/mms-console/lib/tui"
)

// UserPasswordEnv supplies a new user's password non-interactively.
const UserPasswordEnv = "MMS_USER_PASSWORD"

func usersCommand() *cli.Command {
	return &cli.Command{
		Name:    "users",
		Summary: "Manage the users of one tenant",
		Subcommands: []*cli.Command{
			usersListCommand(),
			usersGetCommand(),
			usersCountCommand(),
			usersCreateCommand(),
			usersUpdateCommand(),
			usersDeleteCommand(),
		},
	}
}

// resolveUser finds a user of tenantID by ID, or by email when the
// reference contains "@".
func resolveUser(ctx context.Context, client *apiclient.Client, tenantID, reference string) (*apiclient.TenantUser, error) {
	if strings.Contains(reference, "@") {
		users, err := client.ListTenantUsers(ctx, tenantID)
		if err != nil {
			return nil, cli.FromAPI("listing users", err)
		}
		for index := range users {
			if strings.EqualFold(users[index].Email, reference) {
				return &users[index], nil
			}
		}
		return nil, cli.NotFound("no user with email %q in this tenant", reference)
	}
	user, err := client.GetTenantUser(ctx, tenantID, reference)
	if err != nil {
		if apiclient.IsNotFound(err) {
			return nil, cli.NotFound("user %q not found", reference)
		}
		return nil, cli.FromAPI("looking up user", err)
	}
	return user, nil
}

func printUsers(users []apiclient.TenantUser) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tNAME\tEMAIL\tCREATED")
	for _, user := range users {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", user.ID, user.FullName(), user.Email, tui.FormatDate(user.CreatedDate))
	}
	writer.Flush()
}

func printUser(user *apiclient.TenantUser) {
	fmt.Printf("ID:        %s\n", user.ID)
	fmt.Printf("Tenant:    %s\n", user.TenantID)
	fmt.Printf("Email:     %s\n", user.Email)
	fmt.Printf("Name:      %s\n", user.FullName())
	fmt.Printf("Created:   %s\n", tui.FormatDate(user.CreatedDate))
	fmt.Printf("Modified:  %s\n", tui.FormatDate(user.LastModifiedDate))
}

// userScreen opens the tenant user screen scoped to tenant.
func userScreen(connection *cli.Connection, tenant *apiclient.Tenant, logger *slog.Logger) *resource.Screen[apiclient.TenantUser] {
	return resource.NewScreen(resource.TenantUserEntity(), resource.TenantUserOperations{API: connection.Client}, tenant.ID, logger.With("tenant_id", tenant.ID))
}

type usersListParams struct {
	cli.ConnectionParams
	cli.JSONOutput
}

func usersListCommand() *cli.Command {
	var params usersListParams
	return &cli.Command{
		Name:    "list",
		Summary: "List a tenant's users",
		Usage:   "mmsctl tenant users list <tenant-id|slug>",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			args, err := cli.ExactArgs(args, "tenant-id|slug")
			if err != nil {
				return err
			}
			connection, err := connectPlatform(ctx, params.ConnectionParams, logger)
			if err != nil {
				return err
			}
			defer connection.Close(context.WithoutCancel(ctx))

			tenant, err := resolveTenant(ctx, connection.Client, args[0])
			if err != nil {
				return err
			}
			screen := userScreen(connection, tenant, logger)
			defer screen.Close()
			users, err := screen.Load(ctx)
			if err != nil {
				return cli.FromAPI("listing users", err)
			}
			if done, err := params.EmitJSON(users); done {
				return err
			}
			fmt.Printf("Tenant: %s (%s)\n\n", tenant.Name, tenant.Slug)
			if len(users) == 0 {
				fmt.Println("No users found")
				return nil
			}
			printUsers(users)
			return nil
		},
	}
}

type usersGetParams struct {
	cli.ConnectionParams
	cli.JSONOutput
}

func usersGetCommand() *cli.Command {
	var params usersGetParams
	return &cli.Command{
		Name:    "get",
		Summary: "Show one user",
		Usage:   "mmsctl tenant users get <tenant-id|slug> <user-id|email>",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			args, err := cli.ExactArgs(args, "tenant-id|slug", "user-id|email")
			if err != nil {
				return err
			}
			connection, err := connectPlatform(ctx, params.ConnectionParams, logger)
			if err != nil {
				return err
			}
			defer connection.Close(context.WithoutCancel(ctx))

			tenant, err := resolveTenant(ctx, connection.Client, args[0])
			if err != nil {
				return err
			}
			user, err := resolveUser(ctx, connection.Client, tenant.ID, args[1])
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(user); done {
				return err
			}
			printUser(user)
			return nil
		},
	}
}

type usersCountParams struct {
	cli.ConnectionParams
	cli.JSONOutput
}

func usersCountCommand() *cli.Command {
	var params usersCountParams
	return &cli.Command{
		Name:    "count",
		Summary: "Count a tenant's users",
		Usage:   "mmsctl tenant users count <tenant-id|slug>",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			args, err := cli.ExactArgs(args, "tenant-id|slug")
			if err != nil {
				return err
			}
			connection, err := connectPlatform(ctx, params.ConnectionParams, logger)
			if err != nil {
				return err
			}
			defer connection.Close(context.WithoutCancel(ctx))

			tenant, err := resolveTenant(ctx, connection.Client, args[0])
			if err != nil {
				return err
			}
			count, err := connection.Client.CountTenantUsers(ctx, tenant.ID)
			if err != nil {
				return cli.FromAPI("counting users", err)
			}
			if done, err := params.EmitJSON(map[string]any{"tenant_id": tenant.ID, "count": count}); done {
				return err
			}
			fmt.Println(count)
			return nil
		},
	}
}

type usersCreateParams struct {
	cli.ConnectionParams
	cli.JSONOutput
	Email     string `json:"email"      flag:"email"      desc:"login email (required; cannot be changed later)"`
	FirstName string `json:"first_name" flag:"first-name" desc:"first name (required)"`
	LastName  string `json:"last_name"  flag:"last-name"  desc:"last name (required)"`
	Inactive  bool   `json:"inactive"   flag:"inactive"   desc:"create the user deactivated"`
}

func usersCreateCommand() *cli.Command {
	var params usersCreateParams
	return &cli.Command{
		Name:    "create",
		Summary: "Add a user to a tenant",
		Description: `Add a user to a tenant. The password is read from $` + UserPasswordEnv + `,
from stdin when stdin is not a terminal, or from a prompt.`,
		Usage:  "mmsctl tenant users create <tenant-id|slug> --email EMAIL --first-name NAME --last-name NAME",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			args, err := cli.ExactArgs(args, "tenant-id|slug")
			if err != nil {
				return err
			}
			password, err := cli.ReadPassword("Password for the new user: ", UserPasswordEnv)
			if err != nil {
				return err
			}
			connection, err := connectPlatform(ctx, params.ConnectionParams, logger)
			if err != nil {
				return err
			}
			defer connection.Close(context.WithoutCancel(ctx))

			tenant, err := resolveTenant(ctx, connection.Client, args[0])
			if err != nil {
				return err
			}
			screen := userScreen(connection, tenant, logger)
			defer screen.Close()
			if err := screen.OpenCreate(); err != nil {
				return cli.Internal("%w", err)
			}
			dialog := screen.Dialog()
			for key, value := range map[string]string{
				resource.UserEmail:     params.Email,
				resource.UserPassword:  password,
				resource.UserFirstName: params.FirstName,
				resource.UserLastName:  params.LastName,
				resource.UserActive:    resource.FormatBool(!params.Inactive),
			} {
				if err := setField(dialog, key, value); err != nil {
					return err
				}
			}
			warnProblems(dialog, logger)
			if err := screen.SubmitDialog(ctx); err != nil {
				return cli.FromAPI("creating user", err)
			}

			var created *apiclient.TenantUser
			for _, user := range screen.Items() {
				if strings.EqualFold(user.Email, params.Email) {
					created = &user
					break
				}
			}
			if created == nil {
				return cli.Internal("created user %s is missing from the tenant's user list", params.Email)
			}
			logger.Info("user created", "user_id", created.ID)
			if done, err := params.EmitJSON(created); done {
				return err
			}
			fmt.Printf("Created user %s (%s) in %s\n", created.Email, created.ID, tenant.Slug)
			return nil
		},
	}
}

type usersUpdateParams struct {
	cli.ConnectionParams
	cli.JSONOutput
	FirstName string `json:"first_name" flag:"first-name" desc:"new first name"`
	LastName  string `json:"last_name"  flag:"last-name"  desc:"new last name"`
	Active    string `json:"active"     flag:"active"     desc:"true or false; the server does not report the current value, so an update without it activates the user" default:"true"`
}

func usersUpdateCommand() *cli.Command {
	var params usersUpdateParams
	return &cli.Command{
		Name:    "update",
		Summary: "Change a user's name or active flag",
		Description: `Update a tenant user. The email cannot be changed after creation.

Every update sends the active flag (default true), because the server
does not report its current value.`,
		Usage:  "mmsctl tenant users update <tenant-id|slug> <user-id|email> [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			args, err := cli.ExactArgs(args, "tenant-id|slug", "user-id|email")
			if err != nil {
				return err
			}
			active := strings.ToLower(strings.TrimSpace(params.Active))
			if active != "true" && active != "false" {
				return cli.Validation("--active must be true or false, got %q", params.Active)
			}
			connection, err := connectPlatform(ctx, params.ConnectionParams, logger)
			if err != nil {
				return err
			}
			defer connection.Close(context.WithoutCancel(ctx))

			tenant, err := resolveTenant(ctx, connection.Client, args[0])
			if err != nil {
				return err
			}
			user, err := resolveUser(ctx, connection.Client, tenant.ID, args[1])
			if err != nil {
				return err
			}
			screen := userScreen(connection, tenant, logger)
			defer screen.Close()
			if err := screen.OpenEdit(*user); err != nil {
				return cli.Internal("%w", err)
			}
			dialog := screen.Dialog()
			if params.FirstName != "" {
				if err := setField(dialog, resource.UserFirstName, params.FirstName); err != nil {
					return err
				}
			}
			if params.LastName != "" {
				if err := setField(dialog, resource.UserLastName, params.LastName); err != nil {
					return err
				}
			}
			if err := setField(dialog, resource.UserActive, active); err != nil {
				return err
			}
			warnProblems(dialog, logger)
			if err := screen.SubmitDialog(ctx); err != nil {
				return cli.FromAPI("updating user", err)
			}

			updated, err := connection.Client.GetTenantUser(ctx, tenant.ID, user.ID)
			if err != nil {
				return cli.FromAPI("reading updated user", err)
			}
			if done, err := params.EmitJSON(updated); done {
				return err
			}
			fmt.Printf("Updated user %s: %s\n", updated.Email, updated.FullName())
			return nil
		},
	}
}

type usersDeleteParams struct {
	cli.ConnectionParams
	Yes bool `json:"yes" flag:"yes,y" desc:"delete without asking"`
}

func usersDeleteCommand() *cli.Command {
	var params usersDeleteParams
	return &cli.Command{
		Name:    "delete",
		Summary: "Remove a user from a tenant",
		Usage:   "mmsctl tenant users delete <tenant-id|slug> <user-id|email> [--yes]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			args, err := cli.ExactArgs(args, "tenant-id|slug", "user-id|email")
			if err != nil {
				return err
			}
			connection, err := connectPlatform(ctx, params.ConnectionParams, logger)
			if err != nil {
				return err
			}
			defer connection.Close(context.WithoutCancel(ctx))

			tenant, err := resolveTenant(ctx, connection.Client, args[0])
			if err != nil {
				return err
			}
			user, err := resolveUser(ctx, connection.Client, tenant.ID, args[1])
			if err != nil {
				return err
			}
			screen := userScreen(connection, tenant, logger)
			defer screen.Close()
			screen.RequestDelete(*user)
			if err := confirmDelete(screen.DeletePrompt(), params.Yes); err != nil {
				screen.CancelDelete()
				return err
			}
			if err := screen.ConfirmDelete(ctx); err != nil && !errors.Is(err, resource.ErrSuperseded) {
				return cli.FromAPI("deleting user", err)
			}
			fmt.Printf("Deleted user %s from %s\n", user.Email, tenant.Slug)
			return nil
		},
	}
}
