// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package tenant implements the platform administrator's tenant and
// tenant user commands. Create and update go through the same
// resource dialogs as the console, so required fields, slug
// derivation, and immutable fields behave identically.
package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/mayuran19/mms-console/apiclient"
	"github.com/mayuran19/mms-console/cmd/mmsctl/cli"
	"github.com/mayuran19/mms-console/lib/guard"
	"github.com/mayuran19/mms-console/lib/resource"
	"github.com/mayuran19/mms-console/lib/tui"
)

// Command returns the "tenant" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "tenant",
		Summary: "Manage tenants (platform session)",
		Subcommands: []*cli.Command{
			listCommand(),
			getCommand(),
			createCommand(),
			updateCommand(),
			deleteCommand(),
			usersCommand(),
		},
	}
}

// connectPlatform connects and requires a platform session.
func connectPlatform(ctx context.Context, params cli.ConnectionParams, logger *slog.Logger) (*cli.Connection, error) {
	connection, err := cli.Connect(ctx, params, logger)
	if err != nil {
		return nil, err
	}
	if _, err := connection.RequireSession(ctx, guard.AreaPlatform); err != nil {
		connection.Close(context.WithoutCancel(ctx))
		return nil, err
	}
	return connection, nil
}

// resolveTenant finds a tenant by ID or slug. Values that are not
// UUIDs are tried as a slug first.
func resolveTenant(ctx context.Context, client *apiclient.Client, reference string) (*apiclient.Tenant, error) {
	if _, err := uuid.Parse(reference); err != nil {
		tenant, err := client.GetTenantBySlug(ctx, reference)
		if err == nil {
			return tenant, nil
		}
		if !apiclient.IsNotFound(err) {
			return nil, cli.FromAPI("looking up tenant", err)
		}
	}
	tenant, err := client.GetTenant(ctx, reference)
	if err != nil {
		if apiclient.IsNotFound(err) {
			return nil, cli.NotFound("tenant %q not found", reference)
		}
		return nil, cli.FromAPI("looking up tenant", err)
	}
	return tenant, nil
}

// parseStatus accepts a status in any case.
func parseStatus(value string) (apiclient.TenantStatus, error) {
	status, err := apiclient.ParseTenantStatus(strings.ToUpper(strings.TrimSpace(value)))
	if err != nil {
		return "", cli.Validation("%w", err)
	}
	return status, nil
}

// setField writes a flag value into the dialog.
func setField[E any](dialog *resource.Dialog[E], key, value string) error {
	if err := dialog.Set(key, value); err != nil {
		return cli.Validation("%w", err)
	}
	return nil
}

// warnProblems logs the advisory checks the server is likely to
// enforce. The server remains the authority.
func warnProblems[E any](dialog *resource.Dialog[E], logger *slog.Logger) {
	for key, problem := range dialog.Problems() {
		logger.Warn("the server may reject this value", "field", key, "problem", problem)
	}
}

// confirmDelete asks before deleting unless yes is set.
func confirmDelete(prompt string, yes bool) error {
	if yes {
		return nil
	}
	confirmed, err := cli.Confirm(prompt)
	if err != nil {
		return err
	}
	if !confirmed {
		return cli.Validation("%s Not deleted; pass --yes to confirm", prompt)
	}
	return nil
}

func printTenants(tenants []apiclient.Tenant) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tNAME\tSLUG\tSTATUS\tCREATED")
	for _, tenant := range tenants {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n", tenant.ID, tenant.Name, tenant.Slug, tenant.Status, tui.FormatDate(tenant.CreatedDate))
	}
	writer.Flush()
}

func printTenant(tenant *apiclient.Tenant) {
	fmt.Printf("ID:        %s\n", tenant.ID)
	fmt.Printf("Name:      %s\n", tenant.Name)
	fmt.Printf("Slug:      %s\n", tenant.Slug)
	fmt.Printf("Status:    %s\n", tenant.Status)
	fmt.Printf("Created:   %s by %s\n", tui.FormatDate(tenant.CreatedDate), orDash(tenant.CreatedBy))
	fmt.Printf("Modified:  %s by %s\n", tui.FormatDate(tenant.LastModifiedDate), orDash(tenant.LastModifiedBy))
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

type listParams struct {
	cli.ConnectionParams
	cli.JSONOutput
	Status string `json:"status" flag:"status" desc:"only tenants with this status (ACTIVE, INACTIVE, SUSPENDED)"`
}

func listCommand() *cli.Command {
	var params listParams
	return &cli.Command{
		Name:    "list",
		Summary: "List tenants",
		Params:  func() any { return &params },
		Examples: []cli.Example{
			{Description: "List suspended tenants", Command: "mmsctl tenant list --status suspended"},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.NoArgs(args); err != nil {
				return err
			}
			var status apiclient.TenantStatus
			if params.Status != "" {
				parsed, err := parseStatus(params.Status)
				if err != nil {
					return err
				}
				status = parsed
			}
			connection, err := connectPlatform(ctx, params.ConnectionParams, logger)
			if err != nil {
				return err
			}
			defer connection.Close(context.WithoutCancel(ctx))

			screen := resource.NewScreen(resource.TenantEntity(), resource.TenantOperations{API: connection.Client}, string(status), logger)
			defer screen.Close()
			tenants, err := screen.Load(ctx)
			if err != nil {
				return cli.FromAPI("listing tenants", err)
			}
			if done, err := params.EmitJSON(tenants); done {
				return err
			}
			if len(tenants) == 0 {
				fmt.Println("No tenants found")
				return nil
			}
			printTenants(tenants)
			return nil
		},
	}
}

type getParams struct {
	cli.ConnectionParams
	cli.JSONOutput
	Slug string `json:"slug" flag:"slug" desc:"look the tenant up by slug instead of ID"`
}

func getCommand() *cli.Command {
	var params getParams
	return &cli.Command{
		Name:    "get",
		Summary: "Show one tenant",
		Usage:   "mmsctl tenant get <tenant-id|slug> | --slug SLUG",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if params.Slug == "" && len(args) != 1 {
				return cli.Validation("expected a tenant ID or --slug")
			}
			if params.Slug != "" && len(args) > 0 {
				return cli.Validation("pass a tenant ID or --slug, not both")
			}
			connection, err := connectPlatform(ctx, params.ConnectionParams, logger)
			if err != nil {
				return err
			}
			defer connection.Close(context.WithoutCancel(ctx))

			var tenant *apiclient.Tenant
			if params.Slug != "" {
				tenant, err = connection.Client.GetTenantBySlug(ctx, params.Slug)
				if apiclient.IsNotFound(err) {
					return cli.NotFound("no tenant with slug %q", params.Slug)
				}
				err = cli.FromAPI("looking up tenant", err)
			} else {
				tenant, err = resolveTenant(ctx, connection.Client, args[0])
			}
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(tenant); done {
				return err
			}
			printTenant(tenant)
			return nil
		},
	}
}

type createParams struct {
	cli.ConnectionParams
	cli.JSONOutput
	Name   string `json:"name"   flag:"name"   desc:"tenant display name (required)"`
	Slug   string `json:"slug"   flag:"slug"   desc:"URL-friendly identifier (default: derived from the name)"`
	Status string `json:"status" flag:"status" desc:"initial status" default:"ACTIVE"`
}

func createCommand() *cli.Command {
	var params createParams
	return &cli.Command{
		Name:    "create",
		Summary: "Create a tenant",
		Params:  func() any { return &params },
		Examples: []cli.Example{
			{Description: "Create a tenant; the slug becomes acme-corp", Command: "mmsctl tenant create --name 'Acme Corp'"},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.NoArgs(args); err != nil {
				return err
			}
			status, err := parseStatus(params.Status)
			if err != nil {
				return err
			}
			connection, err := connectPlatform(ctx, params.ConnectionParams, logger)
			if err != nil {
				return err
			}
			defer connection.Close(context.WithoutCancel(ctx))

			screen := resource.NewScreen(resource.TenantEntity(), resource.TenantOperations{API: connection.Client}, "", logger)
			defer screen.Close()
			if err := screen.OpenCreate(); err != nil {
				return cli.Internal("%w", err)
			}
			dialog := screen.Dialog()
			if err := setField(dialog, resource.TenantName, params.Name); err != nil {
				return err
			}
			if params.Slug != "" {
				if err := setField(dialog, resource.TenantSlug, params.Slug); err != nil {
					return err
				}
			}
			if err := setField(dialog, resource.TenantStatus, string(status)); err != nil {
				return err
			}
			warnProblems(dialog, logger)

			slug := dialog.Value(resource.TenantSlug)
			if err := screen.SubmitDialog(ctx); err != nil {
				return cli.FromAPI("creating tenant", err)
			}
			tenant, err := connection.Client.GetTenantBySlug(ctx, slug)
			if err != nil {
				return cli.FromAPI("reading created tenant", err)
			}
			logger.Info("tenant created", "tenant_id", tenant.ID, "slug", tenant.Slug)

			if done, err := params.EmitJSON(tenant); done {
				return err
			}
			fmt.Printf("Created tenant %s (%s) %s\n", tenant.Name, tenant.Slug, tenant.ID)
			return nil
		},
	}
}

type updateParams struct {
	cli.ConnectionParams
	cli.JSONOutput
	Name   string `json:"name"   flag:"name"   desc:"new display name"`
	Status string `json:"status" flag:"status" desc:"new status"`
}

func updateCommand() *cli.Command {
	var params updateParams
	return &cli.Command{
		Name:    "update",
		Summary: "Rename a tenant or change its status",
		Description: `Update a tenant's name or status. The slug cannot be changed after
creation.`,
		Usage:  "mmsctl tenant update <tenant-id|slug> [--name NAME] [--status STATUS]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			args, err := cli.ExactArgs(args, "tenant-id|slug")
			if err != nil {
				return err
			}
			if params.Name == "" && params.Status == "" {
				return cli.Validation("nothing to update; pass --name or --status")
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
			screen := resource.NewScreen(resource.TenantEntity(), resource.TenantOperations{API: connection.Client}, "", logger)
			defer screen.Close()
			if err := screen.OpenEdit(*tenant); err != nil {
				return cli.Internal("%w", err)
			}
			dialog := screen.Dialog()
			if params.Name != "" {
				if err := setField(dialog, resource.TenantName, params.Name); err != nil {
					return err
				}
			}
			if params.Status != "" {
				status, err := parseStatus(params.Status)
				if err != nil {
					return err
				}
				if err := setField(dialog, resource.TenantStatus, string(status)); err != nil {
					return err
				}
			}
			warnProblems(dialog, logger)
			if err := screen.SubmitDialog(ctx); err != nil {
				return cli.FromAPI("updating tenant", err)
			}

			updated, err := connection.Client.GetTenant(ctx, tenant.ID)
			if err != nil {
				return cli.FromAPI("reading updated tenant", err)
			}
			if done, err := params.EmitJSON(updated); done {
				return err
			}
			fmt.Printf("Updated tenant %s (%s): %s\n", updated.Name, updated.Slug, updated.Status)
			return nil
		},
	}
}

type deleteParams struct {
	cli.ConnectionParams
	Yes bool `json:"yes" flag:"yes,y" desc:"delete without asking"`
}

func deleteCommand() *cli.Command {
	var params deleteParams
	return &cli.Command{
		Name:    "delete",
		Summary: "Delete a tenant and all of its users",
		Usage:   "mmsctl tenant delete <tenant-id|slug> [--yes]",
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
			screen := resource.NewScreen(resource.TenantEntity(), resource.TenantOperations{API: connection.Client}, "", logger)
			defer screen.Close()
			screen.RequestDelete(*tenant)
			if err := confirmDelete(screen.DeletePrompt(), params.Yes); err != nil {
				screen.CancelDelete()
				return err
			}
			if err := screen.ConfirmDelete(ctx); err != nil && !errors.Is(err, resource.ErrSuperseded) {
				return cli.FromAPI("deleting tenant", err)
			}
			logger.Info("tenant deleted", "tenant_id", tenant.ID)
			fmt.Printf("Deleted tenant %s (%s)\n", tenant.Name, tenant.Slug)
			return nil
		},
	}
}
