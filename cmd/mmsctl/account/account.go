// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package account implements the read-only account listings: platform
// administrators for a platform session, and the staff of the caller's
// tenant for a tenant session.
package account

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/mayuran19/mms-console/apiclient"
	"github.com/mayuran19/mms-console/cmd/mmsctl/cli"
	"github.com/mayuran19/mms-console/lib/guard"
)

// UsersCommand returns "users", the platform administrator listing.
func UsersCommand() *cli.Command {
	return &cli.Command{
		Name:    "users",
		Summary: "List platform administrators (platform session)",
		Subcommands: []*cli.Command{
			listCommand(guard.AreaPlatform, "platform administrators", func(ctx context.Context, client *apiclient.Client) ([]apiclient.User, error) {
				return client.ListPlatformUsers(ctx)
			}),
		},
	}
}

// MembersCommand returns "members", the tenant staff listing.
func MembersCommand() *cli.Command {
	return &cli.Command{
		Name:    "members",
		Summary: "List the staff of your tenant (tenant session)",
		Subcommands: []*cli.Command{
			listCommand(guard.AreaTenant, "tenant members", func(ctx context.Context, client *apiclient.Client) ([]apiclient.User, error) {
				return client.ListTenantMembers(ctx)
			}),
		},
	}
}

type listParams struct {
	cli.ConnectionParams
	cli.JSONOutput
}

type listFunc func(ctx context.Context, client *apiclient.Client) ([]apiclient.User, error)

func listCommand(area guard.Area, noun string, list listFunc) *cli.Command {
	var params listParams
	return &cli.Command{
		Name:    "list",
		Summary: "List " + noun,
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
			if _, err := connection.RequireSession(ctx, area); err != nil {
				return err
			}

			users, err := list(ctx, connection.Client)
			if err != nil {
				return cli.FromAPI("listing "+noun, err)
			}
			logger.Debug("listed accounts", "area", area, "count", len(users))
			if done, err := params.EmitJSON(users); done {
				return err
			}
			if len(users) == 0 {
				fmt.Printf("No %s found\n", noun)
				return nil
			}
			printUsers(users)
			return nil
		},
	}
}

func printUsers(users []apiclient.User) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "USERNAME\tNAME\tEMAIL\tACTIVE\tVERIFIED")
	for _, user := range users {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n", user.Username, displayName(user), user.Email, yesNo(user.IsActive), yesNo(user.IsEmailVerified))
	}
	writer.Flush()
}

func displayName(user apiclient.User) string {
	switch {
	case user.FirstName != "" && user.LastName != "":
		return user.FirstName + " " + user.LastName
	case user.FirstName != "":
		return user.FirstName
	case user.LastName != "":
		return user.LastName
	}
	return "-"
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
