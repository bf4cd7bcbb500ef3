// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete mmsctl command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	accountcmd "github.com/mayuran19/mms-console/cmd/mmsctl/account"
	authcmd "github.com/mayuran19/mms-console/cmd/mmsctl/auth"
	"github.com/mayuran19/mms-console/cmd/mmsctl/cli"
	consolecmd "github.com/mayuran19/mms-console/cmd/mmsctl/console"
	sessioncmd "github.com/mayuran19/mms-console/cmd/mmsctl/session"
	tenantcmd "github.com/mayuran19/mms-console/cmd/mmsctl/tenant"
	"github.com/mayuran19/mms-console/lib/version"
)

// Root builds and returns the complete mmsctl command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "mmsctl",
		Description: `mmsctl: administration for the membership management system.

Platform administrators manage tenants and their users; tenant staff
see their own members. Run "mmsctl console" for the interactive UI.`,
		Subcommands: []*cli.Command{
			authcmd.LoginCommand(),
			authcmd.LogoutCommand(),
			authcmd.WhoAmICommand(),
			sessioncmd.Command(),
			tenantcmd.Command(),
			accountcmd.UsersCommand(),
			accountcmd.MembersCommand(),
			consolecmd.Command(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					if err := cli.NoArgs(args); err != nil {
						return err
					}
					fmt.Printf("mmsctl %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Log in as a platform administrator (saves the session locally)",
				Command:     "mmsctl login platform --username admin",
			},
			{
				Description: "Log in to a tenant by slug",
				Command:     "mmsctl login tenant --tenant acme-corp --username alice@acme.test",
			},
			{
				Description: "List active tenants as JSON",
				Command:     "mmsctl tenant list --status active --json",
			},
			{
				Description: "Add a user to a tenant",
				Command:     "MMS_USER_PASSWORD=... mmsctl tenant users create acme-corp --email bob@acme.test --first-name Bob --last-name Smith",
			},
			{
				Description: "Open the interactive console",
				Command:     "mmsctl console",
			},
		},
	}
}
