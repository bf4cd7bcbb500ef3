// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package console implements the "console" command, which runs the
// interactive terminal UI.
package console

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mayuran19/mms-console/cmd/mmsctl/cli"
	"github.com/mayuran19/mms-console/lib/consoleui"
	"github.com/mayuran19/mms-console/lib/guard"
)

type params struct {
	cli.ConnectionParams
	LogFile string `json:"log_file" flag:"log-file" desc:"where the console logs while it owns the terminal (default: paths.log_file)"`
	Start   string `json:"start"    flag:"start"    desc:"first route, e.g. /tenant/login (default: the configured area's dashboard)"`
}

// Command returns the "console" command.
func Command() *cli.Command {
	var params params
	return &cli.Command{
		Name:    "console",
		Summary: "Open the interactive admin console",
		Description: `Open the full-screen admin console. A saved session is restored
first; protected screens wait for the server to confirm it.

Keys: 1-3 switch sections, L logs out, q quits, ctrl+c always quits.`,
		Params: func() any { return &params },
		Examples: []cli.Example{
			{Description: "Open the tenant login", Command: "mmsctl console --start /tenant/login"},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.NoArgs(args); err != nil {
				return err
			}
			cfg, err := cli.ResolveConfig(params.ConnectionParams)
			if err != nil {
				return err
			}

			logPath := params.LogFile
			if logPath == "" {
				logPath = cfg.Paths.LogFile
			}
			fileLogger, closer, err := cli.NewFileLogger(logPath)
			if err != nil {
				return cli.Internal("%w", err)
			}
			defer closer.Close()
			fileLogger = fileLogger.With("command", "console")

			start := params.Start
			if start == "" {
				start = guard.DashboardPath(guard.Area(cfg.Console.DefaultArea))
			}
			if !strings.HasPrefix(start, "/") {
				return cli.Validation("--start must be a route path such as /platform/tenants, got %q", start)
			}

			connection, err := cli.ConnectConfig(ctx, cfg, fileLogger)
			if err != nil {
				return err
			}
			defer connection.Close(context.WithoutCancel(ctx))

			logger.Debug("starting console", "start", start, "log_file", logPath)
			runErr := consoleui.Run(ctx, consoleui.Options{
				Client:    connection.Client,
				Store:     connection.Store,
				Logger:    fileLogger,
				StartPath: start,
			})

			// Keep whatever session the console ended with for later
			// commands.
			if connection.Store.State().Authenticated() {
				if err := connection.SaveSession(); err != nil {
					logger.Warn("could not save session", "error", err)
				}
			} else if err := connection.ForgetSession(); err != nil {
				logger.Warn("could not remove saved session", "error", err)
			}
			if runErr != nil {
				return fmt.Errorf("console: %w", runErr)
			}
			return nil
		},
	}
}
