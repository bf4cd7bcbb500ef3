// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package session implements "mmsctl session": inspecting the saved
// session cookie file and managing the key that seals it.
package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mayuran19/mms-console/cmd/mmsctl/cli"
	"github.com/mayuran19/mms-console/lib/config"
	"github.com/mayuran19/mms-console/lib/sealed"
)

// Command returns the "session" group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "session",
		Summary: "Inspect the saved session and its sealing key",
		Description: `The session cookie saved by "mmsctl login" is kept in a file only
the current user can read. Setting paths.session_key in mms.yaml (or
$` + config.SessionKeyEnv + `) to an age key file also encrypts it.`,
		Subcommands: []*cli.Command{
			statusCommand(),
			{
				Name:        "key",
				Summary:     "Manage the session sealing key",
				Subcommands: []*cli.Command{generateCommand()},
			},
		},
	}
}

// StatusOutput is the JSON form of "session status".
type StatusOutput struct {
	CookieFile string `json:"cookie_file"`
	Saved      bool   `json:"saved"`
	Sealed     bool   `json:"sealed"`
	SessionKey string `json:"session_key,omitempty"`
	Recipient  string `json:"recipient,omitempty"`
}

type statusParams struct {
	cli.ConnectionParams
	cli.JSONOutput
}

func statusCommand() *cli.Command {
	var params statusParams
	return &cli.Command{
		Name:    "status",
		Summary: "Show where the session is saved and whether it is sealed",
		Description: `Report the cookie file location and whether it is sealed. This
does not contact the server; use "mmsctl whoami" for that.`,
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := cli.NoArgs(args); err != nil {
				return err
			}
			cfg, err := cli.ResolveConfig(params.ConnectionParams)
			if err != nil {
				return err
			}

			output := StatusOutput{CookieFile: cfg.Paths.CookieFile, SessionKey: cfg.Paths.SessionKey}
			data, err := os.ReadFile(cfg.Paths.CookieFile)
			switch {
			case err == nil:
				output.Saved = true
				output.Sealed = sealed.IsSealed(data)
			case !errors.Is(err, fs.ErrNotExist):
				return cli.Internal("%w", err)
			}
			if cfg.Paths.SessionKey != "" {
				key, err := sealed.LoadKey(cfg.Paths.SessionKey)
				if err != nil {
					return cli.Validation("session key: %w", err)
				}
				output.Recipient = key.Recipient()
				key.Close()
			}

			if done, err := params.EmitJSON(output); done {
				return err
			}
			saved := "no saved session"
			if output.Saved {
				saved = "saved, plaintext"
				if output.Sealed {
					saved = "saved, sealed"
				}
			}
			fmt.Printf("Cookie file:  %s (%s)\n", output.CookieFile, saved)
			if output.SessionKey == "" {
				fmt.Println("Session key:  none")
			} else {
				fmt.Printf("Session key:  %s\nRecipient:    %s\n", output.SessionKey, output.Recipient)
			}
			return nil
		},
	}
}

type generateParams struct {
	cli.ConnectionParams
	cli.JSONOutput
	Out string `json:"out" flag:"out,o" desc:"key file to create (default <state dir>/session.key)"`
}

// GenerateOutput is the JSON form of "session key generate".
type GenerateOutput struct {
	Path      string `json:"path"`
	Recipient string `json:"recipient"`
}

func generateCommand() *cli.Command {
	var params generateParams
	return &cli.Command{
		Name:    "generate",
		Summary: "Create a new session sealing key",
		Description: `Write a new age x25519 key file with mode 0600. An existing file is
never overwritten. Point paths.session_key (or $` + config.SessionKeyEnv + `)
at the file; the next saved session is sealed to it.`,
		Params: func() any { return &params },
		Examples: []cli.Example{{
			Description: "Create a key and use it for this shell",
			Command:     "mmsctl session key generate --out ~/.config/mms/session.key && export " + config.SessionKeyEnv + "=~/.config/mms/session.key",
		}},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := cli.NoArgs(args); err != nil {
				return err
			}
			path := params.Out
			if path == "" {
				cfg, err := cli.ResolveConfig(params.ConnectionParams)
				if err != nil {
					return err
				}
				path = filepath.Join(cfg.Paths.State, "session.key")
			}

			key, err := sealed.GenerateKey()
			if err != nil {
				return cli.Internal("%w", err)
			}
			defer key.Close()
			if err := key.WriteFile(path); err != nil {
				if errors.Is(err, fs.ErrExist) {
					return cli.Conflict("%s already exists", path)
				}
				return cli.Internal("%w", err)
			}
			logger.Info("session key created", "path", path)

			if done, err := params.EmitJSON(GenerateOutput{Path: path, Recipient: key.Recipient()}); done {
				return err
			}
			fmt.Printf("Created %s\nRecipient: %s\n", path, key.Recipient())
			return nil
		},
	}
}
