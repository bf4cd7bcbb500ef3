// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/spf13/pflag"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/mayuran19/mms-console/apiclient"
	"github.com/mayuran19/mms-console/lib/config"
	"github.com/mayuran19/mms-console/lib/cookiestore"
	"github.com/mayuran19/mms-console/lib/guard"
	"github.com/mayuran19/mms-console/lib/sealed"
	"github.com/mayuran19/mms-console/lib/session"
	"github.com/mayuran19/mms-console/lib/telemetry"
	"github.com/mayuran19/mms-console/lib/version"
)

// ConnectionParams are the flags every command that talks to the
// server accepts. Embed it in a params struct; it binds its own flags.
type ConnectionParams struct {
	ServerURL  string `json:"server,omitempty"`
	ConfigPath string `json:"config,omitempty"`
	CookieFile string `json:"cookie_file,omitempty"`
	EnvFile    string `json:"env_file,omitempty"`
	SessionKey string `json:"session_key,omitempty"`
}

// AddFlags implements [FlagBinder].
func (p *ConnectionParams) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&p.ServerURL, "server", "", "membership server URL (overrides config and "+config.ServerURLEnv+")")
	flagSet.StringVar(&p.ConfigPath, "config", "", "path to mms.yaml (default $"+config.ConfigEnv+")")
	flagSet.StringVar(&p.CookieFile, "cookie-file", "", "where the session cookie is kept between commands")
	flagSet.StringVar(&p.EnvFile, "env-file", ".env", "dotenv file loaded before the config")
	flagSet.StringVar(&p.SessionKey, "session-key", "", "age key file sealing the cookie file (overrides "+config.SessionKeyEnv+")")
}

// Connection is a configured API client with its session store. The
// session cookie from earlier commands is restored into the client's
// jar; the identity is not, and is asked of the server on demand.
type Connection struct {
	Config *config.Config
	Client *apiclient.Client
	Store  *session.Store

	cookies  cookiestore.Store
	key      *sealed.Key
	logger   *slog.Logger
	shutdown telemetry.ShutdownFunc
}

// ResolveConfig loads the dotenv file and the configuration, then
// applies the flag overrides.
func ResolveConfig(params ConnectionParams) (*config.Config, error) {
	if params.EnvFile != "" {
		if err := config.LoadDotEnv(params.EnvFile); err != nil {
			return nil, Validation("%w", err)
		}
	}

	cfg, err := config.Resolve(params.ConfigPath)
	if err != nil {
		return nil, Validation("loading config: %w", err)
	}
	if params.ServerURL != "" {
		cfg.Server.URL = params.ServerURL
	}
	if params.CookieFile != "" {
		cfg.Paths.CookieFile = params.CookieFile
	}
	if params.SessionKey != "" {
		cfg.Paths.SessionKey = params.SessionKey
	}
	if cfg.Paths.CookieFile == "" {
		cfg.Paths.CookieFile = cookiestore.DefaultPath()
	}
	if err := cfg.Validate(); err != nil {
		return nil, Validation("invalid config: %w", err)
	}
	if err := cfg.EnsurePaths(); err != nil {
		return nil, Internal("%w", err)
	}
	return cfg, nil
}

// Connect resolves the configuration and connects with it.
func Connect(ctx context.Context, params ConnectionParams, logger *slog.Logger) (*Connection, error) {
	cfg, err := ResolveConfig(params)
	if err != nil {
		return nil, err
	}
	return ConnectConfig(ctx, cfg, logger)
}

// setupTelemetry is replaced in tests.
var setupTelemetry = telemetry.Setup

// ConnectConfig starts trace export when configured, builds the
// client, and restores the saved session cookie. With a session key
// configured the cookie file is sealed to it.
func ConnectConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) (connection *Connection, err error) {
	timeout, _ := cfg.RequestTimeout()

	cookies := cookiestore.Store{Path: cfg.Paths.CookieFile}
	var key *sealed.Key
	if cfg.Paths.SessionKey != "" {
		key, err = sealed.LoadKey(cfg.Paths.SessionKey)
		if err != nil {
			return nil, Validation("session key: %w", err)
		}
		cookies.Sealer = key
		defer func() {
			if err != nil {
				key.Close()
			}
		}()
	}

	shutdown, err := setupTelemetry(ctx, telemetry.Config{
		Endpoint:       cfg.Telemetry.OTLPEndpoint,
		Insecure:       cfg.Telemetry.Insecure,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version.Short(),
	}, logger)
	if err != nil {
		return nil, Internal("%w", err)
	}
	defer func() {
		if err != nil {
			if shutdownErr := shutdown(ctx); shutdownErr != nil {
				logger.Warn("telemetry shutdown failed", "error", shutdownErr)
			}
		}
	}()

	jar, err := apiclient.NewCookieJar()
	if err != nil {
		return nil, Internal("%w", err)
	}
	client, err := apiclient.NewClient(apiclient.ClientConfig{
		ServerURL: cfg.Server.URL,
		HTTPClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
		Jar:       jar,
		UserAgent: version.UserAgent(),
		Logger:    logger,
	})
	if err != nil {
		return nil, Validation("%w", err)
	}

	restored, restoreErr := cookies.Restore(jar, client.ServerURL())
	if restoreErr != nil {
		logger.Warn("ignoring unreadable cookie file", "path", cfg.Paths.CookieFile, "error", restoreErr)
	}
	logger.Debug("connected", "server", cfg.Server.URL, "session_restored", restored, "sealed", key != nil)

	return &Connection{
		Config:   cfg,
		Client:   client,
		Store:    session.NewStore(client, logger),
		cookies:  cookies,
		key:      key,
		logger:   logger,
		shutdown: shutdown,
	}, nil
}

// SaveSession writes the session cookie so later commands reuse it.
func (c *Connection) SaveSession() error {
	if err := c.cookies.Save(c.Client.Jar(), c.Client.ServerURL()); err != nil {
		return Internal("%w", err)
	}
	return nil
}

// ForgetSession removes the saved session cookie.
func (c *Connection) ForgetSession() error {
	if err := c.cookies.Remove(); err != nil {
		return Internal("%w", err)
	}
	return nil
}

// RequireSession checks the saved session with the server and returns
// its identity when it may use area.
func (c *Connection) RequireSession(ctx context.Context, area guard.Area) (session.Identity, error) {
	if !c.Client.HasSessionCookie() {
		return session.Identity{}, Unauthenticated("not logged in; run 'mmsctl login %s'", area)
	}
	state := c.Store.CheckAuth(ctx)
	if decision := guard.Protect(area, state); decision.Action != guard.Render {
		if state.Authenticated() {
			return session.Identity{}, Forbidden("logged in as a %s user; this command needs a %s session", state.Identity.UserType, area)
		}
		return session.Identity{}, Unauthenticated("session expired or invalid; run 'mmsctl login %s'", area)
	}
	return *state.Identity, nil
}

// Close flushes trace export and releases idle connections.
func (c *Connection) Close(ctx context.Context) error {
	c.Client.CloseIdleConnections()
	if c.key != nil {
		c.key.Close()
	}
	if c.shutdown == nil {
		return nil
	}
	if err := c.shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Warn("telemetry shutdown failed", "error", err)
		return err
	}
	return nil
}
