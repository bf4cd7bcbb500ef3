// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by this package.
const (
	ConfigEnv    = "MMS_CONFIG"
	ServerURLEnv = "MMS_SERVER_URL"
	// SessionKeyEnv names an age key file that seals the cookie file.
	// A session_key in the config file takes precedence.
	SessionKeyEnv = "MMS_SESSION_KEY"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for a server running on the operator's machine.
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Config is the master configuration for mmsctl.
type Config struct {
	// Environment selects which override section applies.
	Environment Environment `yaml:"environment"`

	Server    ServerConfig    `yaml:"server"`
	Paths     PathsConfig     `yaml:"paths"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Console   ConsoleConfig   `yaml:"console"`

	// Per-environment overrides, applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Server    *ServerConfig    `yaml:"server,omitempty"`
	Paths     *PathsConfig     `yaml:"paths,omitempty"`
	Telemetry *TelemetryConfig `yaml:"telemetry,omitempty"`
	Console   *ConsoleConfig   `yaml:"console,omitempty"`
}

// ServerConfig locates the membership server.
type ServerConfig struct {
	// URL is the scheme and host of the server; the client appends /api.
	// Default: http://localhost:8080
	URL string `yaml:"url"`

	// Timeout bounds each API request, as a Go duration string.
	// Default: 30s
	Timeout string `yaml:"timeout"`
}

// PathsConfig configures file locations.
type PathsConfig struct {
	// State is the directory holding the cookie file and console log.
	// Default: $XDG_CONFIG_HOME/mms
	State string `yaml:"state"`

	// CookieFile persists the session cookie between invocations.
	// Default: ${MMS_STATE}/cookies.json
	CookieFile string `yaml:"cookie_file"`

	// LogFile receives the console's log while the terminal UI owns
	// the screen.
	// Default: ${MMS_STATE}/console.log
	LogFile string `yaml:"log_file"`

	// SessionKey is an age identity file. When set, the cookie file is
	// encrypted to it. Default: unset (plaintext, mode 0600)
	SessionKey string `yaml:"session_key"`
}

// TelemetryConfig configures OTLP trace export. Export is disabled
// when OTLPEndpoint is empty.
type TelemetryConfig struct {
	// OTLPEndpoint is the host:port of an OTLP/gRPC collector.
	OTLPEndpoint string `yaml:"otlp_endpoint"`

	// Insecure disables TLS to the collector.
	// Default: true (development), false (production)
	Insecure bool `yaml:"insecure"`

	// ServiceName is reported as the service.name resource attribute.
	// Default: mmsctl
	ServiceName string `yaml:"service_name"`
}

// ConsoleConfig configures the terminal UI.
type ConsoleConfig struct {
	// DefaultArea is the area whose login screen opens first:
	// "platform" or "tenant".
	// Default: platform
	DefaultArea string `yaml:"default_area"`
}

// Default returns the default configuration. These defaults are the
// base a config file is merged into, and the whole configuration when
// no file is given.
func Default() *Config {
	stateDir := "${MMS_STATE}"
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	defaultState := filepath.Join(configDir, "mms")

	return &Config{
		Environment: Development,
		Server: ServerConfig{
			URL:     "http://localhost:8080",
			Timeout: "30s",
		},
		Paths: PathsConfig{
			State:      defaultState,
			CookieFile: filepath.Join(stateDir, "cookies.json"),
			LogFile:    filepath.Join(stateDir, "console.log"),
		},
		Telemetry: TelemetryConfig{
			Insecure:    true,
			ServiceName: "mmsctl",
		},
		Console: ConsoleConfig{
			DefaultArea: "platform",
		},
	}
}

// Load loads configuration from the MMS_CONFIG environment variable.
// It fails when MMS_CONFIG is not set.
func Load() (*Config, error) {
	configPath := os.Getenv(ConfigEnv)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your mms.yaml config file, or use --config flag", ConfigEnv)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

// Resolve returns the configuration for a command: the file at
// explicitPath if set, else the file named by MMS_CONFIG, else the
// defaults with MMS_SERVER_URL applied.
func Resolve(explicitPath string) (*Config, error) {
	cfg, err := resolve(explicitPath)
	if err != nil {
		return nil, err
	}
	if cfg.Paths.SessionKey == "" {
		if keyPath := os.Getenv(SessionKeyEnv); keyPath != "" {
			cfg.Paths.SessionKey = expandVars(keyPath, map[string]string{"MMS_STATE": cfg.Paths.State})
		}
	}
	return cfg, nil
}

func resolve(explicitPath string) (*Config, error) {
	if explicitPath != "" {
		return LoadFile(explicitPath)
	}
	if os.Getenv(ConfigEnv) != "" {
		return Load()
	}
	cfg := Default()
	if serverURL := os.Getenv(ServerURLEnv); serverURL != "" {
		cfg.Server.URL = serverURL
	}
	cfg.expandVariables()
	return cfg, nil
}

// LoadDotEnv loads KEY=value pairs from path into the process
// environment without overriding variables that are already set. A
// missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		if overrides == nil {
			overrides = &ConfigOverrides{
				Telemetry: &TelemetryConfig{Insecure: false},
			}
		}
	}

	if overrides == nil {
		return
	}

	if overrides.Server != nil {
		if overrides.Server.URL != "" {
			c.Server.URL = overrides.Server.URL
		}
		if overrides.Server.Timeout != "" {
			c.Server.Timeout = overrides.Server.Timeout
		}
	}

	if overrides.Paths != nil {
		if overrides.Paths.State != "" {
			c.Paths.State = overrides.Paths.State
		}
		if overrides.Paths.CookieFile != "" {
			c.Paths.CookieFile = overrides.Paths.CookieFile
		}
		if overrides.Paths.LogFile != "" {
			c.Paths.LogFile = overrides.Paths.LogFile
		}
		if overrides.Paths.SessionKey != "" {
			c.Paths.SessionKey = overrides.Paths.SessionKey
		}
	}

	if overrides.Telemetry != nil {
		if overrides.Telemetry.OTLPEndpoint != "" {
			c.Telemetry.OTLPEndpoint = overrides.Telemetry.OTLPEndpoint
		}
		// Insecure is a bool, so it always applies from overrides.
		c.Telemetry.Insecure = overrides.Telemetry.Insecure
		if overrides.Telemetry.ServiceName != "" {
			c.Telemetry.ServiceName = overrides.Telemetry.ServiceName
		}
	}

	if overrides.Console != nil && overrides.Console.DefaultArea != "" {
		c.Console.DefaultArea = overrides.Console.DefaultArea
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"MMS_STATE": c.Paths.State,
		"HOME":      os.Getenv("HOME"),
	}

	c.Paths.State = expandVars(c.Paths.State, vars)
	vars["MMS_STATE"] = c.Paths.State

	c.Paths.CookieFile = expandVars(c.Paths.CookieFile, vars)
	c.Paths.LogFile = expandVars(c.Paths.LogFile, vars)
	c.Paths.SessionKey = expandVars(c.Paths.SessionKey, vars)
	c.Server.URL = expandVars(c.Server.URL, vars)
	c.Telemetry.OTLPEndpoint = expandVars(c.Telemetry.OTLPEndpoint, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns, preferring
// vars over the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// RequestTimeout parses Server.Timeout. An empty value means no
// timeout.
func (c *Config) RequestTimeout() (time.Duration, error) {
	if c.Server.Timeout == "" {
		return 0, nil
	}
	timeout, err := time.ParseDuration(c.Server.Timeout)
	if err != nil {
		return 0, fmt.Errorf("server.timeout: %w", err)
	}
	if timeout < 0 {
		return 0, fmt.Errorf("server.timeout must not be negative")
	}
	return timeout, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Server.URL == "" {
		errs = append(errs, fmt.Errorf("server.url is required"))
	} else if parsed, err := url.Parse(c.Server.URL); err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("server.url must be an http or https URL, got %q", c.Server.URL))
	}

	if _, err := c.RequestTimeout(); err != nil {
		errs = append(errs, err)
	}

	if c.Paths.State == "" {
		errs = append(errs, fmt.Errorf("paths.state is required"))
	}

	if c.Console.DefaultArea != "platform" && c.Console.DefaultArea != "tenant" {
		errs = append(errs, fmt.Errorf("console.default_area must be platform or tenant, got %q", c.Console.DefaultArea))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EnsurePaths creates the state directory and the directories holding
// the cookie and log files. The state directory holds a credential, so
// it is created private to the user.
func (c *Config) EnsurePaths() error {
	paths := []string{
		c.Paths.State,
		filepath.Dir(c.Paths.CookieFile),
		filepath.Dir(c.Paths.LogFile),
	}

	for _, path := range paths {
		if path == "" || path == "." {
			continue
		}
		if err := os.MkdirAll(path, 0700); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}

	return nil
}
