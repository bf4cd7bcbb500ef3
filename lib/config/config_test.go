// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "mms.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return configPath
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Environment != Development {
		t.Errorf("expected environment=development, got %s", cfg.Environment)
	}
	if cfg.Server.URL != "http://localhost:8080" {
		t.Errorf("expected server.url=http://localhost:8080, got %s", cfg.Server.URL)
	}
	if cfg.Console.DefaultArea != "platform" {
		t.Errorf("expected default_area=platform, got %s", cfg.Console.DefaultArea)
	}
	if !cfg.Telemetry.Insecure {
		t.Error("expected insecure telemetry for development")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad_RequiresConfigEnv(t *testing.T) {
	t.Setenv(ConfigEnv, "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when MMS_CONFIG not set, got nil")
	}
	if !strings.HasPrefix(err.Error(), "MMS_CONFIG environment variable not set") {
		t.Errorf("unexpected error: %q", err.Error())
	}
}

func TestLoad_WithConfigEnv(t *testing.T) {
	configPath := writeConfig(t, `
environment: staging
server:
  url: https://mms.staging.example.com
`)
	t.Setenv(ConfigEnv, configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Environment != Staging {
		t.Errorf("expected environment=staging, got %s", cfg.Environment)
	}
	if cfg.Server.URL != "https://mms.staging.example.com" {
		t.Errorf("expected staging URL, got %s", cfg.Server.URL)
	}
}

func TestLoadFile(t *testing.T) {
	configPath := writeConfig(t, `
environment: development

server:
  url: http://127.0.0.1:9090
  timeout: 5s

paths:
  state: /custom/state

telemetry:
  otlp_endpoint: localhost:4317

console:
  default_area: tenant
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Server.URL != "http://127.0.0.1:9090" {
		t.Errorf("expected url=http://127.0.0.1:9090, got %s", cfg.Server.URL)
	}
	timeout, err := cfg.RequestTimeout()
	if err != nil || timeout != 5*time.Second {
		t.Errorf("RequestTimeout() = %v, %v; want 5s", timeout, err)
	}
	if cfg.Paths.State != "/custom/state" {
		t.Errorf("expected state=/custom/state, got %s", cfg.Paths.State)
	}
	// Unset paths derive from the state directory.
	if cfg.Paths.CookieFile != "/custom/state/cookies.json" {
		t.Errorf("expected cookie_file under state, got %s", cfg.Paths.CookieFile)
	}
	if cfg.Paths.LogFile != "/custom/state/console.log" {
		t.Errorf("expected log_file under state, got %s", cfg.Paths.LogFile)
	}
	if cfg.Telemetry.OTLPEndpoint != "localhost:4317" {
		t.Errorf("expected otlp_endpoint=localhost:4317, got %s", cfg.Telemetry.OTLPEndpoint)
	}
	if cfg.Console.DefaultArea != "tenant" {
		t.Errorf("expected default_area=tenant, got %s", cfg.Console.DefaultArea)
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	configPath := writeConfig(t, "server: [unterminated")
	if _, err := LoadFile(configPath); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	configPath := writeConfig(t, `
environment: production

server:
  url: http://localhost:8080

telemetry:
  otlp_endpoint: localhost:4317
  insecure: true

production:
  server:
    url: https://mms.example.com
    timeout: 10s
  telemetry:
    otlp_endpoint: otel.example.com:4317
    insecure: false
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Server.URL != "https://mms.example.com" {
		t.Errorf("expected production URL, got %s", cfg.Server.URL)
	}
	if cfg.Server.Timeout != "10s" {
		t.Errorf("expected timeout=10s, got %s", cfg.Server.Timeout)
	}
	if cfg.Telemetry.OTLPEndpoint != "otel.example.com:4317" {
		t.Errorf("expected production collector, got %s", cfg.Telemetry.OTLPEndpoint)
	}
	if cfg.Telemetry.Insecure {
		t.Error("expected insecure=false from production override")
	}
}

func TestProductionDefaultsRequireTLS(t *testing.T) {
	configPath := writeConfig(t, `
environment: production
telemetry:
  insecure: true
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Telemetry.Insecure {
		t.Error("production without overrides should disable insecure telemetry")
	}
}

func TestEnvVarsDoNotOverrideFile(t *testing.T) {
	t.Setenv(ServerURLEnv, "http://env.example.com")

	configPath := writeConfig(t, `
server:
  url: http://file.example.com
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Server.URL != "http://file.example.com" {
		t.Errorf("expected url from file, got %s (MMS_SERVER_URL should not override a file)", cfg.Server.URL)
	}
}

func TestResolve(t *testing.T) {
	t.Run("explicit path wins", func(t *testing.T) {
		explicit := writeConfig(t, "server:\n  url: http://explicit.example.com\n")
		t.Setenv(ConfigEnv, writeConfig(t, "server:\n  url: http://env.example.com\n"))

		cfg, err := Resolve(explicit)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if cfg.Server.URL != "http://explicit.example.com" {
			t.Errorf("got %s", cfg.Server.URL)
		}
	})

	t.Run("MMS_CONFIG", func(t *testing.T) {
		t.Setenv(ConfigEnv, writeConfig(t, "server:\n  url: http://env.example.com\n"))

		cfg, err := Resolve("")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if cfg.Server.URL != "http://env.example.com" {
			t.Errorf("got %s", cfg.Server.URL)
		}
	})

	t.Run("defaults with MMS_SERVER_URL", func(t *testing.T) {
		t.Setenv(ConfigEnv, "")
		t.Setenv(ServerURLEnv, "http://fromenv:8080")

		cfg, err := Resolve("")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if cfg.Server.URL != "http://fromenv:8080" {
			t.Errorf("got %s", cfg.Server.URL)
		}
		if strings.Contains(cfg.Paths.CookieFile, "${") {
			t.Errorf("cookie file not expanded: %s", cfg.Paths.CookieFile)
		}
	})

	t.Run("session key", func(t *testing.T) {
		t.Setenv(ConfigEnv, "")
		t.Setenv(SessionKeyEnv, "${MMS_STATE}/session.key")

		cfg, err := Resolve("")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if want := filepath.Join(cfg.Paths.State, "session.key"); cfg.Paths.SessionKey != want {
			t.Errorf("SessionKey = %q, want %q", cfg.Paths.SessionKey, want)
		}

		fromFile := writeConfig(t, "paths:\n  session_key: /etc/mms/key\n")
		cfg, err = Resolve(fromFile)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if cfg.Paths.SessionKey != "/etc/mms/key" {
			t.Errorf("SessionKey = %q, want the file's value", cfg.Paths.SessionKey)
		}
	})
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv(ServerURLEnv, "")
	os.Unsetenv(ServerURLEnv)

	dotenv := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(dotenv, []byte("MMS_SERVER_URL=http://dotenv:8080\n"), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	if err := LoadDotEnv(dotenv); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}
	if got := os.Getenv(ServerURLEnv); got != "http://dotenv:8080" {
		t.Errorf("MMS_SERVER_URL = %q after LoadDotEnv", got)
	}

	if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("missing .env should not be an error: %v", err)
	}
}

func TestExpandVars(t *testing.T) {
	tests := []struct {
		input    string
		vars     map[string]string
		expected string
	}{
		{
			input:    "${HOME}/mms",
			vars:     map[string]string{"HOME": "/home/user"},
			expected: "/home/user/mms",
		},
		{
			input:    "${MISSING_MMS_VAR:-default}",
			vars:     map[string]string{},
			expected: "default",
		},
		{
			input:    "${PRESENT:-default}",
			vars:     map[string]string{"PRESENT": "value"},
			expected: "value",
		},
		{
			input:    "${MMS_STATE}/cookies.json",
			vars:     map[string]string{"MMS_STATE": "/state"},
			expected: "/state/cookies.json",
		},
		{
			input:    "no variables here",
			vars:     map[string]string{},
			expected: "no variables here",
		},
	}

	for _, tt := range tests {
		result := expandVars(tt.input, tt.vars)
		if result != tt.expected {
			t.Errorf("expandVars(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid environment",
			modify:  func(c *Config) { c.Environment = "invalid" },
			wantErr: true,
		},
		{
			name:    "empty server URL",
			modify:  func(c *Config) { c.Server.URL = "" },
			wantErr: true,
		},
		{
			name:    "non-http server URL",
			modify:  func(c *Config) { c.Server.URL = "ftp://example.com" },
			wantErr: true,
		},
		{
			name:    "bad timeout",
			modify:  func(c *Config) { c.Server.Timeout = "soon" },
			wantErr: true,
		},
		{
			name:    "unknown default area",
			modify:  func(c *Config) { c.Console.DefaultArea = "admin" },
			wantErr: true,
		},
		{
			name:    "empty state path",
			modify:  func(c *Config) { c.Paths.State = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnsurePaths(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := Default()
	cfg.Paths.State = filepath.Join(tmpDir, "mms")
	cfg.Paths.CookieFile = filepath.Join(tmpDir, "cookies", "cookies.json")
	cfg.Paths.LogFile = filepath.Join(tmpDir, "logs", "console.log")

	if err := cfg.EnsurePaths(); err != nil {
		t.Fatalf("EnsurePaths failed: %v", err)
	}

	for _, path := range []string{cfg.Paths.State, filepath.Join(tmpDir, "cookies"), filepath.Join(tmpDir, "logs")} {
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("path %s not created: %v", path, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("path %s is not a directory", path)
		}
		if info.Mode().Perm() != 0700 {
			t.Errorf("path %s has mode %v, want 0700", path, info.Mode().Perm())
		}
	}
}
