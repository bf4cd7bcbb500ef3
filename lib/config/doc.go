// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for mmsctl.
//
// A configuration file is named either by the MMS_CONFIG environment
// variable (via [Load]) or by the --config flag (via [LoadFile]).
// [Resolve] picks between the two and, when neither is given, starts
// from [Default] with the server URL taken from MMS_SERVER_URL. That is
// the only environment variable that overrides a setting, and it only
// applies when there is no file: a config file is the single source of
// truth when present.
//
// The file supports environment-specific sections (development,
// staging, production) that override base values when
// [Config].Environment matches. Production defaults are stricter: the
// telemetry exporter must use TLS.
//
// Variable expansion is performed after loading: ${HOME},
// ${MMS_STATE}, and ${VAR:-default} patterns are expanded in paths and
// in the server URL.
//
// [LoadDotEnv] reads a .env file into the process environment before
// resolution, so MMS_CONFIG, MMS_SERVER_URL, and the variables used in
// ${VAR} patterns can live next to a project.
//
// Key exports:
//
//   - [Config] -- master struct with Server, Paths, Telemetry, Console
//   - [Default] -- returns a Config with development defaults
//   - [Load], [LoadFile], and [Resolve] -- the entry points for loading
//
// This package depends on no other console packages.
package config
