// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework shared by the mmsctl
// subcommands: a command tree with pflag binding from tagged parameter
// structs, --json output, categorized errors with exit codes, and the
// [Connection] every server-facing command starts from.
package cli
