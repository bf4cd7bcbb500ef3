// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for mmsctl.
//
// Release builds inject the version and VCS details via -ldflags:
//
//	pkg=github.com/mayuran19/mms-console/lib/version
//	go build -ldflags "\
//	  -X $pkg.Version=1.2.0 \
//	  -X $pkg.GitCommit=$(git rev-parse --short HEAD) \
//	  -X $pkg.GitDirty=$(test -z "$(git status --porcelain)" && echo false || echo true) \
//	  -X $pkg.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/mmsctl
//
// A plain "go build" or "go install" leaves GitCommit and BuildTime at
// "unknown"; [Current] then reads the vcs.revision, vcs.modified and
// vcs.time settings the toolchain stamps into the binary. Test binaries
// carry no VCS stamp and report "unknown".
//
// [UserAgent] is what the API client sends; [Short] is the version
// recorded on exported traces.
package version
