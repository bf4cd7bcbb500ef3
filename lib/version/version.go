// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags -X. Empty or "unknown" values fall back to the VCS
// stamp the Go toolchain embeds in module builds.
var (
	GitCommit = "unknown"
	GitDirty  = "false"
	BuildTime = "unknown"
	Version   = "0.1.0-dev"
)

// Product is the name reported in the User-Agent header and in traces.
const Product = "mmsctl"

// Build describes the running mmsctl binary.
type Build struct {
	Version string
	Commit  string
	Dirty   bool
	Time    string
}

// String formats b as "1.2.3 (abc1234-dirty, 2026-10-01T00:00:00Z)".
func (b Build) String() string {
	commit := b.Commit
	if b.Dirty {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (%s, %s)", b.Version, commit, b.Time)
}

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Current returns the build description, preferring the ldflags values
// and filling gaps from the embedded vcs.* build settings.
func Current() Build {
	build := Build{
		Version: Version,
		Commit:  GitCommit,
		Dirty:   GitDirty == "true",
		Time:    BuildTime,
	}
	if build.Commit != "unknown" && build.Time != "unknown" {
		return build
	}
	info, ok := readBuildInfo()
	if !ok {
		return build
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if build.Commit == "unknown" && setting.Value != "" {
				build.Commit = setting.Value
				if len(build.Commit) > 7 {
					build.Commit = build.Commit[:7]
				}
				// Only trust vcs.modified alongside the revision it
				// describes.
				build.Dirty = build.Dirty || modified(info)
			}
		case "vcs.time":
			if build.Time == "unknown" && setting.Value != "" {
				build.Time = setting.Value
			}
		}
	}
	return build
}

func modified(info *debug.BuildInfo) bool {
	for _, setting := range info.Settings {
		if setting.Key == "vcs.modified" {
			return setting.Value == "true"
		}
	}
	return false
}

// Info returns the one-line version used by "mmsctl version".
func Info() string {
	return Current().String()
}

// Full returns Info plus the Go toolchain and platform.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns just the version number.
func Short() string {
	return Version
}

// UserAgent returns the User-Agent sent to the membership server.
func UserAgent() string {
	return Product + "/" + Version
}
