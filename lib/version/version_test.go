// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func setBuild(t *testing.T, commit, dirty, buildTime, release string) {
	t.Helper()
	savedCommit, savedDirty, savedTime, savedVersion := GitCommit, GitDirty, BuildTime, Version
	savedRead := readBuildInfo
	t.Cleanup(func() {
		GitCommit, GitDirty, BuildTime, Version = savedCommit, savedDirty, savedTime, savedVersion
		readBuildInfo = savedRead
	})
	GitCommit, GitDirty, BuildTime, Version = commit, dirty, buildTime, release
}

func TestInfo(t *testing.T) {
	setBuild(t, "abc1234", "false", "2026-10-01T00:00:00Z", "1.2.3")
	if got, want := Info(), "1.2.3 (abc1234, 2026-10-01T00:00:00Z)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}

	GitDirty = "true"
	if got := Info(); !strings.Contains(got, "abc1234-dirty") {
		t.Errorf("Info() = %q, want dirty marker", got)
	}
	if got := Full(); !strings.HasPrefix(got, Info()) || !strings.Contains(got, "Platform: ") {
		t.Errorf("Full() = %q", got)
	}
	if Short() != "1.2.3" {
		t.Errorf("Short() = %q", Short())
	}
	if UserAgent() != "mmsctl/1.2.3" {
		t.Errorf("UserAgent() = %q", UserAgent())
	}
}

func TestCurrentFallsBackToVCSStamp(t *testing.T) {
	setBuild(t, "unknown", "false", "unknown", "0.1.0-dev")
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "vcs.time", Value: "2026-09-30T12:00:00Z"},
		}}, true
	}

	build := Current()
	if build.Commit != "0123456" || !build.Dirty || build.Time != "2026-09-30T12:00:00Z" {
		t.Errorf("Current() = %+v", build)
	}
	if got, want := Info(), "0.1.0-dev (0123456-dirty, 2026-09-30T12:00:00Z)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
}

func TestCurrentPrefersLinkerValues(t *testing.T) {
	setBuild(t, "feedbee", "false", "2026-10-01T00:00:00Z", "1.0.0")
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		t.Error("build info read although ldflags set every field")
		return nil, false
	}
	if build := Current(); build.Commit != "feedbee" || build.Dirty {
		t.Errorf("Current() = %+v", build)
	}
}

func TestCurrentWithoutBuildInfo(t *testing.T) {
	setBuild(t, "unknown", "false", "unknown", "0.1.0-dev")
	readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }
	if got, want := Info(), "0.1.0-dev (unknown, unknown)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
}
