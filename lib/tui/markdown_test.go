// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func plainLines(lines []string) []string {
	out := make([]string, len(lines))
	for index, line := range lines {
		out[index] = ansi.Strip(line)
	}
	return out
}

func TestRenderMarkdown(t *testing.T) {
	input := "# Keys\n\n" +
		"Press **q** to quit and `L` to\nlog out.\n\n" +
		"- one\n- two\n\n" +
		"1. first\n2. second\n\n" +
		"```json\n{\"a\": 1}\n```\n"

	lines := plainLines(RenderMarkdown(input, DefaultTheme, 60))
	joined := strings.Join(lines, "\n")

	for _, want := range []string{
		"Keys",
		"Press q to quit and L to log out.",
		"• one\n• two",
		"1. first\n2. second",
		`  {"a": 1}`,
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("rendered markdown missing %q:\n%s", want, joined)
		}
	}
	if lines[1] != "" {
		t.Errorf("expected a blank line after the heading, got %q", lines[1])
	}
	if lines[len(lines)-1] == "" {
		t.Error("trailing blank line not trimmed")
	}
}

func TestRenderMarkdownWraps(t *testing.T) {
	input := strings.Repeat("word ", 30)
	lines := plainLines(RenderMarkdown(input, DefaultTheme, 24))
	if len(lines) < 5 {
		t.Fatalf("expected wrapping, got %d lines: %q", len(lines), lines)
	}
	for _, line := range lines {
		if ansi.StringWidth(line) > 24 {
			t.Errorf("line wider than 24: %q", line)
		}
	}
}

func TestRenderMarkdownEmpty(t *testing.T) {
	if lines := RenderMarkdown("  \n", DefaultTheme, 40); lines != nil {
		t.Errorf("RenderMarkdown(blank) = %q, want nil", lines)
	}
}
