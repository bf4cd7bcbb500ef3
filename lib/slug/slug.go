// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package slug derives and checks tenant slugs: the URL-safe,
// immutable identifiers the server stores alongside each tenant's
// display name.
//
// [Make] is the derivation the create dialog runs on every edit of the
// name field. Its output contains only [a-z0-9-], never starts or ends
// with a hyphen, never contains two hyphens in a row, and is a fixed
// point: Make(Make(s)) == Make(s).
//
// [Check] applies the server's acceptance rule (2-100 characters of
// [a-z0-9-]), which is looser than Make's output: the server accepts
// "a--b" and "-ab". Check is advisory in the console; the server
// remains the authority.
package slug

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Length bounds the server enforces.
const (
	MinLength = 2
	MaxLength = 100
)

var pattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Make derives a slug from a display name. Letters are lowercased;
// ASCII letters and digits are kept; whitespace (including U+FEFF but
// not U+0085) and hyphens act as
// separators, each run collapsing to one hyphen; everything else is
// dropped without ending a separator run.
//
//	Make("Acme Corp!")            // "acme-corp"
//	Make("  multiple   spaces ") // "multiple-spaces"
func Make(name string) string {
	var builder strings.Builder
	builder.Grow(len(name))
	pendingSeparator := false
	for _, r := range strings.ToLower(name) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingSeparator && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			pendingSeparator = false
			builder.WriteRune(r)
		case r == '-' || isSpace(r):
			pendingSeparator = true
		}
	}
	return builder.String()
}

// isSpace is the whitespace class of the web console's name field:
// unicode.IsSpace plus the byte-order mark U+FEFF, minus NEL U+0085.
func isSpace(r rune) bool {
	switch r {
	case '\uFEFF':
		return true
	case '\u0085':
		return false
	}
	return unicode.IsSpace(r)
}

// Valid reports whether s would be accepted by the server.
func Valid(s string) bool {
	return Check(s) == nil
}

// Check returns a description of why the server would reject s, or nil.
func Check(s string) error {
	switch {
	case len(s) < MinLength || len(s) > MaxLength:
		return fmt.Errorf("slug must be between %d and %d characters", MinLength, MaxLength)
	case !pattern.MatchString(s):
		return fmt.Errorf("slug must contain only lowercase letters, numbers, and hyphens")
	}
	return nil
}
