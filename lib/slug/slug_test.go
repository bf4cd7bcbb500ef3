// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package slug

import (
	"strings"
	"testing"
)

func TestMake(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Acme Corp!", "acme-corp"},
		{"  multiple   spaces ", "multiple-spaces"},
		{"Already-Slugged", "already-slugged"},
		{"already-slugged", "already-slugged"},
		{"a - b", "a-b"},
		{"--leading and trailing--", "leading-and-trailing"},
		{"Tabs\tand\nnewlines", "tabs-and-newlines"},
		{"R&D Department", "rd-department"},
		{"Café Münster", "caf-mnster"},
		{"100% Organic", "100-organic"},
		{"!!!", ""},
		{"", ""},
		{"x", "x"},
		{"no\u00a0break", "no-break"},
		{"byte\ufefforder", "byte-order"},
		{"next\u0085line", "nextline"},
	}
	for _, test := range tests {
		if got := Make(test.input); got != test.want {
			t.Errorf("Make(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestMakeProperties(t *testing.T) {
	inputs := []string{
		"Acme Corp!",
		"  multiple   spaces ",
		"Already-Slugged",
		"---",
		"- a -- b -",
		"Ünïcödé  Nämé",
		"日本語 Tenant 2",
		"MiXeD_case.with/punct",
		"tenant with odd spaces",
		strings.Repeat("long name ", 40),
	}
	for _, input := range inputs {
		got := Make(input)
		for _, r := range got {
			if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
				t.Errorf("Make(%q) = %q contains %q", input, got, r)
			}
		}
		if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") {
			t.Errorf("Make(%q) = %q has a leading or trailing hyphen", input, got)
		}
		if strings.Contains(got, "--") {
			t.Errorf("Make(%q) = %q has a hyphen run", input, got)
		}
		if again := Make(got); again != got {
			t.Errorf("Make is not idempotent on %q: %q then %q", input, got, again)
		}
	}
}

func TestCheck(t *testing.T) {
	valid := []string{"ab", "acme-corp", "a--b", "-ab", "123", strings.Repeat("a", MaxLength)}
	for _, s := range valid {
		if err := Check(s); err != nil {
			t.Errorf("Check(%q) = %v, want nil", s, err)
		}
	}
	invalid := []string{"", "a", "Acme", "acme corp", "acme_corp", strings.Repeat("a", MaxLength+1)}
	for _, s := range invalid {
		if Valid(s) {
			t.Errorf("Valid(%q) = true, want false", s)
		}
	}
}
