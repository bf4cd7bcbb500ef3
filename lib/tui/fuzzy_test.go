// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestFuzzyMatchSubstring(t *testing.T) {
	result := FuzzyMatch("Acme Corporation", []rune("corp"), nil)
	if result.Score <= 0 {
		t.Fatal("expected positive score for substring match")
	}
	if want := []int{5, 6, 7, 8}; !reflect.DeepEqual(result.Positions, want) {
		t.Errorf("positions = %v, want %v", result.Positions, want)
	}
}

func TestFuzzyMatchNonContiguous(t *testing.T) {
	result := FuzzyMatch("acme-corp", []rune("acp"), nil)
	if result.Score <= 0 {
		t.Fatal("expected positive score for non-contiguous match")
	}
}

func TestFuzzyMatchCaseInsensitive(t *testing.T) {
	if FuzzyMatch("SUSPENDED", []rune("susp"), nil).Score <= 0 {
		t.Error("lowercase pattern should match uppercase text")
	}
	if FuzzyMatch("alice@example.com", []rune("ALICE"), nil).Score <= 0 {
		t.Error("uppercase pattern should match lowercase text")
	}
}

func TestFuzzyMatchPositionsIndexOriginalRunes(t *testing.T) {
	// "İ" lowercases to two runes with strings.ToLower.
	text := "İstanbul Tenant"
	result := FuzzyMatch(text, []rune("tenant"), nil)
	if result.Score <= 0 {
		t.Fatal("expected a match")
	}
	if want := []int{9, 10, 11, 12, 13, 14}; !reflect.DeepEqual(result.Positions, want) {
		t.Errorf("positions = %v, want %v", result.Positions, want)
	}
	runes := []rune(text)
	var matched strings.Builder
	for _, position := range result.Positions {
		matched.WriteRune(runes[position])
	}
	if matched.String() != "Tenant" {
		t.Errorf("positions select %q, want %q", matched.String(), "Tenant")
	}
}

func TestFuzzyMatchNoMatch(t *testing.T) {
	result := FuzzyMatch("Acme Corporation", []rune("xyz"), NewSlab())
	if result.Score != 0 || len(result.Positions) != 0 {
		t.Errorf("expected no match, got %+v", result)
	}
	if FuzzyMatch("anything", nil, nil).Score != 0 {
		t.Error("empty pattern should not match")
	}
}

func TestFilterApply(t *testing.T) {
	rows := [][]string{
		{"Acme Corporation", "acme-corp", "ACTIVE"},
		{"Globex", "globex", "SUSPENDED"},
		{"Initech", "initech", "INACTIVE"},
	}
	fields := func(index int) []string { return rows[index] }

	filter := FilterModel{}
	all := filter.Apply(len(rows), fields)
	if len(all) != 3 || all[0].Index != 0 || all[2].Index != 2 {
		t.Fatalf("empty filter should keep order, got %+v", all)
	}

	filter.HandleRune('g')
	filter.HandleRune('l')
	filter.HandleRune('o')
	matches := filter.Apply(len(rows), fields)
	if len(matches) != 1 || matches[0].Index != 1 {
		t.Fatalf("filter %q matched %+v, want only Globex", filter.Input, matches)
	}
	if matches[0].Field != 0 && matches[0].Field != 1 {
		t.Errorf("best field = %d, want name or slug", matches[0].Field)
	}

	filter.Clear()
	filter.Input = "susp"
	matches = filter.Apply(len(rows), fields)
	if len(matches) != 1 || matches[0].Index != 1 || matches[0].Field != 2 {
		t.Errorf("status match = %+v", matches)
	}
}

func TestFilterEditing(t *testing.T) {
	filter := FilterModel{Active: true}
	if filter.HandleBackspace() {
		t.Error("backspace on empty input reported a change")
	}
	filter.HandleRune('é')
	filter.HandleRune('x')
	if !filter.HandleBackspace() || filter.Input != "é" {
		t.Errorf("input after backspace = %q", filter.Input)
	}
	if view := ansi.Strip(filter.View(DefaultTheme, 40)); !strings.Contains(view, "/ é") {
		t.Errorf("active view = %q", view)
	}
	filter.Active = false
	if view := ansi.Strip(filter.View(DefaultTheme, 40)); !strings.Contains(view, "filter: é") {
		t.Errorf("inactive view = %q", view)
	}
	filter.Clear()
	if filter.View(DefaultTheme, 40) != "" {
		t.Error("cleared filter should render nothing")
	}
}

func TestHighlightMatches(t *testing.T) {
	base := lipgloss.NewStyle()
	if got := ansi.Strip(HighlightMatches("globex", []int{0, 1, 2}, base, DefaultTheme)); got != "globex" {
		t.Errorf("highlighted text = %q, want the original characters", got)
	}
	if got := HighlightMatches("plain", nil, base, DefaultTheme); ansi.Strip(got) != "plain" {
		t.Errorf("unhighlighted text = %q", got)
	}
}
