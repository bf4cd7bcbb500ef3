// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/junegunn/fzf/src/util"
)

// FilterModel narrows a loaded list client-side. The user presses /
// to activate it, types a query, and every row whose searchable
// fields fuzzy-match the query stays visible, best match first.
type FilterModel struct {
	// Input is the current query text.
	Input string

	// Active is true while the filter input has keyboard focus.
	Active bool

	slab *util.Slab
}

// Match is one row that survived the filter. Field is the index of the
// searchable field that produced the best score; Positions refers to
// that field.
type Match struct {
	Index     int
	Score     int
	Field     int
	Positions []int
}

// Apply filters count rows. fields returns the searchable strings for
// row i. With an empty query every row matches in its original order;
// otherwise matches are ordered by descending score, ties by position.
func (filter *FilterModel) Apply(count int, fields func(index int) []string) []Match {
	matches := make([]Match, 0, count)
	if filter.Input == "" {
		for index := 0; index < count; index++ {
			matches = append(matches, Match{Index: index, Field: -1})
		}
		return matches
	}
	if filter.slab == nil {
		filter.slab = NewSlab()
	}
	pattern := []rune(filter.Input)
	for index := 0; index < count; index++ {
		best := Match{Index: index, Field: -1}
		for fieldIndex, text := range fields(index) {
			result := FuzzyMatch(text, pattern, filter.slab)
			if result.Score > best.Score {
				best.Score = result.Score
				best.Field = fieldIndex
				best.Positions = result.Positions
			}
		}
		if best.Score > 0 {
			matches = append(matches, best)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// HandleRune appends a typed character.
func (filter *FilterModel) HandleRune(character rune) {
	filter.Input += string(character)
}

// HandleBackspace removes the last character from the input. Returns
// true if the input changed.
func (filter *FilterModel) HandleBackspace() bool {
	if len(filter.Input) == 0 {
		return false
	}
	runes := []rune(filter.Input)
	filter.Input = string(runes[:len(runes)-1])
	return true
}

// Clear resets the input and deactivates the filter.
func (filter *FilterModel) Clear() {
	filter.Input = ""
	filter.Active = false
}

// View renders the filter bar. Hidden when inactive and empty.
func (filter *FilterModel) View(theme Theme, width int) string {
	if !filter.Active && filter.Input == "" {
		return ""
	}
	if filter.Active {
		cursor := lipgloss.NewStyle().
			Foreground(theme.HeaderForeground).
			Bold(true).
			Render("▎")
		return lipgloss.NewStyle().
			Foreground(theme.NormalText).
			Width(width).
			Render(" / " + filter.Input + cursor)
	}
	return lipgloss.NewStyle().
		Foreground(theme.FaintText).
		Width(width).
		Render(" filter: " + filter.Input)
}

// HighlightMatches renders text with the runes at positions set on the
// match background. Positions must be ascending rune indices.
func HighlightMatches(text string, positions []int, base lipgloss.Style, theme Theme) string {
	if len(positions) == 0 {
		return base.Render(text)
	}
	matchStyle := base.Background(theme.MatchBackground)

	var output strings.Builder
	var run []rune
	inMatch := false
	flush := func() {
		if len(run) == 0 {
			return
		}
		if inMatch {
			output.WriteString(matchStyle.Render(string(run)))
		} else {
			output.WriteString(base.Render(string(run)))
		}
		run = run[:0]
	}

	next := 0
	for index, character := range []rune(text) {
		isMatch := next < len(positions) && positions[next] == index
		if isMatch {
			next++
		}
		if isMatch != inMatch {
			flush()
			inMatch = isMatch
		}
		run = append(run, character)
	}
	flush()
	return output.String()
}
