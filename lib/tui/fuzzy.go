// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyResult is the outcome of matching a pattern against one text.
// Score is zero when the pattern does not match. Positions holds the
// matched rune indices in ascending order, for highlighting.
type FuzzyResult struct {
	Score     int
	Positions []int
}

var initScoring sync.Once

// NewSlab allocates scratch space for repeated [FuzzyMatch] calls.
// A slab must not be shared between goroutines.
func NewSlab() *util.Slab {
	return util.MakeSlab(100*1024, 2048)
}

// FuzzyMatch runs fzf's V2 algorithm. Matching is case-insensitive:
// both sides are lowercased rune by rune before the call, so
// Positions index the runes of text. An empty pattern never
// matches. slab may be nil.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 || text == "" {
		return FuzzyResult{}
	}
	initScoring.Do(func() { algo.Init("default") })
	lowered := make([]rune, len(pattern))
	for i, r := range pattern {
		lowered[i] = unicode.ToLower(r)
	}
	// strings.ToLower can change the rune count ("İ" lowers to two
	// runes); mapping rune by rune keeps positions aligned with text.
	chars := util.ToChars([]byte(strings.Map(unicode.ToLower, text)))
	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, lowered, true, slab)
	if result.Start < 0 || result.Score <= 0 {
		return FuzzyResult{}
	}
	matched := FuzzyResult{Score: result.Score}
	if positions != nil {
		matched.Positions = append([]int(nil), (*positions)...)
		sort.Ints(matched.Positions)
	}
	return matched
}
