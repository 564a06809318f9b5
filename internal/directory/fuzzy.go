// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import (
	"sort"
	"unicode"

	"github.com/jeranaias/chatkit-tui/internal/model"
	"github.com/jeranaias/chatkit-tui/internal/util"
)

// =============================================================================
// KEYWORD FOLDING
// =============================================================================

// Fold lowercases a name and strips diacritics, so "José" matches "jose".
// The mention engine refilters delivered candidates with the same fold.
func Fold(s string) string {
	return util.Fold(s)
}

// =============================================================================
// FUZZY MATCHING
// =============================================================================

// Match scores a keyword against a member name. Every keyword rune must
// appear in order in the name; consecutive runs, word boundaries and a match
// at the head of the name score higher, longer names score slightly lower.
func Match(keyword, name string) (score int, matched bool) {
	if keyword == "" {
		return 0, true
	}

	keyRunes := []rune(Fold(keyword))
	nameRunes := []rune(Fold(name))

	if len(keyRunes) > len(nameRunes) {
		return 0, false
	}

	keyPos := 0
	lastMatch := -1

	for namePos := 0; namePos < len(nameRunes) && keyPos < len(keyRunes); namePos++ {
		if nameRunes[namePos] != keyRunes[keyPos] {
			continue
		}

		matchScore := 1
		if lastMatch == namePos-1 {
			matchScore += 5
		}
		if namePos == 0 {
			matchScore += 10
		}
		if isWordBoundary(nameRunes, namePos) {
			matchScore += 7
		}

		score += matchScore
		lastMatch = namePos
		keyPos++
	}

	matched = keyPos == len(keyRunes)
	if matched {
		score -= len(nameRunes) / 4
	}
	return score, matched
}

// isWordBoundary reports whether the rune at pos starts a word: the head of
// the name, after a separator, or a camelCase step.
func isWordBoundary(rs []rune, pos int) bool {
	if pos == 0 {
		return true
	}
	if pos >= len(rs) {
		return false
	}
	prev := rs[pos-1]
	if prev == ' ' || prev == '.' || prev == '-' || prev == '_' {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(rs[pos])
}

// =============================================================================
// MEMBER RANKING
// =============================================================================

// rankedMember pairs a member with its best score across nickname and ID.
type rankedMember struct {
	user  model.User
	score int
	order int
}

// Rank filters members against a keyword and orders them best match first.
// A member matches when either the display name or the ID matches; ties keep
// source order.
func Rank(members []model.User, keyword string) []model.User {
	if keyword == "" {
		out := make([]model.User, len(members))
		copy(out, members)
		return out
	}

	var ranked []rankedMember
	for i, u := range members {
		best := -1
		if score, ok := Match(keyword, u.DisplayName()); ok {
			best = score
		}
		if score, ok := Match(keyword, u.ID); ok && score > best {
			best = score
		}
		if best < 0 {
			continue
		}
		ranked = append(ranked, rankedMember{user: u, score: best, order: i})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].order < ranked[j].order
	})

	out := make([]model.User, len(ranked))
	for i, r := range ranked {
		out[i] = r.user
	}
	return out
}
