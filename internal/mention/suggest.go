// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mention implements the @-mention engine for the chatkit composer.
package mention

import (
	"strings"

	"github.com/jeranaias/chatkit-tui/internal/model"
	"github.com/jeranaias/chatkit-tui/internal/util"
)

// =============================================================================
// CANDIDATE LIST POLICY
// =============================================================================

// FilterCandidates keeps the users whose display name or id matches the
// keyword. Both sides are folded with util.Fold, so "jose" keeps "José". An
// empty keyword matches everyone. Name prefixes rank before mid-name matches,
// which rank before scattered in-order matches; within a band the provider's
// order is preserved. The scattered band accepts everything the directory's
// fuzzy matcher accepts, so a delivered candidate is never dropped here.
func FilterCandidates(users []model.User, keyword string) []model.User {
	if keyword == "" {
		out := make([]model.User, len(users))
		copy(out, users)
		return out
	}

	needle := util.Fold(keyword)
	var prefix, contains, scattered []model.User
	for _, u := range users {
		name := util.Fold(u.DisplayName())
		id := util.Fold(u.ID)
		switch {
		case strings.HasPrefix(name, needle) || strings.HasPrefix(id, needle):
			prefix = append(prefix, u)
		case strings.Contains(name, needle) || strings.Contains(id, needle):
			contains = append(contains, u)
		case inOrder(name, needle) || inOrder(id, needle):
			scattered = append(scattered, u)
		}
	}
	out := append(prefix, contains...)
	return append(out, scattered...)
}

// inOrder reports whether every rune of needle appears in s in order, not
// necessarily adjacent. Both arguments are already folded.
func inOrder(s, needle string) bool {
	rs := []rune(s)
	pos := 0
	for _, r := range []rune(needle) {
		for pos < len(rs) && rs[pos] != r {
			pos++
		}
		if pos >= len(rs) {
			return false
		}
		pos++
	}
	return true
}

// ExcludeUser drops the user with the given id; the composing user never
// suggests themselves.
func ExcludeUser(users []model.User, id string) []model.User {
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if u.ID != id {
			out = append(out, u)
		}
	}
	return out
}

// TrimCandidates applies the presenter's buffer-trim policy: when the list
// exceeds the limit, the overflow plus the last in-limit entry are dropped,
// signalling "more than fits" without a hard error.
func TrimCandidates(users []model.User, limit int) []model.User {
	if limit <= 0 || len(users) <= limit {
		return users
	}
	if limit == 1 {
		return users[:1]
	}
	return users[:limit-1]
}
