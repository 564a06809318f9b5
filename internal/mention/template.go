// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mention implements the @-mention engine for the chatkit composer.
package mention

import (
	"sort"
	"strings"

	"github.com/jeranaias/chatkit-tui/internal/model"
	"github.com/jeranaias/chatkit-tui/internal/util"
)

// =============================================================================
// TEMPLATE WIRE FORM
// =============================================================================
//
// The template form replaces every mention span with an @{userID}
// placeholder, e.g.
//
//	display:  "hey @Alice Kim, ship it"
//	template: "hey @{u-1742}, ship it"
//
// A user id containing a brace or a line break cannot be represented without
// an escaping scheme the wire format does not define, so such ids are never
// emitted as placeholders; the mention degrades to literal text instead. The
// parser applies the same rule, which keeps user-typed text like "@{not an
// id}" from round-tripping into a phantom mention.

const (
	placeholderPrefix = "@{"
	placeholderSuffix = "}"
)

// TemplatableID reports whether a user id can be embedded in a placeholder.
func TemplatableID(id string) bool {
	if id == "" {
		return false
	}
	return !strings.ContainsAny(id, "{}\n\r")
}

// GenerateTemplate serializes display text plus its mention spans into the
// template wire form.
//
// Spans are consumed in ascending start order regardless of insertion order.
// A span is emitted only when it still matches the live text: its range must
// lie inside the buffer, must not overlap an already-consumed span, and the
// text it covers must equal the user's rendered form. Anything else is a
// data-integrity fault from an untracked edit and is skipped, leaving that
// stretch of text verbatim rather than corrupting the output.
func GenerateTemplate(text string, spans []Span) string {
	if len(spans) == 0 {
		return text
	}

	ordered := make([]Span, len(spans))
	copy(ordered, spans)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Range.Start < ordered[j].Range.Start
	})

	runes := []rune(text)
	var b strings.Builder
	cursor := 0
	for _, s := range ordered {
		r := s.Range
		if r.Start < cursor || r.Empty() || r.End > len(runes) {
			continue // stale or overlapping range
		}
		if !TemplatableID(s.User.ID) {
			continue
		}
		if string(runes[r.Start:r.End]) != renderedMention(s.User) {
			continue // buffer no longer matches this span
		}
		b.WriteString(string(runes[cursor:r.Start]))
		b.WriteString(placeholderPrefix)
		b.WriteString(s.User.ID)
		b.WriteString(placeholderSuffix)
		cursor = r.End
	}
	b.WriteString(string(runes[cursor:]))
	return b.String()
}

// BuildFromTemplate parses a template string and substitutes each placeholder
// with the matching user's rendered mention, returning the display text and
// the freshly computed spans.
//
// Parsing is a single left-to-right pass. A placeholder whose id has no entry
// in users is rendered as literal placeholder text - a missing member is a
// degraded mention, not a failure.
func BuildFromTemplate(template string, users []model.User) (string, []Span) {
	byID := model.UsersByID(users)
	runes := []rune(template)

	var b strings.Builder
	var spans []Span
	out := 0 // rune length of b

	for i := 0; i < len(runes); {
		id, next, ok := parsePlaceholder(runes, i)
		if !ok {
			b.WriteRune(runes[i])
			out++
			i++
			continue
		}
		user, known := byID[id]
		if !known {
			// Defensive fallback: keep the raw placeholder visible.
			literal := string(runes[i:next])
			b.WriteString(literal)
			out += util.RuneLen(literal)
			i = next
			continue
		}
		rendered := renderedMention(user)
		b.WriteString(rendered)
		spans = append(spans, Span{
			User:  user,
			Range: Range{Start: out, End: out + util.RuneLen(rendered)},
		})
		out += util.RuneLen(rendered)
		i = next
	}
	return b.String(), spans
}

// renderedMention is the display form a confirmed mention occupies in the
// buffer.
func renderedMention(u model.User) string {
	return "@" + u.DisplayName()
}

// parsePlaceholder tries to read an @{id} placeholder starting at rune index
// i. Returns the id and the index just past the closing brace.
func parsePlaceholder(runes []rune, i int) (id string, next int, ok bool) {
	if i+1 >= len(runes) || runes[i] != '@' || runes[i+1] != '{' {
		return "", 0, false
	}
	for j := i + 2; j < len(runes); j++ {
		switch runes[j] {
		case '}':
			inner := string(runes[i+2 : j])
			if !TemplatableID(inner) {
				return "", 0, false
			}
			return inner, j + 1, true
		case '{', '\n', '\r':
			// Not a well-formed placeholder; treat as literal text.
			return "", 0, false
		}
	}
	return "", 0, false
}
