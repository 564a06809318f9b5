// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mention implements the @-mention engine for the chatkit composer.
package mention

import (
	"sort"

	"github.com/jeranaias/chatkit-tui/internal/model"
)

// =============================================================================
// RANGE TYPE
// =============================================================================

// Range is a half-open rune interval [Start, End) in a text buffer, measured
// in the same coordinate space as caret positions.
type Range struct {
	Start int
	End   int
}

// Caret returns a zero-length range at the given position.
func Caret(pos int) Range {
	return Range{Start: pos, End: pos}
}

// Len returns the number of runes the range covers.
func (r Range) Len() int {
	return r.End - r.Start
}

// Empty reports whether the range covers no runes.
func (r Range) Empty() bool {
	return r.End <= r.Start
}

// Contains reports whether pos falls inside the range (Start <= pos < End).
func (r Range) Contains(pos int) bool {
	return pos >= r.Start && pos < r.End
}

// ContainsRange reports whether o lies entirely within r.
func (r Range) ContainsRange(o Range) bool {
	return o.Start >= r.Start && o.End <= r.End
}

// Overlaps reports whether the two ranges share at least one rune.
// Zero-length ranges never overlap anything.
func (r Range) Overlaps(o Range) bool {
	return r.Start < o.End && o.Start < r.End
}

// Union returns the smallest range covering both r and o.
func (r Range) Union(o Range) Range {
	out := r
	if o.Start < out.Start {
		out.Start = o.Start
	}
	if o.End > out.End {
		out.End = o.End
	}
	return out
}

// =============================================================================
// SPAN INDEX
// =============================================================================

// Span is a confirmed mention: the user it refers to and the rune range its
// display form currently occupies in the buffer.
type Span struct {
	User  model.User
	Range Range
}

// SpanIndex tracks the confirmed mention spans of one compose session.
//
// Spans are kept in insertion order (the order the user mentioned people, not
// necessarily left to right after edits). The geometric invariant holds at
// all times: span ranges are pairwise disjoint.
type SpanIndex struct {
	spans []Span
}

// NewSpanIndex creates an empty index.
func NewSpanIndex() *SpanIndex {
	return &SpanIndex{}
}

// Len returns the number of confirmed spans.
func (x *SpanIndex) Len() int {
	return len(x.spans)
}

// Add appends a confirmed span. Spans overlapping an existing entry are
// rejected so the disjointness invariant cannot be broken from outside.
func (x *SpanIndex) Add(s Span) bool {
	if s.Range.Empty() || !s.User.Valid() {
		return false
	}
	for _, existing := range x.spans {
		if existing.Range.Overlaps(s.Range) {
			return false
		}
	}
	x.spans = append(x.spans, s)
	return true
}

// Spans returns a copy of the spans in insertion order.
func (x *SpanIndex) Spans() []Span {
	out := make([]Span, len(x.spans))
	copy(out, x.spans)
	return out
}

// Sorted returns a copy of the spans ordered by range start.
func (x *SpanIndex) Sorted() []Span {
	out := x.Spans()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Range.Start < out[j].Range.Start
	})
	return out
}

// Users returns the mentioned users in insertion order, deduplicated by id.
func (x *SpanIndex) Users() []model.User {
	seen := make(map[string]bool, len(x.spans))
	var out []model.User
	for _, s := range x.spans {
		if !seen[s.User.ID] {
			seen[s.User.ID] = true
			out = append(out, s.User)
		}
	}
	return out
}

// DistinctUserCount returns the number of distinct mentioned users.
func (x *SpanIndex) DistinctUserCount() int {
	return len(x.Users())
}

// SpanAt returns the span containing the given position, if any.
func (x *SpanIndex) SpanAt(pos int) (Span, bool) {
	for _, s := range x.spans {
		if s.Range.Contains(pos) {
			return s, true
		}
	}
	return Span{}, false
}

// Intersecting returns all spans sharing at least one rune with r, ordered by
// range start.
func (x *SpanIndex) Intersecting(r Range) []Span {
	var out []Span
	for _, s := range x.spans {
		if s.Range.Overlaps(r) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Range.Start < out[j].Range.Start
	})
	return out
}

// ApplyEdit records a buffer edit that replaced the range edited with
// insertedLen runes. Spans after the edit shift by the length delta; spans
// overlapping the edited range are invalidated, removed, and returned. A
// zero-length edit strictly inside a span also invalidates that span - the
// Manager vetoes such edits, so hitting that path means the host applied one
// anyway and the span can no longer be trusted.
func (x *SpanIndex) ApplyEdit(edited Range, insertedLen int) []Span {
	delta := insertedLen - edited.Len()

	var removed []Span
	kept := x.spans[:0]
	for _, s := range x.spans {
		switch {
		case s.Range.Overlaps(edited),
			edited.Empty() && s.Range.Start < edited.Start && edited.Start < s.Range.End:
			removed = append(removed, s)
		case s.Range.Start >= edited.End:
			s.Range.Start += delta
			s.Range.End += delta
			kept = append(kept, s)
		default:
			kept = append(kept, s)
		}
	}
	x.spans = kept
	return removed
}

// Remove deletes the span whose range exactly matches r. Returns the removed
// span, if one matched.
func (x *SpanIndex) Remove(r Range) (Span, bool) {
	for i, s := range x.spans {
		if s.Range == r {
			x.spans = append(x.spans[:i], x.spans[i+1:]...)
			return s, true
		}
	}
	return Span{}, false
}

// Reset clears all spans. Called at the end of a compose session.
func (x *SpanIndex) Reset() {
	x.spans = nil
}
