// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mention implements the @-mention engine for the chatkit composer.
package mention

import (
	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// EDITOR SURFACE CONTRACT
// =============================================================================

// Editor is the editable text surface the Manager drives. The composer
// component implements it; tests use a plain in-memory fake.
//
// All positions and ranges are rune coordinates into Text().
type Editor interface {
	// Text returns the full buffer contents.
	Text() string

	// SelectedRange returns the current selection; a collapsed selection is
	// the caret position.
	SelectedRange() Range

	// SetSelectedRange moves the selection programmatically. Hosts that
	// observe selection changes must consult Manager.NeedToSkipSelection to
	// avoid feeding the manager's own repositioning back into it.
	SetSelectedRange(Range)

	// ReplaceRange replaces the runes in r with s.
	ReplaceRange(r Range, s string)

	// ApplyStyle applies an attribute profile over a range of the buffer.
	// The manager never inspects styles; it only hands them back over ranges.
	ApplyStyle(r Range, style lipgloss.Style)
}

// Unmentionable is an optional interface an Editor can implement to declare
// that it does not support mentions. Every Manager operation on such an
// editor is a no-op.
type Unmentionable interface {
	SupportsMentions() bool
}

// TextAttributes are the two styling profiles of a compose session: the host
// supplies them, typically from its theme, and rebinds them through
// Manager.Configure after a theme change.
type TextAttributes struct {
	// Default is applied to non-mention text.
	Default lipgloss.Style
	// Mention is applied over each confirmed mention span.
	Mention lipgloss.Style
}

// editorSupported reports whether the manager may operate on ed.
func editorSupported(ed Editor) bool {
	if ed == nil {
		return false
	}
	if u, ok := ed.(Unmentionable); ok && !u.SupportsMentions() {
		return false
	}
	return true
}
