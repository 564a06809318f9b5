// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatkit-tui/internal/mention"
	"github.com/jeranaias/chatkit-tui/internal/ui/styles"
	"github.com/jeranaias/chatkit-tui/internal/util"
)

// =============================================================================
// MESSAGE COMPOSER
// =============================================================================

// Composer is the message input box. It keeps its buffer as runes so every
// position it reports is a rune offset, which is what the mention engine
// operates on. It satisfies mention.Editor.
//
// The composer applies edits unconditionally; the chat model gates typed
// input through the mention manager before calling ReplaceRange.
type Composer struct {
	runes  []rune
	sel    mention.Range
	styled []styledRange

	placeholder string
	maxChars    int
	width       int
	focused     bool

	theme *styles.Theme
}

// styledRange is a run of the buffer rendered with a non-default style.
type styledRange struct {
	r     mention.Range
	style lipgloss.Style
}

// NewComposer creates an empty, unfocused composer.
func NewComposer(theme *styles.Theme) *Composer {
	return &Composer{
		placeholder: "Message (@ to mention)",
		maxChars:    4096,
		width:       80,
		theme:       theme,
	}
}

// ==========================================================================
// MENTION EDITOR SURFACE
// ==========================================================================

// Text returns the buffer contents.
func (c *Composer) Text() string {
	return string(c.runes)
}

// SelectedRange returns the selection; an empty range is the caret.
func (c *Composer) SelectedRange() mention.Range {
	return c.sel
}

// SetSelectedRange moves the selection, clamped to the buffer.
func (c *Composer) SetSelectedRange(r mention.Range) {
	c.sel = c.clamp(r)
}

// ReplaceRange splices text into the buffer. Styled runs overlapping the
// edit are dropped; runs past it shift by the length delta. The caret lands
// after the inserted text.
func (c *Composer) ReplaceRange(r mention.Range, text string) {
	r = c.clamp(r)
	ins := []rune(text)
	delta := len(ins) - r.Len()

	out := make([]rune, 0, len(c.runes)+delta)
	out = append(out, c.runes[:r.Start]...)
	out = append(out, ins...)
	out = append(out, c.runes[r.End:]...)
	c.runes = out

	kept := c.styled[:0]
	for _, sr := range c.styled {
		switch {
		case sr.r.Overlaps(r), r.Empty() && sr.r.Contains(r.Start) && r.Start > sr.r.Start:
			// dropped
		case sr.r.Start >= r.End:
			sr.r.Start += delta
			sr.r.End += delta
			kept = append(kept, sr)
		default:
			kept = append(kept, sr)
		}
	}
	c.styled = kept

	c.sel = mention.Caret(r.Start + len(ins))
}

// ApplyStyle styles a run of the buffer. The new run wins over whatever it
// overlaps: existing runs are clipped around it.
func (c *Composer) ApplyStyle(r mention.Range, style lipgloss.Style) {
	r = c.clamp(r)
	if r.Empty() {
		return
	}

	next := make([]styledRange, 0, len(c.styled)+1)
	for _, sr := range c.styled {
		if !sr.r.Overlaps(r) {
			next = append(next, sr)
			continue
		}
		if sr.r.Start < r.Start {
			next = append(next, styledRange{mention.Range{Start: sr.r.Start, End: r.Start}, sr.style})
		}
		if sr.r.End > r.End {
			next = append(next, styledRange{mention.Range{Start: r.End, End: sr.r.End}, sr.style})
		}
	}
	next = append(next, styledRange{r, style})
	c.styled = next
}

func (c *Composer) clamp(r mention.Range) mention.Range {
	n := len(c.runes)
	if r.Start < 0 {
		r.Start = 0
	}
	if r.Start > n {
		r.Start = n
	}
	if r.End < r.Start {
		r.End = r.Start
	}
	if r.End > n {
		r.End = n
	}
	return r
}

// ==========================================================================
// CURSOR AND BUFFER OPERATIONS
// ==========================================================================

// RuneLen returns the buffer length in runes.
func (c *Composer) RuneLen() int {
	return len(c.runes)
}

// AtLimit reports whether the buffer has reached the character cap.
func (c *Composer) AtLimit() bool {
	return len(c.runes) >= c.maxChars
}

// CursorLeft moves the caret one rune left, collapsing any selection.
func (c *Composer) CursorLeft() {
	if !c.sel.Empty() {
		c.sel = mention.Caret(c.sel.Start)
		return
	}
	if c.sel.Start > 0 {
		c.sel = mention.Caret(c.sel.Start - 1)
	}
}

// CursorRight moves the caret one rune right, collapsing any selection.
func (c *Composer) CursorRight() {
	if !c.sel.Empty() {
		c.sel = mention.Caret(c.sel.End)
		return
	}
	if c.sel.Start < len(c.runes) {
		c.sel = mention.Caret(c.sel.Start + 1)
	}
}

// CursorHome moves the caret to the start of the buffer.
func (c *Composer) CursorHome() {
	c.sel = mention.Caret(0)
}

// CursorEnd moves the caret to the end of the buffer.
func (c *Composer) CursorEnd() {
	c.sel = mention.Caret(len(c.runes))
}

// DeleteEdit returns the range a backspace at the current selection would
// remove. The bool is false when there is nothing to delete.
func (c *Composer) DeleteEdit() (mention.Range, bool) {
	if !c.sel.Empty() {
		return c.sel, true
	}
	if c.sel.Start == 0 {
		return mention.Range{}, false
	}
	return mention.Range{Start: c.sel.Start - 1, End: c.sel.Start}, true
}

// Reset clears the buffer, selection and styling.
func (c *Composer) Reset() {
	c.runes = nil
	c.sel = mention.Caret(0)
	c.styled = nil
}

// ==========================================================================
// VIEW STATE
// ==========================================================================

// Focus marks the composer active.
func (c *Composer) Focus() {
	c.focused = true
}

// Blur marks the composer inactive.
func (c *Composer) Blur() {
	c.focused = false
}

// Focused reports the focus state.
func (c *Composer) Focused() bool {
	return c.focused
}

// SetWidth sets the rendered width.
func (c *Composer) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	c.width = width
}

// SetMaxChars sets the character cap enforced by the chat model.
func (c *Composer) SetMaxChars(max int) {
	if max < 1 {
		max = 1
	}
	c.maxChars = max
}

// SetPlaceholder sets the empty-buffer hint text.
func (c *Composer) SetPlaceholder(p string) {
	c.placeholder = p
}

// View renders the composer box with styled mention spans, the cursor and
// the character counter.
func (c *Composer) View() string {
	content := c.renderBuffer()

	box := c.theme.ComposerBox
	if c.focused {
		box = c.theme.ComposerBoxFocused
	}
	input := box.Width(c.width - 2).Render(content)

	counter := lipgloss.NewStyle().
		Width(c.width - 4).
		Align(lipgloss.Right).
		Render(c.renderCharCounter())

	return lipgloss.JoinVertical(lipgloss.Left, input, counter)
}

// renderBuffer renders the rune buffer grouping consecutive runes that share
// a style, inserting the cursor cell when focused.
func (c *Composer) renderBuffer() string {
	if len(c.runes) == 0 {
		if c.focused {
			return c.theme.ComposerCursor.Render(" ")
		}
		return c.theme.ComposerPlaceholder.Render(c.placeholder)
	}

	var b strings.Builder
	cursor := -1
	if c.focused {
		cursor = c.sel.Start
	}

	run := make([]rune, 0, len(c.runes))
	runStart := 0
	flush := func(end int) {
		if len(run) == 0 {
			return
		}
		b.WriteString(c.styleAt(runStart).Render(string(run)))
		run = run[:0]
		runStart = end
	}

	for i, r := range c.runes {
		if i == cursor {
			flush(i)
			b.WriteString(c.theme.ComposerCursor.Render(string(r)))
			runStart = i + 1
			continue
		}
		if len(run) > 0 && !sameStyleRegion(c.styled, runStart, i) {
			flush(i)
		}
		run = append(run, r)
	}
	flush(len(c.runes))

	if cursor >= len(c.runes) {
		b.WriteString(c.theme.ComposerCursor.Render(" "))
	}

	return b.String()
}

// styleAt returns the style covering a position. Later-applied runs win.
func (c *Composer) styleAt(pos int) lipgloss.Style {
	style := c.theme.DefaultText
	for _, sr := range c.styled {
		if sr.r.Contains(pos) {
			style = sr.style
		}
	}
	return style
}

// sameStyleRegion reports whether two positions fall under the same set of
// styled runs, so they can render as one segment.
func sameStyleRegion(styled []styledRange, a, b int) bool {
	for _, sr := range styled {
		if sr.r.Contains(a) != sr.r.Contains(b) {
			return false
		}
	}
	return true
}

func (c *Composer) renderCharCounter() string {
	count := len(c.runes)
	percent := 0.0
	if c.maxChars > 0 {
		percent = float64(count) / float64(c.maxChars) * 100
	}

	style := c.theme.CharCount
	if percent >= 90 {
		style = c.theme.CharCountDanger
	} else if percent >= 75 {
		style = c.theme.CharCountWarning
	}

	return style.Render(util.IntToString(count) + " / " + util.IntToString(c.maxChars))
}
