// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/chatkit-tui/internal/model"
	"github.com/jeranaias/chatkit-tui/internal/ui/styles"
	"github.com/jeranaias/chatkit-tui/internal/util"
)

// =============================================================================
// MENTION SUGGESTION POPUP
// =============================================================================

// Row caps for the popup. Wide-and-short terminals get fewer rows so the
// popup never eats the thread view.
const (
	portraitMaxRows  = 6
	landscapeMaxRows = 3
)

// SuggestionList is the popup shown above the composer while a mention
// trigger is active. It only displays what it is given: filtering, ordering
// and staleness are the mention manager's job.
type SuggestionList struct {
	users    []model.User
	keyword  string
	selected int

	limit      int  // display cap, not the mention cap
	limitGuide bool // mention cap reached: render a single guide row

	visible bool
	width   int

	// Top-left cell of the last rendered popup, for hit testing.
	originX int
	originY int

	theme *styles.Theme
}

// NewSuggestionList creates a hidden suggestion popup.
func NewSuggestionList(theme *styles.Theme) *SuggestionList {
	return &SuggestionList{
		limit: 15,
		width: 40,
		theme: theme,
	}
}

// SetWidth sets the popup width.
func (s *SuggestionList) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	s.width = width
}

// SetLimit sets the display cap. When more candidates arrive than fit, the
// list keeps limit-1 of them so the cut is visible to the user.
func (s *SuggestionList) SetLimit(limit int) {
	if limit < 1 {
		limit = 1
	}
	s.limit = limit
}

// SetOrigin records where the popup was placed on screen. The chat model
// calls this after layout so MouseInside can answer hit tests.
func (s *SuggestionList) SetOrigin(x, y int) {
	s.originX = x
	s.originY = y
}

// Show replaces the displayed candidates and makes the popup visible.
// Selection resets to the top row unless the keyword only got narrower and
// the previously selected user survived the update.
func (s *SuggestionList) Show(users []model.User, keyword string) {
	prev := s.selectedUser()
	prevKeyword := s.keyword

	s.users = trimForDisplay(users, s.limit)
	s.keyword = keyword
	s.limitGuide = false
	s.visible = len(s.users) > 0

	s.selected = 0
	if prev.ID != "" && strings.HasPrefix(keyword, prevKeyword) {
		for i, u := range s.users {
			if u.ID == prev.ID {
				s.selected = i
				break
			}
		}
	}
}

// ShowLimitGuide switches the popup to a single informational row telling
// the user the mention cap has been reached.
func (s *SuggestionList) ShowLimitGuide() {
	s.users = nil
	s.selected = 0
	s.limitGuide = true
	s.visible = true
}

// Dismiss hides the popup. Safe to call repeatedly.
func (s *SuggestionList) Dismiss() {
	s.users = nil
	s.keyword = ""
	s.selected = 0
	s.limitGuide = false
	s.visible = false
}

// Visible reports whether the popup is on screen.
func (s *SuggestionList) Visible() bool {
	return s.visible
}

// Len returns the number of candidate rows.
func (s *SuggestionList) Len() int {
	return len(s.users)
}

// Next moves the selection down, wrapping at the bottom.
func (s *SuggestionList) Next() {
	if len(s.users) == 0 {
		return
	}
	s.selected = (s.selected + 1) % len(s.users)
}

// Prev moves the selection up, wrapping at the top.
func (s *SuggestionList) Prev() {
	if len(s.users) == 0 {
		return
	}
	s.selected--
	if s.selected < 0 {
		s.selected = len(s.users) - 1
	}
}

// Select moves the selection to row i. Out-of-range rows are ignored.
func (s *SuggestionList) Select(i int) {
	if i < 0 || i >= len(s.users) {
		return
	}
	s.selected = i
}

// Selected returns the highlighted candidate.
func (s *SuggestionList) Selected() (model.User, bool) {
	if !s.visible || s.limitGuide || s.selected >= len(s.users) {
		return model.User{}, false
	}
	return s.users[s.selected], true
}

func (s *SuggestionList) selectedUser() model.User {
	if s.selected < len(s.users) {
		return s.users[s.selected]
	}
	return model.User{}
}

// Height returns the number of terminal rows the rendered popup occupies,
// including its border. The chat model subtracts this from the thread
// viewport while the popup is up.
func (s *SuggestionList) Height() int {
	if !s.visible {
		return 0
	}
	return s.visibleRows() + 2 // border top + bottom
}

// MouseInside reports whether a click at (x, y) landed inside the rendered
// popup. Clicks outside dismiss the suggestion session.
func (s *SuggestionList) MouseInside(x, y int) bool {
	if !s.visible {
		return false
	}
	return x >= s.originX && x < s.originX+s.width &&
		y >= s.originY && y < s.originY+s.Height()
}

// RowAt maps a click at (x, y) to a candidate row index, or -1.
func (s *SuggestionList) RowAt(x, y int) int {
	if !s.MouseInside(x, y) || s.limitGuide {
		return -1
	}
	row := y - s.originY - 1 // skip top border
	start := s.windowStart()
	idx := start + row
	if row < 0 || idx >= len(s.users) {
		return -1
	}
	return idx
}

// View renders the popup box.
func (s *SuggestionList) View() string {
	if !s.visible {
		return ""
	}

	if s.limitGuide {
		guide := s.theme.LimitGuide.
			Width(s.width - 4).
			Render("Mention limit reached")
		return s.theme.SuggestionBox.Width(s.width - 2).Render(guide)
	}

	start := s.windowStart()
	end := start + s.visibleRows()
	if end > len(s.users) {
		end = len(s.users)
	}

	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, s.renderRow(s.users[i], i == s.selected))
	}

	content := strings.Join(rows, "\n")
	return s.theme.SuggestionBox.Width(s.width - 2).Render(content)
}

// visibleRows returns the row count after the orientation clamp.
func (s *SuggestionList) visibleRows() int {
	if s.limitGuide {
		return 1
	}
	max := portraitMaxRows
	if s.theme.Landscape() {
		max = landscapeMaxRows
	}
	if len(s.users) < max {
		return len(s.users)
	}
	return max
}

// windowStart returns the first visible row, keeping the selection inside
// the scroll window.
func (s *SuggestionList) windowStart() int {
	rows := s.visibleRows()
	if len(s.users) <= rows {
		return 0
	}
	start := s.selected - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > len(s.users) {
		start = len(s.users) - rows
	}
	return start
}

func (s *SuggestionList) renderRow(u model.User, isSelected bool) string {
	rowWidth := s.width - 4 // box border + padding

	indicator := " "
	nickStyle := s.theme.SuggestionNickname
	idStyle := s.theme.SuggestionUserID
	if isSelected {
		indicator = ">"
		nickStyle = s.theme.SuggestionSelected
		idStyle = s.theme.SuggestionSelected
	}

	presence := " "
	if u.IsOnline {
		presence = s.theme.SuggestionPresence.Render("*")
	}

	nick := util.TruncateWidth(u.DisplayName(), rowWidth/2)
	id := ""
	if u.Nickname != "" {
		id = util.TruncateWidth(u.ID, rowWidth-util.StringWidth(nick)-5)
	}

	line := indicator + " " + nickStyle.Render(nick)
	if id != "" {
		line += " " + idStyle.Render(id)
	}
	line += " " + presence

	// lipgloss measures printable width, so styled cells pad correctly.
	return s.theme.SuggestionRow.Width(rowWidth).Render(line)
}

// trimForDisplay applies the trailing-trim policy: when candidates exceed
// the cap, keep cap-1 so the truncation is apparent.
func trimForDisplay(users []model.User, limit int) []model.User {
	if len(users) <= limit {
		out := make([]model.User, len(users))
		copy(out, users)
		return out
	}
	keep := limit - 1
	if keep < 1 {
		keep = 1
	}
	out := make([]model.User, keep)
	copy(out, users[:keep])
	return out
}
