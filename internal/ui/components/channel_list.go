// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatkit-tui/internal/model"
	"github.com/jeranaias/chatkit-tui/internal/ui/styles"
	"github.com/jeranaias/chatkit-tui/internal/util"
)

// =============================================================================
// CHANNEL LIST
// =============================================================================

// ChannelList is the channel sidebar: a filter box over the channel roster
// with unread badges.
type ChannelList struct {
	channels []*model.Channel
	filtered []*model.Channel
	selected int

	filter    textinput.Model
	filtering bool

	width  int
	height int
	theme  *styles.Theme
}

// NewChannelList creates an empty channel list.
func NewChannelList(theme *styles.Theme) *ChannelList {
	ti := textinput.New()
	ti.Placeholder = "Filter channels"
	ti.CharLimit = 64
	ti.Prompt = "/ "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.TextPrimary)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)

	return &ChannelList{
		filter: ti,
		width:  30,
		height: 20,
		theme:  theme,
	}
}

// SetChannels replaces the roster and reapplies the filter.
func (l *ChannelList) SetChannels(channels []*model.Channel) {
	l.channels = channels
	l.applyFilter()
}

// SetSize sets the rendered dimensions.
func (l *ChannelList) SetSize(width, height int) {
	l.width = width
	l.height = height
	inputWidth := width - 6
	if inputWidth < 10 {
		inputWidth = 10
	}
	l.filter.Width = inputWidth
}

// Selected returns the highlighted channel.
func (l *ChannelList) Selected() (*model.Channel, bool) {
	if l.selected >= len(l.filtered) {
		return nil, false
	}
	return l.filtered[l.selected], true
}

// Next moves the selection down, wrapping.
func (l *ChannelList) Next() {
	if len(l.filtered) == 0 {
		return
	}
	l.selected = (l.selected + 1) % len(l.filtered)
}

// Prev moves the selection up, wrapping.
func (l *ChannelList) Prev() {
	if len(l.filtered) == 0 {
		return
	}
	l.selected--
	if l.selected < 0 {
		l.selected = len(l.filtered) - 1
	}
}

// StartFilter focuses the filter box.
func (l *ChannelList) StartFilter() tea.Cmd {
	l.filtering = true
	return l.filter.Focus()
}

// StopFilter blurs the filter box, keeping the current filter text.
func (l *ChannelList) StopFilter() {
	l.filtering = false
	l.filter.Blur()
}

// ClearFilter blurs and resets the filter box.
func (l *ChannelList) ClearFilter() {
	l.filtering = false
	l.filter.Blur()
	l.filter.Reset()
	l.applyFilter()
}

// Filtering reports whether the filter box has focus.
func (l *ChannelList) Filtering() bool {
	return l.filtering
}

// Update routes input to the filter box while it is focused.
func (l *ChannelList) Update(msg tea.Msg) tea.Cmd {
	if !l.filtering {
		return nil
	}
	var cmd tea.Cmd
	l.filter, cmd = l.filter.Update(msg)
	l.applyFilter()
	return cmd
}

// applyFilter recomputes the visible channels, keeping the selection on the
// same channel where possible.
func (l *ChannelList) applyFilter() {
	var prevID string
	if ch, ok := l.Selected(); ok {
		prevID = ch.ID
	}

	query := strings.ToLower(strings.TrimSpace(l.filter.Value()))
	if query == "" {
		l.filtered = l.channels
	} else {
		l.filtered = make([]*model.Channel, 0, len(l.channels))
		for _, ch := range l.channels {
			if strings.Contains(strings.ToLower(ch.Name), query) {
				l.filtered = append(l.filtered, ch)
			}
		}
	}

	l.selected = 0
	for i, ch := range l.filtered {
		if ch.ID == prevID {
			l.selected = i
			break
		}
	}
}

// View renders the sidebar.
func (l *ChannelList) View() string {
	var rows []string

	if l.filtering || l.filter.Value() != "" {
		rows = append(rows, l.filter.View())
	}

	maxRows := l.height - len(rows) - 2
	if maxRows < 1 {
		maxRows = 1
	}

	start := 0
	if l.selected >= maxRows {
		start = l.selected - maxRows + 1
	}
	end := start + maxRows
	if end > len(l.filtered) {
		end = len(l.filtered)
	}

	for i := start; i < end; i++ {
		rows = append(rows, l.renderChannel(l.filtered[i], i == l.selected))
	}

	if len(l.filtered) == 0 {
		empty := lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)
		rows = append(rows, empty.Render("no channels"))
	}

	content := strings.Join(rows, "\n")
	return l.theme.ChannelList.Width(l.width - 2).Height(l.height - 2).Render(content)
}

func (l *ChannelList) renderChannel(ch *model.Channel, isSelected bool) string {
	rowWidth := l.width - 4

	itemStyle := l.theme.ChannelItem
	if isSelected {
		itemStyle = l.theme.ChannelItemSelected
	}

	badge := ""
	if ch.UnreadCount > 0 {
		label := util.IntToString(ch.UnreadCount)
		if ch.UnreadCount > 99 {
			label = "99+"
		}
		badge = " " + l.theme.UnreadBadge.Render(label)
	}

	nameWidth := rowWidth - lipgloss.Width(badge) - 2
	if nameWidth < 4 {
		nameWidth = 4
	}
	name := l.theme.ChannelName.Render(util.TruncateWidth("#"+ch.Name, nameWidth))

	return itemStyle.Width(rowWidth).Render(name + badge)
}
