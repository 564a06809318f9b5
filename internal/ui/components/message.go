// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatkit-tui/internal/mention"
	"github.com/jeranaias/chatkit-tui/internal/model"
	"github.com/jeranaias/chatkit-tui/internal/ui/styles"
	"github.com/jeranaias/chatkit-tui/internal/util"
)

// =============================================================================
// THREAD VIEW - message history rendering
// =============================================================================

// ThreadView renders a channel's message history. Message bodies are stored
// in template form; the view resolves placeholders against each message's
// mentioned-user snapshot before rendering.
type ThreadView struct {
	messages []*model.Message
	viewerID string
	width    int

	markdown *glamour.TermRenderer
	theme    *styles.Theme
}

// NewThreadView creates an empty thread view.
func NewThreadView(theme *styles.Theme, viewerID string) *ThreadView {
	t := &ThreadView{
		viewerID: viewerID,
		width:    80,
		theme:    theme,
	}
	t.rebuildRenderer()
	return t
}

// SetMessages replaces the displayed history.
func (t *ThreadView) SetMessages(messages []*model.Message) {
	t.messages = messages
}

// Append adds a message to the end of the history.
func (t *ThreadView) Append(msg *model.Message) {
	t.messages = append(t.messages, msg)
}

// SetWidth sets the render width and rebuilds the markdown renderer to
// match.
func (t *ThreadView) SetWidth(width int) {
	if width < 30 {
		width = 30
	}
	if width == t.width {
		return
	}
	t.width = width
	t.rebuildRenderer()
}

func (t *ThreadView) rebuildRenderer() {
	wrap := t.width - 12
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err == nil {
		t.markdown = r
	}
}

// View renders the full history.
func (t *ThreadView) View() string {
	if len(t.messages) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Width(t.width).
			Align(lipgloss.Center).
			Padding(2, 0)
		return empty.Render("No messages yet")
	}

	bubbles := make([]string, 0, len(t.messages))
	for _, msg := range t.messages {
		bubbles = append(bubbles, t.renderMessage(msg))
	}
	return strings.Join(bubbles, "\n\n")
}

func (t *ThreadView) renderMessage(msg *model.Message) string {
	own := msg.Author.ID == t.viewerID

	body := t.renderBody(msg)

	maxBubble := t.width - 8
	if maxBubble < 24 {
		maxBubble = 24
	}

	bubbleStyle := t.theme.PeerMessage
	if own {
		bubbleStyle = t.theme.OwnMessage
	}
	if !own && msg.Mentions(t.viewerID) {
		// Messages that mention the viewer get the highlight border.
		bubbleStyle = bubbleStyle.BorderForeground(styles.Amber)
	}

	bubble := bubbleStyle.MaxWidth(maxBubble).Render(body)

	header := t.renderHeader(msg, own)

	block := lipgloss.JoinVertical(lipgloss.Left, header, bubble)
	if own {
		// Right-align own messages.
		pad := t.width - lipgloss.Width(block) - 2
		if pad > 0 {
			block = lipgloss.NewStyle().MarginLeft(pad).Render(block)
		}
	}
	return block
}

// renderBody resolves the message template and styles it. Bodies without
// mentions go through the markdown renderer; bodies with mentions render as
// styled text so span highlighting survives.
func (t *ThreadView) renderBody(msg *model.Message) string {
	display, spans := mention.BuildFromTemplate(msg.Body, msg.Mentioned)
	if display == "" {
		display = "..."
	}

	if len(spans) == 0 {
		if t.markdown != nil {
			if out, err := t.markdown.Render(display); err == nil {
				return strings.Trim(out, "\n")
			}
		}
		return display
	}

	return t.styleMentions(display, spans)
}

// styleMentions renders display text with each mention span styled. A span
// naming the viewer gets the self-mention profile.
func (t *ThreadView) styleMentions(display string, spans []mention.Span) string {
	runes := []rune(display)
	var b strings.Builder
	pos := 0
	for _, s := range spans {
		if s.Range.Start > pos {
			b.WriteString(t.theme.DefaultText.Render(string(runes[pos:s.Range.Start])))
		}
		style := t.theme.MentionText
		if s.User.ID == t.viewerID {
			style = t.theme.MentionSelf
		}
		b.WriteString(style.Render(string(runes[s.Range.Start:s.Range.End])))
		pos = s.Range.End
	}
	if pos < len(runes) {
		b.WriteString(t.theme.DefaultText.Render(string(runes[pos:])))
	}
	return b.String()
}

func (t *ThreadView) renderHeader(msg *model.Message, own bool) string {
	author := msg.Author.DisplayName()
	if own {
		author = "you"
	}

	parts := []string{t.theme.MessageAuthor.Render(author)}
	if ts := renderTimestamp(msg.CreatedAt); ts != "" {
		parts = append(parts, t.theme.MessageTimestamp.Render(ts))
	}
	if msg.Edited {
		parts = append(parts, t.theme.MessageEdited.Render("(edited)"))
	}
	return strings.Join(parts, " ")
}

// ==========================================================================
// TIMESTAMP FORMATTING
// ==========================================================================

// renderTimestamp formats a message time: clock only for today, date and
// clock otherwise.
func renderTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	now := time.Now()
	if ts.Year() == now.Year() && ts.YearDay() == now.YearDay() {
		return formatClock(ts)
	}
	return formatDay(ts) + ", " + formatClock(ts)
}

func formatClock(t time.Time) string {
	hour := t.Hour()
	minute := t.Minute()
	ampm := "AM"
	if hour >= 12 {
		ampm = "PM"
		if hour > 12 {
			hour -= 12
		}
	}
	if hour == 0 {
		hour = 12
	}
	minuteStr := util.IntToString(minute)
	if minute < 10 {
		minuteStr = "0" + minuteStr
	}
	return util.IntToString(hour) + ":" + minuteStr + " " + ampm
}

func formatDay(t time.Time) string {
	months := []string{
		"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
	}
	return months[t.Month()-1] + " " + util.IntToString(t.Day())
}
