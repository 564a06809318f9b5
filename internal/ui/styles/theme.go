// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the chatkit TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// CHANNEL LIST STYLES
	// ==========================================================================

	ChannelList         lipgloss.Style
	ChannelItem         lipgloss.Style
	ChannelItemSelected lipgloss.Style
	ChannelName         lipgloss.Style
	ChannelMeta         lipgloss.Style
	UnreadBadge         lipgloss.Style

	// ==========================================================================
	// MESSAGE THREAD STYLES
	// ==========================================================================

	ThreadHeader     lipgloss.Style
	OwnMessage       lipgloss.Style
	PeerMessage      lipgloss.Style
	MessageAuthor    lipgloss.Style
	MessageTimestamp lipgloss.Style
	MessageEdited    lipgloss.Style

	// ==========================================================================
	// MENTION TEXT ATTRIBUTES
	// ==========================================================================
	//
	// The two attribute profiles of a compose session. DefaultText covers
	// ordinary composer text; MentionText is applied over confirmed mention
	// spans. MentionSelf highlights incoming messages that mention the
	// current user in the thread view.

	DefaultText lipgloss.Style
	MentionText lipgloss.Style
	MentionSelf lipgloss.Style

	// ==========================================================================
	// COMPOSER STYLES
	// ==========================================================================

	ComposerBox         lipgloss.Style
	ComposerBoxFocused  lipgloss.Style
	ComposerPlaceholder lipgloss.Style
	ComposerCursor      lipgloss.Style
	CharCount           lipgloss.Style
	CharCountWarning    lipgloss.Style
	CharCountDanger     lipgloss.Style

	// ==========================================================================
	// SUGGESTION LIST STYLES
	// ==========================================================================

	SuggestionBox      lipgloss.Style
	SuggestionRow      lipgloss.Style
	SuggestionSelected lipgloss.Style
	SuggestionNickname lipgloss.Style
	SuggestionUserID   lipgloss.Style
	SuggestionPresence lipgloss.Style
	LimitGuide         lipgloss.Style

	// ==========================================================================
	// STATUS AND MISC STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Spinner      lipgloss.Style
	ErrorText    lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	// Application container
	t.App = lipgloss.NewStyle().Background(Surface)
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Channel list
	t.ChannelList = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.ChannelItem = lipgloss.NewStyle().Foreground(TextSecondary)
	t.ChannelItemSelected = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Cyan).
		Bold(true)
	t.ChannelName = lipgloss.NewStyle().Foreground(TextPrimary)
	t.ChannelMeta = lipgloss.NewStyle().Foreground(TextMuted)
	t.UnreadBadge = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Violet).
		Padding(0, 1).
		Bold(true)

	// Message thread
	t.ThreadHeader = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay)
	t.OwnMessage = lipgloss.NewStyle().
		Foreground(OwnMessageFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(OwnMessageBorder).
		PaddingLeft(1)
	t.PeerMessage = lipgloss.NewStyle().
		Foreground(PeerMessageFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(PeerMessageBorder).
		PaddingLeft(1)
	t.MessageAuthor = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.MessageTimestamp = lipgloss.NewStyle().Foreground(TextMuted)
	t.MessageEdited = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	// Mention attribute profiles
	t.DefaultText = lipgloss.NewStyle().Foreground(TextPrimary)
	t.MentionText = lipgloss.NewStyle().
		Foreground(Violet).
		Background(VioletDeep).
		Bold(true)
	t.MentionSelf = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	// Composer
	t.ComposerBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.ComposerBoxFocused = t.ComposerBox.
		BorderForeground(FocusRing)
	t.ComposerPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
	t.ComposerCursor = lipgloss.NewStyle().
		Background(Cyan).
		Foreground(Surface)
	t.CharCount = lipgloss.NewStyle().Foreground(TextMuted)
	t.CharCountWarning = lipgloss.NewStyle().Foreground(Amber)
	t.CharCountDanger = lipgloss.NewStyle().Foreground(Rose).Bold(true)

	// Suggestion list
	t.SuggestionBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(0, 1)
	t.SuggestionRow = lipgloss.NewStyle().Foreground(TextPrimary)
	t.SuggestionSelected = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Cyan).
		Bold(true)
	t.SuggestionNickname = lipgloss.NewStyle().Foreground(TextPrimary)
	t.SuggestionUserID = lipgloss.NewStyle().Foreground(TextSecondary)
	t.SuggestionPresence = lipgloss.NewStyle().Foreground(Emerald)
	t.LimitGuide = lipgloss.NewStyle().
		Foreground(Amber).
		Italic(true)

	// Status and misc
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceBright)
	t.ShortcutKey = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(TextMuted)
	t.Spinner = lipgloss.NewStyle().Foreground(Cyan)
	t.ErrorText = lipgloss.NewStyle().Foreground(Rose)

	return t
}

// SetSize records the current terminal dimensions on the theme.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// Landscape reports whether the terminal is wider than it is tall by a
// comfortable margin. The suggestion list uses a smaller height cap in
// landscape so it cannot swallow the thread view.
func (t *Theme) Landscape() bool {
	return t.Width > 2*t.Height
}
