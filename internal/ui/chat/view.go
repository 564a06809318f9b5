// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
// Layout: channel list on the left; thread, suggestion popup, composer, and
// status bar stacked on the right. The popup sits directly above the
// composer and shrinks the thread while visible.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	left := m.channels.View()

	composerView := m.composer.View()
	statusView := m.renderStatusBar()

	popupView := ""
	popupHeight := 0
	if m.suggestions.Visible() {
		popupView = m.suggestions.View()
		popupHeight = m.suggestions.Height()
	}

	threadHeight := m.height -
		lipgloss.Height(composerView) -
		lipgloss.Height(statusView) -
		popupHeight
	if threadHeight < 1 {
		threadHeight = 1
	}

	// Anchor the popup's hit region for mouse handling: it starts where the
	// thread ends, just right of the channel panel.
	m.suggestions.SetOrigin(channelPanelWidth+1, threadHeight)

	threadView := m.renderThread(threadHeight)

	rightParts := []string{threadView}
	if popupView != "" {
		rightParts = append(rightParts, popupView)
	}
	rightParts = append(rightParts, composerView, statusView)
	right := lipgloss.JoinVertical(lipgloss.Left, rightParts...)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

// renderThread renders the message thread clipped to the last height lines,
// so the newest messages stay pinned above the composer.
func (m *Model) renderThread(height int) string {
	if m.spinner.Active() {
		return m.padToHeight(m.spinner.View(), height)
	}
	return m.padToHeight(tailLines(m.thread.View(), height), height)
}

func (m *Model) padToHeight(s string, height int) string {
	lines := lipgloss.Height(s)
	if lines >= height {
		return s
	}
	return strings.Repeat("\n", height-lines) + s
}

// tailLines keeps the last n lines of s.
func tailLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}

// =============================================================================
// STATUS BAR
// =============================================================================

func (m *Model) renderStatusBar() string {
	var parts []string

	if m.lastErr != nil {
		parts = append(parts, m.theme.ErrorText.Render(m.lastErr.Error()))
	} else if m.EditingMessage() {
		parts = append(parts, m.theme.ShortcutDesc.Render("editing"),
			m.theme.ShortcutKey.Render("Esc"), m.theme.ShortcutDesc.Render("cancel"))
	} else if m.status != "" {
		parts = append(parts, m.theme.ShortcutDesc.Render(m.status))
	}

	parts = append(parts,
		m.theme.ShortcutKey.Render("Tab"), m.theme.ShortcutDesc.Render("panel"),
		m.theme.ShortcutKey.Render("@"), m.theme.ShortcutDesc.Render("mention"),
		m.theme.ShortcutKey.Render("C-e"), m.theme.ShortcutDesc.Render("edit"),
		m.theme.ShortcutKey.Render("C-c"), m.theme.ShortcutDesc.Render("quit"),
	)

	bar := strings.Join(parts, " ")
	return m.theme.StatusBar.Width(m.width - channelPanelWidth - 1).Render(bar)
}
