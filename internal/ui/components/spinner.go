// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatkit-tui/internal/ui/styles"
)

// =============================================================================
// LOADING SPINNER
// =============================================================================

// Spinner is the small activity indicator used while channel history loads
// or a member search is in flight.
type Spinner struct {
	spinner spinner.Model
	message string
	active  bool
	theme   *styles.Theme
}

// NewSpinner creates an inactive spinner.
func NewSpinner(theme *styles.Theme) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	s.Style = theme.Spinner
	return Spinner{spinner: s, theme: theme}
}

// Start activates the spinner with a status message.
func (s *Spinner) Start(message string) tea.Cmd {
	s.active = true
	s.message = message
	return s.spinner.Tick
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.active = false
}

// Active reports whether the spinner is running.
func (s *Spinner) Active() bool {
	return s.active
}

// Update advances the animation.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.active {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the spinner and its message.
func (s Spinner) View() string {
	if !s.active {
		return ""
	}
	out := s.spinner.View()
	if s.message != "" {
		msgStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
		out += " " + msgStyle.Render(s.message)
	}
	return out
}
