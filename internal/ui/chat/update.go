// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatkit-tui/internal/mention"
	"github.com/jeranaias/chatkit-tui/internal/model"
	"github.com/jeranaias/chatkit-tui/internal/session"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case session.TickMsg:
		return m, m.autosave.HandleTick()

	case SuggestionsFetchedMsg:
		// The deliver closure runs the manager's stale-check and, when the
		// result is still live, presents it through the delegate.
		msg.Deliver()
		return m, m.drainFetches()

	case ChannelsLoadedMsg:
		if msg.Err != nil {
			m.lastErr = msg.Err
			return m, nil
		}
		m.channels.SetChannels(msg.Channels)
		if m.activeChannel == nil && len(msg.Channels) > 0 {
			return m, m.openChannel(msg.Channels[0])
		}
		return m, nil

	case ThreadLoadedMsg:
		m.spinner.Stop()
		if msg.Err != nil {
			m.lastErr = msg.Err
			return m, nil
		}
		if m.activeChannel == nil || m.activeChannel.ID != msg.ChannelID {
			return m, nil // switched away while loading
		}
		m.messages = msg.Messages
		m.thread.SetMessages(msg.Messages)
		return m, nil

	case MessageSavedMsg:
		if msg.Err != nil {
			m.lastErr = msg.Err
		}
		return m, nil

	case ConfigReloadedMsg:
		m.applyConfig(msg.Config)
		return m, nil

	case ErrorMsg:
		m.lastErr = msg.Err
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keyMap.Quit) {
		m.autosave.Flush()
		return tea.Quit
	}

	// The popup swallows navigation keys while visible.
	if m.suggestions.Visible() {
		if cmd, handled := m.handleSuggestionKey(msg); handled {
			return cmd
		}
	}

	if key.Matches(msg, m.keyMap.SwitchFocus) && !m.channels.Filtering() {
		if m.focus == FocusComposer {
			m.focus = FocusChannels
			m.composer.Blur()
		} else {
			m.focus = FocusComposer
			m.composer.Focus()
		}
		return nil
	}

	if m.focus == FocusChannels {
		return m.handleChannelKey(msg)
	}
	return m.handleComposerKey(msg)
}

// handleSuggestionKey routes keys to the visible suggestion popup. The second
// return value is false when the key is not a popup key and should fall
// through to the composer.
func (m *Model) handleSuggestionKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keyMap.Up):
		m.suggestions.Prev()
		return nil, true

	case key.Matches(msg, m.keyMap.Down):
		m.suggestions.Next()
		return nil, true

	case key.Matches(msg, m.keyMap.Cancel):
		m.suggestions.Dismiss()
		return nil, true

	case key.Matches(msg, m.keyMap.Submit), msg.String() == "tab":
		user, ok := m.suggestions.Selected()
		if !ok {
			// Limit guide row: nothing to accept, just dismiss.
			m.suggestions.Dismiss()
			return nil, true
		}
		m.mentions.AddMention(m.composer, user)
		m.autosave.MarkDirty()
		return nil, true
	}
	return nil, false
}

func (m *Model) handleChannelKey(msg tea.KeyMsg) tea.Cmd {
	if m.channels.Filtering() {
		if key.Matches(msg, m.keyMap.Cancel) {
			m.channels.StopFilter()
			return nil
		}
		if key.Matches(msg, m.keyMap.Submit) {
			m.channels.StopFilter()
			if ch, ok := m.channels.Selected(); ok {
				return m.openChannel(ch)
			}
			return nil
		}
		return m.channels.Update(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Up):
		m.channels.Prev()
	case key.Matches(msg, m.keyMap.Down):
		m.channels.Next()
	case key.Matches(msg, m.keyMap.Filter):
		return m.channels.StartFilter()
	case key.Matches(msg, m.keyMap.Submit):
		if ch, ok := m.channels.Selected(); ok {
			m.focus = FocusComposer
			m.composer.Focus()
			return m.openChannel(ch)
		}
	}
	return nil
}

func (m *Model) handleComposerKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.Cancel):
		if m.editingMsg != nil {
			m.cancelEdit()
		}
		return nil

	case key.Matches(msg, m.keyMap.EditLast):
		m.editLastOwnMessage()
		return nil
	}

	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		text := string(msg.Runes)
		if msg.Type == tea.KeySpace {
			text = " "
		}
		return m.typeText(text)

	case tea.KeyBackspace:
		return m.deleteBackward()

	case tea.KeyLeft:
		m.composer.CursorLeft()
		return m.afterCaretMove()

	case tea.KeyRight:
		m.composer.CursorRight()
		return m.afterCaretMove()

	case tea.KeyHome:
		m.composer.CursorHome()
		return m.afterCaretMove()

	case tea.KeyEnd:
		m.composer.CursorEnd()
		return m.afterCaretMove()
	}
	return nil
}

// =============================================================================
// COMPOSER EDITS
// =============================================================================

// typeText gates an insertion through the mention manager, applies it, and
// re-runs trigger detection at the new caret.
func (m *Model) typeText(text string) tea.Cmd {
	if m.composer.AtLimit() {
		return nil
	}
	edited := m.composer.SelectedRange()
	if m.mentions.ShouldChangeText(m.composer, edited, text) {
		m.composer.ReplaceRange(edited, text)
	}
	return m.afterEdit()
}

// deleteBackward gates a deletion. When the deletion touches a mention span
// the manager vetoes it and removes the whole token itself.
func (m *Model) deleteBackward() tea.Cmd {
	edited, ok := m.composer.DeleteEdit()
	if !ok {
		return nil
	}
	if m.mentions.ShouldChangeText(m.composer, edited, "") {
		m.composer.ReplaceRange(edited, "")
	}
	return m.afterEdit()
}

func (m *Model) afterEdit() tea.Cmd {
	m.autosave.MarkDirty()
	m.mentions.HandleMentionSuggestion(m.composer, m.composer.SelectedRange())
	return m.drainFetches()
}

func (m *Model) afterCaretMove() tea.Cmd {
	if m.mentions.NeedToSkipSelection(m.composer) {
		return nil
	}
	m.mentions.HandleMentionSuggestion(m.composer, m.composer.SelectedRange())
	return m.drainFetches()
}

// =============================================================================
// MOUSE HANDLING
// =============================================================================

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	if !m.suggestions.Visible() {
		return nil
	}

	if !m.suggestions.MouseInside(msg.X, msg.Y) {
		// Tapping anywhere else dismisses the popup.
		m.suggestions.Dismiss()
		return nil
	}

	row := m.suggestions.RowAt(msg.X, msg.Y)
	if row < 0 {
		return nil // border cell
	}
	m.suggestions.Select(row)
	if user, ok := m.suggestions.Selected(); ok {
		m.mentions.AddMention(m.composer, user)
		m.autosave.MarkDirty()
	}
	return nil
}

// =============================================================================
// CONVERSATION ACTIONS
// =============================================================================

// openChannel flushes the current draft, switches the active channel, and
// loads its thread.
func (m *Model) openChannel(ch *model.Channel) tea.Cmd {
	if m.activeChannel != nil && m.activeChannel.ID == ch.ID {
		return nil
	}

	m.captureDraft()
	m.autosave.Flush()

	m.activeChannel = ch
	m.editingMsg = nil
	m.messages = nil
	m.thread.SetMessages(nil)
	m.composer.Reset()
	m.mentions.Reset()
	m.restoreDraft()

	ch.UnreadCount = 0
	cmds := []tea.Cmd{m.spinner.Start("loading messages"), m.loadThreadCmd(ch.ID)}
	if m.store != nil {
		cmds = append(cmds, m.markReadCmd(ch.ID))
	}
	return tea.Batch(cmds...)
}

// submit sends the composer contents: as an edit when one is in progress,
// otherwise as a new message. The body is persisted in template form.
func (m *Model) submit() tea.Cmd {
	if strings.TrimSpace(m.composer.Text()) == "" {
		return nil
	}
	if m.activeChannel == nil {
		return nil
	}

	template := m.mentions.Template(m.composer)
	mentioned := m.mentions.MentionedUsers()

	var cmd tea.Cmd
	if m.editingMsg != nil {
		edited := m.editingMsg
		m.editingMsg = nil
		edited.ApplyEdit(template, mentioned)
		m.thread.SetMessages(m.messages)
		m.status = "message edited"
		cmd = m.updateMessageCmd(edited)
	} else {
		sent := model.NewMessage(m.activeChannel.ID, m.self, template, mentioned)
		m.messages = append(m.messages, sent)
		m.thread.Append(sent)
		m.activeChannel.LastMessageAt = sent.CreatedAt
		m.status = ""
		cmd = m.saveMessageCmd(sent)
	}

	m.composer.Reset()
	m.mentions.Reset()
	if m.drafts != nil {
		m.drafts.Clear(m.activeChannel.ID)
	}
	return cmd
}

// editLastOwnMessage loads the viewer's most recent message into the
// composer, rebuilding its mention spans from the stored template.
func (m *Model) editLastOwnMessage() {
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].Author.ID != m.self.ID {
			continue
		}
		m.captureDraft() // keep the unsent text; Esc restores it
		m.editingMsg = m.messages[i]
		m.mentions.Reset()
		m.mentions.StartEditing(m.composer, m.messages[i].Body, m.messages[i].Mentioned)
		m.status = "editing message"
		return
	}
}

func (m *Model) cancelEdit() {
	m.editingMsg = nil
	m.composer.Reset()
	m.mentions.Reset()
	m.restoreDraft()
	m.status = ""
}

// EditingMessage reports whether an edit session is in progress.
func (m *Model) EditingMessage() bool {
	return m.editingMsg != nil
}

// ensure the model always satisfies the delegate contract
var _ mention.Delegate = (*Model)(nil)
