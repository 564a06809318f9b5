// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatkit-tui/internal/model"
)

// =============================================================================
// STORAGE COMMANDS
// =============================================================================

const storeTimeout = 5 * time.Second

// threadPageSize caps how many messages one thread load pulls in.
const threadPageSize = 200

func (m *Model) loadChannelsCmd() tea.Cmd {
	if m.store == nil {
		return nil
	}
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		channels, err := store.Channels(ctx)
		return ChannelsLoadedMsg{Channels: channels, Err: err}
	}
}

func (m *Model) loadThreadCmd(channelID string) tea.Cmd {
	if m.store == nil {
		return func() tea.Msg {
			return ThreadLoadedMsg{ChannelID: channelID}
		}
	}
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		messages, err := store.Messages(ctx, channelID, threadPageSize)
		return ThreadLoadedMsg{ChannelID: channelID, Messages: messages, Err: err}
	}
}

func (m *Model) saveMessageCmd(msg *model.Message) tea.Cmd {
	if m.store == nil {
		return nil
	}
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		err := store.SaveMessage(ctx, msg)
		return MessageSavedMsg{Message: msg, Err: err}
	}
}

func (m *Model) updateMessageCmd(msg *model.Message) tea.Cmd {
	if m.store == nil {
		return nil
	}
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		err := store.UpdateMessage(ctx, msg)
		return MessageSavedMsg{Message: msg, Err: err}
	}
}

func (m *Model) markReadCmd(channelID string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		if err := store.MarkRead(ctx, channelID); err != nil {
			return ErrorMsg{Err: err}
		}
		return nil
	}
}
