// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main chat view.
//
// This file defines the Bubble Tea message types used by the chat model:
//   - Suggestion: directory lookup results re-entering the update loop
//   - Storage: channel and message load/save results
//   - Errors: error display
package chat

import (
	"github.com/jeranaias/chatkit-tui/internal/config"
	"github.com/jeranaias/chatkit-tui/internal/model"
)

// =============================================================================
// SUGGESTION MESSAGES
// =============================================================================

// SuggestionsFetchedMsg carries a directory lookup result back onto the
// update goroutine. Deliver hands it to the mention manager, which discards
// stale results by sequence token.
type SuggestionsFetchedMsg struct {
	Deliver func()
}

// =============================================================================
// STORAGE MESSAGES
// =============================================================================

// ChannelsLoadedMsg delivers the channel roster from the store.
type ChannelsLoadedMsg struct {
	Channels []*model.Channel
	Err      error
}

// ThreadLoadedMsg delivers one channel's messages from the store.
type ThreadLoadedMsg struct {
	ChannelID string
	Messages  []*model.Message
	Err       error
}

// MessageSavedMsg reports a message write.
type MessageSavedMsg struct {
	Message *model.Message
	Err     error
}

// =============================================================================
// CONFIG MESSAGES
// =============================================================================

// ConfigReloadedMsg carries a hot-reloaded configuration into the model.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// =============================================================================
// ERROR MESSAGES
// =============================================================================

// ErrorMsg surfaces an error in the status bar.
type ErrorMsg struct {
	Err error
}
