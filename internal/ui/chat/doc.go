// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat hosts the main Bubble Tea model: a channel list, a message
// thread, and a mention-aware composer with its suggestion popup.
//
// Every keystroke destined for the composer is gated through the mention
// manager before it touches the buffer, which is how mentions stay atomic.
// Member lookups run as tea.Cmds and re-enter the Update loop as messages,
// so the manager only ever runs on the update goroutine.
package chat
