// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual building blocks of the chatkit TUI:
// the message composer, the mention suggestion popup, the channel list, the
// thread message renderer and the small reusable widgets they share.
//
// Components are plain view-state structs in the bubbletea style: the chat
// model owns them, feeds them input, and concatenates their View() output.
// None of them spawn goroutines or hold locks; everything runs on the
// program's update loop.
package components
