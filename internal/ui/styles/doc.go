// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the chatkit TUI.
//
// The package has two layers:
//
//   - colors.go: the adaptive color palette. Every color is a
//     lipgloss.AdaptiveColor so light and dark terminals both get sensible
//     contrast without configuration.
//   - theme.go: the Theme struct, which composes the palette into ready
//     lipgloss styles for each component, including the two mention
//     attribute profiles (DefaultText, MentionText) handed to the mention
//     manager.
//
// A Theme is built once at startup and rebuilt on config hot-reload; the
// host then re-runs mention.Manager.Configure to rebind the attribute
// profiles.
package styles
