// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session persists per-channel message drafts across restarts.
//
// A draft stores the composer text in template form together with the
// mentioned-user snapshot, so a half-written mention survives a restart with
// its styling and atomicity intact. The Manager tracks dirty state and drives
// periodic auto-save from the bubbletea event loop.
package session
