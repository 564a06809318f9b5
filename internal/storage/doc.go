// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists channels and messages in SQLite.
//
// Message bodies are stored in template form, with the mention placeholders
// unexpanded, alongside a snapshot of the mentioned users. Display names can
// change at any time; the snapshot lets old messages resolve their
// placeholders to the names that were current when the message was sent.
package storage
