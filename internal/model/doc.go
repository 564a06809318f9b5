// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for channels, members, and
// messages.
//
// The types here are deliberately thin: a User is an id plus a display name,
// a Message carries its body in template wire form (mention placeholders, see
// the mention package) together with the users it mentions, and a Channel is
// the container the UI lists and opens. Rendering, persistence, and mention
// bookkeeping all live in their own packages.
package model
