// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package directory resolves mention keywords to channel members.
//
// A Service wraps a MemberSource (an in-memory roster or the SQLite member
// table), folds and fuzzy-ranks candidates against the keyword, and delivers
// results asynchronously. Lookups are rate limited so a user typing quickly
// does not hammer the source.
package directory
