// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

// Schema is the message store schema.
const Schema = `
CREATE TABLE IF NOT EXISTS channels (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	created_at      INTEGER NOT NULL,
	last_message_at INTEGER NOT NULL DEFAULT 0,
	unread_count    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS messages (
	id              TEXT PRIMARY KEY,
	channel_id      TEXT NOT NULL REFERENCES channels(id) ON DELETE CASCADE,
	author_id       TEXT NOT NULL,
	author_nickname TEXT NOT NULL DEFAULT '',
	body            TEXT NOT NULL,
	created_at      INTEGER NOT NULL,
	updated_at      INTEGER NOT NULL,
	edited          INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_messages_channel
	ON messages(channel_id, created_at);

CREATE TABLE IF NOT EXISTS message_mentions (
	message_id TEXT NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
	user_id    TEXT NOT NULL,
	nickname   TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (message_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_mentions_user
	ON message_mentions(user_id);

CREATE TABLE IF NOT EXISTS members (
	id        TEXT PRIMARY KEY,
	nickname  TEXT NOT NULL DEFAULT '',
	is_online INTEGER NOT NULL DEFAULT 0
);
`
