// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/chatkit-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrChannelNotFound = errors.New("channel not found")
	ErrMessageNotFound = errors.New("message not found")
)

// =============================================================================
// MESSAGE STORE
// =============================================================================

// Store persists channels and messages.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the store at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// CHANNELS
// =============================================================================

// SaveChannel inserts or updates a channel.
func (s *Store) SaveChannel(ctx context.Context, ch *model.Channel) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO channels (id, name, created_at, last_message_at, unread_count)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name            = excluded.name,
			last_message_at = excluded.last_message_at,
			unread_count    = excluded.unread_count
	`, ch.ID, ch.Name, ch.CreatedAt.Unix(), ch.LastMessageAt.Unix(), ch.UnreadCount)
	return err
}

// Channel loads a single channel.
func (s *Store) Channel(ctx context.Context, id string) (*model.Channel, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, last_message_at, unread_count
		FROM channels WHERE id = ?
	`, id)

	ch, err := scanChannel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrChannelNotFound
	}
	return ch, err
}

// Channels lists all channels, most recently active first.
func (s *Store) Channels(ctx context.Context) ([]*model.Channel, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at, last_message_at, unread_count
		FROM channels
		ORDER BY last_message_at DESC, name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []*model.Channel
	for rows.Next() {
		ch, err := scanChannel(rows)
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, rows.Err()
}

// MarkRead zeroes a channel's unread counter.
func (s *Store) MarkRead(ctx context.Context, channelID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE channels SET unread_count = 0 WHERE id = ?", channelID)
	if err != nil {
		return err
	}
	return requireRow(res, ErrChannelNotFound)
}

// DeleteChannel removes a channel and, via cascade, its messages.
func (s *Store) DeleteChannel(ctx context.Context, channelID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM channels WHERE id = ?", channelID)
	if err != nil {
		return err
	}
	return requireRow(res, ErrChannelNotFound)
}

// =============================================================================
// MESSAGES
// =============================================================================

// SaveMessage inserts a message and its mentioned-user snapshot, and bumps
// the channel's activity timestamp. Runs in one transaction.
func (s *Store) SaveMessage(ctx context.Context, msg *model.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO messages (id, channel_id, author_id, author_nickname, body, created_at, updated_at, edited)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, msg.ID, msg.ChannelID, msg.Author.ID, msg.Author.Nickname, msg.Body,
		msg.CreatedAt.Unix(), msg.UpdatedAt.Unix(), boolToInt(msg.Edited))
	if err != nil {
		return err
	}

	if err := insertMentions(ctx, tx, msg.ID, msg.Mentioned); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE channels SET last_message_at = ? WHERE id = ?",
		msg.CreatedAt.Unix(), msg.ChannelID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateMessage rewrites an edited message's body and mention snapshot.
func (s *Store) UpdateMessage(ctx context.Context, msg *model.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE messages SET body = ?, updated_at = ?, edited = 1 WHERE id = ?
	`, msg.Body, msg.UpdatedAt.Unix(), msg.ID)
	if err != nil {
		return err
	}
	if err := requireRow(res, ErrMessageNotFound); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM message_mentions WHERE message_id = ?", msg.ID); err != nil {
		return err
	}
	if err := insertMentions(ctx, tx, msg.ID, msg.Mentioned); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteMessage removes a message.
func (s *Store) DeleteMessage(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM messages WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrMessageNotFound)
}

// Messages loads a channel's history in chronological order, newest capped
// at limit (0 = all).
func (s *Store) Messages(ctx context.Context, channelID string, limit int) ([]*model.Message, error) {
	query := `
		SELECT id, channel_id, author_id, author_nickname, body, created_at, updated_at, edited
		FROM messages
		WHERE channel_id = ?
		ORDER BY created_at DESC, id DESC
	`
	args := []any{channelID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		var (
			msg              model.Message
			created, updated int64
			edited           int
		)
		err := rows.Scan(&msg.ID, &msg.ChannelID, &msg.Author.ID, &msg.Author.Nickname,
			&msg.Body, &created, &updated, &edited)
		if err != nil {
			return nil, err
		}
		msg.CreatedAt = time.Unix(created, 0)
		msg.UpdatedAt = time.Unix(updated, 0)
		msg.Edited = edited != 0
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Newest-first from the query; flip to chronological for display.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	if err := s.loadMentions(ctx, messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// MentionsOf lists messages whose snapshot mentions the given user, newest
// first.
func (s *Store) MentionsOf(ctx context.Context, userID string, limit int) ([]*model.Message, error) {
	query := `
		SELECT m.id, m.channel_id, m.author_id, m.author_nickname, m.body, m.created_at, m.updated_at, m.edited
		FROM messages m
		JOIN message_mentions mm ON mm.message_id = m.id
		WHERE mm.user_id = ?
		ORDER BY m.created_at DESC
	`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		var (
			msg              model.Message
			created, updated int64
			edited           int
		)
		err := rows.Scan(&msg.ID, &msg.ChannelID, &msg.Author.ID, &msg.Author.Nickname,
			&msg.Body, &created, &updated, &edited)
		if err != nil {
			return nil, err
		}
		msg.CreatedAt = time.Unix(created, 0)
		msg.UpdatedAt = time.Unix(updated, 0)
		msg.Edited = edited != 0
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadMentions(ctx, messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// loadMentions attaches the mentioned-user snapshot to each message.
func (s *Store) loadMentions(ctx context.Context, messages []*model.Message) error {
	for _, msg := range messages {
		rows, err := s.db.QueryContext(ctx,
			"SELECT user_id, nickname FROM message_mentions WHERE message_id = ?", msg.ID)
		if err != nil {
			return err
		}

		var mentioned []model.User
		for rows.Next() {
			var u model.User
			if err := rows.Scan(&u.ID, &u.Nickname); err != nil {
				rows.Close()
				return err
			}
			mentioned = append(mentioned, u)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()
		msg.Mentioned = mentioned
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func insertMentions(ctx context.Context, tx *sql.Tx, messageID string, users []model.User) error {
	for _, u := range users {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO message_mentions (message_id, user_id, nickname)
			VALUES (?, ?, ?)
			ON CONFLICT(message_id, user_id) DO UPDATE SET nickname = excluded.nickname
		`, messageID, u.ID, u.Nickname)
		if err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChannel(row rowScanner) (*model.Channel, error) {
	var (
		ch              model.Channel
		created, lastAt int64
	)
	err := row.Scan(&ch.ID, &ch.Name, &created, &lastAt, &ch.UnreadCount)
	if err != nil {
		return nil, err
	}
	ch.CreatedAt = time.Unix(created, 0)
	if lastAt > 0 {
		ch.LastMessageAt = time.Unix(lastAt, 0)
	}
	return &ch, nil
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
