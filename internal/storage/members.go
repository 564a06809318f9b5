// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"

	"github.com/jeranaias/chatkit-tui/internal/model"
)

// =============================================================================
// MEMBERS
// =============================================================================

// UpsertMember inserts or updates a workspace member.
func (s *Store) UpsertMember(ctx context.Context, u model.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO members (id, nickname, is_online)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			nickname  = excluded.nickname,
			is_online = excluded.is_online
	`, u.ID, u.Nickname, boolToInt(u.IsOnline))
	return err
}

// Members lists all workspace members, online members first.
func (s *Store) Members(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, nickname, is_online
		FROM members
		ORDER BY is_online DESC, nickname ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []model.User
	for rows.Next() {
		var u model.User
		var online int
		if err := rows.Scan(&u.ID, &u.Nickname, &online); err != nil {
			return nil, err
		}
		u.IsOnline = online != 0
		members = append(members, u)
	}
	return members, rows.Err()
}

// SetMemberPresence flips a member's online flag without touching the rest
// of the row. Unknown members are ignored.
func (s *Store) SetMemberPresence(ctx context.Context, userID string, online bool) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE members SET is_online = ? WHERE id = ?
	`, boolToInt(online), userID)
	return err
}
