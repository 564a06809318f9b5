// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for channels, members, and
// messages.
package model

import "strings"

// =============================================================================
// USER TYPE
// =============================================================================

// User identifies a member of the chat service.
//
// ID is the stable identifier used in the mention template wire form;
// Nickname is what the user sees in message text and suggestion rows.
type User struct {
	ID       string `json:"user_id"`
	Nickname string `json:"nickname"`

	// Presence
	IsOnline bool `json:"is_online,omitempty"`
}

// DisplayName returns the name to render for the user. Falls back to the raw
// id when the nickname is empty so a user is never rendered as a blank span.
func (u User) DisplayName() string {
	if strings.TrimSpace(u.Nickname) != "" {
		return u.Nickname
	}
	return u.ID
}

// Valid reports whether the user carries a usable identifier.
func (u User) Valid() bool {
	return u.ID != ""
}

// UsersByID builds a lookup table keyed by user id. Later duplicates win,
// matching the behavior of a refreshed member list.
func UsersByID(users []User) map[string]User {
	m := make(map[string]User, len(users))
	for _, u := range users {
		if u.Valid() {
			m[u.ID] = u
		}
	}
	return m
}
