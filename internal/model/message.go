// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for channels, members, and
// messages.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a channel.
//
// Body holds the template wire form: mention spans are stored as @{userID}
// placeholders, never as display names. Mentioned carries the users needed to
// rehydrate those placeholders into display text.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	ChannelID string    `json:"channel_id"`
	Author    User      `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`

	// Content (template wire form)
	Body      string `json:"body"`
	Mentioned []User `json:"mentioned_users,omitempty"`

	// Edit tracking
	Edited bool `json:"edited,omitempty"`
}

// NewMessage creates a message with a generated ID.
func NewMessage(channelID string, author User, body string, mentioned []User) *Message {
	return &Message{
		ID:        uuid.New().String(),
		ChannelID: channelID,
		Author:    author,
		CreatedAt: time.Now(),
		Body:      body,
		Mentioned: mentioned,
	}
}

// Mentions reports whether the message mentions the given user id.
func (m *Message) Mentions(userID string) bool {
	for _, u := range m.Mentioned {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// ApplyEdit replaces the message body and mentioned-user list, marking the
// message as edited.
func (m *Message) ApplyEdit(body string, mentioned []User) {
	m.Body = body
	m.Mentioned = mentioned
	m.Edited = true
	m.UpdatedAt = time.Now()
}

// =============================================================================
// CHANNEL TYPE
// =============================================================================

// Channel is a named conversation surface with a member list.
type Channel struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`

	// Listing metadata
	LastMessageAt time.Time `json:"last_message_at,omitempty"`
	UnreadCount   int       `json:"unread_count,omitempty"`
}

// NewChannel creates a channel with a generated ID.
func NewChannel(name string) *Channel {
	return &Channel{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}
}
