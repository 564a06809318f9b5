// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jeranaias/chatkit-tui/internal/model"
	"github.com/jeranaias/chatkit-tui/internal/util"
)

// =============================================================================
// DRAFT STORE
// =============================================================================

// Draft is an unsent message for one channel. Body is in template form
// ("@{userID}" placeholders); Mentioned snapshots the users those
// placeholders resolve to.
type Draft struct {
	ChannelID string       `json:"channel_id"`
	Body      string       `json:"body"`
	Mentioned []model.User `json:"mentioned,omitempty"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Empty reports whether the draft holds no text.
func (d Draft) Empty() bool {
	return d.Body == ""
}

// DraftStore holds drafts keyed by channel and persists them as JSON.
type DraftStore struct {
	mu     sync.Mutex
	path   string
	drafts map[string]Draft
}

// NewDraftStore creates a store backed by the file at path. An existing file
// is loaded; a missing one starts empty.
func NewDraftStore(path string) (*DraftStore, error) {
	s := &DraftStore{
		path:   path,
		drafts: make(map[string]Draft),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *DraftStore) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read drafts: %w", err)
	}

	var drafts []Draft
	if err := json.Unmarshal(data, &drafts); err != nil {
		return fmt.Errorf("failed to decode drafts: %w", err)
	}
	for _, d := range drafts {
		if d.ChannelID == "" || d.Empty() {
			continue
		}
		s.drafts[d.ChannelID] = d
	}
	return nil
}

// Put stores a draft for a channel. An empty draft clears the slot.
func (s *DraftStore) Put(channelID, body string, mentioned []model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if body == "" {
		delete(s.drafts, channelID)
		return
	}
	s.drafts[channelID] = Draft{
		ChannelID: channelID,
		Body:      body,
		Mentioned: append([]model.User(nil), mentioned...),
		UpdatedAt: time.Now(),
	}
}

// Get returns the draft for a channel, if any.
func (s *DraftStore) Get(channelID string) (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[channelID]
	return d, ok
}

// Clear removes the draft for a channel.
func (s *DraftStore) Clear(channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, channelID)
}

// Len returns the number of stored drafts.
func (s *DraftStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drafts)
}

// Save writes all drafts to disk atomically.
func (s *DraftStore) Save() error {
	s.mu.Lock()
	drafts := make([]Draft, 0, len(s.drafts))
	for _, d := range s.drafts {
		drafts = append(drafts, d)
	}
	s.mu.Unlock()

	data, err := json.MarshalIndent(drafts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode drafts: %w", err)
	}
	if err := util.AtomicWriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write drafts: %w", err)
	}
	return nil
}
