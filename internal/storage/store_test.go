// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jeranaias/chatkit-tui/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "chat.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreChannelRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	ch := model.NewChannel("general")
	if err := store.SaveChannel(ctx, ch); err != nil {
		t.Fatalf("SaveChannel: %v", err)
	}

	got, err := store.Channel(ctx, ch.ID)
	if err != nil {
		t.Fatalf("Channel: %v", err)
	}
	if got.Name != "general" {
		t.Errorf("Name = %q, want general", got.Name)
	}

	if _, err := store.Channel(ctx, "missing"); !errors.Is(err, ErrChannelNotFound) {
		t.Errorf("missing channel error = %v, want ErrChannelNotFound", err)
	}
}

func TestStoreMessagesChronological(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	alice := model.User{ID: "u1", Nickname: "alice"}

	ch := model.NewChannel("general")
	if err := store.SaveChannel(ctx, ch); err != nil {
		t.Fatalf("SaveChannel: %v", err)
	}

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	for i, body := range []string{"first", "second", "third"} {
		msg := model.NewMessage(ch.ID, alice, body, nil)
		msg.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		msg.UpdatedAt = msg.CreatedAt
		if err := store.SaveMessage(ctx, msg); err != nil {
			t.Fatalf("SaveMessage(%q): %v", body, err)
		}
	}

	msgs, err := store.Messages(ctx, ch.ID, 0)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("len = %d, want 3", len(msgs))
	}
	for i, want := range []string{"first", "second", "third"} {
		if msgs[i].Body != want {
			t.Errorf("msgs[%d].Body = %q, want %q", i, msgs[i].Body, want)
		}
	}

	// Limit keeps the newest messages.
	msgs, err = store.Messages(ctx, ch.ID, 2)
	if err != nil {
		t.Fatalf("Messages(limit): %v", err)
	}
	if len(msgs) != 2 || msgs[0].Body != "second" || msgs[1].Body != "third" {
		t.Fatalf("limited history wrong: %v", bodies(msgs))
	}

	// Channel activity follows the newest message.
	got, err := store.Channel(ctx, ch.ID)
	if err != nil {
		t.Fatalf("Channel: %v", err)
	}
	if !got.LastMessageAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("LastMessageAt = %v, want %v", got.LastMessageAt, base.Add(2*time.Minute))
	}
}

func TestStoreMentionSnapshot(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	alice := model.User{ID: "u1", Nickname: "alice"}
	bob := model.User{ID: "u2", Nickname: "bob"}

	ch := model.NewChannel("general")
	if err := store.SaveChannel(ctx, ch); err != nil {
		t.Fatalf("SaveChannel: %v", err)
	}

	msg := model.NewMessage(ch.ID, alice, "hey @{u2}", []model.User{bob})
	if err := store.SaveMessage(ctx, msg); err != nil {
		t.Fatalf("SaveMessage: %v", err)
	}

	msgs, err := store.Messages(ctx, ch.ID, 0)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("len = %d, want 1", len(msgs))
	}
	if len(msgs[0].Mentioned) != 1 || msgs[0].Mentioned[0].Nickname != "bob" {
		t.Fatalf("Mentioned = %v, want snapshot of bob", msgs[0].Mentioned)
	}

	// The snapshot is queryable from the other direction too.
	mentions, err := store.MentionsOf(ctx, "u2", 0)
	if err != nil {
		t.Fatalf("MentionsOf: %v", err)
	}
	if len(mentions) != 1 || mentions[0].ID != msg.ID {
		t.Fatalf("MentionsOf = %v, want the saved message", mentions)
	}
}

func TestStoreUpdateMessageRewritesSnapshot(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	alice := model.User{ID: "u1", Nickname: "alice"}
	bob := model.User{ID: "u2", Nickname: "bob"}
	carol := model.User{ID: "u3", Nickname: "carol"}

	ch := model.NewChannel("general")
	if err := store.SaveChannel(ctx, ch); err != nil {
		t.Fatalf("SaveChannel: %v", err)
	}

	msg := model.NewMessage(ch.ID, alice, "hey @{u2}", []model.User{bob})
	if err := store.SaveMessage(ctx, msg); err != nil {
		t.Fatalf("SaveMessage: %v", err)
	}

	msg.ApplyEdit("hey @{u3}", []model.User{carol})
	if err := store.UpdateMessage(ctx, msg); err != nil {
		t.Fatalf("UpdateMessage: %v", err)
	}

	msgs, err := store.Messages(ctx, ch.ID, 0)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	got := msgs[0]
	if got.Body != "hey @{u3}" || !got.Edited {
		t.Fatalf("edit not persisted: body=%q edited=%v", got.Body, got.Edited)
	}
	if len(got.Mentioned) != 1 || got.Mentioned[0].ID != "u3" {
		t.Fatalf("snapshot not rewritten: %v", got.Mentioned)
	}

	if err := store.UpdateMessage(ctx, &model.Message{ID: "missing"}); !errors.Is(err, ErrMessageNotFound) {
		t.Errorf("missing message error = %v, want ErrMessageNotFound", err)
	}
}

func TestStoreMarkReadAndDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	ch := model.NewChannel("general")
	ch.UnreadCount = 7
	if err := store.SaveChannel(ctx, ch); err != nil {
		t.Fatalf("SaveChannel: %v", err)
	}

	if err := store.MarkRead(ctx, ch.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	got, err := store.Channel(ctx, ch.ID)
	if err != nil {
		t.Fatalf("Channel: %v", err)
	}
	if got.UnreadCount != 0 {
		t.Errorf("UnreadCount = %d, want 0", got.UnreadCount)
	}

	if err := store.DeleteChannel(ctx, ch.ID); err != nil {
		t.Fatalf("DeleteChannel: %v", err)
	}
	if _, err := store.Channel(ctx, ch.ID); !errors.Is(err, ErrChannelNotFound) {
		t.Errorf("deleted channel error = %v, want ErrChannelNotFound", err)
	}
}

func bodies(msgs []*model.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Body
	}
	return out
}

func TestStoreMembers(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	members := []model.User{
		{ID: "u1", Nickname: "alice", IsOnline: true},
		{ID: "u2", Nickname: "bob"},
		{ID: "u3", Nickname: "carol", IsOnline: true},
	}
	for _, u := range members {
		if err := store.UpsertMember(ctx, u); err != nil {
			t.Fatalf("UpsertMember: %v", err)
		}
	}

	got, err := store.Members(ctx)
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 members, got %d", len(got))
	}
	// Online first, then nickname order within each group.
	if got[0].ID != "u1" || got[1].ID != "u3" || got[2].ID != "u2" {
		t.Errorf("unexpected order: %s, %s, %s", got[0].ID, got[1].ID, got[2].ID)
	}

	// Upsert replaces, presence toggles in place.
	if err := store.UpsertMember(ctx, model.User{ID: "u2", Nickname: "bobby"}); err != nil {
		t.Fatalf("UpsertMember: %v", err)
	}
	if err := store.SetMemberPresence(ctx, "u2", true); err != nil {
		t.Fatalf("SetMemberPresence: %v", err)
	}
	got, err = store.Members(ctx)
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 members after upsert, got %d", len(got))
	}
	for _, u := range got {
		if u.ID == "u2" {
			if u.Nickname != "bobby" || !u.IsOnline {
				t.Errorf("u2 = %+v, want nickname bobby online", u)
			}
		}
	}
}
