// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jeranaias/chatkit-tui/internal/model"
)

func TestDraftStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drafts.json")

	store, err := NewDraftStore(path)
	if err != nil {
		t.Fatalf("NewDraftStore: %v", err)
	}

	mentioned := []model.User{{ID: "u2", Nickname: "bob", IsOnline: true}}
	store.Put("ch1", "hey @{u2}, almost done", mentioned)
	store.Put("ch2", "plain draft", nil)

	if err := store.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := NewDraftStore(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Len() != 2 {
		t.Fatalf("expected 2 drafts, got %d", reloaded.Len())
	}

	d, ok := reloaded.Get("ch1")
	if !ok {
		t.Fatal("ch1 draft missing")
	}
	if d.Body != "hey @{u2}, almost done" {
		t.Errorf("Body = %q", d.Body)
	}
	if len(d.Mentioned) != 1 || d.Mentioned[0].Nickname != "bob" {
		t.Errorf("Mentioned = %v", d.Mentioned)
	}
}

func TestDraftStoreEmptyBodyClears(t *testing.T) {
	store, err := NewDraftStore(filepath.Join(t.TempDir(), "drafts.json"))
	if err != nil {
		t.Fatalf("NewDraftStore: %v", err)
	}

	store.Put("ch1", "something", nil)
	store.Put("ch1", "", nil)

	if _, ok := store.Get("ch1"); ok {
		t.Error("empty body should clear the draft")
	}
	if store.Len() != 0 {
		t.Errorf("Len = %d, want 0", store.Len())
	}
}

func TestDraftStoreMissingFileStartsEmpty(t *testing.T) {
	store, err := NewDraftStore(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err != nil {
		t.Fatalf("NewDraftStore: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len = %d, want 0", store.Len())
	}
}

func TestDraftStoreClear(t *testing.T) {
	store, err := NewDraftStore(filepath.Join(t.TempDir(), "drafts.json"))
	if err != nil {
		t.Fatalf("NewDraftStore: %v", err)
	}
	store.Put("ch1", "text", nil)
	store.Clear("ch1")
	if store.Len() != 0 {
		t.Errorf("Len = %d, want 0", store.Len())
	}
}

func TestManagerAutoSave(t *testing.T) {
	m := NewManager(Config{Enabled: true, Interval: time.Millisecond})
	saves := 0
	m.SetSaveCallback(func() error {
		saves++
		return nil
	})

	m.Check()
	if saves != 0 {
		t.Error("clean manager should not save")
	}

	m.MarkDirty()
	if !m.IsDirty() {
		t.Fatal("expected dirty")
	}
	time.Sleep(5 * time.Millisecond)
	if !m.ShouldSave() {
		t.Fatal("expected save due")
	}
	m.Check()
	if saves != 1 {
		t.Errorf("saves = %d, want 1", saves)
	}
	if m.IsDirty() {
		t.Error("successful save should mark clean")
	}
}

func TestManagerFailedSaveStaysDirty(t *testing.T) {
	m := NewManager(Config{Enabled: true, Interval: time.Millisecond})
	m.SetSaveCallback(func() error {
		return errTest
	})

	m.MarkDirty()
	time.Sleep(5 * time.Millisecond)
	m.Check()
	if !m.IsDirty() {
		t.Error("failed save should stay dirty")
	}
}

func TestManagerFlushIgnoresInterval(t *testing.T) {
	m := NewManager(Config{Enabled: true, Interval: time.Hour})
	saves := 0
	m.SetSaveCallback(func() error {
		saves++
		return nil
	})

	if err := m.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if saves != 0 {
		t.Error("clean flush should be a no-op")
	}

	m.MarkDirty()
	if err := m.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if saves != 1 {
		t.Errorf("saves = %d, want 1", saves)
	}
}

var errTest = errSentinel("save failed")

type errSentinel string

func (e errSentinel) Error() string { return string(e) }
