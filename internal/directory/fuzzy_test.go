// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import (
	"testing"

	"github.com/jeranaias/chatkit-tui/internal/model"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alice", "alice"},
		{"José", "jose"},
		{"Søren", "søren"}, // ø is a letter, not a combining mark
		{"CAFÉ", "cafe"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		keyword string
		name    string
		matched bool
	}{
		{"", "anything", true},
		{"al", "alice", true},
		{"ace", "alice", true}, // in-order subsequence
		{"ali", "bob", false},
		{"jose", "José García", true},
		{"alicex", "alice", false},
		{"ALICE", "alice", true},
	}
	for _, tt := range tests {
		if _, matched := Match(tt.keyword, tt.name); matched != tt.matched {
			t.Errorf("Match(%q, %q) matched = %v, want %v",
				tt.keyword, tt.name, matched, tt.matched)
		}
	}
}

func TestMatchPrefersHeadAndBoundary(t *testing.T) {
	head, ok := Match("al", "alice")
	if !ok {
		t.Fatal("expected head match")
	}
	scattered, ok := Match("al", "natalie-x")
	if !ok {
		t.Fatal("expected scattered match")
	}
	if head <= scattered {
		t.Errorf("head match %d should outscore scattered match %d", head, scattered)
	}

	boundary, ok := Match("g", "maria garcia")
	if !ok {
		t.Fatal("expected boundary match")
	}
	interior, ok := Match("g", "margot")
	if !ok {
		t.Fatal("expected interior match")
	}
	if boundary <= interior {
		t.Errorf("boundary match %d should outscore interior match %d", boundary, interior)
	}
}

func TestRank(t *testing.T) {
	members := []model.User{
		{ID: "u1", Nickname: "natalie"},
		{ID: "u2", Nickname: "alice"},
		{ID: "u3", Nickname: "bob"},
		{ID: "u4", Nickname: "albert"},
	}

	ranked := Rank(members, "al")
	if len(ranked) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(ranked))
	}
	// Head matches first, then the scattered one; ties keep source order.
	if ranked[0].ID != "u2" || ranked[1].ID != "u4" {
		t.Errorf("expected alice then albert first, got %s then %s",
			ranked[0].ID, ranked[1].ID)
	}
	if ranked[2].ID != "u1" {
		t.Errorf("expected natalie last, got %s", ranked[2].ID)
	}
}

func TestRankMatchesByID(t *testing.T) {
	members := []model.User{
		{ID: "u-dev-7", Nickname: "Grace"},
	}
	ranked := Rank(members, "dev")
	if len(ranked) != 1 {
		t.Fatalf("expected ID match, got %d results", len(ranked))
	}
}

func TestRankEmptyKeywordCopies(t *testing.T) {
	members := []model.User{{ID: "u1"}, {ID: "u2"}}
	ranked := Rank(members, "")
	if len(ranked) != 2 {
		t.Fatalf("expected all members, got %d", len(ranked))
	}
	ranked[0] = model.User{ID: "clobbered"}
	if members[0].ID != "u1" {
		t.Error("Rank must not alias the input slice")
	}
}
