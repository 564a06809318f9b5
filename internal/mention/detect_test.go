// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import "testing"

// =============================================================================
// TRIGGER DETECTION TESTS
// =============================================================================

func TestDetector_Detect(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		caret       int
		wantActive  bool
		wantStart   int
		wantKeyword string
	}{
		{"trigger with keyword", "hello @al", 9, true, 6, "al"},
		{"bare trigger", "hello @", 7, true, 6, ""},
		{"trigger at buffer start", "@al", 3, true, 0, "al"},
		{"caret in later word", "hello @alice world", 15, false, 0, ""},
		{"whitespace before caret", "hello @al ", 10, false, 0, ""},
		{"no trigger in word", "hello world", 11, false, 0, ""},
		{"newline stops scan", "@al\nbo", 6, false, 0, ""},
		{"tab stops scan", "@al\tbo", 6, false, 0, ""},
		{"nearest trigger wins", "a@b@cd", 6, true, 3, "cd"},
		{"caret right after trigger word start", "hi @", 4, true, 3, ""},
		{"caret at position zero", "@al", 0, false, 0, ""},
		{"multibyte keyword", "hola @niña", 10, true, 5, "niña"},
	}

	d := NewDetector()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := d.Detect(tc.text, Caret(tc.caret), nil)
			if got.Active != tc.wantActive {
				t.Fatalf("Active = %v, want %v", got.Active, tc.wantActive)
			}
			if !tc.wantActive {
				return
			}
			if got.Start != tc.wantStart {
				t.Errorf("Start = %d, want %d", got.Start, tc.wantStart)
			}
			if got.Keyword != tc.wantKeyword {
				t.Errorf("Keyword = %q, want %q", got.Keyword, tc.wantKeyword)
			}
		})
	}
}

func TestDetector_ConfirmedSpans(t *testing.T) {
	d := NewDetector()

	// "hey @alice" with "@alice" confirmed at [4,10).
	index := NewSpanIndex()
	index.Add(Span{User: user("u1", "alice"), Range: Range{Start: 4, End: 10}})

	t.Run("caret inside confirmed span is never a trigger", func(t *testing.T) {
		got := d.Detect("hey @alice", Caret(7), index)
		if got.Active {
			t.Error("caret inside span should not trigger")
		}
	})

	t.Run("caret at span start scans preceding word", func(t *testing.T) {
		// Span start is a boundary; the word before it is "hey" with no
		// trigger character, so detection stays inactive.
		got := d.Detect("hey @alice", Caret(4), index)
		if got.Active {
			t.Error("no trigger before the span")
		}
	})

	t.Run("trigger char inside confirmed span is ignored", func(t *testing.T) {
		// "@aliceX" typed directly after the confirmed span without a space:
		// scanning backward from the caret crosses into the span, whose @ is
		// consumed, so no trigger fires.
		idx := NewSpanIndex()
		idx.Add(Span{User: user("u1", "alice"), Range: Range{Start: 0, End: 6}})
		got := d.Detect("@aliceX", Caret(7), idx)
		if got.Active {
			t.Error("@ consumed by a mention must not re-trigger")
		}
	})

	t.Run("fresh trigger after confirmed span", func(t *testing.T) {
		// "hey @alice @b" with a new trigger typed after the span.
		idx := NewSpanIndex()
		idx.Add(Span{User: user("u1", "alice"), Range: Range{Start: 4, End: 10}})
		got := d.Detect("hey @alice @b", Caret(13), idx)
		if !got.Active || got.Start != 11 || got.Keyword != "b" {
			t.Errorf("got %+v, want active trigger at 11 with keyword b", got)
		}
	})
}

func TestDetector_KeywordLimit(t *testing.T) {
	d := Detector{TriggerChar: '@', KeywordLimit: 5}

	t.Run("keyword within limit triggers", func(t *testing.T) {
		got := d.Detect("@abcde", Caret(6), nil)
		if !got.Active || got.Keyword != "abcde" {
			t.Errorf("got %+v, want active trigger with keyword abcde", got)
		}
	})

	t.Run("keyword over limit goes dead", func(t *testing.T) {
		if d.Detect("@abcdef", Caret(7), nil).Active {
			t.Error("keyword past the limit should not trigger")
		}
	})

	t.Run("zero limit is unbounded", func(t *testing.T) {
		unbounded := Detector{TriggerChar: '@'}
		got := unbounded.Detect("@abcdefghijklmnop", Caret(17), nil)
		if !got.Active {
			t.Error("unbounded detector should trigger on a long keyword")
		}
	})
}

func TestDetector_CustomTriggerChar(t *testing.T) {
	d := Detector{TriggerChar: '#'}
	got := d.Detect("see #topic", Caret(10), nil)
	if !got.Active || got.Start != 4 || got.Keyword != "topic" {
		t.Errorf("got %+v, want active trigger at 4 with keyword topic", got)
	}
	if d.Detect("see @topic", Caret(10), nil).Active {
		t.Error("default trigger char should not fire for a # detector")
	}
}
