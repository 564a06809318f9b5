// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import "testing"

// =============================================================================
// STRING UTILITY TESTS
// =============================================================================

func TestSafeSubstring(t *testing.T) {
	tests := []struct {
		name       string
		s          string
		start, end int
		want       string
	}{
		{"ascii middle", "hello world", 6, 11, "world"},
		{"full string", "hello", 0, 5, "hello"},
		{"end past length", "hello", 2, 99, "llo"},
		{"negative start", "hello", -3, 2, "he"},
		{"start past length", "hi", 5, 9, ""},
		{"start after end", "hello", 3, 1, ""},
		{"multibyte", "héllo wörld", 6, 11, "wörld"},
		{"cjk", "こんにちは", 1, 3, "んに"},
		{"empty", "", 0, 1, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SafeSubstring(tc.s, tc.start, tc.end); got != tc.want {
				t.Errorf("SafeSubstring(%q, %d, %d) = %q, want %q", tc.s, tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name string
		s    string
		max  int
		want string
	}{
		{"no truncation", "short", 10, "short"},
		{"exact length", "exact", 5, "exact"},
		{"truncated", "hello world", 8, "hello..."},
		{"tiny max", "hello", 2, "he"},
		{"zero max", "hello", 0, ""},
		{"multibyte", "héllo wörld!", 9, "héllo ..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TruncateRunes(tc.s, tc.max); got != tc.want {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tc.s, tc.max, got, tc.want)
			}
		})
	}
}

func TestRuneLen(t *testing.T) {
	if got := RuneLen("héllo"); got != 5 {
		t.Errorf("RuneLen(héllo) = %d, want 5", got)
	}
	if got := RuneLen("こんにちは"); got != 5 {
		t.Errorf("RuneLen(こんにちは) = %d, want 5", got)
	}
}

func TestIsSpaceRune(t *testing.T) {
	for _, r := range " \t\n\r" {
		if !IsSpaceRune(r) {
			t.Errorf("IsSpaceRune(%q) = false, want true", r)
		}
	}
	for _, r := range "a@_0" {
		if IsSpaceRune(r) {
			t.Errorf("IsSpaceRune(%q) = true, want false", r)
		}
	}
}

func TestPadWidth(t *testing.T) {
	if got := PadWidth("ab", 5); got != "ab   " {
		t.Errorf("PadWidth(ab, 5) = %q", got)
	}
	if got := StringWidth(PadWidth("こんにちは", 6)); got != 6 {
		t.Errorf("PadWidth wide truncation width = %d, want 6", got)
	}
}

// =============================================================================
// CONVERSION TESTS
// =============================================================================

func TestStringToInt(t *testing.T) {
	if got := StringToInt("42", 0); got != 42 {
		t.Errorf("StringToInt(42) = %d", got)
	}
	if got := StringToInt("nope", 7); got != 7 {
		t.Errorf("StringToInt fallback = %d, want 7", got)
	}
}
