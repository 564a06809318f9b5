// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatkit-tui/internal/model"
)

// =============================================================================
// TEMPLATE CODEC TESTS
// =============================================================================

func TestGenerateTemplate(t *testing.T) {
	alice := user("u1", "alice")
	bob := user("u2", "bob")

	t.Run("single mention", func(t *testing.T) {
		text := "hey @alice, ship it"
		spans := []Span{{User: alice, Range: Range{Start: 4, End: 10}}}
		assert.Equal(t, "hey @{u1}, ship it", GenerateTemplate(text, spans))
	})

	t.Run("mentions emitted in start order regardless of insertion order", func(t *testing.T) {
		text := "@alice and @bob"
		spans := []Span{
			{User: bob, Range: Range{Start: 11, End: 15}},
			{User: alice, Range: Range{Start: 0, End: 6}},
		}
		assert.Equal(t, "@{u1} and @{u2}", GenerateTemplate(text, spans))
	})

	t.Run("no spans passes text through", func(t *testing.T) {
		assert.Equal(t, "plain text", GenerateTemplate("plain text", nil))
	})

	t.Run("stale range is skipped", func(t *testing.T) {
		// The span claims [4,10) but the buffer no longer holds "@alice".
		text := "hey @alopecia"
		spans := []Span{{User: alice, Range: Range{Start: 4, End: 10}}}
		assert.Equal(t, text, GenerateTemplate(text, spans))
	})

	t.Run("out-of-bounds range is skipped", func(t *testing.T) {
		spans := []Span{{User: alice, Range: Range{Start: 2, End: 99}}}
		assert.Equal(t, "hi", GenerateTemplate("hi", spans))
	})

	t.Run("overlapping second span is skipped", func(t *testing.T) {
		text := "@alice"
		spans := []Span{
			{User: alice, Range: Range{Start: 0, End: 6}},
			{User: bob, Range: Range{Start: 3, End: 6}},
		}
		assert.Equal(t, "@{u1}", GenerateTemplate(text, spans))
	})

	t.Run("id with braces degrades to literal text", func(t *testing.T) {
		odd := user("we{ird}", "weird")
		text := "cc @weird"
		spans := []Span{{User: odd, Range: Range{Start: 3, End: 9}}}
		assert.Equal(t, text, GenerateTemplate(text, spans))
	})
}

func TestBuildFromTemplate(t *testing.T) {
	alice := user("u1", "alice")
	bob := user("u2", "bob")
	users := []model.User{alice, bob}

	t.Run("rehydrates placeholders and spans", func(t *testing.T) {
		text, spans := BuildFromTemplate("hey @{u1}, ask @{u2}", users)
		assert.Equal(t, "hey @alice, ask @bob", text)
		require.Len(t, spans, 2)
		assert.Equal(t, Range{Start: 4, End: 10}, spans[0].Range)
		assert.Equal(t, "u1", spans[0].User.ID)
		assert.Equal(t, Range{Start: 16, End: 20}, spans[1].Range)
		assert.Equal(t, "u2", spans[1].User.ID)
	})

	t.Run("unknown id renders literal placeholder", func(t *testing.T) {
		text, spans := BuildFromTemplate("hey @{ghost}", users)
		assert.Equal(t, "hey @{ghost}", text)
		assert.Empty(t, spans)
	})

	t.Run("malformed placeholders stay literal", func(t *testing.T) {
		for _, tmpl := range []string{"a @{", "a @{x", "a @{a{b}", "a @{}", "a @{x\ny}"} {
			text, spans := BuildFromTemplate(tmpl, users)
			assert.Equal(t, tmpl, text, "template %q", tmpl)
			assert.Empty(t, spans, "template %q", tmpl)
		}
	})

	t.Run("plain @ passes through", func(t *testing.T) {
		text, spans := BuildFromTemplate("mail me @ home", users)
		assert.Equal(t, "mail me @ home", text)
		assert.Empty(t, spans)
	})

	t.Run("multibyte text before placeholder", func(t *testing.T) {
		text, spans := BuildFromTemplate("こんにちは @{u1}", users)
		assert.Equal(t, "こんにちは @alice", text)
		require.Len(t, spans, 1)
		// 5 CJK runes + space = rune offset 6.
		assert.Equal(t, Range{Start: 6, End: 12}, spans[0].Range)
	})
}

func TestTemplate_RoundTrip(t *testing.T) {
	alice := user("u1", "alice")
	bob := user("u2", "bob")
	users := []model.User{alice, bob}

	templates := []string{
		"hey @{u1}",
		"@{u1} and @{u2} review please",
		"no mentions at all",
		"tail mention @{u2}",
		"@{u1}@{u2} back to back",
	}

	for _, tmpl := range templates {
		text, spans := BuildFromTemplate(tmpl, users)
		assert.Equal(t, tmpl, GenerateTemplate(text, spans), "round trip of %q", tmpl)
	}
}

func TestTemplatableID(t *testing.T) {
	assert.True(t, TemplatableID("u-1742"))
	assert.False(t, TemplatableID(""))
	assert.False(t, TemplatableID("a{b"))
	assert.False(t, TemplatableID("a}b"))
	assert.False(t, TemplatableID("a\nb"))
}
