// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mention implements the @-mention engine for the chatkit composer.
package mention

import (
	"github.com/jeranaias/chatkit-tui/internal/util"
)

// =============================================================================
// TRIGGER DETECTION
// =============================================================================

// DefaultTriggerChar activates mention suggestion.
const DefaultTriggerChar = '@'

// Trigger is the transient detection result for one caret position. It is
// recomputed on every caret or content change and never persisted.
type Trigger struct {
	// Active reports whether the caret sits inside a live trigger token.
	Active bool
	// Start is the rune index of the trigger character.
	Start int
	// Keyword is the filter text typed between the trigger character and the
	// caret.
	Keyword string
}

// SameToken reports whether two triggers refer to the same trigger character
// position. Used to detect that an async suggestion result still belongs to
// the trigger that requested it.
func (t Trigger) SameToken(o Trigger) bool {
	return t.Active && o.Active && t.Start == o.Start
}

// Detector scans the buffer around the caret for an active trigger.
type Detector struct {
	TriggerChar rune
	// KeywordLimit bounds the backward scan: a trigger whose keyword would
	// exceed it is not live. Zero means unbounded.
	KeywordLimit int
}

// NewDetector creates a detector for the default @ trigger.
func NewDetector() Detector {
	return Detector{TriggerChar: DefaultTriggerChar}
}

// Detect scans backward from the caret for the nearest trigger character
// within the current word.
//
// The scan stops at whitespace, a line break, the buffer start, or once the
// keyword would exceed KeywordLimit. A trigger
// character inside a confirmed mention span never re-triggers, and a caret
// inside a confirmed span is never a trigger position regardless of adjacent
// text.
func (d Detector) Detect(text string, caret Range, index *SpanIndex) Trigger {
	trigger := d.TriggerChar
	if trigger == 0 {
		trigger = DefaultTriggerChar
	}

	runes := []rune(text)
	pos := caret.Start
	if pos < 0 {
		pos = 0
	}
	if pos > len(runes) {
		pos = len(runes)
	}

	// Caret strictly inside a confirmed mention: no trigger. A caret at a
	// span boundary is outside the token and scans normally.
	if index != nil {
		if s, ok := index.SpanAt(pos); ok && pos > s.Range.Start {
			return Trigger{}
		}
	}

	for i := pos - 1; i >= 0; i-- {
		// The keyword between a trigger at i and the caret is pos-i-1 runes.
		if d.KeywordLimit > 0 && pos-i-1 > d.KeywordLimit {
			return Trigger{}
		}
		r := runes[i]
		if util.IsSpaceRune(r) {
			return Trigger{}
		}
		if r != trigger {
			continue
		}
		// A trigger character consumed by a confirmed mention is ignored;
		// keep scanning toward the word start.
		if index != nil {
			if _, ok := index.SpanAt(i); ok {
				continue
			}
		}
		return Trigger{
			Active:  true,
			Start:   i,
			Keyword: string(runes[i+1 : pos]),
		}
	}
	return Trigger{}
}
