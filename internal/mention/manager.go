// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mention implements the @-mention engine for the chatkit composer.
package mention

import (
	"github.com/jeranaias/chatkit-tui/internal/model"
	"github.com/jeranaias/chatkit-tui/internal/util"
)

// =============================================================================
// SESSION STATE
// =============================================================================

// State is the compose-session state of the Manager.
type State int

const (
	// StateIdle: no active trigger, composing a new message.
	StateIdle State = iota
	// StateSuggesting: a trigger is active and candidates are being offered.
	StateSuggesting
	// StateEditing: composing an edit of an existing message.
	StateEditing
)

// String returns the state name for logs and tests.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSuggesting:
		return "suggesting"
	case StateEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// =============================================================================
// COLLABORATOR CONTRACTS
// =============================================================================

// Delegate receives the manager's outward notifications. All callbacks fire
// on the UI thread.
type Delegate interface {
	// SuggestionsRequested fires when a trigger activates or its keyword
	// changes; the host typically mirrors it into a loading state.
	SuggestionsRequested(keyword string)

	// SuggestionsChanged delivers the candidates to present. triggered is
	// false when the suggestion list should be dismissed.
	SuggestionsChanged(members []model.User, keyword string, triggered bool)

	// MentionInserted fires after a mention span has been committed to the
	// buffer and the caret repositioned past it.
	MentionInserted(user model.User)
}

// DataSource supplies candidate users for a keyword. FetchUsers may complete
// asynchronously; deliver must be invoked on the UI thread with the result.
type DataSource interface {
	FetchUsers(keyword string, deliver func(users []model.User))
}

// Config holds the tunables of a Manager.
type Config struct {
	// TriggerChar activates suggestion. Defaults to '@'.
	TriggerChar rune
	// SuggestionLimit caps the rows offered to the presenter.
	SuggestionLimit int
	// MentionLimit caps distinct mentioned users per message.
	MentionLimit int
	// KeywordLimit caps the keyword length scanned back from the caret; a
	// longer tail is no longer a trigger.
	KeywordLimit int
}

// DefaultConfig returns the stock manager configuration.
func DefaultConfig() Config {
	return Config{
		TriggerChar:     DefaultTriggerChar,
		SuggestionLimit: 15,
		MentionLimit:    10,
		KeywordLimit:    30,
	}
}

// =============================================================================
// MENTION MANAGER
// =============================================================================

// Manager orchestrates trigger detection, the suggestion handshake, mention
// insertion, and the template codec for one composer.
//
// The manager is UI-thread-affine and holds no locks; see the package
// comment. It keeps a non-owning handle to the editor last passed to
// HandleMentionSuggestion so that asynchronous suggestion deliveries can
// re-validate against the live buffer.
type Manager struct {
	cfg      Config
	detector Detector

	delegate Delegate
	source   DataSource
	attrs    TextAttributes

	index   *SpanIndex
	trigger Trigger
	editing bool

	// Suggestion handshake
	suggesting bool
	fetchSeq   int
	pending    []model.User
	lastEditor Editor

	// Selection feedback guard
	skipSelection bool
}

// NewManager creates a manager with the given configuration. Zero-valued
// config fields fall back to DefaultConfig.
func NewManager(cfg Config) *Manager {
	def := DefaultConfig()
	if cfg.TriggerChar == 0 {
		cfg.TriggerChar = def.TriggerChar
	}
	if cfg.SuggestionLimit <= 0 {
		cfg.SuggestionLimit = def.SuggestionLimit
	}
	if cfg.MentionLimit <= 0 {
		cfg.MentionLimit = def.MentionLimit
	}
	if cfg.KeywordLimit <= 0 {
		cfg.KeywordLimit = def.KeywordLimit
	}
	return &Manager{
		cfg:      cfg,
		detector: Detector{TriggerChar: cfg.TriggerChar, KeywordLimit: cfg.KeywordLimit},
		index:    NewSpanIndex(),
	}
}

// Configure binds the manager's collaborators and attribute profiles. It is
// idempotent and may be re-invoked at any time, e.g. to rebind attributes
// after a theme change; confirmed spans and trigger state are untouched.
func (m *Manager) Configure(delegate Delegate, source DataSource, attrs TextAttributes) {
	m.delegate = delegate
	m.source = source
	m.attrs = attrs
}

// State returns the current compose-session state.
func (m *Manager) State() State {
	switch {
	case m.suggesting:
		return StateSuggesting
	case m.editing:
		return StateEditing
	default:
		return StateIdle
	}
}

// Spans returns the confirmed mention spans in insertion order.
func (m *Manager) Spans() []Span {
	return m.index.Spans()
}

// MentionedUsers returns the distinct mentioned users in insertion order.
func (m *Manager) MentionedUsers() []model.User {
	return m.index.Users()
}

// LimitReached reports whether the distinct mentioned-user count has hit the
// configured cap. The presenter collapses to its limit guide row when true.
func (m *Manager) LimitReached() bool {
	return m.index.DistinctUserCount() >= m.cfg.MentionLimit
}

// Config returns the manager's effective configuration.
func (m *Manager) Config() Config {
	return m.cfg
}

// =============================================================================
// EDIT GATING
// =============================================================================

// ShouldChangeText is called before an edit is applied to the buffer.
//
// Mentions are atomic tokens: an edit landing inside a confirmed span is
// vetoed, and a deletion touching any part of a span is expanded to remove
// the whole span (and its list entry). When the method returns true the host
// applies the edit as-is and the index has already been shifted for it;
// false means the edit must not be applied - either it was vetoed or the
// manager performed the expanded deletion itself.
func (m *Manager) ShouldChangeText(ed Editor, edited Range, replacement string) bool {
	if !editorSupported(ed) {
		return true
	}

	if edited.Empty() {
		// Pure insertion. Vetoed only strictly inside a span; inserting at a
		// span boundary is ordinary typing next to a mention.
		if s, ok := m.index.SpanAt(edited.Start); ok && edited.Start > s.Range.Start {
			return false
		}
		m.index.ApplyEdit(edited, util.RuneLen(replacement))
		return true
	}

	touched := m.index.Intersecting(edited)
	if len(touched) == 0 {
		m.index.ApplyEdit(edited, util.RuneLen(replacement))
		return true
	}

	if replacement == "" {
		// Deletion touching one or more spans: delete each touched span as a
		// whole unit along with the requested range.
		union := edited
		for _, s := range touched {
			union = union.Union(s.Range)
		}
		m.index.ApplyEdit(union, 0)
		ed.ReplaceRange(union, "")
		m.skipSelection = true
		ed.SetSelectedRange(Caret(union.Start))
		return false
	}

	// Replacement text over spans: allowed only when every touched span is
	// replaced in full, e.g. select-all-and-type. A partial cut would leave
	// half a token behind.
	for _, s := range touched {
		if !edited.ContainsRange(s.Range) {
			return false
		}
	}
	m.index.ApplyEdit(edited, util.RuneLen(replacement))
	return true
}

// NeedToSkipSelection reports whether the current selection change was caused
// by the manager's own caret repositioning. The flag is consumed: it answers
// true exactly once per programmatic move.
func (m *Manager) NeedToSkipSelection(ed Editor) bool {
	if !editorSupported(ed) {
		return false
	}
	skip := m.skipSelection
	m.skipSelection = false
	return skip
}

// =============================================================================
// SUGGESTION HANDSHAKE
// =============================================================================

// HandleMentionSuggestion runs trigger detection for the given caret and
// drives the suggestion handshake: on an active trigger it requests
// candidates for the keyword, on an inactive one it dismisses any visible
// list.
func (m *Manager) HandleMentionSuggestion(ed Editor, caret Range) {
	if !editorSupported(ed) {
		m.dismissSuggestions()
		return
	}
	m.lastEditor = ed

	tr := m.detector.Detect(ed.Text(), caret, m.index)
	if !tr.Active {
		m.trigger = Trigger{}
		m.fetchSeq++ // abandon any in-flight fetch
		m.dismissSuggestions()
		return
	}

	sameToken := tr.SameToken(m.trigger)
	m.trigger = tr
	m.fetchSeq++
	seq := m.fetchSeq

	if m.delegate != nil {
		m.delegate.SuggestionsRequested(tr.Keyword)
	}

	if m.source == nil {
		return
	}
	if sameToken && len(m.pending) > 0 {
		// Same trigger, keyword refined: refilter what we already have while
		// the fresh fetch is in flight.
		m.presentCandidates(m.pending)
	}
	m.source.FetchUsers(tr.Keyword, func(users []model.User) {
		m.UpdateSuggestedUsers(seq, users)
	})
}

// UpdateSuggestedUsers delivers an asynchronous fetch result. seq is the
// token captured when the fetch was issued; results from a superseded fetch
// are discarded without touching the UI.
func (m *Manager) UpdateSuggestedUsers(seq int, users []model.User) {
	if seq != m.fetchSeq {
		return // stale result for an abandoned trigger
	}
	m.pending = users
	m.HandlePendingMentionSuggestion()
}

// HandlePendingMentionSuggestion re-validates the last-known trigger against
// the live buffer and, if it still stands, presents the pending candidates.
// Called after an async fetch completes; if the caret has since left the
// trigger the list is dismissed instead.
func (m *Manager) HandlePendingMentionSuggestion() {
	ed := m.lastEditor
	if !editorSupported(ed) {
		m.dismissSuggestions()
		return
	}

	tr := m.detector.Detect(ed.Text(), ed.SelectedRange(), m.index)
	if !tr.Active || !tr.SameToken(m.trigger) {
		m.trigger = Trigger{}
		m.dismissSuggestions()
		return
	}

	// The caret may have advanced within the same trigger while the fetch
	// was in flight; filter with the current keyword.
	m.trigger = tr
	m.presentCandidates(m.pending)
}

// presentCandidates filters pending users by the active keyword, trims the
// list to the suggestion limit, and notifies the delegate.
func (m *Manager) presentCandidates(users []model.User) {
	filtered := FilterCandidates(users, m.trigger.Keyword)
	filtered = TrimCandidates(filtered, m.cfg.SuggestionLimit)
	m.suggesting = len(filtered) > 0
	if m.delegate != nil {
		m.delegate.SuggestionsChanged(filtered, m.trigger.Keyword, m.suggesting)
	}
}

// dismissSuggestions clears the suggesting state and tells the delegate to
// stop presenting. Safe to call repeatedly.
func (m *Manager) dismissSuggestions() {
	wasSuggesting := m.suggesting
	m.suggesting = false
	m.pending = nil
	if wasSuggesting && m.delegate != nil {
		m.delegate.SuggestionsChanged(nil, "", false)
	}
}

// =============================================================================
// MENTION INSERTION
// =============================================================================

// AddMention replaces the active trigger span with the user's rendered
// mention, styles it, records the span, and repositions the caret just past
// the inserted text (plus a separating space). Returns false when there is no
// active trigger or the editor does not support mentions.
func (m *Manager) AddMention(ed Editor, user model.User) bool {
	if !editorSupported(ed) || !user.Valid() || !m.trigger.Active {
		return false
	}

	caret := ed.SelectedRange()
	replaced := Range{Start: m.trigger.Start, End: caret.Start}
	if replaced.Start < 0 || replaced.End < replaced.Start {
		return false
	}

	rendered := renderedMention(user)
	insertion := rendered + " "
	ed.ReplaceRange(replaced, insertion)

	// Shift spans after the trigger by the length delta, then record the new
	// span over the freshly inserted text.
	m.index.ApplyEdit(replaced, util.RuneLen(insertion))
	span := Span{
		User:  user,
		Range: Range{Start: replaced.Start, End: replaced.Start + util.RuneLen(rendered)},
	}
	m.index.Add(span)
	ed.ApplyStyle(span.Range, m.attrs.Mention)

	m.skipSelection = true
	ed.SetSelectedRange(Caret(replaced.Start + util.RuneLen(insertion)))

	m.trigger = Trigger{}
	m.dismissSuggestions()
	if m.delegate != nil {
		m.delegate.MentionInserted(user)
	}
	return true
}

// =============================================================================
// TEMPLATE INTEGRATION
// =============================================================================

// Template serializes the editor's current text and confirmed spans into the
// template wire form.
func (m *Manager) Template(ed Editor) string {
	if !editorSupported(ed) {
		return ""
	}
	return GenerateTemplate(ed.Text(), m.index.Spans())
}

// StartEditing enters edit mode on an existing message: the template is
// parsed, the editor buffer replaced with the display form, mention spans
// rebuilt and styled, and the caret placed at the end.
func (m *Manager) StartEditing(ed Editor, template string, users []model.User) {
	if !editorSupported(ed) {
		return
	}
	m.rehydrate(ed, template, users)
	m.editing = true
}

// LoadTemplate rebuilds the buffer and mention spans from a template without
// entering edit mode. Used to restore a saved draft: the user is still
// composing a new message, so the session stays idle.
func (m *Manager) LoadTemplate(ed Editor, template string, users []model.User) {
	if !editorSupported(ed) {
		return
	}
	m.rehydrate(ed, template, users)
	m.editing = false
}

// rehydrate replaces the editor buffer with the template's display form,
// rebuilds and styles the mention spans, and places the caret at the end.
func (m *Manager) rehydrate(ed Editor, template string, users []model.User) {
	m.lastEditor = ed

	text, spans := BuildFromTemplate(template, users)
	ed.ReplaceRange(Range{Start: 0, End: util.RuneLen(ed.Text())}, text)
	ed.ApplyStyle(Range{Start: 0, End: util.RuneLen(text)}, m.attrs.Default)

	m.index.Reset()
	for _, s := range spans {
		m.index.Add(s)
		ed.ApplyStyle(s.Range, m.attrs.Mention)
	}

	m.trigger = Trigger{}
	m.suggesting = false
	m.pending = nil

	m.skipSelection = true
	ed.SetSelectedRange(Caret(util.RuneLen(text)))
}

// Reset ends the compose session: confirmed spans, trigger state, pending
// candidates, and edit mode are all cleared, and any in-flight fetch is
// invalidated. Called on send, cancel-edit, or mode change.
func (m *Manager) Reset() {
	m.index.Reset()
	m.trigger = Trigger{}
	m.editing = false
	m.pending = nil
	m.fetchSeq++ // invalidate in-flight fetches
	m.dismissSuggestions()
}
