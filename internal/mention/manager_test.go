// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatkit-tui/internal/model"
)

// =============================================================================
// TEST DOUBLES
// =============================================================================

// fakeEditor is an in-memory editable text surface.
type fakeEditor struct {
	runes  []rune
	sel    Range
	styled []Range // ranges ApplyStyle was called with
}

func newFakeEditor(text string, caret int) *fakeEditor {
	return &fakeEditor{runes: []rune(text), sel: Caret(caret)}
}

func (e *fakeEditor) Text() string         { return string(e.runes) }
func (e *fakeEditor) SelectedRange() Range { return e.sel }

func (e *fakeEditor) SetSelectedRange(r Range) { e.sel = e.clamp(r) }

func (e *fakeEditor) ReplaceRange(r Range, s string) {
	r = e.clamp(r)
	out := make([]rune, 0, len(e.runes)+len(s))
	out = append(out, e.runes[:r.Start]...)
	out = append(out, []rune(s)...)
	out = append(out, e.runes[r.End:]...)
	e.runes = out
}

func (e *fakeEditor) ApplyStyle(r Range, _ lipgloss.Style) {
	e.styled = append(e.styled, r)
}

func (e *fakeEditor) clamp(r Range) Range {
	n := len(e.runes)
	if r.Start < 0 {
		r.Start = 0
	}
	if r.Start > n {
		r.Start = n
	}
	if r.End < r.Start {
		r.End = r.Start
	}
	if r.End > n {
		r.End = n
	}
	return r
}

// plainEditor is a surface that declares itself mention-incapable.
type plainEditor struct{ fakeEditor }

func (p *plainEditor) SupportsMentions() bool { return false }

// recordingDelegate captures delegate notifications in order.
type recordingDelegate struct {
	requested []string
	changed   []suggestionChange
	inserted  []model.User
}

type suggestionChange struct {
	members   []model.User
	keyword   string
	triggered bool
}

func (d *recordingDelegate) SuggestionsRequested(keyword string) {
	d.requested = append(d.requested, keyword)
}

func (d *recordingDelegate) SuggestionsChanged(members []model.User, keyword string, triggered bool) {
	d.changed = append(d.changed, suggestionChange{members: members, keyword: keyword, triggered: triggered})
}

func (d *recordingDelegate) MentionInserted(u model.User) {
	d.inserted = append(d.inserted, u)
}

func (d *recordingDelegate) lastChange() (suggestionChange, bool) {
	if len(d.changed) == 0 {
		return suggestionChange{}, false
	}
	return d.changed[len(d.changed)-1], true
}

// manualSource holds fetch requests until the test releases them, simulating
// an asynchronous member query.
type manualSource struct {
	keywords []string
	deliver  func(users []model.User)
}

func (s *manualSource) FetchUsers(keyword string, deliver func(users []model.User)) {
	s.keywords = append(s.keywords, keyword)
	s.deliver = deliver
}

func newTestManager() (*Manager, *recordingDelegate, *manualSource) {
	m := NewManager(DefaultConfig())
	delegate := &recordingDelegate{}
	source := &manualSource{}
	m.Configure(delegate, source, TextAttributes{
		Default: lipgloss.NewStyle(),
		Mention: lipgloss.NewStyle().Bold(true),
	})
	return m, delegate, source
}

var roster = []model.User{
	{ID: "u1", Nickname: "alice"},
	{ID: "u2", Nickname: "albert"},
	{ID: "u3", Nickname: "bob"},
}

// =============================================================================
// SUGGESTION HANDSHAKE TESTS
// =============================================================================

func TestManager_SuggestionFlow(t *testing.T) {
	m, delegate, source := newTestManager()
	ed := newFakeEditor("hello @al", 9)

	m.HandleMentionSuggestion(ed, ed.SelectedRange())
	require.Equal(t, []string{"al"}, delegate.requested)
	require.Equal(t, []string{"al"}, source.keywords)
	assert.Equal(t, StateIdle, m.State(), "nothing presented until the fetch lands")

	source.deliver(roster)

	change, ok := delegate.lastChange()
	require.True(t, ok)
	assert.True(t, change.triggered)
	assert.Equal(t, "al", change.keyword)
	require.Len(t, change.members, 2)
	assert.Equal(t, "u1", change.members[0].ID)
	assert.Equal(t, "u2", change.members[1].ID)
	assert.Equal(t, StateSuggesting, m.State())
}

func TestManager_StaleSuggestionDiscarded(t *testing.T) {
	m, delegate, source := newTestManager()
	ed := newFakeEditor("hello @al", 9)

	m.HandleMentionSuggestion(ed, ed.SelectedRange())
	require.NotNil(t, source.deliver)

	// Caret leaves the trigger before the fetch returns.
	ed.SetSelectedRange(Caret(0))
	m.HandleMentionSuggestion(ed, ed.SelectedRange())

	source.deliver(roster)

	for _, c := range delegate.changed {
		assert.False(t, c.triggered, "stale result must not present a list")
	}
	assert.Equal(t, StateIdle, m.State())
}

func TestManager_PendingRevalidatesAgainstLiveBuffer(t *testing.T) {
	m, delegate, source := newTestManager()
	ed := newFakeEditor("hello @al", 9)

	m.HandleMentionSuggestion(ed, ed.SelectedRange())

	// The caret moves without the host re-running detection. The delivery
	// path itself must notice the trigger is gone.
	ed.SetSelectedRange(Caret(2))
	source.deliver(roster)

	change, ok := delegate.lastChange()
	if ok {
		assert.False(t, change.triggered)
	}
	assert.Equal(t, StateIdle, m.State())
}

func TestManager_DismissNotifiesOnce(t *testing.T) {
	m, delegate, source := newTestManager()
	ed := newFakeEditor("hello @al", 9)

	m.HandleMentionSuggestion(ed, ed.SelectedRange())
	source.deliver(roster)
	require.Equal(t, StateSuggesting, m.State())

	ed.SetSelectedRange(Caret(0))
	m.HandleMentionSuggestion(ed, ed.SelectedRange())
	change, _ := delegate.lastChange()
	assert.False(t, change.triggered)

	before := len(delegate.changed)
	m.HandleMentionSuggestion(ed, ed.SelectedRange())
	assert.Equal(t, before, len(delegate.changed), "repeat dismiss should not re-notify")
}

// =============================================================================
// INSERTION TESTS
// =============================================================================

func TestManager_AddMention(t *testing.T) {
	m, delegate, source := newTestManager()
	ed := newFakeEditor("hello @al", 9)

	m.HandleMentionSuggestion(ed, ed.SelectedRange())
	source.deliver(roster)

	ok := m.AddMention(ed, roster[0])
	require.True(t, ok)

	assert.Equal(t, "hello @alice ", ed.Text())
	assert.Equal(t, Caret(13), ed.SelectedRange(), "caret lands after the span and separator")

	spans := m.Spans()
	require.Len(t, spans, 1)
	assert.Equal(t, Range{Start: 6, End: 12}, spans[0].Range)
	assert.Equal(t, "u1", spans[0].User.ID)

	require.Len(t, delegate.inserted, 1)
	assert.Equal(t, "u1", delegate.inserted[0].ID)
	assert.Equal(t, StateIdle, m.State(), "suggesting ends on insertion")

	assert.True(t, m.NeedToSkipSelection(ed), "programmatic caret move must be skippable")
	assert.False(t, m.NeedToSkipSelection(ed), "skip flag is consumed")
}

func TestManager_AddMentionShiftsLaterSpans(t *testing.T) {
	m, _, source := newTestManager()

	// Start from an edit session so a confirmed span exists after the spot
	// where the new mention gets inserted.
	ed := newFakeEditor("", 0)
	m.StartEditing(ed, "intro @{u3} outro", roster)
	require.Equal(t, "intro @bob outro", ed.Text())

	// New trigger typed at the front of the buffer.
	ed.ReplaceRange(Caret(0), "@al ")
	m.ShouldChangeText(ed, Caret(0), "@al ")
	ed.SetSelectedRange(Caret(3))
	m.HandleMentionSuggestion(ed, ed.SelectedRange())
	source.deliver(roster)

	require.True(t, m.AddMention(ed, roster[0]))
	assert.Equal(t, "@alice  intro @bob outro", ed.Text())

	sorted := NewSpanIndex()
	for _, s := range m.Spans() {
		require.True(t, sorted.Add(s), "spans must stay disjoint after insertion")
	}
	byStart := sorted.Sorted()
	require.Len(t, byStart, 2)
	assert.Equal(t, Range{Start: 0, End: 6}, byStart[0].Range)
	assert.Equal(t, "u1", byStart[0].User.ID)
	assert.Equal(t, Range{Start: 14, End: 18}, byStart[1].Range)
	assert.Equal(t, "u3", byStart[1].User.ID)
}

func TestManager_AddMentionWithoutTrigger(t *testing.T) {
	m, _, _ := newTestManager()
	ed := newFakeEditor("hello", 5)
	assert.False(t, m.AddMention(ed, roster[0]))
	assert.Empty(t, m.Spans())
}

// =============================================================================
// ATOMICITY TESTS
// =============================================================================

// insertMention is a test helper that drives a full trigger-and-insert cycle.
func insertMention(t *testing.T, m *Manager, source *manualSource, ed *fakeEditor, u model.User) {
	t.Helper()
	m.HandleMentionSuggestion(ed, ed.SelectedRange())
	source.deliver(roster)
	require.True(t, m.AddMention(ed, u))
}

func TestManager_DeletingInsideMentionRemovesWholeSpan(t *testing.T) {
	m, _, source := newTestManager()
	ed := newFakeEditor("hi @al", 6)
	insertMention(t, m, source, ed, roster[0])
	require.Equal(t, "hi @alice ", ed.Text())

	// Backspace over the final rune of the span [3,9).
	ok := m.ShouldChangeText(ed, Range{Start: 8, End: 9}, "")
	assert.False(t, ok, "manager performs the expanded deletion itself")
	assert.Equal(t, "hi  ", ed.Text(), "entire span removed as a unit")
	assert.Empty(t, m.Spans(), "mention removed from the mentioned list")
	assert.Equal(t, Caret(3), ed.SelectedRange())
	assert.True(t, m.NeedToSkipSelection(ed))
}

func TestManager_InsertionInsideMentionVetoed(t *testing.T) {
	m, _, source := newTestManager()
	ed := newFakeEditor("hi @al", 6)
	insertMention(t, m, source, ed, roster[0])

	ok := m.ShouldChangeText(ed, Caret(5), "x")
	assert.False(t, ok)
	assert.Equal(t, "hi @alice ", ed.Text(), "vetoed edit leaves the buffer alone")
	require.Len(t, m.Spans(), 1)
}

func TestManager_EditsAroundMentionsShiftSpans(t *testing.T) {
	m, _, source := newTestManager()
	ed := newFakeEditor("hi @al", 6)
	insertMention(t, m, source, ed, roster[0])
	require.Equal(t, Range{Start: 3, End: 9}, m.Spans()[0].Range)

	t.Run("insertion before span shifts it", func(t *testing.T) {
		ok := m.ShouldChangeText(ed, Caret(0), "oh ")
		require.True(t, ok)
		ed.ReplaceRange(Caret(0), "oh ")
		assert.Equal(t, Range{Start: 6, End: 12}, m.Spans()[0].Range)
	})

	t.Run("insertion after span leaves it alone", func(t *testing.T) {
		end := Caret(len([]rune(ed.Text())))
		ok := m.ShouldChangeText(ed, end, "!")
		require.True(t, ok)
		ed.ReplaceRange(end, "!")
		assert.Equal(t, Range{Start: 6, End: 12}, m.Spans()[0].Range)
	})

	t.Run("insertion at span boundary is allowed", func(t *testing.T) {
		ok := m.ShouldChangeText(ed, Caret(6), "~")
		require.True(t, ok)
		ed.ReplaceRange(Caret(6), "~")
		assert.Equal(t, Range{Start: 7, End: 13}, m.Spans()[0].Range)
	})
}

func TestManager_ReplaceCoveringSpanAllowed(t *testing.T) {
	m, _, source := newTestManager()
	ed := newFakeEditor("hi @al", 6)
	insertMention(t, m, source, ed, roster[0])

	whole := Range{Start: 0, End: len([]rune(ed.Text()))}
	ok := m.ShouldChangeText(ed, whole, "fresh start")
	assert.True(t, ok, "replacing the whole buffer covers the span in full")
	assert.Empty(t, m.Spans())
}

func TestManager_PartialReplaceOverSpanVetoed(t *testing.T) {
	m, _, source := newTestManager()
	ed := newFakeEditor("hi @al", 6)
	insertMention(t, m, source, ed, roster[0])

	// Replacement overlapping half the span.
	ok := m.ShouldChangeText(ed, Range{Start: 6, End: 10}, "zzz")
	assert.False(t, ok)
	require.Len(t, m.Spans(), 1)
}

// =============================================================================
// EDIT MODE AND LIFECYCLE TESTS
// =============================================================================

func TestManager_StartEditing(t *testing.T) {
	m, _, _ := newTestManager()
	ed := newFakeEditor("", 0)

	m.StartEditing(ed, "ping @{u1} and @{ghost}", roster)

	assert.Equal(t, "ping @alice and @{ghost}", ed.Text())
	assert.Equal(t, StateEditing, m.State())
	require.Len(t, m.Spans(), 1)
	assert.Equal(t, Range{Start: 5, End: 11}, m.Spans()[0].Range)
	assert.Equal(t, Caret(len([]rune(ed.Text()))), ed.SelectedRange())
	assert.True(t, m.NeedToSkipSelection(ed))

	// Round trip back to the wire form, unknown id preserved literally.
	assert.Equal(t, "ping @{u1} and @{ghost}", m.Template(ed))
}

func TestManager_LoadTemplateStaysIdle(t *testing.T) {
	m, _, _ := newTestManager()
	ed := newFakeEditor("", 0)

	m.LoadTemplate(ed, "ping @{u1} later", roster)

	assert.Equal(t, "ping @alice later", ed.Text())
	assert.Equal(t, StateIdle, m.State(), "a restored draft is a new message, not an edit")
	require.Len(t, m.Spans(), 1)
	assert.Equal(t, Range{Start: 5, End: 11}, m.Spans()[0].Range)
	assert.Equal(t, Caret(len([]rune(ed.Text()))), ed.SelectedRange())

	// Round trip back to the wire form.
	assert.Equal(t, "ping @{u1} later", m.Template(ed))
}

func TestManager_LoadTemplateLeavesEditMode(t *testing.T) {
	m, _, _ := newTestManager()
	ed := newFakeEditor("", 0)

	m.StartEditing(ed, "old @{u1}", roster)
	require.Equal(t, StateEditing, m.State())

	m.LoadTemplate(ed, "draft @{u3}", roster)
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, "draft @bob", ed.Text())
}

func TestManager_SuggestionLimitTrimsPresentedList(t *testing.T) {
	m := NewManager(Config{SuggestionLimit: 2})
	delegate := &recordingDelegate{}
	source := &manualSource{}
	m.Configure(delegate, source, TextAttributes{})

	ed := newFakeEditor("@", 1)
	m.HandleMentionSuggestion(ed, ed.SelectedRange())
	source.deliver(roster)

	change, ok := delegate.lastChange()
	require.True(t, ok)
	require.True(t, change.triggered)
	// Over the limit: the overflow plus the last in-limit row are dropped so
	// the cut is visible.
	require.Len(t, change.members, 1)
	assert.Equal(t, "u1", change.members[0].ID)
}

func TestManager_Reset(t *testing.T) {
	m, _, source := newTestManager()
	ed := newFakeEditor("hi @al", 6)
	insertMention(t, m, source, ed, roster[0])
	require.NotEmpty(t, m.Spans())

	m.Reset()
	assert.Empty(t, m.Spans())
	assert.Equal(t, StateIdle, m.State())

	// In-flight fetches issued before the reset are invalidated.
	m.HandleMentionSuggestion(newFakeEditor("@a", 2), Caret(2))
	deliverBefore := source.deliver
	m.Reset()
	deliverBefore(roster)
	assert.Equal(t, StateIdle, m.State())
}

func TestManager_LimitReached(t *testing.T) {
	m := NewManager(Config{MentionLimit: 2})
	m.Configure(nil, nil, TextAttributes{})
	ed := newFakeEditor("", 0)

	m.StartEditing(ed, "@{u1} @{u3}", roster)
	assert.True(t, m.LimitReached())

	m.Reset()
	assert.False(t, m.LimitReached())
}

// =============================================================================
// UNSUPPORTED EDITOR TESTS
// =============================================================================

func TestManager_UnsupportedEditor(t *testing.T) {
	m, delegate, source := newTestManager()

	t.Run("nil editor", func(t *testing.T) {
		assert.True(t, m.ShouldChangeText(nil, Caret(0), "x"))
		assert.False(t, m.NeedToSkipSelection(nil))
		assert.False(t, m.AddMention(nil, roster[0]))
		assert.Equal(t, "", m.Template(nil))
		m.HandleMentionSuggestion(nil, Caret(0))
		m.StartEditing(nil, "@{u1}", roster)
		assert.Empty(t, m.Spans())
	})

	t.Run("mention-incapable editor", func(t *testing.T) {
		ed := &plainEditor{fakeEditor{runes: []rune("hi @al"), sel: Caret(6)}}
		m.HandleMentionSuggestion(ed, ed.SelectedRange())
		assert.Empty(t, source.keywords, "no fetch for an unsupported surface")
		assert.True(t, m.ShouldChangeText(ed, Caret(4), "x"), "gating defers to the host")
		assert.False(t, m.AddMention(ed, roster[0]))
		assert.Empty(t, delegate.inserted)
	})
}
