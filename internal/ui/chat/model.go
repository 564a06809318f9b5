// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatkit-tui/internal/config"
	"github.com/jeranaias/chatkit-tui/internal/directory"
	"github.com/jeranaias/chatkit-tui/internal/mention"
	"github.com/jeranaias/chatkit-tui/internal/model"
	"github.com/jeranaias/chatkit-tui/internal/session"
	"github.com/jeranaias/chatkit-tui/internal/storage"
	"github.com/jeranaias/chatkit-tui/internal/ui/components"
	"github.com/jeranaias/chatkit-tui/internal/ui/styles"
)

// =============================================================================
// FOCUS
// =============================================================================

// Focus identifies which panel receives keyboard input.
type Focus int

const (
	FocusChannels Focus = iota
	FocusComposer
)

const channelPanelWidth = 28

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	theme *styles.Theme
	cfg   *config.Config

	width  int
	height int
	focus  Focus

	// Identity
	self model.User

	// Persistence; either may be nil, in which case the feature is off.
	store  *storage.Store
	drafts *session.DraftStore

	// Mention engine
	mentions *mention.Manager
	fetches  *fetchQueue
	dir      *directory.Service

	// Components
	channels    *components.ChannelList
	thread      *components.ThreadView
	composer    *components.Composer
	suggestions *components.SuggestionList
	spinner     components.Spinner

	// Auto-save
	autosave *session.Manager

	// Active conversation
	activeChannel *model.Channel
	messages      []*model.Message

	// Message being edited, nil when composing a new one.
	editingMsg *model.Message

	keyMap  KeyMap
	status  string
	lastErr error
}

// New creates the chat model. store and drafts may be nil; dir must not be.
func New(cfg *config.Config, theme *styles.Theme, self model.User, store *storage.Store, drafts *session.DraftStore, dir *directory.Service) *Model {
	m := &Model{
		theme:       theme,
		cfg:         cfg,
		focus:       FocusComposer,
		self:        self,
		store:       store,
		drafts:      drafts,
		dir:         dir,
		fetches:     &fetchQueue{},
		channels:    components.NewChannelList(theme),
		thread:      components.NewThreadView(theme, self.ID),
		composer:    components.NewComposer(theme),
		suggestions: components.NewSuggestionList(theme),
		spinner:     components.NewSpinner(theme),
		keyMap:      DefaultKeyMap(),
	}

	m.mentions = mention.NewManager(mention.Config{
		TriggerChar:     cfg.TriggerRune(),
		SuggestionLimit: cfg.Mention.SuggestionLimit,
		MentionLimit:    cfg.Mention.MentionLimit,
		KeywordLimit:    cfg.Mention.KeywordLimit,
	})
	m.mentions.Configure(m, m.fetches, mention.TextAttributes{
		Default: theme.DefaultText,
		Mention: theme.MentionText,
	})

	m.composer.SetMaxChars(cfg.UI.MaxMessageChars)
	m.composer.SetPlaceholder("Message (@ to mention)")
	m.composer.Focus()
	m.suggestions.SetLimit(cfg.Mention.SuggestionLimit)

	m.autosave = session.NewManager(session.Config{
		Enabled:  drafts != nil && cfg.Draft.AutoSaveSecs > 0,
		Interval: time.Duration(cfg.Draft.AutoSaveSecs) * time.Second,
	})
	m.autosave.SetSaveCallback(m.saveDrafts)

	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadChannelsCmd(), session.TickCmd())
}

// SetSize propagates a terminal resize to every component.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)
	m.channels.SetSize(channelPanelWidth, height-1)

	contentWidth := width - channelPanelWidth - 2
	if contentWidth < 20 {
		contentWidth = 20
	}
	m.thread.SetWidth(contentWidth)
	m.composer.SetWidth(contentWidth)
	m.suggestions.SetWidth(min(40, contentWidth))
}

// applyConfig absorbs a hot-reloaded configuration. Mention spans already in
// the buffer are untouched; new limits apply from the next trigger on.
func (m *Model) applyConfig(cfg *config.Config) {
	m.cfg = cfg
	m.composer.SetMaxChars(cfg.UI.MaxMessageChars)
	m.suggestions.SetLimit(cfg.Mention.SuggestionLimit)
	m.mentions = mention.NewManager(mention.Config{
		TriggerChar:     cfg.TriggerRune(),
		SuggestionLimit: cfg.Mention.SuggestionLimit,
		MentionLimit:    cfg.Mention.MentionLimit,
		KeywordLimit:    cfg.Mention.KeywordLimit,
	})
	m.mentions.Configure(m, m.fetches, mention.TextAttributes{
		Default: m.theme.DefaultText,
		Mention: m.theme.MentionText,
	})
	// The rebuilt manager lost the composer's spans; start a fresh compose
	// session so index and buffer agree.
	m.composer.Reset()
	m.editingMsg = nil
	m.restoreDraft()
}

// ActiveChannel returns the channel the thread shows, if any.
func (m *Model) ActiveChannel() (*model.Channel, bool) {
	return m.activeChannel, m.activeChannel != nil
}

// =============================================================================
// MENTION DELEGATE
// =============================================================================

// SuggestionsRequested implements mention.Delegate.
func (m *Model) SuggestionsRequested(keyword string) {
	// The popup keeps showing the previous candidates until the fetch lands;
	// nothing to mirror here.
}

// SuggestionsChanged implements mention.Delegate.
func (m *Model) SuggestionsChanged(members []model.User, keyword string, triggered bool) {
	if !triggered {
		if m.mentions.LimitReached() && m.mentions.State() == mention.StateSuggesting {
			m.suggestions.ShowLimitGuide()
			return
		}
		m.suggestions.Dismiss()
		return
	}
	if m.mentions.LimitReached() {
		m.suggestions.ShowLimitGuide()
		return
	}
	m.suggestions.Show(members, keyword)
}

// MentionInserted implements mention.Delegate.
func (m *Model) MentionInserted(user model.User) {
	m.status = "mentioned " + user.DisplayName()
}

// =============================================================================
// FETCH BRIDGE
// =============================================================================

// fetchQueue is the mention data source handed to the manager. The manager
// calls FetchUsers synchronously from the update goroutine; the queue records
// the request and the model drains it into a tea.Cmd, so the actual lookup
// runs off-thread and its result re-enters Update as a message.
type fetchQueue struct {
	reqs []fetchRequest
}

type fetchRequest struct {
	keyword string
	deliver func(users []model.User)
}

func (q *fetchQueue) FetchUsers(keyword string, deliver func(users []model.User)) {
	q.reqs = append(q.reqs, fetchRequest{keyword: keyword, deliver: deliver})
}

// drainFetches converts queued lookup requests into commands.
func (m *Model) drainFetches() tea.Cmd {
	reqs := m.fetches.reqs
	m.fetches.reqs = nil
	if len(reqs) == 0 {
		return nil
	}

	timeout := time.Duration(m.cfg.Directory.FetchTimeoutMs) * time.Millisecond
	cmds := make([]tea.Cmd, 0, len(reqs))
	for _, req := range reqs {
		req := req
		cmds = append(cmds, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			users, err := m.dir.Search(ctx, req.keyword)
			if err != nil {
				users = nil
			}
			// The composing user never suggests themselves.
			users = mention.ExcludeUser(users, m.self.ID)
			return SuggestionsFetchedMsg{Deliver: func() {
				req.deliver(users)
			}}
		})
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// DRAFTS
// =============================================================================

// captureDraft snapshots the composer into the draft store for the active
// channel. Editing an existing message is not a draft.
func (m *Model) captureDraft() {
	if m.drafts == nil || m.activeChannel == nil || m.editingMsg != nil {
		return
	}
	m.drafts.Put(m.activeChannel.ID, m.mentions.Template(m.composer), m.mentions.MentionedUsers())
}

// saveDrafts is the auto-save callback.
func (m *Model) saveDrafts() error {
	if m.drafts == nil {
		return nil
	}
	m.captureDraft()
	return m.drafts.Save()
}

// restoreDraft loads the active channel's draft into the composer.
func (m *Model) restoreDraft() {
	if m.drafts == nil || m.activeChannel == nil {
		return
	}
	d, ok := m.drafts.Get(m.activeChannel.ID)
	if !ok {
		return
	}
	// A restored draft is still a new message: rebuild the spans without
	// entering edit mode.
	m.mentions.LoadTemplate(m.composer, d.Body, d.Mentioned)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
