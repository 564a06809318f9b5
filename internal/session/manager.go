// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// AUTO-SAVE MANAGER
// =============================================================================

// Manager drives periodic draft auto-save. The UI marks it dirty whenever the
// composer changes; a once-a-second tick flushes dirty state to the store at
// the configured interval.
type Manager struct {
	mu sync.Mutex

	enabled  bool
	interval time.Duration
	lastSave time.Time
	isDirty  bool

	onSave func() error
}

// Config holds configuration for the auto-save manager.
type Config struct {
	// Enabled turns auto-save on.
	Enabled bool

	// Interval is how often dirty drafts are flushed (default: 15 seconds).
	Interval time.Duration
}

// DefaultConfig returns the default auto-save configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:  true,
		Interval: 15 * time.Second,
	}
}

// NewManager creates an auto-save manager.
func NewManager(cfg Config) *Manager {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	return &Manager{
		enabled:  cfg.Enabled,
		interval: cfg.Interval,
		lastSave: time.Now(),
	}
}

// SetSaveCallback sets the function called on each auto-save.
func (m *Manager) SetSaveCallback(fn func() error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSave = fn
}

// MarkDirty indicates there are unsaved draft changes.
func (m *Manager) MarkDirty() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isDirty = true
}

// MarkClean indicates drafts have been saved.
func (m *Manager) MarkClean() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isDirty = false
	m.lastSave = time.Now()
}

// IsDirty returns whether there are unsaved draft changes.
func (m *Manager) IsDirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isDirty
}

// ShouldSave returns true when a flush is due.
func (m *Manager) ShouldSave() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled || !m.isDirty {
		return false
	}
	return time.Since(m.lastSave) >= m.interval
}

// Check flushes dirty state through the save callback when the interval has
// elapsed. A failed save leaves the dirty flag set so the next tick retries.
func (m *Manager) Check() {
	m.mu.Lock()
	due := m.enabled && m.isDirty && time.Since(m.lastSave) >= m.interval
	onSave := m.onSave
	m.mu.Unlock()

	if !due || onSave == nil {
		return
	}
	if err := onSave(); err == nil {
		m.MarkClean()
	}
}

// Flush saves immediately if dirty, regardless of the interval. Used on
// channel switch and shutdown.
func (m *Manager) Flush() error {
	m.mu.Lock()
	dirty := m.isDirty
	onSave := m.onSave
	m.mu.Unlock()

	if !dirty || onSave == nil {
		return nil
	}
	if err := onSave(); err != nil {
		return err
	}
	m.MarkClean()
	return nil
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// TickMsg is sent periodically to check auto-save state.
type TickMsg struct {
	Time time.Time
}

// TickCmd returns a command that ticks once a second.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// HandleTick runs a check and schedules the next tick.
func (m *Manager) HandleTick() tea.Cmd {
	m.Check()
	return TickCmd()
}
