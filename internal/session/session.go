// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks workbench session state and drives autosave.
//
// A Manager records when the session started, when the user last did
// anything, and whether the in-memory catalog has unsaved changes. The
// application ticks the manager once per second; when the catalog is dirty
// and the autosave interval has elapsed, the tick emits an AutosaveMsg so
// the app can flush to the store without blocking the UI loop.
package session

import (
	"strconv"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ============================================================================
// MANAGER
// ============================================================================

// Manager tracks session lifetime, activity, and autosave state.
type Manager struct {
	mu sync.Mutex

	sessionID    string
	startTime    time.Time
	lastActivity time.Time

	autosaveEnabled  bool
	autosaveInterval time.Duration
	lastSave         time.Time
	dirty            bool

	onAutosave func() error
}

// Config holds configuration for the session manager.
type Config struct {
	// AutosaveEnabled enables periodic saving of dirty state.
	AutosaveEnabled bool

	// AutosaveInterval is how often to autosave (default: 30 seconds).
	AutosaveInterval time.Duration
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		AutosaveEnabled:  true,
		AutosaveInterval: 30 * time.Second,
	}
}

// NewManager creates a new session manager.
func NewManager(cfg Config) *Manager {
	now := time.Now()
	interval := cfg.AutosaveInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Manager{
		sessionID:        "sess_" + now.Format("20060102_150405"),
		startTime:        now,
		lastActivity:     now,
		autosaveEnabled:  cfg.AutosaveEnabled,
		autosaveInterval: interval,
		lastSave:         now,
	}
}

// ============================================================================
// SESSION STATE
// ============================================================================

// SessionID returns the current session ID.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// Duration returns how long the session has been active.
func (m *Manager) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Since(m.startTime)
}

// IdleTime returns how long since last activity.
func (m *Manager) IdleTime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Since(m.lastActivity)
}

// RecordActivity updates the last activity timestamp. Called on user input.
func (m *Manager) RecordActivity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastActivity = time.Now()
}

// MarkDirty indicates the session has unsaved changes.
func (m *Manager) MarkDirty() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirty = true
}

// MarkClean indicates the session has been saved.
func (m *Manager) MarkClean() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirty = false
	m.lastSave = time.Now()
}

// IsDirty returns whether the session has unsaved changes.
func (m *Manager) IsDirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirty
}

// SetAutosaveCallback sets the function called when autosave triggers.
// When the callback returns nil the manager marks itself clean.
func (m *Manager) SetAutosaveCallback(fn func() error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onAutosave = fn
}

// SetAutosaveInterval updates the autosave interval.
func (m *Manager) SetAutosaveInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d > 0 {
		m.autosaveInterval = d
	}
}

// ShouldAutosave returns true if autosave should trigger.
func (m *Manager) ShouldAutosave() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.autosaveEnabled || !m.dirty {
		return false
	}
	return time.Since(m.lastSave) >= m.autosaveInterval
}

// Check evaluates autosave state and runs the callback if due.
// The callback executes outside the lock.
func (m *Manager) Check() {
	m.mu.Lock()
	due := m.autosaveEnabled && m.dirty &&
		time.Since(m.lastSave) >= m.autosaveInterval
	fn := m.onAutosave
	m.mu.Unlock()

	if due && fn != nil {
		if err := fn(); err == nil {
			m.MarkClean()
		}
	}
}

// ============================================================================
// BUBBLE TEA INTEGRATION
// ============================================================================

// TickMsg is sent periodically to check session state.
type TickMsg struct {
	Time time.Time
}

// AutosaveMsg indicates autosave should occur.
type AutosaveMsg struct{}

// TickCmd returns a command that ticks once per second.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// HandleTick processes a tick, emitting an AutosaveMsg when a save is due
// and scheduling the next tick.
func (m *Manager) HandleTick() tea.Cmd {
	var cmds []tea.Cmd

	if m.ShouldAutosave() {
		cmds = append(cmds, func() tea.Msg {
			return AutosaveMsg{}
		})
	}

	cmds = append(cmds, TickCmd())
	return tea.Batch(cmds...)
}

// ============================================================================
// STATUS
// ============================================================================

// Status is a point-in-time snapshot for the status bar.
type Status struct {
	SessionID string
	Duration  time.Duration
	IdleTime  time.Duration
	IsDirty   bool
	LastSave  time.Time
}

// GetStatus returns the current session status.
func (m *Manager) GetStatus() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	return Status{
		SessionID: m.sessionID,
		Duration:  now.Sub(m.startTime),
		IdleTime:  now.Sub(m.lastActivity),
		IsDirty:   m.dirty,
		LastSave:  m.lastSave,
	}
}

// FormatDuration returns a human-readable duration string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return strconv.Itoa(int(d.Seconds())) + "s"
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if secs == 0 {
		return strconv.Itoa(mins) + "m"
	}
	return strconv.Itoa(mins) + "m " + strconv.Itoa(secs) + "s"
}
