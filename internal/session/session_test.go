// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewManager(t *testing.T) {
	m := NewManager(DefaultConfig())

	if !strings.HasPrefix(m.SessionID(), "sess_") {
		t.Errorf("SessionID = %q", m.SessionID())
	}
	if m.IsDirty() {
		t.Error("new session should start clean")
	}
	if m.Duration() < 0 {
		t.Error("Duration should not be negative")
	}
}

func TestNewManager_ZeroIntervalDefaults(t *testing.T) {
	m := NewManager(Config{AutosaveEnabled: true})
	if m.autosaveInterval != 30*time.Second {
		t.Errorf("interval = %v, want 30s", m.autosaveInterval)
	}
}

func TestDirtyTracking(t *testing.T) {
	m := NewManager(DefaultConfig())

	m.MarkDirty()
	if !m.IsDirty() {
		t.Error("MarkDirty should set dirty")
	}

	m.MarkClean()
	if m.IsDirty() {
		t.Error("MarkClean should clear dirty")
	}
}

func TestShouldAutosave(t *testing.T) {
	m := NewManager(Config{AutosaveEnabled: true, AutosaveInterval: 10 * time.Millisecond})

	// Clean session never autosaves.
	time.Sleep(20 * time.Millisecond)
	if m.ShouldAutosave() {
		t.Error("clean session should not autosave")
	}

	m.MarkDirty()
	if !m.ShouldAutosave() {
		t.Error("dirty session past interval should autosave")
	}

	m.MarkClean()
	if m.ShouldAutosave() {
		t.Error("MarkClean resets the autosave clock")
	}
}

func TestShouldAutosave_Disabled(t *testing.T) {
	m := NewManager(Config{AutosaveEnabled: false, AutosaveInterval: time.Millisecond})
	m.MarkDirty()
	time.Sleep(5 * time.Millisecond)
	if m.ShouldAutosave() {
		t.Error("disabled autosave should never trigger")
	}
}

func TestCheck_RunsCallback(t *testing.T) {
	m := NewManager(Config{AutosaveEnabled: true, AutosaveInterval: time.Millisecond})

	saved := 0
	m.SetAutosaveCallback(func() error {
		saved++
		return nil
	})

	m.MarkDirty()
	time.Sleep(5 * time.Millisecond)
	m.Check()

	if saved != 1 {
		t.Errorf("callback ran %d times, want 1", saved)
	}
	if m.IsDirty() {
		t.Error("successful save should mark clean")
	}
}

func TestCheck_FailedSaveStaysDirty(t *testing.T) {
	m := NewManager(Config{AutosaveEnabled: true, AutosaveInterval: time.Millisecond})
	m.SetAutosaveCallback(func() error {
		return errors.New("disk full")
	})

	m.MarkDirty()
	time.Sleep(5 * time.Millisecond)
	m.Check()

	if !m.IsDirty() {
		t.Error("failed save should leave session dirty for retry")
	}
}

func TestRecordActivity(t *testing.T) {
	m := NewManager(DefaultConfig())
	time.Sleep(5 * time.Millisecond)
	m.RecordActivity()
	if m.IdleTime() > 2*time.Millisecond {
		t.Errorf("IdleTime = %v after RecordActivity", m.IdleTime())
	}
}

func TestGetStatus(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.MarkDirty()

	st := m.GetStatus()
	if st.SessionID != m.SessionID() {
		t.Error("status session ID mismatch")
	}
	if !st.IsDirty {
		t.Error("status should reflect dirty state")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{time.Minute, "1m"},
		{90 * time.Second, "1m 30s"},
		{10 * time.Minute, "10m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
