// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"errors"
	"testing"
	"time"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return s
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := newTestStore(t)

	tr := model.NewTranscript()
	tr.AddUserMessage("load 4HHB")
	tr.AddAssistantMessage("Loading hemoglobin.")

	id, err := s.Save(tr)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := s.Load(id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ID != id {
		t.Errorf("loaded ID = %q, want %q", loaded.ID, id)
	}
	if loaded.Len() != 2 {
		t.Errorf("message count = %d, want 2", loaded.Len())
	}
	if loaded.Messages[0].Sender != model.SenderUser {
		t.Errorf("first sender = %v", loaded.Messages[0].Sender)
	}
	if loaded.Title != "load 4HHB" {
		t.Errorf("Title = %q", loaded.Title)
	}
}

func TestStore_EmptyTranscriptNotWritten(t *testing.T) {
	s := newTestStore(t)

	tr := model.NewTranscript()
	if _, err := s.Save(tr); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	metas, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(metas) != 0 {
		t.Errorf("empty transcript was persisted")
	}
}

func TestStore_LoadNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Load("missing"); !errors.Is(err, ErrTranscriptNotFound) {
		t.Errorf("expected ErrTranscriptNotFound, got %v", err)
	}
}

func TestStore_ListOrdering(t *testing.T) {
	s := newTestStore(t)

	older := model.NewTranscript()
	older.AddUserMessage("first session")
	if _, err := s.Save(older); err != nil {
		t.Fatal(err)
	}
	// Force a distinct UpdatedAt ordering.
	older.UpdatedAt = time.Now().Add(-time.Hour)

	newer := model.NewTranscript()
	newer.AddUserMessage("second session")
	if _, err := s.Save(newer); err != nil {
		t.Fatal(err)
	}

	metas, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("meta count = %d, want 2", len(metas))
	}
	if metas[0].ID != newer.ID {
		t.Error("most recent transcript should list first")
	}
	if metas[0].Preview != "second session" {
		t.Errorf("Preview = %q", metas[0].Preview)
	}
}

func TestStore_Latest(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Latest(); !errors.Is(err, ErrTranscriptNotFound) {
		t.Errorf("Latest on empty store: got %v", err)
	}

	tr := model.NewTranscript()
	tr.AddUserMessage("only session")
	s.Save(tr)

	got, err := s.Latest()
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if got.ID != tr.ID {
		t.Errorf("Latest ID = %q, want %q", got.ID, tr.ID)
	}
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(t)

	tr := model.NewTranscript()
	tr.AddUserMessage("doomed")
	id, _ := s.Save(tr)

	if err := s.Delete(id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Load(id); !errors.Is(err, ErrTranscriptNotFound) {
		t.Error("transcript still loadable after delete")
	}
	if err := s.Delete(id); !errors.Is(err, ErrTranscriptNotFound) {
		t.Errorf("second delete: got %v", err)
	}
}

func TestStore_EnforceLimit(t *testing.T) {
	s := newTestStore(t)
	s.MaxTranscripts = 3

	ids := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		tr := model.NewTranscript()
		tr.AddUserMessage("session")
		// Spread UpdatedAt so the ordering is deterministic.
		tr.CreatedAt = time.Now().Add(time.Duration(i-5) * time.Minute)
		id, err := s.Save(tr)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
		time.Sleep(2 * time.Millisecond)
	}

	metas, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 3 {
		t.Fatalf("transcript count = %d, want 3", len(metas))
	}
	// The two oldest saves are gone.
	for _, meta := range metas {
		if meta.ID == ids[0] || meta.ID == ids[1] {
			t.Error("oldest transcripts should have been pruned")
		}
	}
}

func TestStore_Clear(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 3; i++ {
		tr := model.NewTranscript()
		tr.AddUserMessage("x")
		s.Save(tr)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	metas, _ := s.List()
	if len(metas) != 0 {
		t.Errorf("transcripts remain after Clear: %d", len(metas))
	}
}
