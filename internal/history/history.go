// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history persists chat transcripts as JSON files under the data
// directory.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/model"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/util"
)

// =============================================================================
// TRANSCRIPT META
// =============================================================================

// Meta contains transcript metadata for listing without loading bodies.
type Meta struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
	Preview      string    `json:"preview"` // First user message, truncated
}

// =============================================================================
// STORE
// =============================================================================

// Store handles transcript persistence.
type Store struct {
	// BaseDir is the directory for stored transcripts.
	BaseDir string

	// MaxTranscripts limits stored transcripts (0 = unlimited).
	MaxTranscripts int
}

// NewStore creates a store rooted at the given directory.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &Store{
		BaseDir:        baseDir,
		MaxTranscripts: 50,
	}, nil
}

// =============================================================================
// SAVE OPERATIONS
// =============================================================================

// Save persists a transcript and returns its ID. Empty transcripts are not
// written.
func (s *Store) Save(t *model.Transcript) (string, error) {
	if t.Len() == 0 {
		return t.ID, nil
	}
	t.UpdatedAt = time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = t.UpdatedAt
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", err
	}

	// Atomic write with fsync prevents a torn file on crash
	if err := util.AtomicWriteFile(s.filePath(t.ID), data, 0644); err != nil {
		return "", err
	}

	if s.MaxTranscripts > 0 {
		s.enforceLimit()
	}
	return t.ID, nil
}

// enforceLimit removes the oldest transcripts when over the limit.
func (s *Store) enforceLimit() {
	metas, err := s.List()
	if err != nil || len(metas) <= s.MaxTranscripts {
		return
	}

	// List is newest-first; delete from the tail.
	for _, meta := range metas[s.MaxTranscripts:] {
		s.Delete(meta.ID)
	}
}

// =============================================================================
// LOAD OPERATIONS
// =============================================================================

// Load retrieves a transcript by ID.
func (s *Store) Load(id string) (*model.Transcript, error) {
	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrTranscriptNotFound
		}
		return nil, err
	}

	var t model.Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Latest loads the most recently updated transcript, or
// ErrTranscriptNotFound when none exist.
func (s *Store) Latest() (*model.Transcript, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(metas) == 0 {
		return nil, ErrTranscriptNotFound
	}
	return s.Load(metas[0].ID)
}

// =============================================================================
// LIST OPERATIONS
// =============================================================================

// List returns metadata for all saved transcripts, most recent first.
func (s *Store) List() ([]Meta, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Meta{}, nil
		}
		return nil, err
	}

	var metas []Meta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		t, err := s.Load(id)
		if err != nil {
			continue // Skip corrupted files
		}

		preview := ""
		for _, msg := range t.Messages {
			if msg.Sender == model.SenderUser {
				preview = util.TruncateRunes(msg.Text, 80)
				break
			}
		}

		metas = append(metas, Meta{
			ID:           t.ID,
			Title:        t.Title,
			CreatedAt:    t.CreatedAt,
			UpdatedAt:    t.UpdatedAt,
			MessageCount: t.Len(),
			Preview:      preview,
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})
	return metas, nil
}

// =============================================================================
// DELETE OPERATIONS
// =============================================================================

// Delete removes a transcript by ID.
func (s *Store) Delete(id string) error {
	if err := os.Remove(s.filePath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrTranscriptNotFound
		}
		return err
	}
	return nil
}

// Clear removes all saved transcripts.
func (s *Store) Clear() error {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			os.Remove(filepath.Join(s.BaseDir, entry.Name()))
		}
	}
	return nil
}

// filePath returns the file path for a transcript ID.
func (s *Store) filePath(id string) string {
	return filepath.Join(s.BaseDir, id+".json")
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrTranscriptNotFound is returned when a transcript doesn't exist.
// Use errors.Is(err, ErrTranscriptNotFound) to check for this error.
var ErrTranscriptNotFound = &TranscriptError{Message: "transcript not found"}

// TranscriptError represents a transcript-related error.
type TranscriptError struct {
	Message string
}

// Error implements the error interface.
func (e *TranscriptError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing transcript errors.
func (e *TranscriptError) Is(target error) bool {
	t, ok := target.(*TranscriptError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}
