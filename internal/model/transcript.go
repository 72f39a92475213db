// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/util"
)

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// MaxMessages caps a transcript; the oldest messages are pruned beyond it.
// Long sessions stay bounded in memory and on disk.
const MaxMessages = 500

// Transcript is an ordered chat history for one session.
type Transcript struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Messages  []*Message `json:"messages"`
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	now := time.Now()
	return &Transcript{
		ID:        "chat_" + generateRawID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// generateRawID returns the hex portion of a message ID, reused for
// transcript IDs.
func generateRawID() string {
	return generateID()[len("msg_"):]
}

// =============================================================================
// MESSAGE OPERATIONS
// =============================================================================

// Append adds a message, pruning the oldest beyond MaxMessages.
func (t *Transcript) Append(m *Message) {
	t.Messages = append(t.Messages, m)
	if len(t.Messages) > MaxMessages {
		t.Messages = t.Messages[len(t.Messages)-MaxMessages:]
	}
	t.UpdatedAt = time.Now()
	if t.Title == "" && m.Sender == SenderUser {
		t.Title = util.TruncateRunes(util.FirstLine(m.Text), 50)
	}
}

// AddUserMessage appends a user message and returns it.
func (t *Transcript) AddUserMessage(text string) *Message {
	m := NewUserMessage(text)
	t.Append(m)
	return m
}

// AddAssistantMessage appends an assistant message and returns it.
func (t *Transcript) AddAssistantMessage(text string) *Message {
	m := NewAssistantMessage(text)
	t.Append(m)
	return m
}

// AddSystemMessage appends a system message and returns it.
func (t *Transcript) AddSystemMessage(text string) *Message {
	m := NewSystemMessage(text)
	t.Append(m)
	return m
}

// Len returns the message count.
func (t *Transcript) Len() int {
	return len(t.Messages)
}

// Last returns the most recent message, or nil when empty.
func (t *Transcript) Last() *Message {
	if len(t.Messages) == 0 {
		return nil
	}
	return t.Messages[len(t.Messages)-1]
}

// LastCommandJSON returns the raw command object behind the most recent
// assistant message that carried one, or "".
func (t *Transcript) LastCommandJSON() string {
	for i := len(t.Messages) - 1; i >= 0; i-- {
		m := t.Messages[i]
		if m.Sender == SenderAssistant && m.CommandJSON != "" {
			return m.CommandJSON
		}
	}
	return ""
}

// Clear removes all messages but keeps the transcript identity.
func (t *Transcript) Clear() {
	t.Messages = nil
	t.UpdatedAt = time.Now()
}
