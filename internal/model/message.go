// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat transcripts and
// messages.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
	SenderSystem    Sender = "system"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderAssistant:
		return "Molesim"
	case SenderSystem:
		return "System"
	default:
		return string(s)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single chat message.
type Message struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`

	// Command carries the parsed command type behind an assistant reply,
	// and CommandJSON the raw command object for the /inspect view.
	Command     string `json:"command,omitempty"`
	CommandJSON string `json:"command_json,omitempty"`
}

// NewMessage creates a message with a generated ID.
func NewMessage(sender Sender, text string) *Message {
	return &Message{
		ID:        generateID(),
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a user message.
func NewUserMessage(text string) *Message {
	return NewMessage(SenderUser, text)
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(text string) *Message {
	return NewMessage(SenderAssistant, text)
}

// NewSystemMessage creates a system message.
func NewSystemMessage(text string) *Message {
	return NewMessage(SenderSystem, text)
}

// generateID creates a unique message ID.
func generateID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "msg_" + hex.EncodeToString(bytes)
}
