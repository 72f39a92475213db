// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

func TestNewMessage(t *testing.T) {
	m := NewUserMessage("load 1CRN")

	if !strings.HasPrefix(m.ID, "msg_") {
		t.Errorf("ID = %q, want msg_ prefix", m.ID)
	}
	if m.Sender != SenderUser {
		t.Errorf("Sender = %v", m.Sender)
	}
	if m.Text != "load 1CRN" {
		t.Errorf("Text = %q", m.Text)
	}
	if m.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
}

func TestMessageIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id := NewSystemMessage("x").ID
		if seen[id] {
			t.Fatalf("duplicate ID %q", id)
		}
		seen[id] = true
	}
}

func TestSenderDisplayName(t *testing.T) {
	tests := []struct {
		sender Sender
		want   string
	}{
		{SenderUser, "You"},
		{SenderAssistant, "Molesim"},
		{SenderSystem, "System"},
		{Sender("other"), "other"},
	}
	for _, tt := range tests {
		if got := tt.sender.DisplayName(); got != tt.want {
			t.Errorf("DisplayName(%v) = %q, want %q", tt.sender, got, tt.want)
		}
	}
}

func TestTranscript_TitleFromFirstUserMessage(t *testing.T) {
	tr := NewTranscript()
	tr.AddSystemMessage("welcome")
	if tr.Title != "" {
		t.Error("system message must not set the title")
	}
	tr.AddUserMessage("show me the lysozyme structure\nplease")
	if tr.Title != "show me the lysozyme structure" {
		t.Errorf("Title = %q", tr.Title)
	}
	tr.AddUserMessage("something else")
	if tr.Title != "show me the lysozyme structure" {
		t.Error("title must stick to the first user message")
	}
}

func TestTranscript_Pruning(t *testing.T) {
	tr := NewTranscript()
	for i := 0; i < MaxMessages+25; i++ {
		tr.AddUserMessage("m")
	}
	if tr.Len() != MaxMessages {
		t.Errorf("Len = %d, want %d", tr.Len(), MaxMessages)
	}
}

func TestTranscript_LastCommandJSON(t *testing.T) {
	tr := NewTranscript()
	if tr.LastCommandJSON() != "" {
		t.Error("empty transcript should have no command JSON")
	}

	tr.AddUserMessage("spin it")
	a := tr.AddAssistantMessage("Spinning the structure.")
	a.Command = "set_spin"
	a.CommandJSON = `{"command":"set_spin"}`
	tr.AddAssistantMessage("plain reply without command")

	if got := tr.LastCommandJSON(); got != `{"command":"set_spin"}` {
		t.Errorf("LastCommandJSON = %q", got)
	}
}

func TestTranscript_Clear(t *testing.T) {
	tr := NewTranscript()
	tr.AddUserMessage("hello")
	id := tr.ID
	tr.Clear()
	if tr.Len() != 0 {
		t.Error("Clear left messages")
	}
	if tr.ID != id {
		t.Error("Clear must keep the transcript identity")
	}
}
