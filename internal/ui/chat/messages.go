// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/intent"
)

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Role identifies who a transcript message came from.
type Role int

const (
	RoleUser Role = iota
	RoleAssistant
	RoleSystem
)

// Message is one entry in the chat transcript.
type Message struct {
	Role    Role
	Content string
	Time    time.Time
}

// =============================================================================
// OUTBOUND MESSAGES
// =============================================================================

// DispatchMsg carries a command from the chat panel to the workbench.
// Slash commands produce these directly; free text goes through the
// intent parser first.
type DispatchMsg struct {
	Command intent.Command
}

// ParseRequestMsg asks the workbench to interpret free text through the
// intent parser. The workbench replies by dispatching the parsed command
// and posting any explanation back into the transcript.
type ParseRequestMsg struct {
	Text string
}

// FallbackText is the single reply shown for any parser or network
// failure. No detail leaks and nothing is retried; the user just sends
// the message again or uses a slash command.
const FallbackText = "I could not reach the language service, so that message was not interpreted. " +
	"Slash commands still work offline; /help lists them."
