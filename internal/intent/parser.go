// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package intent

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
)

// =============================================================================
// PERFORMANCE: Pre-compiled regex (compiled once at startup)
// =============================================================================

var (
	// Models often wrap the JSON object in a fenced code block.
	codeBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*({.+?})\\s*```")
)

// =============================================================================
// PARSER
// =============================================================================

// Generator is the language-model surface the parser depends on.
// *genlang.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Configured() bool
}

// Parser converts chat input into commands. With a configured generator
// it prompts the hosted model; without one it falls back to rule-based
// matching so the workbench stays usable offline.
type Parser struct {
	gen Generator
}

// NewParser returns a parser backed by the given generator. A nil
// generator yields a parser that only uses the offline rules.
func NewParser(gen Generator) *Parser {
	return &Parser{gen: gen}
}

// Online reports whether the parser has a configured model behind it.
func (p *Parser) Online() bool {
	return p.gen != nil && p.gen.Configured()
}

// Parse interprets one chat message against the current workbench state.
// Model failures surface as errors so the chat layer can post its
// fallback message; a reply that contains no usable command degrades to
// a chat command carrying the reply text.
func (p *Parser) Parse(ctx context.Context, text string, ictx Context) (Command, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Command{Type: CommandChat}, nil
	}

	if !p.Online() {
		return ParseOffline(text), nil
	}

	reply, err := p.gen.Generate(ctx, buildPrompt(text, ictx))
	if err != nil {
		return Command{}, err
	}
	return CommandFromReply(reply), nil
}

// CommandFromReply extracts and validates the command object from a raw
// model reply. Replies with no JSON, unparseable JSON, or a type outside
// the enum all degrade to a chat command so the user still sees the text.
func CommandFromReply(reply string) Command {
	raw, ok := extractJSON(reply)
	if !ok {
		return chatReply(reply)
	}

	var cmd Command
	if err := json.Unmarshal([]byte(raw), &cmd); err != nil {
		return chatReply(reply)
	}

	normalized, err := Normalize(cmd)
	if err != nil {
		return chatReply(reply)
	}
	return normalized
}

// chatReply wraps a prose reply as a chat command.
func chatReply(reply string) Command {
	return Command{Type: CommandChat, Explanation: strings.TrimSpace(reply)}
}

// extractJSON pulls the first JSON object out of a model reply. Fenced
// code blocks are preferred; otherwise the first balanced brace range is
// taken.
func extractJSON(reply string) (string, bool) {
	if m := codeBlockRegex.FindStringSubmatch(reply); m != nil {
		return m[1], true
	}

	start := strings.IndexByte(reply, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(reply); i++ {
		ch := reply[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
			// string contents never affect depth
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return reply[start : i+1], true
			}
		}
	}
	return "", false
}
