// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	// DefaultTerminalWidth is assumed when the real width is unknown.
	DefaultTerminalWidth = 80
	// MinTerminalWidth is the narrowest width output is formatted for.
	MinTerminalWidth = 40
)

// IsTTY reports whether stdin is attached to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY reports whether stdout is attached to a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// GetTerminalWidth returns the current terminal width, clamped to the
// minimum, with a default when detection fails.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	return width
}

// WrapText wraps text at word boundaries to fit maxWidth. A maxWidth of 0
// uses the detected terminal width. Existing newlines are preserved.
func WrapText(text string, maxWidth int) string {
	if maxWidth == 0 {
		maxWidth = GetTerminalWidth()
	}
	if maxWidth > 10 {
		maxWidth -= 2
	}

	var result []string
	for _, line := range strings.Split(text, "\n") {
		if len(line) <= maxWidth {
			result = append(result, line)
			continue
		}

		words := strings.Fields(line)
		var current string
		for _, word := range words {
			if current == "" {
				current = word
			} else if len(current)+1+len(word) <= maxWidth {
				current += " " + word
			} else {
				result = append(result, current)
				current = word
			}
		}
		if current != "" {
			result = append(result, current)
		}
	}

	return strings.Join(result, "\n")
}

var (
	colorsOnce    sync.Once
	colorsEnabled bool
)

// ColorsEnabled reports whether colored output should be produced.
// NO_COLOR disables colors, FORCE_COLOR enables them, otherwise colors
// follow stdout being a terminal.
func ColorsEnabled() bool {
	colorsOnce.Do(func() {
		if os.Getenv("NO_COLOR") != "" {
			colorsEnabled = false
			return
		}
		if os.Getenv("FORCE_COLOR") != "" {
			colorsEnabled = true
			return
		}
		colorsEnabled = IsStdoutTTY()
	})
	return colorsEnabled
}

// GetColorProfile returns the termenv profile to render with.
func GetColorProfile() termenv.Profile {
	if !ColorsEnabled() {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}

// CanPrompt reports whether interactive prompts are possible.
func CanPrompt() bool {
	return IsTTY()
}

// TTYRequiredError is returned when an interactive operation runs without
// a terminal on stdin.
type TTYRequiredError struct {
	Operation string
}

func (e *TTYRequiredError) Error() string {
	return fmt.Sprintf("stdin is not a terminal; cannot %s interactively", e.Operation)
}

// RequiresTTY returns an error unless stdin is a terminal.
func RequiresTTY(operation string) error {
	if !IsTTY() {
		return &TTYRequiredError{Operation: operation}
	}
	return nil
}
