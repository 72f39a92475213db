// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"strings"
)

// Process exit codes. Scripts depend on these staying stable.
const (
	ExitSuccess  = 0
	ExitGeneral  = 1
	ExitUsage    = 2
	ExitConfig   = 3
	ExitNetwork  = 4
	ExitNotFound = 5
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ValidationError describes a rejected argument value along with an example
// of correct usage.
type ValidationError struct {
	Field   string
	Value   string
	Reason  string
	Example string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s", e.Field)
	if e.Value != "" {
		msg += fmt.Sprintf(" %q", e.Value)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Example != "" {
		msg += fmt.Sprintf(" (example: %s)", e.Example)
	}
	return msg
}

// NotFoundError reports a missing resource such as a project or config key.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// =============================================================================
// HELPERS
// =============================================================================

// ErrMissingArgument builds a usage-level error for a required argument.
func ErrMissingArgument(argName, usage string) error {
	return &ValidationError{
		Field:   argName,
		Reason:  "required argument missing",
		Example: usage,
	}
}

// WrapError annotates err with a short context message.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// GetExitCode maps an error to a process exit code. Typed errors are
// matched first; everything else is classified by message.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return ExitUsage
	}

	var notFoundErr *NotFoundError
	if errors.As(err, &notFoundErr) {
		return ExitNotFound
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "config"):
		return ExitConfig
	case strings.Contains(msg, "network"),
		strings.Contains(msg, "connection"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "dial"):
		return ExitNetwork
	case strings.Contains(msg, "not found"):
		return ExitNotFound
	}

	return ExitGeneral
}
