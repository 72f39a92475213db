// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// ArgParser provides structured access to subcommand arguments. It
// understands --flag value, --flag=value and bare boolean flags, and keeps
// everything else as positional arguments.
type ArgParser struct {
	subcommand string
	flags      map[string]string
	boolFlags  map[string]bool
	positional []string
	raw        []string
}

// NewArgParser parses the given argument slice. The first positional
// argument, when present, doubles as the subcommand.
func NewArgParser(args []string) *ArgParser {
	p := &ArgParser{
		flags:     make(map[string]string),
		boolFlags: make(map[string]bool),
		raw:       args,
	}

	i := 0
	for i < len(args) {
		arg := args[i]

		if strings.HasPrefix(arg, "-") {
			if strings.Contains(arg, "=") {
				// --flag=value form.
				parts := strings.SplitN(arg, "=", 2)
				name := strings.TrimLeft(parts[0], "-")
				value := parts[1]
				if value == "true" || value == "false" {
					p.boolFlags[name] = value == "true"
				} else {
					p.flags[name] = value
				}
				i++
			} else if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				// --flag value form.
				name := strings.TrimLeft(arg, "-")
				p.flags[name] = args[i+1]
				i += 2
			} else {
				// Bare boolean flag.
				name := strings.TrimLeft(arg, "-")
				p.boolFlags[name] = true
				i++
			}
		} else {
			p.positional = append(p.positional, arg)
			i++
		}
	}

	if len(p.positional) > 0 {
		p.subcommand = p.positional[0]
	}

	return p
}

// Subcommand returns the first positional argument, or "".
func (p *ArgParser) Subcommand() string {
	return p.subcommand
}

// Flag returns the value of a string flag and whether it was set. The name
// may be given with or without leading dashes.
func (p *ArgParser) Flag(name string) (string, bool) {
	if v, ok := p.flags[name]; ok {
		return v, true
	}
	trimmed := strings.TrimLeft(name, "-")
	v, ok := p.flags[trimmed]
	return v, ok
}

// FlagOrDefault returns the flag value, or def when the flag is absent.
func (p *ArgParser) FlagOrDefault(name, def string) string {
	if v, ok := p.Flag(name); ok {
		return v
	}
	return def
}

// FlagInt returns an integer flag value. Missing or malformed values are
// reported as errors.
func (p *ArgParser) FlagInt(name string) (int, error) {
	v, ok := p.Flag(name)
	if !ok {
		return 0, fmt.Errorf("flag --%s is required", strings.TrimLeft(name, "-"))
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("flag --%s: invalid integer %q", strings.TrimLeft(name, "-"), v)
	}
	return n, nil
}

// FlagIntOrDefault returns an integer flag value, falling back to def when
// the flag is absent or malformed.
func (p *ArgParser) FlagIntOrDefault(name string, def int) int {
	v, ok := p.Flag(name)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// BoolFlag reports whether a boolean flag was set to true.
func (p *ArgParser) BoolFlag(name string) bool {
	if v, ok := p.boolFlags[name]; ok {
		return v
	}
	return p.boolFlags[strings.TrimLeft(name, "-")]
}

// HasFlag reports whether the flag was provided in either form.
func (p *ArgParser) HasFlag(name string) bool {
	trimmed := strings.TrimLeft(name, "-")
	if _, ok := p.flags[trimmed]; ok {
		return true
	}
	_, ok := p.boolFlags[trimmed]
	return ok
}

// Positional returns the i-th positional argument, or "".
func (p *ArgParser) Positional(i int) string {
	if i < 0 || i >= len(p.positional) {
		return ""
	}
	return p.positional[i]
}

// PositionalFrom returns positional arguments starting at index i.
func (p *ArgParser) PositionalFrom(i int) []string {
	if i < 0 || i >= len(p.positional) {
		return nil
	}
	return p.positional[i:]
}

// PositionalCount returns the number of positional arguments.
func (p *ArgParser) PositionalCount() int {
	return len(p.positional)
}

// Raw returns the original argument slice.
func (p *ArgParser) Raw() []string {
	return p.raw
}
