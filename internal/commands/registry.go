// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the workbench.
// Slash commands bypass the language model and build the same command
// objects the intent parser produces, so both paths share one dispatch.
package commands

import (
	"fmt"
	"strings"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/intent"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/load")
	Name string

	// Aliases are alternative names (e.g., "/l")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "/load <accession>")
	Usage string

	// Args defines the expected arguments
	Args []ArgDef

	// Build turns validated arguments into the executable result
	Build func(args []string) (Result, error)

	// Hidden commands don't appear in help
	Hidden bool

	// Category for grouping in help display
	Category string
}

// ArgDef defines an argument for a command.
type ArgDef struct {
	// Name of the argument
	Name string

	// Required indicates if the argument must be provided
	Required bool

	// Type determines completion behavior
	Type ArgType

	// Description explains the argument
	Description string

	// Values for enum types
	Values []string

	// Completer for custom completion
	Completer func() []string
}

// ArgType indicates what kind of completion to provide.
type ArgType int

const (
	ArgTypeString    ArgType = iota // Free-form string
	ArgTypeEnum                     // One of predefined values
	ArgTypeStructure                // Accession code
	ArgTypeProject                  // Project name from the catalog
)

// =============================================================================
// EXECUTION RESULT
// =============================================================================

// Action is what the chat layer should do with a parsed slash command.
// Most commands dispatch a workbench command; a few act on the chat
// panel itself.
type Action int

const (
	// ActionDispatch routes Result.Command through the normal dispatch.
	ActionDispatch Action = iota

	// ActionInspect shows the JSON of the last dispatched command.
	ActionInspect

	// ActionClear clears the chat transcript.
	ActionClear

	// ActionQuit exits the application.
	ActionQuit
)

// Result is the outcome of executing a slash command.
type Result struct {
	Action  Action
	Command intent.Command
}

// dispatch wraps a workbench command as a dispatch result.
func dispatch(cmd intent.Command) (Result, error) {
	return Result{Action: ActionDispatch, Command: cmd}, nil
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a new command registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	return cmds
}

// ByCategory returns visible commands grouped by category.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.commands {
		if cmd.Hidden {
			continue
		}
		category := cmd.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// Execute parses, validates, and builds one slash command line.
func (r *Registry) Execute(input string) (Result, error) {
	parsed := NewParser(r).Parse(input)
	if !parsed.IsCommand {
		return Result{}, fmt.Errorf("not a command: %q", input)
	}
	if parsed.Command == nil {
		return Result{}, fmt.Errorf("unknown command %s, try /help", parsed.CommandName)
	}
	if err := ValidateArgs(parsed.Command, parsed.Args); err != nil {
		return Result{}, err
	}
	return parsed.Command.Build(parsed.Args)
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	// Navigation commands
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show help and available commands",
		Category:    "Navigation",
		Build: func(args []string) (Result, error) {
			return dispatch(intent.Command{Type: intent.CommandHelp})
		},
	})

	r.Register(&Command{
		Name:        "/panel",
		Description: "Switch the right-hand panel",
		Usage:       "/panel <viewer|analysis|evaluation>",
		Args: []ArgDef{
			{
				Name:        "panel",
				Required:    true,
				Type:        ArgTypeEnum,
				Values:      []string{"viewer", "analysis", "evaluation"},
				Description: "Panel to show",
			},
		},
		Category: "Navigation",
		Build: func(args []string) (Result, error) {
			switch strings.ToLower(args[0]) {
			case "analysis":
				return dispatch(intent.Command{Type: intent.CommandShowAnalysis})
			case "evaluation":
				return dispatch(intent.Command{Type: intent.CommandShowEvaluation})
			default:
				return dispatch(intent.Command{Type: intent.CommandShowViewer})
			}
		},
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit molesim",
		Category:    "Navigation",
		Build: func(args []string) (Result, error) {
			return Result{Action: ActionQuit}, nil
		},
	})

	// Structure commands
	r.Register(&Command{
		Name:        "/load",
		Aliases:     []string{"/l"},
		Description: "Fetch a structure from the Protein Data Bank",
		Usage:       "/load <accession>",
		Args: []ArgDef{
			{Name: "accession", Required: true, Type: ArgTypeStructure, Description: "4-character accession code, e.g. 1CRN"},
		},
		Category: "Structure",
		Build: func(args []string) (Result, error) {
			cmd, err := intent.Normalize(intent.Command{
				Type:   intent.CommandLoadStructure,
				Params: map[string]string{"structure_id": args[0]},
			})
			if err != nil {
				return Result{}, err
			}
			return dispatch(cmd)
		},
	})

	r.Register(&Command{
		Name:        "/predict",
		Description: "Predict a structure from a residue sequence",
		Usage:       "/predict <sequence>",
		Args: []ArgDef{
			{Name: "sequence", Required: false, Type: ArgTypeString, Description: "One-letter amino acid sequence"},
		},
		Category: "Structure",
		Build: func(args []string) (Result, error) {
			seq := ""
			if len(args) > 0 {
				seq = strings.ToUpper(strings.Join(args, ""))
			}
			return dispatch(intent.Command{
				Type:   intent.CommandPredictStructure,
				Params: map[string]string{"sequence": seq},
			})
		},
	})

	// Viewer commands
	r.Register(&Command{
		Name:        "/rep",
		Aliases:     []string{"/style"},
		Description: "Set the viewer representation",
		Usage:       "/rep <style>",
		Args: []ArgDef{
			{
				// Free-form so aliases like "ribbon" reach the normalizer.
				Name:        "style",
				Required:    true,
				Type:        ArgTypeString,
				Description: "Representation style",
				Completer:   func() []string { return intent.Representations },
			},
		},
		Category: "Viewer",
		Build: func(args []string) (Result, error) {
			cmd, err := intent.Normalize(intent.Command{
				Type:   intent.CommandSetRepresentation,
				Params: map[string]string{"style": strings.Join(args, " ")},
			})
			if err != nil {
				return Result{}, err
			}
			return dispatch(cmd)
		},
	})

	r.Register(&Command{
		Name:        "/color",
		Aliases:     []string{"/colour"},
		Description: "Set the viewer color scheme",
		Usage:       "/color <scheme>",
		Args: []ArgDef{
			{
				Name:        "scheme",
				Required:    true,
				Type:        ArgTypeString,
				Description: "Color scheme",
				Completer:   func() []string { return intent.ColorSchemes },
			},
		},
		Category: "Viewer",
		Build: func(args []string) (Result, error) {
			cmd, err := intent.Normalize(intent.Command{
				Type:   intent.CommandSetColor,
				Params: map[string]string{"scheme": strings.Join(args, " ")},
			})
			if err != nil {
				return Result{}, err
			}
			return dispatch(cmd)
		},
	})

	r.Register(&Command{
		Name:        "/spin",
		Description: "Toggle structure auto-rotation",
		Usage:       "/spin [on|off]",
		Args: []ArgDef{
			{
				Name:        "state",
				Required:    false,
				Type:        ArgTypeEnum,
				Values:      []string{"on", "off"},
				Description: "Spin state, defaults to on",
			},
		},
		Category: "Viewer",
		Build: func(args []string) (Result, error) {
			state := "on"
			if len(args) > 0 {
				state = args[0]
			}
			cmd, err := intent.Normalize(intent.Command{
				Type:   intent.CommandSetSpin,
				Params: map[string]string{"enabled": state},
			})
			if err != nil {
				return Result{}, err
			}
			return dispatch(cmd)
		},
	})

	// Simulation commands
	r.Register(&Command{
		Name:        "/sim",
		Description: "Start or stop the simulation run",
		Usage:       "/sim [start|stop]",
		Args: []ArgDef{
			{
				Name:        "action",
				Required:    false,
				Type:        ArgTypeEnum,
				Values:      []string{"start", "stop"},
				Description: "Defaults to start",
			},
		},
		Category: "Simulation",
		Build: func(args []string) (Result, error) {
			if len(args) > 0 && strings.EqualFold(args[0], "stop") {
				return dispatch(intent.Command{Type: intent.CommandStopSimulation})
			}
			return dispatch(intent.Command{Type: intent.CommandRunSimulation})
		},
	})

	// Project commands
	r.Register(&Command{
		Name:        "/project",
		Aliases:     []string{"/p"},
		Description: "Manage projects",
		Usage:       "/project <new|open|delete|list> [name]",
		Args: []ArgDef{
			{
				Name:        "action",
				Required:    true,
				Type:        ArgTypeEnum,
				Values:      []string{"new", "open", "delete", "list"},
				Description: "Project operation",
			},
			{Name: "name", Required: false, Type: ArgTypeProject, Description: "Project name"},
		},
		Category: "Projects",
		Build:    buildProject,
	})

	// Report commands
	r.Register(&Command{
		Name:        "/export",
		Aliases:     []string{"/report"},
		Description: "Export the evaluation report",
		Category:    "Report",
		Build: func(args []string) (Result, error) {
			return dispatch(intent.Command{Type: intent.CommandExportReport})
		},
	})

	// Utility commands
	r.Register(&Command{
		Name:        "/inspect",
		Description: "Show the JSON of the last parsed command",
		Category:    "Utility",
		Build: func(args []string) (Result, error) {
			return Result{Action: ActionInspect}, nil
		},
	})

	r.Register(&Command{
		Name:        "/clear",
		Aliases:     []string{"/c"},
		Description: "Clear the chat transcript",
		Category:    "Utility",
		Build: func(args []string) (Result, error) {
			return Result{Action: ActionClear}, nil
		},
	})
}

// buildProject maps /project subcommands onto project command types.
func buildProject(args []string) (Result, error) {
	action := strings.ToLower(args[0])
	name := ""
	if len(args) > 1 {
		name = strings.Join(args[1:], " ")
	}

	var t intent.CommandType
	switch action {
	case "new":
		t = intent.CommandNewProject
	case "open":
		t = intent.CommandOpenProject
	case "delete":
		t = intent.CommandDeleteProject
	case "list":
		return dispatch(intent.Command{Type: intent.CommandListProjects})
	default:
		return Result{}, fmt.Errorf("unknown project action %q", action)
	}

	if name == "" {
		return Result{}, fmt.Errorf("/project %s requires a name", action)
	}
	return dispatch(intent.Command{Type: t, Params: map[string]string{"name": name}})
}
