// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// repl.go - Line-oriented interpreter for molesim CLI.
//
// Handles the "molesim repl" command: a read-interpret-print loop that
// runs instructions through the intent parser and tracks session state
// (active structure, project, display settings) without the full-screen
// workbench. Useful over slow connections and for piping transcripts.
//
// Command: repl
// Short:   Line-oriented interpreter
// Aliases: chat
//
// Examples:
//   molesim repl
//   molesim --offline repl
//
// Slash commands inside the session:
//   /help      Show available commands
//   /context   Show the tracked session state
//   /reset     Clear the tracked session state
//   /quit      Exit (also: exit, quit, Ctrl+D)
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/peterh/liner"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/config"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/intent"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/mol"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/sim"
)

// replFallbackText is printed when the language service cannot be reached.
// The failed line is not retried; the user just types again.
const replFallbackText = "Could not reach the language service, so that line was not interpreted. " +
	"Check your network and API key, or rerun with --offline for rule-based parsing."

// =============================================================================
// LINE EDITOR
// =============================================================================

// ReplCLI wraps the line editor with persistent history.
type ReplCLI struct {
	line        *liner.State
	historyFile string
}

// NewReplCLI creates a line editor with history loaded from the config
// directory.
func NewReplCLI() *ReplCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}

	cli := &ReplCLI{
		line:        line,
		historyFile: filepath.Join(dir, "repl_history"),
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory reads saved history. Missing files are fine.
func (c *ReplCLI) LoadHistory() {
	f, err := os.Open(c.historyFile)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.ReadHistory(f)
}

// ReadInput reads one line, appending non-empty input to history.
func (c *ReplCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists history to the config directory.
func (c *ReplCLI) SaveHistory() error {
	if err := config.EnsureConfigDir(); err != nil {
		return err
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = c.line.WriteHistory(f)
	return err
}

// Close saves history and releases the terminal.
func (c *ReplCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION LOOP
// =============================================================================

// HandleReplCommand runs the read-interpret-print loop until the user
// exits or the process receives an interrupt.
func HandleReplCommand(args Args) error {
	cfg := config.Global()
	if args.Model != "" {
		cfg.API.Model = args.Model
	}
	if args.Offline {
		cfg.API.Offline = true
	}
	ResolveAPIKey(cfg)

	parser := newIntentParser(cfg)

	input := NewReplCLI()
	defer input.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		cancel()
	}()

	printReplWelcome(parser.Online(), args.Quiet)

	var ictx intent.Context
	for {
		line, err := input.ReadInput(HighlightStyle.Render("molesim> "))
		if err == liner.ErrPromptAborted {
			fmt.Println()
			return nil
		}
		if err != nil {
			// EOF or a closed terminal ends the session.
			fmt.Println()
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			keepGoing, err := handleReplSlash(line, &ictx)
			if err != nil {
				fmt.Println(ErrorStyle.Render(err.Error()))
			}
			if !keepGoing {
				return nil
			}
			continue
		}

		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			return nil
		}

		turnCtx, turnCancel := context.WithTimeout(ctx,
			time.Duration(cfg.API.TimeoutSecs)*time.Second)
		cmd, err := parser.Parse(turnCtx, line, ictx)
		turnCancel()

		if ctx.Err() != nil {
			fmt.Println()
			return nil
		}
		if err != nil {
			fmt.Println(WarningStyle.Render(replFallbackText))
			continue
		}

		printReplTurn(cmd, applyToContext(cmd, &ictx))
	}
}

// printReplWelcome prints the session banner.
func printReplWelcome(online, quiet bool) {
	if quiet {
		return
	}
	fmt.Println(TitleStyle.Render("molesim repl"))
	mode := "offline rules"
	if online {
		mode = "language service"
	}
	fmt.Println(DimStyle.Render("Interpreting with " + mode + ". Type instructions in plain language."))
	fmt.Println(DimStyle.Render("/help for commands, /context for session state, exit to leave."))
	fmt.Println()
}

// printReplTurn prints the interpreted command and the session effect.
// Chat turns have no effect line; the explanation is the reply.
func printReplTurn(cmd intent.Command, effect string) {
	if effect != "" {
		fmt.Printf("%s %s\n", DimStyle.Render("["+string(cmd.Type)+"]"), ValueStyle.Render(effect))
	}
	if cmd.Explanation != "" {
		displayResponse(cmd.Explanation)
	}
	fmt.Println()
}

// handleReplSlash processes slash commands. The bool reports whether the
// loop should continue.
func handleReplSlash(line string, ictx *intent.Context) (bool, error) {
	cmd := strings.ToLower(strings.Fields(line)[0])
	switch cmd {
	case "/help":
		fmt.Println(replHelpText())
		return true, nil
	case "/context":
		printReplContext(ictx)
		return true, nil
	case "/reset":
		*ictx = intent.Context{}
		fmt.Println(DimStyle.Render("Session state cleared."))
		return true, nil
	case "/quit", "/exit":
		return false, nil
	default:
		return true, fmt.Errorf("unknown command %s (try /help)", cmd)
	}
}

func replHelpText() string {
	return strings.Join([]string{
		SectionStyle.Render("Session commands"),
		"  /help      Show this help",
		"  /context   Show the tracked session state",
		"  /reset     Clear the tracked session state",
		"  /quit      Exit the session",
		"",
		SectionStyle.Render("Instruction examples"),
		"  load 1CRN",
		"  predict a structure for MKTAYIAKQR",
		"  show it as cartoon, colored by element",
		"  run a simulation",
		"  new project called kinase study",
	}, "\n")
}

// printReplContext dumps the tracked session state as label/value rows.
func printReplContext(ictx *intent.Context) {
	dash := func(s string) string {
		if s == "" {
			return "(none)"
		}
		return s
	}
	fmt.Printf("%s %s\n", RenderLabel("Structure"), ValueStyle.Render(dash(ictx.ActiveStructure)))
	fmt.Printf("%s %s\n", RenderLabel("Project"), ValueStyle.Render(dash(ictx.ActiveProject)))
	fmt.Printf("%s %s\n", RenderLabel("Representation"), ValueStyle.Render(dash(ictx.Representation)))
	fmt.Printf("%s %s\n", RenderLabel("Color scheme"), ValueStyle.Render(dash(ictx.ColorScheme)))
	fmt.Printf("%s %v\n", RenderLabel("Spin"), ictx.SpinEnabled)
	fmt.Printf("%s %v\n", RenderLabel("Simulation"), ictx.SimulationRunning)
	if ictx.Stage != "" {
		fmt.Printf("%s %s\n", RenderLabel("Stage"), ValueStyle.Render(ictx.Stage))
	}
	if len(ictx.ProjectNames) > 0 {
		fmt.Printf("%s %s\n", RenderLabel("Projects"), ValueStyle.Render(strings.Join(ictx.ProjectNames, ", ")))
	}
}

// =============================================================================
// SESSION STATE
// =============================================================================

// applyToContext applies an interpreted command to the tracked session
// state and returns a one-line description of the effect. This mirrors
// what the workbench would do, minus rendering and persistence.
func applyToContext(cmd intent.Command, ictx *intent.Context) string {
	switch cmd.Type {
	case intent.CommandLoadStructure:
		ref := cmd.Param("structure_id", "id", "name")
		if ref == "" {
			return "No structure named. Try: load 1CRN"
		}
		ictx.ActiveStructure = strings.ToUpper(ref)
		return fmt.Sprintf("Structure %s is now active.", ictx.ActiveStructure)

	case intent.CommandPredictStructure:
		ictx.ActiveStructure = mol.Demo().ID
		return fmt.Sprintf("Prediction complete. Structure %s is now active.", ictx.ActiveStructure)

	case intent.CommandSetRepresentation:
		style := cmd.Param("style", "representation")
		if style == "" {
			return "No representation named. Try: show it as cartoon"
		}
		ictx.Representation = style
		return fmt.Sprintf("Representation set to %s.", style)

	case intent.CommandSetColor:
		scheme := cmd.Param("scheme", "color")
		if scheme == "" {
			return "No color scheme named. Try: color by element"
		}
		ictx.ColorScheme = scheme
		return fmt.Sprintf("Coloring by %s.", scheme)

	case intent.CommandSetSpin:
		on := !ictx.SpinEnabled
		switch cmd.Param("enabled") {
		case "on":
			on = true
		case "off":
			on = false
		}
		ictx.SpinEnabled = on
		if on {
			return "Spin on."
		}
		return "Spin off."

	case intent.CommandRunSimulation:
		ictx.SimulationRunning = true
		ictx.Stage = sim.StageMinimization.DisplayName()
		return "Simulation started."

	case intent.CommandStopSimulation:
		if !ictx.SimulationRunning {
			return "No simulation is running."
		}
		ictx.SimulationRunning = false
		ictx.Stage = sim.StageIdle.DisplayName()
		return "Simulation stopped."

	case intent.CommandShowViewer, intent.CommandShowAnalysis, intent.CommandShowEvaluation:
		return "Panel switching applies in the workbench. Run molesim without arguments."

	case intent.CommandExportReport:
		return "Report export runs from the workbench, or serve reports with: molesim serve"

	case intent.CommandNewProject:
		name := cmd.Param("name")
		if name == "" {
			return "No project name given. Try: new project called kinase study"
		}
		ictx.ProjectNames = append(ictx.ProjectNames, name)
		ictx.ActiveProject = name
		return fmt.Sprintf("Project %q created and active.", name)

	case intent.CommandOpenProject:
		ref := cmd.Param("name", "id")
		for _, name := range ictx.ProjectNames {
			if strings.EqualFold(name, ref) {
				ictx.ActiveProject = name
				return fmt.Sprintf("Project %q is now active.", name)
			}
		}
		return fmt.Sprintf("No project named %q in this session.", ref)

	case intent.CommandDeleteProject:
		ref := cmd.Param("name", "id")
		for i, name := range ictx.ProjectNames {
			if strings.EqualFold(name, ref) {
				ictx.ProjectNames = append(ictx.ProjectNames[:i], ictx.ProjectNames[i+1:]...)
				if strings.EqualFold(ictx.ActiveProject, name) {
					// Deleting the active project also drops the
					// structure it was viewing.
					ictx.ActiveProject = ""
					ictx.ActiveStructure = ""
				}
				return fmt.Sprintf("Project %q deleted.", name)
			}
		}
		return fmt.Sprintf("No project named %q in this session.", ref)

	case intent.CommandListProjects:
		if len(ictx.ProjectNames) == 0 {
			return "No projects in this session yet."
		}
		return "Projects: " + strings.Join(ictx.ProjectNames, ", ")

	case intent.CommandHelp:
		return "Type /help for session commands and instruction examples."

	case intent.CommandChat:
		if cmd.Explanation == "" {
			return "Noted."
		}
		return ""

	default:
		return fmt.Sprintf("Unhandled command %q.", string(cmd.Type))
	}
}
