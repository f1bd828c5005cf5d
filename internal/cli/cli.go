// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses command line arguments and implements the
// non-interactive commands.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdHealth
	CmdExport
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// ConfigPath overrides the default config file location.
	ConfigPath string

	// Export options
	ConversationID int
	Format         string
	OutPath        string

	// Raw args remaining after flag parsing
	Raw []string
}

const usageText = `chatdeck - terminal client for a streaming chat backend

Usage:
  chatdeck                    Start the TUI (default)
  chatdeck healthcheck        Probe the backend and exit
  chatdeck export <id>        Export a conversation
  chatdeck version            Print version information
  chatdeck help               Show this help

Export options:
  --format md|json            Output format (default md)
  --out <path>                Write to a file instead of stdout

Global options:
  --config <path>             Use an alternate config file

Keys inside the TUI:
  enter   send message        tab     switch focus
  ctrl+n  new conversation    ctrl+d  delete conversation
  ctrl+r  regenerate reply    ctrl+l  clear all conversations
  ctrl+y  copy last reply     esc     stop streaming
  ctrl+c  quit
`

// Parse reads os.Args and returns the command to run.
func Parse() (Command, Args) {
	raw := os.Args[1:]
	var args Args

	remaining := parseGlobalFlags(raw, &args)
	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, args

	case "healthcheck", "health":
		return CmdHealth, args

	case "export":
		parseExportArgs(&args, remaining)
		return CmdExport, args

	case "version", "-v", "--version":
		return CmdVersion, args

	case "help", "-h", "--help":
		return CmdHelp, args

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		return CmdHelp, args
	}
}

func parseGlobalFlags(raw []string, args *Args) []string {
	var remaining []string
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case "--config":
			if i+1 < len(raw) {
				i++
				args.ConfigPath = raw[i]
			}
		default:
			remaining = append(remaining, raw[i])
		}
	}
	return remaining
}

func parseExportArgs(args *Args, remaining []string) {
	args.Format = "md"
	for i := 0; i < len(remaining); i++ {
		switch remaining[i] {
		case "--format":
			if i+1 < len(remaining) {
				i++
				args.Format = strings.ToLower(remaining[i])
			}
		case "--out":
			if i+1 < len(remaining) {
				i++
				args.OutPath = remaining[i]
			}
		default:
			var id int
			if _, err := fmt.Sscanf(remaining[i], "%d", &id); err == nil {
				args.ConversationID = id
			}
		}
	}
}

// HandleVersion prints build information.
func HandleVersion() {
	fmt.Printf("chatdeck %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}

// HandleHelp prints usage.
func HandleHelp() {
	fmt.Print(usageText)
}
