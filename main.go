// chatdeck - a terminal client for a streaming chat backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatdeck/internal/api"
	"github.com/jeranaias/chatdeck/internal/cli"
	"github.com/jeranaias/chatdeck/internal/config"
	"github.com/jeranaias/chatdeck/internal/storage"
	"github.com/jeranaias/chatdeck/internal/store"
	"github.com/jeranaias/chatdeck/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)

	case cli.CmdHealth:
		cli.HandleHealth(mustConfig(args))

	case cli.CmdExport:
		if err := cli.HandleExport(mustConfig(args), args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case cli.CmdVersion:
		cli.HandleVersion()

	case cli.CmdHelp:
		cli.HandleHelp()
	}
}

func mustConfig(args cli.Args) *config.Config {
	cfg, err := cli.LoadConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func runTUI(args cli.Args) {
	cfg := mustConfig(args)

	snapPath, err := cfg.SnapshotPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	st, err := store.New(storage.NewSnapshotStore(snapPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize conversations: %v\n", err)
		os.Exit(1)
	}

	client := api.NewClient(cfg.Server.BaseURL)
	m := chat.New(st, client, cfg)

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Hot-reload the config file while the TUI runs. A watch failure is
	// not fatal; the session just keeps its startup settings.
	cfgPath := args.ConfigPath
	if cfgPath == "" {
		cfgPath, _ = config.DefaultPath()
	}
	if cfgPath != "" {
		if stop, werr := config.Watch(cfgPath, func(*config.Config) {
			p.Send(chat.ConfigReloadedMsg{})
		}); werr == nil {
			defer stop()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
