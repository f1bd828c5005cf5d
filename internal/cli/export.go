// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/chatdeck/internal/config"
	"github.com/jeranaias/chatdeck/internal/model"
	"github.com/jeranaias/chatdeck/internal/storage"
	"github.com/jeranaias/chatdeck/internal/store"
	"github.com/jeranaias/chatdeck/internal/util"
)

// HandleExport dumps one conversation from the snapshot as Markdown or
// JSON, to stdout or a file.
func HandleExport(cfg *config.Config, args Args) error {
	if args.ConversationID == 0 {
		return fmt.Errorf("export needs a conversation id, see 'chatdeck help'")
	}

	path, err := cfg.SnapshotPath()
	if err != nil {
		return err
	}
	snap, err := storage.NewSnapshotStore(path).Load()
	if err != nil {
		return fmt.Errorf("failed to load conversations: %w", err)
	}
	if snap == nil {
		return fmt.Errorf("no conversations saved yet")
	}

	conv := findConversation(snap, args.ConversationID)
	if conv == nil {
		return fmt.Errorf("conversation %d not found", args.ConversationID)
	}

	var out string
	switch args.Format {
	case "json":
		data, err := json.MarshalIndent(conv, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode conversation: %w", err)
		}
		out = string(data)
	case "md", "markdown", "":
		out = ExportMarkdown(conv)
	default:
		return fmt.Errorf("unknown format %q (want md or json)", args.Format)
	}

	if args.OutPath != "" {
		if err := util.AtomicWriteFile(args.OutPath, []byte(out), 0644); err != nil {
			return err
		}
		fmt.Printf("exported conversation %d to %s\n", conv.ID, args.OutPath)
		return nil
	}

	// Markdown headed for a terminal gets rendered.
	if args.Format != "json" {
		if rendered, err := renderMarkdown(out); err == nil {
			out = rendered
		}
	}
	fmt.Print(out)
	if !strings.HasSuffix(out, "\n") {
		fmt.Println()
	}
	return nil
}

func findConversation(snap *store.Snapshot, id int) *model.Conversation {
	for _, c := range snap.Conversations {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// ExportMarkdown renders a conversation as a Markdown document.
func ExportMarkdown(c *model.Conversation) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(c.Name)
	b.WriteString("\n\n")
	if !c.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "_Started %s_\n\n", c.CreatedAt.Format("Jan 2 2006 15:04"))
	}

	for i := range c.Messages {
		msg := &c.Messages[i]
		switch msg.Role {
		case model.RoleUser:
			b.WriteString("## You")
		case model.RoleAssistant:
			b.WriteString("## Assistant")
		default:
			b.WriteString("## " + string(msg.Role))
		}
		if !msg.Timestamp.IsZero() {
			fmt.Fprintf(&b, " (%s)", msg.Timestamp.Format("15:04"))
		}
		b.WriteString("\n\n")
		b.WriteString(msg.Content)
		b.WriteString("\n\n")
	}
	return b.String()
}

func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

// LoadConfig resolves the config file, honoring a --config override,
// and installs the result as the global configuration.
func LoadConfig(args Args) (*config.Config, error) {
	path := args.ConfigPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	config.SetGlobal(cfg)
	return cfg, nil
}
