// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"
	"testing"

	"github.com/jeranaias/chatdeck/internal/model"
)

func TestParseGlobalFlags(t *testing.T) {
	var args Args
	remaining := parseGlobalFlags([]string{"--config", "/tmp/c.toml", "export", "3"}, &args)

	if args.ConfigPath != "/tmp/c.toml" {
		t.Errorf("ConfigPath = %q", args.ConfigPath)
	}
	if len(remaining) != 2 || remaining[0] != "export" {
		t.Errorf("remaining = %v", remaining)
	}
}

func TestParseExportArgs(t *testing.T) {
	var args Args
	parseExportArgs(&args, []string{"7", "--format", "json", "--out", "/tmp/conv.json"})

	if args.ConversationID != 7 {
		t.Errorf("ConversationID = %d", args.ConversationID)
	}
	if args.Format != "json" {
		t.Errorf("Format = %q", args.Format)
	}
	if args.OutPath != "/tmp/conv.json" {
		t.Errorf("OutPath = %q", args.OutPath)
	}
}

func TestParseExportArgs_Defaults(t *testing.T) {
	var args Args
	parseExportArgs(&args, []string{"2"})

	if args.Format != "md" {
		t.Errorf("default format = %q, want md", args.Format)
	}
	if args.ConversationID != 2 {
		t.Errorf("ConversationID = %d", args.ConversationID)
	}
}

func TestExportMarkdown(t *testing.T) {
	c := model.NewConversation(1)
	c.Name = "How are you doing?"
	c.AddUserMessage("How are you doing")
	c.AddAssistantMessage("Quite well, thanks for asking.")

	md := ExportMarkdown(c)

	if !strings.HasPrefix(md, "# How are you doing?\n") {
		t.Errorf("missing title heading:\n%s", md)
	}
	if !strings.Contains(md, "## You") {
		t.Errorf("missing user heading")
	}
	if !strings.Contains(md, "## Assistant") {
		t.Errorf("missing assistant heading")
	}
	if !strings.Contains(md, "Quite well, thanks for asking.") {
		t.Errorf("missing assistant content")
	}
}
