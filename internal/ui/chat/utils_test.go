// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"testing"
	"time"

	"github.com/jeranaias/chatdeck/internal/model"
)

func TestFormatDate(t *testing.T) {
	now := time.Date(2025, time.June, 15, 14, 30, 0, 0, time.Local)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"same day shows time", time.Date(2025, time.June, 15, 9, 5, 0, 0, time.Local), "09:05"},
		{"same year shows month day", time.Date(2025, time.February, 3, 9, 5, 0, 0, time.Local), "Feb 3"},
		{"older shows full date", time.Date(2024, time.December, 31, 9, 5, 0, 0, time.Local), "Dec 31 2024"},
		{"zero time is blank", time.Time{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatDate(tt.t, now); got != tt.want {
				t.Errorf("formatDate = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSidebarPreview(t *testing.T) {
	c := model.NewConversation(1)
	if got := sidebarPreview(c); got != "No messages yet" {
		t.Errorf("empty preview = %q", got)
	}

	c.AddUserMessage("short")
	if got := sidebarPreview(c); got != "short" {
		t.Errorf("preview = %q", got)
	}

	c.AddAssistantMessage("a reply that is much too long to fit inside the sidebar preview column")
	got := sidebarPreview(c)
	if len([]rune(got)) > previewWidth+3 {
		t.Errorf("preview too wide: %q", got)
	}

	c.AddAssistantMessage("line one\nline two")
	if got := sidebarPreview(c); got != "line one line two" {
		t.Errorf("newlines not collapsed: %q", got)
	}
}
