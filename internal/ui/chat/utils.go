// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sort"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatdeck/internal/model"
	"github.com/jeranaias/chatdeck/internal/util"
)

// previewWidth is how many columns a sidebar preview may use.
const previewWidth = 30

// formatDate renders a conversation timestamp the way the sidebar
// shows it: time of day for today, month and day within the current
// year, full date otherwise.
func formatDate(t time.Time, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	ty, tm, td := t.Date()
	ny, nm, nd := now.Date()
	switch {
	case ty == ny && tm == nm && td == nd:
		return t.Format("15:04")
	case ty == ny:
		return t.Format("Jan 2")
	default:
		return t.Format("Jan 2 2006")
	}
}

// sidebarPreview summarizes a conversation's last message for the
// sidebar, trimmed to the preview width.
func sidebarPreview(c *model.Conversation) string {
	last := c.LastMessage()
	if last == nil {
		return "No messages yet"
	}
	text := last.Preview(previewWidth * 2)
	return util.TruncateWidth(text, previewWidth)
}

// sidebarConversations returns the display order: the conversation
// with the most recent message first, empty threads ordered by id.
// The store keeps insertion order for persistence; only the view
// sorts.
func (m *Model) sidebarConversations() []*model.Conversation {
	convs := m.store.Conversations()
	sorted := make([]*model.Conversation, len(convs))
	copy(sorted, convs)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := lastActivity(sorted[i]), lastActivity(sorted[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return sorted[i].ID > sorted[j].ID
	})
	return sorted
}

func lastActivity(c *model.Conversation) time.Time {
	if msg := c.LastMessage(); msg != nil {
		return msg.Timestamp
	}
	return time.Time{}
}

// copyToClipboard writes content to the system clipboard off the main
// loop and reports the outcome.
func copyToClipboard(content string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{err: clipboard.WriteAll(content)}
	}
}
