// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatdeck/internal/api"
	"github.com/jeranaias/chatdeck/internal/model"
	"github.com/jeranaias/chatdeck/internal/util"
)

func (m *Model) sidebarWidth() int {
	w := m.cfg.UI.SidebarWidth
	if m.width > 0 && w > m.width/2 {
		w = m.width / 2
	}
	return w
}

func (m *Model) threadWidth() int {
	w := m.width - m.sidebarWidth() - 2
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) threadHeight() int {
	// header + input box + status bar
	h := m.height - 1 - 3 - 1
	if h < 3 {
		h = 3
	}
	return h
}

// View renders the whole screen.
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	thread := m.viewport.View()
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, thread)
	input := m.renderInput()
	status := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, input, status)
}

func (m *Model) renderHeader() string {
	title := "chatdeck"
	if conv := m.store.Active(); conv != nil {
		title = conv.Name
	}

	left := m.theme.Header.Render(util.TruncateWidth(title, m.width-14))

	var badge string
	if m.healthy && !api.IsOffline() {
		badge = m.theme.OnlineBadge.Render("[ONLINE]")
	} else {
		badge = m.theme.OfflineBadge.Render("[OFFLINE]")
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(badge)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + badge
}

func (m *Model) renderSidebar() string {
	width := m.sidebarWidth()
	inner := width - 3
	convs := m.sidebarConversations()
	active := m.store.ActiveID()

	var b strings.Builder
	b.WriteString(m.theme.SidebarTitleActive.Render("Conversations"))
	b.WriteString("\n\n")

	now := time.Now()
	for i, c := range convs {
		cursor := "  "
		if m.focus == focusSidebar && i == m.sidebarIndex {
			cursor = "> "
		}

		titleStyle := m.theme.SidebarTitle
		itemStyle := m.theme.SidebarItem
		if c.ID == active {
			titleStyle = m.theme.SidebarTitleActive
			itemStyle = m.theme.SidebarItemActive
		}

		title := util.TruncateWidth(c.Name, inner-2)
		date := formatDate(c.UpdatedAt, now)

		b.WriteString(itemStyle.Render(cursor + titleStyle.Render(title)))
		b.WriteString("\n")
		b.WriteString(m.theme.SidebarPreview.Render("  " + util.TruncateWidth(sidebarPreview(c), inner-2)))
		b.WriteString("\n")
		if date != "" {
			b.WriteString(m.theme.SidebarDate.Render("  " + date))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	style := m.theme.Sidebar
	if m.focus == focusSidebar {
		style = m.theme.SidebarFocused
	}
	return style.
		Width(width).
		Height(m.threadHeight()).
		MaxHeight(m.threadHeight()).
		Render(b.String())
}

// refreshThread re-renders the message thread into the viewport.
// follow keeps the view pinned to the bottom, which is what a live
// stream wants.
func (m *Model) refreshThread(follow bool) {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderThread())
	if follow {
		m.viewport.GotoBottom()
	}
}

func (m *Model) renderThread() string {
	conv := m.store.Active()
	if conv == nil || len(conv.Messages) == 0 {
		return m.theme.EmptyState.
			Width(m.threadWidth()).
			Render("\nNo messages yet. Say hello!")
	}

	width := m.threadWidth() - 2
	var b strings.Builder
	for i := range conv.Messages {
		msg := &conv.Messages[i]
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg, width))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderMessage(msg *model.Message, width int) string {
	ts := m.theme.Timestamp.Render(msg.Timestamp.Format("15:04"))

	if msg.Role == model.RoleUser {
		label := m.theme.UserLabel.Render("You") + " " + ts
		body := m.theme.UserBubble.MaxWidth(width).Render(msg.Content)
		return label + "\n" + body
	}

	label := m.theme.AssistantLabel.Render("Assistant") + " " + ts
	content := msg.Content

	streamingThis := m.state == StateStreaming && msg.ID == m.streamMsgID
	if streamingThis {
		content += m.spin.View()
	} else if m.renderer != nil && content != "" {
		// Markdown rendering only once the message is final; partial
		// markdown renders badly.
		if out, err := m.renderer.Render(content); err == nil {
			content = strings.TrimRight(out, "\n")
		}
	}
	if content == "" {
		content = m.spin.View() + " thinking..."
	}

	body := m.theme.AssistantBubble.MaxWidth(width).Render(content)
	return label + "\n" + body
}

func (m *Model) renderInput() string {
	style := m.theme.InputContainer
	if m.focus == focusComposer {
		style = m.theme.InputFocused
	}
	return style.Width(m.width - 2).Render(m.input.View())
}

func (m *Model) renderStatusBar() string {
	var parts []string

	if m.state == StateStreaming {
		parts = append(parts, m.theme.StreamBadge.Render(m.spin.View()+"streaming (esc to stop)"))
	}
	if badge := api.StatusBadge(); badge != "" {
		parts = append(parts, m.theme.OfflineBadge.Render(badge))
	}
	if m.statusNote != "" {
		parts = append(parts, m.theme.ShortcutDesc.Render(m.statusNote))
	}
	if m.lastErr != nil {
		parts = append(parts, m.theme.ErrorText.Render(util.TruncateWidth(m.lastErr.Error(), 48)))
	}

	shortcuts := []struct{ k, d string }{
		{"tab", "focus"},
		{"ctrl+n", "new"},
		{"ctrl+d", "delete"},
		{"ctrl+r", "regen"},
		{"ctrl+y", "copy"},
		{"ctrl+c", "quit"},
	}
	var sb strings.Builder
	for i, s := range shortcuts {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(m.theme.ShortcutKey.Render(s.k))
		sb.WriteString(" ")
		sb.WriteString(m.theme.ShortcutDesc.Render(s.d))
	}
	parts = append(parts, sb.String())

	return m.theme.StatusBar.Width(m.width).Render(strings.Join(parts, "  |  "))
}
