// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// DefaultTitle is the name given to a conversation before its first
// user message arrives.
const DefaultTitle = "New Chat"

// Conversation is a named thread of messages. SessionID is empty until
// the backend has acknowledged the first send.
type Conversation struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	SessionID string    `json:"session_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`
}

// HistoryEntry is the wire form of a prior message, sent alongside a
// new chat request so the backend sees the full thread.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewConversation creates an empty conversation with the default name.
func NewConversation(id int) *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        id,
		Name:      DefaultTitle,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []Message{},
	}
}

// AddMessage appends a message and bumps the update time.
func (c *Conversation) AddMessage(msg Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
}

// AddUserMessage appends a user message and returns its id.
func (c *Conversation) AddUserMessage(content string) int64 {
	msg := NewMessage(RoleUser, content)
	c.AddMessage(msg)
	return msg.ID
}

// AddAssistantMessage appends an assistant message and returns its id.
// Streaming sends start with empty content and fill in via AppendToMessage.
func (c *Conversation) AddAssistantMessage(content string) int64 {
	msg := NewMessage(RoleAssistant, content)
	c.AddMessage(msg)
	return msg.ID
}

// AppendToMessage adds a delta to the content of the message with the
// given id. Returns false when no such message exists.
func (c *Conversation) AppendToMessage(id int64, delta string) bool {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].ID == id {
			c.Messages[i].Content += delta
			c.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// SetMessageContent replaces the content of the message with the given id.
func (c *Conversation) SetMessageContent(id int64, content string) bool {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].ID == id {
			c.Messages[i].Content = content
			c.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// Message returns the message with the given id, or nil.
func (c *Conversation) Message(id int64) *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].ID == id {
			return &c.Messages[i]
		}
	}
	return nil
}

// LastMessage returns the most recent message, or nil for an empty thread.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}

// LastAssistantMessage returns the most recent assistant message, or nil.
func (c *Conversation) LastAssistantMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return &c.Messages[i]
		}
	}
	return nil
}

// UserMessageCount returns the number of user messages in the thread.
func (c *Conversation) UserMessageCount() int {
	count := 0
	for i := range c.Messages {
		if c.Messages[i].Role == RoleUser {
			count++
		}
	}
	return count
}

// History converts the current thread to its wire form.
func (c *Conversation) History() []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(c.Messages))
	for i := range c.Messages {
		entries = append(entries, HistoryEntry{
			Role:    string(c.Messages[i].Role),
			Content: c.Messages[i].Content,
		})
	}
	return entries
}

// TruncateForRegenerate prepares the thread for regenerating the
// assistant message at index: it drops that message and everything
// after it, and returns the content of the nearest earlier user message
// so the caller can resend it. Rejected when index does not point at an
// assistant message or no user message precedes it.
func (c *Conversation) TruncateForRegenerate(index int) (string, bool) {
	if index < 0 || index >= len(c.Messages) {
		return "", false
	}
	if c.Messages[index].Role != RoleAssistant {
		return "", false
	}
	for i := index - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleUser {
			content := c.Messages[i].Content
			c.Messages = c.Messages[:index]
			c.UpdatedAt = time.Now()
			return content, true
		}
	}
	return "", false
}

// Clone returns a deep copy, used when handing snapshots to other goroutines.
func (c *Conversation) Clone() *Conversation {
	clone := *c
	clone.Messages = make([]Message, len(c.Messages))
	copy(clone.Messages, c.Messages)
	return &clone
}
