// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the conversation and message types used by chatdeck.
package model

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry in a conversation thread.
type Message struct {
	ID        int64     `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message stamped with the current time and a
// fresh id.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        NextMessageID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// Preview returns the first maxRunes characters of the content with
// newlines collapsed, for sidebar display.
func (m *Message) Preview(maxRunes int) string {
	content := strings.ReplaceAll(m.Content, "\n", " ")
	content = strings.TrimSpace(content)
	runes := []rune(content)
	if len(runes) <= maxRunes {
		return content
	}
	return string(runes[:maxRunes]) + "..."
}

// lastID holds the most recently issued message id. Ids are wall-clock
// milliseconds bumped monotonically, so two messages created in the
// same millisecond never collide.
var lastID atomic.Int64

// NextMessageID returns a unique, strictly increasing message id.
func NextMessageID() int64 {
	now := time.Now().UnixMilli()
	for {
		last := lastID.Load()
		id := now
		if id <= last {
			id = last + 1
		}
		if lastID.CompareAndSwap(last, id) {
			return id
		}
	}
}

// NewSessionID returns a backend session identifier. Sessions are
// assigned lazily, on the first delivered send of a conversation.
func NewSessionID() string {
	return "session-" + uuid.NewString()
}
