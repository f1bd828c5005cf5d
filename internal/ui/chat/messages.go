// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the Bubble Tea model for the chatdeck TUI:
// conversation sidebar, message thread, composer, and the streaming
// receive loop.
package chat

import "time"

// StreamChunkMsg carries one text delta from an in-flight response
// stream. Gen identifies the stream generation; chunks from a
// superseded generation are dropped.
type StreamChunkMsg struct {
	ConvID int
	Gen    uint64
	MsgID  int64
	Delta  string
}

// StreamCompleteMsg signals that a response stream finished cleanly.
type StreamCompleteMsg struct {
	ConvID  int
	Gen     uint64
	MsgID   int64
	Content string
	Offline bool
}

// StreamErrorMsg signals that a send or its stream failed. Offline
// marks failures that happened while the backend was unreachable.
type StreamErrorMsg struct {
	ConvID  int
	Gen     uint64
	MsgID   int64
	Err     error
	Offline bool
}

// HealthMsg reports the result of a background health probe.
type HealthMsg struct {
	Healthy bool
}

// healthTickMsg schedules the next health probe.
type healthTickMsg time.Time

// flushTickMsg triggers a batched viewport repaint during streaming.
type flushTickMsg time.Time

// clipboardMsg reports the outcome of a copy-to-clipboard request.
type clipboardMsg struct {
	err error
}

// ConfigReloadedMsg arrives when the config file changed on disk.
type ConfigReloadedMsg struct{}
