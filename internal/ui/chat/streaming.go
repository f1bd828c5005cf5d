// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// flushInterval paces viewport repaints during streaming to roughly
// 30fps. Deltas arrive much faster than that; repainting per delta
// would burn cycles re-wrapping the whole thread.
const flushInterval = 33 * time.Millisecond

// StreamingBuffer collects deltas between repaints. Chunks land here
// from the receive loop and are drained in one batch on each flush tick.
type StreamingBuffer struct {
	mu      sync.Mutex
	pending strings.Builder
}

// NewStreamingBuffer creates an empty buffer.
func NewStreamingBuffer() *StreamingBuffer {
	return &StreamingBuffer{}
}

// Append adds a delta to the pending batch.
func (b *StreamingBuffer) Append(delta string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending.WriteString(delta)
}

// Drain returns the pending batch and resets the buffer.
func (b *StreamingBuffer) Drain() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.pending.String()
	b.pending.Reset()
	return out
}

// Len reports the pending batch size in bytes.
func (b *StreamingBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending.Len()
}

// streamTickCmd schedules the next flush while a stream is live.
func streamTickCmd() tea.Cmd {
	return tea.Tick(flushInterval, func(t time.Time) tea.Msg {
		return flushTickMsg(t)
	})
}
