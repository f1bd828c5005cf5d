// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sync"
	"testing"
)

func TestStreamingBuffer_AppendDrain(t *testing.T) {
	b := NewStreamingBuffer()

	b.Append("Hel")
	b.Append("lo")
	if b.Len() != 5 {
		t.Errorf("Len = %d, want 5", b.Len())
	}

	if got := b.Drain(); got != "Hello" {
		t.Errorf("Drain = %q, want Hello", got)
	}
	if got := b.Drain(); got != "" {
		t.Errorf("second Drain = %q, want empty", got)
	}
	if b.Len() != 0 {
		t.Errorf("Len after drain = %d", b.Len())
	}
}

func TestStreamingBuffer_ConcurrentAppend(t *testing.T) {
	b := NewStreamingBuffer()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.Append("x")
			}
		}()
	}
	wg.Wait()

	if got := len(b.Drain()); got != 1000 {
		t.Errorf("drained %d bytes, want 1000", got)
	}
}
