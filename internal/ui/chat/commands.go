// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatdeck/internal/api"
	"github.com/jeranaias/chatdeck/internal/model"
)

// runStream performs the network half of a send on its own goroutine,
// pushing messages into ch. The channel is closed when the stream ends,
// one way or another.
func runStream(ctx context.Context, client *api.Client, ch chan<- tea.Msg,
	convID int, gen uint64, msgID int64,
	text, sessionID string, history []model.HistoryEntry) {

	defer close(ch)

	outcome, err := client.SendChat(ctx, text, sessionID, history)
	if err != nil {
		ch <- StreamErrorMsg{ConvID: convID, Gen: gen, MsgID: msgID, Err: err, Offline: api.IsOffline()}
		return
	}

	var stream io.ReadCloser
	offline := false
	if outcome.Delivered {
		api.SetOffline(false)
		stream = outcome.Stream
	} else {
		// Backend unreachable: flip to offline mode and stream a
		// canned notice through the same decode path.
		api.SetOffline(true)
		offline = true
		stream = api.FallbackStream(ctx, api.PickNotice())
	}
	defer stream.Close()

	content, perr := api.NewStreamReader(stream).Process(ctx, func(delta string) {
		select {
		case ch <- StreamChunkMsg{ConvID: convID, Gen: gen, MsgID: msgID, Delta: delta}:
		case <-ctx.Done():
		}
	})
	if perr != nil {
		ch <- StreamErrorMsg{ConvID: convID, Gen: gen, MsgID: msgID, Err: perr, Offline: offline || api.IsOffline()}
		return
	}
	ch <- StreamCompleteMsg{ConvID: convID, Gen: gen, MsgID: msgID, Content: content, Offline: offline}
}

// waitForStream returns the next message from a live stream channel.
func waitForStream(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// drainStream discards whatever a superseded stream still has buffered
// so its goroutine can finish.
func drainStream(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		for range ch {
		}
		return nil
	}
}

// probeHealth checks the backend and reports the result.
func probeHealth(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		return HealthMsg{Healthy: client.CheckHealth(context.Background())}
	}
}

// healthTickCmd schedules the next periodic health probe.
func healthTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return healthTickMsg(t)
	})
}
