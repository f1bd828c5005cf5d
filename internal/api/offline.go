// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"io"
	"math/rand"
	"sync"
	"time"
)

// FallbackDelay is the artificial pause before a canned notice streams
// back, so the fallback reads like a reply rather than an instant error.
const FallbackDelay = 500 * time.Millisecond

// FallbackNotices are the canned replies used when the backend cannot
// be reached. One is picked pseudo-randomly per failed send.
var FallbackNotices = []string{
	"I'm sorry, but I'm currently running in offline mode. The backend server is not available.",
	"It seems the backend server is not running. I'm operating in fallback mode with limited capabilities.",
	"I can't connect to the backend server right now. Please check if it's running at " + DefaultBaseURL + ".",
	"I'm in offline mode. To get full functionality, please make sure the backend server is running.",
	"Backend connection failed. I'm providing a simulated response since I can't reach the server.",
}

// PickNotice returns one of the canned notices.
func PickNotice() string {
	return FallbackNotices[rand.Intn(len(FallbackNotices))]
}

// FallbackStream fabricates a response stream carrying a single record
// with the given notice, emitted after FallbackDelay. It decodes through
// the same StreamReader path as a real backend response. Canceling the
// context releases the stream early.
func FallbackStream(ctx context.Context, notice string) io.ReadCloser {
	pr, pw := io.Pipe()
	go func() {
		select {
		case <-ctx.Done():
			pw.CloseWithError(ctx.Err())
			return
		case <-time.After(FallbackDelay):
		}
		pw.Write([]byte(dataPrefix + notice + "\n\n"))
		pw.Close()
	}()
	return pr
}

// Offline mode is process-global: any component can flip it when a send
// fails and the health prober clears it when the backend answers again.
var (
	offlineMu   sync.RWMutex
	offlineMode bool
)

// SetOffline records whether the backend is currently unreachable.
func SetOffline(offline bool) {
	offlineMu.Lock()
	defer offlineMu.Unlock()
	offlineMode = offline
}

// IsOffline reports whether the client is in offline mode.
func IsOffline() bool {
	offlineMu.RLock()
	defer offlineMu.RUnlock()
	return offlineMode
}

// StatusBadge returns the status bar marker for offline mode, or an
// empty string when online.
func StatusBadge() string {
	if IsOffline() {
		return "[OFFLINE]"
	}
	return ""
}
