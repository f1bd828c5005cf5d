// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatdeck/internal/model"
)

func TestSendChat_Delivered(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/chat", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Write([]byte("data: Hello\n\ndata:  world\n\n"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	history := []model.HistoryEntry{{Role: "user", Content: "earlier"}}

	outcome, err := client.SendChat(context.Background(), "hi there", "", history)
	require.NoError(t, err)
	require.True(t, outcome.Delivered)
	require.NotNil(t, outcome.Stream)
	defer outcome.Stream.Close()

	assert.Equal(t, "hi there", gotBody["message"])
	assert.Nil(t, gotBody["session_id"])
	assert.Equal(t, true, gotBody["stream"])
	msgs, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 1)

	content, perr := NewStreamReader(outcome.Stream).Process(context.Background(), nil)
	require.NoError(t, perr)
	assert.Equal(t, "Hello world", content)
}

func TestSendChat_SessionIDForwarded(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte("data: ok\n\n"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	outcome, err := client.SendChat(context.Background(), "hi", "session-xyz", nil)
	require.NoError(t, err)
	require.True(t, outcome.Delivered)
	outcome.Stream.Close()

	assert.Equal(t, "session-xyz", gotBody["session_id"])
	// nil history marshals as an empty array, not null
	assert.Equal(t, []any{}, gotBody["messages"])
}

func TestSendChat_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	outcome, err := client.SendChat(context.Background(), "hi", "", nil)

	require.Error(t, err)
	assert.False(t, outcome.Delivered)
	assert.Nil(t, outcome.Unreachable)
	assert.True(t, IsStatusError(err))
	assert.Contains(t, err.Error(), "server responded with 500")
}

func TestSendChat_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(url)
	outcome, err := client.SendChat(context.Background(), "hi", "", nil)

	require.NoError(t, err)
	assert.False(t, outcome.Delivered)
	require.Error(t, outcome.Unreachable)
	assert.True(t, errors.Is(outcome.Unreachable, ErrUnreachable))
}

func TestSendChat_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("http://127.0.0.1:1")
	_, err := client.SendChat(ctx, "hi", "", nil)

	require.Error(t, err)
	var ce *ClientError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrorTypeTimeout, ce.Type)
}

func TestCheckHealth(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    bool
	}{
		{
			name: "healthy",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status":"healthy"}`))
			},
			want: true,
		},
		{
			name: "unhealthy status value",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status":"degraded"}`))
			},
			want: false,
		},
		{
			name: "http error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", http.StatusServiceUnavailable)
			},
			want: false,
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			got := NewClient(srv.URL).CheckHealth(context.Background())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckHealth_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	assert.False(t, NewClient(url).CheckHealth(context.Background()))
}

func TestCheckHealth_TimeoutBound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping slow timeout test")
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Block until the client gives up.
		<-r.Context().Done()
	}))
	defer srv.Close()

	start := time.Now()
	got := NewClient(srv.URL).CheckHealth(context.Background())
	elapsed := time.Since(start)

	assert.False(t, got)
	assert.Less(t, elapsed, HealthTimeout+time.Second)
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewClient("").BaseURL())
	assert.Equal(t, "http://example.test:9", NewClient("http://example.test:9").BaseURL())
}

func TestFallbackStream(t *testing.T) {
	notice := FallbackNotices[0]
	start := time.Now()

	stream := FallbackStream(context.Background(), notice)
	defer stream.Close()

	content, err := NewStreamReader(stream).Process(context.Background(), nil)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, notice, content)
	assert.GreaterOrEqual(t, elapsed, FallbackDelay)
}

func TestFallbackStream_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stream := FallbackStream(ctx, FallbackNotices[0])
	defer stream.Close()

	_, err := io.ReadAll(stream)
	assert.Error(t, err)
}

func TestPickNotice_InSet(t *testing.T) {
	valid := make(map[string]bool, len(FallbackNotices))
	for _, n := range FallbackNotices {
		valid[n] = true
	}
	for i := 0; i < 50; i++ {
		assert.True(t, valid[PickNotice()])
	}
}

func TestOfflineBadge(t *testing.T) {
	SetOffline(false)
	assert.Equal(t, "", StatusBadge())

	SetOffline(true)
	assert.Equal(t, "[OFFLINE]", StatusBadge())
	assert.True(t, IsOffline())

	SetOffline(false)
	assert.False(t, IsOffline())
}
