// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jeranaias/chatdeck/internal/model"
)

const (
	// DefaultBaseURL is where the backend listens when nothing is configured.
	DefaultBaseURL = "http://localhost:5000"

	chatPath   = "/api/chat"
	healthPath = "/api/health"
)

// ChatRequest is the POST /api/chat body. SessionID is null until the
// backend has assigned one; Messages carries the prior thread so the
// backend sees full context.
type ChatRequest struct {
	Message   string               `json:"message"`
	SessionID *string              `json:"session_id"`
	Stream    bool                 `json:"stream"`
	Messages  []model.HistoryEntry `json:"messages"`
}

// Outcome is the tagged result of a send. Exactly one branch is set:
// Delivered means Stream carries the backend's response and must be
// closed by the caller; otherwise Unreachable holds the transport error
// and the offline fallback applies.
type Outcome struct {
	Delivered   bool
	Stream      io.ReadCloser
	Unreachable error
}

// Client talks to one chat backend.
type Client struct {
	baseURL string
	// Streaming responses can run for minutes, so the chat client has
	// no timeout; cancellation happens through the request context.
	httpClient *http.Client
}

// NewClient creates a client for the given base URL. An empty URL
// falls back to DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// BaseURL returns the backend address this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SendChat posts a message to the backend. Transport failures come back
// as an Unreachable outcome with a nil error, since the caller handles
// them with the offline fallback rather than treating them as faults.
// A non-2xx status or nil body is a real error.
func (c *Client) SendChat(ctx context.Context, message, sessionID string, history []model.HistoryEntry) (Outcome, error) {
	if history == nil {
		history = []model.HistoryEntry{}
	}
	req := ChatRequest{
		Message:  message,
		Stream:   true,
		Messages: history,
	}
	if sessionID != "" {
		req.SessionID = &sessionID
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Outcome{}, &ClientError{
			Type:    ErrorTypeStream,
			Message: "failed to encode chat request",
			Cause:   err,
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatPath, bytes.NewReader(body))
	if err != nil {
		return Outcome{}, &ClientError{
			Type:    ErrorTypeConnection,
			Message: "failed to build chat request",
			Cause:   err,
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Context cancellation is the caller's doing, not an outage.
		if ctx.Err() != nil {
			return Outcome{}, &ClientError{
				Type:    ErrorTypeTimeout,
				Message: "chat request canceled",
				Cause:   ctx.Err(),
			}
		}
		return Outcome{Unreachable: fmt.Errorf("%w: %v", ErrUnreachable, err)}, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return Outcome{}, &ClientError{
			Type:    ErrorTypeStatus,
			Message: fmt.Sprintf("server responded with %d", resp.StatusCode),
		}
	}
	if resp.Body == nil {
		return Outcome{}, &ClientError{
			Type:    ErrorTypeStream,
			Message: "response body is nil",
			Cause:   ErrNilBody,
		}
	}

	return Outcome{Delivered: true, Stream: resp.Body}, nil
}
