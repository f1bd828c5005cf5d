// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api talks to the chat backend: sending messages, decoding the
// response stream, probing health, and fabricating offline fallbacks.
package api

import (
	"errors"
	"fmt"
)

// ErrorType classifies client failures.
type ErrorType int

const (
	// ErrorTypeConnection means the backend could not be reached at all.
	ErrorTypeConnection ErrorType = iota
	// ErrorTypeTimeout means the request exceeded its deadline.
	ErrorTypeTimeout
	// ErrorTypeStatus means the backend answered with a non-2xx status.
	ErrorTypeStatus
	// ErrorTypeStream means the response stream broke mid-read.
	ErrorTypeStream
)

// ClientError is the error type returned by the chat client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Sentinel errors for errors.Is comparisons.
var (
	ErrUnreachable = errors.New("backend unreachable")
	ErrNilBody     = errors.New("response body is nil")
)

// StreamError preserves the content accumulated before a stream broke,
// so the thread keeps the partial reply.
type StreamError struct {
	Partial string
	Err     error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream interrupted after %d bytes: %v", len(e.Partial), e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// IsStatusError reports whether err is a non-2xx backend response.
func IsStatusError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrorTypeStatus
}

// Assistant placeholder text shown when a send fails.
const (
	ErrorReply   = "Sorry, there was an error processing your request. Please try again."
	OfflineReply = "I'm currently in offline mode. The backend server is not available."
)
