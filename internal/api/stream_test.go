// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkedReader returns the underlying data in fixed-size reads, to
// simulate arbitrary transport chunking.
type chunkedReader struct {
	data []byte
	size int
	pos  int
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := r.size
	if n > len(p) {
		n = len(p)
	}
	if r.pos+n > len(r.data) {
		n = len(r.data) - r.pos
	}
	copy(p, r.data[r.pos:r.pos+n])
	r.pos += n
	return n, nil
}

func TestStreamReader_SingleRecord(t *testing.T) {
	sr := NewStreamReader(strings.NewReader("data: Hello\n\n"))
	content, err := sr.Process(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Hello", content)
}

func TestStreamReader_AccumulatesDeltas(t *testing.T) {
	input := "data: The\n\ndata:  quick\n\ndata:  brown fox\n\n"

	var deltas []string
	sr := NewStreamReader(strings.NewReader(input))
	content, err := sr.Process(context.Background(), func(d string) {
		deltas = append(deltas, d)
	})

	require.NoError(t, err)
	assert.Equal(t, "The quick brown fox", content)
	assert.Equal(t, []string{"The", " quick", " brown fox"}, deltas)
}

func TestStreamReader_ChunkBoundaryAssociativity(t *testing.T) {
	input := "data: Hel" + "lo\n\n" // one record regardless of how bytes arrive

	for _, size := range []int{1, 2, 3, 5, 7, 64} {
		r := &chunkedReader{data: []byte(input), size: size}
		content, err := NewStreamReader(r).Process(context.Background(), nil)
		require.NoError(t, err, "chunk size %d", size)
		assert.Equal(t, "Hello", content, "chunk size %d", size)
	}
}

func TestStreamReader_SplitAnywhereMatchesWhole(t *testing.T) {
	input := "data: alpha\n\ndata: beta\n\ndata: gamma\n\n"

	whole, err := NewStreamReader(strings.NewReader(input)).Process(context.Background(), nil)
	require.NoError(t, err)

	for size := 1; size <= len(input); size++ {
		r := &chunkedReader{data: []byte(input), size: size}
		got, err := NewStreamReader(r).Process(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, whole, got, "chunk size %d", size)
	}
}

func TestStreamReader_MissingTrailingSeparator(t *testing.T) {
	sr := NewStreamReader(strings.NewReader("data: last record"))
	content, err := sr.Process(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "last record", content)
}

func TestStreamReader_MultiLineDelta(t *testing.T) {
	// The record is the unit: an embedded newline belongs to the delta.
	input := "data: Hel\nlo\n\ndata:  there\n\n"
	content, err := NewStreamReader(strings.NewReader(input)).Process(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Hel\nlo there", content)
}

func TestStreamReader_IgnoresNonDataRecords(t *testing.T) {
	// A record not starting with the data prefix is dropped whole, even
	// when a data line appears later inside it.
	input := "event: message\ndata: skipped\n\ndata: payload\n\n: comment\n\n"
	content, err := NewStreamReader(strings.NewReader(input)).Process(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "payload", content)
}

func TestStreamReader_CRLFLines(t *testing.T) {
	input := "data: one\r\n\r\ndata: two\r\n\r\n"
	content, err := NewStreamReader(strings.NewReader(input)).Process(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "onetwo", content)
}

func TestStreamReader_EmptyStream(t *testing.T) {
	content, err := NewStreamReader(strings.NewReader("")).Process(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "", content)
}

func TestStreamReader_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStreamReader(strings.NewReader("data: x\n\n")).Process(ctx, nil)
	require.Error(t, err)

	var se *StreamError
	require.True(t, errors.As(err, &se))
	assert.True(t, errors.Is(err, context.Canceled))
}

// errReader fails after yielding some bytes.
type errReader struct {
	data string
	done bool
}

func (r *errReader) Read(p []byte) (int, error) {
	if !r.done {
		r.done = true
		return copy(p, r.data), nil
	}
	return 0, errors.New("connection reset")
}

func TestStreamReader_PartialPreservedOnFailure(t *testing.T) {
	r := &errReader{data: "data: partial\n\n"}
	content, err := NewStreamReader(r).Process(context.Background(), nil)

	require.Error(t, err)
	var se *StreamError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "partial", se.Partial)
	assert.Equal(t, "partial", content)
}
