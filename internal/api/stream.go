// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// dataPrefix marks a payload record in the stream.
const dataPrefix = "data: "

// StreamReader decodes the chat response stream: blank-line-separated
// records, each carrying a raw text delta after the "data: " prefix.
// The record is the unit, so a delta may itself contain newlines; a
// record that does not start with the prefix is ignored whole. Reading
// line by line makes decoding independent of how the transport chunks
// the bytes.
type StreamReader struct {
	reader *bufio.Reader
}

// NewStreamReader wraps a response body.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{reader: bufio.NewReader(r)}
}

// ReadRecord returns the next record's payload. It returns io.EOF when
// the stream is exhausted. Records without the data prefix yield an
// empty payload.
func (sr *StreamReader) ReadRecord() (string, error) {
	var record strings.Builder
	sawLine := false

	for {
		line, err := sr.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				if line == "" && !sawLine {
					return "", io.EOF
				}
				// Final record without a trailing blank line.
				if line != "" {
					writeRecordLine(&record, sawLine, strings.TrimSuffix(line, "\r"))
				}
				return recordPayload(record.String()), nil
			}
			return "", err
		}

		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")

		if line == "" {
			if !sawLine {
				// Extra separator between records, keep scanning.
				continue
			}
			return recordPayload(record.String()), nil
		}

		writeRecordLine(&record, sawLine, line)
		sawLine = true
	}
}

func writeRecordLine(b *strings.Builder, sawLine bool, line string) {
	if sawLine {
		b.WriteByte('\n')
	}
	b.WriteString(line)
}

// recordPayload strips the data prefix from a whole record. Payloads
// keep any interior newlines; unprefixed records are dropped.
func recordPayload(record string) string {
	if strings.HasPrefix(record, dataPrefix) {
		return record[len(dataPrefix):]
	}
	return ""
}

// StreamCallback receives each text delta as it arrives.
type StreamCallback func(delta string)

// Process reads records until the stream ends, invoking callback for
// each non-empty payload. It returns the accumulated content. On a
// mid-stream failure the error is a *StreamError carrying the partial
// content; context cancellation is reported the same way.
func (sr *StreamReader) Process(ctx context.Context, callback StreamCallback) (string, error) {
	var accumulated strings.Builder

	for {
		select {
		case <-ctx.Done():
			return accumulated.String(), &StreamError{
				Partial: accumulated.String(),
				Err:     ctx.Err(),
			}
		default:
		}

		payload, err := sr.ReadRecord()
		if err == io.EOF {
			return accumulated.String(), nil
		}
		if err != nil {
			return accumulated.String(), &StreamError{
				Partial: accumulated.String(),
				Err:     err,
			}
		}
		if payload == "" {
			continue
		}

		accumulated.WriteString(payload)
		if callback != nil {
			callback(payload)
		}
	}
}
