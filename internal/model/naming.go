// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"

	"github.com/jeranaias/chatdeck/internal/util"
)

// Title derivation bounds. Plain messages are cut at 25 runes;
// interrogative spans may run to 30 but need at least 5.
const (
	titleMaxRunes    = 25
	questionMinRunes = 5
	questionMaxRunes = 30
)

// questionWords are the leading words that mark a message as a question
// for title purposes.
var questionWords = map[string]bool{
	"what": true, "who": true, "where": true, "when": true,
	"why": true, "how": true, "is": true, "are": true,
	"can": true, "could": true, "do": true, "does": true,
	"did": true, "will": true, "would": true, "should": true,
}

// DeriveTitle turns the first user message of a conversation into its
// title. Messages opening with a question word keep their leading span
// (at most 30 runes, cut on a word boundary) with a guaranteed trailing
// question mark; everything else is truncated to 25 runes with an
// ellipsis.
func DeriveTitle(message string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return DefaultTitle
	}
	if span, ok := interrogativeSpan(message); ok {
		if strings.HasSuffix(span, "?") {
			return span
		}
		return span + "?"
	}
	return util.TruncateRunes(message, titleMaxRunes)
}

// interrogativeSpan extracts the question span from a message that
// opens with a question word. The span is the whole message when it
// fits in the 30-rune bound, otherwise the longest word-boundary prefix
// that does.
func interrogativeSpan(message string) (string, bool) {
	first := message
	if idx := strings.IndexAny(message, " \t"); idx >= 0 {
		first = message[:idx]
	}
	first = strings.ToLower(strings.TrimRight(first, "?!.,"))
	if !questionWords[first] {
		return "", false
	}

	runes := []rune(message)
	if len(runes) < questionMinRunes {
		return "", false
	}
	if len(runes) <= questionMaxRunes {
		return message, true
	}

	span := string(runes[:questionMaxRunes])
	if idx := strings.LastIndexAny(span, " \t"); idx > 0 {
		span = span[:idx]
	}
	span = strings.TrimRight(span, " \t,.;:")
	if util.RuneLen(span) < questionMinRunes {
		return "", false
	}
	return span, true
}
