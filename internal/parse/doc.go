// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package parse turns raw LLM output into a validated grammar result.
//
// Models do not reliably return bare JSON. The parser tries, in order: the
// trimmed text as-is, the text with a Markdown code fence removed, and the
// span from the first '{' to the last '}'. The first candidate that decodes
// to an object with a string "corrected" field wins.
//
// # Key Types
//
//   - ParseError: Failure carrying the first 200 characters of the input
//
// # Usage
//
//	result, err := parse.ParseGrammarResponse(raw)
//	if errors.Is(err, parse.ErrUnparseable) {
//	    // show err to the user
//	}
//
// Unlike storage reads, parse failures are never recovered silently.
package parse
