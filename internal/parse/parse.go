// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package parse

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/jeranaias/bex/internal/model"
	"github.com/jeranaias/bex/internal/util"
)

// SnippetLength is how much of the raw input a ParseError keeps.
const SnippetLength = 200

// =============================================================================
// ERRORS
// =============================================================================

// ErrUnparseable matches every ParseError via errors.Is.
var ErrUnparseable = errors.New("could not parse LLM response as JSON")

// errMissingCorrected is the validation failure for a decoded value that is
// not an object with a string "corrected" field.
var errMissingCorrected = errors.New("response missing 'corrected' field")

// ParseError reports that no strategy produced a valid result.
type ParseError struct {
	Snippet string // First SnippetLength runes of the raw input
	Cause   error  // Failure from the last strategy attempted
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return ErrUnparseable.Error() + ": " + e.Snippet
}

// Unwrap returns the last strategy's failure.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is support for the ErrUnparseable sentinel.
func (e *ParseError) Is(target error) bool {
	if target == ErrUnparseable {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// =============================================================================
// PARSER
// =============================================================================

// ParseGrammarResponse extracts a GrammarResult from raw model output.
// A missing or empty explanation becomes model.NoExplanation.
func ParseGrammarResponse(raw string) (model.GrammarResult, error) {
	trimmed := util.TrimECMASpace(raw)

	result, err := decode(trimmed)
	if err == nil {
		return result, nil
	}

	stripped := stripFence(trimmed)
	if result, err = decode(stripped); err == nil {
		return result, nil
	}

	start := strings.IndexByte(stripped, '{')
	end := strings.LastIndexByte(stripped, '}')
	if start != -1 && end > start {
		if result, err = decode(stripped[start : end+1]); err == nil {
			return result, nil
		}
	}

	return model.GrammarResult{}, &ParseError{
		Snippet: util.TruncateRunesNoEllipsis(raw, SnippetLength),
		Cause:   err,
	}
}

// stripFence removes a leading ```json or ``` marker and a trailing ```.
func stripFence(s string) string {
	if len(s) >= 7 && strings.EqualFold(s[:7], "```json") {
		s = strings.TrimLeftFunc(s[7:], util.IsECMASpace)
	}
	if strings.HasPrefix(s, "```") {
		s = strings.TrimLeftFunc(s[3:], util.IsECMASpace)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimRightFunc(s[:len(s)-3], util.IsECMASpace)
	}
	return util.TrimECMASpace(s)
}

// decode parses one candidate and validates its shape.
func decode(candidate string) (model.GrammarResult, error) {
	var value any
	if err := json.Unmarshal([]byte(candidate), &value); err != nil {
		return model.GrammarResult{}, err
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return model.GrammarResult{}, errMissingCorrected
	}
	corrected, ok := obj["corrected"].(string)
	if !ok {
		return model.GrammarResult{}, errMissingCorrected
	}

	return model.GrammarResult{
		Corrected:   corrected,
		Explanation: explanation(obj["explanation"]),
	}, nil
}

// explanation keeps any truthy value. Non-string values are kept as their
// JSON text so the result stays a plain string.
func explanation(v any) string {
	switch e := v.(type) {
	case nil:
		return model.NoExplanation
	case string:
		if e == "" {
			return model.NoExplanation
		}
		return e
	case bool:
		if !e {
			return model.NoExplanation
		}
	case float64:
		if e == 0 {
			return model.NoExplanation
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return model.NoExplanation
	}
	return string(data)
}
