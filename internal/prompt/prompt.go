// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompt holds the instructions sent to the model for grammar
// checks and profile generation.
package prompt

import (
	"errors"
	"strings"
)

// System is the grammar-check system prompt. The model is asked for the JSON
// shape that parse.ParseGrammarResponse accepts.
const System = `You are a grammar and expression checker for English text.
Given the user's input text, correct any grammar mistakes, improve awkward phrasing, and make the expression more natural while preserving the original meaning and tone.

Respond ONLY with a JSON object in this exact format (no markdown, no code fences):
{"corrected": "<corrected text>", "explanation": "<brief note on what was changed>"}

If the text is already correct, return it unchanged with explanation "No changes needed."`

// ProfileGeneration is the system prompt for drafting a profile prompt from
// a Wizard description.
const ProfileGeneration = `You are helping a user create a profile for a grammar checker. Based on the user's writing context, generate a concise prompt (2-4 sentences) that will guide the grammar checker to correct text appropriately.

Write the prompt as instructions (e.g., "Keep the tone professional..."). Be specific but not restrictive. Respond with ONLY the prompt text, nothing else.`

// ErrEmptyWizard is returned when every Wizard field is blank.
var ErrEmptyWizard = errors.New("fill in at least one field")

// BuildSystem appends a profile prompt to System.
func BuildSystem(profilePrompt string) string {
	if profilePrompt == "" {
		return System
	}
	return System + "\n\nAdditional context from the user:\n" + profilePrompt
}

// Wizard describes a writing context for profile generation.
type Wizard struct {
	Role      string
	Audience  string
	Tone      string
	Formality string
	Domain    string
	Notes     string
}

// BuildProfileRequest renders the non-empty wizard fields, one per line.
func BuildProfileRequest(w Wizard) (string, error) {
	fields := []struct{ label, value string }{
		{"Role", w.Role},
		{"Audience", w.Audience},
		{"Tone", w.Tone},
		{"Formality", w.Formality},
		{"Domain", w.Domain},
		{"Additional notes", w.Notes},
	}

	var lines []string
	for _, f := range fields {
		if v := strings.TrimSpace(f.value); v != "" {
			lines = append(lines, f.label+": "+v)
		}
	}
	if len(lines) == 0 {
		return "", ErrEmptyWizard
	}
	return strings.Join(lines, "\n"), nil
}
