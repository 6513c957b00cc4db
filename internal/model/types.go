// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by every bex front end.
package model

// NoExplanation is used when the model output carries no explanation.
const NoExplanation = "No explanation provided."

// =============================================================================
// GRAMMAR RESULT
// =============================================================================

// GrammarResult is a validated model response.
type GrammarResult struct {
	Corrected   string `json:"corrected"`
	Explanation string `json:"explanation"`
}

// =============================================================================
// HISTORY ENTRY
// =============================================================================

// HistoryEntry records one completed check. Entries are never edited after
// creation, only deleted.
type HistoryEntry struct {
	ID          string `json:"id"`
	Original    string `json:"original"`
	Corrected   string `json:"corrected"`
	Explanation string `json:"explanation"`
	Provider    string `json:"provider"`
	Model       string `json:"model"`
	Timestamp   string `json:"timestamp"` // ISO-8601
	ProfileName string `json:"profileName,omitempty"`
}

// =============================================================================
// PROFILE
// =============================================================================

// Profile is a named block of extra instructions appended to the system
// prompt. Identity is ID; updates replace the whole record.
type Profile struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Prompt    string `json:"prompt" yaml:"prompt"`
	IsDefault bool   `json:"isDefault,omitempty" yaml:"isDefault,omitempty"`
}

// =============================================================================
// PREFERENCES
// =============================================================================

// Preferences is the provider selection the front ends persist under the
// "preferences" key. API keys are kept by the front ends that need them.
type Preferences struct {
	Provider     Provider `json:"provider"`
	OpenAIAPIKey string   `json:"openaiApiKey,omitempty"`
	ClaudeAPIKey string   `json:"claudeApiKey,omitempty"`
	GeminiAPIKey string   `json:"geminiApiKey,omitempty"`
	OllamaURL    string   `json:"ollamaUrl,omitempty"`
	Model        string   `json:"model,omitempty"`
}
