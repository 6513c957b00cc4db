// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by every bex front end.
package model

import "time"

// =============================================================================
// PROVIDER TYPE
// =============================================================================

// Provider identifies the LLM service that produced a correction.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderClaude Provider = "claude"
	ProviderGemini Provider = "gemini"
	ProviderOllama Provider = "ollama"
)

// Providers lists every supported provider in display order.
var Providers = []Provider{ProviderOpenAI, ProviderClaude, ProviderGemini, ProviderOllama}

// String returns the string representation of the provider.
func (p Provider) String() string {
	return string(p)
}

// Valid reports whether p is one of the supported providers.
func (p Provider) Valid() bool {
	switch p {
	case ProviderOpenAI, ProviderClaude, ProviderGemini, ProviderOllama:
		return true
	}
	return false
}

// DisplayName returns a human-readable name for the provider.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderClaude:
		return "Claude"
	case ProviderGemini:
		return "Gemini"
	case ProviderOllama:
		return "Ollama"
	default:
		return string(p)
	}
}

// DefaultTimeout is how long a single check may take. Local models get longer.
func (p Provider) DefaultTimeout() time.Duration {
	if p == ProviderOllama {
		return 30 * time.Second
	}
	return 10 * time.Second
}

// =============================================================================
// DEFAULT MODELS
// =============================================================================

// DefaultModels is the model used when the user has not picked one.
var DefaultModels = map[Provider]string{
	ProviderOpenAI: "gpt-4.1-mini",
	ProviderClaude: "claude-sonnet-4-5-20250929",
	ProviderGemini: "gemini-2.5-flash",
	ProviderOllama: "llama3.2",
}

// ModelFor returns override when set, else the provider's default model.
func ModelFor(p Provider, override string) string {
	if override != "" {
		return override
	}
	if m, ok := DefaultModels[p]; ok {
		return m
	}
	return "default"
}
