// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by every bex front end.
//
// # Key Types
//
//   - GrammarResult: corrected text plus the model's explanation
//   - HistoryEntry: one completed check, persisted newest-first
//   - Profile: named extra prompt context for the checker
//   - Provider: LLM provider enumeration (openai, claude, gemini, ollama)
//   - Preferences: the provider/model selection stored under "preferences"
//
// JSON field names match the documents written by the desktop app and the
// launcher extension, so all of them can share one data file.
package model
