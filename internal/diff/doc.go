// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package diff provides word-level diff computation and formatting for
// grammar corrections.
//
// Text is split into runs of whitespace and non-whitespace, and the two token
// sequences are aligned on their longest common subsequence. Whitespace is
// kept as tokens, so either input can be rebuilt from the result exactly.
//
// # Key Types
//
//   - WordType: Type of token (unchanged, added, removed)
//   - Word: Single token with its type
//   - Run: Maximal group of adjacent tokens sharing a type
//   - DiffStats: Counts of added, removed and unchanged words
//
// # Usage
//
// Compute a diff and render it as Markdown:
//
//	words := diff.ComputeWordDiff("the cat sat", "the dog sat")
//	fmt.Println(diff.ToMarkdown(words)) // the ~~cat~~**dog** sat
//
// Render for a terminal:
//
//	fmt.Println(diff.RenderANSI(words, diff.DefaultStyles()))
//
// Every function is pure and safe for concurrent use.
package diff
