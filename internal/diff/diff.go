// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package diff provides word-level diff computation and formatting for
// grammar corrections.
package diff

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jeranaias/bex/internal/util"
)

// =============================================================================
// WORD TYPES
// =============================================================================

// WordType represents how a token changed between original and corrected text.
type WordType int

const (
	// Unchanged tokens appear in both texts
	Unchanged WordType = iota
	// Added tokens appear only in the corrected text
	Added
	// Removed tokens appear only in the original text
	Removed
)

// String returns the string representation of a word type.
func (t WordType) String() string {
	switch t {
	case Unchanged:
		return "unchanged"
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the type as its lowercase name.
func (t WordType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes "unchanged", "added" or "removed".
func (t *WordType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "unchanged":
		*t = Unchanged
	case "added":
		*t = Added
	case "removed":
		*t = Removed
	default:
		return fmt.Errorf("unknown word type %q", s)
	}
	return nil
}

// =============================================================================
// WORD
// =============================================================================

// Word is a single token of a diff. Whitespace runs are tokens of their own,
// so joining every token's Text on one side reproduces that side exactly.
type Word struct {
	Text string   `json:"text"`
	Type WordType `json:"type"`
}

// =============================================================================
// TOKENIZER
// =============================================================================

// isSpace uses the ECMAScript set so tokens match those the other front
// ends produce.
var isSpace = util.IsECMASpace

// tokenize splits s into alternating runs of whitespace and non-whitespace.
// Empty input yields no tokens.
func tokenize(s string) []string {
	var tokens []string
	start := 0
	inSpace := false
	for i, r := range s {
		sp := isSpace(r)
		if i > start && sp != inSpace {
			tokens = append(tokens, s[start:i])
			start = i
		}
		inSpace = sp
	}
	if start < len(s) {
		tokens = append(tokens, s[start:])
	}
	return tokens
}

// =============================================================================
// DIFF COMPUTATION
// =============================================================================

// ComputeWordDiff aligns the tokens of original and corrected on their
// longest common subsequence. When an addition and a removal tie in LCS
// length the addition is reported first during backtracking, which puts
// the removal ahead of it in the returned order.
func ComputeWordDiff(original, corrected string) []Word {
	a := tokenize(original)
	b := tokenize(corrected)
	m, n := len(a), len(b)

	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else {
				dp[i][j] = max(dp[i-1][j], dp[i][j-1])
			}
		}
	}

	words := make([]Word, 0, max(m, n))
	i, j := m, n
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && a[i-1] == b[j-1]:
			words = append(words, Word{Text: a[i-1], Type: Unchanged})
			i--
			j--
		case j > 0 && (i == 0 || dp[i][j-1] >= dp[i-1][j]):
			words = append(words, Word{Text: b[j-1], Type: Added})
			j--
		default:
			words = append(words, Word{Text: a[i-1], Type: Removed})
			i--
		}
	}

	for l, r := 0, len(words)-1; l < r; l, r = l+1, r-1 {
		words[l], words[r] = words[r], words[l]
	}
	return words
}

// =============================================================================
// GROUPING
// =============================================================================

// Run is a maximal sequence of consecutive tokens sharing one type.
type Run struct {
	Type WordType
	Text string
}

// Group merges adjacent words of the same type into runs.
func Group(words []Word) []Run {
	var runs []Run
	for _, w := range words {
		if n := len(runs); n > 0 && runs[n-1].Type == w.Type {
			runs[n-1].Text += w.Text
			continue
		}
		runs = append(runs, Run{Type: w.Type, Text: w.Text})
	}
	return runs
}

// ToMarkdown renders additions as **bold** and removals as ~~strikethrough~~.
// Runs are grouped first so adjacent markers never collide.
func ToMarkdown(words []Word) string {
	var sb strings.Builder
	for _, run := range Group(words) {
		switch run.Type {
		case Added:
			sb.WriteString("**" + run.Text + "**")
		case Removed:
			sb.WriteString("~~" + run.Text + "~~")
		default:
			sb.WriteString(run.Text)
		}
	}
	return sb.String()
}

// Original joins the unchanged and removed tokens.
func Original(words []Word) string {
	return join(words, Removed)
}

// Corrected joins the unchanged and added tokens.
func Corrected(words []Word) string {
	return join(words, Added)
}

func join(words []Word, side WordType) string {
	var sb strings.Builder
	for _, w := range words {
		if w.Type == Unchanged || w.Type == side {
			sb.WriteString(w.Text)
		}
	}
	return sb.String()
}

// =============================================================================
// DIFF STATS
// =============================================================================

// DiffStats counts non-whitespace tokens by type.
type DiffStats struct {
	Added     int // Words only in the corrected text
	Removed   int // Words only in the original text
	Unchanged int // Words in both
}

// Stats tallies the words of a diff. Whitespace tokens are not counted.
func Stats(words []Word) DiffStats {
	var s DiffStats
	for _, w := range words {
		if strings.IndexFunc(w.Text, func(r rune) bool { return !isSpace(r) }) < 0 {
			continue
		}
		switch w.Type {
		case Added:
			s.Added++
		case Removed:
			s.Removed++
		default:
			s.Unchanged++
		}
	}
	return s
}

// Changed reports whether any word was added or removed.
func (s DiffStats) Changed() bool {
	return s.Added > 0 || s.Removed > 0
}

// Summary returns a human-readable summary of the diff.
func (s DiffStats) Summary() string {
	if !s.Changed() {
		return "No changes"
	}
	var parts []string
	if s.Added > 0 {
		parts = append(parts, fmt.Sprintf("+%d", s.Added))
	}
	if s.Removed > 0 {
		parts = append(parts, fmt.Sprintf("-%d", s.Removed))
	}
	return strings.Join(parts, " ")
}
