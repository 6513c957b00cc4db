// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func filterType(words []Word, t WordType) []Word {
	var out []Word
	for _, w := range words {
		if w.Type == t {
			out = append(out, w)
		}
	}
	return out
}

func TestComputeWordDiff_Identical(t *testing.T) {
	inputs := []string{"hello world", "a  b", "  leading and trailing\t\n", "one", "tab\tsep\u00a0nbsp"}

	for _, s := range inputs {
		words := ComputeWordDiff(s, s)
		for _, w := range words {
			if w.Type != Unchanged {
				t.Errorf("%q: expected only unchanged tokens, got %s %q", s, w.Type, w.Text)
			}
		}
		if got := Original(words); got != s {
			t.Errorf("Expected %q, got %q", s, got)
		}
	}
}

func TestComputeWordDiff_Replacement(t *testing.T) {
	words := ComputeWordDiff("the cat sat", "the dog sat")

	removed := filterType(words, Removed)
	added := filterType(words, Added)

	if len(removed) != 1 || removed[0].Text != "cat" {
		t.Errorf("Expected one removed token 'cat', got %v", removed)
	}
	if len(added) != 1 || added[0].Text != "dog" {
		t.Errorf("Expected one added token 'dog', got %v", added)
	}

	expected := []Word{
		{"the", Unchanged},
		{" ", Unchanged},
		{"cat", Removed},
		{"dog", Added},
		{" ", Unchanged},
		{"sat", Unchanged},
	}
	if !reflect.DeepEqual(words, expected) {
		t.Errorf("Expected %v, got %v", expected, words)
	}

	if md := ToMarkdown(words); md != "the ~~cat~~**dog** sat" {
		t.Errorf("Expected markdown 'the ~~cat~~**dog** sat', got '%s'", md)
	}
}

func TestComputeWordDiff_Insertions(t *testing.T) {
	words := ComputeWordDiff("hello world", "hello beautiful world")

	found := false
	for _, w := range filterType(words, Added) {
		if w.Text == "beautiful" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected 'beautiful' to be added, got %v", words)
	}
	if len(filterType(words, Removed)) != 0 {
		t.Errorf("Expected no removals, got %v", words)
	}
}

func TestComputeWordDiff_Deletions(t *testing.T) {
	words := ComputeWordDiff("hello beautiful world", "hello world")

	found := false
	for _, w := range filterType(words, Removed) {
		if w.Text == "beautiful" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected 'beautiful' to be removed, got %v", words)
	}
}

func TestComputeWordDiff_EmptyInputs(t *testing.T) {
	tests := []struct {
		name      string
		original  string
		corrected string
		expected  []Word
	}{
		{"empty original", "", "hello", []Word{{"hello", Added}}},
		{"empty corrected", "hello", "", []Word{{"hello", Removed}}},
		{"both empty", "", "", []Word{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeWordDiff(tt.original, tt.corrected)
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %v, got %v", tt.expected, got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: expected %v, got %v", i, tt.expected[i], got[i])
				}
			}
		})
	}
}

func TestComputeWordDiff_Reconstruction(t *testing.T) {
	pairs := [][2]string{
		{"Their going to the store tomorow.", "They're going to the store tomorrow."},
		{"i has  a apple", "I have an apple"},
		{"  spaced   out  ", "spaced out"},
		{"line one\nline two", "line one\n\nline 2"},
		{"a b a b", "b a b a"},
		{"same", "different entirely here"},
		{"", "  "},
		{"\u3000ideographic\u3000space", "ideographic space"},
	}

	for _, p := range pairs {
		words := ComputeWordDiff(p[0], p[1])
		if got := Original(words); got != p[0] {
			t.Errorf("original side: expected %q, got %q", p[0], got)
		}
		if got := Corrected(words); got != p[1] {
			t.Errorf("corrected side: expected %q, got %q", p[1], got)
		}
	}
}

func TestComputeWordDiff_TieBreak(t *testing.T) {
	// "a" vs "b": both paths have LCS 0. Backtracking takes the addition
	// first, so after reversal the removal leads.
	words := ComputeWordDiff("a", "b")
	expected := []Word{{"a", Removed}, {"b", Added}}
	if !reflect.DeepEqual(words, expected) {
		t.Errorf("Expected %v, got %v", expected, words)
	}

	words = ComputeWordDiff("x y", "y x")
	expected = []Word{{"x", Removed}, {" ", Removed}, {"y", Unchanged}, {" ", Added}, {"x", Added}}
	if !reflect.DeepEqual(words, expected) {
		t.Errorf("Expected %v, got %v", expected, words)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a  b", []string{"a", "  ", "b"}},
		{" a ", []string{" ", "a", " "}},
		{"a\t\nb", []string{"a", "\t\n", "b"}},
		{"a\u00a0b", []string{"a", "\u00a0", "b"}},
		{"a\u2003b", []string{"a", "\u2003", "b"}},
		{"a\u0085b", []string{"a\u0085b"}},
		{"héllo wörld", []string{"héllo", " ", "wörld"}},
	}

	for _, tt := range tests {
		got := tokenize(tt.input)
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("tokenize(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestToMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		words    []Word
		expected string
	}{
		{
			name:     "unchanged verbatim",
			words:    []Word{{"hello", Unchanged}, {" ", Unchanged}, {"world", Unchanged}},
			expected: "hello world",
		},
		{
			name:     "added bold",
			words:    []Word{{"hello", Added}},
			expected: "**hello**",
		},
		{
			name:     "removed strikethrough",
			words:    []Word{{"hello", Removed}},
			expected: "~~hello~~",
		},
		{
			name:     "grouped runs",
			words:    []Word{{"hello", Added}, {" ", Added}, {"world", Added}},
			expected: "**hello world**",
		},
		{
			name:     "empty",
			words:    nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToMarkdown(tt.words); got != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, got)
			}
		})
	}
}

func TestGroup(t *testing.T) {
	runs := Group([]Word{{"a", Unchanged}, {" ", Unchanged}, {"b", Removed}, {"c", Added}, {"d", Added}})
	expected := []Run{{Unchanged, "a "}, {Removed, "b"}, {Added, "cd"}}
	if !reflect.DeepEqual(runs, expected) {
		t.Errorf("Expected %v, got %v", expected, runs)
	}
}

func TestStats_Summary(t *testing.T) {
	tests := []struct {
		name      string
		original  string
		corrected string
		expected  string
	}{
		{"no changes", "same text", "same text", "No changes"},
		{"replacement", "the cat sat", "the dog sat", "+1 -1"},
		{"insertion", "hello world", "hello big world", "+1"},
		{"deletion", "hello big world", "hello world", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := Stats(ComputeWordDiff(tt.original, tt.corrected))
			if got := stats.Summary(); got != tt.expected {
				t.Errorf("Expected summary '%s', got '%s'", tt.expected, got)
			}
		})
	}
}

func TestWord_JSON(t *testing.T) {
	data, err := json.Marshal([]Word{{"hi", Added}, {" ", Unchanged}, {"yo", Removed}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	expected := `[{"text":"hi","type":"added"},{"text":" ","type":"unchanged"},{"text":"yo","type":"removed"}]`
	if string(data) != expected {
		t.Errorf("Expected %s, got %s", expected, data)
	}

	var back []Word
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back[2].Type != Removed {
		t.Errorf("Expected removed, got %s", back[2].Type)
	}

	if err := json.Unmarshal([]byte(`{"text":"x","type":"moved"}`), &Word{}); err == nil {
		t.Error("Expected error for unknown type")
	}
}

func TestRenderANSI_Ascii(t *testing.T) {
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	defer lipgloss.SetColorProfile(prev)

	got := RenderANSI(ComputeWordDiff("the cat sat", "the dog sat"), DefaultStyles())
	if got != "the [-cat][+dog] sat" {
		t.Errorf("Expected 'the [-cat][+dog] sat', got '%s'", got)
	}
}

func TestRenderANSI_Colored(t *testing.T) {
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI256)
	defer lipgloss.SetColorProfile(prev)

	got := RenderANSI([]Word{{"ok ", Unchanged}, {"new", Added}}, DefaultStyles())
	if !strings.HasPrefix(got, "ok ") {
		t.Errorf("Expected unchanged prefix untouched, got %q", got)
	}
	if !strings.Contains(got, "\x1b[") || !strings.Contains(got, "new") {
		t.Errorf("Expected styled addition, got %q", got)
	}
}
