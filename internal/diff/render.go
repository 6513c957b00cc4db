// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// TERMINAL RENDERING
// =============================================================================

// Styles controls how each run type is drawn in a terminal.
type Styles struct {
	Added   lipgloss.Style
	Removed lipgloss.Style
}

// DefaultStyles returns green/bold additions and red/strikethrough removals.
func DefaultStyles() Styles {
	return Styles{
		Added: lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")). // Green
			Bold(true),
		Removed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Strikethrough(true),
	}
}

// RenderANSI draws the diff with the given styles, grouped the same way as
// ToMarkdown. Unchanged runs are written untouched. Under the Ascii color
// profile the styles emit nothing, so changes are bracketed instead.
func RenderANSI(words []Word, styles Styles) string {
	plain := lipgloss.ColorProfile() == termenv.Ascii
	var sb strings.Builder
	for _, run := range Group(words) {
		switch run.Type {
		case Added:
			if plain {
				sb.WriteString("[+" + run.Text + "]")
			} else {
				sb.WriteString(styles.Added.Render(run.Text))
			}
		case Removed:
			if plain {
				sb.WriteString("[-" + run.Text + "]")
			} else {
				sb.WriteString(styles.Removed.Render(run.Text))
			}
		default:
			sb.WriteString(run.Text)
		}
	}
	return sb.String()
}
