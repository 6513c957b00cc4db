// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// markdown.go - Terminal rendering of Markdown output.

package cli

import (
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

// renderMarkdown renders content through glamour when ui.render_markdown is
// on and stdout is a color terminal. Otherwise, or on any failure, the
// Markdown source is returned.
func (a *App) renderMarkdown(content string) string {
	if !a.Config.UI.RenderMarkdown || !a.colorOn() || !isTerminal(a.Out) {
		return content
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(terminalWidth(a.Out)-4),
	)
	if err != nil {
		a.Log.Debug("markdown renderer unavailable", zap.Error(err))
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		a.Log.Debug("markdown render failed", zap.Error(err))
		return content
	}
	return rendered
}
