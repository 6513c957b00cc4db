// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection for bex output.
//
// USABILITY: TTY detection for proper terminal handling
//
// Interactive terminals get colors and prompts. Piped output gets neither,
// and NO_COLOR / FORCE_COLOR are honored.

package cli

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

const (
	// DefaultTerminalWidth is the fallback width when detection fails
	DefaultTerminalWidth = 80

	// MinTerminalWidth is the narrowest width used for tables
	MinTerminalWidth = 40
)

// isTerminal reports whether v is an *os.File attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of w when it is a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return DefaultTerminalWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	return max(width, MinTerminalWidth)
}

// =============================================================================
// COLOR OUTPUT CONTROL
// =============================================================================

// Color modes accepted by ui.color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ResolveColorProfile picks the color profile for a color mode.
// See https://no-color.org/ for NO_COLOR.
func ResolveColorProfile(mode string, stdoutTTY bool) termenv.Profile {
	switch mode {
	case ColorNever:
		return termenv.Ascii
	case ColorAlways:
		return atLeastANSI256(termenv.ColorProfile())
	}

	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return atLeastANSI256(termenv.ColorProfile())
	}
	if !stdoutTTY {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}

// atLeastANSI256 upgrades Ascii and ANSI; termenv orders profiles from
// TrueColor (0) down to Ascii (3).
func atLeastANSI256(p termenv.Profile) termenv.Profile {
	if p > termenv.ANSI256 {
		return termenv.ANSI256
	}
	return p
}
