// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// diff_cmd.go - The "diff" command.

package cli

import (
	"fmt"
	"io"

	"github.com/jeranaias/bex/internal/diff"
)

const diffUsage = `bex diff "I has a cat" "I have a cat"`

// HandleDiff compares two texts word by word.
func (a *App) HandleDiff() error {
	args := NewArgParser(a.Args.Raw, "markdown")

	original, err := a.textArg(args, 0, "original-file")
	if err != nil {
		return err
	}
	corrected, err := a.textArg(args, 1, "corrected-file")
	if err != nil {
		return err
	}

	words := diff.ComputeWordDiff(original, corrected)
	stats := diff.Stats(words)
	markdown := diff.ToMarkdown(words)

	data := DiffData{Words: words, Markdown: markdown, Added: stats.Added, Removed: stats.Removed}
	return a.emit(data, func(w io.Writer) error {
		if args.BoolFlag("markdown") {
			fmt.Fprintln(w, a.renderMarkdown(markdown))
			return nil
		}
		fmt.Fprintln(w, diff.RenderANSI(words, diff.DefaultStyles()))
		if !a.Args.Quiet {
			fmt.Fprintln(w, DimStyle.Render(stats.Summary()))
		}
		return nil
	})
}

// textArg returns positional index (after any file flag) or the named file.
func (a *App) textArg(args *ArgParser, index int, fileFlag string) (string, error) {
	if path := args.Flag(fileFlag); path != "" {
		return a.readAll(path)
	}
	// Positionals shift left when the earlier text came from a file
	if index == 1 && args.Flag("original-file") != "" {
		index = 0
	}
	if index >= args.PositionalCount() {
		return "", ErrMissingArgument(fmt.Sprintf("text %d", index+1), diffUsage)
	}
	return args.Positional(index), nil
}
