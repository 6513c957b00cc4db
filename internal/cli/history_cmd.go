// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history_cmd.go - The "history" command.

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jeranaias/bex/internal/diff"
	"github.com/jeranaias/bex/internal/history"
	"github.com/jeranaias/bex/internal/model"
	"github.com/jeranaias/bex/internal/util"
)

var historySubcommands = []string{"list", "show", "search", "delete", "clear", "export"}

// historyDetail is the JSON shape of "history show".
type historyDetail struct {
	Entry model.HistoryEntry `json:"entry"`
	Words []diff.Word        `json:"words"`
}

// HandleHistory dispatches history subcommands.
func (a *App) HandleHistory(ctx context.Context) error {
	args := NewArgParser(a.Args.Raw, "yes")
	store, err := a.Store()
	if err != nil {
		return err
	}
	entries := history.Load(ctx, store)

	switch sub := args.Subcommand(); sub {
	case "", "list", "ls":
		if args.HasFlag("limit") {
			n, err := ParseIntWithValidation(args.Flag("limit"), "limit")
			if err != nil {
				return &ValidationError{Field: "--limit", Value: args.Flag("limit"), Reason: err.Error(), Example: "bex history --limit 10"}
			}
			entries = entries[:min(n, len(entries))]
		}
		return a.listHistory(entries)

	case "search", "find":
		query := JoinPositionalArgs(args, 1)
		if query == "" {
			return ErrMissingArgument("query", "bex history search their")
		}
		return a.listHistory(history.Search(entries, query))

	case "show":
		entry, err := findEntry(entries, args.Positional(1))
		if err != nil {
			return err
		}
		words := diff.ComputeWordDiff(entry.Original, entry.Corrected)
		return a.emit(historyDetail{Entry: entry, Words: words}, func(w io.Writer) error {
			fmt.Fprintln(w, a.renderMarkdown(history.Detail(entry)))
			return nil
		})

	case "delete", "rm":
		entry, err := findEntry(entries, args.Positional(1))
		if err != nil {
			return err
		}
		if err := history.Delete(ctx, store, entry.ID); err != nil {
			return err
		}
		a.note("Deleted %s", shortID(entry.ID))
		return a.emit(map[string]string{"deleted": entry.ID}, func(io.Writer) error { return nil })

	case "clear":
		if err := a.confirm(fmt.Sprintf("Delete all %d history entries", len(entries)), args.BoolFlag("yes")); err != nil {
			return err
		}
		if err := history.Clear(ctx, store); err != nil {
			return err
		}
		a.note("History cleared")
		return a.emit(map[string]int{"cleared": len(entries)}, func(io.Writer) error { return nil })

	case "export":
		return a.exportHistory(args, entries)

	default:
		return ErrUnknownSubcommand("history", sub, historySubcommands)
	}
}

func (a *App) listHistory(entries []model.HistoryEntry) error {
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	return a.emit(entries, func(w io.Writer) error {
		table := history.Format(entries, terminalWidth(a.Out))
		fmt.Fprint(w, table)
		if !strings.HasSuffix(table, "\n") {
			fmt.Fprintln(w)
		}
		return nil
	})
}

func (a *App) exportHistory(args *ArgParser, entries []model.HistoryEntry) error {
	format := strings.ToLower(args.FlagOrDefault("format", "markdown"))

	var data []byte
	switch format {
	case "markdown", "md":
		data = []byte(history.ExportMarkdown(entries))
	case "json":
		if entries == nil {
			entries = []model.HistoryEntry{}
		}
		var sb strings.Builder
		if err := writeJSON(&sb, entries, false); err != nil {
			return err
		}
		data = []byte(sb.String())
	default:
		return &ValidationError{Field: "format", Value: format, Reason: "unsupported format", Example: "--format markdown|json"}
	}

	output := args.Flag("output")
	if output == "" || output == "-" {
		_, err := a.Out.Write(data)
		return err
	}
	if err := util.AtomicWriteFile(output, data, 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	a.note("Exported %d entries to %s", len(entries), output)
	return nil
}

// findEntry resolves a full or abbreviated history ID.
func findEntry(entries []model.HistoryEntry, id string) (model.HistoryEntry, error) {
	if id == "" {
		return model.HistoryEntry{}, ErrMissingArgument("id", "bex history show 1a2b3c4d")
	}
	entry, ok := history.Find(entries, id)
	if !ok {
		return model.HistoryEntry{}, &NotFoundError{Resource: "history entry", ID: id}
	}
	return entry, nil
}
