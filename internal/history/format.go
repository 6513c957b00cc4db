// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/bex/internal/diff"
	"github.com/jeranaias/bex/internal/model"
	"github.com/jeranaias/bex/internal/util"
)

// =============================================================================
// LIST FORMATTING
// =============================================================================

const (
	idWidth   = 8
	timeWidth = 10
	minPrev   = 20
)

// Format renders entries as a table that fits in width columns. IDs are
// shortened to their first eight characters.
func Format(entries []model.HistoryEntry, width int) string {
	if len(entries) == 0 {
		return "No corrections yet."
	}
	return formatAt(entries, width, time.Now())
}

func formatAt(entries []model.HistoryEntry, width int, now time.Time) string {
	// ID, when, original, corrected; three single-space gaps
	prev := max((width-idWidth-timeWidth-3)/2, minPrev)

	var sb strings.Builder
	header := util.PadRight("ID", idWidth) + " " + util.PadRight("When", timeWidth) + " " +
		util.PadRight("Original", prev) + " Corrected"
	sb.WriteString(header + "\n")
	sb.WriteString(strings.Repeat("-", util.StringWidth(header)+prev-len("Corrected")) + "\n")

	for _, e := range entries {
		id := util.TruncateRunesNoEllipsis(e.ID, idWidth)
		sb.WriteString(util.PadRight(id, idWidth) + " ")
		sb.WriteString(util.PadRight(TimeAgo(e.Timestamp, now), timeWidth) + " ")
		sb.WriteString(util.PadRight(util.TruncateWidth(util.SingleLine(e.Original), prev), prev) + " ")
		sb.WriteString(util.TruncateWidth(util.SingleLine(e.Corrected), prev))
		sb.WriteString("\n")
	}
	return sb.String()
}

// =============================================================================
// DETAIL AND EXPORT
// =============================================================================

// Detail renders one entry as Markdown with its word diff.
func Detail(e model.HistoryEntry) string {
	var sb strings.Builder
	sb.WriteString("## Original\n" + e.Original + "\n\n")
	sb.WriteString("## Corrected\n" + e.Corrected + "\n\n")
	sb.WriteString("## Changes\n" + diff.ToMarkdown(diff.ComputeWordDiff(e.Original, e.Corrected)) + "\n\n")
	sb.WriteString("## Explanation\n" + e.Explanation + "\n\n")
	sb.WriteString("---\n*" + footer(e) + "*\n")
	return sb.String()
}

// ExportMarkdown renders every entry, newest first, as one document.
func ExportMarkdown(entries []model.HistoryEntry) string {
	var sb strings.Builder
	sb.WriteString("# Grammar history\n\n")
	sb.WriteString(strconv.Itoa(len(entries)) + " entries\n\n")
	sb.WriteString("---\n\n")

	for _, e := range entries {
		sb.WriteString("### " + e.Timestamp + "\n\n")
		sb.WriteString(diff.ToMarkdown(diff.ComputeWordDiff(e.Original, e.Corrected)) + "\n\n")
		sb.WriteString("> " + strings.ReplaceAll(e.Explanation, "\n", "\n> ") + "\n\n")
		sb.WriteString("*" + footer(e) + "*\n\n")
		sb.WriteString("---\n\n")
	}
	return sb.String()
}

func footer(e model.HistoryEntry) string {
	parts := []string{e.Provider, e.Model}
	if e.ProfileName != "" {
		parts = append(parts, e.ProfileName)
	}
	if t, ok := ParseTimestamp(e.Timestamp); ok {
		parts = append(parts, t.Local().Format("2006-01-02 15:04"))
	}
	return strings.Join(parts, " · ")
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
