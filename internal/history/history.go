// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history keeps the bounded log of completed grammar checks.
package history

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/bex/internal/model"
	"github.com/jeranaias/bex/internal/storage"
)

// MaxEntries is the history cap.
const MaxEntries = 500

// TimestampLayout matches JavaScript's Date.toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// =============================================================================
// STORAGE OPERATIONS
// =============================================================================

// Load returns every entry, newest first. Absent or corrupt data is empty.
func Load(ctx context.Context, a storage.Adapter) []model.HistoryEntry {
	return storage.DecodeOr[[]model.HistoryEntry](ctx, a, storage.KeyHistory, nil)
}

// Save prepends entry and drops anything past MaxEntries.
func Save(ctx context.Context, a storage.Adapter, entry model.HistoryEntry) error {
	entries := Load(ctx, a)

	keep := min(len(entries), MaxEntries-1)
	next := make([]model.HistoryEntry, 0, keep+1)
	next = append(next, entry)
	next = append(next, entries[:keep]...)

	return storage.SetJSON(ctx, a, storage.KeyHistory, next)
}

// Delete removes every entry with the given ID. An unknown ID still
// rewrites the list unchanged.
func Delete(ctx context.Context, a storage.Adapter, id string) error {
	entries := Load(ctx, a)

	next := make([]model.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			next = append(next, e)
		}
	}
	return storage.SetJSON(ctx, a, storage.KeyHistory, next)
}

// Clear removes the history key entirely.
func Clear(ctx context.Context, a storage.Adapter) error {
	return a.RemoveItem(ctx, storage.KeyHistory)
}

// =============================================================================
// ENTRY HELPERS
// =============================================================================

// NewEntry records a completed check with a fresh ID and the current time.
func NewEntry(original string, result model.GrammarResult, provider, modelName, profileName string) model.HistoryEntry {
	return model.HistoryEntry{
		ID:          uuid.NewString(),
		Original:    original,
		Corrected:   result.Corrected,
		Explanation: result.Explanation,
		Provider:    provider,
		Model:       modelName,
		Timestamp:   time.Now().UTC().Format(TimestampLayout),
		ProfileName: profileName,
	}
}

// Find returns the entry with the given ID. A unique ID prefix also
// matches, so short IDs from the list view work.
func Find(entries []model.HistoryEntry, id string) (model.HistoryEntry, bool) {
	if id == "" {
		return model.HistoryEntry{}, false
	}
	var match model.HistoryEntry
	matches := 0
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
		if strings.HasPrefix(e.ID, id) {
			match = e
			matches++
		}
	}
	return match, matches == 1
}

// Search returns entries whose original, corrected or explanation text
// contains query, ignoring case. An empty query matches everything.
func Search(entries []model.HistoryEntry, query string) []model.HistoryEntry {
	if query == "" {
		return entries
	}
	query = strings.ToLower(query)

	var results []model.HistoryEntry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Original), query) ||
			strings.Contains(strings.ToLower(e.Corrected), query) ||
			strings.Contains(strings.ToLower(e.Explanation), query) {
			results = append(results, e)
		}
	}
	return results
}

// ParseTimestamp reads an entry timestamp. Any RFC 3339 form is accepted.
func ParseTimestamp(ts string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// TimeAgo renders a timestamp relative to now ("5m ago", "yesterday").
func TimeAgo(ts string, now time.Time) string {
	t, ok := ParseTimestamp(ts)
	if !ok {
		return ts
	}
	mins := int(now.Sub(t).Minutes())
	switch {
	case mins < 1:
		return "just now"
	case mins < 60:
		return itoa(mins) + "m ago"
	}
	hours := mins / 60
	if hours < 24 {
		return itoa(hours) + "h ago"
	}
	days := hours / 24
	switch {
	case days == 1:
		return "yesterday"
	case days < 30:
		return itoa(days) + "d ago"
	}
	return t.Local().Format("2006-01-02")
}
