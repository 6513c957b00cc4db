// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history keeps the bounded log of completed grammar checks.
//
// Entries live under the "history" key as a JSON array, newest first, with
// at most MaxEntries elements. Saving beyond the cap drops the oldest entry.
// A missing or corrupt array loads as empty.
//
// # Usage
//
//	entry := history.NewEntry(text, result, "openai", "gpt-4.1-mini", "")
//	if err := history.Save(ctx, store, entry); err != nil {
//	    return err
//	}
//	entries := history.Load(ctx, store)
//	fmt.Print(history.Format(entries, 100))
//
// Save and Delete read, modify and write the key. Callers must not run other
// writes on the same adapter in between.
package history
