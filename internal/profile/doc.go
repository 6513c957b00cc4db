// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package profile manages the named prompt profiles and the active profile
// selection.
//
// Profiles are stored as one JSON array under the "profiles" key. The active
// profile ID is a bare string under "activeProfile" and is not checked
// against the list.
//
// ActiveID always returns a string. A JSON-quoted value is unquoted, but a
// value that decodes to any other JSON type is returned exactly as stored:
// an activeProfile of 42 reads back as "42", not as a number. Front ends
// that write this key should store the bare ID.
//
// # Key Types
//
// The helpers operate on []model.Profile and always return a new slice:
//
//   - Add, Update: insert or replace a profile; a default clears the others
//   - Remove: drop a profile by ID
//   - SetDefault: make exactly one profile the default
//   - Resolve: pick the profile a check should use
//
// Storage never enforces "at most one default". Lists written by other
// tools may hold several, and Default returns the first.
//
// # Usage
//
//	list := profile.Load(ctx, store)
//	list, p, err := profile.Add(list, model.Profile{Name: "Formal", Prompt: "..."})
//	if err != nil {
//	    return err
//	}
//	return profile.Save(ctx, store, list)
package profile
