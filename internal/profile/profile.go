// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package profile manages the named prompt profiles and the active profile
// selection.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jeranaias/bex/internal/model"
	"github.com/jeranaias/bex/internal/storage"
)

// NoneID is the active ID that explicitly selects no profile.
const NoneID = "none"

var (
	// ErrNotFound is returned when no profile has the requested ID.
	ErrNotFound = errors.New("profile not found")

	// ErrNameRequired is returned when a profile name is blank.
	ErrNameRequired = errors.New("profile name is required")
)

// =============================================================================
// STORAGE OPERATIONS
// =============================================================================

// Load returns the stored profiles. Absent or corrupt data is empty.
func Load(ctx context.Context, a storage.Adapter) []model.Profile {
	return storage.DecodeOr[[]model.Profile](ctx, a, storage.KeyProfiles, nil)
}

// Save replaces the stored profile list.
func Save(ctx context.Context, a storage.Adapter, profiles []model.Profile) error {
	if profiles == nil {
		profiles = []model.Profile{}
	}
	return storage.SetJSON(ctx, a, storage.KeyProfiles, profiles)
}

// ActiveID returns the stored active profile ID.
//
// The value is normally a bare string. A JSON-quoted string is unquoted;
// anything that decodes to a non-string (an ID like "42") is returned as
// written.
func ActiveID(ctx context.Context, a storage.Adapter) (string, bool) {
	raw, ok := a.GetItem(ctx, storage.KeyActiveProfile)
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err == nil {
		return s, true
	}
	return raw, true
}

// SetActiveID stores id verbatim. It is not validated against the list.
func SetActiveID(ctx context.Context, a storage.Adapter, id string) error {
	return a.SetItem(ctx, storage.KeyActiveProfile, id)
}

// =============================================================================
// LOOKUP
// =============================================================================

// Default returns the first profile marked as default.
func Default(profiles []model.Profile) (model.Profile, bool) {
	for _, p := range profiles {
		if p.IsDefault {
			return p, true
		}
	}
	return model.Profile{}, false
}

// Find returns the profile with the given ID.
func Find(profiles []model.Profile, id string) (model.Profile, bool) {
	for _, p := range profiles {
		if p.ID == id {
			return p, true
		}
	}
	return model.Profile{}, false
}

// Resolve picks the profile for a check. A stored active ID wins even when
// it matches nothing, which is how NoneID selects no profile. Without an
// active ID the default profile is used.
func Resolve(profiles []model.Profile, activeID string) (model.Profile, bool) {
	if activeID != "" {
		return Find(profiles, activeID)
	}
	return Default(profiles)
}

// =============================================================================
// MUTATION (copy-on-write)
// =============================================================================

// Add appends p, assigning a new ID when p has none. When p is the default
// every other profile loses the flag.
func Add(profiles []model.Profile, p model.Profile) ([]model.Profile, model.Profile, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, model.Profile{}, ErrNameRequired
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if _, exists := Find(profiles, p.ID); exists {
		return nil, model.Profile{}, fmt.Errorf("profile %q already exists", p.ID)
	}

	next := make([]model.Profile, 0, len(profiles)+1)
	for _, existing := range profiles {
		if p.IsDefault {
			existing.IsDefault = false
		}
		next = append(next, existing)
	}
	return append(next, p), p, nil
}

// Update replaces the profile with p's ID. When p is the default every
// other profile loses the flag.
func Update(profiles []model.Profile, p model.Profile) ([]model.Profile, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, ErrNameRequired
	}
	if _, ok := Find(profiles, p.ID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p.ID)
	}

	next := make([]model.Profile, len(profiles))
	for i, existing := range profiles {
		switch {
		case existing.ID == p.ID:
			next[i] = p
		case p.IsDefault:
			existing.IsDefault = false
			next[i] = existing
		default:
			next[i] = existing
		}
	}
	return next, nil
}

// Remove drops every profile with the given ID.
func Remove(profiles []model.Profile, id string) ([]model.Profile, error) {
	next := make([]model.Profile, 0, len(profiles))
	for _, p := range profiles {
		if p.ID != id {
			next = append(next, p)
		}
	}
	if len(next) == len(profiles) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return next, nil
}

// SetDefault makes id the only default profile.
func SetDefault(profiles []model.Profile, id string) ([]model.Profile, error) {
	if _, ok := Find(profiles, id); !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	next := make([]model.Profile, len(profiles))
	for i, p := range profiles {
		p.IsDefault = p.ID == id
		next[i] = p
	}
	return next, nil
}
