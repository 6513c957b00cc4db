// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the key/value persistence shared by every bex
// front end.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// =============================================================================
// RESERVED KEYS
// =============================================================================

const (
	// KeyHistory holds a JSON array of model.HistoryEntry, newest first.
	KeyHistory = "history"
	// KeyProfiles holds a JSON array of model.Profile.
	KeyProfiles = "profiles"
	// KeyActiveProfile holds the active profile ID as a bare string.
	KeyActiveProfile = "activeProfile"
	// KeyPreferences holds model.Preferences as JSON.
	KeyPreferences = "preferences"
)

// =============================================================================
// ADAPTER INTERFACE
// =============================================================================

// Adapter is a flat string-to-string store. Values are conventionally JSON
// encoded by the caller and stored verbatim.
//
// Read paths never fail: a backend that cannot be read behaves as empty.
// Write paths return every failure to the caller.
type Adapter interface {
	// GetItem returns the stored value and whether the key exists.
	GetItem(ctx context.Context, key string) (string, bool)

	// SetItem stores value under key.
	SetItem(ctx context.Context, key, value string) error

	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(ctx context.Context, key string) error

	// AllKeys lists every key in sorted order.
	AllKeys(ctx context.Context) []string
}

// =============================================================================
// DECODING
// =============================================================================

// Lookup returns the JSON-decoded value stored under key, or the raw string
// when it is not valid JSON. The second result is false when key is absent.
func Lookup(ctx context.Context, a Adapter, key string) (any, bool) {
	raw, ok := a.GetItem(ctx, key)
	if !ok {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw, true
	}
	return v, true
}

// DecodeOr decodes the value under key into T. An absent key or any decode
// failure yields def. Corrupt local data degrades to "nothing saved yet".
func DecodeOr[T any](ctx context.Context, a Adapter, key string, def T) T {
	raw, ok := a.GetItem(ctx, key)
	if !ok {
		return def
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return def
	}
	return v
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, a Adapter, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return a.SetItem(ctx, key, string(data))
}

// Copy writes every key of from into to. Keys already in to are
// overwritten; keys only in to are left alone.
func Copy(ctx context.Context, from, to Adapter) (int, error) {
	copied := 0
	for _, key := range from.AllKeys(ctx) {
		value, ok := from.GetItem(ctx, key)
		if !ok {
			continue
		}
		if err := to.SetItem(ctx, key, value); err != nil {
			return copied, fmt.Errorf("failed to copy %s: %w", key, err)
		}
		copied++
	}
	return copied, nil
}

// =============================================================================
// OPTIONS
// =============================================================================

type options struct {
	log        *zap.Logger
	scratchDir string
	replace    func(tmpPath, dest string) error
}

// Option configures a store.
type Option func(*options)

// WithLogger sets the logger for debug output. The default discards logs.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithScratchDir places FileStore temporary files in dir. The default is the
// data file's own directory.
func WithScratchDir(dir string) Option {
	return func(o *options) {
		o.scratchDir = dir
	}
}

// withReplace overrides the final replace step of a FileStore write.
func withReplace(fn func(tmpPath, dest string) error) Option {
	return func(o *options) {
		o.replace = fn
	}
}

func buildOptions(opts []Option) options {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
