// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the key/value persistence shared by every bex
// front end.
//
// All backends implement Adapter, a flat map of string keys to string
// values. Reads never fail: missing or corrupt data reads as absent. Writes
// return every error.
//
// # Key Types
//
//   - Adapter: The storage contract
//   - MemoryStore: Map-backed store for tests and throwaway sessions
//   - FileStore: One JSON document on disk, replaced atomically on each write
//   - KeyStore: SQLite key/value table shared with other local tools
//   - MirrorStore: Primary store with a best-effort mirror
//   - Watcher: Reloads a FileStore when another process replaces its file
//
// # Usage
//
// Open the file store and read a typed value:
//
//	store := storage.NewFileStore(filepath.Join(home, ".bex", "data.json"))
//	entries := storage.DecodeOr(ctx, store, storage.KeyHistory, []model.HistoryEntry{})
//
// Write through a keystore with a file mirror:
//
//	ks, err := storage.NewKeyStore(path)
//	store := storage.NewMirrorStore(ks, storage.NewFileStore(dataFile))
//	err = storage.SetJSON(ctx, store, storage.KeyProfiles, profiles)
//
// # Storage Location
//
// The data file defaults to ~/.bex/data.json (directory 0700, file 0600).
// Callers that read, modify and write a key must not interleave other
// writes on the same adapter in between.
package storage
