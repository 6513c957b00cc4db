// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/jeranaias/bex/internal/util"
)

// =============================================================================
// FILE STORE
// =============================================================================

// FileStore keeps the whole key space in one JSON document on disk.
//
// The document is loaded lazily on first access and cached. Every mutation
// serialises the full object to a fresh temporary file and atomically
// replaces the target, so the file on disk is always a complete snapshot.
// No cross-process locking is done; the last replace wins.
type FileStore struct {
	path string
	opts options

	mu      sync.Mutex
	cache   map[string]string // nil until loaded
	written os.FileInfo       // the file this store last committed
}

// NewFileStore creates a store backed by the JSON document at path. Nothing
// is read or written until the first operation.
func NewFileStore(path string, opts ...Option) *FileStore {
	return &FileStore{
		path: path,
		opts: buildOptions(opts),
	}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Reload drops the cached document; the next access reads the file again.
func (s *FileStore) Reload() {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
}

// reloadIfReplaced drops the cache unless the file on disk is still the one
// this store last committed. It reports whether the cache was dropped.
func (s *FileStore) reloadIfReplaced() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.written != nil {
		fi, err := os.Stat(s.path)
		if err == nil && os.SameFile(fi, s.written) &&
			fi.Size() == s.written.Size() && fi.ModTime().Equal(s.written.ModTime()) {
			return false
		}
	}
	s.cache = nil
	s.written = nil
	return true
}

// GetItem implements Adapter.
func (s *FileStore) GetItem(ctx context.Context, key string) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.load()[key]
	return v, ok
}

// SetItem implements Adapter.
func (s *FileStore) SetItem(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneDoc(s.load())
	next[key] = value
	return s.commit(next)
}

// RemoveItem implements Adapter. The file is rewritten even when key is
// absent, matching a plain delete-then-save.
func (s *FileStore) RemoveItem(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneDoc(s.load())
	delete(next, key)
	return s.commit(next)
}

// AllKeys implements Adapter.
func (s *FileStore) AllKeys(ctx context.Context) []string {
	if ctx.Err() != nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedKeys(s.load())
}

// load returns the cached document, reading it on first use. A missing,
// unreadable or malformed file is an empty document. Callers hold s.mu.
func (s *FileStore) load() map[string]string {
	if s.cache != nil {
		return s.cache
	}

	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.opts.log.Debug("data file missing, starting empty", zap.String("path", s.path))
		s.cache = map[string]string{}
	case err != nil:
		s.opts.log.Debug("data file unreadable, treating as empty", zap.String("path", s.path), zap.Error(err))
		s.cache = map[string]string{}
	default:
		s.cache = decodeDoc(data, s.opts.log)
	}
	return s.cache
}

// commit persists next and makes it the cached document. On failure the
// cache keeps the previous snapshot.
func (s *FileStore) commit(next map[string]string) error {
	data, err := encodeDoc(next)
	if err != nil {
		return err
	}

	atomic := util.DefaultAtomicOptions()
	atomic.ScratchDir = s.opts.scratchDir
	atomic.Replace = s.opts.replace
	if err := util.WriteFileAtomic(s.path, data, atomic); err != nil {
		return fmt.Errorf("failed to save %s: %w", s.path, err)
	}

	s.cache = next
	s.written = nil
	if fi, err := os.Stat(s.path); err == nil {
		s.written = fi
	}
	return nil
}

// =============================================================================
// DOCUMENT CODEC
// =============================================================================

// decodeDoc parses the on-disk object. String values are kept as-is; any
// other JSON value is kept as its JSON text so legacy documents still load.
func decodeDoc(data []byte, log *zap.Logger) map[string]string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		log.Debug("data file malformed, treating as empty", zap.Error(err))
		return map[string]string{}
	}

	doc := make(map[string]string, len(raw))
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			doc[k] = s
			continue
		}
		doc[k] = string(v)
	}
	return doc
}

// encodeDoc writes the object with two-space indentation and without HTML
// escaping, the same bytes the other front ends produce.
func encodeDoc(doc map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func cloneDoc(doc map[string]string) map[string]string {
	next := make(map[string]string, len(doc)+1)
	for k, v := range doc {
		next[k] = v
	}
	return next
}
