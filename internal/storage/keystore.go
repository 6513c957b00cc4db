// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrClosed is returned by KeyStore writes after Close.
var ErrClosed = errors.New("keystore is closed")

// =============================================================================
// KEYSTORE
// =============================================================================

// KeyStore is the host keystore backend: a single-table SQLite database that
// other local tools can share. Each key is its own row, so writes are
// transactional per key rather than whole-document.
type KeyStore struct {
	db   *sql.DB
	path string
	log  *zap.Logger

	mu     sync.RWMutex
	closed bool
}

// NewKeyStore opens (creating if needed) the keystore database at path.
func NewKeyStore(path string, opts ...Option) (*KeyStore, error) {
	o := buildOptions(opts)

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create keystore directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open keystore: %w", err)
	}

	// SQLite allows one writer; a single connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=FULL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	const schema = `CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create keystore schema: %w", err)
	}

	if err := os.Chmod(path, 0600); err != nil {
		o.log.Debug("could not restrict keystore permissions", zap.String("path", path), zap.Error(err))
	}

	return &KeyStore{db: db, path: path, log: o.log}, nil
}

// Path returns the database file path.
func (s *KeyStore) Path() string {
	return s.path
}

// GetItem implements Adapter.
func (s *KeyStore) GetItem(ctx context.Context, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed || ctx.Err() != nil {
		return "", false
	}

	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.log.Debug("keystore read failed, treating as absent", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return value, true
}

// SetItem implements Adapter.
func (s *KeyStore) SetItem(ctx context.Context, key, value string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// RemoveItem implements Adapter.
func (s *KeyStore) RemoveItem(ctx context.Context, key string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// AllKeys implements Adapter.
func (s *KeyStore) AllKeys(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed || ctx.Err() != nil {
		return nil
	}

	rows, err := s.db.QueryContext(ctx, "SELECT key FROM kv ORDER BY key")
	if err != nil {
		s.log.Debug("keystore key listing failed", zap.Error(err))
		return nil
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			s.log.Debug("keystore key scan failed", zap.Error(err))
			return nil
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		s.log.Debug("keystore key listing failed", zap.Error(err))
		return nil
	}
	return keys
}

// Close releases the database. Further writes return ErrClosed and reads
// behave as empty.
func (s *KeyStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
