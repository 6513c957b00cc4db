// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jeranaias/bex/internal/config"
)

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendKeystore = "keystore"
	BackendMirror   = "mirror"
	BackendMemory   = "memory"
)

// Open builds the adapter selected by cfg. The returned close function
// releases databases and watchers and is always safe to call.
func Open(cfg config.StorageConfig, log *zap.Logger) (Adapter, func() error, error) {
	if log == nil {
		log = zap.NewNop()
	}
	noop := func() error { return nil }
	fileOpts := []Option{WithLogger(log), WithScratchDir(cfg.ScratchDir)}

	switch cfg.Backend {
	case BackendFile, "":
		fs := NewFileStore(cfg.DataFile, fileOpts...)
		if !cfg.Watch {
			return fs, noop, nil
		}
		w, err := fs.Watch(context.Background(), nil)
		if err != nil {
			return nil, noop, err
		}
		return fs, w.Close, nil

	case BackendKeystore:
		ks, err := NewKeyStore(cfg.KeystorePath, WithLogger(log))
		if err != nil {
			return nil, noop, err
		}
		return ks, ks.Close, nil

	case BackendMirror:
		ks, err := NewKeyStore(cfg.KeystorePath, WithLogger(log))
		if err != nil {
			return nil, noop, err
		}
		return NewMirrorStore(ks, NewFileStore(cfg.DataFile, fileOpts...), WithLogger(log)), ks.Close, nil

	case BackendMemory:
		return NewMemoryStore(), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
