// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// =============================================================================
// FILE WATCHER
// =============================================================================

// Watcher drops a FileStore's cache whenever its data file is replaced by
// another process, so the next read sees the other front end's writes. The
// store's own commits leave the cache alone.
type Watcher struct {
	store    *FileStore
	watcher  *fsnotify.Watcher
	onChange func()

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once

	closeErr error // set before done is closed
}

// Watch starts watching the store's data file. onChange, if not nil, runs
// after each reload. The watcher stops when ctx is cancelled or Close is
// called.
func (s *FileStore) Watch(ctx context.Context, onChange func()) (*Watcher, error) {
	abs, err := filepath.Abs(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// Atomic replaces swap the inode, so the directory is watched rather
	// than the file.
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	wctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		store:    s,
		watcher:  fw,
		onChange: onChange,
		ctx:      wctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go w.processEvents(abs)
	return w, nil
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	w.once.Do(w.cancel)
	<-w.done
	return w.closeErr
}

// Done is closed once the watcher has stopped.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) processEvents(target string) {
	defer func() {
		w.closeErr = w.watcher.Close()
		close(w.done)
	}()
	log := w.store.opts.log

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			if !w.store.reloadIfReplaced() {
				continue
			}
			log.Debug("data file changed, reloading", zap.String("path", target), zap.Stringer("op", event.Op))
			if w.onChange != nil {
				w.onChange()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Debug("watcher error", zap.Error(err))
		}
	}
}
