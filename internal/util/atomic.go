// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions shared by the bex packages.
package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// =============================================================================
// ATOMIC WRITE OPTIONS
// =============================================================================

// AtomicOptions controls WriteFileAtomic.
type AtomicOptions struct {
	// ScratchDir holds the temporary file. Empty means the target's directory,
	// which keeps the final rename on one filesystem.
	ScratchDir string

	// FilePerm is applied to the temporary file before it replaces the target.
	FilePerm os.FileMode

	// DirPerm is used when the target directory has to be created.
	DirPerm os.FileMode

	// Prefix and Suffix frame the random part of the temporary file name.
	Prefix string
	Suffix string

	// Replace swaps the temporary file into place. Nil means the platform
	// replace (rename on POSIX, MoveFileEx on Windows).
	Replace func(tmpPath, dest string) error
}

// DefaultAtomicOptions returns owner-only permissions and the "bex-<uuid>.json"
// temporary naming scheme.
func DefaultAtomicOptions() AtomicOptions {
	return AtomicOptions{
		FilePerm: 0600,
		DirPerm:  0700,
		Prefix:   "bex-",
		Suffix:   ".json",
	}
}

// =============================================================================
// ATOMIC WRITE
// =============================================================================

// RELIABILITY: Atomic write with fsync prevents data loss on crash
//
// WriteFileAtomic writes data to path using the following pattern:
// 1. Create the target directory if missing
// 2. Write to a freshly named temporary file in the scratch directory
// 3. Sync and close the temporary file
// 4. Replace the target with the temporary file
//
// On crash the target holds either the previous or the new complete content.
// A failed write never leaves the temporary file behind.
func WriteFileAtomic(path string, data []byte, opts AtomicOptions) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	if opts.FilePerm == 0 {
		opts.FilePerm = 0600
	}
	if opts.DirPerm == 0 {
		opts.DirPerm = 0700
	}

	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, opts.DirPerm); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	scratch := opts.ScratchDir
	if scratch == "" {
		scratch = dir
	} else if err := os.MkdirAll(scratch, opts.DirPerm); err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}

	tempPath := filepath.Join(scratch, opts.Prefix+uuid.NewString()+opts.Suffix)
	f, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, opts.FilePerm)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	success := false
	defer func() {
		if !success {
			f.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	// RELIABILITY: Sync to disk - ensures data is persisted before replace
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync data to disk: %w", err)
	}

	// Close before replace - required on Windows
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// umask may have narrowed or widened the mode at creation
	if err := os.Chmod(tempPath, opts.FilePerm); err != nil {
		return fmt.Errorf("failed to set file permissions: %w", err)
	}

	replace := opts.Replace
	if replace == nil {
		replace = replaceFile
	}
	if err := replace(tempPath, absPath); err != nil {
		return fmt.Errorf("failed to replace %s: %w", absPath, err)
	}
	success = true

	// Best effort: persist the directory entry as well
	_ = syncDir(dir)
	return nil
}

// AtomicWriteFile is WriteFileAtomic with the temporary file next to the target
// and the given file permissions.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	opts := DefaultAtomicOptions()
	opts.FilePerm = perm
	opts.Prefix = ".tmp-"
	opts.Suffix = ""
	return WriteFileAtomic(path, data, opts)
}

// ErrCrossDevice is returned by the POSIX replace when the scratch directory
// and the target live on different filesystems.
var ErrCrossDevice = errors.New("scratch directory is on a different filesystem than the target")
