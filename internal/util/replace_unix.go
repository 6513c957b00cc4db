// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !windows

package util

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// replaceFile performs an atomic rename on POSIX systems.
func replaceFile(tmpPath, dest string) error {
	err := os.Rename(tmpPath, dest)
	if err != nil && errors.Is(err, syscall.EXDEV) {
		return fmt.Errorf("%w: %v", ErrCrossDevice, err)
	}
	return err
}

// syncDir fsyncs the parent directory so the rename itself is durable.
func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
