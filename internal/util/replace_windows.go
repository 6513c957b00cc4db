// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build windows

package util

import (
	"golang.org/x/sys/windows"
)

// replaceFile uses MoveFileEx with REPLACE_EXISTING|WRITE_THROUGH, which is
// the closest Windows equivalent of an atomic rename over an existing file.
func replaceFile(tmpPath, dest string) error {
	from, err := windows.UTF16PtrFromString(tmpPath)
	if err != nil {
		return err
	}
	to, err := windows.UTF16PtrFromString(dest)
	if err != nil {
		return err
	}
	return windows.MoveFileEx(from, to, windows.MOVEFILE_REPLACE_EXISTING|windows.MOVEFILE_WRITE_THROUGH)
}

// syncDir is a no-op on Windows; directory handles cannot be fsynced.
func syncDir(dir string) error { return nil }
