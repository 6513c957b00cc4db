// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions shared by the bex packages.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes, TruncateRunesNoEllipsis: UTF-8 safe truncation
//   - TruncateWidth, PadRight, StringWidth: terminal-column aware layout
//   - SingleLine: collapse line breaks for table cells
//
// File Operations:
//   - WriteFileAtomic: crash-safe replace through a uniquely named temp file
//   - AtomicWriteFile: WriteFileAtomic with the temp file beside the target
//
// # Usage
//
//	// Replace the data document; readers see the old or the new file, never half
//	err := util.WriteFileAtomic(path, data, util.DefaultAtomicOptions())
package util
