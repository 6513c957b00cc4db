// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the bex command line.
//
// Every command reads its settings from the TOML config file, opens the
// configured storage backend on first use and supports --json for
// machine-readable output wrapped in a JSONResponse envelope.
//
// # Usage
//
//	os.Exit(cli.Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
//
// # Commands
//
//   - diff: word diff between two texts
//   - check: send text to the configured check command and record the result
//   - record: parse a saved model response and record it
//   - parse: parse a model response without saving it
//   - history: list, search, show, delete, clear and export corrections
//   - profile: manage writing profiles and the active profile
//   - storage: inspect keys and migrate between backends
//   - config: show and edit the configuration file
//
// Exit codes are listed in errors.go.
package cli
