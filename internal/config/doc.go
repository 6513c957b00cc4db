// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for bex.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - StorageConfig: Backend selection and data file paths
//   - CheckConfig: Provider, model, external checker and timeout
//   - UIConfig, LoggingConfig: Output settings
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (BEX_*, NO_COLOR)
//   - ~/.bex/config.toml (or the --config path)
//   - Built-in defaults
//
// A missing file is not an error. A malformed one is, since unlike the data
// document it is written by hand.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	store, closeFn, err := storage.Open(cfg.Storage, logger)
package config
