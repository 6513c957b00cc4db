// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - The "config" command.
//
// Command: config [subcommand]
//
// Subcommands:
//   show (default)      Display the effective configuration
//   path                Show the configuration file path
//   init [--force]      Write a default configuration file
//   get <key>           Show one setting
//   set <key> <value>   Change one setting in the file
//   keys                List every setting
//
// Examples:
//   bex config set check.command "my-llm --json"
//   bex config set storage.backend mirror
//   bex config set ui.render_markdown true
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeranaias/bex/internal/config"
)

var configSubcommands = []string{"show", "path", "init", "get", "set", "keys"}

// HandleConfig dispatches config subcommands.
func (a *App) HandleConfig() error {
	args := NewArgParser(a.Args.Raw, "force")

	switch sub := args.Subcommand(); sub {
	case "", "show":
		return a.emit(a.Config, func(w io.Writer) error {
			fmt.Fprintln(w, DimStyle.Render("# "+a.ConfigPath))
			fmt.Fprint(w, a.Config.String())
			return nil
		})

	case "path":
		return a.emit(map[string]string{"path": a.ConfigPath}, func(w io.Writer) error {
			fmt.Fprintln(w, a.ConfigPath)
			return nil
		})

	case "init":
		if _, err := os.Stat(a.ConfigPath); err == nil && !args.BoolFlag("force") {
			return &ValidationError{Field: "config", Value: a.ConfigPath, Reason: "file already exists", Example: "bex config init --force"}
		}
		if err := config.Save(config.Default(), a.ConfigPath); err != nil {
			return &ConfigError{Err: err}
		}
		a.note("Wrote %s", a.ConfigPath)
		return a.emit(map[string]string{"path": a.ConfigPath}, func(io.Writer) error { return nil })

	case "get":
		key := args.Positional(1)
		if key == "" {
			return ErrMissingArgument("key", "bex config get check.provider")
		}
		value, err := a.Config.Get(key)
		if err != nil {
			return &ValidationError{Field: "key", Value: key, Reason: err.Error(), Example: "bex config keys"}
		}
		return a.emit(map[string]any{key: value}, func(w io.Writer) error {
			if list, ok := value.([]string); ok {
				fmt.Fprintln(w, strings.Join(list, " "))
				return nil
			}
			fmt.Fprintln(w, value)
			return nil
		})

	case "set":
		key := args.Positional(1)
		if key == "" || args.PositionalCount() < 3 {
			return ErrMissingArgument("key and value", "bex config set check.provider claude")
		}
		return a.setConfig(key, JoinPositionalArgs(args, 2))

	case "keys":
		keys := config.GetAllKeys()
		return a.emit(keys, func(w io.Writer) error {
			for _, k := range keys {
				fmt.Fprintln(w, k)
			}
			return nil
		})

	default:
		return ErrUnknownSubcommand("config", sub, configSubcommands)
	}
}

// setConfig edits the file on disk. Environment overrides and expanded
// paths from the running config are not written back.
func (a *App) setConfig(key, value string) error {
	cfg := config.Default()
	if _, err := os.Stat(a.ConfigPath); err == nil {
		if err := config.LoadTOML(cfg, a.ConfigPath); err != nil {
			return &ConfigError{Err: err}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return &ConfigError{Err: err}
	}

	if err := cfg.Set(key, value); err != nil {
		return &ValidationError{Field: "key", Value: key, Reason: err.Error(), Example: "bex config keys"}
	}
	if err := cfg.Validate(); err != nil {
		return &ConfigError{Err: err}
	}
	if err := config.Save(cfg, a.ConfigPath); err != nil {
		return &ConfigError{Err: err}
	}

	a.note("Set %s", key)
	updated, _ := cfg.Get(key)
	return a.emit(map[string]any{key: updated}, func(io.Writer) error { return nil })
}
