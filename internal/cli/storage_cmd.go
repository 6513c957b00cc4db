// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// storage_cmd.go - The "storage" command.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/jeranaias/bex/internal/storage"
)

var storageSubcommands = []string{"keys", "get", "migrate"}

// HandleStorage dispatches storage subcommands.
func (a *App) HandleStorage(ctx context.Context) error {
	args := NewArgParser(a.Args.Raw)

	switch sub := args.Subcommand(); sub {
	case "", "keys":
		store, err := a.Store()
		if err != nil {
			return err
		}
		keys := store.AllKeys(ctx)
		return a.emit(keys, func(w io.Writer) error {
			for _, k := range keys {
				fmt.Fprintln(w, k)
			}
			return nil
		})

	case "get":
		key := args.Positional(1)
		if key == "" {
			return ErrMissingArgument("key", "bex storage get history")
		}
		store, err := a.Store()
		if err != nil {
			return err
		}
		value, ok := store.GetItem(ctx, key)
		if !ok {
			return &NotFoundError{Resource: "key", ID: key}
		}
		decoded, _ := storage.Lookup(ctx, store, key)
		return a.emit(decoded, func(w io.Writer) error {
			if json.Valid([]byte(value)) {
				return writeJSON(w, json.RawMessage(value), a.colorOn())
			}
			fmt.Fprintln(w, value)
			return nil
		})

	case "migrate":
		return a.migrateStorage(ctx, args)

	default:
		return ErrUnknownSubcommand("storage", sub, storageSubcommands)
	}
}

// migrateStorage copies every key from one backend into another.
func (a *App) migrateStorage(ctx context.Context, args *ArgParser) error {
	from := args.FlagOrDefault("from", a.Config.Storage.Backend)
	to := args.Flag("to")
	if to == "" {
		return ErrMissingArgument("--to", "bex storage migrate --from file --to keystore")
	}
	if from == to {
		return &ValidationError{Field: "--to", Value: to, Reason: "source and destination are the same backend"}
	}

	src, closeSrc, err := a.openBackend(from)
	if err != nil {
		return err
	}
	defer closeSrc()
	dst, closeDst, err := a.openBackend(to)
	if err != nil {
		return err
	}
	defer closeDst()

	copied, err := storage.Copy(ctx, src, dst)
	if err != nil {
		return fmt.Errorf("migration stopped after %d keys: %w", copied, err)
	}
	a.Log.Info("storage migrated", zap.String("from", from), zap.String("to", to), zap.Int("keys", copied))
	a.note("Copied %d keys from %s to %s", copied, from, to)
	return a.emit(StorageMigrateData{From: from, To: to, Copied: copied}, func(io.Writer) error { return nil })
}

func (a *App) openBackend(backend string) (storage.Adapter, func() error, error) {
	cfg := a.Config.Storage
	cfg.Backend = backend
	cfg.Watch = false
	store, closeFn, err := storage.Open(cfg, a.Log)
	if err != nil {
		return nil, nil, &ConfigError{Err: fmt.Errorf("failed to open %s storage: %w", backend, err)}
	}
	return store, closeFn, nil
}
