// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package check runs a grammar check end to end.
//
// A Service resolves the active profile, builds the system prompt, asks a
// Checker for the model output, parses it, computes the word diff and saves
// a history entry. The Checker is the only part that talks to a model.
//
// # Key Types
//
//   - Checker: returns raw model output for a system prompt and user text
//   - ExecChecker: a Checker backed by an external command
//   - Service: the check pipeline bound to one storage adapter
//   - Outcome: the parsed result, its diff and the saved history entry
//
// # Usage
//
//	svc := check.NewService(store, &check.ExecChecker{Argv: cfg.Check.Command}, cfg.Check, log)
//	out, err := svc.Run(ctx, "Their going to the store.")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(diff.ToMarkdown(out.Words))
package check
