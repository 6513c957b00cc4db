// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// check_cmd.go - The "check", "record" and "parse" commands.

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jeranaias/bex/internal/check"
	"github.com/jeranaias/bex/internal/diff"
	"github.com/jeranaias/bex/internal/model"
	"github.com/jeranaias/bex/internal/parse"
	"github.com/jeranaias/bex/internal/storage"
)

// HandleCheck sends text to the configured check command and records the
// correction.
func (a *App) HandleCheck(ctx context.Context) error {
	args := NewArgParser(a.Args.Raw)

	text, err := a.inputText(args, "file")
	if err != nil {
		return err
	}
	if len(a.Config.Check.Command) == 0 {
		return &ConfigError{Err: fmt.Errorf("%w: set check.command in %s", check.ErrNoCommand, a.ConfigPath)}
	}

	svc, err := a.checkService(ctx, args)
	if err != nil {
		return err
	}

	if !a.Args.Quiet && !a.Args.JSON {
		fmt.Fprintln(a.Err, DimStyle.Render("Checking..."))
	}
	return a.finishOutcome(svc.Run(ctx, text))
}

// HandleRecord records model output that was obtained outside bex.
func (a *App) HandleRecord(ctx context.Context) error {
	args := NewArgParser(a.Args.Raw)

	original := args.Flag("original")
	if path := args.Flag("original-file"); path != "" {
		text, err := a.readAll(path)
		if err != nil {
			return err
		}
		original = text
	}
	if original == "" {
		return ErrMissingArgument("--original", `bex record --original "I has a cat" --raw-file reply.txt`)
	}

	raw, err := a.readAll(args.FlagOrDefault("raw-file", "-"))
	if err != nil {
		return err
	}

	svc, err := a.checkService(ctx, args)
	if err != nil {
		return err
	}
	return a.finishOutcome(svc.Record(ctx, original, raw))
}

// HandleParse parses model output without recording it.
func (a *App) HandleParse() error {
	args := NewArgParser(a.Args.Raw)

	var raw string
	switch {
	case args.Flag("raw-file") != "":
		text, err := a.readAll(args.Flag("raw-file"))
		if err != nil {
			return err
		}
		raw = text
	case args.PositionalCount() > 0:
		raw = JoinPositionalArgs(args, 0)
	default:
		text, err := a.readAll("-")
		if err != nil {
			return err
		}
		raw = text
	}

	result, err := parse.ParseGrammarResponse(raw)
	if err != nil {
		return err
	}
	return a.emit(result, func(w io.Writer) error {
		fmt.Fprintln(w, TitleStyle.Render("Corrected"))
		fmt.Fprintln(w, result.Corrected)
		fmt.Fprintln(w)
		fmt.Fprintln(w, TitleStyle.Render("Explanation"))
		fmt.Fprintln(w, result.Explanation)
		return nil
	})
}

// checkService builds a check.Service. The provider comes from --provider,
// then the stored preferences shared with the other front ends, then the
// config file.
func (a *App) checkService(ctx context.Context, args *ArgParser) (*check.Service, error) {
	store, err := a.Store()
	if err != nil {
		return nil, err
	}
	cfg := a.Config.Check
	if p := args.Flag("provider"); p != "" {
		cfg.Provider = p
	} else if prefs, ok := storedPreferences(ctx, store); ok {
		cfg.Provider = string(prefs.Provider)
		if prefs.Model != "" {
			cfg.Model = prefs.Model
		}
	}
	if m := args.Flag("model"); m != "" {
		cfg.Model = m
	}
	if !model.Provider(cfg.Provider).Valid() {
		return nil, &ValidationError{Field: "provider", Value: cfg.Provider, Reason: "unsupported provider", Example: "--provider " + providerNames()}
	}

	var checker check.Checker
	if len(cfg.Command) > 0 {
		checker = &check.ExecChecker{
			Argv: cfg.Command,
			Env: []string{
				"BEX_PROVIDER=" + cfg.Provider,
				"BEX_MODEL=" + cfg.ResolvedModel(),
			},
		}
	}
	return check.NewService(store, checker, cfg, a.Log), nil
}

// storedPreferences reads the "preferences" document when it names a
// supported provider.
func storedPreferences(ctx context.Context, store storage.Adapter) (model.Preferences, bool) {
	prefs := storage.DecodeOr(ctx, store, storage.KeyPreferences, model.Preferences{})
	return prefs, prefs.Provider.Valid()
}

func providerNames() string {
	names := make([]string, len(model.Providers))
	for i, p := range model.Providers {
		names[i] = p.String()
	}
	return strings.Join(names, "|")
}

// inputText returns the positional text, the named file, or piped stdin.
func (a *App) inputText(args *ArgParser, fileFlag string) (string, error) {
	if path := args.Flag(fileFlag); path != "" {
		return a.readAll(path)
	}
	if args.PositionalCount() > 0 {
		return JoinPositionalArgs(args, 0), nil
	}
	if !a.stdinTTY() {
		return a.readAll("-")
	}
	return "", ErrMissingArgument("text", `bex check "Their going to the store."`)
}

// finishOutcome shows out when a correction exists. A failed history write
// still shows the correction before the error is reported, except in JSON
// mode where only the error is printed.
func (a *App) finishOutcome(out check.Outcome, err error) error {
	if err != nil && (out.Entry.ID == "" || a.Args.JSON) {
		return err
	}
	if showErr := a.showOutcome(out); showErr != nil {
		return showErr
	}
	return err
}

// showOutcome prints a completed check.
func (a *App) showOutcome(out check.Outcome) error {
	return a.emit(out, func(w io.Writer) error {
		fmt.Fprintln(w, diff.RenderANSI(out.Words, diff.DefaultStyles()))
		if a.Args.Quiet {
			return nil
		}
		fmt.Fprintln(w, RenderSeparator(min(terminalWidth(a.Out), 60)))
		fmt.Fprintln(w, RenderLabel("Corrected")+out.Result.Corrected)
		fmt.Fprintln(w, RenderLabel("Explanation")+strings.TrimSpace(out.Result.Explanation))
		fmt.Fprintln(w, RenderLabel("Changes")+diff.Stats(out.Words).Summary())
		fmt.Fprintln(w, RenderLabel("Model")+model.Provider(out.Entry.Provider).DisplayName()+" "+out.Entry.Model)
		if out.Entry.ProfileName != "" {
			fmt.Fprintln(w, RenderLabel("Profile")+out.Entry.ProfileName)
		}
		fmt.Fprintln(w, DimStyle.Render("Saved as "+shortID(out.Entry.ID)))
		return nil
	})
}

// shortID is the prefix shown in lists; history lookups accept it.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
