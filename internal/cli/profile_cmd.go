// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// profile_cmd.go - The "profile" command.

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jeranaias/bex/internal/check"
	"github.com/jeranaias/bex/internal/model"
	"github.com/jeranaias/bex/internal/profile"
	"github.com/jeranaias/bex/internal/prompt"
	"github.com/jeranaias/bex/internal/storage"
	"github.com/jeranaias/bex/internal/util"
)

var profileSubcommands = []string{"list", "add", "edit", "remove", "default", "use", "active", "export", "import", "prompt"}

// profileView is the JSON shape of a listed profile.
type profileView struct {
	model.Profile
	Active bool `json:"active"`
}

// HandleProfile dispatches profile subcommands.
func (a *App) HandleProfile(ctx context.Context) error {
	args := NewArgParser(a.Args.Raw, "default", "yes", "replace")
	store, err := a.Store()
	if err != nil {
		return err
	}
	list := profile.Load(ctx, store)

	switch sub := args.Subcommand(); sub {
	case "", "list", "ls":
		return a.listProfiles(ctx, store, list)
	case "add", "new":
		return a.addProfile(ctx, store, list, args)
	case "edit":
		return a.editProfile(ctx, store, list, args)
	case "remove", "rm", "delete":
		p, err := findProfile(list, args.Positional(1))
		if err != nil {
			return err
		}
		if err := a.confirm(fmt.Sprintf("Delete profile %q", p.Name), args.BoolFlag("yes")); err != nil {
			return err
		}
		next, err := profile.Remove(list, p.ID)
		if err != nil {
			return err
		}
		return a.saveProfiles(ctx, store, next, p, "Deleted profile %q")
	case "default":
		p, err := findProfile(list, args.Positional(1))
		if err != nil {
			return err
		}
		next, err := profile.SetDefault(list, p.ID)
		if err != nil {
			return err
		}
		return a.saveProfiles(ctx, store, next, p, "%q is now the default profile")
	case "use":
		return a.useProfile(ctx, store, list, args.Positional(1))
	case "active":
		return a.showActive(ctx, store, list)
	case "export":
		return a.exportProfiles(list, args.Positional(1))
	case "import":
		return a.importProfiles(ctx, store, list, args)
	case "prompt", "wizard":
		return a.profilePrompt(ctx, store, list, args)
	default:
		return ErrUnknownSubcommand("profile", sub, profileSubcommands)
	}
}

func (a *App) listProfiles(ctx context.Context, store storage.Adapter, list []model.Profile) error {
	activeID, _ := profile.ActiveID(ctx, store)
	active, hasActive := profile.Resolve(list, activeID)

	views := make([]profileView, len(list))
	for i, p := range list {
		views[i] = profileView{Profile: p, Active: hasActive && p.ID == active.ID}
	}

	return a.emit(views, func(w io.Writer) error {
		if len(views) == 0 {
			fmt.Fprintln(w, "No profiles yet. Create one with: bex profile add")
			return nil
		}
		width := terminalWidth(a.Out)
		for _, v := range views {
			mark := "  "
			switch {
			case v.Active && v.IsDefault:
				mark = ">*"
			case v.Active:
				mark = "> "
			case v.IsDefault:
				mark = " *"
			}
			line := mark + " " + util.PadRight(shortID(v.ID), 8) + " " + util.PadRight(v.Name, 20) + " "
			preview := util.TruncateWidth(util.SingleLine(v.Prompt), max(width-util.StringWidth(line), 10))
			fmt.Fprintln(w, line+DimStyle.Render(preview))
		}
		return nil
	})
}

func (a *App) addProfile(ctx context.Context, store storage.Adapter, list []model.Profile, args *ArgParser) error {
	p := model.Profile{
		Name:      args.Flag("name"),
		Prompt:    args.Flag("prompt"),
		IsDefault: args.BoolFlag("default"),
	}
	if p.Name == "" || !args.HasFlag("prompt") {
		if a.Args.JSON {
			return ErrMissingArgument("--name/--prompt", `bex profile add --name Formal --prompt "Keep a formal tone."`)
		}
		if err := a.promptProfile(&p, args.HasFlag("prompt")); err != nil {
			return err
		}
	}

	next, added, err := profile.Add(list, p)
	if err != nil {
		return err
	}
	return a.saveProfiles(ctx, store, next, added, "Created profile %q")
}

func (a *App) editProfile(ctx context.Context, store storage.Adapter, list []model.Profile, args *ArgParser) error {
	p, err := findProfile(list, args.Positional(1))
	if err != nil {
		return err
	}

	if args.HasFlag("name") {
		p.Name = args.Flag("name")
	}
	if args.HasFlag("prompt") {
		p.Prompt = args.Flag("prompt")
	}
	if args.HasFlag("default") {
		p.IsDefault = args.BoolFlag("default")
	}
	if !args.HasFlag("name") && !args.HasFlag("prompt") && !args.HasFlag("default") {
		if a.Args.JSON {
			return ErrMissingArgument("--name, --prompt or --default", "bex profile edit <id> --prompt \"...\"")
		}
		if err := a.promptProfile(&p, false); err != nil {
			return err
		}
	}

	next, err := profile.Update(list, p)
	if err != nil {
		return err
	}
	return a.saveProfiles(ctx, store, next, p, "Updated profile %q")
}

// promptProfile asks for the name and prompt. Current values are kept when
// the answer is empty.
func (a *App) promptProfile(p *model.Profile, havePrompt bool) error {
	lr := a.newLineReader()
	defer lr.Close()

	ask := func(label, current string) (string, error) {
		q := label + ": "
		if current != "" {
			q = fmt.Sprintf("%s [%s]: ", label, util.TruncateRunes(util.SingleLine(current), 40))
		}
		answer, err := lr.Prompt(q)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(answer) == "" {
			return current, nil
		}
		return answer, nil
	}

	name, err := ask("Name", p.Name)
	if err != nil {
		return err
	}
	p.Name = name
	if !havePrompt {
		text, err := ask("Prompt", p.Prompt)
		if err != nil {
			return err
		}
		p.Prompt = text
	}
	return nil
}

func (a *App) saveProfiles(ctx context.Context, store storage.Adapter, next []model.Profile, p model.Profile, msg string) error {
	if err := profile.Save(ctx, store, next); err != nil {
		return err
	}
	a.note(msg, p.Name)
	return a.emit(p, func(io.Writer) error { return nil })
}

func (a *App) useProfile(ctx context.Context, store storage.Adapter, list []model.Profile, id string) error {
	if id == "" {
		return ErrMissingArgument("id", "bex profile use <id|none>")
	}
	if id == profile.NoneID {
		if err := profile.SetActiveID(ctx, store, profile.NoneID); err != nil {
			return err
		}
		a.note("No profile will be used")
		return a.emit(map[string]string{"active": profile.NoneID}, func(io.Writer) error { return nil })
	}

	p, err := findProfile(list, id)
	if err != nil {
		return err
	}
	if err := profile.SetActiveID(ctx, store, p.ID); err != nil {
		return err
	}
	a.note("Using profile %q", p.Name)
	return a.emit(p, func(io.Writer) error { return nil })
}

func (a *App) showActive(ctx context.Context, store storage.Adapter, list []model.Profile) error {
	activeID, _ := profile.ActiveID(ctx, store)
	p, ok := profile.Resolve(list, activeID)
	if !ok {
		return a.emit(nil, func(w io.Writer) error {
			fmt.Fprintln(w, "No active profile")
			return nil
		})
	}
	return a.emit(p, func(w io.Writer) error {
		fmt.Fprintln(w, TitleStyle.Render(p.Name)+" "+DimStyle.Render(shortID(p.ID)))
		fmt.Fprintln(w, p.Prompt)
		return nil
	})
}

func (a *App) exportProfiles(list []model.Profile, path string) error {
	data, err := profile.ExportYAML(list)
	if err != nil {
		return err
	}
	if path == "" || path == "-" {
		_, err := a.Out.Write(data)
		return err
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	a.note("Exported %d profiles to %s", len(list), path)
	return nil
}

func (a *App) importProfiles(ctx context.Context, store storage.Adapter, list []model.Profile, args *ArgParser) error {
	path := args.Positional(1)
	if path == "" {
		return ErrMissingArgument("file", "bex profile import profiles.yaml")
	}
	text, err := a.readAll(path)
	if err != nil {
		return err
	}
	imported, err := profile.ImportYAML([]byte(text))
	if err != nil {
		return err
	}

	next := imported
	if !args.BoolFlag("replace") {
		next = list
		for _, p := range imported {
			next, _, err = profile.Add(next, p)
			if err != nil {
				return err
			}
		}
	}
	if err := profile.Save(ctx, store, next); err != nil {
		return err
	}
	a.note("Imported %d profiles", len(imported))
	return a.emit(imported, func(io.Writer) error { return nil })
}

// profilePrompt drafts a profile prompt with the check command, or prints
// the request when no command is configured.
func (a *App) profilePrompt(ctx context.Context, store storage.Adapter, list []model.Profile, args *ArgParser) error {
	wiz := prompt.Wizard{
		Role:      args.Flag("role"),
		Audience:  args.Flag("audience"),
		Tone:      args.Flag("tone"),
		Formality: args.Flag("formality"),
		Domain:    args.Flag("domain"),
		Notes:     args.Flag("notes"),
	}
	request, err := prompt.BuildProfileRequest(wiz)
	if err != nil {
		return err
	}

	if len(a.Config.Check.Command) == 0 {
		data := map[string]string{"system": prompt.ProfileGeneration, "request": request}
		return a.emit(data, func(w io.Writer) error {
			fmt.Fprintln(a.Err, WarningStyle.Render("check.command is not set; send this request to your model:"))
			fmt.Fprintln(w, request)
			return nil
		})
	}

	checker := &check.ExecChecker{Argv: a.Config.Check.Command}
	genCtx, cancel := context.WithTimeout(ctx, a.Config.Check.Timeout())
	defer cancel()
	generated, err := checker.Check(genCtx, prompt.ProfileGeneration, request)
	if err != nil {
		return fmt.Errorf("failed to generate profile prompt: %w", err)
	}
	generated = util.TrimECMASpace(generated)

	name := args.Flag("save")
	if name == "" {
		return a.emit(map[string]string{"prompt": generated}, func(w io.Writer) error {
			fmt.Fprintln(w, generated)
			return nil
		})
	}
	next, added, err := profile.Add(list, model.Profile{Name: name, Prompt: generated})
	if err != nil {
		return err
	}
	return a.saveProfiles(ctx, store, next, added, "Created profile %q")
}

// findProfile matches an ID, an ID prefix or a case-insensitive name.
func findProfile(list []model.Profile, key string) (model.Profile, error) {
	if key == "" {
		return model.Profile{}, ErrMissingArgument("id", "bex profile default <id|name>")
	}
	if p, ok := profile.Find(list, key); ok {
		return p, nil
	}

	var matches []model.Profile
	for _, p := range list {
		if strings.HasPrefix(p.ID, key) || strings.EqualFold(p.Name, key) {
			matches = append(matches, p)
		}
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	return model.Profile{}, &NotFoundError{Resource: "profile", ID: key}
}
