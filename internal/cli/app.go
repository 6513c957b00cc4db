// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Process entry point and the state shared by command handlers.

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.uber.org/zap"

	"github.com/jeranaias/bex/internal/config"
	"github.com/jeranaias/bex/internal/logging"
	"github.com/jeranaias/bex/internal/storage"
)

// App carries the loaded configuration, streams and storage for one run.
type App struct {
	Args       Args
	Config     *config.Config
	ConfigPath string
	Log        *zap.Logger

	In  io.Reader
	Out io.Writer
	Err io.Writer

	profile    termenv.Profile
	reader     *bufio.Reader
	store      storage.Adapter
	closeStore func() error
}

// Run executes argv and returns the process exit code.
func Run(argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd, args := Parse(argv)

	switch cmd {
	case CmdHelp:
		PrintUsage(stdout)
		return ExitSuccess
	case CmdUnknown:
		err := &ValidationError{Field: "command", Value: args.Name, Reason: "unknown command", Example: "bex help"}
		reportError(stdout, stderr, args, err, false)
		return ExitUsageError
	}

	app, err := NewApp(args, stdin, stdout, stderr)
	if err != nil {
		reportError(stdout, stderr, args, err, false)
		return GetExitCode(err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Dispatch(ctx, cmd); err != nil {
		app.Log.Debug("command failed", zap.String("command", args.Name), zap.Error(err))
		reportError(stdout, stderr, args, err, app.colorOn())
		return GetExitCode(err)
	}
	return ExitSuccess
}

// NewApp loads the configuration and logger for args.
func NewApp(args Args, stdin io.Reader, stdout, stderr io.Writer) (*App, error) {
	path := args.ConfigPath
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return nil, &ConfigError{Err: err}
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	if args.Backend != "" {
		cfg.Storage.Backend = args.Backend
	}
	if args.NoColor {
		cfg.UI.Color = ColorNever
	}

	log, err := logging.New(cfg.Logging, args.Verbose)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	app := &App{
		Args:       args,
		Config:     cfg,
		ConfigPath: path,
		Log:        log,
		In:         stdin,
		Out:        stdout,
		Err:        stderr,
	}
	app.profile = ResolveColorProfile(cfg.UI.Color, isTerminal(stdout))
	lipgloss.SetColorProfile(app.profile)
	return app, nil
}

// Dispatch runs the handler for cmd.
func (a *App) Dispatch(ctx context.Context, cmd Command) error {
	switch cmd {
	case CmdVersion:
		return a.HandleVersion()
	case CmdDiff:
		return a.HandleDiff()
	case CmdCheck:
		return a.HandleCheck(ctx)
	case CmdRecord:
		return a.HandleRecord(ctx)
	case CmdParse:
		return a.HandleParse()
	case CmdHistory:
		return a.HandleHistory(ctx)
	case CmdProfile:
		return a.HandleProfile(ctx)
	case CmdStorage:
		return a.HandleStorage(ctx)
	case CmdConfig:
		return a.HandleConfig()
	}
	return fmt.Errorf("unhandled command %d", cmd)
}

// Store opens the configured storage adapter on first use.
func (a *App) Store() (storage.Adapter, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, closeFn, err := storage.Open(a.Config.Storage, a.Log)
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("failed to open %s storage: %w", a.Config.Storage.Backend, err)}
	}
	a.Log.Debug("storage opened", zap.String("backend", a.Config.Storage.Backend))
	a.store = store
	a.closeStore = closeFn
	return store, nil
}

// Close releases storage and flushes the logger.
func (a *App) Close() error {
	var err error
	if a.closeStore != nil {
		err = a.closeStore()
		a.closeStore = nil
	}
	_ = a.Log.Sync()
	return err
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

func (a *App) colorOn() bool {
	return a.profile != termenv.Ascii
}

func (a *App) stdinTTY() bool {
	return isTerminal(a.In)
}

// emit writes data as a JSON envelope in --json mode, otherwise calls text.
func (a *App) emit(data any, text func(w io.Writer) error) error {
	if a.Args.JSON {
		return NewJSONResponse(a.Args.Name, data).Write(a.Out, a.colorOn())
	}
	return text(a.Out)
}

// note prints a status line to stderr unless --quiet or --json is set.
func (a *App) note(format string, args ...any) {
	if a.Args.Quiet || a.Args.JSON {
		return
	}
	fmt.Fprintln(a.Err, SuccessStyle.Render(fmt.Sprintf(format, args...)))
}

// reportError prints err once, as JSON on stdout in --json mode.
func reportError(stdout, stderr io.Writer, args Args, err error, color bool) {
	if args.JSON {
		_ = NewJSONErrorResponse(args.Name, err).Write(stdout, color)
		return
	}
	fmt.Fprintf(stderr, "%s %s\n", ErrorStyle.Render("Error:"), err.Error())
}
