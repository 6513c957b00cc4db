// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// input.go - Interactive line input and confirmation prompts.
//
// A terminal gets liner's line editing. Piped stdin is read line by line so
// prompts can be scripted.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("aborted")

// lineReader reads one line of input per prompt.
type lineReader interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// plainReader prompts on w and reads lines from r.
type plainReader struct {
	r *bufio.Reader
	w io.Writer
}

func (p *plainReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(p.w, prompt)
	line, err := p.r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *plainReader) Close() error { return nil }

// linerReader wraps liner so Ctrl+C reports ErrAborted.
type linerReader struct {
	state *liner.State
}

func (l *linerReader) Prompt(prompt string) (string, error) {
	line, err := l.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", ErrAborted
	}
	return line, err
}

func (l *linerReader) Close() error { return l.state.Close() }

// newLineReader returns liner for a terminal on os.Stdin, otherwise a plain
// reader over a.In. Only one reader may be open at a time.
func (a *App) newLineReader() lineReader {
	if a.In == os.Stdin && a.stdinTTY() {
		state := liner.NewLiner()
		state.SetCtrlCAborts(true)
		return &linerReader{state: state}
	}
	if a.reader == nil {
		a.reader = bufio.NewReader(a.In)
	}
	return &plainReader{r: a.reader, w: a.Err}
}

// =============================================================================
// CONFIRMATION
// =============================================================================

// confirm asks a yes/no question unless --yes was given. JSON mode and
// missing input both require --yes.
func (a *App) confirm(action string, yes bool) error {
	if yes {
		return nil
	}
	if a.Args.JSON {
		return &ValidationError{Field: "confirmation", Reason: action + " requires --yes in JSON mode"}
	}

	lr := a.newLineReader()
	defer lr.Close()

	answer, err := lr.Prompt(WarningStyle.Render(action+"?") + " [y/N]: ")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &ValidationError{Field: "confirmation", Reason: action + " requires --yes when input is not interactive"}
		}
		return err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	}
	return ErrAborted
}

// readAll reads an input file, or a.In for "-".
func (a *App) readAll(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(a.In)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
