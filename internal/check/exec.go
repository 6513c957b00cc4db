// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package check

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/jeranaias/bex/internal/util"
)

// MaxOutputBytes caps how much checker stdout is read.
const MaxOutputBytes = 1 << 20

// ErrNoCommand is returned when ExecChecker has an empty argv.
var ErrNoCommand = errors.New("no check command configured")

// ExecChecker runs an external command per check. The user text is written
// to stdin, the system prompt is passed in BEX_SYSTEM_PROMPT and stdout is
// the raw model output.
type ExecChecker struct {
	Argv []string

	// Env is appended to the sanitized process environment.
	Env []string
}

// Check implements Checker.
func (c *ExecChecker) Check(ctx context.Context, systemPrompt, text string) (string, error) {
	if len(c.Argv) == 0 {
		return "", ErrNoCommand
	}

	cmd := exec.CommandContext(ctx, c.Argv[0], c.Argv[1:]...)
	cmd.Stdin = strings.NewReader(text)
	cmd.Env = append(sanitizeEnvironment(os.Environ()), c.Env...)
	cmd.Env = append(cmd.Env, "BEX_SYSTEM_PROMPT="+systemPrompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitedWriter{buf: &stdout, remaining: MaxOutputBytes}
	cmd.Stderr = &limitedWriter{buf: &stderr, remaining: 4096}

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				return "", fmt.Errorf("check command exited with code %d", exitErr.ExitCode())
			}
			return "", fmt.Errorf("check command exited with code %d: %s",
				exitErr.ExitCode(), util.TruncateRunes(util.SingleLine(msg), 200))
		}
		return "", fmt.Errorf("failed to run check command: %w", err)
	}
	return stdout.String(), nil
}

// limitedWriter keeps the first remaining bytes and discards the rest
// without failing the command.
type limitedWriter struct {
	buf       *bytes.Buffer
	remaining int
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)
	if w.remaining > 0 {
		keep := min(n, w.remaining)
		w.buf.Write(p[:keep])
		w.remaining -= keep
	}
	return n, nil
}

// sanitizeEnvironment drops variables that change how the child loads code.
func sanitizeEnvironment(env []string) []string {
	out := make([]string, 0, len(env))
	for _, kv := range env {
		idx := strings.Index(kv, "=")
		if idx <= 0 {
			continue
		}
		key := strings.ToUpper(kv[:idx])
		if strings.HasPrefix(key, "LD_") || strings.HasPrefix(key, "DYLD_") ||
			strings.HasPrefix(key, "BASH_FUNC_") || key == "BEX_SYSTEM_PROMPT" {
			continue
		}
		out = append(out, kv)
	}
	return out
}
