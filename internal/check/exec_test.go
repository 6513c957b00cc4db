// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package check

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
}

func TestExecChecker_StdinAndPrompt(t *testing.T) {
	requireShell(t)
	c := &ExecChecker{Argv: []string{"sh", "-c", `read -r line; printf '%s|%s' "$line" "$BEX_SYSTEM_PROMPT"`}}

	out, err := c.Check(context.Background(), "the prompt", "user text\n")
	require.NoError(t, err)
	assert.Equal(t, "user text|the prompt", out)
}

func TestExecChecker_ExtraEnv(t *testing.T) {
	requireShell(t)
	c := &ExecChecker{
		Argv: []string{"sh", "-c", `printf '%s' "$BEX_MODEL"`},
		Env:  []string{"BEX_MODEL=tiny"},
	}
	out, err := c.Check(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "tiny", out)
}

func TestExecChecker_DropsLoaderVariables(t *testing.T) {
	requireShell(t)
	t.Setenv("BEX_SYSTEM_PROMPT", "stale")

	env := sanitizeEnvironment([]string{"PATH=/bin", "LD_PRELOAD=x.so", "DYLD_INSERT_LIBRARIES=y", "BASH_FUNC_f%%=()", "BEX_SYSTEM_PROMPT=stale", "=bad"})
	assert.Equal(t, []string{"PATH=/bin"}, env)

	c := &ExecChecker{Argv: []string{"sh", "-c", `printf '%s' "$BEX_SYSTEM_PROMPT"`}}
	out, err := c.Check(context.Background(), "fresh", "")
	require.NoError(t, err)
	assert.Equal(t, "fresh", out)
}

func TestExecChecker_ExitCode(t *testing.T) {
	requireShell(t)
	c := &ExecChecker{Argv: []string{"sh", "-c", "echo boom >&2; exit 3"}}

	_, err := c.Check(context.Background(), "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited with code 3: boom")
}

func TestExecChecker_ContextDeadline(t *testing.T) {
	requireShell(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := &ExecChecker{Argv: []string{"sleep", "5"}}
	start := time.Now()
	_, err := c.Check(ctx, "", "")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestExecChecker_NoCommand(t *testing.T) {
	_, err := (&ExecChecker{}).Check(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrNoCommand)
}

func TestExecChecker_MissingBinary(t *testing.T) {
	c := &ExecChecker{Argv: []string{"bex-no-such-binary-for-tests"}}
	_, err := c.Check(context.Background(), "", "")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to run check command"))
}

func TestLimitedWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &limitedWriter{buf: &buf, remaining: 5}

	n, err := w.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = w.Write([]byte("defgh"))
	require.NoError(t, err)
	assert.Equal(t, 5, n, "reports full length")
	assert.Equal(t, "abcde", buf.String())
}
