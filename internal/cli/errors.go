// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error types and exit codes for bex commands.
//
// Handlers always return errors; Run prints them once and picks the exit
// code.

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeranaias/bex/internal/check"
	"github.com/jeranaias/bex/internal/config"
	"github.com/jeranaias/bex/internal/parse"
	"github.com/jeranaias/bex/internal/profile"
	"github.com/jeranaias/bex/internal/prompt"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitUsageError    = 2
	ExitConfigError   = 3
	ExitNotFoundError = 7
	ExitTimeoutError  = 8
	ExitParseError    = 9
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ValidationError represents invalid command usage.
type ValidationError struct {
	Field   string
	Value   string
	Reason  string
	Example string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// NotFoundError represents a missing history entry, profile or key.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ConfigError wraps a failure to load or write the configuration.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

// ErrMissingArgument creates an error for a missing required argument.
func ErrMissingArgument(argName, usage string) error {
	return &ValidationError{Field: argName, Reason: "required argument missing", Example: usage}
}

// ErrUnknownSubcommand creates an error for an unrecognized subcommand.
func ErrUnknownSubcommand(command, sub string, valid []string) error {
	return &ValidationError{
		Field:   command + " subcommand",
		Value:   sub,
		Reason:  "unknown subcommand",
		Example: fmt.Sprintf("one of %v", valid),
	}
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// GetExitCode maps an error to the process exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var validationErr *ValidationError
	var notFoundErr *NotFoundError
	var configErr *ConfigError
	var configValidation config.ValidateErrors
	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, check.ErrEmptyText),
		errors.Is(err, prompt.ErrEmptyWizard),
		errors.Is(err, profile.ErrNameRequired):
		return ExitUsageError
	case errors.As(err, &configErr),
		errors.As(err, &configValidation),
		errors.Is(err, check.ErrNoCommand):
		return ExitConfigError
	case errors.As(err, &notFoundErr), errors.Is(err, profile.ErrNotFound):
		return ExitNotFoundError
	case errors.Is(err, check.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return ExitTimeoutError
	case errors.Is(err, parse.ErrUnparseable):
		return ExitParseError
	}
	return ExitGeneralError
}

// errorType names the error class in JSON output.
func errorType(err error) string {
	switch GetExitCode(err) {
	case ExitUsageError:
		return "validation_error"
	case ExitConfigError:
		return "config_error"
	case ExitNotFoundError:
		return "not_found_error"
	case ExitTimeoutError:
		return "timeout_error"
	case ExitParseError:
		return "parse_error"
	}
	return "generic_error"
}
