// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package check

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/bex/internal/config"
	"github.com/jeranaias/bex/internal/diff"
	"github.com/jeranaias/bex/internal/history"
	"github.com/jeranaias/bex/internal/model"
	"github.com/jeranaias/bex/internal/parse"
	"github.com/jeranaias/bex/internal/profile"
	"github.com/jeranaias/bex/internal/prompt"
	"github.com/jeranaias/bex/internal/storage"
	"github.com/jeranaias/bex/internal/util"
)

var (
	// ErrEmptyText is returned when the text to check is blank.
	ErrEmptyText = errors.New("enter some text to check")

	// ErrTimeout is returned when the checker does not answer in time.
	ErrTimeout = errors.New("check timed out")
)

// Checker produces raw model output for one grammar check.
type Checker interface {
	Check(ctx context.Context, systemPrompt, text string) (string, error)
}

// Outcome is a completed check.
type Outcome struct {
	Result model.GrammarResult `json:"result"`
	Words  []diff.Word         `json:"words"`
	Entry  model.HistoryEntry  `json:"entry"`
}

// Service runs checks against one storage adapter.
type Service struct {
	store    storage.Adapter
	checker  Checker
	provider model.Provider
	model    string
	timeout  time.Duration
	log      *zap.Logger
}

// NewService creates a Service. checker may be nil when only Record is used.
func NewService(store storage.Adapter, checker Checker, cfg config.CheckConfig, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:    store,
		checker:  checker,
		provider: model.Provider(cfg.Provider),
		model:    cfg.ResolvedModel(),
		timeout:  cfg.Timeout(),
		log:      log,
	}
}

// Run checks text with the configured Checker and records the result.
//
// When the history write fails the Outcome is still returned alongside the
// error so callers can show the correction.
func (s *Service) Run(ctx context.Context, text string) (Outcome, error) {
	if util.TrimECMASpace(text) == "" {
		return Outcome{}, ErrEmptyText
	}
	if s.checker == nil {
		return Outcome{}, ErrNoCommand
	}

	active := s.activeProfile(ctx)
	system := prompt.BuildSystem(active.Prompt)

	checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	raw, err := s.checker.Check(checkCtx, system, text)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return Outcome{}, fmt.Errorf("%w after %s", ErrTimeout, s.timeout)
		}
		return Outcome{}, fmt.Errorf("check failed: %w", err)
	}
	s.log.Debug("checker answered",
		zap.String("provider", s.provider.String()),
		zap.String("model", s.model),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("bytes", len(raw)))

	return s.finish(ctx, text, raw, active.Name)
}

// Record parses raw model output obtained elsewhere and records it against
// original, exactly as Run would.
func (s *Service) Record(ctx context.Context, original, raw string) (Outcome, error) {
	if util.TrimECMASpace(original) == "" {
		return Outcome{}, ErrEmptyText
	}
	return s.finish(ctx, original, raw, s.activeProfile(ctx).Name)
}

func (s *Service) finish(ctx context.Context, original, raw, profileName string) (Outcome, error) {
	result, err := parse.ParseGrammarResponse(raw)
	if err != nil {
		s.log.Debug("unparseable model output", zap.Error(err))
		return Outcome{}, err
	}

	out := Outcome{
		Result: result,
		Words:  diff.ComputeWordDiff(original, result.Corrected),
		Entry:  history.NewEntry(original, result, s.provider.String(), s.model, profileName),
	}
	if err := history.Save(ctx, s.store, out.Entry); err != nil {
		return out, fmt.Errorf("failed to save history: %w", err)
	}
	s.log.Debug("check recorded",
		zap.String("id", out.Entry.ID),
		zap.String("changes", diff.Stats(out.Words).Summary()))
	return out, nil
}

// activeProfile returns the profile for this check, or the zero Profile
// when none applies.
func (s *Service) activeProfile(ctx context.Context) model.Profile {
	list := profile.Load(ctx, s.store)
	activeID, _ := profile.ActiveID(ctx, s.store)
	p, _ := profile.Resolve(list, activeID)
	return p
}
