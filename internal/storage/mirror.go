// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"

	"go.uber.org/zap"
)

// MirrorStore writes to a primary store and copies each write to a mirror
// on a best-effort basis. Reads come from the primary only. A mirror failure
// is logged at debug level and never returned.
type MirrorStore struct {
	primary Adapter
	mirror  Adapter
	log     *zap.Logger
}

// NewMirrorStore combines primary with a best-effort mirror.
func NewMirrorStore(primary, mirror Adapter, opts ...Option) *MirrorStore {
	o := buildOptions(opts)
	return &MirrorStore{primary: primary, mirror: mirror, log: o.log}
}

// GetItem implements Adapter.
func (s *MirrorStore) GetItem(ctx context.Context, key string) (string, bool) {
	return s.primary.GetItem(ctx, key)
}

// SetItem implements Adapter. The mirror is only written after the primary
// succeeds.
func (s *MirrorStore) SetItem(ctx context.Context, key, value string) error {
	if err := s.primary.SetItem(ctx, key, value); err != nil {
		return err
	}
	if err := s.mirror.SetItem(ctx, key, value); err != nil {
		s.log.Debug("mirror write failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

// RemoveItem implements Adapter.
func (s *MirrorStore) RemoveItem(ctx context.Context, key string) error {
	if err := s.primary.RemoveItem(ctx, key); err != nil {
		return err
	}
	if err := s.mirror.RemoveItem(ctx, key); err != nil {
		s.log.Debug("mirror remove failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

// AllKeys implements Adapter.
func (s *MirrorStore) AllKeys(ctx context.Context) []string {
	return s.primary.AllKeys(ctx)
}
