// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMirrorStore_Contract(t *testing.T) {
	testAdapterContract(t, NewMirrorStore(NewMemoryStore(), NewMemoryStore()))
}

func TestMirrorStore_WritesBoth(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryStore()
	mirror := NewFileStore(filepath.Join(t.TempDir(), "data.json"))
	s := NewMirrorStore(primary, mirror)

	require.NoError(t, s.SetItem(ctx, KeyActiveProfile, "p1"))

	v, ok := mirror.GetItem(ctx, KeyActiveProfile)
	assert.True(t, ok)
	assert.Equal(t, "p1", v)

	require.NoError(t, s.RemoveItem(ctx, KeyActiveProfile))
	_, ok = mirror.GetItem(ctx, KeyActiveProfile)
	assert.False(t, ok)
}

func TestMirrorStore_MirrorFailureIgnored(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryStore()
	s := NewMirrorStore(primary, &failingStore{MemoryStore: NewMemoryStore(), err: errors.New("read-only fs")})

	require.NoError(t, s.SetItem(ctx, "k", "v"))
	require.NoError(t, s.RemoveItem(ctx, "other"))

	v, ok := s.GetItem(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestMirrorStore_PrimaryFailurePropagates(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("keystore locked")
	mirror := NewMemoryStore()
	s := NewMirrorStore(&failingStore{MemoryStore: NewMemoryStore(), err: boom}, mirror)

	assert.ErrorIs(t, s.SetItem(ctx, "k", "v"), boom)
	assert.ErrorIs(t, s.RemoveItem(ctx, "k"), boom)

	_, ok := mirror.GetItem(ctx, "k")
	assert.False(t, ok, "mirror must not be written when the primary fails")
}

func TestMirrorStore_ReadsPrimaryOnly(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryStore()
	mirror := NewMemoryStore()
	require.NoError(t, mirror.SetItem(ctx, "mirror-only", "x"))

	s := NewMirrorStore(primary, mirror)
	_, ok := s.GetItem(ctx, "mirror-only")
	assert.False(t, ok)
	assert.Empty(t, s.AllKeys(ctx))
}
