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

func newTestKeyStore(t *testing.T) (*KeyStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keystore.db")
	ks, err := NewKeyStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { ks.Close() })
	return ks, path
}

func TestKeyStore_Contract(t *testing.T) {
	ks, _ := newTestKeyStore(t)
	testAdapterContract(t, ks)
}

func TestKeyStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	ks, path := newTestKeyStore(t)

	require.NoError(t, ks.SetItem(ctx, KeyProfiles, `[{"id":"1","name":"Work","prompt":"Be formal."}]`))
	require.NoError(t, ks.Close())

	reopened, err := NewKeyStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok := reopened.GetItem(ctx, KeyProfiles)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1","name":"Work","prompt":"Be formal."}]`, v)
}

func TestKeyStore_Closed(t *testing.T) {
	ctx := context.Background()
	ks, _ := newTestKeyStore(t)
	require.NoError(t, ks.SetItem(ctx, "k", "v"))
	require.NoError(t, ks.Close())
	require.NoError(t, ks.Close(), "Close is idempotent")

	assert.True(t, errors.Is(ks.SetItem(ctx, "k", "v2"), ErrClosed))
	assert.True(t, errors.Is(ks.RemoveItem(ctx, "k"), ErrClosed))

	_, ok := ks.GetItem(ctx, "k")
	assert.False(t, ok, "reads after Close behave as empty")
	assert.Empty(t, ks.AllKeys(ctx))
}

func TestKeyStore_LargeValue(t *testing.T) {
	ctx := context.Background()
	ks, _ := newTestKeyStore(t)

	big := make([]byte, 1<<20)
	for i := range big {
		big[i] = 'a' + byte(i%26)
	}
	require.NoError(t, ks.SetItem(ctx, KeyHistory, string(big)))

	v, ok := ks.GetItem(ctx, KeyHistory)
	require.True(t, ok)
	assert.Equal(t, len(big), len(v))
}
