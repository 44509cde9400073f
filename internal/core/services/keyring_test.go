package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagebrief/pagebrief-cli/internal/adapters/driven/storage/memory"
)

func TestKeyring_StoreAndGet(t *testing.T) {
	ctx := context.Background()
	keyring := NewKeyring(memory.NewKeyStore(), "install-secret")

	require.NoError(t, keyring.StoreKey(ctx, "openai", "sk-test-123"))

	key, err := keyring.GetKey(ctx, "openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-test-123", key)
}

func TestKeyring_GetSurvivesColdCache(t *testing.T) {
	// A fresh keyring over the same store must read the key back: a
	// lookup is synchronous and never reports a stored key as absent.
	ctx := context.Background()
	store := memory.NewKeyStore()

	warm := NewKeyring(store, "install-secret")
	require.NoError(t, warm.StoreKey(ctx, "openrouter", "sk-or-456"))

	cold := NewKeyring(store, "install-secret")
	key, err := cold.GetKey(ctx, "openrouter")
	require.NoError(t, err)
	assert.Equal(t, "sk-or-456", key)
}

func TestKeyring_MissingKeyIsEmptyNotError(t *testing.T) {
	keyring := NewKeyring(memory.NewKeyStore(), "install-secret")

	key, err := keyring.GetKey(context.Background(), "openai")
	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestKeyring_ObfuscatedAtRest(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKeyStore()
	keyring := NewKeyring(store, "install-secret")

	plaintext := "sk-very-secret-key"
	require.NoError(t, keyring.StoreKey(ctx, "openai", plaintext))

	raw, found, err := store.Get(ctx, "openai")
	require.NoError(t, err)
	require.True(t, found)
	assert.False(t, bytes.Contains(raw, []byte(plaintext)), "key stored in plaintext")
	assert.Len(t, raw, len(plaintext))
}

func TestKeyring_DifferentSecretCannotRecover(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKeyStore()

	require.NoError(t, NewKeyring(store, "secret-a").StoreKey(ctx, "openai", "sk-123"))

	key, err := NewKeyring(store, "secret-b").GetKey(ctx, "openai")
	require.NoError(t, err)
	assert.NotEqual(t, "sk-123", key)
}

func TestKeyring_Delete(t *testing.T) {
	ctx := context.Background()
	keyring := NewKeyring(memory.NewKeyStore(), "install-secret")

	require.NoError(t, keyring.StoreKey(ctx, "openai", "sk-123"))
	require.NoError(t, keyring.DeleteKey(ctx, "openai"))

	has, err := keyring.HasKey(ctx, "openai")
	require.NoError(t, err)
	assert.False(t, has)

	key, err := keyring.GetKey(ctx, "openai")
	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestKeyring_ListKeys(t *testing.T) {
	ctx := context.Background()
	keyring := NewKeyring(memory.NewKeyStore(), "install-secret")

	require.NoError(t, keyring.StoreKey(ctx, "openrouter", "b"))
	require.NoError(t, keyring.StoreKey(ctx, "openai", "a"))

	names, err := keyring.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"openai", "openrouter"}, names)
}
