package services

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/pagebrief/pagebrief-cli/internal/core/ports/driven"
	"github.com/pagebrief/pagebrief-cli/internal/core/ports/driving"
)

// Ensure Keyring implements the interface.
var _ driving.KeyringService = (*Keyring)(nil)

// Keyring manages provider API keys: an in-memory cache backed by an
// obfuscated persisted store. Keys at rest are XOR-stream obfuscated
// with a per-installation secret. This hides keys from casual
// inspection of the credentials file; it is NOT a security boundary
// against a determined local attacker.
//
// Lookups are synchronous: a cache miss loads from the persisted store
// before returning, so there is no cold-cache window where a stored key
// reads as absent.
type Keyring struct {
	mu     sync.RWMutex
	cache  map[string]string
	store  driven.KeyStore
	secret []byte
}

// NewKeyring creates a keyring over the given store. installSecret is
// the per-installation constant keying the obfuscation stream.
func NewKeyring(store driven.KeyStore, installSecret string) *Keyring {
	return &Keyring{
		cache:  make(map[string]string),
		store:  store,
		secret: []byte(installSecret),
	}
}

// StoreKey obfuscates and persists a credential and fills the cache.
// An existing entry for the service is overwritten.
func (k *Keyring) StoreKey(ctx context.Context, service, plaintext string) error {
	if service == "" {
		return fmt.Errorf("store key: service name is empty")
	}

	if err := k.store.Put(ctx, service, k.applyStream([]byte(plaintext))); err != nil {
		return fmt.Errorf("store key: %w", err)
	}

	k.mu.Lock()
	k.cache[service] = plaintext
	k.mu.Unlock()
	return nil
}

// GetKey returns the credential for a service. Memory is consulted
// first; on a miss the persisted store is loaded, decrypted, and
// cached. Returns "" with a nil error when no key exists.
func (k *Keyring) GetKey(ctx context.Context, service string) (string, error) {
	k.mu.RLock()
	cached, ok := k.cache[service]
	k.mu.RUnlock()
	if ok {
		return cached, nil
	}

	obfuscated, found, err := k.store.Get(ctx, service)
	if err != nil {
		return "", fmt.Errorf("load key: %w", err)
	}
	if !found {
		return "", nil
	}

	plaintext := string(k.applyStream(obfuscated))
	k.mu.Lock()
	k.cache[service] = plaintext
	k.mu.Unlock()
	return plaintext, nil
}

// HasKey reports whether a credential exists, memory first then storage.
func (k *Keyring) HasKey(ctx context.Context, service string) (bool, error) {
	k.mu.RLock()
	_, ok := k.cache[service]
	k.mu.RUnlock()
	if ok {
		return true, nil
	}

	_, found, err := k.store.Get(ctx, service)
	if err != nil {
		return false, fmt.Errorf("check key: %w", err)
	}
	return found, nil
}

// DeleteKey removes a credential from memory and storage.
func (k *Keyring) DeleteKey(ctx context.Context, service string) error {
	k.mu.Lock()
	delete(k.cache, service)
	k.mu.Unlock()

	if err := k.store.Delete(ctx, service); err != nil {
		return fmt.Errorf("delete key: %w", err)
	}
	return nil
}

// ListKeys returns the service names with stored credentials.
func (k *Keyring) ListKeys(ctx context.Context) ([]string, error) {
	names, err := k.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	return names, nil
}

// applyStream XORs data with a keystream derived from the installation
// secret. Symmetric: applying it twice restores the input.
func (k *Keyring) applyStream(data []byte) []byte {
	out := make([]byte, len(data))
	var block [sha256.Size]byte
	var counter uint64

	for i := 0; i < len(data); i++ {
		if i%sha256.Size == 0 {
			h := sha256.New()
			h.Write(k.secret)
			var ctr [8]byte
			binary.BigEndian.PutUint64(ctr[:], counter)
			h.Write(ctr[:])
			h.Sum(block[:0])
			counter++
		}
		out[i] = data[i] ^ block[i%sha256.Size]
	}
	return out
}
