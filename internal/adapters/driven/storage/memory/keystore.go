package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/pagebrief/pagebrief-cli/internal/core/ports/driven"
)

// Ensure KeyStore implements the interface.
var _ driven.KeyStore = (*KeyStore)(nil)

// KeyStore is an in-memory implementation of driven.KeyStore.
type KeyStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewKeyStore creates a new in-memory key store.
func NewKeyStore() *KeyStore {
	return &KeyStore{
		entries: make(map[string][]byte),
	}
}

// Put stores an obfuscated credential under the service name.
func (s *KeyStore) Put(_ context.Context, service string, obfuscated []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(obfuscated))
	copy(cp, obfuscated)
	s.entries[service] = cp
	return nil
}

// Get retrieves the obfuscated credential for a service.
func (s *KeyStore) Get(_ context.Context, service string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[service]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, true, nil
}

// Delete removes the credential for a service.
func (s *KeyStore) Delete(_ context.Context, service string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, service)
	return nil
}

// List returns the service names with stored credentials, sorted.
func (s *KeyStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
