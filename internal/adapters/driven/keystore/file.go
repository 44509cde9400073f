// Package keystore persists obfuscated provider credentials in a TOML
// file inside the config directory. Values arrive already obfuscated
// from the keyring service; this package only handles storage and the
// per-installation secret.
package keystore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"github.com/pagebrief/pagebrief-cli/internal/core/ports/driven"
)

// Ensure FileStore implements the interface.
var _ driven.KeyStore = (*FileStore)(nil)

// credentialsFileName is the credentials file within the config directory.
const credentialsFileName = "credentials.toml"

// installIDFileName holds the per-installation secret seed.
const installIDFileName = "install_id"

// FileStore stores base64-encoded obfuscated credentials keyed by
// service name.
type FileStore struct {
	mu       sync.Mutex
	filePath string
}

// NewFileStore creates a credential store in the given config directory.
func NewFileStore(configDir string) (*FileStore, error) {
	if configDir == "" {
		return nil, errors.New("keystore: config directory is required")
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}
	return &FileStore{
		filePath: filepath.Join(configDir, credentialsFileName),
	}, nil
}

// InstallSecret returns the per-installation secret, generating and
// persisting a new one on first use.
func InstallSecret(configDir string) (string, error) {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", err
	}
	path := filepath.Join(configDir, installIDFileName)

	data, err := os.ReadFile(path)
	if err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("read install id: %w", err)
	}

	id := uuid.New().String()
	if err := os.WriteFile(path, []byte(id+"\n"), 0600); err != nil {
		return "", fmt.Errorf("write install id: %w", err)
	}
	return id, nil
}

// Put stores an obfuscated credential under the service name.
func (s *FileStore) Put(_ context.Context, service string, obfuscated []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	entries[service] = base64.StdEncoding.EncodeToString(obfuscated)
	return s.save(entries)
}

// Get retrieves the obfuscated credential for a service.
func (s *FileStore) Get(_ context.Context, service string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, false, err
	}
	encoded, ok := entries[service]
	if !ok {
		return nil, false, nil
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, false, fmt.Errorf("decode credential for %s: %w", service, err)
	}
	return raw, true, nil
}

// Delete removes the credential for a service.
func (s *FileStore) Delete(_ context.Context, service string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := entries[service]; !ok {
		return nil
	}
	delete(entries, service)
	return s.save(entries)
}

// List returns the service names with stored credentials, sorted.
func (s *FileStore) List(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// load reads the credentials file (caller must hold the lock).
func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	entries := make(map[string]string)
	if err := toml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return entries, nil
}

// save writes the credentials file (caller must hold the lock).
func (s *FileStore) save(entries map[string]string) error {
	data, err := toml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}
