// Package file provides file-based configuration stores using TOML.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/pagebrief/pagebrief-cli/internal/core/domain"
	"github.com/pagebrief/pagebrief-cli/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// DefaultConfigDirName is the directory under the user home that holds
// pagebrief configuration.
const DefaultConfigDirName = ".pagebrief"

// settingsFileName is the settings file within the config directory.
const settingsFileName = "config.toml"

// SettingsStore is a TOML-file implementation of driven.SettingsStore.
type SettingsStore struct {
	mu       sync.RWMutex
	filePath string
}

// providerTable is the per-provider TOML table.
type providerTable struct {
	BaseURL string `toml:"base_url,omitempty"`
	APIKey  string `toml:"api_key,omitempty"`
	Model   string `toml:"model,omitempty"`
}

// fileSettings is the on-disk settings layout.
type fileSettings struct {
	Mode          string                   `toml:"mode"`
	DefaultFormat string                   `toml:"default_format"`
	Providers     map[string]providerTable `toml:"providers"`
}

// ConfigDir resolves the configuration directory, defaulting to
// ~/.pagebrief, and ensures it exists.
func ConfigDir(dir string) (string, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, DefaultConfigDirName)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}

// NewSettingsStore creates a settings store in the given config
// directory. If configDir is empty, defaults to ~/.pagebrief.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	dir, err := ConfigDir(configDir)
	if err != nil {
		return nil, err
	}
	return &SettingsStore{
		filePath: filepath.Join(dir, settingsFileName),
	}, nil
}

// Path returns the settings file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}

// Load reads settings from disk, overlaying the file's values on the
// defaults. A missing file yields the defaults.
func (s *SettingsStore) Load() (domain.AppSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings := domain.DefaultAppSettings()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings: %w", err)
	}

	var raw fileSettings
	if err := toml.Unmarshal(data, &raw); err != nil {
		return settings, fmt.Errorf("parse settings: %w", err)
	}

	if mode := domain.ProviderKind(raw.Mode); mode.IsValid() {
		settings.Mode = mode
	}
	if format := domain.SummaryFormat(raw.DefaultFormat); format.IsValid() {
		settings.DefaultFormat = format
	}
	for name, table := range raw.Providers {
		kind := domain.ProviderKind(name)
		if !kind.IsValid() {
			continue
		}
		p := settings.Providers[kind]
		p.Kind = kind
		if table.BaseURL != "" {
			p.BaseURL = table.BaseURL
		}
		if table.APIKey != "" {
			p.APIKey = table.APIKey
		}
		if table.Model != "" {
			p.Model = table.Model
		}
		settings.Providers[kind] = p
	}
	return settings, nil
}

// Save persists the settings to disk.
func (s *SettingsStore) Save(settings domain.AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw := fileSettings{
		Mode:          settings.Mode.String(),
		DefaultFormat: settings.DefaultFormat.String(),
		Providers:     make(map[string]providerTable, len(settings.Providers)),
	}
	for kind, p := range settings.Providers {
		raw.Providers[kind.String()] = providerTable{
			BaseURL: p.BaseURL,
			APIKey:  p.APIKey,
			Model:   p.Model,
		}
	}

	data, err := toml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
