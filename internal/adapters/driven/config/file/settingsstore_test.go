package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagebrief/pagebrief-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *SettingsStore {
	t.Helper()
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	store := newTestStore(t)

	settings, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, domain.ProviderOpenAI, settings.Mode)
	assert.Equal(t, domain.FormatShort, settings.DefaultFormat)
	assert.Equal(t, domain.DefaultOllamaBaseURL, settings.Providers[domain.ProviderOllama].BaseURL)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	settings := domain.DefaultAppSettings()
	settings.Mode = domain.ProviderOllama
	settings.DefaultFormat = domain.FormatKeyPoints
	p := settings.Providers[domain.ProviderOllama]
	p.Model = "mistral"
	settings.Providers[domain.ProviderOllama] = p

	require.NoError(t, store.Save(settings))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderOllama, loaded.Mode)
	assert.Equal(t, domain.FormatKeyPoints, loaded.DefaultFormat)
	assert.Equal(t, "mistral", loaded.Providers[domain.ProviderOllama].Model)
}

func TestLoad_PartialFileOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	// A hand-edited file naming only one provider must not wipe the
	// defaults for the others.
	content := "mode = \"lmstudio\"\n\n[providers.lmstudio]\nbase_url = \"http://10.0.0.5:1234/v1\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderLMStudio, settings.Mode)
	assert.Equal(t, "http://10.0.0.5:1234/v1", settings.Providers[domain.ProviderLMStudio].BaseURL)
	assert.Equal(t, domain.DefaultOpenAIBaseURL, settings.Providers[domain.ProviderOpenAI].BaseURL)
}

func TestLoad_UnknownKindsIgnored(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	content := "mode = \"skynet\"\n\n[providers.skynet]\nbase_url = \"http://nowhere\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	settings, err := store.Load()
	require.NoError(t, err)
	// An unrecognised mode falls back to the default.
	assert.Equal(t, domain.ProviderOpenAI, settings.Mode)
	_, ok := settings.Providers[domain.ProviderKind("skynet")]
	assert.False(t, ok)
}

func TestSave_FilePermissions(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(domain.DefaultAppSettings()))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
