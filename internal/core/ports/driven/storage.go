package driven

import (
	"context"

	"github.com/pagebrief/pagebrief-cli/internal/core/domain"
)

// KeyStore persists obfuscated provider credentials. Values handed to
// Put are already obfuscated; the keyring service owns the cipher.
type KeyStore interface {
	// Put stores an obfuscated credential under the service name.
	Put(ctx context.Context, service string, obfuscated []byte) error

	// Get retrieves the obfuscated credential for a service.
	// Returns (nil, false, nil) when absent.
	Get(ctx context.Context, service string) ([]byte, bool, error)

	// Delete removes the credential for a service.
	Delete(ctx context.Context, service string) error

	// List returns the service names with stored credentials.
	List(ctx context.Context) ([]string, error)
}

// SummaryStore persists completed summaries for later recall.
type SummaryStore interface {
	// Save stores a summary record.
	Save(ctx context.Context, rec domain.SummaryRecord) error

	// List returns the most recent records, newest first.
	List(ctx context.Context, limit int) ([]domain.SummaryRecord, error)

	// Get retrieves a record by ID.
	Get(ctx context.Context, id string) (*domain.SummaryRecord, error)

	// Close releases resources.
	Close() error
}

// SettingsStore loads and persists application settings.
type SettingsStore interface {
	// Load returns the current settings, falling back to defaults for
	// anything unset.
	Load() (domain.AppSettings, error)

	// Save persists the settings.
	Save(settings domain.AppSettings) error
}
