// Package driving provides interfaces for application entry points (primary/inbound ports).
package driving

import (
	"context"

	"github.com/pagebrief/pagebrief-cli/internal/core/domain"
)

// DispatchService is the public contract of the core: one call per
// dispatch, one eventual result. Any internal failure is converted into
// DispatchResult.Error before it reaches the caller.
type DispatchService interface {
	// Summarize runs one summarise dispatch against the configured
	// provider, chunking oversized input transparently.
	Summarize(ctx context.Context, req domain.SummaryRequest, settings domain.AppSettings) domain.DispatchResult

	// Chat runs one chat dispatch with the given message and prior
	// conversation history.
	Chat(ctx context.Context, message string, history []domain.ChatMessage, settings domain.AppSettings) domain.DispatchResult
}

// KeyringService manages provider credentials.
type KeyringService interface {
	// StoreKey obfuscates and persists a credential and fills the
	// in-memory cache.
	StoreKey(ctx context.Context, service, plaintext string) error

	// GetKey returns the credential for a service, loading from the
	// persisted store on a cache miss. Returns "" when absent.
	GetKey(ctx context.Context, service string) (string, error)

	// HasKey reports whether a credential exists, checking memory
	// first and then the persisted store.
	HasKey(ctx context.Context, service string) (bool, error)

	// DeleteKey removes a credential from memory and storage.
	DeleteKey(ctx context.Context, service string) error

	// ListKeys returns the service names with stored credentials.
	ListKeys(ctx context.Context) ([]string, error)
}
