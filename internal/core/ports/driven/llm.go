// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/pagebrief/pagebrief-cli/internal/core/domain"
)

// Provider turns a chat-style message list into a single completion.
//
// Implementations include:
//   - OpenAI (hosted, bearer required)
//   - OpenRouter (aggregator, bearer plus identification headers)
//   - LM Studio (local, optional bearer, legacy completions fallback)
//   - Ollama (local, legacy generate fallback)
//
// Implementations classify failures by wrapping the domain error
// sentinels, and prepend domain.TranslationMarker to the result when
// opts.Translate is set.
type Provider interface {
	// Complete sends the messages and returns the assistant's text,
	// whitespace-trimmed.
	Complete(ctx context.Context, messages []domain.ChatMessage, opts CompleteOptions) (string, error)

	// Name returns the provider kind name for logging.
	Name() string
}

// CompleteOptions configures a single completion call.
type CompleteOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// Translate marks the completion as produced under a translation
	// instruction; the adapter prepends the translation marker.
	Translate bool
}
