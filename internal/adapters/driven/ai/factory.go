// Package ai provides factory functions for creating provider adapters.
package ai

import (
	"fmt"

	"github.com/pagebrief/pagebrief-cli/internal/adapters/driven/llm/lmstudio"
	"github.com/pagebrief/pagebrief-cli/internal/adapters/driven/llm/ollama"
	"github.com/pagebrief/pagebrief-cli/internal/adapters/driven/llm/openai"
	"github.com/pagebrief/pagebrief-cli/internal/adapters/driven/llm/openrouter"
	"github.com/pagebrief/pagebrief-cli/internal/core/domain"
	"github.com/pagebrief/pagebrief-cli/internal/core/ports/driven"
)

// CreateProvider creates the provider adapter for the resolved
// settings. Settings are expected to carry the credential already; the
// dispatcher resolves keyring lookups before calling the factory.
func CreateProvider(settings domain.ProviderSettings) (driven.Provider, error) {
	switch settings.Kind {
	case domain.ProviderOpenAI:
		return openai.New(openai.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.ProviderOpenRouter:
		return openrouter.New(openrouter.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.ProviderLMStudio:
		return lmstudio.New(lmstudio.Config{
			BaseURL: settings.BaseURL,
			APIKey:  settings.APIKey,
			Model:   settings.Model,
		})

	case domain.ProviderOllama:
		return ollama.New(ollama.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported provider kind: %s", settings.Kind)
	}
}
