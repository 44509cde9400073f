package domain

// ProviderKind identifies an LLM completion backend.
type ProviderKind string

// Available provider kinds.
const (
	// ProviderOpenAI is the hosted OpenAI API.
	ProviderOpenAI ProviderKind = "openai"

	// ProviderOpenRouter is the OpenRouter aggregator API.
	ProviderOpenRouter ProviderKind = "openrouter"

	// ProviderLMStudio is a local LM Studio inference server.
	ProviderLMStudio ProviderKind = "lmstudio"

	// ProviderOllama is a local Ollama instance.
	ProviderOllama ProviderKind = "ollama"
)

// IsValid returns true if the provider kind is recognised.
func (p ProviderKind) IsValid() bool {
	switch p {
	case ProviderOpenAI, ProviderOpenRouter, ProviderLMStudio, ProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs a bearer credential.
func (p ProviderKind) RequiresAPIKey() bool {
	return p == ProviderOpenAI || p == ProviderOpenRouter
}

// IsLocal returns true if this provider is a self-hosted server, which
// makes the endpoint URL mandatory and the model a soft requirement.
func (p ProviderKind) IsLocal() bool {
	return p == ProviderLMStudio || p == ProviderOllama
}

// String returns the string representation.
func (p ProviderKind) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p ProviderKind) Description() string {
	switch p {
	case ProviderOpenAI:
		return "OpenAI (hosted)"
	case ProviderOpenRouter:
		return "OpenRouter (aggregator)"
	case ProviderLMStudio:
		return "LM Studio (local)"
	case ProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// AllProviderKinds returns all available provider kinds.
func AllProviderKinds() []ProviderKind {
	return []ProviderKind{
		ProviderOpenAI,
		ProviderOpenRouter,
		ProviderLMStudio,
		ProviderOllama,
	}
}

// ProviderSettings holds the connection details for one provider kind.
// Loaded once per dispatch and never mutated mid-request.
type ProviderSettings struct {
	// Kind is the backend this configuration targets.
	Kind ProviderKind

	// BaseURL is the API endpoint. Required for local providers;
	// optional override for hosted ones.
	BaseURL string

	// APIKey is the bearer credential. When empty, the dispatcher
	// consults the credential keyring.
	APIKey string

	// Model is the model name. Optional for local providers.
	Model string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Mode is the active provider kind.
	Mode ProviderKind

	// Providers holds per-kind connection settings.
	Providers map[ProviderKind]ProviderSettings

	// DefaultFormat is the summary format used when a request does not
	// name one.
	DefaultFormat SummaryFormat
}

// Active returns the settings for the active provider kind.
func (s AppSettings) Active() ProviderSettings {
	p := s.Providers[s.Mode]
	p.Kind = s.Mode
	return p
}

// Default base URLs and models per provider kind.
const (
	DefaultOpenAIBaseURL     = "https://api.openai.com/v1"
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	DefaultLMStudioBaseURL   = "http://localhost:1234/v1"
	DefaultOllamaBaseURL     = "http://localhost:11434"
)

// DefaultModels returns default models for each provider kind.
func DefaultModels() map[ProviderKind]string {
	return map[ProviderKind]string{
		ProviderOpenAI:     "gpt-4o-mini",
		ProviderOpenRouter: "openai/gpt-4o-mini",
		ProviderLMStudio:   "",
		ProviderOllama:     "llama3.2",
	}
}

// DefaultAppSettings returns settings with sensible defaults.
// API keys are left unconfigured; users set them via 'pagebrief auth set'.
func DefaultAppSettings() AppSettings {
	models := DefaultModels()
	return AppSettings{
		Mode:          ProviderOpenAI,
		DefaultFormat: FormatShort,
		Providers: map[ProviderKind]ProviderSettings{
			ProviderOpenAI: {
				Kind:    ProviderOpenAI,
				BaseURL: DefaultOpenAIBaseURL,
				Model:   models[ProviderOpenAI],
			},
			ProviderOpenRouter: {
				Kind:    ProviderOpenRouter,
				BaseURL: DefaultOpenRouterBaseURL,
				Model:   models[ProviderOpenRouter],
			},
			ProviderLMStudio: {
				Kind:    ProviderLMStudio,
				BaseURL: DefaultLMStudioBaseURL,
			},
			ProviderOllama: {
				Kind:    ProviderOllama,
				BaseURL: DefaultOllamaBaseURL,
				Model:   models[ProviderOllama],
			},
		},
	}
}
