// Package openrouter provides the OpenRouter aggregator provider
// adapter. It speaks the OpenAI chat completions wire format plus two
// fixed identification headers OpenRouter uses for app attribution.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pagebrief/pagebrief-cli/internal/core/domain"
	"github.com/pagebrief/pagebrief-cli/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.Provider = (*Provider)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "openai/gpt-4o-mini"
	DefaultTimeout = 30 * time.Second
)

// Identification headers attached to every request.
const (
	RefererHeader = "https://github.com/pagebrief/pagebrief-cli"
	TitleHeader   = "pagebrief"
)

// Config holds configuration for the OpenRouter provider.
type Config struct {
	// APIKey is the OpenRouter API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://openrouter.ai/api/v1).
	BaseURL string

	// Model is the model to use (default: openai/gpt-4o-mini).
	Model string

	// Timeout is the per-request deadline (default: 30s).
	Timeout time.Duration
}

// Provider produces completions via the OpenRouter API.
type Provider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

type chatCompletionRequest struct {
	Model       string               `json:"model"`
	Messages    []domain.ChatMessage `json:"messages"`
	MaxTokens   int                  `json:"max_tokens,omitempty"`
	Temperature float64              `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// New creates an OpenRouter provider. A missing API key is a hard
// failure before any network activity.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter: %w", domain.ErrAuthRequired)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Provider{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Name returns the provider kind name.
func (p *Provider) Name() string {
	return domain.ProviderOpenRouter.String()
}

// Complete sends the messages to /chat/completions and returns the
// assistant's text.
func (p *Provider) Complete(ctx context.Context, messages []domain.ChatMessage, opts driven.CompleteOptions) (string, error) {
	reqBody := chatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("HTTP-Referer", RefererHeader)
	req.Header.Set("X-Title", TitleHeader)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openrouter: %w: %v", domain.ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openrouter: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return "", fmt.Errorf("openrouter: %w (status %d)", domain.ErrAuthInvalid, resp.StatusCode)
		case resp.StatusCode == http.StatusTooManyRequests:
			return "", fmt.Errorf("openrouter: %w: rate limited (status 429)", domain.ErrUpstream)
		default:
			return "", fmt.Errorf("openrouter: %w (status %d)", domain.ErrUpstream, resp.StatusCode)
		}
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("openrouter: %w: %v", domain.ErrBadResponse, err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("openrouter: %w: %s", domain.ErrUpstream, chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("openrouter: %w: no choices returned", domain.ErrBadResponse)
	}

	text := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if opts.Translate {
		text = domain.MarkTranslated(text)
	}
	return text, nil
}
