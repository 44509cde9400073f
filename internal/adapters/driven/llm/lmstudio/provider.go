// Package lmstudio provides the LM Studio local-server provider
// adapter. It speaks the OpenAI-compatible chat completions format;
// older server builds only expose the legacy text completions endpoint,
// so a 400 or 404 from the chat endpoint triggers exactly one retry
// against /completions with a flattened transcript.
package lmstudio

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
	"github.com/pagebrief/pagebrief-cli/internal/logger"
)

// Ensure Provider implements the interface.
var _ driven.Provider = (*Provider)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:1234/v1"
	DefaultTimeout = 30 * time.Second
)

// fallbackStatuses are the only chat-endpoint statuses that trigger the
// legacy completions fallback. Anything else propagates as a failure.
var fallbackStatuses = map[int]struct{}{
	http.StatusBadRequest: {},
	http.StatusNotFound:   {},
}

// Config holds configuration for the LM Studio provider.
type Config struct {
	// BaseURL is the server base URL (default: http://localhost:1234/v1).
	BaseURL string

	// APIKey is an optional bearer credential; most local servers
	// ignore it.
	APIKey string

	// Model is the model to use. Empty lets the server pick its
	// loaded model.
	Model string

	// Timeout is the per-request deadline (default: 30s).
	Timeout time.Duration
}

// Provider produces completions via a local LM Studio server.
type Provider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

type chatCompletionRequest struct {
	Model       string               `json:"model,omitempty"`
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
}

// legacyCompletionRequest is the legacy /completions request format.
type legacyCompletionRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	Model       string  `json:"model,omitempty"`
	Stream      bool    `json:"stream"`
}

// legacyCompletionResponse is the legacy /completions response format.
type legacyCompletionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}

// New creates an LM Studio provider.
func New(cfg Config) (*Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
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
	return domain.ProviderLMStudio.String()
}

// Complete sends the messages to /chat/completions, falling back to the
// legacy /completions endpoint on a 400 or 404.
func (p *Provider) Complete(ctx context.Context, messages []domain.ChatMessage, opts driven.CompleteOptions) (string, error) {
	text, status, err := p.chatCompletion(ctx, messages, opts)
	if err != nil {
		if _, retry := fallbackStatuses[status]; !retry {
			return "", err
		}
		logger.Debug("lmstudio: chat endpoint returned %d, retrying legacy completions", status)
		text, err = p.legacyCompletion(ctx, messages, opts)
		if err != nil {
			return "", err
		}
	}

	if opts.Translate {
		text = domain.MarkTranslated(text)
	}
	return text, nil
}

// chatCompletion runs the primary chat-completions call. The returned
// status is non-zero for HTTP-level failures so the caller can decide
// whether the legacy fallback applies.
func (p *Provider) chatCompletion(ctx context.Context, messages []domain.ChatMessage, opts driven.CompleteOptions) (string, int, error) {
	reqBody := chatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}

	body, status, err := p.post(ctx, "/chat/completions", reqBody)
	if err != nil {
		return "", status, err
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", 0, fmt.Errorf("lmstudio: %w: %v", domain.ErrBadResponse, err)
	}
	if len(chatResp.Choices) == 0 {
		return "", 0, fmt.Errorf("lmstudio: %w: no choices returned", domain.ErrBadResponse)
	}
	return strings.TrimSpace(chatResp.Choices[0].Message.Content), 0, nil
}

// legacyCompletion retries against the legacy /completions endpoint
// with the transcript flattened into a single prompt.
func (p *Provider) legacyCompletion(ctx context.Context, messages []domain.ChatMessage, opts driven.CompleteOptions) (string, error) {
	reqBody := legacyCompletionRequest{
		Prompt:      flattenTranscript(messages),
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		Model:       p.model,
		Stream:      false,
	}

	body, _, err := p.post(ctx, "/completions", reqBody)
	if err != nil {
		return "", err
	}

	var legacyResp legacyCompletionResponse
	if err := json.Unmarshal(body, &legacyResp); err != nil {
		return "", fmt.Errorf("lmstudio: %w: %v", domain.ErrBadResponse, err)
	}
	if len(legacyResp.Choices) == 0 {
		return "", fmt.Errorf("lmstudio: %w: no choices returned", domain.ErrBadResponse)
	}
	return strings.TrimSpace(legacyResp.Choices[0].Text), nil
}

// post issues one JSON POST and returns the body for 200 responses, or
// the status code and a classified error otherwise.
func (p *Provider) post(ctx context.Context, path string, payload any) ([]byte, int, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.baseURL+path,
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("lmstudio: %w: %v", domain.ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("lmstudio: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, resp.StatusCode, fmt.Errorf("lmstudio: %w (status %d)", domain.ErrAuthInvalid, resp.StatusCode)
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, resp.StatusCode, fmt.Errorf("lmstudio: %w: rate limited (status 429)", domain.ErrUpstream)
		default:
			return nil, resp.StatusCode, fmt.Errorf("lmstudio: %w (status %d)", domain.ErrUpstream, resp.StatusCode)
		}
	}
	return body, resp.StatusCode, nil
}

// flattenTranscript folds the role/content history into one text blob
// for single-prompt endpoints, ending with an assistant cue.
func flattenTranscript(messages []domain.ChatMessage) string {
	var b strings.Builder
	for _, msg := range messages {
		switch msg.Role {
		case domain.RoleUser:
			b.WriteString("User: ")
			b.WriteString(msg.Content)
		case domain.RoleAssistant:
			b.WriteString("Assistant: ")
			b.WriteString(msg.Content)
		default:
			b.WriteString(msg.Content)
		}
		b.WriteString("\n\n")
	}
	b.WriteString("Assistant:")
	return b.String()
}
