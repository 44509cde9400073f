// Package ollama provides the Ollama local-server provider adapter.
// Response schemas vary across server versions: newer builds answer
// /api/chat with {message:{content}}, older ones with a flat
// {response}. Both are accepted, and a failed chat call is retried once
// against the legacy /api/generate endpoint.
package ollama

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
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the Ollama provider.
type Config struct {
	// BaseURL is the Ollama base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the model to use (default: llama3.2).
	Model string

	// Timeout is the per-request deadline (default: 30s).
	Timeout time.Duration
}

// Provider produces completions via a local Ollama instance. Ollama
// takes no credential.
type Provider struct {
	client  *http.Client
	baseURL string
	model   string
}

// options holds generation parameters.
type options struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// chatRequest is the /api/chat request format.
type chatRequest struct {
	Model    string               `json:"model"`
	Messages []domain.ChatMessage `json:"messages"`
	Options  *options             `json:"options,omitempty"`
	Stream   bool                 `json:"stream"`
}

// chatResponse covers both /api/chat schemas: the current
// {message:{content}} shape and the flat {response} shape older
// servers return.
type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Response string `json:"response"`
}

// generateRequest is the legacy /api/generate request format.
type generateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Options *options `json:"options,omitempty"`
	Stream  bool     `json:"stream"`
}

// generateResponse is the legacy /api/generate response format.
type generateResponse struct {
	Response string `json:"response"`
}

// New creates an Ollama provider.
func New(cfg Config) *Provider {
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
		model:   cfg.Model,
	}
}

// Name returns the provider kind name.
func (p *Provider) Name() string {
	return domain.ProviderOllama.String()
}

// Complete sends the messages to /api/chat, retrying once against the
// legacy /api/generate endpoint when the chat call fails at the HTTP
// level.
func (p *Provider) Complete(ctx context.Context, messages []domain.ChatMessage, opts driven.CompleteOptions) (string, error) {
	text, recoverable, err := p.chat(ctx, messages, opts)
	if err != nil {
		if !recoverable {
			return "", err
		}
		logger.Debug("ollama: chat endpoint failed, retrying legacy generate: %v", err)
		text, err = p.generate(ctx, messages, opts)
		if err != nil {
			return "", err
		}
	}

	if opts.Translate {
		text = domain.MarkTranslated(text)
	}
	return text, nil
}

// chat runs the /api/chat call. recoverable reports whether the legacy
// generate fallback applies (HTTP-level rejection, not a network or
// parse failure).
func (p *Provider) chat(ctx context.Context, messages []domain.ChatMessage, opts driven.CompleteOptions) (string, bool, error) {
	reqBody := chatRequest{
		Model:    p.model,
		Messages: messages,
		Stream:   false,
	}
	if opts.MaxTokens > 0 || opts.Temperature > 0 {
		reqBody.Options = &options{
			NumPredict:  opts.MaxTokens,
			Temperature: opts.Temperature,
		}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", false, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.baseURL+"/api/chat",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("ollama: %w: %v", domain.ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, fmt.Errorf("ollama: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", true, fmt.Errorf("ollama: %w (status %d)", domain.ErrUpstream, resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", false, fmt.Errorf("ollama: %w: %v", domain.ErrBadResponse, err)
	}

	// Current servers answer with message.content, older ones with a
	// flat response field.
	text := chatResp.Message.Content
	if text == "" {
		text = chatResp.Response
	}
	if text == "" {
		return "", false, fmt.Errorf("ollama: %w: empty completion", domain.ErrBadResponse)
	}
	return strings.TrimSpace(text), false, nil
}

// generate retries via the legacy /api/generate endpoint with the
// transcript flattened into a single prompt.
func (p *Provider) generate(ctx context.Context, messages []domain.ChatMessage, opts driven.CompleteOptions) (string, error) {
	reqBody := generateRequest{
		Model:  p.model,
		Prompt: flattenTranscript(messages),
		Stream: false,
	}
	if opts.MaxTokens > 0 || opts.Temperature > 0 {
		reqBody.Options = &options{
			NumPredict:  opts.MaxTokens,
			Temperature: opts.Temperature,
		}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.baseURL+"/api/generate",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama: %w: %v", domain.ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ollama: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama: %w (status %d)", domain.ErrUpstream, resp.StatusCode)
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("ollama: %w: %v", domain.ErrBadResponse, err)
	}
	if genResp.Response == "" {
		return "", fmt.Errorf("ollama: %w: empty completion", domain.ErrBadResponse)
	}
	return strings.TrimSpace(genResp.Response), nil
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
