package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pagebrief/pagebrief-cli/internal/core/domain"
	"github.com/pagebrief/pagebrief-cli/internal/core/ports/driven"
	"github.com/pagebrief/pagebrief-cli/internal/core/ports/driving"
	"github.com/pagebrief/pagebrief-cli/internal/logger"
)

// Ensure Dispatcher implements the interface.
var _ driving.DispatchService = (*Dispatcher)(nil)

// ProviderFactory builds a provider adapter from resolved settings.
type ProviderFactory func(settings domain.ProviderSettings) (driven.Provider, error)

// maxInlineErrorDetail bounds how much upstream detail is surfaced to
// the user. Longer provider error bodies are dropped.
const maxInlineErrorDetail = 160

// Dispatcher is the single boundary between callers and the dispatch
// pipeline. It validates configuration per provider kind, resolves
// credentials through the keyring, routes through the orchestrator, and
// converts every internal error into a user-facing message.
type Dispatcher struct {
	factory      ProviderFactory
	orchestrator *Orchestrator
	keyring      driving.KeyringService
	history      driven.SummaryStore
}

// DispatcherOption configures the dispatcher.
type DispatcherOption func(*Dispatcher)

// WithKeyring sets the credential keyring consulted when settings carry
// no API key.
func WithKeyring(k driving.KeyringService) DispatcherOption {
	return func(d *Dispatcher) {
		d.keyring = k
	}
}

// WithHistory sets the store that receives completed summaries.
// Persistence is best-effort; a store failure never fails a dispatch.
func WithHistory(s driven.SummaryStore) DispatcherOption {
	return func(d *Dispatcher) {
		d.history = s
	}
}

// NewDispatcher creates a dispatcher using the given provider factory
// and orchestrator.
func NewDispatcher(factory ProviderFactory, orchestrator *Orchestrator, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		factory:      factory,
		orchestrator: orchestrator,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Summarize runs one summarise dispatch end to end.
func (d *Dispatcher) Summarize(ctx context.Context, req domain.SummaryRequest, settings domain.AppSettings) domain.DispatchResult {
	requestID := shortID()
	logger.Debug("dispatch %s: summarise %d chars via %s", requestID, len(req.Text), settings.Mode)

	if req.Text == "" {
		return domain.DispatchResult{Error: "Nothing to summarise: the page text is empty."}
	}
	if !req.Format.IsValid() {
		req.Format = settings.DefaultFormat
		if !req.Format.IsValid() {
			req.Format = domain.FormatShort
		}
	}

	provider, resolved, err := d.buildProvider(ctx, settings)
	if err != nil {
		logger.Debug("dispatch %s: %v", requestID, err)
		return domain.DispatchResult{Error: userMessage(err, settings.Mode)}
	}

	summary, err := d.orchestrator.Summarize(ctx, provider, req)
	if err != nil {
		logger.Debug("dispatch %s: %v", requestID, err)
		return domain.DispatchResult{Error: userMessage(err, settings.Mode)}
	}

	d.saveRecord(ctx, req, resolved, summary)
	logger.Debug("dispatch %s: done (%d chars)", requestID, len(summary))
	return domain.DispatchResult{Summary: summary}
}

// Chat runs one chat dispatch. History is passed through as-is; chat
// input is never chunked.
func (d *Dispatcher) Chat(ctx context.Context, message string, history []domain.ChatMessage, settings domain.AppSettings) domain.DispatchResult {
	requestID := shortID()
	logger.Debug("dispatch %s: chat via %s", requestID, settings.Mode)

	if message == "" {
		return domain.DispatchResult{Error: "Nothing to send: the message is empty."}
	}

	provider, _, err := d.buildProvider(ctx, settings)
	if err != nil {
		logger.Debug("dispatch %s: %v", requestID, err)
		return domain.DispatchResult{Error: userMessage(err, settings.Mode)}
	}

	messages := make([]domain.ChatMessage, 0, len(history)+2)
	messages = append(messages, domain.ChatMessage{Role: domain.RoleSystem, Content: SystemPersona})
	messages = append(messages, history...)
	messages = append(messages, domain.ChatMessage{Role: domain.RoleUser, Content: message})

	reply, err := provider.Complete(ctx, messages, driven.CompleteOptions{
		MaxTokens:   completionMaxTokens,
		Temperature: completionTemperature,
	})
	if err != nil {
		logger.Debug("dispatch %s: %v", requestID, err)
		return domain.DispatchResult{Error: userMessage(err, settings.Mode)}
	}
	return domain.DispatchResult{Reply: reply}
}

// buildProvider validates settings for the active kind, resolves the
// credential, and constructs the adapter. All validation happens before
// any network activity.
func (d *Dispatcher) buildProvider(ctx context.Context, settings domain.AppSettings) (driven.Provider, domain.ProviderSettings, error) {
	resolved := settings.Active()

	if !resolved.Kind.IsValid() {
		return nil, resolved, fmt.Errorf("%w: unknown provider kind %q",
			domain.ErrConfigInvalid, settings.Mode)
	}

	if resolved.Kind.RequiresAPIKey() && resolved.APIKey == "" {
		if d.keyring != nil {
			key, err := d.keyring.GetKey(ctx, resolved.Kind.String())
			if err != nil {
				return nil, resolved, fmt.Errorf("%w: %v", domain.ErrConfigInvalid, err)
			}
			resolved.APIKey = key
		}
		if resolved.APIKey == "" {
			return nil, resolved, fmt.Errorf("%w for %s", domain.ErrAuthRequired, resolved.Kind)
		}
	}

	if resolved.Kind.IsLocal() {
		if resolved.BaseURL == "" {
			return nil, resolved, fmt.Errorf("%w: no endpoint URL configured for %s",
				domain.ErrConfigInvalid, resolved.Kind)
		}
		if resolved.Model == "" {
			logger.Warn("no model configured for %s; the server's default model will be used", resolved.Kind)
		}
	}

	provider, err := d.factory(resolved)
	if err != nil {
		return nil, resolved, fmt.Errorf("%w: %v", domain.ErrConfigInvalid, err)
	}
	return provider, resolved, nil
}

// saveRecord persists a completed summary. Failures are logged, never
// surfaced: history is a convenience, not part of the dispatch contract.
func (d *Dispatcher) saveRecord(ctx context.Context, req domain.SummaryRequest, resolved domain.ProviderSettings, summary string) {
	if d.history == nil {
		return
	}

	content, translated := domain.StripTranslation(summary)
	rec := domain.SummaryRecord{
		ID:          uuid.New().String(),
		SourceURL:   req.SourceURL,
		SourceTitle: req.SourceTitle,
		Format:      req.Format,
		Translated:  translated,
		Provider:    resolved.Kind,
		Model:       resolved.Model,
		Content:     content,
		CreatedAt:   time.Now().UTC(),
	}
	if err := d.history.Save(ctx, rec); err != nil {
		logger.Warn("could not save summary to history: %v", err)
	}
}

// userMessage maps an internal error to the message shown to the user.
// Raw provider detail is included only when short enough to be useful.
func userMessage(err error, kind domain.ProviderKind) string {
	switch {
	case errors.Is(err, domain.ErrAuthRequired):
		return fmt.Sprintf("No API key configured for %s. Run 'pagebrief auth set %s' to add one.",
			kind, kind)
	case errors.Is(err, domain.ErrAuthInvalid):
		return fmt.Sprintf("%s rejected the API key. Check the key with 'pagebrief auth set %s'.",
			kind.Description(), kind)
	case errors.Is(err, domain.ErrProviderUnreachable):
		return fmt.Sprintf("Could not reach %s. Check that the server is running and the endpoint URL is correct.",
			kind.Description())
	case errors.Is(err, domain.ErrBadResponse):
		return fmt.Sprintf("%s returned a response in an unexpected format.", kind.Description())
	case errors.Is(err, domain.ErrUpstream):
		return withDetail(fmt.Sprintf("%s returned an error.", kind.Description()), err)
	case errors.Is(err, domain.ErrConfigInvalid):
		return withDetail("The provider configuration is incomplete.", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "The request timed out or was cancelled."
	default:
		return withDetail("The request failed.", err)
	}
}

func withDetail(msg string, err error) string {
	detail := err.Error()
	if len(detail) > 0 && len(detail) <= maxInlineErrorDetail {
		return msg + " (" + detail + ")"
	}
	return msg
}

func shortID() string {
	return uuid.New().String()[:8]
}
