package services

import (
	"context"

	"github.com/pagebrief/pagebrief-cli/internal/chunker"
	"github.com/pagebrief/pagebrief-cli/internal/core/domain"
	"github.com/pagebrief/pagebrief-cli/internal/core/ports/driven"
	"github.com/pagebrief/pagebrief-cli/internal/logger"
	"github.com/pagebrief/pagebrief-cli/internal/ratelimit"
)

// DefaultMaxChunks is the ceiling on how many chunks are sent to a
// provider for one dispatch. Excess chunks are dropped with a warning;
// this bounds cost and latency, it is not a correctness guarantee.
const DefaultMaxChunks = 5

// Completion tuning shared by all orchestrated calls.
const (
	completionMaxTokens   = 1024
	completionTemperature = 0.3
)

// Orchestrator makes a summarisation request of arbitrary size look
// like a single completion call. Oversized input is chunked, each chunk
// summarised sequentially in chunk order, and the partial summaries
// merged with one final call.
type Orchestrator struct {
	chunker   *chunker.Chunker
	maxChunks int
	limiter   *ratelimit.Limiter
}

// OrchestratorOption configures the orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithChunker sets the chunker used to split oversized input.
func WithChunker(c *chunker.Chunker) OrchestratorOption {
	return func(o *Orchestrator) {
		if c != nil {
			o.chunker = c
		}
	}
}

// WithMaxChunks sets the ceiling on chunks sent per dispatch.
func WithMaxChunks(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxChunks = n
		}
	}
}

// WithLimiter sets the pacer applied before every provider call.
func WithLimiter(l *ratelimit.Limiter) OrchestratorOption {
	return func(o *Orchestrator) {
		o.limiter = l
	}
}

// NewOrchestrator creates an orchestrator with the given options.
func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		chunker:   chunker.New(),
		maxChunks: DefaultMaxChunks,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Summarize runs one summarisation against the provider. Input at or
// under the chunk threshold is delegated directly, so the chunking path
// is transparent to callers. Any provider failure aborts the whole
// orchestration; there is no partial-result degradation.
func (o *Orchestrator) Summarize(ctx context.Context, provider driven.Provider, req domain.SummaryRequest) (string, error) {
	format := req.Format
	if !format.IsValid() {
		format = domain.FormatShort
	}

	if len(req.Text) <= o.chunker.ChunkSize() {
		prompt := BuildPrompt(req.Text, format, req.Translate)
		return o.complete(ctx, provider, prompt, req.Translate)
	}

	chunks := o.chunker.Split(req.Text)
	if len(chunks) > o.maxChunks {
		logger.Warn("input produced %d chunks; summarising only the first %d",
			len(chunks), o.maxChunks)
		chunks = chunks[:o.maxChunks]
		for i := range chunks {
			chunks[i].Total = o.maxChunks
		}
	}
	logger.Debug("orchestrating %d chunk calls via %s", len(chunks), provider.Name())

	// Per-chunk calls always request the detailed format so the merge
	// step has maximal information to work from, whatever the caller
	// asked for.
	summaries := make([]domain.ChunkSummary, 0, len(chunks))
	for _, chunk := range chunks {
		prompt := BuildPrompt(AnnotateChunk(chunk), domain.FormatDetailed, req.Translate)
		partial, err := o.complete(ctx, provider, prompt, req.Translate)
		if err != nil {
			return "", err
		}
		content, _ := domain.StripTranslation(partial)
		summaries = append(summaries, domain.ChunkSummary{
			Index:   chunk.Index,
			Content: content,
		})
	}

	// A single surviving chunk needs no merge call.
	if len(summaries) == 1 {
		result := summaries[0].Content
		if req.Translate {
			result = domain.MarkTranslated(result)
		}
		return result, nil
	}

	// Translation happened per chunk; the merge call must not translate
	// again. The marker is re-applied once to the final result.
	mergePrompt := BuildMergePrompt(summaries, format)
	merged, err := o.complete(ctx, provider, mergePrompt, false)
	if err != nil {
		return "", err
	}
	if req.Translate {
		merged = domain.MarkTranslated(merged)
	}
	return merged, nil
}

// complete issues one paced provider call with the standard persona.
func (o *Orchestrator) complete(ctx context.Context, provider driven.Provider, prompt string, translate bool) (string, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return "", err
	}

	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: SystemPersona},
		{Role: domain.RoleUser, Content: prompt},
	}
	return provider.Complete(ctx, messages, driven.CompleteOptions{
		MaxTokens:   completionMaxTokens,
		Temperature: completionTemperature,
		Translate:   translate,
	})
}
