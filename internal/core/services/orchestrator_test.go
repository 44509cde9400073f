package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagebrief/pagebrief-cli/internal/core/domain"
	"github.com/pagebrief/pagebrief-cli/internal/core/ports/driven"
	"github.com/pagebrief/pagebrief-cli/internal/ratelimit"
)

// fakeProvider records every Complete call and returns canned replies.
// Like the real adapters, it applies the translation marker when asked.
type fakeProvider struct {
	calls  []recordedCall
	failAt int // 1-based call number that errors; 0 means never
}

type recordedCall struct {
	prompt    string
	translate bool
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, messages []domain.ChatMessage, opts driven.CompleteOptions) (string, error) {
	prompt := messages[len(messages)-1].Content
	f.calls = append(f.calls, recordedCall{prompt: prompt, translate: opts.Translate})

	if f.failAt > 0 && len(f.calls) == f.failAt {
		return "", fmt.Errorf("fake: %w (status 500)", domain.ErrUpstream)
	}

	reply := fmt.Sprintf("summary %d", len(f.calls))
	if opts.Translate {
		reply = domain.MarkTranslated(reply)
	}
	return reply, nil
}

// repeatSentences builds n copies of a 44-byte sentence.
func repeatSentences(n int) string {
	return strings.Repeat("All work and no play makes Jack a dull boy. ", n)
}

func TestSummarize_SmallInputSingleCall(t *testing.T) {
	provider := &fakeProvider{}
	orch := NewOrchestrator()

	result, err := orch.Summarize(context.Background(), provider, domain.SummaryRequest{
		Text:   "A short paragraph.",
		Format: domain.FormatShort,
	})
	require.NoError(t, err)
	assert.Equal(t, "summary 1", result)

	require.Len(t, provider.calls, 1)
	assert.Contains(t, provider.calls[0].prompt, "A short paragraph.")
	assert.NotContains(t, provider.calls[0].prompt, "[PART")
}

func TestSummarize_ChunkedCallCount(t *testing.T) {
	// 273 sentences of 44 bytes is 12012 chars. At the default 3500-char
	// chunk size, greedy packing yields 4 chunks, so the provider must
	// see 4 chunk calls plus 1 merge call.
	provider := &fakeProvider{}
	orch := NewOrchestrator()

	_, err := orch.Summarize(context.Background(), provider, domain.SummaryRequest{
		Text:   repeatSentences(273),
		Format: domain.FormatShort,
	})
	require.NoError(t, err)
	require.Len(t, provider.calls, 5)

	for i := 0; i < 4; i++ {
		assert.Contains(t, provider.calls[i].prompt, fmt.Sprintf("[PART %d OF 4]", i+1))
	}
	assert.Contains(t, provider.calls[4].prompt, "partial summaries")
	assert.NotContains(t, provider.calls[4].prompt, "[PART")
}

func TestSummarize_ChunkCeiling(t *testing.T) {
	// 500 sentences is 22000 chars, which splits into 7 chunks. Only the
	// first 5 may be summarised, renumbered as parts of 5.
	provider := &fakeProvider{}
	orch := NewOrchestrator()

	_, err := orch.Summarize(context.Background(), provider, domain.SummaryRequest{
		Text: repeatSentences(500),
	})
	require.NoError(t, err)
	require.Len(t, provider.calls, 6)

	for i := 0; i < 5; i++ {
		assert.Contains(t, provider.calls[i].prompt, fmt.Sprintf("[PART %d OF 5]", i+1))
	}
}

func TestSummarize_SingleSurvivingChunkSkipsMerge(t *testing.T) {
	provider := &fakeProvider{}
	orch := NewOrchestrator(WithMaxChunks(1))

	result, err := orch.Summarize(context.Background(), provider, domain.SummaryRequest{
		Text: repeatSentences(200),
	})
	require.NoError(t, err)
	assert.Equal(t, "summary 1", result)

	require.Len(t, provider.calls, 1)
	assert.Contains(t, provider.calls[0].prompt, "[PART 1 OF 1]")
}

func TestSummarize_ChunkCallsForceDetailedFormat(t *testing.T) {
	provider := &fakeProvider{}
	orch := NewOrchestrator()

	_, err := orch.Summarize(context.Background(), provider, domain.SummaryRequest{
		Text:   repeatSentences(273),
		Format: domain.FormatKeyPoints,
	})
	require.NoError(t, err)
	require.Len(t, provider.calls, 5)

	// Chunk calls always use the detailed instruction; only the merge
	// call carries the caller's format.
	for i := 0; i < 4; i++ {
		assert.Contains(t, provider.calls[i].prompt, "1-2 organised paragraphs")
	}
	assert.Contains(t, provider.calls[4].prompt, "bulleted key points")
}

func TestSummarize_TranslationMarkerAppliedOnce(t *testing.T) {
	provider := &fakeProvider{}
	orch := NewOrchestrator()

	result, err := orch.Summarize(context.Background(), provider, domain.SummaryRequest{
		Text:      repeatSentences(273),
		Translate: true,
	})
	require.NoError(t, err)

	// Chunk calls translate, the merge call must not.
	require.Len(t, provider.calls, 5)
	for i := 0; i < 4; i++ {
		assert.True(t, provider.calls[i].translate, "chunk call %d should translate", i)
	}
	assert.False(t, provider.calls[4].translate, "merge call must not translate")

	// The final result carries exactly one marker.
	assert.True(t, strings.HasPrefix(result, domain.TranslationMarker))
	stripped, _ := domain.StripTranslation(result)
	assert.False(t, strings.HasPrefix(stripped, domain.TranslationMarker))
}

func TestSummarize_FailFast(t *testing.T) {
	provider := &fakeProvider{failAt: 2}
	orch := NewOrchestrator()

	_, err := orch.Summarize(context.Background(), provider, domain.SummaryRequest{
		Text: repeatSentences(273),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)

	// No further chunk or merge calls after the failure.
	assert.Len(t, provider.calls, 2)
}

func TestSummarize_InvalidFormatDefaultsToShort(t *testing.T) {
	provider := &fakeProvider{}
	orch := NewOrchestrator()

	_, err := orch.Summarize(context.Background(), provider, domain.SummaryRequest{
		Text:   "tiny",
		Format: domain.SummaryFormat("nope"),
	})
	require.NoError(t, err)
	require.Len(t, provider.calls, 1)
	assert.Contains(t, provider.calls[0].prompt, "2-3 sentences")
}

func TestSummarize_CancelledContext(t *testing.T) {
	provider := &fakeProvider{}
	orch := NewOrchestrator(WithLimiter(ratelimit.New(ratelimit.DefaultRate, ratelimit.DefaultBurst)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := orch.Summarize(ctx, provider, domain.SummaryRequest{Text: "tiny"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, provider.calls)
}
