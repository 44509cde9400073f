package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pagebrief/pagebrief-cli/internal/core/domain"
)

func TestBuildPrompt_Deterministic(t *testing.T) {
	a := BuildPrompt("some text", domain.FormatShort, false)
	b := BuildPrompt("some text", domain.FormatShort, false)
	assert.Equal(t, a, b)
}

func TestBuildPrompt_ContainsText(t *testing.T) {
	prompt := BuildPrompt("the quick brown fox", domain.FormatDetailed, false)
	assert.Contains(t, prompt, "the quick brown fox")
}

func TestBuildPrompt_FormatInstructions(t *testing.T) {
	tests := []struct {
		name   string
		format domain.SummaryFormat
		want   string
	}{
		{"short", domain.FormatShort, "2-3 sentences"},
		{"detailed", domain.FormatDetailed, "1-2 organised paragraphs"},
		{"key points", domain.FormatKeyPoints, "bulleted key points"},
		{"invalid falls back to detailed", domain.SummaryFormat("bogus"), "1-2 organised paragraphs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := BuildPrompt("text", tt.format, false)
			assert.Contains(t, prompt, tt.want)
		})
	}
}

func TestBuildPrompt_TranslationDirective(t *testing.T) {
	translated := BuildPrompt("text", domain.FormatShort, true)
	assert.Contains(t, translated, "Translate the summary into English")

	plain := BuildPrompt("text", domain.FormatShort, false)
	assert.Contains(t, plain, "Do not translate")
	assert.NotContains(t, plain, "Translate the summary into English")
}

func TestAnnotateChunk(t *testing.T) {
	annotated := AnnotateChunk(domain.TextChunk{Index: 1, Total: 3, Content: "middle section"})
	assert.True(t, strings.HasPrefix(annotated, "[PART 2 OF 3]"))
	assert.Contains(t, annotated, "middle section")
}

func TestBuildMergePrompt(t *testing.T) {
	parts := []domain.ChunkSummary{
		{Index: 0, Content: "first part summary"},
		{Index: 1, Content: "second part summary"},
	}
	prompt := BuildMergePrompt(parts, domain.FormatKeyPoints)

	assert.Contains(t, prompt, "first part summary")
	assert.Contains(t, prompt, "second part summary")
	assert.Contains(t, prompt, "bulleted key points")
	// Chunk order must be preserved in the merged prompt.
	assert.Less(t,
		strings.Index(prompt, "first part summary"),
		strings.Index(prompt, "second part summary"))
}
