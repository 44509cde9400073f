package services

import (
	"fmt"
	"strings"

	"github.com/pagebrief/pagebrief-cli/internal/core/domain"
)

// SystemPersona is the fixed system message sent with every completion.
const SystemPersona = "You are a precise summarisation assistant. " +
	"You produce faithful, well-structured summaries of webpage text and " +
	"answer follow-up questions about it."

// Translation directives. The negative directive is always present when
// translation is off, so the model never drifts into another language
// silently.
const (
	translateDirective   = "Translate the summary into English, regardless of the language of the text."
	noTranslateDirective = "Do not translate. Write the summary in the same language as the text."
)

// formatInstruction returns the structural instruction for a format.
func formatInstruction(format domain.SummaryFormat) string {
	switch format {
	case domain.FormatShort:
		return "Write a summary of at most 2-3 sentences. " +
			"Start with a title of 3-5 words on its own line."
	case domain.FormatKeyPoints:
		return "Write a one-line title, then exactly 3-5 bulleted key points. " +
			"Each bullet must be a single self-contained idea."
	case domain.FormatDetailed:
		fallthrough
	default:
		return "Write a summary of 1-2 organised paragraphs. " +
			"Start with a title line, then the paragraphs."
	}
}

// BuildPrompt composes the provider-agnostic instruction for one
// summarisation call. Pure and deterministic: identical inputs yield
// identical prompts.
func BuildPrompt(text string, format domain.SummaryFormat, translate bool) string {
	directive := noTranslateDirective
	if translate {
		directive = translateDirective
	}

	var b strings.Builder
	b.WriteString("Summarise the following text.\n")
	b.WriteString(formatInstruction(format))
	b.WriteString("\n")
	b.WriteString(directive)
	b.WriteString("\n\nText:\n")
	b.WriteString(text)
	return b.String()
}

// AnnotateChunk wraps chunk content with its position in the sequence
// so each partial summary can reference its place in the document.
func AnnotateChunk(chunk domain.TextChunk) string {
	return fmt.Sprintf("[PART %d OF %d]\n\n%s", chunk.Index+1, chunk.Total, chunk.Content)
}

// BuildMergePrompt composes the instruction that folds per-chunk
// summaries into one coherent result in the caller's requested format.
// Partial summaries are joined in chunk order, double-newline separated.
func BuildMergePrompt(parts []domain.ChunkSummary, format domain.SummaryFormat) string {
	joined := make([]string, len(parts))
	for i, part := range parts {
		joined[i] = part.Content
	}

	var b strings.Builder
	b.WriteString("The following are partial summaries of consecutive sections of one document. ")
	b.WriteString("Produce a single coherent summary covering all sections.\n")
	b.WriteString(formatInstruction(format))
	b.WriteString("\n\nPartial summaries:\n\n")
	b.WriteString(strings.Join(joined, "\n\n"))
	return b.String()
}
