// Package chunker splits oversized text into bounded chunks along
// paragraph and sentence boundaries.
package chunker

import (
	"strings"

	"github.com/pagebrief/pagebrief-cli/internal/core/domain"
)

// DefaultChunkSize is the default maximum number of characters per chunk.
const DefaultChunkSize = 3500

// Chunker splits text into bounded chunks. The split is lossless:
// separators stay attached to the preceding piece, so concatenating all
// chunk contents reproduces the input exactly.
type Chunker struct {
	chunkSize int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ChunkSize returns the configured maximum chunk size.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Split divides text into ordered chunks of at most the configured
// size. Paragraphs are packed greedily; a paragraph that alone exceeds
// the limit is split on sentence boundaries and packed the same way. A
// single sentence longer than the limit becomes an oversized chunk of
// its own rather than being cut mid-sentence. Empty input produces no
// chunks; non-empty input always produces at least one.
func (c *Chunker) Split(text string) []domain.TextChunk {
	if text == "" {
		return nil
	}

	pieces := make([]string, 0, len(text)/c.chunkSize+1)
	for _, par := range splitParagraphs(text) {
		if len(par) > c.chunkSize {
			pieces = append(pieces, splitSentences(par)...)
		} else {
			pieces = append(pieces, par)
		}
	}

	var contents []string
	var cur strings.Builder
	for _, piece := range pieces {
		if cur.Len() > 0 && cur.Len()+len(piece) > c.chunkSize {
			contents = append(contents, cur.String())
			cur.Reset()
		}
		cur.WriteString(piece)
	}
	if cur.Len() > 0 {
		contents = append(contents, cur.String())
	}

	chunks := make([]domain.TextChunk, len(contents))
	for i, content := range contents {
		chunks[i] = domain.TextChunk{
			Index:   i,
			Total:   len(contents),
			Content: content,
		}
	}
	return chunks
}

// splitParagraphs splits after blank-line boundaries. The newline run
// that ends a paragraph stays attached to it.
func splitParagraphs(text string) []string {
	var paragraphs []string
	start := 0
	i := 0
	for i < len(text) {
		if text[i] == '\n' && i+1 < len(text) && text[i+1] == '\n' {
			end := i
			for end < len(text) && (text[end] == '\n' || text[end] == '\r') {
				end++
			}
			paragraphs = append(paragraphs, text[start:end])
			start = end
			i = end
			continue
		}
		i++
	}
	if start < len(text) {
		paragraphs = append(paragraphs, text[start:])
	}
	return paragraphs
}

// splitSentences splits after sentence-ending punctuation followed by
// whitespace. The whitespace run stays attached to the sentence.
func splitSentences(paragraph string) []string {
	var sentences []string
	start := 0
	i := 0
	for i < len(paragraph) {
		ch := paragraph[i]
		if ch == '.' || ch == '?' || ch == '!' {
			end := i + 1
			if end < len(paragraph) && isSpace(paragraph[end]) {
				for end < len(paragraph) && isSpace(paragraph[end]) {
					end++
				}
				sentences = append(sentences, paragraph[start:end])
				start = end
				i = end
				continue
			}
		}
		i++
	}
	if start < len(paragraph) {
		sentences = append(sentences, paragraph[start:])
	}
	return sentences
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}
