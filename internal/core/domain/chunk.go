package domain

// TextChunk is one bounded slice of the original input text. Chunks are
// produced in order by the chunker and consumed exactly once; they are
// never persisted.
type TextChunk struct {
	// Index is the zero-based position of this chunk.
	Index int

	// Total is the number of chunks produced from the input.
	Total int

	// Content is the chunk text. Paragraph and sentence separators stay
	// attached, so concatenating all chunk contents reproduces the
	// original input exactly.
	Content string
}

// ChunkSummary is the per-chunk summarisation result. Collected in
// chunk order before the merge call; never reordered by completion time.
type ChunkSummary struct {
	// Index matches the TextChunk this summary was produced from.
	Index int

	// Content is the summary text with any translation marker stripped.
	Content string
}
