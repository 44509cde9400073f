package domain

import "time"

// SummaryRecord is a completed summary persisted to history so the
// extension can recall it without re-dispatching.
type SummaryRecord struct {
	// ID is a unique record identifier.
	ID string

	// SourceURL is the summarised page URL, when known.
	SourceURL string

	// SourceTitle is the page title, when known.
	SourceTitle string

	// Format is the summary format that was produced.
	Format SummaryFormat

	// Translated reports whether the summary was translated.
	Translated bool

	// Provider is the backend that produced the summary.
	Provider ProviderKind

	// Model is the model name used, when known.
	Model string

	// Content is the summary text.
	Content string

	// CreatedAt is when the summary was produced.
	CreatedAt time.Time
}
