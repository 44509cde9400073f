package domain

const unknownDescription = "Unknown"

// SummaryFormat selects the structure of a requested summary.
type SummaryFormat string

// Available summary formats.
const (
	// FormatShort is a 2-3 sentence summary with a short title.
	FormatShort SummaryFormat = "short"

	// FormatDetailed is a 1-2 paragraph summary with a title line.
	FormatDetailed SummaryFormat = "detailed"

	// FormatKeyPoints is a 3-5 bullet summary with a one-line title.
	FormatKeyPoints SummaryFormat = "key-points"
)

// IsValid returns true if the format is recognised.
func (f SummaryFormat) IsValid() bool {
	switch f {
	case FormatShort, FormatDetailed, FormatKeyPoints:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f SummaryFormat) String() string {
	return string(f)
}

// Description returns a human-readable description of the format.
func (f SummaryFormat) Description() string {
	switch f {
	case FormatShort:
		return "Short (2-3 sentences)"
	case FormatDetailed:
		return "Detailed (1-2 paragraphs)"
	case FormatKeyPoints:
		return "Key Points (3-5 bullets)"
	default:
		return unknownDescription
	}
}

// AllSummaryFormats returns all available summary formats.
func AllSummaryFormats() []SummaryFormat {
	return []SummaryFormat{FormatShort, FormatDetailed, FormatKeyPoints}
}

// SummaryRequest is one summarisation job as handed over by a caller
// (CLI command or HTTP handler). Immutable once constructed.
type SummaryRequest struct {
	// Text is the raw page text to summarise.
	Text string

	// Format selects the summary structure. Defaults to FormatShort
	// when unset.
	Format SummaryFormat

	// Translate requests the summary be translated into English.
	Translate bool

	// SourceURL is the page the text came from, when known. Used only
	// for history records.
	SourceURL string

	// SourceTitle is the page title, when known.
	SourceTitle string
}

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`
}

// DispatchResult is the single user-facing outcome of a dispatch.
// Exactly one of Summary, Reply, or Error is set.
type DispatchResult struct {
	// Summary is the summarised text, for summarise dispatches.
	Summary string `json:"summary,omitempty"`

	// Reply is the assistant reply, for chat dispatches.
	Reply string `json:"reply,omitempty"`

	// Error is a user-facing failure message. Internal error types
	// never cross this boundary.
	Error string `json:"error,omitempty"`
}
