package domain

import "strings"

// TranslationMarker is the fixed literal prefix adapters prepend to a
// completion produced under a translation instruction. Downstream
// consumers detect and strip it idempotently.
const TranslationMarker = "[TRANSLATED] "

// MarkTranslated prepends the translation marker. Idempotent: text that
// already carries the marker is returned unchanged.
func MarkTranslated(text string) string {
	if strings.HasPrefix(text, TranslationMarker) {
		return text
	}
	return TranslationMarker + text
}

// StripTranslation removes the translation marker if present and
// reports whether it was found.
func StripTranslation(text string) (string, bool) {
	if strings.HasPrefix(text, TranslationMarker) {
		return strings.TrimPrefix(text, TranslationMarker), true
	}
	return text, false
}
