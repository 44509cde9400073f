// Package domain holds the core types of pagebrief: summary requests
// and results, provider configuration, text chunks, the translation
// marker, and the dispatch error taxonomy. It has no dependencies on
// adapters or infrastructure.
package domain
