package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagebrief/pagebrief-cli/internal/core/domain"
	"github.com/pagebrief/pagebrief-cli/internal/core/ports/driven"
)

func TestComplete_MessageContentSchema(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		// Ollama takes no credential.
		assert.Empty(t, r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)

		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"content": "A summary."},
		})
	}))
	defer server.Close()

	p := New(Config{BaseURL: server.URL})
	text, err := p.Complete(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "summarise this"},
	}, driven.CompleteOptions{})
	require.NoError(t, err)
	assert.Equal(t, "A summary.", text)
}

func TestComplete_FlatResponseSchema(t *testing.T) {
	// Older servers answer /api/chat with a flat response field. Both
	// schemas must yield the same result.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"response": "A summary."})
	}))
	defer server.Close()

	p := New(Config{BaseURL: server.URL})
	text, err := p.Complete(context.Background(), nil, driven.CompleteOptions{})
	require.NoError(t, err)
	assert.Equal(t, "A summary.", text)
}

func TestComplete_GenerateFallback(t *testing.T) {
	var chatCalls, generateCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/chat":
			chatCalls++
			http.NotFound(w, r)
		case "/api/generate":
			generateCalls++
			var req generateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Contains(t, req.Prompt, "User: summarise this")
			assert.Contains(t, req.Prompt, "Assistant:")

			json.NewEncoder(w).Encode(map[string]string{"response": "A generated summary."})
		}
	}))
	defer server.Close()

	p := New(Config{BaseURL: server.URL})
	text, err := p.Complete(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "summarise this"},
	}, driven.CompleteOptions{})
	require.NoError(t, err)
	assert.Equal(t, "A generated summary.", text)
	assert.Equal(t, 1, chatCalls)
	assert.Equal(t, 1, generateCalls)
}

func TestComplete_NoFallbackOnParseFailure(t *testing.T) {
	var generateCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/generate" {
			generateCalls++
		}
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	p := New(Config{BaseURL: server.URL})
	_, err := p.Complete(context.Background(), nil, driven.CompleteOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBadResponse)
	assert.Zero(t, generateCalls, "a parse failure must not trigger the generate fallback")
}

func TestComplete_OptionsOnlyWhenSet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, hasOptions := raw["options"]
		assert.False(t, hasOptions, "zero options must be omitted")

		json.NewEncoder(w).Encode(map[string]string{"response": "ok"})
	}))
	defer server.Close()

	p := New(Config{BaseURL: server.URL})
	_, err := p.Complete(context.Background(), nil, driven.CompleteOptions{})
	require.NoError(t, err)
}

func TestComplete_TranslateMarksResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"response": "Translated."})
	}))
	defer server.Close()

	p := New(Config{BaseURL: server.URL})
	text, err := p.Complete(context.Background(), nil, driven.CompleteOptions{Translate: true})
	require.NoError(t, err)
	assert.Equal(t, domain.TranslationMarker+"Translated.", text)
}
