package openrouter

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

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestComplete_SendsIdentificationHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// OpenRouter requires app identification on every request.
		assert.Equal(t, RefererHeader, r.Header.Get("HTTP-Referer"))
		assert.Equal(t, TitleHeader, r.Header.Get("X-Title"))
		assert.Equal(t, "Bearer sk-or-test", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "A summary."}},
			},
		})
	}))
	defer server.Close()

	p, err := New(Config{APIKey: "sk-or-test", BaseURL: server.URL})
	require.NoError(t, err)

	text, err := p.Complete(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "summarise this"},
	}, driven.CompleteOptions{})
	require.NoError(t, err)
	assert.Equal(t, "A summary.", text)
}

func TestComplete_AuthRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid key", http.StatusUnauthorized)
	}))
	defer server.Close()

	p, err := New(Config{APIKey: "sk-or-bad", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), nil, driven.CompleteOptions{})
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
}

func TestComplete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	p, err := New(Config{APIKey: "sk-or-test", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), nil, driven.CompleteOptions{})
	assert.ErrorIs(t, err, domain.ErrBadResponse)
}
