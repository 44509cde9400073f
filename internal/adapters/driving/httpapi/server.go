// Package httpapi exposes the dispatch core over HTTP for the browser
// extension. Errors travel as data in the response body; transport
// errors are reserved for malformed requests.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/pagebrief/pagebrief-cli/internal/core/domain"
	"github.com/pagebrief/pagebrief-cli/internal/core/ports/driving"
	"github.com/pagebrief/pagebrief-cli/internal/extract"
	"github.com/pagebrief/pagebrief-cli/internal/logger"
)

// SettingsFunc returns the current settings snapshot. Serve mode swaps
// the snapshot when the config file changes; each dispatch reads it
// once and never sees a mid-request mutation.
type SettingsFunc func() domain.AppSettings

// Server routes extension requests to the dispatch service.
type Server struct {
	mux      *http.ServeMux
	dispatch driving.DispatchService
	settings SettingsFunc
	fetcher  *extract.Fetcher
}

// NewServer creates a server over the given dispatch service.
func NewServer(dispatch driving.DispatchService, settings SettingsFunc) *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		dispatch: dispatch,
		settings: settings,
		fetcher:  extract.NewFetcher(),
	}
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/api/summarize", s.handleSummarize)
	s.mux.HandleFunc("/api/chat", s.handleChat)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// The extension calls from a browser origin.
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// summarizeRequest is the extension's summarise payload. Either Text or
// URL must be set; a URL without text is fetched and extracted here.
type summarizeRequest struct {
	Text      string `json:"text"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	Format    string `json:"format"`
	Translate bool   `json:"translateToEnglish"`
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Text == "" && req.URL != "" {
		page, err := s.fetcher.Fetch(r.Context(), req.URL)
		if err != nil {
			logger.Warn("page fetch failed: %v", err)
			writeJSON(w, domain.DispatchResult{Error: "Could not fetch the page."})
			return
		}
		req.Text = page.Text
		if req.Title == "" {
			req.Title = page.Title
		}
	}

	result := s.dispatch.Summarize(r.Context(), domain.SummaryRequest{
		Text:        req.Text,
		Format:      domain.SummaryFormat(req.Format),
		Translate:   req.Translate,
		SourceURL:   req.URL,
		SourceTitle: req.Title,
	}, s.settings())

	writeJSON(w, result)
}

// chatRequest is the extension's chat payload.
type chatRequest struct {
	Text    string               `json:"text"`
	History []domain.ChatMessage `json:"history"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result := s.dispatch.Chat(r.Context(), req.Text, req.History, s.settings())
	writeJSON(w, result)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("write response: %v", err)
	}
}
