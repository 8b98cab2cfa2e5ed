// Package mockapi implements a minimal local stand-in for the two provider
// APIs the pipeline talks to: a SerpAPI-style search endpoint and an
// OpenAI-compatible chat-completions endpoint.
package mockapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
)

// Call records a request made to the mock service.
type Call struct {
	Method string
	Path   string
	Query  string
}

// Result is one canned organic search result.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Server serves GET /search and POST /chat/completions with canned data.
type Server struct {
	mu          sync.Mutex
	calls       []Call
	prompts     []string
	results     map[string][]Result
	completion  string
	expectedKey string
}

// New constructs a mock server with a default completion answer.
func New() *Server {
	return &Server{
		results:    make(map[string][]Result),
		completion: "Not found",
	}
}

// SetResults registers canned search results for an exact query.
func (s *Server) SetResults(query string, results []Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[query] = results
}

// SetCompletion sets the text every chat completion returns.
func (s *Server) SetCompletion(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completion = text
}

// RequireAPIKey enforces the search api_key parameter and the chat Bearer
// token. An empty key disables enforcement.
func (s *Server) RequireAPIKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expectedKey = strings.TrimSpace(key)
}

// Handler returns an http.Handler serving the mock API surface.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", s.handleSearch)
	mux.HandleFunc("/chat/completions", s.handleChat)
	return mux
}

// Calls returns a snapshot of requests made to the server.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// Prompts returns the user-message content of every chat request received.
func (s *Server) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.prompts))
	copy(out, s.prompts)
	return out
}

func (s *Server) recordCall(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.recordCall(r)
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	expected := s.expectedKey
	s.mu.Unlock()
	if expected != "" && r.URL.Query().Get("api_key") != expected {
		writeJSONError(w, http.StatusUnauthorized, "Invalid API key.")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSONError(w, http.StatusBadRequest, "Missing query `q` parameter.")
		return
	}

	s.mu.Lock()
	results := s.results[query]
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"organic_results": results,
	})
}

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	s.recordCall(r)
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	expected := s.expectedKey
	s.mu.Unlock()
	if expected != "" && r.Header.Get("Authorization") != "Bearer "+expected {
		writeJSONError(w, http.StatusUnauthorized, "Invalid API key.")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %s", err))
		return
	}

	var userContent string
	for _, m := range req.Messages {
		if m.Role == "user" {
			userContent = m.Content
		}
	}

	s.mu.Lock()
	s.prompts = append(s.prompts, userContent)
	completion := s.completion
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": completion}},
		},
	})
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
