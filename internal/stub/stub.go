// Package stub implements the bridge HTTP API without an editor behind it.
//
// It answers /health, /show-markdown and /open-markdown-file the way the
// editor extension does, records every request, and lets callers override the
// reply for any path. Tests run it under httptest; the "stub" command serves
// it on a real port so alternative UIs and MCP clients can be tried without
// the extension installed.
package stub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jpl-au/principal-md/internal/version"
)

// Request is one call the stub received.
type Request struct {
	Method    string
	Path      string
	RequestID string
	Body      json.RawMessage
}

// Response overrides the reply for a path.
type Response struct {
	Status int
	Body   string
}

// Server is an in-memory bridge. Safe for concurrent use.
type Server struct {
	router *chi.Mux

	mu        sync.Mutex
	requests  []Request
	overrides map[string]Response

	// OnRequest, when set, is called after each request is recorded.
	OnRequest func(Request)
}

// New creates a stub with the default bridge behaviour.
func New() *Server {
	s := &Server{
		router:    chi.NewRouter(),
		overrides: make(map[string]Response),
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.record)

	s.router.Get("/health", s.handleHealth)
	s.router.Post("/show-markdown", s.handleShow)
	s.router.Post("/open-markdown-file", s.handleOpen)
	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "not found"})
	})
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Respond makes every later request to path return status and the raw body.
func (s *Server) Respond(path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[path] = Response{Status: status, Body: body}
}

// Requests returns a copy of the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// record captures the request and serves any override for its path.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		req := Request{
			Method:    r.Method,
			Path:      r.URL.Path,
			RequestID: middleware.GetReqID(r.Context()),
			Body:      body,
		}

		s.mu.Lock()
		s.requests = append(s.requests, req)
		override, ok := s.overrides[r.URL.Path]
		hook := s.OnRequest
		s.mu.Unlock()

		if hook != nil {
			hook(req)
		}

		if ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(override.Status)
			_, _ = io.WriteString(w, override.Body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": version.Name + "-stub",
		"version": version.Short(),
	})
}

func (s *Server) handleShow(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content string  `json:"content"`
		Title   *string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid JSON: " + err.Error()})
		return
	}
	if body.Content == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "content is required"})
		return
	}

	msg := "Markdown content displayed"
	if body.Title != nil && *body.Title != "" {
		msg = fmt.Sprintf("Displayed %q", *body.Title)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": msg})
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FilePath   string `json:"filePath"`
		LineNumber *int   `json:"lineNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid JSON: " + err.Error()})
		return
	}
	if body.FilePath == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "filePath is required"})
		return
	}

	msg := "Opened " + body.FilePath
	if body.LineNumber != nil {
		msg = fmt.Sprintf("Opened %s at line %d", body.FilePath, *body.LineNumber)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
