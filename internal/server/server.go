// Package server exposes the conversation store and message pipeline over a
// small HTTP JSON API, and serves the embedded chat page.
package server

import (
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/chatpipe-io/chatpipe/internal/pipeline"
	"github.com/chatpipe-io/chatpipe/internal/store"
)

//go:embed web/index.html
var indexHTML []byte

type Server struct {
	store    *store.Store
	pipeline *pipeline.Pipeline
}

// New builds the HTTP handler with its middleware chain.
func New(st *store.Store, pl *pipeline.Pipeline) http.Handler {
	s := &Server{store: st, pipeline: pl}

	mux := http.NewServeMux()

	// /api/users            → POST: create user
	// /api/users/{id}       → GET: get user
	// /api/users/{id}/conversations → GET: list the user's conversations
	mux.HandleFunc("/api/users", s.handleUsers)
	mux.HandleFunc("/api/users/", s.handleUserWithID)

	// /api/conversations                → POST: create conversation
	// /api/conversations/{id}           → GET: get conversation
	// /api/conversations/{id}/messages  → GET: list messages, POST: submit a turn
	mux.HandleFunc("/api/conversations", s.handleConversations)
	mux.HandleFunc("/api/conversations/", s.handleConversationWithID)

	// chat page
	mux.HandleFunc("/", s.handleIndex)

	return chainMiddlewares(mux, withCORS, withLogging, withRequestID)
}

type createUserRequest struct {
	Name string `json:"name"`
}

type createConversationRequest struct {
	UserID string `json:"userId"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		badRequest(w, "name is required")
		return
	}

	writeJSON(w, http.StatusCreated, s.store.CreateUser(req.Name))
}

func (s *Server) handleUserWithID(w http.ResponseWriter, r *http.Request) {
	id, rest, ok := splitIDPath(r.URL.Path, "/api/users/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	switch rest {
	case "":
		user, found := s.store.GetUser(id)
		if !found {
			notFound(w, "user not found")
			return
		}
		writeJSON(w, http.StatusOK, user)
	case "conversations":
		writeJSON(w, http.StatusOK, s.store.GetUserConversations(id))
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleConversations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req createConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.UserID == "" {
		badRequest(w, "userId is required")
		return
	}

	writeJSON(w, http.StatusCreated, s.store.CreateConversation(req.UserID))
}

func (s *Server) handleConversationWithID(w http.ResponseWriter, r *http.Request) {
	id, rest, ok := splitIDPath(r.URL.Path, "/api/conversations/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch rest {
	case "":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		conv, found := s.store.GetConversation(id)
		if !found {
			notFound(w, "conversation not found")
			return
		}
		writeJSON(w, http.StatusOK, conv)
	case "messages":
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, s.store.GetMessages(id))
		case http.MethodPost:
			s.handleSubmit(w, r, id)
		default:
			methodNotAllowed(w)
		}
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, conversationID string) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		badRequest(w, "text is required")
		return
	}

	reply, err := s.pipeline.Submit(r.Context(), conversationID, req.Text)
	if err != nil {
		if errors.Is(err, store.ErrConversationNotFound) {
			notFound(w, "conversation not found")
			return
		}
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// splitIDPath strips the prefix and returns the identifier and the remaining
// path segment, if any.
func splitIDPath(path, prefix string) (id, rest string, ok bool) {
	trimmed := strings.TrimPrefix(path, prefix)
	if trimmed == "" || trimmed == path {
		return "", "", false
	}
	parts := strings.SplitN(trimmed, "/", 2)
	id = parts[0]
	if id == "" {
		return "", "", false
	}
	if len(parts) == 2 {
		rest = parts[1]
	}
	return id, rest, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func notFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": msg})
}

func internalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}
