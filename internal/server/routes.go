package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/govlens/govchat/internal/history"
)

type chatRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
	Format         string `json:"format"` // "markdown" (default) or "html"
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, `{"error":"message is required"}`, http.StatusBadRequest)
		return
	}

	result, err := s.processMessage(r.Context(), req.ConversationID, req.Message)
	if err != nil {
		s.log.Error("chat processing failed", zap.Error(err))
		http.Error(w, `{"error":"processing failed"}`, http.StatusInternalServerError)
		return
	}

	if req.Format == "html" {
		html, err := RenderHTML(result.Markdown)
		if err != nil {
			s.log.Warn("markdown rendering failed", zap.Error(err))
		} else {
			result.HTML = html
		}
	}

	writeJSON(w, result)
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List(r.Context())
	if err != nil {
		s.log.Error("listing conversations failed", zap.Error(err))
		http.Error(w, `{"error":"listing failed"}`, http.StatusInternalServerError)
		return
	}
	if summaries == nil {
		summaries = []history.Summary{}
	}
	writeJSON(w, map[string]any{"conversations": summaries})
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	conv, err := s.store.Load(r.Context(), id)
	if errors.Is(err, history.ErrNotFound) {
		http.Error(w, `{"error":"conversation not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("loading conversation failed", zap.Error(err))
		http.Error(w, `{"error":"loading failed"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, conv)
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// Invalidate in-flight work first so a slow response can't re-append.
	s.sessions.clear(id)

	if err := s.store.Delete(r.Context(), id); err != nil {
		s.log.Error("deleting conversation failed", zap.Error(err))
		http.Error(w, `{"error":"deleting failed"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
