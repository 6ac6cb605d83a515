package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type           string `json:"type"` // "message" or "clear"
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
	Format         string `json:"format"` // "markdown" (default) or "html"
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type           string `json:"type"` // "response", "cleared" or "error"
	ConversationID string `json:"conversation_id"`
	Intent         string `json:"intent,omitempty"`
	Content        string `json:"content"`
	HTML           string `json:"html,omitempty"`
	Stale          bool   `json:"stale,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendWSError(conn, "", "invalid message format")
			continue
		}

		switch req.Type {
		case "message":
			s.handleWSMessage(conn, r, req)
		case "clear":
			s.handleWSClear(conn, r, req)
		default:
			s.sendWSError(conn, req.ConversationID, "unknown message type: "+req.Type)
		}
	}
}

func (s *Server) handleWSMessage(conn *websocket.Conn, r *http.Request, req wsRequest) {
	if req.Content == "" {
		s.sendWSError(conn, req.ConversationID, "content is required")
		return
	}

	result, err := s.processMessage(r.Context(), req.ConversationID, req.Content)
	if err != nil {
		s.sendWSError(conn, req.ConversationID, "processing failed: "+err.Error())
		return
	}

	resp := wsResponse{
		Type:           "response",
		ConversationID: result.ConversationID,
		Intent:         result.Intent,
		Content:        result.Markdown,
		Stale:          result.Stale,
	}
	if req.Format == "html" {
		if html, err := RenderHTML(result.Markdown); err == nil {
			resp.HTML = html
		}
	}
	s.sendWS(conn, resp)
}

func (s *Server) handleWSClear(conn *websocket.Conn, r *http.Request, req wsRequest) {
	if req.ConversationID == "" {
		s.sendWSError(conn, "", "conversation_id is required")
		return
	}
	s.sessions.clear(req.ConversationID)
	if err := s.store.Delete(r.Context(), req.ConversationID); err != nil {
		s.sendWSError(conn, req.ConversationID, "clearing failed: "+err.Error())
		return
	}
	s.sendWS(conn, wsResponse{Type: "cleared", ConversationID: req.ConversationID})
}

func (s *Server) sendWS(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		s.log.Warn("websocket write failed", zap.Error(err))
	}
}

func (s *Server) sendWSError(conn *websocket.Conn, conversationID, message string) {
	s.sendWS(conn, wsResponse{
		Type:           "error",
		ConversationID: conversationID,
		Content:        message,
	})
}
