package server

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/govlens/govchat/internal/assistant"
	"github.com/govlens/govchat/internal/history"
)

// session holds the per-conversation routing state. The mutex serializes
// sends within one conversation: a second message waits for the first
// response rather than racing it. The generation counter is bumped when
// the conversation is cleared so an in-flight response from before the
// clear is never appended to the new state.
type session struct {
	mu       sync.Mutex
	gen      atomic.Int64
	lastUsed time.Time // guarded by the registry mutex
	conv     *history.Conversation
	rctx     assistant.Context
}

// maxCachedSessions bounds the registry so long-running servers don't
// accumulate a session per conversation ID ever seen. Cached state is
// only the routing context and the loaded conversation; an evicted
// conversation reloads from the store on its next message.
const maxCachedSessions = 256

type sessionRegistry struct {
	mu       sync.Mutex
	max      int
	sessions map[string]*session
}

func newSessionRegistry(max int) *sessionRegistry {
	return &sessionRegistry{max: max, sessions: make(map[string]*session)}
}

func (r *sessionRegistry) get(id string) *session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.lastUsed = time.Now()
		return s
	}
	r.evictIdleLocked()
	s := &session{lastUsed: time.Now()}
	r.sessions[id] = s
	return s
}

// evictIdleLocked drops the least recently used sessions once the cache
// is full, skipping any with a send in flight.
func (r *sessionRegistry) evictIdleLocked() {
	for len(r.sessions) >= r.max {
		victimID := ""
		var victim *session
		for id, s := range r.sessions {
			if victim == nil || s.lastUsed.Before(victim.lastUsed) {
				victimID, victim = id, s
			}
		}
		if victim == nil || !victim.mu.TryLock() {
			// The oldest entry is mid-send; retry on a later message.
			return
		}
		victim.mu.Unlock()
		delete(r.sessions, victimID)
	}
}

// clear invalidates in-flight work for the conversation and forgets its
// cached state. Deliberately does not take the session mutex: clearing
// must not wait behind a slow backend call.
func (r *sessionRegistry) clear(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.gen.Add(1)
		delete(r.sessions, id)
	}
}

// chatResult is the outcome of routing one message within a conversation.
type chatResult struct {
	ConversationID string            `json:"conversation_id"`
	Intent         string            `json:"intent"`
	Markdown       string            `json:"markdown"`
	HTML           string            `json:"html,omitempty"`
	Stale          bool              `json:"stale,omitempty"`
	Context        assistant.Context `json:"context"`
}

const titleMaxLen = 48

func conversationTitle(text string) string {
	if len(text) <= titleMaxLen {
		return text
	}
	return text[:titleMaxLen-1] + "…"
}

// processMessage routes one user message within a conversation, appending
// both the user turn and the assistant response to stored history. When
// the conversation was cleared while the request was in flight, the
// response is returned to the caller but nothing is persisted.
func (s *Server) processMessage(ctx context.Context, convID, text string) (*chatResult, error) {
	if convID == "" {
		convID = uuid.New().String()
	}

	sess := s.sessions.get(convID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	gen := sess.gen.Load()

	if sess.conv == nil {
		stored, err := s.store.Load(ctx, convID)
		switch {
		case err == nil:
			sess.conv = stored
		case errors.Is(err, history.ErrNotFound):
			sess.conv = &history.Conversation{
				ID:        convID,
				Title:     conversationTitle(text),
				CreatedAt: time.Now().UTC(),
			}
		default:
			return nil, err
		}
	}

	resp := s.engine.Route(ctx, text, &sess.rctx)

	result := &chatResult{
		ConversationID: convID,
		Intent:         resp.Intent,
		Markdown:       resp.Markdown,
		Context:        sess.rctx,
	}

	if sess.gen.Load() != gen {
		// Cleared mid-flight: hand the text back but keep history clean.
		result.Stale = true
		result.ConversationID = ""
		return result, nil
	}

	now := time.Now().UTC()
	sess.conv.Messages = append(sess.conv.Messages,
		history.Message{ID: uuid.New().String(), Role: history.RoleUser, Content: text, Timestamp: now},
		history.Message{ID: uuid.New().String(), Role: history.RoleAssistant, Content: resp.Markdown, Timestamp: now},
	)
	if err := s.store.Save(ctx, sess.conv); err != nil {
		return nil, err
	}
	return result, nil
}
