package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/govlens/govchat/internal/assistant"
	"github.com/govlens/govchat/internal/govapi"
	"github.com/govlens/govchat/internal/history"
)

// stubBackend satisfies assistant.Backend with canned data. QualityMetrics
// optionally blocks on a channel so tests can hold a request in flight.
type stubBackend struct {
	assets       []govapi.Asset
	qualityGate  chan struct{}
	qualityCalls atomic.Int32
}

func (b *stubBackend) SearchAssets(ctx context.Context, term, assetType string, limit int) ([]govapi.Asset, int, error) {
	return b.assets, len(b.assets), nil
}

func (b *stubBackend) AssetColumns(ctx context.Context, assetID string) ([]govapi.Column, error) {
	return nil, nil
}

func (b *stubBackend) PIIPatterns(ctx context.Context) ([]govapi.PIIFinding, error) {
	return nil, nil
}

func (b *stubBackend) QualityMetrics(ctx context.Context) (*govapi.QualityMetrics, error) {
	b.qualityCalls.Add(1)
	if b.qualityGate != nil {
		<-b.qualityGate
	}
	return &govapi.QualityMetrics{OverallScore: 91, Completeness: 90, Accuracy: 92}, nil
}

func (b *stubBackend) QualitySummary(ctx context.Context) (*govapi.QualitySummary, error) {
	return nil, &govapi.APIError{Endpoint: "/api/quality/summary", StatusCode: 404, Err: errors.New("not found")}
}

func (b *stubBackend) PipelineStats(ctx context.Context) (*govapi.PipelineStats, error) {
	return &govapi.PipelineStats{Active: 4, Completed: 49, Failed: 1}, nil
}

func (b *stubBackend) CatalogStats(ctx context.Context) (*govapi.CatalogStats, error) {
	return &govapi.CatalogStats{Total: 12, Tables: 10, Views: 2}, nil
}

func (b *stubBackend) DataSources(ctx context.Context) ([]govapi.DataSource, error) {
	return nil, nil
}

func newTestServer(t *testing.T, backend assistant.Backend) (*Server, history.Store) {
	t.Helper()
	store := history.NewMemoryStore(10)
	engine := assistant.NewEngine(backend, assistant.WithRandSeed(1))
	return New(Config{Port: 0}, engine, store, nil), store
}

func postChat(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestChatCreatesAndPersistsConversation(t *testing.T) {
	srv, store := newTestServer(t, &stubBackend{})

	w := postChat(t, srv, `{"message":"hello"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result chatResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.ConversationID == "" {
		t.Error("expected a generated conversation id")
	}
	if result.Intent != assistant.IntentGreeting {
		t.Errorf("intent = %q, want greeting", result.Intent)
	}
	if result.Markdown == "" {
		t.Error("expected a non-empty response")
	}

	conv, err := store.Load(context.Background(), result.ConversationID)
	if err != nil {
		t.Fatal(err)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("expected user + assistant turns, got %d messages", len(conv.Messages))
	}
	if conv.Messages[0].Role != history.RoleUser || conv.Messages[0].Content != "hello" {
		t.Errorf("user turn lost: %+v", conv.Messages[0])
	}
	if conv.Messages[1].Role != history.RoleAssistant {
		t.Errorf("assistant turn lost: %+v", conv.Messages[1])
	}
}

func TestChatContinuesExistingConversation(t *testing.T) {
	srv, store := newTestServer(t, &stubBackend{})

	var first chatResult
	if err := json.Unmarshal(postChat(t, srv, `{"message":"hello"}`).Body.Bytes(), &first); err != nil {
		t.Fatal(err)
	}

	w := postChat(t, srv, `{"conversation_id":"`+first.ConversationID+`","message":"help"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	conv, err := store.Load(context.Background(), first.ConversationID)
	if err != nil {
		t.Fatal(err)
	}
	if len(conv.Messages) != 4 {
		t.Fatalf("expected 4 messages after two turns, got %d", len(conv.Messages))
	}
}

func TestChatRejectsBadRequests(t *testing.T) {
	srv, _ := newTestServer(t, &stubBackend{})

	if w := postChat(t, srv, `{"message":""}`); w.Code != http.StatusBadRequest {
		t.Errorf("empty message: status = %d, want 400", w.Code)
	}
	if w := postChat(t, srv, `not json`); w.Code != http.StatusBadRequest {
		t.Errorf("malformed body: status = %d, want 400", w.Code)
	}
}

func TestChatHTMLFormat(t *testing.T) {
	srv, _ := newTestServer(t, &stubBackend{})

	w := postChat(t, srv, `{"message":"help","format":"html"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var result chatResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.HTML, "<") {
		t.Errorf("expected rendered HTML, got %q", result.HTML)
	}
	if result.Markdown == "" {
		t.Error("markdown must still be present alongside HTML")
	}
}

func TestConversationListGetDelete(t *testing.T) {
	srv, store := newTestServer(t, &stubBackend{})

	var created chatResult
	if err := json.Unmarshal(postChat(t, srv, `{"message":"hello"}`).Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/conversations", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var listed struct {
		Conversations []history.Summary `json:"conversations"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatal(err)
	}
	if len(listed.Conversations) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(listed.Conversations))
	}

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/conversations/"+created.ConversationID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/conversations/no-such-id", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want 404", w.Code)
	}

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/conversations/"+created.ConversationID, nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	if _, err := store.Load(context.Background(), created.ConversationID); !errors.Is(err, history.ErrNotFound) {
		t.Error("conversation should be gone after delete")
	}
}

// A clear that lands while a message is still being processed must not let
// the late response reappear in history.
func TestClearDuringInFlightRequestDropsResponse(t *testing.T) {
	backend := &stubBackend{qualityGate: make(chan struct{})}
	srv, store := newTestServer(t, backend)

	const convID = "in-flight"
	done := make(chan *chatResult, 1)
	go func() {
		result, err := srv.processMessage(context.Background(), convID, "show data quality")
		if err != nil {
			t.Error(err)
			done <- nil
			return
		}
		done <- result
	}()

	// Wait for the request to reach the blocked backend call.
	deadline := time.After(2 * time.Second)
	for backend.qualityCalls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("backend call never started")
		case <-time.After(5 * time.Millisecond):
		}
	}

	srv.sessions.clear(convID)
	_ = store.Delete(context.Background(), convID)
	close(backend.qualityGate)

	result := <-done
	if result == nil {
		t.Fatal("processing failed")
	}
	if !result.Stale {
		t.Error("response after clear should be marked stale")
	}
	if result.Markdown == "" {
		t.Error("the caller still gets the response text")
	}
	if _, err := store.Load(context.Background(), convID); !errors.Is(err, history.ErrNotFound) {
		t.Error("stale response must not be persisted")
	}
}

func TestWebSocketChat(t *testing.T) {
	srv, _ := newTestServer(t, &stubBackend{})
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/chat/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(wsRequest{Type: "message", Content: "hello"}); err != nil {
		t.Fatal(err)
	}
	var resp wsResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Type != "response" {
		t.Fatalf("type = %q, body = %q", resp.Type, resp.Content)
	}
	if resp.ConversationID == "" || resp.Content == "" {
		t.Errorf("incomplete response: %+v", resp)
	}

	if err := conn.WriteJSON(wsRequest{Type: "bogus", Content: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Type != "error" {
		t.Errorf("unknown type should error, got %+v", resp)
	}
}

func TestSessionRegistryBoundsCachedSessions(t *testing.T) {
	reg := newSessionRegistry(3)
	for i := 0; i < 10; i++ {
		reg.get(fmt.Sprintf("conv-%d", i))
	}

	reg.mu.Lock()
	size := len(reg.sessions)
	reg.mu.Unlock()
	if size > 3 {
		t.Errorf("registry should evict past its bound, got %d entries", size)
	}
}

func TestSessionRegistrySkipsBusySessions(t *testing.T) {
	reg := newSessionRegistry(2)

	busy := reg.get("busy")
	busy.mu.Lock()
	defer busy.mu.Unlock()

	// Filling past the bound must not evict the session with a send in
	// flight, even though it is the oldest entry.
	for i := 0; i < 5; i++ {
		reg.get(fmt.Sprintf("conv-%d", i))
	}

	reg.mu.Lock()
	_, ok := reg.sessions["busy"]
	reg.mu.Unlock()
	if !ok {
		t.Error("a session holding its mutex must survive eviction")
	}
}

func TestConversationTitleTruncates(t *testing.T) {
	long := strings.Repeat("a", 100)
	title := conversationTitle(long)
	if len(title) >= 100 {
		t.Errorf("title not truncated: %d chars", len(title))
	}
	if conversationTitle("short") != "short" {
		t.Error("short titles pass through unchanged")
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, &stubBackend{})
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}
