package httpadapter_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	httpadapter "insuragent/internal/adapters/http"
	"insuragent/internal/adapters/llm"
	"insuragent/internal/adapters/retrieval"
	"insuragent/internal/adapters/storage/memory"
	"insuragent/internal/app/dialog"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	llmClient := llm.NewMockLLM()
	store := memory.NewStore()
	orc := dialog.NewOrchestrator(llmClient, retrieval.NewEmptyRetriever(), store, 4)

	return httpadapter.NewServer(orc)
}

type chatResponse struct {
	Response    string `json:"response"`
	ThreadID    string `json:"thread_id"`
	IsFinished  bool   `json:"is_finished"`
	DialogState string `json:"dialog_state"`
}

func postChat(t *testing.T, srv http.Handler, path, message string) chatResponse {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"message": message})
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("POST %s: expected 200, got %d, body=%s", path, w.Code, w.Body.String())
	}

	var resp chatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestNewChatAndContinue(t *testing.T) {
	srv := newTestServer(t)

	// New lead conversation: first question is about age.
	resp := postChat(t, srv, "/api/chat/new", "I want a quote")
	if resp.ThreadID == "" {
		t.Fatal("expected a thread_id")
	}
	if resp.DialogState != "collecting_info" {
		t.Fatalf("expected collecting_info, got %s", resp.DialogState)
	}
	if resp.Response != "To generate a quote, I first need to know: How old are you?" {
		t.Fatalf("unexpected response: %q", resp.Response)
	}

	// Continue the same thread with the age.
	resp2 := postChat(t, srv, "/api/chat/"+resp.ThreadID, "30")
	if resp2.ThreadID != resp.ThreadID {
		t.Fatalf("thread id changed: %s -> %s", resp.ThreadID, resp2.ThreadID)
	}
	if resp2.Response != "Great. What state or city are you located in?" {
		t.Fatalf("unexpected response: %q", resp2.Response)
	}

	// History returns the full ordered timeline.
	req := httptest.NewRequest(http.MethodGet, "/api/chat/"+resp.ThreadID+"/history", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("history: expected 200, got %d", w.Code)
	}

	var hist struct {
		History []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"history"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &hist); err != nil {
		t.Fatalf("decoding history: %v", err)
	}
	if len(hist.History) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(hist.History))
	}
	if hist.History[0].Role != "user" || hist.History[1].Role != "agent" {
		t.Fatalf("unexpected roles: %+v", hist.History)
	}

	// Threads endpoint lists the conversation.
	req = httptest.NewRequest(http.MethodGet, "/api/threads", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("threads: expected 200, got %d", w.Code)
	}

	var threads struct {
		Threads []string `json:"threads"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &threads); err != nil {
		t.Fatalf("decoding threads: %v", err)
	}
	if len(threads.Threads) != 1 || threads.Threads[0] != resp.ThreadID {
		t.Fatalf("unexpected threads: %v", threads.Threads)
	}
}

func TestSupportPath(t *testing.T) {
	srv := newTestServer(t)

	resp := postChat(t, srv, "/api/chat/new", "hello there")
	if resp.DialogState != "support" {
		t.Fatalf("expected support, got %s", resp.DialogState)
	}
	if resp.IsFinished {
		t.Fatal("support turn should not finish the conversation")
	}
}

func TestEmptyMessageRejected(t *testing.T) {
	srv := newTestServer(t)

	body := []byte(`{"message":"   "}`)
	req := httptest.NewRequest(http.MethodPost, "/api/chat/new", bytes.NewReader(body))
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
