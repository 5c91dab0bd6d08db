package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"insuragent/internal/app/dialog"
	"insuragent/internal/domain"
)

type Server struct {
	orc *dialog.Orchestrator
}

// NewServer builds the REST front end. It is a thin shim: every chat route
// calls the same orchestrator contract.
func NewServer(orc *dialog.Orchestrator) http.Handler {
	s := &Server{orc: orc}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/threads", s.handleListThreads).Methods(http.MethodGet)
	api.HandleFunc("/chat/new", s.handleNewChat).Methods(http.MethodPost)
	api.HandleFunc("/chat/{thread_id}/history", s.handleHistory).Methods(http.MethodGet)
	api.HandleFunc("/chat/{thread_id}", s.handleContinueChat).Methods(http.MethodPost)

	return chainMiddlewares(r, withCORS, withLogging, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response    string `json:"response"`
	ThreadID    string `json:"thread_id"`
	IsFinished  bool   `json:"is_finished"`
	DialogState string `json:"dialog_state"`
}

type historyMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ─────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNewChat(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	threadID := domain.ThreadID(uuid.NewString())
	s.processTurn(w, r, threadID, req.Message)
}

func (s *Server) handleContinueChat(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	// An unknown thread_id is treated as a fresh conversation.
	threadID := domain.ThreadID(mux.Vars(r)["thread_id"])
	s.processTurn(w, r, threadID, req.Message)
}

func (s *Server) processTurn(w http.ResponseWriter, r *http.Request, threadID domain.ThreadID, message string) {
	result, err := s.orc.ProcessTurn(r.Context(), threadID, message)
	if err != nil {
		// Nothing was persisted; the identical turn can be retried safely.
		serviceUnavailable(w)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response:    result.Response,
		ThreadID:    string(result.ThreadID),
		IsFinished:  result.IsFinished,
		DialogState: string(result.DialogState),
	})
}

func (s *Server) handleListThreads(w http.ResponseWriter, r *http.Request) {
	ids, err := s.orc.ListThreads(r.Context())
	if err != nil {
		serviceUnavailable(w)
		return
	}

	threads := make([]string, 0, len(ids))
	for _, id := range ids {
		threads = append(threads, string(id))
	}
	writeJSON(w, http.StatusOK, map[string][]string{"threads": threads})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	threadID := domain.ThreadID(mux.Vars(r)["thread_id"])

	msgs, err := s.orc.History(r.Context(), threadID)
	if err != nil {
		serviceUnavailable(w)
		return
	}

	history := make([]historyMessage, 0, len(msgs))
	for _, m := range msgs {
		history = append(history, historyMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	writeJSON(w, http.StatusOK, map[string][]historyMessage{"history": history})
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func decodeChatRequest(w http.ResponseWriter, r *http.Request) (chatRequest, bool) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return req, false
	}
	if strings.TrimSpace(req.Message) == "" {
		badRequest(w, "message is required")
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func serviceUnavailable(w http.ResponseWriter) {
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{
		"error": "service temporarily unavailable, please retry",
	})
}
