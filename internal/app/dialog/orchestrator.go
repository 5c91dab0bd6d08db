package dialog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"insuragent/internal/domain"
	"insuragent/internal/observability"
)

// Orchestrator runs the dialog state machine: one full graph traversal per
// inbound user message.
//
//	unknown/support/collecting_info --router--> support | qualifier
//	qualifier --(completed)--> agent
//	qualifier --(otherwise)--> stop, await next user message
//	support --> stop
//	agent   --> stop (dialog_state forced to finished)
//
// State is persisted once, after the traversal completes; a stage failure
// leaves the previously committed state untouched, so retrying the same
// turn is safe.
type Orchestrator struct {
	llm       domain.CompletionClient
	retriever domain.Retriever
	store     domain.ConversationStore
	topK      int
	now       func() time.Time

	mu    sync.Mutex
	locks map[domain.ThreadID]*sync.Mutex
}

func NewOrchestrator(
	llm domain.CompletionClient,
	retriever domain.Retriever,
	store domain.ConversationStore,
	topK int,
) *Orchestrator {
	if topK <= 0 {
		topK = 4
	}
	return &Orchestrator{
		llm:       llm,
		retriever: retriever,
		store:     store,
		topK:      topK,
		now:       time.Now,
		locks:     make(map[domain.ThreadID]*sync.Mutex),
	}
}

// TurnResult is what a front end gets back for one processed user message.
type TurnResult struct {
	Response    string
	ThreadID    domain.ThreadID
	DialogState domain.DialogState
	IsFinished  bool
}

// ProcessTurn loads (or implicitly creates) the conversation for threadID,
// appends the user message, runs the graph until it stops, persists, and
// returns the latest agent message.
//
// Turns for the same thread are serialized by a per-thread lock; turns for
// different threads run concurrently.
func (o *Orchestrator) ProcessTurn(
	ctx context.Context,
	threadID domain.ThreadID,
	userText string,
) (*TurnResult, error) {
	start := time.Now()
	defer func() { observability.TurnDuration.Observe(time.Since(start).Seconds()) }()

	lock := o.threadLock(threadID)
	lock.Lock()
	defer lock.Unlock()

	log := observability.LoggerFromContext(ctx).With("thread_id", threadID)

	conv, err := o.store.Get(ctx, threadID)
	switch {
	case errors.Is(err, domain.ErrThreadNotFound):
		log.Info("new conversation started")
		conv = domain.NewConversation(threadID, o.now())
	case err != nil:
		observability.TurnErrors.WithLabelValues("persistence").Inc()
		return nil, fmt.Errorf("loading conversation: %w", err)
	}

	// Guard, not a graph edge: finished threads never re-enter the graph
	// and the stored state stays exactly as it was.
	if conv.Finished() {
		log.Info("turn rejected, conversation already finished")
		return &TurnResult{
			Response:    FinishedResponse,
			ThreadID:    threadID,
			DialogState: domain.StateFinished,
			IsFinished:  true,
		}, nil
	}

	conv.Append(domain.RoleUser, userText, o.now())

	if err := o.runRouter(ctx, conv); err != nil {
		return nil, err
	}

	switch conv.DialogState {
	case domain.StateSupport:
		if err := o.runSupport(ctx, conv); err != nil {
			return nil, err
		}
	case domain.StateCollecting:
		if err := o.runQualifier(ctx, conv); err != nil {
			return nil, err
		}
		// The only same-turn chain: once every slot is filled the agent
		// stage produces the quote without waiting for another message.
		if conv.DialogState == domain.StateCompleted {
			o.runAgent(ctx, conv)
		}
	}

	if err := o.store.Put(ctx, conv); err != nil {
		observability.TurnErrors.WithLabelValues("persistence").Inc()
		log.Error("failed to persist turn", "error", err)
		return nil, fmt.Errorf("persisting conversation: %w", err)
	}

	observability.TurnsTotal.WithLabelValues(string(conv.DialogState)).Inc()
	log.Info("turn completed", "dialog_state", conv.DialogState)

	resp := ""
	if m := conv.LastMessage(); m != nil && m.Role == domain.RoleAgent {
		resp = m.Content
	}

	return &TurnResult{
		Response:    resp,
		ThreadID:    threadID,
		DialogState: conv.DialogState,
		IsFinished:  conv.Finished(),
	}, nil
}

// History returns the ordered message timeline for a thread. Unknown
// threads yield an empty history, matching the implicit-creation contract.
func (o *Orchestrator) History(ctx context.Context, threadID domain.ThreadID) ([]domain.Message, error) {
	conv, err := o.store.Get(ctx, threadID)
	if errors.Is(err, domain.ErrThreadNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading conversation: %w", err)
	}
	return conv.Messages, nil
}

// ListThreads enumerates every known thread id.
func (o *Orchestrator) ListThreads(ctx context.Context) ([]domain.ThreadID, error) {
	return o.store.ListThreadIDs(ctx)
}

// Load returns the stored conversation, or nil if the thread is unknown.
func (o *Orchestrator) Load(ctx context.Context, threadID domain.ThreadID) (*domain.Conversation, error) {
	conv, err := o.store.Get(ctx, threadID)
	if errors.Is(err, domain.ErrThreadNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading conversation: %w", err)
	}
	return conv, nil
}

func (o *Orchestrator) threadLock(id domain.ThreadID) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	l, ok := o.locks[id]
	if !ok {
		l = &sync.Mutex{}
		o.locks[id] = l
	}
	return l
}
