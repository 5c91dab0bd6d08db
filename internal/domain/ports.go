package domain

import (
	"context"
	"errors"
)

// ErrThreadNotFound is returned by ConversationStore.Get for unknown threads.
var ErrThreadNotFound = errors.New("thread not found")

// CompletionClient defines how the core interacts with a text-completion
// service. The dialog logic never depends on a concrete LLM SDK, so stages
// stay testable with canned completions.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Retriever returns passages relevant to a query, most relevant first.
// An empty result is not an error.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]string, error)
}

// ConversationStore defines per-thread conversation persistence.
//
// Get must return ErrThreadNotFound for unknown ids and must not alias
// internal state (callers mutate the result freely before Put). Put replaces
// the whole record atomically for its key. Callers are expected to serialize
// Get→Put cycles per thread id; the orchestrator does so with a per-thread
// lock.
type ConversationStore interface {
	Get(ctx context.Context, id ThreadID) (*Conversation, error)
	Put(ctx context.Context, conv *Conversation) error
	ListThreadIDs(ctx context.Context) ([]ThreadID, error)
}
