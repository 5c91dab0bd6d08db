package dialog

import (
	"context"
	"fmt"
	"strings"

	"insuragent/internal/domain"
	"insuragent/internal/observability"
)

// runSupport answers the latest user message strictly from retrieved policy
// passages. With zero passages the context is empty and the system prompt's
// refusal rule takes over; no special case needed.
func (o *Orchestrator) runSupport(ctx context.Context, conv *domain.Conversation) error {
	observability.StageRuns.WithLabelValues("support").Inc()
	log := observability.LoggerFromContext(ctx).With("thread_id", conv.ThreadID, "stage", "support")

	query := conv.LastMessage().Content

	passages, err := o.retriever.Retrieve(ctx, query, o.topK)
	if err != nil {
		observability.TurnErrors.WithLabelValues("service").Inc()
		return fmt.Errorf("retrieving passages: %w", err)
	}
	contextText := strings.Join(passages, "\n")
	log.Info("retrieved passages", "count", len(passages), "context_chars", len(contextText))

	userContent := fmt.Sprintf("Context:\n%s\n\nUser Question:\n%s", contextText, query)

	reply, err := o.llm.Complete(ctx, supportSystemPrompt, userContent)
	if err != nil {
		observability.TurnErrors.WithLabelValues("service").Inc()
		return fmt.Errorf("support answer: %w", err)
	}

	conv.Append(domain.RoleAgent, reply, o.now())
	return nil
}
