package dialog

import (
	"context"
	"fmt"
	"strings"

	"insuragent/internal/domain"
	"insuragent/internal/observability"
)

// runRouter classifies the latest user message as support vs lead
// generation and sets the dialog state accordingly.
func (o *Orchestrator) runRouter(ctx context.Context, conv *domain.Conversation) error {
	observability.StageRuns.WithLabelValues("router").Inc()
	log := observability.LoggerFromContext(ctx).With("thread_id", conv.ThreadID, "stage", "router")

	// A user mid-qualification is never re-routed away by an ambiguous
	// follow-up: skip classification entirely.
	if conv.DialogState == domain.StateCollecting {
		log.Info("already collecting info, bypassing classification")
		return nil
	}

	last := conv.LastMessage()
	if last == nil {
		conv.DialogState = domain.StateSupport
		return nil
	}

	out, err := o.llm.Complete(ctx, routerSystemPrompt, last.Content)
	if err != nil {
		observability.TurnErrors.WithLabelValues("service").Inc()
		return fmt.Errorf("router classification: %w", err)
	}

	intent := strings.TrimSpace(out)
	log.Info("classified intent", "intent", intent)

	// Anything other than an exact LEAD_GEN label, malformed output
	// included, degrades to the support path.
	if intent == intentLeadGen {
		conv.DialogState = domain.StateCollecting
	} else {
		conv.DialogState = domain.StateSupport
	}
	return nil
}
