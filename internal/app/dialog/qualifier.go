package dialog

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"insuragent/internal/domain"
	"insuragent/internal/observability"
)

const (
	minAge = 0
	maxAge = 110
)

// runQualifier extracts qualification slots from the latest user message,
// validates them, and either asks for the next missing slot or marks the
// conversation completed (the agent stage, not this one, emits the quote).
func (o *Orchestrator) runQualifier(ctx context.Context, conv *domain.Conversation) error {
	observability.StageRuns.WithLabelValues("qualifier").Inc()
	log := observability.LoggerFromContext(ctx).With("thread_id", conv.ThreadID, "stage", "qualifier")

	ageRejected := false

	if last := conv.LastMessage(); last != nil && last.Role == domain.RoleUser {
		current, _ := json.Marshal(conv.UserInfo)
		prompt := fmt.Sprintf(extractionPromptFmt, current, last.Content)

		raw, err := o.llm.Complete(ctx, "", prompt)
		if err != nil {
			observability.TurnErrors.WithLabelValues("service").Inc()
			return fmt.Errorf("slot extraction: %w", err)
		}

		ext, err := parseExtraction(raw)
		if err != nil {
			// Swallowed: an unparseable extraction means no new slots
			// this turn, never a failed turn.
			log.Warn("extraction output not parseable", "error", err)
		} else {
			log.Info("extracted slots", "age", ext.Age, "location", ext.Location, "income", ext.Income)

			if ext.Age != nil {
				if age, ok := coerceInt(ext.Age); ok && age >= minAge && age <= maxAge {
					conv.UserInfo.Set(domain.FieldAge, age)
				} else {
					log.Warn("age rejected", "value", ext.Age)
					ageRejected = true
				}
			}
			if ext.Location != nil {
				conv.UserInfo.Set(domain.FieldLocation, *ext.Location)
			}
			if ext.Income != nil {
				if income, ok := coerceInt(ext.Income); ok {
					conv.UserInfo.Set(domain.FieldIncome, income)
				} else {
					log.Warn("income not integer-coercible, discarded", "value", ext.Income)
				}
			}
		}
	}

	missing := conv.UserInfo.NextMissing()
	if missing == "" {
		log.Info("all slots collected, qualification complete")
		conv.DialogState = domain.StateCompleted
		return nil
	}

	question := questionForField[missing]
	if missing == domain.FieldAge && ageRejected {
		question = ageReaskMessage
	}
	log.Info("asking for next slot", "field", missing)

	conv.Append(domain.RoleAgent, question, o.now())
	conv.DialogState = domain.StateCollecting
	return nil
}

// extraction mirrors the JSON object the extraction prompt asks for. Age
// and income stay untyped because the model sometimes returns numbers as
// strings.
type extraction struct {
	Age      any     `json:"age"`
	Location *string `json:"location"`
	Income   any     `json:"income"`
}

// parseExtraction strips code-fence markup and decodes the JSON object.
func parseExtraction(raw string) (*extraction, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var ext extraction
	if err := json.Unmarshal([]byte(cleaned), &ext); err != nil {
		return nil, err
	}
	return &ext, nil
}

// coerceInt converts a decoded JSON value to an int. Whole-number floats
// truncate; strings must parse as plain integers.
func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}
