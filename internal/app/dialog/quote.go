package dialog

import (
	"context"
	"encoding/json"
	"fmt"

	"insuragent/internal/domain"
	"insuragent/internal/observability"
)

// Quote is the structured result of the premium calculation.
type Quote struct {
	Status      string    `json:"status"`
	QuoteAmount int       `json:"quote_amount"`
	Currency    string    `json:"currency"`
	UserData    QuoteUser `json:"user_data"`
}

type QuoteUser struct {
	Age      int    `json:"age"`
	Location string `json:"location"`
	Income   int    `json:"income"`
}

// CalculatePremium is a pure function: base 100, +50 under 25, +25 otherwise.
func CalculatePremium(age int, location string, income int) Quote {
	base := 100
	if age < 25 {
		base += 50
	} else {
		base += 25
	}
	return Quote{
		Status:      "success",
		QuoteAmount: base,
		Currency:    "INR",
		UserData:    QuoteUser{Age: age, Location: location, Income: income},
	}
}

// runAgent is the terminal stage: it is only reachable with complete
// user_info (the qualifier gates on it), so no further validation happens
// here.
func (o *Orchestrator) runAgent(ctx context.Context, conv *domain.Conversation) {
	observability.StageRuns.WithLabelValues("agent").Inc()
	log := observability.LoggerFromContext(ctx).With("thread_id", conv.ThreadID, "stage", "agent")

	info := conv.UserInfo
	quote := CalculatePremium(*info.Age, *info.Location, *info.Income)
	log.Info("generated quote", "quote_amount", quote.QuoteAmount)

	payload, _ := json.Marshal(quote)
	msg := fmt.Sprintf("Thank you! I have generated a quote for you.\n\nJSON Output:\n%s", payload)

	conv.Append(domain.RoleAgent, msg, o.now())
	conv.DialogState = domain.StateFinished
}
