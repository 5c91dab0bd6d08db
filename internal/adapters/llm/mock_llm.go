package llm

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MockLLM is a rule-based stand-in for the Gemini client, useful for local
// development without an API key. It recognizes the three prompt shapes the
// dialog stages send (routing, extraction, support answer) and produces a
// plausible completion for each.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

var leadKeywords = []string{"quote", "price", "pricing", "buy", "purchase", "cost"}

var numberRe = regexp.MustCompile(`-?\d+`)

func (m *MockLLM) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	switch {
	case strings.Contains(systemPrompt, "intelligent router"):
		low := strings.ToLower(userPrompt)
		for _, kw := range leadKeywords {
			if strings.Contains(low, kw) {
				return "LEAD_GEN", nil
			}
		}
		return "SUPPORT", nil

	case strings.Contains(userPrompt, "Extract these fields"):
		return m.mockExtraction(userPrompt), nil

	default:
		return "I'm sorry, I cannot find that information in the policy documents.", nil
	}
}

// mockExtraction pulls the quoted user input back out of the extraction
// prompt and guesses: a bare number fills the first numeric slot still
// null in the "Current info" section; once age is known, free text fills
// the location.
func (m *MockLLM) mockExtraction(prompt string) string {
	input := ""
	if idx := strings.Index(prompt, "User input:"); idx >= 0 {
		input = strings.Trim(strings.TrimSpace(prompt[idx+len("User input:"):]), `"`)
	}

	if num := numberRe.FindString(input); num != "" {
		n, _ := strconv.Atoi(num)
		if strings.Contains(prompt, `"age":null`) {
			return fmt.Sprintf(`{"age": %d, "location": null, "income": null}`, n)
		}
		return fmt.Sprintf(`{"age": null, "location": null, "income": %d}`, n)
	}

	if input != "" && !strings.Contains(prompt, `"age":null`) && strings.Contains(prompt, `"location":null`) {
		return fmt.Sprintf(`{"age": null, "location": %q, "income": null}`, input)
	}

	return `{"age": null, "location": null, "income": null}`
}
