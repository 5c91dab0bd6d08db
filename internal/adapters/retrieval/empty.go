package retrieval

import "context"

// EmptyRetriever returns no passages. Used in mock mode: the support
// stage's refusal rule handles an empty context on its own.
type EmptyRetriever struct{}

func NewEmptyRetriever() *EmptyRetriever {
	return &EmptyRetriever{}
}

func (EmptyRetriever) Retrieve(ctx context.Context, query string, topK int) ([]string, error) {
	return nil, nil
}
