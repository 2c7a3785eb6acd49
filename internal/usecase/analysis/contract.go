package analysis

import "context"

// Retriever finds the best practices most relevant to a query. It degrades
// internally and never fails.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) []string
}

// Completer produces the raw analysis text for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
