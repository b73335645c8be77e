package ports

import "context"

// Explainer sends a prompt to the language model and returns its answer.
// An empty answer is returned as "" with a nil error.
type Explainer interface {
	Explain(ctx context.Context, prompt string) (string, error)
}
