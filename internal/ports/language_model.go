package ports

import "context"

// Contract for a single-shot text completion.
type LanguageModel interface {
	// Return the model's text reply to prompt.
	Invoke(ctx context.Context, prompt string) (string, error)
}
