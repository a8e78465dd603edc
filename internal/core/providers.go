package core

import "context"

// Reasoner is a single-shot call to the reasoning service.
// Temperature and max tokens are fixed per call site.
type Reasoner interface {
	Complete(ctx context.Context, prompt string, opts CompleteOptions) (string, error)
}

type CompleteOptions struct {
	Temperature float64
	MaxTokens   int
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}
