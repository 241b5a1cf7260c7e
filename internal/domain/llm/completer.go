package llm

import "context"

// Prompt is a provider-neutral completion request.
type Prompt struct {
	System    string
	User      string
	WireModel string
	MaxTokens int
}

// Completer sends one completion to a provider family and returns the generated text.
type Completer interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}
