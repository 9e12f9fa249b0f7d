// Package ai provides the text generation client the chat engine uses for
// categorization, insights and suggestions.
package ai

import (
	"context"
	"errors"
)

var (
	ErrAITimeout          = errors.New("AI_TIMEOUT")
	ErrAIGenerationFailed = errors.New("AI_GENERATION_FAILED")
)

// Generator produces a free-form completion for a prompt. Implementations
// must honor ctx cancellation. The returned string is untrusted model
// output and callers are expected to normalize it before use.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
