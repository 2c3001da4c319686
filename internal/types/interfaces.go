package types

import (
	"context"
)

// LLMClient defines the interface for LLM interactions.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Extractor maps an email to a summary and task list without side effects.
type Extractor interface {
	Extract(email EmailRecord) Extraction
}
