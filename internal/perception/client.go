// Package perception talks to the remote language model. It owns the prompt,
// the provider clients, and the startup check that decides whether the remote
// path is used at all.
package perception

import (
	"errors"
	"time"

	"mailtriage/internal/types"
)

// LLMClient is the generator contract used by the batch runner.
type LLMClient = types.LLMClient

// Provider represents an LLM provider.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// Default models per provider.
const (
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultGeminiModel = "gemini-2.5-flash"
)

// Sentinel errors for callers that need errors.Is.
var (
	ErrNoCredential = errors.New("API key not configured")
	ErrEmptyReply   = errors.New("no completion returned")
)

// ClientConfig holds the settings shared by all providers.
type ClientConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}
