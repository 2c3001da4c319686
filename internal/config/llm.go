package config

// Supported LLM providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// ValidProviders lists all supported LLM providers.
var ValidProviders = []string{ProviderOpenAI, ProviderGemini}

// IsValidProvider reports whether p names a supported provider.
func IsValidProvider(p string) bool {
	for _, v := range ValidProviders {
		if p == v {
			return true
		}
	}
	return false
}

// LLMConfig configures the remote generation call.
type LLMConfig struct {
	Provider    string  `yaml:"provider"` // openai, gemini
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`    // empty = provider default
	BaseURL     string  `yaml:"base_url"` // OpenAI-compatible endpoints only
	Timeout     string  `yaml:"timeout"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// HasCredential reports whether an API key is configured.
// This is the only input to the startup capability check.
func (c LLMConfig) HasCredential() bool {
	return c.APIKey != ""
}
