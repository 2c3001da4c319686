package perception

import (
	"context"
	"testing"

	"mailtriage/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect_NoCredential(t *testing.T) {
	cfg := config.DefaultConfig()

	capability := Detect(context.Background(), cfg, nil)
	assert.False(t, capability.Available)
	assert.Nil(t, capability.Client)
}

func TestDetect_OpenAI(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LLM.APIKey = "sk-test"

	capability := Detect(context.Background(), cfg, nil)
	require.True(t, capability.Available)
	assert.Equal(t, ProviderOpenAI, capability.Provider)
	assert.Equal(t, DefaultOpenAIModel, capability.Model)

	client, ok := capability.Client.(*OpenAIClient)
	require.True(t, ok)
	assert.Equal(t, DefaultOpenAIModel, client.GetModel())
	assert.Equal(t, 300, client.maxTokens)
}

func TestDetect_Gemini(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LLM.Provider = config.ProviderGemini
	cfg.LLM.APIKey = "g-test"
	cfg.LLM.Model = "gemini-2.0-flash"

	capability := Detect(context.Background(), cfg, nil)
	require.True(t, capability.Available)
	assert.Equal(t, ProviderGemini, capability.Provider)
	assert.Equal(t, "gemini-2.0-flash", capability.Model)

	client, ok := capability.Client.(*GeminiClient)
	require.True(t, ok)
	assert.Equal(t, "gemini-2.0-flash", client.GetModel())
}

func TestDetect_UnknownProviderDegrades(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LLM.Provider = "carrier-pigeon"
	cfg.LLM.APIKey = "x"

	capability := Detect(context.Background(), cfg, nil)
	assert.False(t, capability.Available)
	assert.Nil(t, capability.Client)
}
