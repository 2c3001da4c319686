package perception

import (
	"context"

	"mailtriage/internal/config"

	"go.uber.org/zap"
)

// Capability records whether the remote path is usable for this run.
// It is decided once at startup and never re-evaluated.
type Capability struct {
	Available bool
	Provider  Provider
	Model     string
	Client    LLMClient
}

// Detect builds a client from configuration. A missing credential or any
// client construction error yields Available=false; Detect itself never fails.
func Detect(ctx context.Context, cfg *config.Config, logger *zap.Logger) Capability {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.LLM.HasCredential() {
		logger.Info("no API key configured, using rule extraction only")
		return Capability{}
	}

	provider := Provider(cfg.LLM.Provider)
	if provider == "" {
		provider = ProviderOpenAI
	}

	cc := ClientConfig{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Timeout:     cfg.GetLLMTimeout(),
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	}

	var (
		client LLMClient
		model  string
	)
	switch provider {
	case ProviderOpenAI:
		oc := NewOpenAIClientWithConfig(cc, logger)
		client, model = oc, oc.GetModel()
	case ProviderGemini:
		gc, err := NewGeminiClient(ctx, cc, logger)
		if err != nil {
			logger.Warn("remote client init failed, using rule extraction only",
				zap.String("provider", string(provider)), zap.Error(err))
			return Capability{Provider: provider}
		}
		client, model = gc, gc.GetModel()
	default:
		logger.Warn("unknown provider, using rule extraction only", zap.String("provider", string(provider)))
		return Capability{Provider: provider}
	}

	logger.Info("remote generation enabled",
		zap.String("provider", string(provider)), zap.String("model", model))
	return Capability{Available: true, Provider: provider, Model: model, Client: client}
}
