package openai

import (
	"github.com/sashabaranov/go-openai"

	"voice-analysis-toolkit/internal/config"
)

// NewClient creates an OpenAI client for the configured key and optional
// base URL. It returns nil when no key is configured.
func NewClient(cfg config.OpenAIConfig) *openai.Client {
	if cfg.APIKey == "" {
		return nil
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientConfig)
}
