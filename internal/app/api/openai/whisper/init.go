package whisper

import (
	"go.uber.org/zap"

	openaiclient "voice-analysis-toolkit/internal/app/api/openai"
	"voice-analysis-toolkit/internal/app/api/provider"
	"voice-analysis-toolkit/internal/config"
)

func init() {
	provider.RegisterProvider(provider.NameOpenAI, func(cfg *config.Config, _ *zap.Logger) (provider.TranscriptionProvider, error) {
		return NewRemoteTranscriber(openaiclient.NewClient(cfg.OpenAI), Config{
			Model: cfg.OpenAI.TranscriptionModel,
		}), nil
	})
}
