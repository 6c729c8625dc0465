package whisper_server

import (
	"go.uber.org/zap"

	"voice-analysis-toolkit/internal/app/api/provider"
	"voice-analysis-toolkit/internal/config"
)

func init() {
	provider.RegisterProvider(provider.NameWhisperServer, func(cfg *config.Config, _ *zap.Logger) (provider.TranscriptionProvider, error) {
		return NewWhisperServerProvider(WhisperServerConfig{
			BaseURL:  cfg.Whisper.ServerURL,
			Language: cfg.Whisper.Language,
			Timeout:  cfg.Providers.Timeout,
		}), nil
	})
}
