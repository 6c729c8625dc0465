package whisper_cpp

import (
	"go.uber.org/zap"

	"voice-analysis-toolkit/internal/app/api/provider"
	"voice-analysis-toolkit/internal/config"
)

func init() {
	provider.RegisterProvider(provider.NameWhisperCpp, func(cfg *config.Config, logger *zap.Logger) (provider.TranscriptionProvider, error) {
		return NewLocalTranscriber(Config{
			BinaryPath: cfg.Whisper.Binary,
			ModelPath:  cfg.Whisper.Model,
			Language:   cfg.Whisper.Language,
		}, logger), nil
	})
}
