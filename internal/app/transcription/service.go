// Package transcription turns validated audio files into transcript text.
package transcription

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"voice-analysis-toolkit/internal/app/api/provider"
	apperrors "voice-analysis-toolkit/internal/app/errors"
)

// Result is a finished transcription
type Result struct {
	Text     string
	Provider string
	Model    string
	Elapsed  time.Duration
}

// Service transcribes through the provider orchestrator
type Service struct {
	orchestrator provider.TranscriptionOrchestrator
	providerName string
	language     string
	logger       *zap.Logger
}

// NewService creates a transcription service for the named provider. The
// orchestrator's fallback chain applies when it fails.
func NewService(orchestrator provider.TranscriptionOrchestrator, providerName, language string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		orchestrator: orchestrator,
		providerName: providerName,
		language:     language,
		logger:       logger.Named("transcription"),
	}
}

// ProviderName is the configured primary provider
func (s *Service) ProviderName() string {
	return s.providerName
}

// Transcribe returns the whitespace-trimmed transcript of the file at path.
// Any provider failure becomes a transcription error naming the provider.
func (s *Service) Transcribe(ctx context.Context, path string, duration time.Duration) (*Result, error) {
	s.logger.Info("Starting transcription",
		zap.String("file", path), zap.String("provider", s.providerName))

	start := time.Now()
	resp, err := s.orchestrator.TranscribeWithProvider(ctx, s.providerName, &provider.TranscriptionRequest{
		InputFilePath: path,
		Language:      s.language,
		AudioDuration: duration,
	})
	if err != nil {
		s.logger.Error("Transcription failed",
			zap.String("file", path),
			zap.String("provider", s.providerName),
			zap.String("code", provider.ErrorCode(err)),
			zap.Error(err))
		return nil, apperrors.Transcription(
			fmt.Sprintf("An error occurred during transcription with %s.", s.providerName), err)
	}

	result := &Result{
		Text:     strings.TrimSpace(resp.Text),
		Provider: resp.Provider,
		Model:    resp.ModelUsed,
		Elapsed:  time.Since(start),
	}
	s.logger.Info("Transcription successful",
		zap.String("file", path),
		zap.String("provider", result.Provider),
		zap.Int("chars", len(result.Text)),
		zap.Duration("elapsed", result.Elapsed))
	return result, nil
}
