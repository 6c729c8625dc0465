//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"voice-analysis-toolkit/internal/app/analysis"
	"voice-analysis-toolkit/internal/app/converter"
	"voice-analysis-toolkit/internal/app/metrics"
	"voice-analysis-toolkit/internal/app/repository"
	"voice-analysis-toolkit/internal/config"
)

// InitializeApplication builds the full dependency graph for the web server
func InitializeApplication(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Application, func(), error) {
	wire.Build(
		metrics.NewCollector,
		transcriptionSet,
		analysisSet,
		ProvideSessionStore,
		ProvideHistory,
		ProvideArchiver,
		ProvideController,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil, nil
}

// InitializeConverter builds the batch transcriber used by `vat transcribe`
func InitializeConverter(ctx context.Context, cfg *config.Config, logger *zap.Logger, progress converter.ProgressConfig) (*converter.Converter, func(), error) {
	wire.Build(
		metrics.NewCollector,
		transcriptionSet,
		ProvideHistory,
		ProvideConverter,
	)
	return nil, nil, nil
}

// InitializeAnalysis builds the analysis service alone, for transcripts that
// are already text
func InitializeAnalysis(cfg *config.Config, logger *zap.Logger) (*analysis.Service, error) {
	wire.Build(
		metrics.NewCollector,
		analysisSet,
	)
	return nil, nil
}

// InitializeHistory opens the configured history repository
func InitializeHistory(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.HistoryRepository, func(), error) {
	wire.Build(ProvideHistory)
	return nil, nil, nil
}

