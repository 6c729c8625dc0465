package app

import (
	"context"
	"fmt"

	"github.com/google/wire"
	"go.uber.org/zap"

	"voice-analysis-toolkit/internal/app/analysis"
	"voice-analysis-toolkit/internal/app/api/llm"
	"voice-analysis-toolkit/internal/app/api/provider"
	"voice-analysis-toolkit/internal/app/controller"
	"voice-analysis-toolkit/internal/app/converter"
	"voice-analysis-toolkit/internal/app/metrics"
	"voice-analysis-toolkit/internal/app/repository"
	"voice-analysis-toolkit/internal/app/repository/pg"
	"voice-analysis-toolkit/internal/app/repository/sqlite"
	"voice-analysis-toolkit/internal/app/session"
	"voice-analysis-toolkit/internal/app/storage"
	"voice-analysis-toolkit/internal/app/transcription"
	"voice-analysis-toolkit/internal/app/validator"
	"voice-analysis-toolkit/internal/config"

	// Transcription providers and analysis backends register themselves.
	_ "voice-analysis-toolkit/internal/app/api/gemini"
	_ "voice-analysis-toolkit/internal/app/api/ollama"
	_ "voice-analysis-toolkit/internal/app/api/openai/chat"
	_ "voice-analysis-toolkit/internal/app/api/openai/whisper"
	_ "voice-analysis-toolkit/internal/app/api/whisper_cpp"
	_ "voice-analysis-toolkit/internal/app/api/whisper_server"
)

// Application is everything the web server and CLI commands need
type Application struct {
	Config          *config.Config
	Logger          *zap.Logger
	Controller      *controller.ProcessingController
	Registry        provider.ProviderRegistry
	Orchestrator    provider.TranscriptionOrchestrator
	ProviderMetrics provider.ProviderMetrics
	Backend         llm.Backend
	History         repository.HistoryRepository
	Metrics         *metrics.Collector
}

var transcriptionSet = wire.NewSet(
	ProvideProviderRegistry,
	ProvideProviderMetrics,
	ProvideOrchestrator,
	ProvideTranscriptionService,
	ProvideValidator,
)

var analysisSet = wire.NewSet(
	ProvideBackend,
	ProvidePrompts,
	ProvideAnalysisService,
)

func ProvideProviderRegistry(cfg *config.Config, logger *zap.Logger) (provider.ProviderRegistry, error) {
	return provider.BuildRegistry(cfg, logger)
}

func ProvideProviderMetrics(collector *metrics.Collector) provider.ProviderMetrics {
	return provider.NewProviderMetrics(collector)
}

func ProvideOrchestrator(registry provider.ProviderRegistry, pm provider.ProviderMetrics, cfg *config.Config, logger *zap.Logger) provider.TranscriptionOrchestrator {
	return provider.NewTranscriptionOrchestrator(registry, pm, provider.OrchestratorConfigFrom(cfg), logger)
}

func ProvideTranscriptionService(orchestrator provider.TranscriptionOrchestrator, cfg *config.Config, logger *zap.Logger) *transcription.Service {
	return transcription.NewService(orchestrator, cfg.TranscriptionProvider(), cfg.Whisper.Language, logger)
}

func ProvideValidator(cfg *config.Config, logger *zap.Logger) *validator.Validator {
	return validator.New(validator.Limits{
		MaxFileSizeMB:     cfg.Limits.MaxFileSizeMB,
		MaxFileLengthMins: cfg.Limits.MaxFileLengthMins,
		AllowedExtensions: cfg.Limits.AllowedExtensions,
	}, nil, logger)
}

func ProvideBackend(cfg *config.Config, logger *zap.Logger) (llm.Backend, error) {
	return llm.New(cfg, logger)
}

func ProvidePrompts(cfg *config.Config) (*analysis.PromptSet, error) {
	return analysis.LoadPrompts(cfg.App.PromptsFile)
}

func ProvideAnalysisService(backend llm.Backend, prompts *analysis.PromptSet, collector *metrics.Collector, logger *zap.Logger) *analysis.Service {
	return analysis.NewService(backend, prompts, collector, logger)
}

func ProvideSessionStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session.Store, func(), error) {
	store, err := session.NewStore(ctx, cfg.Session, logger)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}

// ProvideHistory returns a no-op repository when history is disabled;
// otherwise PostgreSQL when DATABASE_URL is set, else the SQLite file
func ProvideHistory(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.HistoryRepository, func(), error) {
	var repo repository.HistoryRepository
	switch {
	case !cfg.History.Enabled:
		repo = repository.Noop{}
	case cfg.PostgresEnabled():
		db, err := pg.NewPostgresDB(cfg.History.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("History stored in PostgreSQL")
		repo = db
	default:
		db, err := sqlite.NewSQLiteDB(cfg.History.DBPath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("History stored in SQLite", zap.String("path", cfg.History.DBPath))
		repo = db
	}
	return repo, func() {
		if err := repo.Close(); err != nil {
			logger.Warn("Failed to close history repository", zap.Error(err))
		}
	}, nil
}

func ProvideArchiver(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Archiver, error) {
	if !cfg.Archive.Enabled {
		return storage.NoopArchiver{}, nil
	}
	archiver, err := storage.NewMinioArchiver(ctx, cfg.Archive)
	if err != nil {
		return nil, fmt.Errorf("failed to set up transcript archive: %w", err)
	}
	logger.Info("Transcripts archived to MinIO", zap.String("bucket", cfg.Archive.Bucket))
	return archiver, nil
}

func ProvideController(
	store session.Store,
	v *validator.Validator,
	transcriber *transcription.Service,
	analyzer *analysis.Service,
	history repository.HistoryRepository,
	archive storage.Archiver,
	logger *zap.Logger,
) *controller.ProcessingController {
	return controller.New(controller.Dependencies{
		Store:       store,
		Validator:   v,
		Transcriber: transcriber,
		Analyzer:    analyzer,
		BackendName: analyzer.Backend().Name(),
		History:     history,
		Archive:     archive,
		Logger:      logger,
	})
}

func ProvideConverter(v *validator.Validator, transcriber *transcription.Service, history repository.HistoryRepository, progress converter.ProgressConfig, logger *zap.Logger) (*converter.Converter, func()) {
	c := converter.NewConverter(v, transcriber, history, progress, logger)
	return c, func() { c.Close() }
}
