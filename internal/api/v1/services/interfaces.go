package services

import (
	"context"
	"io"
	"mime/multipart"

	"voice-analysis-toolkit/internal/api/v1/dto"
	"voice-analysis-toolkit/internal/app/model"
)

// SessionService runs the per-session processing and analysis steps.
// *controller.ProcessingController implements it.
type SessionService interface {
	ProcessAudioFile(ctx context.Context, sessionID, path, fileName string) error
	GetTranscript(ctx context.Context, sessionID string) (string, error)
	GetSummary(ctx context.Context, sessionID string) (string, error)
	GetSentiment(ctx context.Context, sessionID string) (string, error)
	AnswerQuestion(ctx context.Context, sessionID, question string) (string, error)
	ChatHistory(ctx context.Context, sessionID string) ([]model.Turn, error)
	Reset(ctx context.Context, sessionID string) error
}

// UploadService stores uploaded files until they have been processed
type UploadService interface {
	// Save writes the upload to disk. The returned cleanup removes it.
	Save(header *multipart.FileHeader) (path string, cleanup func(), err error)
}

// ProviderService reports transcription providers and the analysis backend
type ProviderService interface {
	ListProviders(ctx context.Context) (*dto.ProvidersResponse, error)
	GetProviderStatus(ctx context.Context, id string) (*dto.ProviderStatusResponse, error)
}

// HistoryService reads one session's processing history
type HistoryService interface {
	GetHistory(ctx context.Context, sessionID string, limit int) (*dto.HistoryResponse, error)
	Export(ctx context.Context, sessionID string, w io.Writer) error
}
