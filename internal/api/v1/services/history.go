package services

import (
	"context"
	"io"

	"voice-analysis-toolkit/internal/api/v1/dto"
	"voice-analysis-toolkit/internal/app/converter/export"
	"voice-analysis-toolkit/internal/app/model"
	"voice-analysis-toolkit/internal/app/repository"
)

const defaultHistoryLimit = 50

// HistoryServiceImpl implements HistoryService
type HistoryServiceImpl struct {
	repo repository.HistoryRepository
}

func NewHistoryService(repo repository.HistoryRepository) HistoryService {
	return &HistoryServiceImpl{repo: repo}
}

// GetHistory returns the session's latest transcriptions and its analyses
func (s *HistoryServiceImpl) GetHistory(ctx context.Context, sessionID string, limit int) (*dto.HistoryResponse, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	transcriptions, analyses, err := s.load(ctx, sessionID, limit)
	if err != nil {
		return nil, err
	}
	return &dto.HistoryResponse{
		Transcriptions: dto.ToTranscriptionResponses(transcriptions),
		Analyses:       dto.ToAnalysisResponses(analyses),
	}, nil
}

// Export writes the session's full history as an xlsx workbook
func (s *HistoryServiceImpl) Export(ctx context.Context, sessionID string, w io.Writer) error {
	transcriptions, analyses, err := s.load(ctx, sessionID, 0)
	if err != nil {
		return err
	}
	return export.WriteExcel(transcriptions, analyses, w)
}

// load never widens to all sessions: the repositories treat an empty id as
// "every session"
func (s *HistoryServiceImpl) load(ctx context.Context, sessionID string, limit int) ([]model.TranscriptionRecord, []model.AnalysisRecord, error) {
	if sessionID == "" {
		return []model.TranscriptionRecord{}, []model.AnalysisRecord{}, nil
	}
	transcriptions, err := s.repo.ListTranscriptions(ctx, sessionID, limit)
	if err != nil {
		return nil, nil, err
	}
	analyses, err := s.repo.ListAnalyses(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return transcriptions, analyses, nil
}
