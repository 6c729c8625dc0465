// Package repository stores the history of processed files and analysis
// results.
package repository

import (
	"context"

	"voice-analysis-toolkit/internal/app/model"
)

// HistoryRepository records transcriptions and analyses
type HistoryRepository interface {
	// RecordTranscription inserts rec and sets its ID
	RecordTranscription(ctx context.Context, rec *model.TranscriptionRecord) error

	// RecordAnalysis inserts rec and sets its ID
	RecordAnalysis(ctx context.Context, rec *model.AnalysisRecord) error

	// ListTranscriptions returns a session's records newest first; an empty
	// sessionID returns every session's and limit <= 0 means all
	ListTranscriptions(ctx context.Context, sessionID string, limit int) ([]model.TranscriptionRecord, error)

	// ListAnalyses returns a session's analyses oldest first; an empty
	// sessionID returns every session's
	ListAnalyses(ctx context.Context, sessionID string) ([]model.AnalysisRecord, error)

	Close() error
}

// Noop is used when history is disabled
type Noop struct{}

func (Noop) RecordTranscription(context.Context, *model.TranscriptionRecord) error { return nil }
func (Noop) RecordAnalysis(context.Context, *model.AnalysisRecord) error           { return nil }
func (Noop) ListTranscriptions(context.Context, string, int) ([]model.TranscriptionRecord, error) {
	return []model.TranscriptionRecord{}, nil
}
func (Noop) ListAnalyses(context.Context, string) ([]model.AnalysisRecord, error) {
	return []model.AnalysisRecord{}, nil
}
func (Noop) Close() error { return nil }

// Rows is the subset of *sql.Rows the scanners need
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// ScanTranscriptions reads rows selected with TranscriptionColumns
func ScanTranscriptions(rows Rows) ([]model.TranscriptionRecord, error) {
	records := make([]model.TranscriptionRecord, 0)
	for rows.Next() {
		var r model.TranscriptionRecord
		if err := rows.Scan(&r.ID, &r.SessionID, &r.FileName, &r.FileSize, &r.AudioDuration,
			&r.Provider, &r.Model, &r.Transcript, &r.HasError, &r.ErrorMessage, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// ScanAnalyses reads rows selected with AnalysisColumns
func ScanAnalyses(rows Rows) ([]model.AnalysisRecord, error) {
	records := make([]model.AnalysisRecord, 0)
	for rows.Next() {
		var r model.AnalysisRecord
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Task, &r.Question, &r.Response, &r.Backend, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

const (
	TranscriptionColumns = `id, session_id, file_name, file_size, audio_duration, provider, model, transcript, has_error, error_message, created_at`
	AnalysisColumns      = `id, session_id, task, question, response, backend, created_at`
)
