package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"voice-analysis-toolkit/internal/app/model"
	"voice-analysis-toolkit/internal/app/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS transcriptions (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id     TEXT     NOT NULL,
	file_name      TEXT     NOT NULL,
	file_size      INTEGER  NOT NULL DEFAULT 0,
	audio_duration REAL     NOT NULL DEFAULT 0,
	provider       TEXT     NOT NULL DEFAULT '',
	model          TEXT     NOT NULL DEFAULT '',
	transcript     TEXT     NOT NULL DEFAULT '',
	has_error      BOOLEAN  NOT NULL DEFAULT 0,
	error_message  TEXT     NOT NULL DEFAULT '',
	created_at     DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transcriptions_created_at ON transcriptions (created_at);

CREATE TABLE IF NOT EXISTS analyses (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT     NOT NULL,
	task       TEXT     NOT NULL,
	question   TEXT     NOT NULL DEFAULT '',
	response   TEXT     NOT NULL,
	backend    TEXT     NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_session ON analyses (session_id);
`

// SQLiteDB is the default history store
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (creating if needed) the database file and its schema
func NewSQLiteDB(dbFilePath string) (*SQLiteDB, error) {
	if dir := filepath.Dir(dbFilePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", dbFilePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return &SQLiteDB{db: db}, nil
}

func (sdb *SQLiteDB) Close() error {
	return sdb.db.Close()
}

func (sdb *SQLiteDB) RecordTranscription(ctx context.Context, rec *model.TranscriptionRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	res, err := sdb.db.ExecContext(ctx,
		`INSERT INTO transcriptions (session_id, file_name, file_size, audio_duration, provider, model, transcript, has_error, error_message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.FileName, rec.FileSize, rec.AudioDuration, rec.Provider, rec.Model,
		rec.Transcript, rec.HasError, rec.ErrorMessage, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert transcription: %w", err)
	}
	rec.ID, err = res.LastInsertId()
	return err
}

func (sdb *SQLiteDB) RecordAnalysis(ctx context.Context, rec *model.AnalysisRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	res, err := sdb.db.ExecContext(ctx,
		`INSERT INTO analyses (session_id, task, question, response, backend, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.Task, rec.Question, rec.Response, rec.Backend, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	rec.ID, err = res.LastInsertId()
	return err
}

func (sdb *SQLiteDB) ListTranscriptions(ctx context.Context, sessionID string, limit int) ([]model.TranscriptionRecord, error) {
	query := `SELECT ` + repository.TranscriptionColumns + ` FROM transcriptions`
	args := []any{}
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := sdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()
	return repository.ScanTranscriptions(rows)
}

func (sdb *SQLiteDB) ListAnalyses(ctx context.Context, sessionID string) ([]model.AnalysisRecord, error) {
	query := `SELECT ` + repository.AnalysisColumns + ` FROM analyses`
	args := []any{}
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY created_at, id`

	rows, err := sdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()
	return repository.ScanAnalyses(rows)
}
