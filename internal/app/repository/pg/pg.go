package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"voice-analysis-toolkit/internal/app/model"
	"voice-analysis-toolkit/internal/app/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS transcriptions (
	id             BIGSERIAL PRIMARY KEY,
	session_id     TEXT             NOT NULL,
	file_name      TEXT             NOT NULL,
	file_size      BIGINT           NOT NULL DEFAULT 0,
	audio_duration DOUBLE PRECISION NOT NULL DEFAULT 0,
	provider       TEXT             NOT NULL DEFAULT '',
	model          TEXT             NOT NULL DEFAULT '',
	transcript     TEXT             NOT NULL DEFAULT '',
	has_error      BOOLEAN          NOT NULL DEFAULT FALSE,
	error_message  TEXT             NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ      NOT NULL
);
CREATE TABLE IF NOT EXISTS analyses (
	id         BIGSERIAL PRIMARY KEY,
	session_id TEXT        NOT NULL,
	task       TEXT        NOT NULL,
	question   TEXT        NOT NULL DEFAULT '',
	response   TEXT        NOT NULL,
	backend    TEXT        NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_session ON analyses (session_id);
`

// PostgresDB stores history in PostgreSQL
type PostgresDB struct {
	db *sql.DB
}

// NewPostgresDB opens a connection pool for connectionString. The
// connection is not verified until Migrate or the first query.
func NewPostgresDB(connectionString string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &PostgresDB{db: db}, nil
}

// Migrate creates the tables if they do not exist
func (p *PostgresDB) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

func (p *PostgresDB) Close() error {
	return p.db.Close()
}

func (p *PostgresDB) RecordTranscription(ctx context.Context, rec *model.TranscriptionRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO transcriptions (session_id, file_name, file_size, audio_duration, provider, model, transcript, has_error, error_message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		rec.SessionID, rec.FileName, rec.FileSize, rec.AudioDuration, rec.Provider, rec.Model,
		rec.Transcript, rec.HasError, rec.ErrorMessage, rec.CreatedAt).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("failed to insert transcription: %w", err)
	}
	return nil
}

func (p *PostgresDB) RecordAnalysis(ctx context.Context, rec *model.AnalysisRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO analyses (session_id, task, question, response, backend, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		rec.SessionID, rec.Task, rec.Question, rec.Response, rec.Backend, rec.CreatedAt).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

func (p *PostgresDB) ListTranscriptions(ctx context.Context, sessionID string, limit int) ([]model.TranscriptionRecord, error) {
	query := `SELECT ` + repository.TranscriptionColumns + ` FROM transcriptions`
	args := []any{}
	if sessionID != "" {
		args = append(args, sessionID)
		query += fmt.Sprintf(` WHERE session_id = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()
	return repository.ScanTranscriptions(rows)
}

func (p *PostgresDB) ListAnalyses(ctx context.Context, sessionID string) ([]model.AnalysisRecord, error) {
	query := `SELECT ` + repository.AnalysisColumns + ` FROM analyses`
	args := []any{}
	if sessionID != "" {
		query += ` WHERE session_id = $1`
		args = append(args, sessionID)
	}
	query += ` ORDER BY created_at, id`

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()
	return repository.ScanAnalyses(rows)
}
