// Package controller coordinates validation, transcription and analysis for
// a user session.
package controller

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "voice-analysis-toolkit/internal/app/errors"
	"voice-analysis-toolkit/internal/app/model"
	"voice-analysis-toolkit/internal/app/repository"
	"voice-analysis-toolkit/internal/app/session"
	"voice-analysis-toolkit/internal/app/storage"
	"voice-analysis-toolkit/internal/app/transcription"
	"voice-analysis-toolkit/internal/app/validator"
)

// FileValidator checks an audio file before it is transcribed
type FileValidator interface {
	ValidateAudioFile(ctx context.Context, path string) (*validator.AudioInfo, error)
}

// Transcriber turns an audio file into text
type Transcriber interface {
	Transcribe(ctx context.Context, path string, duration time.Duration) (*transcription.Result, error)
}

// Analyzer runs LLM tasks over a transcript
type Analyzer interface {
	Summarize(ctx context.Context, text string) (string, error)
	Sentiment(ctx context.Context, text string) (string, error)
	AnswerQuestion(ctx context.Context, text, question string, history []model.Turn) (string, error)
}

// Dependencies groups what the controller needs. History and Archive may
// be nil.
type Dependencies struct {
	Store       session.Store
	Validator   FileValidator
	Transcriber Transcriber
	Analyzer    Analyzer
	BackendName string
	History     repository.HistoryRepository
	Archive     storage.Archiver
	Logger      *zap.Logger
}

// ProcessingController is stateless; session state lives in the store and
// each session's operations are serialized
type ProcessingController struct {
	store       session.Store
	locks       *session.Locker
	validator   FileValidator
	transcriber Transcriber
	analyzer    Analyzer
	backendName string
	history     repository.HistoryRepository
	archive     storage.Archiver
	logger      *zap.Logger
}

func New(deps Dependencies) *ProcessingController {
	if deps.History == nil {
		deps.History = repository.Noop{}
	}
	if deps.Archive == nil {
		deps.Archive = storage.NoopArchiver{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	c := &ProcessingController{
		store:       deps.Store,
		locks:       session.NewLocker(),
		validator:   deps.Validator,
		transcriber: deps.Transcriber,
		analyzer:    deps.Analyzer,
		backendName: deps.BackendName,
		history:     deps.History,
		archive:     deps.Archive,
		logger:      deps.Logger.Named("controller"),
	}
	c.logger.Info("ProcessingController initialized")
	return c
}

// ProcessAudioFile resets the session, validates the file at path and stores
// its transcript. fileName is the name the user uploaded; it defaults to the
// base name of path.
func (c *ProcessingController) ProcessAudioFile(ctx context.Context, sessionID, path, fileName string) error {
	unlock := c.locks.Lock(sessionID)
	defer unlock()

	if fileName == "" {
		fileName = filepath.Base(path)
	}
	log := c.logger.With(zap.String("session", sessionID), zap.String("file", fileName))

	err := c.processAudioFile(ctx, sessionID, path, fileName, log)
	if err == nil {
		return nil
	}
	if _, ok := apperrors.As(err); ok {
		log.Error("An application error occurred during processing", zap.Error(err))
		return err
	}
	log.Error("An unexpected critical error occurred", zap.Error(err))
	return apperrors.Wrap(err, apperrors.MsgUnexpected)
}

func (c *ProcessingController) processAudioFile(ctx context.Context, sessionID, path, fileName string, log *zap.Logger) error {
	sess, err := c.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	sess.Reset()
	if err := c.store.Save(ctx, sess); err != nil {
		return err
	}
	log.Info("Starting processing for audio file", zap.String("path", path))

	info, err := c.validator.ValidateAudioFile(ctx, path)
	if err != nil {
		return err
	}

	result, err := c.transcriber.Transcribe(ctx, path, info.Duration)
	if err != nil {
		c.recordTranscription(ctx, &model.TranscriptionRecord{
			SessionID:     sessionID,
			FileName:      fileName,
			FileSize:      info.Size,
			AudioDuration: info.Duration.Seconds(),
			HasError:      true,
			ErrorMessage:  apperrors.UserMessage(err),
		})
		return err
	}

	sess.FileName = fileName
	sess.Transcript = result.Text
	if err := c.store.Save(ctx, sess); err != nil {
		return err
	}
	log.Info("Successfully processed and transcribed file", zap.String("provider", result.Provider))

	c.recordTranscription(ctx, &model.TranscriptionRecord{
		SessionID:     sessionID,
		FileName:      fileName,
		FileSize:      info.Size,
		AudioDuration: info.Duration.Seconds(),
		Provider:      result.Provider,
		Model:         result.Model,
		Transcript:    result.Text,
	})
	if key, err := c.archive.ArchiveTranscript(ctx, sessionID, fileName, result.Text); err != nil {
		log.Warn("Failed to archive transcript", zap.Error(err))
	} else if key != "" {
		log.Debug("Archived transcript", zap.String("key", key))
	}
	return nil
}

// transcriptFor loads the session and applies the transcript guard
func (c *ProcessingController) transcriptFor(ctx context.Context, sessionID string) (*model.Session, error) {
	sess, err := c.store.Get(ctx, sessionID)
	if err != nil {
		c.logger.Error("Failed to load session", zap.String("session", sessionID), zap.Error(err))
		return nil, apperrors.Wrap(err, apperrors.MsgUnexpected)
	}
	if !sess.HasTranscript() {
		c.logger.Warn("Attempted to perform analysis before processing a file", zap.String("session", sessionID))
		return nil, apperrors.New(apperrors.MsgNoTranscript)
	}
	return sess, nil
}

// GetTranscript returns the stored transcript
func (c *ProcessingController) GetTranscript(ctx context.Context, sessionID string) (string, error) {
	unlock := c.locks.Lock(sessionID)
	defer unlock()

	sess, err := c.transcriptFor(ctx, sessionID)
	if err != nil {
		return "", err
	}
	c.logger.Info("Transcript requested by user", zap.String("session", sessionID))
	return sess.Transcript, nil
}

// GetSummary summarizes the session's transcript
func (c *ProcessingController) GetSummary(ctx context.Context, sessionID string) (string, error) {
	return c.analyze(ctx, sessionID, model.TaskSummary, c.analyzer.Summarize)
}

// GetSentiment analyzes the sentiment of the session's transcript
func (c *ProcessingController) GetSentiment(ctx context.Context, sessionID string) (string, error) {
	return c.analyze(ctx, sessionID, model.TaskSentiment, c.analyzer.Sentiment)
}

func (c *ProcessingController) analyze(ctx context.Context, sessionID, task string, run func(context.Context, string) (string, error)) (string, error) {
	unlock := c.locks.Lock(sessionID)
	defer unlock()

	sess, err := c.transcriptFor(ctx, sessionID)
	if err != nil {
		return "", err
	}
	c.logger.Info("Analysis requested by user", zap.String("session", sessionID), zap.String("task", task))

	out, err := run(ctx, sess.Transcript)
	if err != nil {
		return "", err
	}
	c.recordAnalysis(ctx, &model.AnalysisRecord{SessionID: sessionID, Task: task, Response: out})
	return out, nil
}

// AnswerQuestion answers question about the transcript and appends the turn
// to the chat history. Failed answers leave the history unchanged.
func (c *ProcessingController) AnswerQuestion(ctx context.Context, sessionID, question string) (string, error) {
	unlock := c.locks.Lock(sessionID)
	defer unlock()

	sess, err := c.transcriptFor(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(question) == "" {
		return "", apperrors.New(apperrors.MsgEmptyQuestion)
	}
	c.logger.Info("Question received from user", zap.String("session", sessionID), zap.String("question", question))

	answer, err := c.analyzer.AnswerQuestion(ctx, sess.Transcript, question, sess.HistoryCopy())
	if err != nil {
		return "", err
	}

	sess.AppendTurn(question, answer)
	if err := c.store.Save(ctx, sess); err != nil {
		c.logger.Error("Failed to save session", zap.String("session", sessionID), zap.Error(err))
		return "", apperrors.Wrap(err, apperrors.MsgUnexpected)
	}
	c.recordAnalysis(ctx, &model.AnalysisRecord{SessionID: sessionID, Task: model.TaskQuestion, Question: question, Response: answer})
	return answer, nil
}

// ChatHistory returns the session's answered questions
func (c *ProcessingController) ChatHistory(ctx context.Context, sessionID string) ([]model.Turn, error) {
	sess, err := c.store.Get(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.MsgUnexpected)
	}
	return sess.HistoryCopy(), nil
}

// Reset discards the session's transcript and history
func (c *ProcessingController) Reset(ctx context.Context, sessionID string) error {
	unlock := c.locks.Lock(sessionID)
	defer unlock()

	if err := c.store.Delete(ctx, sessionID); err != nil {
		return apperrors.Wrap(err, apperrors.MsgUnexpected)
	}
	c.logger.Info("Session reset", zap.String("session", sessionID))
	return nil
}

func (c *ProcessingController) recordTranscription(ctx context.Context, rec *model.TranscriptionRecord) {
	if err := c.history.RecordTranscription(ctx, rec); err != nil {
		c.logger.Warn("Failed to record transcription history", zap.Error(err))
	}
}

func (c *ProcessingController) recordAnalysis(ctx context.Context, rec *model.AnalysisRecord) {
	rec.Backend = c.backendName
	if err := c.history.RecordAnalysis(ctx, rec); err != nil {
		c.logger.Warn("Failed to record analysis history", zap.Error(err))
	}
}
