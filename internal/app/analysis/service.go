// Package analysis produces summaries, sentiment reports and answers from a
// transcript using an LLM backend.
package analysis

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"voice-analysis-toolkit/internal/app/api/llm"
	apperrors "voice-analysis-toolkit/internal/app/errors"
	"voice-analysis-toolkit/internal/app/model"
)

// Observer is notified of every analysis request
type Observer interface {
	AnalysisCompleted(task, backend, status string, elapsed time.Duration)
}

type Service struct {
	backend  llm.Backend
	prompts  *PromptSet
	observer Observer
	logger   *zap.Logger
}

// NewService creates an analysis service. observer may be nil.
func NewService(backend llm.Backend, prompts *PromptSet, observer Observer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		backend:  backend,
		prompts:  prompts,
		observer: observer,
		logger:   logger.Named("analysis"),
	}
}

// Backend returns the LLM backend in use
func (s *Service) Backend() llm.Backend {
	return s.backend
}

// Summarize generates a summary of text
func (s *Service) Summarize(ctx context.Context, text string) (string, error) {
	s.logger.Info("Summarization task requested")
	prompt, err := s.prompts.SummaryPrompt(text)
	if err != nil {
		return "", apperrors.Analysis("Failed to build the summary prompt.", err)
	}
	return s.run(ctx, model.TaskSummary, prompt)
}

// Sentiment classifies the sentiment of text with a justification
func (s *Service) Sentiment(ctx context.Context, text string) (string, error) {
	s.logger.Info("Sentiment analysis task requested")
	prompt, err := s.prompts.SentimentPrompt(text)
	if err != nil {
		return "", apperrors.Analysis("Failed to build the sentiment prompt.", err)
	}
	return s.run(ctx, model.TaskSentiment, prompt)
}

// AnswerQuestion answers question from text, using history for follow-ups
func (s *Service) AnswerQuestion(ctx context.Context, text, question string, history []model.Turn) (string, error) {
	s.logger.Info("Q&A task requested", zap.String("question", question), zap.Int("history_turns", len(history)))
	prompt, err := s.prompts.QuestionPrompt(text, question, history)
	if err != nil {
		return "", apperrors.Analysis("Failed to build the question prompt.", err)
	}

	answer, err := s.run(ctx, model.TaskQuestion, prompt)
	if err != nil {
		return "", err
	}

	if strings.Contains(answer, irrelevantMarker) {
		s.logger.Warn("Model indicated the question is unanswerable from the text", zap.String("question", question))
		return "", apperrors.IrrelevantQuestion(apperrors.MsgIrrelevant)
	}
	return answer, nil
}

func (s *Service) run(ctx context.Context, task, prompt string) (string, error) {
	start := time.Now()
	out, err := s.backend.Generate(ctx, prompt)

	status := "success"
	if err != nil {
		status = "error"
	}
	if s.observer != nil {
		s.observer.AnalysisCompleted(task, s.backend.Name(), status, time.Since(start))
	}

	if err != nil {
		if _, ok := apperrors.As(err); !ok {
			err = apperrors.Analysis("An unexpected error occurred during analysis.", err)
		}
		return "", err
	}

	s.logger.Info("Analysis successful",
		zap.String("task", task), zap.String("backend", s.backend.Name()), zap.Duration("elapsed", time.Since(start)))
	return strings.TrimSpace(out), nil
}
