// Package gemini runs analysis prompts against the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"voice-analysis-toolkit/internal/app/api/llm"
	apperrors "voice-analysis-toolkit/internal/app/errors"
	"voice-analysis-toolkit/internal/config"
)

const Name = "gemini"

type Backend struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// Options tune client construction; BaseURL is used by tests
type Options struct {
	APIKey  string
	Model   string
	BaseURL string
}

func New(ctx context.Context, opts Options, logger *zap.Logger) (*Backend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cc := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Backend{client: client, model: opts.Model, logger: logger.Named("gemini")}, nil
}

func init() {
	llm.Register(Name, func(cfg *config.Config, logger *zap.Logger) (llm.Backend, error) {
		return New(context.Background(), Options{APIKey: cfg.Gemini.APIKey, Model: cfg.Gemini.Model}, logger)
	})
}

func (b *Backend) Name() string  { return Name }
func (b *Backend) Model() string { return b.model }

func (b *Backend) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(prompt), nil)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			b.logger.Error("Gemini API error", zap.Int("status", apiErr.Code), zap.String("message", apiErr.Message))
			return "", apperrors.Analysis(fmt.Sprintf("A Gemini API error occurred: %d", apiErr.Code), err)
		}
		b.logger.Error("An unexpected error occurred with Gemini", zap.Error(err))
		return "", apperrors.Analysis("An unexpected error occurred while using the Gemini API.", err)
	}
	return llm.Clean(resp.Text()), nil
}

// HealthCheck fetches the configured model's metadata
func (b *Backend) HealthCheck(ctx context.Context) error {
	if _, err := b.client.Models.Get(ctx, b.model, nil); err != nil {
		return fmt.Errorf("gemini model %s unavailable: %w", b.model, err)
	}
	return nil
}
