package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"voice-analysis-toolkit/internal/app/api/llm"
	openaiclient "voice-analysis-toolkit/internal/app/api/openai"
	apperrors "voice-analysis-toolkit/internal/app/errors"
	"voice-analysis-toolkit/internal/config"
)

const Name = "openai"

// Backend sends each prompt as a single user message to the chat
// completions API
type Backend struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// New creates a chat backend. client may be nil when no key is configured.
func New(client *openai.Client, model string, logger *zap.Logger) *Backend {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{client: client, model: model, logger: logger.Named("openai_chat")}
}

func init() {
	llm.Register(Name, func(cfg *config.Config, logger *zap.Logger) (llm.Backend, error) {
		return New(openaiclient.NewClient(cfg.OpenAI), cfg.OpenAI.AnalysisModel, logger), nil
	})
}

func (b *Backend) Name() string  { return Name }
func (b *Backend) Model() string { return b.model }

func (b *Backend) Generate(ctx context.Context, prompt string) (string, error) {
	if b.client == nil {
		return "", apperrors.Analysis("OpenAI API key is not configured.", nil)
	}

	request := openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}
	resp, err := b.client.CreateChatCompletion(ctx, request)
	if err != nil {
		if status := statusCode(err); status != 0 {
			b.logger.Error("OpenAI API error during analysis", zap.Int("status", status), zap.Error(err))
			return "", apperrors.Analysis(fmt.Sprintf("An OpenAI API error occurred: %d", status), err)
		}
		b.logger.Error("An unexpected error occurred during OpenAI analysis", zap.Error(err))
		return "", apperrors.Analysis("An unexpected error occurred while using the OpenAI API.", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.Analysis("An unexpected error occurred while using the OpenAI API.", errors.New("no choices in response"))
	}

	return llm.Clean(resp.Choices[0].Message.Content), nil
}

func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

func (b *Backend) HealthCheck(ctx context.Context) error {
	if b.client == nil {
		return fmt.Errorf("OpenAI API key is not configured")
	}
	if _, err := b.client.GetModel(ctx, b.model); err != nil {
		return fmt.Errorf("OpenAI model %s unavailable: %w", b.model, err)
	}
	return nil
}
