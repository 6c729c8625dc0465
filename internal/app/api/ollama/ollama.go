// Package ollama runs analysis prompts against a local Ollama server.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"

	"voice-analysis-toolkit/internal/app/api/llm"
	apperrors "voice-analysis-toolkit/internal/app/errors"
	"voice-analysis-toolkit/internal/config"
)

const Name = "ollama"

// Backend generates completions with the Ollama generate endpoint
type Backend struct {
	client *api.Client
	model  string
	logger *zap.Logger
}

// New creates an Ollama backend for the server at baseURL
func New(baseURL *url.URL, model string, httpClient *http.Client, logger *zap.Logger) *Backend {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{
		client: api.NewClient(baseURL, httpClient),
		model:  model,
		logger: logger.Named("ollama"),
	}
}

func init() {
	llm.Register(Name, func(cfg *config.Config, logger *zap.Logger) (llm.Backend, error) {
		u, err := cfg.OllamaURL()
		if err != nil {
			return nil, err
		}
		return New(u, cfg.Ollama.Model, &http.Client{Timeout: cfg.Providers.Timeout}, logger), nil
	})
}

func (b *Backend) Name() string  { return Name }
func (b *Backend) Model() string { return b.model }

// Generate sends a non-streaming generate request
func (b *Backend) Generate(ctx context.Context, prompt string) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:  b.model,
		Prompt: prompt,
		Stream: &stream,
	}

	var out strings.Builder
	err := b.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		out.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", b.classify(err)
	}

	return llm.Clean(out.String()), nil
}

// HealthCheck pings the Ollama server
func (b *Backend) HealthCheck(ctx context.Context) error {
	if err := b.client.Heartbeat(ctx); err != nil {
		return fmt.Errorf("ollama server unreachable: %w", err)
	}
	return nil
}

// classify maps client errors to analysis errors. The client reports an
// error field in the response body as a plain error, so anything that is
// not a transport failure is treated as the API's own answer.
func (b *Backend) classify(err error) error {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		b.logger.Error("Ollama API error", zap.Int("status", statusErr.StatusCode), zap.String("error", statusErr.ErrorMessage))
		return apperrors.Analysis(fmt.Sprintf("An error occurred with the Ollama API: %s", statusErr.ErrorMessage), err)
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		b.logger.Error("An unexpected error occurred with Ollama", zap.Error(err))
		return apperrors.Analysis("An unexpected error occurred while communicating with the Ollama server.", err)
	}

	b.logger.Error("Ollama API error", zap.Error(err))
	return apperrors.Analysis(fmt.Sprintf("An error occurred with the Ollama API: %s", err.Error()), err)
}
