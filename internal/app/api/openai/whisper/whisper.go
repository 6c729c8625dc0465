package whisper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"voice-analysis-toolkit/internal/app/api/provider"
)

// Config configures the OpenAI Whisper provider
type Config struct {
	Model    string
	Language string
	Prompt   string
}

// RemoteTranscriber transcribes through the OpenAI audio API
type RemoteTranscriber struct {
	client *openai.Client
	config Config
}

// NewRemoteTranscriber creates a RemoteTranscriber. client may be nil when
// no API key is configured; ValidateConfiguration then fails.
func NewRemoteTranscriber(client *openai.Client, config Config) *RemoteTranscriber {
	if config.Model == "" {
		config.Model = openai.Whisper1
	}
	return &RemoteTranscriber{client: client, config: config}
}

// TranscriptWithOptions uploads the file to the transcription endpoint
func (rt *RemoteTranscriber) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	startTime := time.Now()

	if rt.client == nil {
		return nil, &provider.TranscriptionError{
			Code:        "authentication_failed",
			Message:     "OpenAI API key is not configured.",
			Provider:    provider.NameOpenAI,
			Suggestions: []string{"Set OPENAI_API_KEY"},
		}
	}
	if request.InputFilePath == "" {
		return nil, &provider.TranscriptionError{
			Code:     "invalid_input",
			Message:  "input file path is required",
			Provider: provider.NameOpenAI,
		}
	}
	if _, err := os.Stat(request.InputFilePath); os.IsNotExist(err) {
		return nil, &provider.TranscriptionError{
			Code:     "file_not_found",
			Message:  fmt.Sprintf("input file not found: %s", request.InputFilePath),
			Provider: provider.NameOpenAI,
		}
	}

	model := rt.config.Model
	if request.Model != "" {
		model = request.Model
	}
	audioRequest := openai.AudioRequest{
		Model:    model,
		FilePath: request.InputFilePath,
		Language: firstNonEmpty(request.Language, rt.config.Language),
		Prompt:   firstNonEmpty(request.Prompt, rt.config.Prompt),
	}

	resp, err := rt.client.CreateTranscription(ctx, audioRequest)
	if err != nil {
		return nil, handleAPIError(err)
	}

	return &provider.TranscriptionResponse{
		Text:           strings.TrimSpace(resp.Text),
		Language:       resp.Language,
		Duration:       time.Duration(resp.Duration * float64(time.Second)),
		ProcessingTime: time.Since(startTime),
		ModelUsed:      model,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// handleAPIError converts OpenAI API errors to TranscriptionError
func handleAPIError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch status {
	case 0:
		return &provider.TranscriptionError{
			Code:      "unknown_error",
			Message:   fmt.Sprintf("An unexpected error occurred while using the OpenAI API: %v", err),
			Provider:  provider.NameOpenAI,
			Retryable: true,
		}
	case 401:
		return &provider.TranscriptionError{
			Code:        "authentication_failed",
			Message:     "An OpenAI API error occurred: 401",
			Provider:    provider.NameOpenAI,
			Suggestions: []string{"Check your OPENAI_API_KEY environment variable"},
		}
	case 429:
		return &provider.TranscriptionError{
			Code:        "rate_limit_exceeded",
			Message:     "An OpenAI API error occurred: 429",
			Provider:    provider.NameOpenAI,
			Retryable:   true,
			Suggestions: []string{"Wait before retrying", "Check your OpenAI usage limits"},
		}
	case 413:
		return &provider.TranscriptionError{
			Code:        "file_too_large",
			Message:     "An OpenAI API error occurred: 413",
			Provider:    provider.NameOpenAI,
			Suggestions: []string{"Use a file smaller than 25MB"},
		}
	case 400:
		return &provider.TranscriptionError{
			Code:        "invalid_file",
			Message:     "An OpenAI API error occurred: 400",
			Provider:    provider.NameOpenAI,
			Suggestions: []string{"Check the audio file format"},
		}
	default:
		return &provider.TranscriptionError{
			Code:      "api_error",
			Message:   fmt.Sprintf("An OpenAI API error occurred: %d", status),
			Provider:  provider.NameOpenAI,
			Retryable: status >= 500,
		}
	}
}

// GetProviderInfo returns provider metadata
func (rt *RemoteTranscriber) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:        provider.NameOpenAI,
		DisplayName: "OpenAI Whisper API",
		Type:        provider.ProviderTypeRemote,
		SupportedFormats: []provider.AudioFormat{
			provider.FormatMP3, provider.FormatWAV, provider.FormatM4A, provider.FormatFLAC, provider.FormatOGG, provider.FormatWEBM,
		},
		MaxFileSizeMB:    25,
		RequiresInternet: true,
		RequiresAPIKey:   true,
		DefaultModel:     rt.config.Model,
	}
}

// ValidateConfiguration checks that a client exists
func (rt *RemoteTranscriber) ValidateConfiguration() error {
	if rt.client == nil {
		return fmt.Errorf("OpenAI API key is not configured")
	}
	return nil
}

// HealthCheck lists models to verify the key and connectivity
func (rt *RemoteTranscriber) HealthCheck(ctx context.Context) error {
	if rt.client == nil {
		return fmt.Errorf("OpenAI API key is not configured")
	}
	if _, err := rt.client.ListModels(ctx); err != nil {
		return fmt.Errorf("OpenAI API health check failed: %w", err)
	}
	return nil
}
