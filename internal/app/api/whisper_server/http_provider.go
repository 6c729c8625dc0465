package whisper_server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"voice-analysis-toolkit/internal/app/api/provider"
)

// WhisperServerProvider transcribes through the HTTP API of a whisper.cpp
// server instance
type WhisperServerProvider struct {
	config WhisperServerConfig
	client *http.Client
}

// WhisperServerConfig represents configuration for whisper-server HTTP API
type WhisperServerConfig struct {
	BaseURL        string            `yaml:"base_url"`        // e.g. "http://whisper:8080"
	InferencePath  string            `yaml:"inference_path"`  // default "/inference"
	Timeout        time.Duration     `yaml:"timeout"`
	Language       string            `yaml:"language"`
	ResponseFormat string            `yaml:"response_format"` // json or text
	Temperature    float64           `yaml:"temperature"`
	CustomHeaders  map[string]string `yaml:"custom_headers"`
}

// WhisperServerResponse represents the JSON response from whisper-server
type WhisperServerResponse struct {
	Text     string                 `json:"text,omitempty"`
	Language string                 `json:"language,omitempty"`
	Duration float64                `json:"duration,omitempty"`
	Segments []WhisperServerSegment `json:"segments,omitempty"`
}

// WhisperServerSegment represents a segment in verbose response
type WhisperServerSegment struct {
	ID    int     `json:"id"`
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// NewWhisperServerProvider creates a new whisper-server HTTP provider
func NewWhisperServerProvider(config WhisperServerConfig) *WhisperServerProvider {
	if config.InferencePath == "" {
		config.InferencePath = "/inference"
	}
	if config.Timeout == 0 {
		config.Timeout = 120 * time.Second
	}
	if config.ResponseFormat == "" {
		config.ResponseFormat = "json"
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &WhisperServerProvider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

func (wsp *WhisperServerProvider) fail(code, message string, retryable bool) *provider.TranscriptionError {
	return &provider.TranscriptionError{
		Code:      code,
		Message:   message,
		Provider:  provider.NameWhisperServer,
		Retryable: retryable,
	}
}

// TranscriptWithOptions uploads the file to the server's inference endpoint
func (wsp *WhisperServerProvider) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	startTime := time.Now()

	if request.InputFilePath == "" {
		return nil, wsp.fail("invalid_input", "input file path is required", false)
	}
	if _, err := os.Stat(request.InputFilePath); os.IsNotExist(err) {
		return nil, wsp.fail("file_not_found", fmt.Sprintf("input file not found: %s", request.InputFilePath), false)
	}

	language := wsp.config.Language
	if request.Language != "" {
		language = request.Language
	}

	body, contentType, err := wsp.createMultipartForm(request.InputFilePath, language, request.Prompt)
	if err != nil {
		return nil, wsp.fail("form_creation_failed", fmt.Sprintf("failed to create multipart form: %v", err), false)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, wsp.config.BaseURL+wsp.config.InferencePath, body)
	if err != nil {
		return nil, wsp.fail("request_creation_failed", fmt.Sprintf("failed to create HTTP request: %v", err), false)
	}
	httpReq.Header.Set("Content-Type", contentType)
	for key, value := range wsp.config.CustomHeaders {
		httpReq.Header.Set(key, value)
	}

	resp, err := wsp.client.Do(httpReq)
	if err != nil {
		return nil, wsp.fail("request_failed", fmt.Sprintf("HTTP request failed: %v", err), true)
	}
	defer resp.Body.Close()

	responseData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wsp.fail("response_read_failed", fmt.Sprintf("failed to read response: %v", err), true)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, wsp.fail("api_error",
			fmt.Sprintf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(responseData))),
			resp.StatusCode >= 500)
	}

	parsed, err := wsp.parseResponse(responseData)
	if err != nil {
		return nil, wsp.fail("response_parse_failed", fmt.Sprintf("failed to parse response: %v", err), false)
	}

	text := strings.TrimSpace(parsed.Text)
	if text == "" {
		terr := wsp.fail("empty_transcription", "no transcription text found in response", false)
		terr.Suggestions = []string{"Check audio file format", "Verify whisper-server is running correctly"}
		return nil, terr
	}

	if parsed.Language != "" {
		language = parsed.Language
	}

	return &provider.TranscriptionResponse{
		Text:           text,
		Language:       language,
		Duration:       time.Duration(parsed.Duration * float64(time.Second)),
		ProcessingTime: time.Since(startTime),
		ModelUsed:      "whisper-server",
		ProviderMetadata: map[string]interface{}{
			"base_url":        wsp.config.BaseURL,
			"response_format": wsp.config.ResponseFormat,
			"segments_count":  len(parsed.Segments),
		},
	}, nil
}

func (wsp *WhisperServerProvider) createMultipartForm(path, language, prompt string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("failed to copy file content: %w", err)
	}

	params := map[string]string{
		"response_format": wsp.config.ResponseFormat,
		"temperature":     fmt.Sprintf("%.2f", wsp.config.Temperature),
	}
	if language != "" {
		params["language"] = language
	}
	if prompt != "" {
		params["prompt"] = prompt
	}
	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}

func (wsp *WhisperServerProvider) parseResponse(data []byte) (*WhisperServerResponse, error) {
	if wsp.config.ResponseFormat == "text" {
		return &WhisperServerResponse{Text: string(data)}, nil
	}

	var resp WhisperServerResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	if resp.Text == "" && len(resp.Segments) > 0 {
		parts := make([]string, 0, len(resp.Segments))
		for _, seg := range resp.Segments {
			parts = append(parts, strings.TrimSpace(seg.Text))
		}
		resp.Text = strings.Join(parts, " ")
	}
	return &resp, nil
}

// GetProviderInfo returns provider metadata
func (wsp *WhisperServerProvider) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:        provider.NameWhisperServer,
		DisplayName: "Whisper Server (HTTP)",
		Type:        provider.ProviderTypeRemote,
		SupportedFormats: []provider.AudioFormat{
			provider.FormatWAV, provider.FormatMP3, provider.FormatM4A, provider.FormatFLAC, provider.FormatOGG,
		},
		RequiresInternet: true,
		DefaultModel:     "whisper-server",
	}
}

// ValidateConfiguration checks the server URL and response format
func (wsp *WhisperServerProvider) ValidateConfiguration() error {
	if wsp.config.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if !strings.HasPrefix(wsp.config.BaseURL, "http://") && !strings.HasPrefix(wsp.config.BaseURL, "https://") {
		return fmt.Errorf("base_url must start with http:// or https://")
	}
	switch wsp.config.ResponseFormat {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported response_format %q", wsp.config.ResponseFormat)
	}
	return nil
}

// HealthCheck verifies the server answers on its base URL
func (wsp *WhisperServerProvider) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wsp.config.BaseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}
	resp, err := wsp.client.Do(req)
	if err != nil {
		return fmt.Errorf("whisper-server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("whisper-server unhealthy: status %d", resp.StatusCode)
	}
	return nil
}
