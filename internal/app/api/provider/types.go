package provider

import (
	"errors"
	"path/filepath"
	"strings"
	"time"
)

// AudioFormat defines supported audio formats
type AudioFormat string

const (
	FormatWAV  AudioFormat = "wav"
	FormatMP3  AudioFormat = "mp3"
	FormatM4A  AudioFormat = "m4a"
	FormatFLAC AudioFormat = "flac"
	FormatOGG  AudioFormat = "ogg"
	FormatWEBM AudioFormat = "webm"
)

// ProviderType defines where a provider runs
type ProviderType string

const (
	ProviderTypeLocal  ProviderType = "local"
	ProviderTypeRemote ProviderType = "remote"
)

// TranscriptionRequest describes one transcription job
type TranscriptionRequest struct {
	InputFilePath string `json:"input_file_path"`

	Language string `json:"language,omitempty"` // "en", "auto", ...
	Model    string `json:"model,omitempty"`    // provider-specific model ID
	Prompt   string `json:"prompt,omitempty"`

	// Known audio length, used for metrics
	AudioDuration time.Duration `json:"audio_duration,omitempty"`
}

// TranscriptionResponse is a provider's result
type TranscriptionResponse struct {
	Text     string        `json:"text"`
	Language string        `json:"language,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`

	Provider         string                 `json:"provider"`
	ModelUsed        string                 `json:"model_used,omitempty"`
	ProcessingTime   time.Duration          `json:"processing_time,omitempty"`
	ProviderMetadata map[string]interface{} `json:"provider_metadata,omitempty"`
}

// ProviderInfo contains metadata about a transcription provider
type ProviderInfo struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"display_name"`
	Type        ProviderType `json:"type"`

	SupportedFormats []AudioFormat `json:"supported_formats"`
	MaxFileSizeMB    int           `json:"max_file_size_mb,omitempty"` // 0 means no limit

	RequiresInternet bool `json:"requires_internet"`
	RequiresAPIKey   bool `json:"requires_api_key"`
	RequiresBinary   bool `json:"requires_binary"`

	DefaultModel string `json:"default_model,omitempty"`
}

// TranscriptionError represents provider-specific errors
type TranscriptionError struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Provider    string   `json:"provider"`
	Retryable   bool     `json:"retryable"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (e *TranscriptionError) Error() string {
	return e.Message
}

// IsRetryable reports whether err is worth another attempt. Errors that are not
// TranscriptionErrors are assumed transient.
func IsRetryable(err error) bool {
	var transcriptErr *TranscriptionError
	if errors.As(err, &transcriptErr) {
		return transcriptErr.Retryable
	}
	return true
}

// ErrorCode returns the provider error code, or "unknown_error"
func ErrorCode(err error) string {
	var transcriptErr *TranscriptionError
	if errors.As(err, &transcriptErr) && transcriptErr.Code != "" {
		return transcriptErr.Code
	}
	return "unknown_error"
}

// GetAudioFormatFromFilename extracts audio format from filename
func GetAudioFormatFromFilename(filename string) AudioFormat {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav":
		return FormatWAV
	case ".mp3":
		return FormatMP3
	case ".m4a":
		return FormatM4A
	case ".flac":
		return FormatFLAC
	case ".ogg":
		return FormatOGG
	case ".webm":
		return FormatWEBM
	default:
		return ""
	}
}

// Provider names
const (
	NameWhisperCpp    = "whisper_cpp"
	NameWhisperServer = "whisper_server"
	NameOpenAI        = "openai"
)
