package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	apperrors "voice-analysis-toolkit/internal/app/errors"
)

var (
	validModelProviders         = []string{ModelProviderLocal, ModelProviderOpenAI}
	validTranscriptionProviders = []string{TranscriptionWhisperCpp, TranscriptionWhisperServer, TranscriptionOpenAI}
	validAnalysisProviders      = []string{AnalysisOllama, AnalysisOpenAI, AnalysisGemini}
	validSessionStores          = []string{SessionStoreMemory, SessionStoreRedis}
	validLogLevels              = []string{"debug", "info", "warn", "error"}
)

// Validate checks the configuration and returns the first problem as a
// config error.
func (c *Config) Validate() error {
	if !lo.Contains(validModelProviders, c.Providers.ModelProvider) {
		return apperrors.Config("Invalid model provider '%s' specified in config.", c.Providers.ModelProvider)
	}

	transcription := c.TranscriptionProvider()
	if !lo.Contains(validTranscriptionProviders, transcription) {
		return apperrors.Config("invalid TRANSCRIPTION_PROVIDER %q, must be one of %v", transcription, validTranscriptionProviders)
	}
	for _, name := range c.Providers.Fallback {
		if !lo.Contains(validTranscriptionProviders, name) {
			return apperrors.Config("invalid TRANSCRIPTION_FALLBACK entry %q", name)
		}
	}

	analysis := c.AnalysisProvider()
	if !lo.Contains(validAnalysisProviders, analysis) {
		return apperrors.Config("invalid ANALYSIS_PROVIDER %q, must be one of %v", analysis, validAnalysisProviders)
	}

	if err := c.validateProviderSettings(transcription, analysis); err != nil {
		return apperrors.Config("%v", err)
	}

	if c.Limits.MaxFileSizeMB <= 0 {
		return apperrors.Config("MAX_FILE_SIZE_MB must be positive")
	}
	if c.Limits.MaxFileLengthMins <= 0 {
		return apperrors.Config("MAX_FILE_LENGTH_MINS must be positive")
	}
	if len(c.Limits.AllowedExtensions) == 0 {
		return apperrors.Config("ALLOWED_FILE_EXTENSIONS must not be empty")
	}

	if err := ValidateTimeout(c.Providers.Timeout, "provider"); err != nil {
		return apperrors.Config("%v", err)
	}
	if err := ValidateRetries(c.Providers.MaxRetries, "provider"); err != nil {
		return apperrors.Config("%v", err)
	}
	if err := ValidateRetryDelay(int(c.Providers.RetryDelay/time.Millisecond), "provider"); err != nil {
		return apperrors.Config("%v", err)
	}
	if err := ValidatePort(c.Server.Port, "server"); err != nil {
		return apperrors.Config("%v", err)
	}

	if !lo.Contains(validSessionStores, c.Session.Store) {
		return apperrors.Config("invalid SESSION_STORE %q, must be one of %v", c.Session.Store, validSessionStores)
	}
	if c.Session.Store == SessionStoreRedis && c.Session.RedisURL == "" {
		return apperrors.Config("REDIS_URL is required when SESSION_STORE=redis")
	}
	if c.Session.TTL <= 0 {
		return apperrors.Config("SESSION_TTL must be positive")
	}

	if !lo.Contains(validLogLevels, c.Log.Level) {
		return apperrors.Config("invalid LOG_LEVEL %q, must be one of %v", c.Log.Level, validLogLevels)
	}

	if c.Archive.Enabled && (c.Archive.AccessKey == "" || c.Archive.SecretKey == "") {
		return apperrors.Config("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when ARCHIVE_ENABLED=true")
	}

	return nil
}

func (c *Config) validateProviderSettings(transcription, analysis string) error {
	needsOpenAI := transcription == TranscriptionOpenAI || analysis == AnalysisOpenAI ||
		lo.Contains(c.Providers.Fallback, TranscriptionOpenAI)
	if needsOpenAI {
		if err := c.validateOpenAI(); err != nil {
			return err
		}
	}
	if analysis == AnalysisGemini {
		if err := ValidateAPIKey(c.Gemini.APIKey, "Gemini"); err != nil {
			return err
		}
	}

	for _, name := range append([]string{transcription}, c.Providers.Fallback...) {
		switch name {
		case TranscriptionWhisperCpp:
			if c.Whisper.Binary == "" {
				return fmt.Errorf("WHISPER_CPP_BINARY is required for the whisper_cpp provider")
			}
			if c.Whisper.Model == "" {
				return fmt.Errorf("WHISPER_CPP_MODEL is required for the whisper_cpp provider")
			}
		case TranscriptionWhisperServer:
			if err := ValidateURL(c.Whisper.ServerURL, "WHISPER_SERVER"); err != nil {
				return err
			}
		}
	}

	if analysis == AnalysisOllama {
		if _, err := c.OllamaURL(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTimeout validates timeout duration
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s timeout must be positive", name)
	}
	if timeout > 30*time.Minute {
		return fmt.Errorf("%s timeout too large (max 30 minutes)", name)
	}
	return nil
}

// ValidateRetries validates retry count
func ValidateRetries(retries int, name string) error {
	if retries < 0 {
		return fmt.Errorf("%s retries cannot be negative", name)
	}
	if retries > 10 {
		return fmt.Errorf("%s retries too high (max 10)", name)
	}
	return nil
}

// ValidateRetryDelay validates retry delay
func ValidateRetryDelay(delayMs int, name string) error {
	if delayMs < 0 {
		return fmt.Errorf("%s retry delay cannot be negative", name)
	}
	if delayMs > 60000 {
		return fmt.Errorf("%s retry delay too high (max 60 seconds)", name)
	}
	return nil
}

// validateOpenAI checks the key format only against api.openai.com;
// OpenAI-compatible servers behind OPENAI_BASE_URL issue their own keys
func (c *Config) validateOpenAI() error {
	if c.OpenAI.BaseURL == "" {
		return ValidateAPIKey(c.OpenAI.APIKey, "OpenAI")
	}
	if err := ValidateURL(c.OpenAI.BaseURL, "OPENAI_BASE"); err != nil {
		return err
	}
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OpenAI API key is required")
	}
	return nil
}

// ValidateAPIKey validates API key format
func ValidateAPIKey(apiKey string, keyType string) error {
	if apiKey == "" {
		return fmt.Errorf("%s API key is required", keyType)
	}

	switch keyType {
	case "OpenAI":
		if !strings.HasPrefix(apiKey, "sk-") {
			return fmt.Errorf("invalid OpenAI API key format: must start with 'sk-'")
		}
		if len(apiKey) < 20 {
			return fmt.Errorf("invalid OpenAI API key format: too short")
		}
	case "Gemini":
		if !strings.HasPrefix(apiKey, "AIza") {
			return fmt.Errorf("invalid Gemini API key format: must start with 'AIza'")
		}
		if len(apiKey) < 30 {
			return fmt.Errorf("invalid Gemini API key format: too short")
		}
	}

	return nil
}

// ValidateURL validates URL format
func ValidateURL(url string, name string) error {
	if url == "" {
		return fmt.Errorf("%s URL is required", name)
	}

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("%s URL must start with http:// or https://", name)
	}

	return nil
}

// ValidatePort validates port number
func ValidatePort(port string, name string) error {
	if port == "" {
		return fmt.Errorf("%s port is required", name)
	}
	if len(port) > 5 || strings.Trim(port, "0123456789") != "" {
		return fmt.Errorf("%s port invalid", name)
	}
	return nil
}
