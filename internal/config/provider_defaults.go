package config

import "time"

// Provider default configuration constants
const (
	DefaultWhisperCppTimeout = 300 * time.Second
	DefaultOpenAITimeout     = 120 * time.Second
	DefaultHTTPTimeout       = 120 * time.Second
	DefaultOllamaTimeout     = 180 * time.Second
	DefaultGeminiTimeout     = 60 * time.Second

	DefaultRetries      = 2
	DefaultRetryDelayMs = 1000

	DefaultOpenAIMaxRetries = 3
)

// ProviderDefaults holds the default limits for a provider
type ProviderDefaults struct {
	Timeout      time.Duration
	Retries      int
	RetryDelayMs int
}

// GetProviderDefaults returns default configuration for a given provider or
// backend name
func GetProviderDefaults(providerType string) ProviderDefaults {
	switch providerType {
	case TranscriptionWhisperCpp:
		return ProviderDefaults{
			Timeout:      DefaultWhisperCppTimeout,
			Retries:      DefaultRetries,
			RetryDelayMs: DefaultRetryDelayMs,
		}
	case TranscriptionOpenAI:
		return ProviderDefaults{
			Timeout:      DefaultOpenAITimeout,
			Retries:      DefaultOpenAIMaxRetries,
			RetryDelayMs: DefaultRetryDelayMs,
		}
	case TranscriptionWhisperServer:
		return ProviderDefaults{
			Timeout:      DefaultHTTPTimeout,
			Retries:      DefaultRetries,
			RetryDelayMs: DefaultRetryDelayMs,
		}
	case AnalysisOllama:
		return ProviderDefaults{
			Timeout:      DefaultOllamaTimeout,
			Retries:      0,
			RetryDelayMs: DefaultRetryDelayMs,
		}
	case AnalysisGemini:
		return ProviderDefaults{
			Timeout:      DefaultGeminiTimeout,
			Retries:      DefaultRetries,
			RetryDelayMs: DefaultRetryDelayMs,
		}
	default:
		return ProviderDefaults{
			Timeout:      60 * time.Second,
			Retries:      2,
			RetryDelayMs: 1000,
		}
	}
}
