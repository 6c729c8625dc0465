package provider

import (
	"context"
)

// TranscriptionProvider is a speech-to-text engine. Implementations must be
// safe for concurrent use.
type TranscriptionProvider interface {
	// Transcribe a local audio file
	TranscriptWithOptions(ctx context.Context, request *TranscriptionRequest) (*TranscriptionResponse, error)

	// Provider metadata and capabilities
	GetProviderInfo() ProviderInfo

	// Static configuration check, run at registration
	ValidateConfiguration() error

	// Verify the provider is reachable and functioning
	HealthCheck(ctx context.Context) error
}

// ProviderRegistry manages multiple transcription providers
type ProviderRegistry interface {
	RegisterProvider(name string, provider TranscriptionProvider) error
	GetProvider(name string) (TranscriptionProvider, error)
	ListProviders() []string
	GetDefaultProvider() (TranscriptionProvider, error)
	SetDefaultProvider(name string) error
	DefaultProviderName() string
	HealthCheckAll(ctx context.Context) map[string]HealthResult
}

// TranscriptionOrchestrator routes requests to providers with retry and fallback
type TranscriptionOrchestrator interface {
	// Transcribe with the default provider, falling back along the chain
	Transcribe(ctx context.Context, request *TranscriptionRequest) (*TranscriptionResponse, error)

	// Transcribe with a specific provider, falling back along the chain
	TranscribeWithProvider(ctx context.Context, providerName string, request *TranscriptionRequest) (*TranscriptionResponse, error)

	GetStats() OrchestratorStats
}

// OrchestratorStats provides statistics about transcription operations
type OrchestratorStats struct {
	TotalRequests      int64            `json:"total_requests"`
	SuccessfulRequests int64            `json:"successful_requests"`
	FailedRequests     int64            `json:"failed_requests"`
	ProviderUsage      map[string]int64 `json:"provider_usage"`
	ErrorsByProvider   map[string]int64 `json:"errors_by_provider"`
}

// ProviderMetrics records per-provider performance
type ProviderMetrics interface {
	RecordSuccess(provider string, latencyMs int64, audioLengthSec float64)
	RecordFailure(provider string, errorType string)
	GetProviderMetrics(provider string) ProviderStats
	GetOverallMetrics() OverallStats
}

// ProviderStats contains statistics for a specific provider
type ProviderStats struct {
	Provider            string           `json:"provider"`
	TotalRequests       int64            `json:"total_requests"`
	SuccessfulRequests  int64            `json:"successful_requests"`
	FailedRequests      int64            `json:"failed_requests"`
	SuccessRate         float64          `json:"success_rate"`
	AverageLatencyMs    float64          `json:"average_latency_ms"`
	TotalAudioProcessed float64          `json:"total_audio_processed_sec"`
	LastUsed            int64            `json:"last_used_timestamp"`
	IsHealthy           bool             `json:"is_healthy"`
	ErrorBreakdown      map[string]int64 `json:"error_breakdown"`
}

// OverallStats contains overall transcription statistics
type OverallStats struct {
	TotalProviders       int                      `json:"total_providers"`
	TotalRequests        int64                    `json:"total_requests"`
	SuccessfulRequests   int64                    `json:"successful_requests"`
	OverallSuccessRate   float64                  `json:"overall_success_rate"`
	FastestProvider      string                   `json:"fastest_provider"`
	MostReliableProvider string                   `json:"most_reliable_provider"`
	ProviderStats        map[string]ProviderStats `json:"provider_stats"`
}
