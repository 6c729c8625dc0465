package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// OrchestratorConfig defines retry and fallback rules
type OrchestratorConfig struct {
	// FallbackChain is the order of providers to try after the requested one fails
	FallbackChain []string `yaml:"fallback_chain" json:"fallback_chain"`

	// MaxRetries is the number of extra attempts per provider for retryable errors
	MaxRetries int `yaml:"max_retries" json:"max_retries"`

	RetryDelay time.Duration `yaml:"retry_delay" json:"retry_delay"`

	// Timeout bounds a single provider attempt; zero means no limit
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// DefaultTranscriptionOrchestrator implements TranscriptionOrchestrator interface
type DefaultTranscriptionOrchestrator struct {
	registry ProviderRegistry
	metrics  ProviderMetrics
	config   OrchestratorConfig
	logger   *zap.Logger
	mu       sync.RWMutex
	stats    OrchestratorStats
}

// NewTranscriptionOrchestrator creates a new transcription orchestrator
func NewTranscriptionOrchestrator(registry ProviderRegistry, metrics ProviderMetrics, config OrchestratorConfig, logger *zap.Logger) *DefaultTranscriptionOrchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultTranscriptionOrchestrator{
		registry: registry,
		metrics:  metrics,
		config:   config,
		logger:   logger,
		stats: OrchestratorStats{
			ProviderUsage:    make(map[string]int64),
			ErrorsByProvider: make(map[string]int64),
		},
	}
}

// Transcribe uses the registry's default provider
func (o *DefaultTranscriptionOrchestrator) Transcribe(ctx context.Context, request *TranscriptionRequest) (*TranscriptionResponse, error) {
	name := o.registry.DefaultProviderName()
	if name == "" {
		return nil, &TranscriptionError{
			Code:    "no_provider",
			Message: "no transcription provider configured",
		}
	}
	return o.TranscribeWithProvider(ctx, name, request)
}

// TranscribeWithProvider transcribes with a specific provider, then walks the
// fallback chain if it fails
func (o *DefaultTranscriptionOrchestrator) TranscribeWithProvider(ctx context.Context, providerName string, request *TranscriptionRequest) (*TranscriptionResponse, error) {
	o.mu.Lock()
	o.stats.TotalRequests++
	o.mu.Unlock()

	candidates := []string{providerName}
	for _, name := range o.config.FallbackChain {
		if name != providerName {
			candidates = append(candidates, name)
		}
	}

	var lastErr error
	for i, name := range candidates {
		provider, err := o.registry.GetProvider(name)
		if err != nil {
			if i == 0 {
				o.metrics.RecordFailure(name, "provider_not_found")
				lastErr = err
			}
			continue
		}

		if i > 0 {
			o.logger.Warn("Falling back to next transcription provider",
				zap.String("failed", candidates[i-1]), zap.String("next", name))
		}

		start := time.Now()
		response, err := o.tryProvider(ctx, name, provider, request)
		if err == nil {
			o.metrics.RecordSuccess(name, time.Since(start).Milliseconds(), request.AudioDuration.Seconds())
			o.mu.Lock()
			o.stats.SuccessfulRequests++
			o.stats.ProviderUsage[name]++
			o.mu.Unlock()
			return response, nil
		}

		lastErr = err
		o.metrics.RecordFailure(name, ErrorCode(err))
		o.mu.Lock()
		o.stats.ErrorsByProvider[name]++
		o.mu.Unlock()

		if ctx.Err() != nil {
			break
		}
	}

	o.mu.Lock()
	o.stats.FailedRequests++
	o.mu.Unlock()

	if lastErr == nil {
		lastErr = fmt.Errorf("provider '%s' not found", providerName)
	}
	return nil, lastErr
}

// tryProvider attempts transcription with retry logic
func (o *DefaultTranscriptionOrchestrator) tryProvider(ctx context.Context, name string, provider TranscriptionProvider, request *TranscriptionRequest) (*TranscriptionResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= o.config.MaxRetries; attempt++ {
		if attempt > 0 {
			o.logger.Info("Retrying transcription",
				zap.String("provider", name), zap.Int("attempt", attempt), zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(o.config.RetryDelay):
			}
		}

		attemptCtx := ctx
		cancel := func() {}
		if o.config.Timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, o.config.Timeout)
		}
		response, err := provider.TranscriptWithOptions(attemptCtx, request)
		cancel()
		if err == nil {
			response.Provider = name
			return response, nil
		}

		lastErr = err
		if !IsRetryable(err) || ctx.Err() != nil {
			break
		}
	}

	return nil, lastErr
}

// GetStats returns a copy of the orchestrator statistics
func (o *DefaultTranscriptionOrchestrator) GetStats() OrchestratorStats {
	o.mu.RLock()
	defer o.mu.RUnlock()

	stats := o.stats
	stats.ProviderUsage = make(map[string]int64, len(o.stats.ProviderUsage))
	stats.ErrorsByProvider = make(map[string]int64, len(o.stats.ErrorsByProvider))
	for k, v := range o.stats.ProviderUsage {
		stats.ProviderUsage[k] = v
	}
	for k, v := range o.stats.ErrorsByProvider {
		stats.ErrorsByProvider[k] = v
	}
	return stats
}
