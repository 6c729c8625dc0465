package provider

import (
	"sync"
	"time"
)

// Observer receives every recorded transcription outcome. The Prometheus
// collectors implement it.
type Observer interface {
	TranscriptionSucceeded(provider string, latency time.Duration)
	TranscriptionFailed(provider string, errorType string)
}

// DefaultProviderMetrics implements ProviderMetrics interface
type DefaultProviderMetrics struct {
	mu            sync.RWMutex
	providerStats map[string]*ProviderStats
	observer      Observer
}

// NewProviderMetrics creates a new provider metrics instance. observer may be nil.
func NewProviderMetrics(observer Observer) *DefaultProviderMetrics {
	return &DefaultProviderMetrics{
		providerStats: make(map[string]*ProviderStats),
		observer:      observer,
	}
}

// RecordSuccess records a successful transcription
func (m *DefaultProviderMetrics) RecordSuccess(provider string, latencyMs int64, audioLengthSec float64) {
	if m.observer != nil {
		m.observer.TranscriptionSucceeded(provider, time.Duration(latencyMs)*time.Millisecond)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stats := m.getOrCreateStats(provider)
	stats.TotalRequests++
	stats.SuccessfulRequests++
	stats.TotalAudioProcessed += audioLengthSec
	stats.LastUsed = time.Now().Unix()
	stats.IsHealthy = true

	// Weighted average favoring recent results
	if stats.AverageLatencyMs == 0 {
		stats.AverageLatencyMs = float64(latencyMs)
	} else {
		stats.AverageLatencyMs = (stats.AverageLatencyMs * 0.8) + (float64(latencyMs) * 0.2)
	}

	stats.SuccessRate = float64(stats.SuccessfulRequests) / float64(stats.TotalRequests)
}

// RecordFailure records a failed transcription
func (m *DefaultProviderMetrics) RecordFailure(provider string, errorType string) {
	if m.observer != nil {
		m.observer.TranscriptionFailed(provider, errorType)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stats := m.getOrCreateStats(provider)
	stats.TotalRequests++
	stats.FailedRequests++
	stats.LastUsed = time.Now().Unix()
	stats.ErrorBreakdown[errorType]++
	stats.SuccessRate = float64(stats.SuccessfulRequests) / float64(stats.TotalRequests)

	if stats.TotalRequests >= 10 && stats.SuccessRate < 0.5 {
		stats.IsHealthy = false
	}
}

// GetProviderMetrics returns metrics for a specific provider
func (m *DefaultProviderMetrics) GetProviderMetrics(provider string) ProviderStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats, ok := m.providerStats[provider]
	if !ok {
		return ProviderStats{Provider: provider, ErrorBreakdown: map[string]int64{}}
	}
	return copyStats(stats)
}

// GetOverallMetrics returns overall metrics across all providers
func (m *DefaultProviderMetrics) GetOverallMetrics() OverallStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var totalRequests, successfulRequests int64
	var fastestProvider, mostReliableProvider string
	var fastestLatency, highestReliability float64

	providerStats := make(map[string]ProviderStats, len(m.providerStats))

	for name, stats := range m.providerStats {
		totalRequests += stats.TotalRequests
		successfulRequests += stats.SuccessfulRequests
		providerStats[name] = copyStats(stats)

		if stats.AverageLatencyMs > 0 && (fastestLatency == 0 || stats.AverageLatencyMs < fastestLatency) {
			fastestLatency = stats.AverageLatencyMs
			fastestProvider = name
		}

		// Reliability only counts with meaningful volume
		if stats.TotalRequests >= 5 && stats.SuccessRate > highestReliability {
			highestReliability = stats.SuccessRate
			mostReliableProvider = name
		}
	}

	var overallSuccessRate float64
	if totalRequests > 0 {
		overallSuccessRate = float64(successfulRequests) / float64(totalRequests)
	}

	return OverallStats{
		TotalProviders:       len(m.providerStats),
		TotalRequests:        totalRequests,
		SuccessfulRequests:   successfulRequests,
		OverallSuccessRate:   overallSuccessRate,
		FastestProvider:      fastestProvider,
		MostReliableProvider: mostReliableProvider,
		ProviderStats:        providerStats,
	}
}

// must be called with lock held
func (m *DefaultProviderMetrics) getOrCreateStats(provider string) *ProviderStats {
	stats, exists := m.providerStats[provider]
	if !exists {
		stats = &ProviderStats{
			Provider:       provider,
			ErrorBreakdown: make(map[string]int64),
		}
		m.providerStats[provider] = stats
	}
	return stats
}

func copyStats(stats *ProviderStats) ProviderStats {
	c := *stats
	c.ErrorBreakdown = make(map[string]int64, len(stats.ErrorBreakdown))
	for k, v := range stats.ErrorBreakdown {
		c.ErrorBreakdown[k] = v
	}
	return c
}
