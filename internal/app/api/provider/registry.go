package provider

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ErrProviderNotFound is wrapped by lookups of unregistered names
var ErrProviderNotFound = errors.New("not found")

// HealthResult is one provider's answer to a health probe
type HealthResult struct {
	Err       error
	Latency   time.Duration
	CheckedAt time.Time
}

// Healthy reports whether the probe succeeded
func (h HealthResult) Healthy() bool { return h.Err == nil }

// DefaultProviderRegistry implements ProviderRegistry interface
type DefaultProviderRegistry struct {
	mu        sync.RWMutex
	providers map[string]TranscriptionProvider
	default_  string
}

// NewProviderRegistry creates a new provider registry
func NewProviderRegistry() *DefaultProviderRegistry {
	return &DefaultProviderRegistry{
		providers: make(map[string]TranscriptionProvider),
	}
}

// RegisterProvider registers a new transcription provider. The first provider
// registered becomes the default.
func (r *DefaultProviderRegistry) RegisterProvider(name string, provider TranscriptionProvider) error {
	if name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}
	if provider == nil {
		return fmt.Errorf("provider cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider '%s' already registered", name)
	}

	if err := provider.ValidateConfiguration(); err != nil {
		return fmt.Errorf("provider validation failed: %w", err)
	}

	r.providers[name] = provider
	if r.default_ == "" {
		r.default_ = name
	}

	return nil
}

// GetProvider retrieves a provider by name
func (r *DefaultProviderRegistry) GetProvider(name string) (TranscriptionProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[name]
	if !exists {
		return nil, fmt.Errorf("provider '%s' %w", name, ErrProviderNotFound)
	}

	return provider, nil
}

// ListProviders returns the sorted names of all registered providers
func (r *DefaultProviderRegistry) ListProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetDefaultProvider returns the default provider
func (r *DefaultProviderRegistry) GetDefaultProvider() (TranscriptionProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.default_ == "" {
		return nil, fmt.Errorf("no default provider set")
	}

	provider, exists := r.providers[r.default_]
	if !exists {
		return nil, fmt.Errorf("default provider '%s' %w", r.default_, ErrProviderNotFound)
	}

	return provider, nil
}

// DefaultProviderName returns the name of the default provider
func (r *DefaultProviderRegistry) DefaultProviderName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.default_
}

// SetDefaultProvider sets the default provider
func (r *DefaultProviderRegistry) SetDefaultProvider(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; !exists {
		return fmt.Errorf("provider '%s' %w", name, ErrProviderNotFound)
	}

	r.default_ = name
	return nil
}

// HealthCheckAll probes every registered provider concurrently and times
// each probe
func (r *DefaultProviderRegistry) HealthCheckAll(ctx context.Context) map[string]HealthResult {
	r.mu.RLock()
	providers := make(map[string]TranscriptionProvider, len(r.providers))
	for name, provider := range r.providers {
		providers[name] = provider
	}
	r.mu.RUnlock()

	results := make(map[string]HealthResult, len(providers))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, provider := range providers {
		wg.Add(1)
		go func(name string, provider TranscriptionProvider) {
			defer wg.Done()
			result := CheckHealth(ctx, provider)

			mu.Lock()
			results[name] = result
			mu.Unlock()
		}(name, provider)
	}

	wg.Wait()
	return results
}

// CheckHealth runs a single timed health probe
func CheckHealth(ctx context.Context, provider TranscriptionProvider) HealthResult {
	start := time.Now()
	err := provider.HealthCheck(ctx)
	return HealthResult{Err: err, Latency: time.Since(start), CheckedAt: time.Now()}
}
