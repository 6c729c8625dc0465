package provider

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"voice-analysis-toolkit/internal/config"
)

// ProviderCreator builds a provider from the application configuration.
// logger is never nil.
type ProviderCreator func(cfg *config.Config, logger *zap.Logger) (TranscriptionProvider, error)

var (
	creatorsMu sync.RWMutex
	creators   = make(map[string]ProviderCreator)
)

// RegisterProvider makes a provider type available to BuildRegistry.
// Provider packages call it from init.
func RegisterProvider(providerType string, creator ProviderCreator) {
	creatorsMu.Lock()
	defer creatorsMu.Unlock()
	creators[providerType] = creator
}

// GetProviderCreator returns the creator registered for providerType
func GetProviderCreator(providerType string) (ProviderCreator, error) {
	creatorsMu.RLock()
	defer creatorsMu.RUnlock()

	creator, ok := creators[providerType]
	if !ok {
		return nil, fmt.Errorf("provider type '%s' is not registered", providerType)
	}
	return creator, nil
}

// ListRegisteredProviders returns all registered provider types
func ListRegisteredProviders() []string {
	creatorsMu.RLock()
	defer creatorsMu.RUnlock()

	names := make([]string, 0, len(creators))
	for name := range creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildRegistry creates the configured provider and every fallback provider,
// registering the configured one as the default
func BuildRegistry(cfg *config.Config, logger *zap.Logger) (*DefaultProviderRegistry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := NewProviderRegistry()

	names := append([]string{cfg.TranscriptionProvider()}, cfg.Providers.Fallback...)
	for _, name := range names {
		if _, err := registry.GetProvider(name); err == nil {
			continue
		}
		creator, err := GetProviderCreator(name)
		if err != nil {
			return nil, err
		}
		p, err := creator(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create provider '%s': %w", name, err)
		}
		if err := registry.RegisterProvider(name, p); err != nil {
			return nil, fmt.Errorf("failed to register provider '%s': %w", name, err)
		}
	}

	return registry, nil
}

// OrchestratorConfigFrom maps the application configuration
func OrchestratorConfigFrom(cfg *config.Config) OrchestratorConfig {
	return OrchestratorConfig{
		FallbackChain: cfg.Providers.Fallback,
		MaxRetries:    cfg.Providers.MaxRetries,
		RetryDelay:    cfg.Providers.RetryDelay,
		Timeout:       cfg.Providers.Timeout,
	}
}
