package services

import (
	"context"
	stderrors "errors"
	"time"

	"voice-analysis-toolkit/internal/api/errors"
	"voice-analysis-toolkit/internal/api/v1/dto"
	"voice-analysis-toolkit/internal/app/api/llm"
	"voice-analysis-toolkit/internal/app/api/provider"
)

// ProviderServiceImpl implements ProviderService
type ProviderServiceImpl struct {
	registry     provider.ProviderRegistry
	metrics      provider.ProviderMetrics
	orchestrator provider.TranscriptionOrchestrator
	backend      llm.Backend
}

func NewProviderService(
	registry provider.ProviderRegistry,
	metrics provider.ProviderMetrics,
	orchestrator provider.TranscriptionOrchestrator,
	backend llm.Backend,
) ProviderService {
	return &ProviderServiceImpl{
		registry:     registry,
		metrics:      metrics,
		orchestrator: orchestrator,
		backend:      backend,
	}
}

// ListProviders health-checks every provider and the backend and attaches
// the usage metrics collected so far
func (s *ProviderServiceImpl) ListProviders(ctx context.Context) (*dto.ProvidersResponse, error) {
	health := s.registry.HealthCheckAll(ctx)
	defaultName := s.registry.DefaultProviderName()

	names := s.registry.ListProviders()
	providers := make([]dto.ProviderResponse, 0, len(names))
	for _, name := range names {
		p, err := s.registry.GetProvider(name)
		if err != nil {
			continue
		}
		providers = append(providers, dto.ToProviderResponse(
			p.GetProviderInfo(),
			health[name],
			name == defaultName,
			s.metrics.GetProviderMetrics(name),
		))
	}

	resp := &dto.ProvidersResponse{
		Providers:    providers,
		Overall:      s.metrics.GetOverallMetrics(),
		Orchestrator: s.orchestrator.GetStats(),
		CheckedAt:    time.Now(),
	}
	if s.backend != nil {
		status, msg := dto.HealthStatus(s.backend.HealthCheck(ctx))
		resp.Backend = dto.BackendResponse{
			Name:         s.backend.Name(),
			Model:        s.backend.Model(),
			HealthStatus: status,
			HealthError:  msg,
		}
	}
	return resp, nil
}

// GetProviderStatus gets the health status of a provider
func (s *ProviderServiceImpl) GetProviderStatus(ctx context.Context, id string) (*dto.ProviderStatusResponse, error) {
	p, err := s.registry.GetProvider(id)
	if stderrors.Is(err, provider.ErrProviderNotFound) {
		return nil, errors.NewNotFoundError("provider")
	}
	if err != nil {
		return nil, err
	}

	health := provider.CheckHealth(ctx, p)
	status, msg := dto.HealthStatus(health.Err)

	return &dto.ProviderStatusResponse{
		ID:           id,
		Name:         p.GetProviderInfo().DisplayName,
		Status:       status,
		ResponseTime: health.Latency.Milliseconds(),
		ErrorMessage: msg,
		CheckedAt:    health.CheckedAt,
	}, nil
}
