package dto

import (
	"time"

	"voice-analysis-toolkit/internal/app/api/provider"
)

// ProviderResponse represents a transcription provider in API responses
type ProviderResponse struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Description      string                 `json:"description"`
	Type             string                 `json:"type"`
	Available        bool                   `json:"available"`
	HealthStatus     string                 `json:"health_status"`
	HealthError      string                 `json:"health_error,omitempty"`
	ResponseTime     int64                  `json:"response_time_ms"`
	SupportedFormats []string               `json:"supported_formats"`
	RequiresAPIKey   bool                   `json:"requires_api_key"`
	IsDefault        bool                   `json:"is_default"`
	DefaultModel     string                 `json:"default_model,omitempty"`
	MaxFileSizeMB    int                    `json:"max_file_size_mb,omitempty"`
	Stats            provider.ProviderStats `json:"stats"`
}

// BackendResponse describes the LLM used for analysis
type BackendResponse struct {
	Name         string `json:"name"`
	Model        string `json:"model"`
	HealthStatus string `json:"health_status"`
	HealthError  string `json:"health_error,omitempty"`
}

type ProvidersResponse struct {
	Providers    []ProviderResponse         `json:"providers"`
	Backend      BackendResponse            `json:"backend"`
	Overall      provider.OverallStats      `json:"overall"`
	Orchestrator provider.OrchestratorStats `json:"orchestrator"`
	CheckedAt    time.Time                  `json:"checked_at"`
}

// ProviderStatusResponse is the result of a single health check
type ProviderStatusResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	ResponseTime int64     `json:"response_time_ms"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CheckedAt    time.Time `json:"checked_at"`
}

// HealthStatus maps a health check result to its label
func HealthStatus(err error) (string, string) {
	if err != nil {
		return "unhealthy", err.Error()
	}
	return "healthy", ""
}

// ToProviderResponse converts provider info to the response DTO
func ToProviderResponse(info provider.ProviderInfo, health provider.HealthResult, isDefault bool, stats provider.ProviderStats) ProviderResponse {
	formats := make([]string, len(info.SupportedFormats))
	for i, f := range info.SupportedFormats {
		formats[i] = string(f)
	}

	description := info.DisplayName
	if info.Type == provider.ProviderTypeLocal {
		description += " (local)"
	} else if info.Type == provider.ProviderTypeRemote {
		description += " (remote API)"
	}

	status, healthError := HealthStatus(health.Err)
	return ProviderResponse{
		ID:               info.Name,
		Name:             info.DisplayName,
		Description:      description,
		Type:             string(info.Type),
		Available:        health.Healthy(),
		HealthStatus:     status,
		HealthError:      healthError,
		ResponseTime:     health.Latency.Milliseconds(),
		SupportedFormats: formats,
		RequiresAPIKey:   info.RequiresAPIKey,
		IsDefault:        isDefault,
		DefaultModel:     info.DefaultModel,
		MaxFileSizeMB:    info.MaxFileSizeMB,
		Stats:            stats,
	}
}
