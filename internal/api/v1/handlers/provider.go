package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voice-analysis-toolkit/internal/api/middleware"
	"voice-analysis-toolkit/internal/api/v1/services"
)

// ProviderHandler handles provider-related API endpoints
type ProviderHandler struct {
	service services.ProviderService
}

func NewProviderHandler(service services.ProviderService) *ProviderHandler {
	return &ProviderHandler{service: service}
}

// List handles GET /api/v1/providers
//
// @Summary List transcription providers and the analysis backend
// @Description Health-checks every configured provider and the LLM backend and returns their usage statistics
// @Tags providers
// @Produce json
// @Success 200 {object} dto.ProvidersResponse
// @Failure 500 {object} errors.APIError "Internal server error"
// @Router /providers [get]
func (h *ProviderHandler) List(c *gin.Context) {
	providers, err := h.service.ListProviders(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, providers)
}

// GetStatus handles GET /api/v1/providers/:id/status
//
// @Summary Get provider health status
// @Tags providers
// @Produce json
// @Param id path string true "Provider ID" example(whisper_cpp)
// @Success 200 {object} dto.ProviderStatusResponse
// @Failure 404 {object} errors.APIError "Provider not found"
// @Router /providers/{id}/status [get]
func (h *ProviderHandler) GetStatus(c *gin.Context) {
	status, err := h.service.GetProviderStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
