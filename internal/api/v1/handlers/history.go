package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"voice-analysis-toolkit/internal/api/middleware"
	"voice-analysis-toolkit/internal/api/v1/dto"
	"voice-analysis-toolkit/internal/api/v1/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HistoryHandler serves the processing records kept in the history database
type HistoryHandler struct {
	service services.HistoryService
}

func NewHistoryHandler(service services.HistoryService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// List handles GET /api/v1/records
//
// @Summary List processing records
// @Description Latest transcriptions and the analyses of the current session
// @Tags records
// @Produce json
// @Param limit query int false "Maximum transcriptions" default(50) minimum(1) maximum(500)
// @Success 200 {object} dto.HistoryResponse
// @Failure 400 {object} errors.APIError "Invalid query parameters"
// @Router /records [get]
func (h *HistoryHandler) List(c *gin.Context) {
	var query dto.ListTranscriptionsQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.service.GetHistory(c.Request.Context(), middleware.GetSessionID(c), query.Limit)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Export handles GET /api/v1/records/export
//
// @Summary Download the current session's processing records as a spreadsheet
// @Tags records
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /records/export [get]
func (h *HistoryHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.service.Export(c.Request.Context(), middleware.GetSessionID(c), &buf); err != nil {
		middleware.HandleError(c, err)
		return
	}

	name := fmt.Sprintf("voice-analysis-history-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
