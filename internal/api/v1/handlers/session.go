package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"voice-analysis-toolkit/internal/api/errors"
	"voice-analysis-toolkit/internal/api/middleware"
	"voice-analysis-toolkit/internal/api/v1/dto"
	"voice-analysis-toolkit/internal/api/v1/services"
	"voice-analysis-toolkit/internal/app/common"
)

const (
	MsgUploadRequired  = "Please upload a file to begin."
	MsgProcessed       = "File processed successfully. Ready for analysis."
	errorMessagePrefix = "Error: "
)

// SessionHandler serves the upload and analysis endpoints of one browser
// session
type SessionHandler struct {
	sessions services.SessionService
	uploads  services.UploadService
}

func NewSessionHandler(sessions services.SessionService, uploads services.UploadService) *SessionHandler {
	return &SessionHandler{sessions: sessions, uploads: uploads}
}

// Upload handles POST /api/v1/audio
//
// @Summary Upload and transcribe an audio file
// @Description Validates the file, transcribes it and stores the transcript in the session. Any previous transcript and chat history are discarded.
// @Tags session
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Audio file"
// @Success 200 {object} dto.ProcessResponse "File processed"
// @Failure 400 {object} dto.ProcessResponse "No file uploaded"
// @Failure 422 {object} dto.ProcessResponse "File rejected by validation"
// @Failure 502 {object} dto.ProcessResponse "Transcription failed"
// @Router /audio [post]
func (h *SessionHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, processResponse(dto.StatusError, MsgUploadRequired))
		return
	}

	path, cleanup, err := h.uploads.Save(header)
	if err != nil {
		_ = c.Error(err)
		common.LoggerFrom(c.Request.Context()).Error("Failed to store upload", zap.Error(err))
		apiErr := errors.FromError(err)
		c.JSON(apiErr.HTTPStatus(), processResponse(dto.StatusError, errorMessagePrefix+apiErr.Message))
		return
	}
	defer cleanup()

	if err := h.sessions.ProcessAudioFile(c.Request.Context(), middleware.GetSessionID(c), path, header.Filename); err != nil {
		_ = c.Error(err)
		apiErr := errors.FromError(err)
		c.JSON(apiErr.HTTPStatus(), processResponse(dto.StatusError, errorMessagePrefix+apiErr.Message))
		return
	}

	c.JSON(http.StatusOK, processResponse(dto.StatusSuccess, MsgProcessed))
}

func processResponse(status, message string) dto.ProcessResponse {
	return dto.ProcessResponse{Status: status, Message: message, ChatHistory: []dto.ChatTurn{}}
}

// Transcript handles GET /api/v1/transcript
//
// @Summary Get the transcript
// @Tags session
// @Produce json
// @Success 200 {object} dto.ContentResponse
// @Failure 409 {object} errors.APIError "No audio file processed yet"
// @Router /transcript [get]
func (h *SessionHandler) Transcript(c *gin.Context) {
	h.content(c, h.sessions.GetTranscript)
}

// Summary handles POST /api/v1/summary
//
// @Summary Summarize the transcript
// @Tags session
// @Produce json
// @Success 200 {object} dto.ContentResponse
// @Failure 409 {object} errors.APIError "No audio file processed yet"
// @Failure 502 {object} errors.APIError "Analysis backend failed"
// @Router /summary [post]
func (h *SessionHandler) Summary(c *gin.Context) {
	h.content(c, h.sessions.GetSummary)
}

// Sentiment handles POST /api/v1/sentiment
//
// @Summary Analyze the sentiment of the transcript
// @Tags session
// @Produce json
// @Success 200 {object} dto.ContentResponse
// @Failure 409 {object} errors.APIError "No audio file processed yet"
// @Failure 502 {object} errors.APIError "Analysis backend failed"
// @Router /sentiment [post]
func (h *SessionHandler) Sentiment(c *gin.Context) {
	h.content(c, h.sessions.GetSentiment)
}

func (h *SessionHandler) content(c *gin.Context, get func(ctx context.Context, sessionID string) (string, error)) {
	content, err := get(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ContentResponse{Content: content})
}

// Question handles POST /api/v1/questions
//
// @Summary Ask a question about the transcript
// @Description A blank question leaves the history unchanged. A failed answer is shown as a temporary chat entry and the question is echoed back.
// @Tags session
// @Accept json
// @Produce json
// @Param question body dto.QuestionRequest true "Question"
// @Success 200 {object} dto.QuestionResponse
// @Failure 409 {object} dto.QuestionResponse "No audio file processed yet"
// @Failure 422 {object} dto.QuestionResponse "Question cannot be answered from the audio"
// @Router /questions [post]
func (h *SessionHandler) Question(c *gin.Context) {
	var req dto.QuestionRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	ctx := c.Request.Context()
	sessionID := middleware.GetSessionID(c)

	history, err := h.sessions.ChatHistory(ctx, sessionID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusOK, dto.QuestionResponse{Question: "", ChatHistory: dto.ToChatTurns(history)})
		return
	}

	if _, err := h.sessions.AnswerQuestion(ctx, sessionID, req.Question); err != nil {
		_ = c.Error(err)
		apiErr := errors.FromError(err)
		turns := append(dto.ToChatTurns(history), dto.ChatTurn{
			Question: req.Question,
			Answer:   errorMessagePrefix + apiErr.Message,
		})
		c.JSON(apiErr.HTTPStatus(), dto.QuestionResponse{Question: req.Question, ChatHistory: turns})
		return
	}

	history, err = h.sessions.ChatHistory(ctx, sessionID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.QuestionResponse{Question: "", ChatHistory: dto.ToChatTurns(history)})
}

// ChatHistory handles GET /api/v1/history
//
// @Summary Get the chat history of the session
// @Tags session
// @Produce json
// @Success 200 {object} dto.ChatHistoryResponse
// @Router /history [get]
func (h *SessionHandler) ChatHistory(c *gin.Context) {
	history, err := h.sessions.ChatHistory(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ChatHistoryResponse{ChatHistory: dto.ToChatTurns(history)})
}

// Reset handles DELETE /api/v1/session
//
// @Summary Discard the transcript and chat history
// @Tags session
// @Success 204
// @Router /session [delete]
func (h *SessionHandler) Reset(c *gin.Context) {
	if err := h.sessions.Reset(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
