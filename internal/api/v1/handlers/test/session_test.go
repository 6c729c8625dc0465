package test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"voice-analysis-toolkit/internal/api/errors"
	"voice-analysis-toolkit/internal/api/v1/dto"
	"voice-analysis-toolkit/internal/api/v1/handlers"
	"voice-analysis-toolkit/internal/app/api/provider"
	apperrors "voice-analysis-toolkit/internal/app/errors"
	"voice-analysis-toolkit/internal/app/testutil"
)

const irrelevantReply = "ERROR: The answer to this question cannot be found in the text."

func TestSessionHandler_Upload(t *testing.T) {
	tests := []struct {
		name            string
		fileName        string
		size            int
		noFile          bool
		setupMocks      func(*testEnv)
		expectedStatus  int
		expectedStatusF string
		messagePrefix   string
	}{
		{
			name:     "processed",
			fileName: "planning.mp3",
			size:     2048,
			setupMocks: func(e *testEnv) {
				e.provider.OnTranscribe("  " + testutil.SampleTranscript + "\n")
			},
			expectedStatus:  http.StatusOK,
			expectedStatusF: dto.StatusSuccess,
			messagePrefix:   handlers.MsgProcessed,
		},
		{
			name:            "no file",
			noFile:          true,
			expectedStatus:  http.StatusBadRequest,
			expectedStatusF: dto.StatusError,
			messagePrefix:   handlers.MsgUploadRequired,
		},
		{
			name:            "unsupported extension",
			fileName:        "notes.txt",
			size:            128,
			expectedStatus:  http.StatusUnprocessableEntity,
			expectedStatusF: dto.StatusError,
			messagePrefix:   "Error: Invalid file type.",
		},
		{
			name:            "too large",
			fileName:        "long.wav",
			size:            2 * 1024 * 1024,
			expectedStatus:  http.StatusUnprocessableEntity,
			expectedStatusF: dto.StatusError,
			messagePrefix:   "Error: File size of 2.00MB exceeds the 1MB limit.",
		},
		{
			name:     "transcription failure",
			fileName: "broken.m4a",
			size:     512,
			setupMocks: func(e *testEnv) {
				e.provider.On("TranscriptWithOptions", mock.Anything, mock.Anything).
					Return(nil, &provider.TranscriptionError{Code: "binary_failed", Message: "whisper exited with status 1"})
			},
			expectedStatus:  http.StatusBadGateway,
			expectedStatusF: dto.StatusError,
			messagePrefix:   "Error: An error occurred during transcription with whisper_cpp.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.setupMocks != nil {
				tt.setupMocks(env)
			}
			c := env.newClient()

			var w *httptest.ResponseRecorder
			if tt.noFile {
				w = c.post("/api/v1/audio", nil)
			} else {
				w = c.upload(t, tt.fileName, tt.size)
			}

			assert.Equal(t, tt.expectedStatus, w.Code)
			resp := decode[dto.ProcessResponse](t, w)
			assert.Equal(t, tt.expectedStatusF, resp.Status)
			assert.True(t, strings.HasPrefix(resp.Message, tt.messagePrefix), resp.Message)
			assert.Empty(t, resp.ChatHistory)

			entries, err := os.ReadDir(env.uploadDir)
			require.NoError(t, err)
			assert.Empty(t, entries, "uploads must be removed after processing")
		})
	}
}

func TestSessionHandler_UploadStoresTranscript(t *testing.T) {
	env := newTestEnv(t)
	env.provider.OnTranscribe(testutil.SampleTranscript)
	c := env.newClient()

	require.Equal(t, http.StatusOK, c.upload(t, "planning.mp3", 1024).Code)

	w := c.get("/api/v1/transcript")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testutil.SampleTranscript, decode[dto.ContentResponse](t, w).Content)

	records, err := env.history.ListTranscriptions(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "planning.mp3", records[0].FileName)
	assert.Equal(t, provider.NameWhisperCpp, records[0].Provider)
	assert.InDelta(t, 90.0, records[0].AudioDuration, 0.01)
}

func TestSessionHandler_RequiresTranscript(t *testing.T) {
	tests := []struct {
		name string
		call func(*client) *httptest.ResponseRecorder
	}{
		{"transcript", func(c *client) *httptest.ResponseRecorder { return c.get("/api/v1/transcript") }},
		{"summary", func(c *client) *httptest.ResponseRecorder { return c.post("/api/v1/summary", nil) }},
		{"sentiment", func(c *client) *httptest.ResponseRecorder { return c.post("/api/v1/sentiment", nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			w := tt.call(env.newClient())

			assert.Equal(t, http.StatusConflict, w.Code)
			apiErr := decode[errors.APIError](t, w)
			assert.Equal(t, errors.KindConflict, apiErr.Kind)
			assert.Equal(t, apperrors.MsgNoTranscript, apiErr.Message)
			env.backend.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
		})
	}
}

func TestSessionHandler_SummaryAndSentiment(t *testing.T) {
	env := newTestEnv(t)
	env.provider.OnTranscribe(testutil.SampleTranscript)
	env.backend.On("Generate", mock.Anything, testutil.PromptContains(testutil.SampleTranscript, "summar")).
		Return("The team planned a May launch.", nil).Once()
	env.backend.On("Generate", mock.Anything, testutil.PromptContains(testutil.SampleTranscript, "sentiment")).
		Return("  Positive. Growth and a clear owner.  ", nil).Once()
	c := env.newClient()
	require.Equal(t, http.StatusOK, c.upload(t, "planning.mp3", 1024).Code)

	w := c.post("/api/v1/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "The team planned a May launch.", decode[dto.ContentResponse](t, w).Content)

	w = c.post("/api/v1/sentiment", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Positive. Growth and a clear owner.", decode[dto.ContentResponse](t, w).Content)

	env.backend.AssertExpectations(t)
}

func TestSessionHandler_SummaryBackendFailure(t *testing.T) {
	env := newTestEnv(t)
	env.provider.OnTranscribe(testutil.SampleTranscript)
	env.backend.On("Generate", mock.Anything, mock.Anything).
		Return("", apperrors.Analysis("Could not reach the Ollama server.", nil))
	c := env.newClient()
	require.Equal(t, http.StatusOK, c.upload(t, "planning.mp3", 1024).Code)

	w := c.post("/api/v1/summary", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	apiErr := decode[errors.APIError](t, w)
	assert.Equal(t, errors.KindUpstream, apiErr.Kind)
	assert.Equal(t, "Could not reach the Ollama server.", apiErr.Message)
}

func TestSessionHandler_Question(t *testing.T) {
	env := newTestEnv(t)
	env.provider.OnTranscribe(testutil.SampleTranscript)
	env.backend.On("Generate", mock.Anything, testutil.PromptContains("When does the app ship?")).
		Return("In May.", nil).Once()
	env.backend.On("Generate", mock.Anything, testutil.PromptContains("What is the weather?")).
		Return(irrelevantReply, nil).Once()
	c := env.newClient()
	require.Equal(t, http.StatusOK, c.upload(t, "planning.mp3", 1024).Code)

	t.Run("answered", func(t *testing.T) {
		w := c.post("/api/v1/questions", dto.QuestionRequest{Question: "When does the app ship?"})
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[dto.QuestionResponse](t, w)
		assert.Empty(t, resp.Question)
		assert.Equal(t, []dto.ChatTurn{{Question: "When does the app ship?", Answer: "In May."}}, resp.ChatHistory)
	})

	t.Run("blank question leaves history unchanged", func(t *testing.T) {
		w := c.post("/api/v1/questions", dto.QuestionRequest{Question: "   "})
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[dto.QuestionResponse](t, w)
		assert.Empty(t, resp.Question)
		assert.Len(t, resp.ChatHistory, 1)
	})

	t.Run("unanswerable question shows a temporary error entry", func(t *testing.T) {
		w := c.post("/api/v1/questions", dto.QuestionRequest{Question: "What is the weather?"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decode[dto.QuestionResponse](t, w)
		assert.Equal(t, "What is the weather?", resp.Question)
		require.Len(t, resp.ChatHistory, 2)
		assert.Equal(t, dto.ChatTurn{
			Question: "What is the weather?",
			Answer:   "Error: " + apperrors.MsgIrrelevant,
		}, resp.ChatHistory[1])

		w = c.get("/api/v1/history")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[dto.ChatHistoryResponse](t, w).ChatHistory, 1)
	})

	t.Run("too long", func(t *testing.T) {
		w := c.post("/api/v1/questions", dto.QuestionRequest{Question: strings.Repeat("why ", 1001)})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		apiErr := decode[errors.APIError](t, w)
		assert.Equal(t, errors.KindValidation, apiErr.Kind)
		assert.Equal(t, "is too long", apiErr.Details["question"])
	})

	env.backend.AssertExpectations(t)
}

func TestSessionHandler_QuestionWithoutTranscript(t *testing.T) {
	env := newTestEnv(t)
	c := env.newClient()

	w := c.post("/api/v1/questions", dto.QuestionRequest{Question: "Who owns the launch?"})
	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decode[dto.QuestionResponse](t, w)
	assert.Equal(t, "Who owns the launch?", resp.Question)
	assert.Equal(t, []dto.ChatTurn{{
		Question: "Who owns the launch?",
		Answer:   "Error: " + apperrors.MsgNoTranscript,
	}}, resp.ChatHistory)
}

func TestSessionHandler_NewUploadClearsChatHistory(t *testing.T) {
	env := newTestEnv(t)
	env.provider.OnTranscribe(testutil.SampleTranscript)
	env.backend.On("Generate", mock.Anything, mock.Anything).Return("Maria.", nil)
	c := env.newClient()

	require.Equal(t, http.StatusOK, c.upload(t, "planning.mp3", 1024).Code)
	require.Equal(t, http.StatusOK, c.post("/api/v1/questions", dto.QuestionRequest{Question: "Who owns the launch?"}).Code)
	require.Len(t, decode[dto.ChatHistoryResponse](t, c.get("/api/v1/history")).ChatHistory, 1)

	require.Equal(t, http.StatusOK, c.upload(t, "followup.wav", 1024).Code)
	assert.Empty(t, decode[dto.ChatHistoryResponse](t, c.get("/api/v1/history")).ChatHistory)
}

func TestSessionHandler_Reset(t *testing.T) {
	env := newTestEnv(t)
	env.provider.OnTranscribe(testutil.SampleTranscript)
	c := env.newClient()
	require.Equal(t, http.StatusOK, c.upload(t, "planning.mp3", 1024).Code)

	w := c.do(httptest.NewRequest(http.MethodDelete, "/api/v1/session", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, http.StatusConflict, c.get("/api/v1/transcript").Code)
}

func TestSessionHandler_SessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t)
	env.provider.OnTranscribe(testutil.SampleTranscript)
	alice := env.newClient()
	bob := env.newClient()

	require.Equal(t, http.StatusOK, alice.upload(t, "planning.mp3", 1024).Code)
	assert.Equal(t, http.StatusConflict, bob.get("/api/v1/transcript").Code)
	assert.Equal(t, http.StatusOK, alice.get("/api/v1/transcript").Code)
	assert.NotEqual(t, alice.cookie.Value, bob.cookie.Value)
}
