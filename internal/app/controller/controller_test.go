package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "voice-analysis-toolkit/internal/app/errors"
	"voice-analysis-toolkit/internal/app/model"
	"voice-analysis-toolkit/internal/app/session"
	"voice-analysis-toolkit/internal/app/transcription"
	"voice-analysis-toolkit/internal/app/validator"
)

type mockValidator struct{ mock.Mock }

func (m *mockValidator) ValidateAudioFile(ctx context.Context, path string) (*validator.AudioInfo, error) {
	args := m.Called(ctx, path)
	if info, ok := args.Get(0).(*validator.AudioInfo); ok {
		return info, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockTranscriber struct{ mock.Mock }

func (m *mockTranscriber) Transcribe(ctx context.Context, path string, duration time.Duration) (*transcription.Result, error) {
	args := m.Called(ctx, path, duration)
	if res, ok := args.Get(0).(*transcription.Result); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockAnalyzer struct{ mock.Mock }

func (m *mockAnalyzer) Summarize(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

func (m *mockAnalyzer) Sentiment(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

func (m *mockAnalyzer) AnswerQuestion(ctx context.Context, text, question string, history []model.Turn) (string, error) {
	args := m.Called(ctx, text, question, history)
	return args.String(0), args.Error(1)
}

type recordingHistory struct {
	transcriptions []model.TranscriptionRecord
	analyses       []model.AnalysisRecord
	err            error
}

func (r *recordingHistory) RecordTranscription(_ context.Context, rec *model.TranscriptionRecord) error {
	r.transcriptions = append(r.transcriptions, *rec)
	return r.err
}

func (r *recordingHistory) RecordAnalysis(_ context.Context, rec *model.AnalysisRecord) error {
	r.analyses = append(r.analyses, *rec)
	return r.err
}

func (r *recordingHistory) ListTranscriptions(context.Context, string, int) ([]model.TranscriptionRecord, error) {
	return r.transcriptions, nil
}

func (r *recordingHistory) ListAnalyses(context.Context, string) ([]model.AnalysisRecord, error) {
	return r.analyses, nil
}

func (r *recordingHistory) Close() error { return nil }

type recordingArchive struct {
	keys []string
	err  error
}

func (a *recordingArchive) ArchiveTranscript(_ context.Context, sessionID, fileName, _ string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	key := sessionID + "/" + fileName
	a.keys = append(a.keys, key)
	return key, nil
}

type fixture struct {
	controller  *ProcessingController
	store       session.Store
	validator   *mockValidator
	transcriber *mockTranscriber
	analyzer    *mockAnalyzer
	history     *recordingHistory
	archive     *recordingArchive
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := session.NewMemoryStore(time.Hour, 0, zap.NewNop())
	t.Cleanup(func() { store.Close() })

	f := &fixture{
		store:       store,
		validator:   new(mockValidator),
		transcriber: new(mockTranscriber),
		analyzer:    new(mockAnalyzer),
		history:     &recordingHistory{},
		archive:     &recordingArchive{},
	}
	f.controller = New(Dependencies{
		Store:       store,
		Validator:   f.validator,
		Transcriber: f.transcriber,
		Analyzer:    f.analyzer,
		BackendName: "ollama",
		History:     f.history,
		Archive:     f.archive,
		Logger:      zap.NewNop(),
	})
	return f
}

// processed runs a successful upload so analysis tests start from a transcript
func (f *fixture) processed(t *testing.T, sessionID, transcript string) {
	t.Helper()
	info := &validator.AudioInfo{Path: "/tmp/a.mp3", Size: 1024, Duration: 30 * time.Second}
	f.validator.On("ValidateAudioFile", mock.Anything, "/tmp/a.mp3").Return(info, nil).Once()
	f.transcriber.On("Transcribe", mock.Anything, "/tmp/a.mp3", 30*time.Second).
		Return(&transcription.Result{Text: transcript, Provider: "whisper_cpp"}, nil).Once()
	require.NoError(t, f.controller.ProcessAudioFile(context.Background(), sessionID, "/tmp/a.mp3", "meeting.mp3"))
}

func TestProcessAudioFileSuccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.processed(t, "s1", "hello world")

	transcript, err := f.controller.GetTranscript(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "hello world", transcript)

	require.Len(t, f.history.transcriptions, 1)
	rec := f.history.transcriptions[0]
	assert.Equal(t, "meeting.mp3", rec.FileName)
	assert.Equal(t, "whisper_cpp", rec.Provider)
	assert.Equal(t, 30.0, rec.AudioDuration)
	assert.False(t, rec.HasError)
	assert.Equal(t, []string{"s1/meeting.mp3"}, f.archive.keys)
}

func TestProcessAudioFileFailures(t *testing.T) {
	testCases := []struct {
		name          string
		validateErr   error
		transcribeErr error
		expectedMsg   string
		expectedKind  error
		recorded      int
	}{
		{
			name:         "validation error is returned unchanged",
			validateErr:  apperrors.InvalidFileType("Invalid file type '.txt'."),
			expectedMsg:  "Invalid file type '.txt'.",
			expectedKind: apperrors.ErrValidation,
		},
		{
			name:          "transcription error is returned unchanged",
			transcribeErr: apperrors.Transcription("An error occurred during transcription with whisper_cpp.", errors.New("boom")),
			expectedMsg:   "An error occurred during transcription with whisper_cpp.",
			expectedKind:  apperrors.ErrTranscription,
			recorded:      1,
		},
		{
			name:          "unexpected error is wrapped",
			transcribeErr: errors.New("disk on fire"),
			expectedMsg:   apperrors.MsgUnexpected,
			expectedKind:  apperrors.ErrApp,
			recorded:      1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			f.processed(t, "s1", "previous transcript")
			f.history.transcriptions = nil

			if tc.validateErr != nil {
				f.validator.On("ValidateAudioFile", mock.Anything, "/tmp/b.txt").Return(nil, tc.validateErr)
			} else {
				f.validator.On("ValidateAudioFile", mock.Anything, "/tmp/b.txt").
					Return(&validator.AudioInfo{Path: "/tmp/b.txt", Duration: time.Second}, nil)
				f.transcriber.On("Transcribe", mock.Anything, "/tmp/b.txt", time.Second).Return(nil, tc.transcribeErr)
			}

			err := f.controller.ProcessAudioFile(ctx, "s1", "/tmp/b.txt", "")
			require.Error(t, err)
			assert.Equal(t, tc.expectedMsg, apperrors.UserMessage(err))
			assert.ErrorIs(t, err, tc.expectedKind)

			_, err = f.controller.GetTranscript(ctx, "s1")
			assert.Equal(t, apperrors.MsgNoTranscript, apperrors.UserMessage(err), "state is reset before validation")

			require.Len(t, f.history.transcriptions, tc.recorded)
			if tc.recorded > 0 {
				assert.True(t, f.history.transcriptions[0].HasError)
				assert.Equal(t, "b.txt", f.history.transcriptions[0].FileName)
			}
		})
	}
}

func TestAnalysisRequiresTranscript(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	calls := map[string]func() error{
		"transcript": func() error { _, err := f.controller.GetTranscript(ctx, "fresh"); return err },
		"summary":    func() error { _, err := f.controller.GetSummary(ctx, "fresh"); return err },
		"sentiment":  func() error { _, err := f.controller.GetSentiment(ctx, "fresh"); return err },
		"question":   func() error { _, err := f.controller.AnswerQuestion(ctx, "fresh", "why?"); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			require.Error(t, err)
			assert.Equal(t, apperrors.MsgNoTranscript, apperrors.UserMessage(err))
		})
	}
	f.analyzer.AssertNotCalled(t, "Summarize", mock.Anything, mock.Anything)
}

func TestSummaryAndSentiment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.processed(t, "s1", "the meeting went well")

	f.analyzer.On("Summarize", mock.Anything, "the meeting went well").Return("A good meeting.", nil)
	f.analyzer.On("Sentiment", mock.Anything, "the meeting went well").Return("Positive", nil)

	summary, err := f.controller.GetSummary(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "A good meeting.", summary)

	sentiment, err := f.controller.GetSentiment(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Positive", sentiment)

	require.Len(t, f.history.analyses, 2)
	assert.Equal(t, model.TaskSummary, f.history.analyses[0].Task)
	assert.Equal(t, model.TaskSentiment, f.history.analyses[1].Task)
	assert.Equal(t, "ollama", f.history.analyses[1].Backend)
}

func TestAnswerQuestion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.processed(t, "s1", "we ship on friday")

	_, err := f.controller.AnswerQuestion(ctx, "s1", "   ")
	require.Error(t, err)
	assert.Equal(t, apperrors.MsgEmptyQuestion, apperrors.UserMessage(err))

	f.analyzer.On("AnswerQuestion", mock.Anything, "we ship on friday", "when?", []model.Turn{}).
		Return("Friday.", nil).Once()
	answer, err := f.controller.AnswerQuestion(ctx, "s1", "when?")
	require.NoError(t, err)
	assert.Equal(t, "Friday.", answer)

	irrelevant := apperrors.IrrelevantQuestion(apperrors.MsgIrrelevant)
	f.analyzer.On("AnswerQuestion", mock.Anything, "we ship on friday", "weather?", []model.Turn{{Question: "when?", Answer: "Friday."}}).
		Return("", irrelevant).Once()
	_, err = f.controller.AnswerQuestion(ctx, "s1", "weather?")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrIrrelevantQuestion)

	history, err := f.controller.ChatHistory(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []model.Turn{{Question: "when?", Answer: "Friday."}}, history, "failed answers are not recorded")
	f.analyzer.AssertExpectations(t)
}

func TestNewFileClearsChatHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.processed(t, "s1", "first")

	f.analyzer.On("AnswerQuestion", mock.Anything, "first", "q", []model.Turn{}).Return("a", nil)
	_, err := f.controller.AnswerQuestion(ctx, "s1", "q")
	require.NoError(t, err)

	f.processed(t, "s1", "second")
	history, err := f.controller.ChatHistory(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSideEffectFailuresAreIgnored(t *testing.T) {
	f := newFixture(t)
	f.history.err = errors.New("db down")
	f.archive.err = errors.New("bucket gone")

	f.processed(t, "s1", "still works")

	transcript, err := f.controller.GetTranscript(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "still works", transcript)
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.processed(t, "s1", "text")

	require.NoError(t, f.controller.Reset(ctx, "s1"))
	_, err := f.controller.GetTranscript(ctx, "s1")
	assert.Equal(t, apperrors.MsgNoTranscript, apperrors.UserMessage(err))
}

func TestSessionsAreIsolated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.processed(t, "s1", "only mine")

	_, err := f.controller.GetTranscript(ctx, "s2")
	assert.Equal(t, apperrors.MsgNoTranscript, apperrors.UserMessage(err))
}
