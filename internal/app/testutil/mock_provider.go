package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"voice-analysis-toolkit/internal/app/api/provider"
)

// MockProvider is a testify mock of provider.TranscriptionProvider
type MockProvider struct {
	mock.Mock
	Info provider.ProviderInfo
}

// NewMockProvider returns a mock whose metadata and configuration check are
// already satisfied
func NewMockProvider(name string) *MockProvider {
	return &MockProvider{Info: provider.ProviderInfo{
		Name:             name,
		DisplayName:      name,
		Type:             provider.ProviderTypeLocal,
		SupportedFormats: []provider.AudioFormat{provider.FormatMP3, provider.FormatWAV},
	}}
}

func (m *MockProvider) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	args := m.Called(ctx, request)
	if resp, ok := args.Get(0).(*provider.TranscriptionResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProvider) GetProviderInfo() provider.ProviderInfo {
	return m.Info
}

func (m *MockProvider) ValidateConfiguration() error {
	return nil
}

func (m *MockProvider) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// OnTranscribe stubs every transcription request with text
func (m *MockProvider) OnTranscribe(text string) *mock.Call {
	return m.On("TranscriptWithOptions", mock.Anything, mock.Anything).
		Return(&provider.TranscriptionResponse{Text: text, ModelUsed: "mock"}, nil)
}
