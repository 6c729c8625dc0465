package testutil

import (
	"context"
	"strings"

	"github.com/stretchr/testify/mock"
)

// MockBackend is a testify mock of llm.Backend. Generate is matched on the
// full prompt, so tests usually stub it with mock.Anything or PromptContains.
type MockBackend struct {
	mock.Mock
	BackendName string
	ModelName   string
}

func NewMockBackend() *MockBackend {
	return &MockBackend{BackendName: "mock", ModelName: "mock-model"}
}

func (m *MockBackend) Name() string  { return m.BackendName }
func (m *MockBackend) Model() string { return m.ModelName }

func (m *MockBackend) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// PromptContains matches prompts that include every fragment
func PromptContains(fragments ...string) interface{} {
	return mock.MatchedBy(func(prompt string) bool {
		for _, f := range fragments {
			if !strings.Contains(prompt, f) {
				return false
			}
		}
		return true
	})
}
