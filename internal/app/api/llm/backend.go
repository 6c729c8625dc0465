// Package llm defines the text generation backends used for transcript
// analysis.
package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"voice-analysis-toolkit/internal/config"
)

// Backend generates a completion for a single prompt
type Backend interface {
	Name() string
	Model() string

	// Generate returns the whitespace-trimmed completion. Failures are
	// analysis errors carrying a user-presentable message.
	Generate(ctx context.Context, prompt string) (string, error)

	HealthCheck(ctx context.Context) error
}

// Creator builds a backend from the application configuration. logger is
// never nil.
type Creator func(cfg *config.Config, logger *zap.Logger) (Backend, error)

var (
	mu       sync.RWMutex
	creators = make(map[string]Creator)
)

// Register makes a backend available to New. Backend packages call it from init.
func Register(name string, creator Creator) {
	mu.Lock()
	defer mu.Unlock()
	creators[name] = creator
}

// Registered lists the backend names that can be created
func Registered() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(creators))
	for name := range creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates the backend selected by the configuration
func New(cfg *config.Config, logger *zap.Logger) (Backend, error) {
	return NewNamed(cfg, cfg.AnalysisProvider(), logger)
}

// NewNamed creates a specific backend
func NewNamed(cfg *config.Config, name string, logger *zap.Logger) (Backend, error) {
	mu.RLock()
	creator, ok := creators[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("analysis backend '%s' is not registered", name)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return creator(cfg, logger)
}

// Clean trims model output
func Clean(s string) string {
	return strings.TrimSpace(s)
}
