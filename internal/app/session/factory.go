package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"voice-analysis-toolkit/internal/config"
)

// NewStore creates the store selected by SESSION_STORE
func NewStore(ctx context.Context, cfg config.SessionConfig, logger *zap.Logger) (Store, error) {
	if cfg.Store == config.SessionStoreRedis {
		return NewRedisStore(ctx, cfg.RedisURL, cfg.TTL)
	}
	return NewMemoryStore(cfg.TTL, time.Minute, logger), nil
}
