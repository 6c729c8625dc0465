package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"voice-analysis-toolkit/internal/app/model"
)

// MemoryStore keeps sessions in process memory and expires idle ones
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
	stop     chan struct{}
	once     sync.Once
}

// NewMemoryStore creates a store that drops sessions idle for longer than ttl.
// A sweep runs every sweepInterval; zero disables the background sweep.
func NewMemoryStore(ttl, sweepInterval time.Duration, logger *zap.Logger) *MemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &MemoryStore{
		sessions: make(map[string]*model.Session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger.Named("session"),
		stop:     make(chan struct{}),
	}
	if sweepInterval > 0 {
		go s.sweepLoop(sweepInterval)
	}
	return s
}

func (s *MemoryStore) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Debug("Expired idle sessions", zap.Int("count", n))
			}
		case <-s.stop:
			return
		}
	}
}

// Sweep removes expired sessions and returns how many were dropped
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*model.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || (s.ttl > 0 && sess.UpdatedAt.Before(s.now().Add(-s.ttl))) {
		return model.NewSession(id), nil
	}
	return clone(sess), nil
}

func (s *MemoryStore) Save(ctx context.Context, sess *model.Session) error {
	stored := clone(sess)
	stored.UpdatedAt = s.now()

	s.mu.Lock()
	s.sessions[sess.ID] = stored
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Close stops the background sweep
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}

func clone(sess *model.Session) *model.Session {
	c := *sess
	c.ChatHistory = sess.HistoryCopy()
	return &c
}
