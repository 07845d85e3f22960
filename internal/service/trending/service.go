// Package trending ranks open questions by engagement decayed over time and
// serves the result from a periodically refreshed snapshot.
package trending

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/baloria-app/baloria-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type questionRepo interface {
	TrendingCandidates(ctx context.Context, since time.Time) ([]domain.TrendingCandidate, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Question, error)
}

// Config holds the ranking parameters.
type Config struct {
	Threshold float64
	Limit     int
	Window    time.Duration
}

// snapshot is one cached ranking result.
type snapshot struct {
	questions  []*domain.Question
	computedAt time.Time
}

// Service implements the trending business logic.
type Service struct {
	questions questionRepo
	log       *slog.Logger
	cfg       Config
	now       func() time.Time

	mu   sync.RWMutex
	snap *snapshot
	// maxAge bounds snapshot staleness for on-demand reads; the jobs
	// scheduler normally refreshes well before this.
	maxAge time.Duration
}

// NewService creates a new Trending service.
func NewService(log *slog.Logger, questions questionRepo, cfg Config) *Service {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Window <= 0 {
		cfg.Window = 168 * time.Hour
	}

	return &Service{
		questions: questions,
		log:       log.With("service", "trending"),
		cfg:       cfg,
		now:       time.Now,
		maxAge:    10 * time.Minute,
	}
}

// GetTrending returns the current trending questions in rank order. A fresh
// snapshot is served as-is; a stale or missing one triggers a recompute.
func (s *Service) GetTrending(ctx context.Context) ([]*domain.Question, error) {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()

	if snap != nil && s.now().Sub(snap.computedAt) < s.maxAge {
		return snap.questions, nil
	}

	return s.Refresh(ctx)
}

// Refresh recomputes the ranking from the question repo and replaces the
// snapshot. Called by the jobs scheduler and on cache miss.
func (s *Service) Refresh(ctx context.Context) ([]*domain.Question, error) {
	now := s.now()

	candidates, err := s.questions.TrendingCandidates(ctx, now.Add(-s.cfg.Window))
	if err != nil {
		return nil, fmt.Errorf("trending.Refresh: %w", err)
	}

	selected := SelectTrending(candidates, now, s.cfg.Limit, s.cfg.Threshold)

	ids := make([]uuid.UUID, len(selected))
	for i, sc := range selected {
		ids[i] = sc.ID
	}

	questions, err := s.questions.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("trending.Refresh: %w", err)
	}

	s.mu.Lock()
	s.snap = &snapshot{questions: questions, computedAt: now}
	s.mu.Unlock()

	s.log.Debug("trending snapshot refreshed",
		"candidates", len(candidates),
		"selected", len(questions))

	return questions, nil
}
