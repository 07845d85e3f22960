package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/baloria-app/baloria-backend/internal/domain"
)

// DefaultLimit is the leaderboard size served when the caller asks for none.
const DefaultLimit = 25

// maxLimit caps a single leaderboard page.
const maxLimit = 100

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type statsRepo interface {
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	Rank(ctx context.Context, userID uuid.UUID) (int, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service serves the points leaderboard and per-user standings.
type Service struct {
	stats        statsRepo
	log          *slog.Logger
	defaultLimit int
}

// NewService creates a new Leaderboard service. defaultLimit is the page size
// served when the caller asks for none; zero or negative falls back to
// DefaultLimit.
func NewService(log *slog.Logger, stats statsRepo, defaultLimit int) *Service {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	return &Service{
		stats:        stats,
		log:          log.With("service", "leaderboard"),
		defaultLimit: defaultLimit,
	}
}

// Top returns the highest ranked users. Levels are rederived from points so a
// drifted cache column can never show the wrong level next to a score.
func (s *Service) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	entries, err := s.stats.Leaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard.Top: %w", err)
	}

	for i := range entries {
		entries[i].Level = domain.LevelFor(entries[i].Points)
	}

	return entries, nil
}

// Standing is one user's leaderboard position.
type Standing struct {
	Rank      int
	Points    int
	Level     int
	LevelName string
}

// StandingFor returns the user's rank and level. A user without a stats row
// ranks last with zero points.
func (s *Service) StandingFor(ctx context.Context, userID uuid.UUID) (*Standing, error) {
	rank, err := s.stats.Rank(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("leaderboard.StandingFor: %w", err)
	}

	points := 0
	stats, err := s.stats.GetByUser(ctx, userID)
	switch {
	case err == nil:
		points = stats.Points
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, fmt.Errorf("leaderboard.StandingFor: %w", err)
	}

	level := domain.LevelFor(points)
	return &Standing{
		Rank:      rank,
		Points:    points,
		Level:     level,
		LevelName: domain.LevelName(level),
	}, nil
}
