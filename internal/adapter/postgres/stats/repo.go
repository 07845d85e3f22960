// Package stats implements the UserStats repository using PostgreSQL.
//
// All counter mutations are single-statement atomic increments so that
// concurrent actions never lose updates. The cached level column is written
// in the same statement (or transaction) as the points it is derived from.
package stats

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/baloria-app/baloria-backend/internal/adapter/postgres"
	"github.com/baloria-app/baloria-backend/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var statsColumns = []string{
	"user_id", "points", "level", "streak_days", "questions_count",
	"answers_count", "hearts_given", "hearts_received", "last_active_at", "updated_at",
}

// Counter names accepted by Increment.
const (
	CounterQuestions      = "questions_count"
	CounterAnswers        = "answers_count"
	CounterHeartsGiven    = "hearts_given"
	CounterHeartsReceived = "hearts_received"
)

// Repo provides user engagement counters backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new stats repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByUser returns the stats row for a user. A user who has never acted has
// no row yet; that case surfaces as domain.ErrNotFound and callers fall back
// to zero-valued stats.
func (r *Repo) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select(statsColumns...).
		From("user_stats").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build stats select: %w", err)
	}

	s, err := scanStats(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, "user_stats", userID)
	}

	return s, nil
}

// Leaderboard returns the top rows ordered by points DESC. Ties share order
// by user_id for determinism; ranks are assigned by the caller-visible row
// position starting at 1.
func (r *Repo) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select("s.user_id", "u.username", "u.avatar_url", "s.points", "s.level").
		From("user_stats s").
		Join("users u ON u.id = s.user_id").
		OrderBy("s.points DESC", "s.user_id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build leaderboard: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.AvatarURL, &e.Points, &e.Level); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}

	return entries, nil
}

// Rank returns the 1-based leaderboard position of a user, counting users
// with strictly more points. Users without a stats row rank last.
func (r *Repo) Rank(ctx context.Context, userID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var rank int
	err := q.QueryRow(ctx,
		`SELECT count(*) + 1 FROM user_stats
		 WHERE points > COALESCE((SELECT points FROM user_stats WHERE user_id = $1), 0)`,
		userID,
	).Scan(&rank)
	if err != nil {
		return 0, fmt.Errorf("rank user: %w", err)
	}

	return rank, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// EnsureExists creates a zeroed stats row for the user if none exists.
func (r *Repo) EnsureExists(ctx context.Context, userID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Insert("user_stats").
		Columns("user_id").
		Values(userID).
		Suffix("ON CONFLICT (user_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build stats ensure: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return mapError(err, "user_stats", userID)
	}

	return nil
}

// AddPoints atomically adds points, stores the level recomputed from the new
// total, and stamps last_active_at. Returns the updated stats row.
// The level is derived in SQL from the post-increment total so that the cache
// can never drift from the points column, even under concurrent awards.
func (r *Repo) AddPoints(ctx context.Context, userID uuid.UUID, points int, now time.Time) (*domain.UserStats, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	// Upsert keeps first-action users from needing a separate ensure step.
	sql := `
		INSERT INTO user_stats (user_id, points, level, last_active_at, updated_at)
		VALUES ($1, $2, ` + levelExpr("$2::int") + `, $3, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			points         = user_stats.points + EXCLUDED.points,
			level          = ` + levelExpr("user_stats.points + EXCLUDED.points") + `,
			last_active_at = EXCLUDED.last_active_at,
			updated_at     = EXCLUDED.updated_at
		RETURNING ` + strings.Join(statsColumns, ", ")

	s, err := scanStats(q.QueryRow(ctx, sql, userID, points, now))
	if err != nil {
		return nil, mapError(err, "user_stats", userID)
	}

	return s, nil
}

// Increment bumps one of the named counters by one, creating the row if
// needed. The counter must be one of the Counter* constants.
func (r *Repo) Increment(ctx context.Context, userID uuid.UUID, counter string, now time.Time) error {
	switch counter {
	case CounterQuestions, CounterAnswers, CounterHeartsGiven, CounterHeartsReceived:
	default:
		return fmt.Errorf("user_stats %s: unknown counter %q", userID, counter)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql := fmt.Sprintf(`
		INSERT INTO user_stats (user_id, %[1]s, last_active_at, updated_at)
		VALUES ($1, 1, $2, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			%[1]s          = user_stats.%[1]s + 1,
			last_active_at = EXCLUDED.last_active_at,
			updated_at     = EXCLUDED.updated_at`, counter)

	if _, err := q.Exec(ctx, sql, userID, now); err != nil {
		return mapError(err, "user_stats", userID)
	}

	return nil
}

// SetStreak overwrites streak_days for the user, creating the row if needed.
func (r *Repo) SetStreak(ctx context.Context, userID uuid.UUID, days int, now time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql := `
		INSERT INTO user_stats (user_id, streak_days, last_active_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			streak_days    = EXCLUDED.streak_days,
			last_active_at = EXCLUDED.last_active_at,
			updated_at     = EXCLUDED.updated_at`

	if _, err := q.Exec(ctx, sql, userID, days, now); err != nil {
		return mapError(err, "user_stats", userID)
	}

	return nil
}

// levelExpr renders the karma level of a points expression as SQL. The
// thresholds mirror domain.LevelFor; see the karma tables in the domain
// package for the authoritative list.
func levelExpr(points string) string {
	thresholds := domain.KarmaThresholds()
	expr := "(CASE"
	for lvl := len(thresholds) - 1; lvl >= 1; lvl-- {
		expr += fmt.Sprintf(" WHEN %s >= %d THEN %d", points, thresholds[lvl], lvl)
	}
	return expr + " ELSE 0 END)"
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	// context errors pass through as-is
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	// pgx.ErrNoRows -> domain.ErrNotFound
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	// PgError codes
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		}
	}

	// Everything else: wrap with context
	return fmt.Errorf("%s %s: %w", entity, id, err)
}

// ---------------------------------------------------------------------------
// Scanning helpers
// ---------------------------------------------------------------------------

func scanStats(row pgx.Row) (*domain.UserStats, error) {
	var s domain.UserStats
	err := row.Scan(&s.UserID, &s.Points, &s.Level, &s.StreakDays, &s.QuestionsCount,
		&s.AnswersCount, &s.HeartsGiven, &s.HeartsReceived, &s.LastActiveAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
