// Package challenge implements the DailyChallenge repository using
// PostgreSQL. Challenge creation is idempotent per (active_date, type), so
// the rollover job can run any number of times per day.
package challenge

import (
	"context"
	"errors"
	"fmt"
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

var challengeColumns = []string{
	"id", "challenge_type", "description", "target_value", "karma_reward", "active_date",
}

// Repo provides daily challenge persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new challenge repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Challenges
// ---------------------------------------------------------------------------

// CreateForDate inserts a challenge for its active date. A challenge of the
// same type already present for that date is left untouched and reported as
// created=false.
func (r *Repo) CreateForDate(ctx context.Context, c domain.DailyChallenge) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Insert("daily_challenges").
		Columns(challengeColumns...).
		Values(c.ID, string(c.ChallengeType), c.Description, c.TargetValue,
			c.KarmaReward, c.ActiveDate).
		Suffix("ON CONFLICT (active_date, challenge_type) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build challenge insert: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return false, mapError(err, "daily_challenge", c.ID)
	}

	return tag.RowsAffected() > 0, nil
}

// ListForDate returns the challenges active on the given calendar date.
func (r *Repo) ListForDate(ctx context.Context, date time.Time) ([]domain.DailyChallenge, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select(challengeColumns...).
		From("daily_challenges").
		Where(sq.Eq{"active_date": date}).
		OrderBy("challenge_type ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build challenge list: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	defer rows.Close()

	var challenges []domain.DailyChallenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan challenge: %w", err)
		}
		challenges = append(challenges, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}

	return challenges, nil
}

// GetByID returns one challenge by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DailyChallenge, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select(challengeColumns...).
		From("daily_challenges").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build challenge select: %w", err)
	}

	c, err := scanChallenge(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, "daily_challenge", id)
	}

	return &c, nil
}

// ---------------------------------------------------------------------------
// Progress
// ---------------------------------------------------------------------------

// IncrementProgress bumps the user's progress on a challenge by one and flips
// completed when the target is reached. Completed is sticky: once true it
// stays true and further increments keep counting progress. Returns the row
// after the update plus whether this call crossed the completion line.
func (r *Repo) IncrementProgress(ctx context.Context, userID, challengeID uuid.UUID, target int, now time.Time) (*domain.UserChallengeProgress, bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql := `
		INSERT INTO user_challenge_progress (user_id, challenge_id, progress, completed, updated_at)
		VALUES ($1, $2, 1, 1 >= $3, $4)
		ON CONFLICT (user_id, challenge_id) DO UPDATE SET
			progress   = user_challenge_progress.progress + 1,
			completed  = user_challenge_progress.completed OR user_challenge_progress.progress + 1 >= $3,
			updated_at = $4
		RETURNING user_id, challenge_id, progress, completed, updated_at,
		          (progress = $3) AS just_completed`

	var (
		p             domain.UserChallengeProgress
		justCompleted bool
	)
	err := q.QueryRow(ctx, sql, userID, challengeID, target, now).
		Scan(&p.UserID, &p.ChallengeID, &p.Progress, &p.Completed, &p.UpdatedAt, &justCompleted)
	if err != nil {
		return nil, false, mapError(err, "challenge_progress", challengeID)
	}

	return &p, justCompleted && p.Completed, nil
}

// GetProgress returns the user's progress row for one challenge, or
// domain.ErrNotFound if the user has not acted on it yet.
func (r *Repo) GetProgress(ctx context.Context, userID, challengeID uuid.UUID) (*domain.UserChallengeProgress, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select("user_id", "challenge_id", "progress", "completed", "updated_at").
		From("user_challenge_progress").
		Where(sq.Eq{"user_id": userID, "challenge_id": challengeID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build progress select: %w", err)
	}

	var p domain.UserChallengeProgress
	err = q.QueryRow(ctx, sql, args...).
		Scan(&p.UserID, &p.ChallengeID, &p.Progress, &p.Completed, &p.UpdatedAt)
	if err != nil {
		return nil, mapError(err, "challenge_progress", challengeID)
	}

	return &p, nil
}

// ListProgress returns the user's progress rows for all challenges on the
// given date, keyed by challenge id. Challenges never touched are absent.
func (r *Repo) ListProgress(ctx context.Context, userID uuid.UUID, date time.Time) (map[uuid.UUID]domain.UserChallengeProgress, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql := `
		SELECT p.user_id, p.challenge_id, p.progress, p.completed, p.updated_at
		FROM user_challenge_progress p
		JOIN daily_challenges c ON c.id = p.challenge_id
		WHERE p.user_id = $1 AND c.active_date = $2`

	rows, err := q.Query(ctx, sql, userID, date)
	if err != nil {
		return nil, fmt.Errorf("list challenge progress: %w", err)
	}
	defer rows.Close()

	progress := make(map[uuid.UUID]domain.UserChallengeProgress)
	for rows.Next() {
		var p domain.UserChallengeProgress
		if err := rows.Scan(&p.UserID, &p.ChallengeID, &p.Progress, &p.Completed, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan challenge progress: %w", err)
		}
		progress[p.ChallengeID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list challenge progress: %w", err)
	}

	return progress, nil
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

func scanChallenge(row pgx.Row) (domain.DailyChallenge, error) {
	var (
		c             domain.DailyChallenge
		challengeType string
	)
	err := row.Scan(&c.ID, &challengeType, &c.Description, &c.TargetValue,
		&c.KarmaReward, &c.ActiveDate)
	if err != nil {
		return domain.DailyChallenge{}, err
	}
	c.ChallengeType = domain.ActionType(challengeType)
	return c, nil
}
