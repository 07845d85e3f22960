// Package badge implements the Badge catalog and award repository using
// PostgreSQL. Awards are append-only and idempotent: the (user_id, badge_id)
// primary key plus ON CONFLICT DO NOTHING makes double-awarding a no-op.
package badge

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

var badgeColumns = []string{"id", "name", "description", "icon", "category", "threshold"}

// Repo provides badge persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new badge repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

// ListAll returns the full badge catalog ordered by category then threshold.
func (r *Repo) ListAll(ctx context.Context) ([]domain.Badge, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select(badgeColumns...).
		From("badges").
		OrderBy("category ASC", "threshold ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build badge list: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	defer rows.Close()

	var badges []domain.Badge
	for rows.Next() {
		b, err := scanBadge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		badges = append(badges, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}

	return badges, nil
}

// ListByCategory returns the catalog entries for one action type, ordered by
// ascending threshold. The scorer walks these in order when checking awards.
func (r *Repo) ListByCategory(ctx context.Context, category domain.ActionType) ([]domain.Badge, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select(badgeColumns...).
		From("badges").
		Where(sq.Eq{"category": string(category)}).
		OrderBy("threshold ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build badge category list: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list badges by category: %w", err)
	}
	defer rows.Close()

	var badges []domain.Badge
	for rows.Next() {
		b, err := scanBadge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		badges = append(badges, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list badges by category: %w", err)
	}

	return badges, nil
}

// Upsert inserts a catalog entry or updates its mutable fields by name.
// Used by the seeding tool; thresholds and categories of existing badges are
// kept in sync with the seed definitions.
func (r *Repo) Upsert(ctx context.Context, b domain.Badge) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Insert("badges").
		Columns(badgeColumns...).
		Values(b.ID, b.Name, b.Description, b.Icon, string(b.Category), b.Threshold).
		Suffix(`ON CONFLICT (name) DO UPDATE SET
			description = EXCLUDED.description,
			icon        = EXCLUDED.icon,
			category    = EXCLUDED.category,
			threshold   = EXCLUDED.threshold`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build badge upsert: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return mapError(err, "badge", b.ID)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Awards
// ---------------------------------------------------------------------------

// ListEarned returns the badge ids the user has earned.
func (r *Repo) ListEarned(ctx context.Context, userID uuid.UUID) ([]domain.UserBadge, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select("user_id", "badge_id", "earned_at").
		From("user_badges").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("earned_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build earned badges: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list earned badges: %w", err)
	}
	defer rows.Close()

	var earned []domain.UserBadge
	for rows.Next() {
		var ub domain.UserBadge
		if err := rows.Scan(&ub.UserID, &ub.BadgeID, &ub.EarnedAt); err != nil {
			return nil, fmt.Errorf("scan earned badge: %w", err)
		}
		earned = append(earned, ub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list earned badges: %w", err)
	}

	return earned, nil
}

// ListEarnedBadges returns the full catalog entries the user has earned,
// newest award first.
func (r *Repo) ListEarnedBadges(ctx context.Context, userID uuid.UUID) ([]domain.Badge, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	cols := make([]string, len(badgeColumns))
	for i, c := range badgeColumns {
		cols[i] = "b." + c
	}

	sql, args, err := psql.Select(cols...).
		From("user_badges ub").
		Join("badges b ON b.id = ub.badge_id").
		Where(sq.Eq{"ub.user_id": userID}).
		OrderBy("ub.earned_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build earned badge details: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list earned badge details: %w", err)
	}
	defer rows.Close()

	var badges []domain.Badge
	for rows.Next() {
		b, err := scanBadge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan earned badge detail: %w", err)
		}
		badges = append(badges, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list earned badge details: %w", err)
	}

	return badges, nil
}

// Award grants a badge to a user. Returns true if the badge was newly
// awarded, false if the user already had it.
func (r *Repo) Award(ctx context.Context, userID, badgeID uuid.UUID, earnedAt time.Time) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Insert("user_badges").
		Columns("user_id", "badge_id", "earned_at").
		Values(userID, badgeID, earnedAt).
		Suffix("ON CONFLICT (user_id, badge_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build badge award: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return false, mapError(err, "user_badge", badgeID)
	}

	return tag.RowsAffected() > 0, nil
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

func scanBadge(row pgx.Row) (domain.Badge, error) {
	var (
		b        domain.Badge
		category string
	)
	err := row.Scan(&b.ID, &b.Name, &b.Description, &b.Icon, &category, &b.Threshold)
	if err != nil {
		return domain.Badge{}, err
	}
	b.Category = domain.ActionType(category)
	return b, nil
}
