// Package answer implements the Answer repository using PostgreSQL.
package answer

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

var answerColumns = []string{"id", "question_id", "author_id", "text", "created_at"}

// Repo provides answer persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new answer repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID returns an answer by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Answer, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select(answerColumns...).
		From("answers").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build answer select: %w", err)
	}

	a, err := scanAnswer(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, "answer", id)
	}

	return a, nil
}

// ListByQuestion returns the answers to a question, oldest first.
func (r *Repo) ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*domain.Answer, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select(answerColumns...).
		From("answers").
		Where(sq.Eq{"question_id": questionID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build answer list: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	var answers []*domain.Answer
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}

	return answers, nil
}

// CountByAuthorSince returns the number of answers the author created at or
// after the given instant. Used for daily quota accounting.
func (r *Repo) CountByAuthorSince(ctx context.Context, authorID uuid.UUID, since time.Time) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select("count(*)").
		From("answers").
		Where(sq.Eq{"author_id": authorID}).
		Where(sq.GtOrEq{"created_at": since}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build answer count since: %w", err)
	}

	var count int
	if err := q.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count answers since: %w", err)
	}

	return count, nil
}

// Create inserts a new answer.
func (r *Repo) Create(ctx context.Context, a *domain.Answer) (*domain.Answer, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Insert("answers").
		Columns(answerColumns...).
		Values(a.ID, a.QuestionID, a.AuthorID, a.Text, a.CreatedAt).
		Suffix("RETURNING " + strings.Join(answerColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build answer insert: %w", err)
	}

	created, err := scanAnswer(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, "answer", a.ID)
	}

	return created, nil
}

// Delete removes an answer. Returns domain.ErrNotFound if it does not exist.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Delete("answers").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build answer delete: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return mapError(err, "answer", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("answer %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

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

func scanAnswer(row pgx.Row) (*domain.Answer, error) {
	var a domain.Answer
	err := row.Scan(&a.ID, &a.QuestionID, &a.AuthorID, &a.Text, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
