// Package question implements the Question repository using PostgreSQL.
// It also owns the hearts join table and the denormalized hearts_count and
// answers_count columns, which are only ever touched by single-statement
// atomic increments.
package question

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

var questionColumns = []string{
	"id", "author_id", "theme", "text", "status",
	"hearts_count", "answers_count", "created_at", "updated_at",
}

// Repo provides question and heart persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new question repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a question by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select(questionColumns...).
		From("questions").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build question select: %w", err)
	}

	question, err := scanQuestion(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, "question", id)
	}

	return question, nil
}

// List returns questions matching the filter, newest first, with pagination.
func (r *Repo) List(ctx context.Context, filter domain.QuestionFilter, limit, offset int) ([]*domain.Question, int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	pred := sq.And{}
	if filter.Theme != "" {
		pred = append(pred, sq.Eq{"theme": filter.Theme})
	}
	if filter.Status != "" {
		pred = append(pred, sq.Eq{"status": string(filter.Status)})
	}
	if filter.AuthorID != uuid.Nil {
		pred = append(pred, sq.Eq{"author_id": filter.AuthorID})
	}

	countQuery := psql.Select("count(*)").From("questions")
	listQuery := psql.Select(questionColumns...).From("questions")
	if len(pred) > 0 {
		countQuery = countQuery.Where(pred)
		listQuery = listQuery.Where(pred)
	}

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build question count: %w", err)
	}

	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count questions: %w", err)
	}

	sql, args, err := listQuery.
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build question list: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []*domain.Question
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list questions: %w", err)
	}

	return questions, total, nil
}

// CountByAuthorSince returns the number of questions the author created at or
// after the given instant. Used for daily quota accounting.
func (r *Repo) CountByAuthorSince(ctx context.Context, authorID uuid.UUID, since time.Time) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select("count(*)").
		From("questions").
		Where(sq.Eq{"author_id": authorID}).
		Where(sq.GtOrEq{"created_at": since}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build question count since: %w", err)
	}

	var count int
	if err := q.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count questions since: %w", err)
	}

	return count, nil
}

// RandomOpen returns one random open question, excluding the given author's
// own questions, optionally narrowed to a theme.
func (r *Repo) RandomOpen(ctx context.Context, excludeAuthor uuid.UUID, theme string) (*domain.Question, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query := psql.Select(questionColumns...).
		From("questions").
		Where(sq.Eq{"status": string(domain.QuestionStatusOpen)}).
		Where(sq.NotEq{"author_id": excludeAuthor}).
		OrderBy("random()").
		Limit(1)
	if theme != "" {
		query = query.Where(sq.Eq{"theme": theme})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build random open: %w", err)
	}

	question, err := scanQuestion(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, "question", excludeAuthor)
	}

	return question, nil
}

// TrendingCandidates returns the scoring projection of all open questions
// created within the window, oldest first. Stable input order keeps the
// trending selection deterministic for equal scores.
func (r *Repo) TrendingCandidates(ctx context.Context, since time.Time) ([]domain.TrendingCandidate, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select("id", "hearts_count", "answers_count", "created_at").
		From("questions").
		Where(sq.Eq{"status": string(domain.QuestionStatusOpen)}).
		Where(sq.GtOrEq{"created_at": since}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build trending candidates: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query trending candidates: %w", err)
	}
	defer rows.Close()

	var candidates []domain.TrendingCandidate
	for rows.Next() {
		var c domain.TrendingCandidate
		if err := rows.Scan(&c.ID, &c.HeartsCount, &c.AnswersCount, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan trending candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query trending candidates: %w", err)
	}

	return candidates, nil
}

// GetByIDs returns the questions for the given ids, preserving the input order.
// Missing ids are silently skipped.
func (r *Repo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select(questionColumns...).
		From("questions").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build question batch select: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("batch get questions: %w", err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]*domain.Question, len(ids))
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		byID[question.ID] = question
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("batch get questions: %w", err)
	}

	ordered := make([]*domain.Question, 0, len(byID))
	for _, id := range ids {
		if question, ok := byID[id]; ok {
			ordered = append(ordered, question)
		}
	}

	return ordered, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new question with zeroed counters.
func (r *Repo) Create(ctx context.Context, question *domain.Question) (*domain.Question, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Insert("questions").
		Columns("id", "author_id", "theme", "text", "status", "created_at", "updated_at").
		Values(question.ID, question.AuthorID, question.Theme, question.Text,
			string(question.Status), question.CreatedAt, question.UpdatedAt).
		Suffix("RETURNING " + strings.Join(questionColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build question insert: %w", err)
	}

	created, err := scanQuestion(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, "question", question.ID)
	}

	return created, nil
}

// SetStatus updates the lifecycle status of a question.
func (r *Repo) SetStatus(ctx context.Context, id uuid.UUID, status domain.QuestionStatus) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Update("questions").
		Set("status", string(status)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build question status update: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return mapError(err, "question", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("question %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a question and its dependents via cascades.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Delete("questions").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build question delete: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return mapError(err, "question", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("question %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Hearts
// ---------------------------------------------------------------------------

// AddHeart records userID hearting questionID and bumps hearts_count.
// The insert is idempotent: hearting an already-hearted question returns
// (false, nil) and leaves the counter untouched.
func (r *Repo) AddHeart(ctx context.Context, userID, questionID uuid.UUID) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Insert("hearts").
		Columns("user_id", "question_id").
		Values(userID, questionID).
		Suffix("ON CONFLICT (user_id, question_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build heart insert: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return false, mapError(err, "heart", questionID)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	// Single-statement increment keeps the counter correct under concurrency.
	if _, err := q.Exec(ctx,
		`UPDATE questions SET hearts_count = hearts_count + 1, updated_at = now() WHERE id = $1`,
		questionID,
	); err != nil {
		return false, mapError(err, "question", questionID)
	}

	return true, nil
}

// HasHeart reports whether userID has hearted questionID.
func (r *Repo) HasHeart(ctx context.Context, userID, questionID uuid.UUID) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select("count(*)").
		From("hearts").
		Where(sq.Eq{"user_id": userID, "question_id": questionID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build heart exists: %w", err)
	}

	var count int
	if err := q.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("check heart: %w", err)
	}

	return count > 0, nil
}

// IncrementAnswers bumps answers_count by one in a single statement.
func (r *Repo) IncrementAnswers(ctx context.Context, questionID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`UPDATE questions SET answers_count = answers_count + 1, updated_at = now() WHERE id = $1`,
		questionID,
	)
	if err != nil {
		return mapError(err, "question", questionID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("question %s: %w", questionID, domain.ErrNotFound)
	}

	return nil
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

func scanQuestion(row pgx.Row) (*domain.Question, error) {
	var (
		question domain.Question
		status   string
	)
	err := row.Scan(&question.ID, &question.AuthorID, &question.Theme, &question.Text,
		&status, &question.HeartsCount, &question.AnswersCount,
		&question.CreatedAt, &question.UpdatedAt)
	if err != nil {
		return nil, err
	}
	question.Status = domain.QuestionStatus(status)
	return &question, nil
}
