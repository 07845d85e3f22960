// Package notification implements the Notification and ChatMessage
// repositories using PostgreSQL.
package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/baloria-app/baloria-backend/internal/adapter/postgres"
	"github.com/baloria-app/baloria-backend/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var notificationColumns = []string{
	"id", "user_id", "type", "message", "question_id", "read", "created_at",
}

// Repo provides notification and chat message persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new notification repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Notifications
// ---------------------------------------------------------------------------

// Create inserts a new notification.
func (r *Repo) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Insert("notifications").
		Columns(notificationColumns...).
		Values(n.ID, n.UserID, string(n.Type), n.Message, n.QuestionID, n.Read, n.CreatedAt).
		Suffix("RETURNING " + strings.Join(notificationColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build notification insert: %w", err)
	}

	created, err := scanNotification(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, "notification", n.ID)
	}

	return created, nil
}

// ListByUser returns a user's notifications, newest first, with pagination.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Notification, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select(notificationColumns...).
		From("notifications").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build notification list: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return notifications, nil
}

// CountUnread returns the number of unread notifications for a user.
func (r *Repo) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select("count(*)").
		From("notifications").
		Where(sq.Eq{"user_id": userID, "read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build unread count: %w", err)
	}

	var count int
	if err := q.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}

	return count, nil
}

// MarkRead flags one notification as read. The user id guards against
// marking another user's notification.
func (r *Repo) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Update("notifications").
		Set("read", true).
		Where(sq.Eq{"id": notificationID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark read: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return mapError(err, "notification", notificationID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notification %s: %w", notificationID, domain.ErrNotFound)
	}

	return nil
}

// MarkAllRead flags every unread notification of a user as read.
func (r *Repo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Update("notifications").
		Set("read", true).
		Where(sq.Eq{"user_id": userID, "read": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark all read: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return mapError(err, "notification", userID)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Chat messages
// ---------------------------------------------------------------------------

// CreateChatMessage inserts a message into a question's discussion thread.
func (r *Repo) CreateChatMessage(ctx context.Context, m *domain.ChatMessage) (*domain.ChatMessage, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Insert("chat_messages").
		Columns("id", "question_id", "author_id", "text", "created_at").
		Values(m.ID, m.QuestionID, m.AuthorID, m.Text, m.CreatedAt).
		Suffix("RETURNING id, question_id, author_id, text, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build chat message insert: %w", err)
	}

	var created domain.ChatMessage
	err = q.QueryRow(ctx, sql, args...).
		Scan(&created.ID, &created.QuestionID, &created.AuthorID, &created.Text, &created.CreatedAt)
	if err != nil {
		return nil, mapError(err, "chat_message", m.ID)
	}
	created.Username = m.Username

	return &created, nil
}

// ListChatMessages returns a question's thread, oldest first, joined with
// author usernames.
func (r *Repo) ListChatMessages(ctx context.Context, questionID uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select("m.id", "m.question_id", "m.author_id", "u.username", "m.text", "m.created_at").
		From("chat_messages m").
		Join("users u ON u.id = m.author_id").
		Where(sq.Eq{"m.question_id": questionID}).
		OrderBy("m.created_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build chat message list: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []*domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.QuestionID, &m.AuthorID, &m.Username, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}

	return messages, nil
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

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var (
		n     domain.Notification
		ntype string
	)
	err := row.Scan(&n.ID, &n.UserID, &ntype, &n.Message, &n.QuestionID, &n.Read, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	n.Type = domain.NotificationType(ntype)
	return &n, nil
}
