package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baloria-app/baloria-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user with default role and timezone.
// Returns a filled domain.User.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:           uuid.New(),
		Email:        "testuser-" + suffix + "@example.com",
		Username:     "testuser-" + suffix,
		PasswordHash: "$2a$04$seedseedseedseedseedsewJk0PcFPrWV3BQmTpsCJpUrendwGS1O",
		Role:         domain.UserRoleUser,
		Timezone:     domain.DefaultTimezone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, email, username, password_hash, role, timezone, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Email, user.Username, user.PasswordHash,
		string(user.Role), user.Timezone, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user: %v", err)
	}

	return user
}

// SeedAdmin creates a user with the admin role.
func SeedAdmin(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()

	user := SeedUser(t, pool)
	_, err := pool.Exec(context.Background(),
		`UPDATE users SET role = 'admin' WHERE id = $1`, user.ID)
	if err != nil {
		t.Fatalf("testhelper: SeedAdmin promote user: %v", err)
	}
	user.Role = domain.UserRoleAdmin

	return user
}

// SeedQuestion creates an open question authored by the given user.
// createdAt lets tests control the trending clock.
func SeedQuestion(t *testing.T, pool *pgxpool.Pool, authorID uuid.UUID, createdAt time.Time) domain.Question {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	question := domain.Question{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Theme:     "deep",
		Text:      "Seed question " + suffix + "?",
		Status:    domain.QuestionStatusOpen,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO questions (id, author_id, theme, text, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		question.ID, question.AuthorID, question.Theme, question.Text,
		string(question.Status), question.CreatedAt, question.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedQuestion insert: %v", err)
	}

	return question
}

// SeedAnswer creates an answer to a question and bumps its answers_count,
// mirroring what the answer service does.
func SeedAnswer(t *testing.T, pool *pgxpool.Pool, questionID, authorID uuid.UUID) domain.Answer {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	answer := domain.Answer{
		ID:         uuid.New(),
		QuestionID: questionID,
		AuthorID:   authorID,
		Text:       "Seed answer " + uniqueSuffix(),
		CreatedAt:  now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO answers (id, question_id, author_id, text, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		answer.ID, answer.QuestionID, answer.AuthorID, answer.Text, answer.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAnswer insert: %v", err)
	}

	_, err = pool.Exec(ctx,
		`UPDATE questions SET answers_count = answers_count + 1 WHERE id = $1`, questionID)
	if err != nil {
		t.Fatalf("testhelper: SeedAnswer bump counter: %v", err)
	}

	return answer
}

// SeedHeart records a heart and bumps hearts_count, mirroring the question
// service's AddHeart path.
func SeedHeart(t *testing.T, pool *pgxpool.Pool, userID, questionID uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	_, err := pool.Exec(ctx,
		`INSERT INTO hearts (user_id, question_id) VALUES ($1, $2)`, userID, questionID)
	if err != nil {
		t.Fatalf("testhelper: SeedHeart insert: %v", err)
	}

	_, err = pool.Exec(ctx,
		`UPDATE questions SET hearts_count = hearts_count + 1 WHERE id = $1`, questionID)
	if err != nil {
		t.Fatalf("testhelper: SeedHeart bump counter: %v", err)
	}
}

// SeedStats creates a user_stats row with the given points and the level
// derived from them.
func SeedStats(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, points int) domain.UserStats {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	stats := domain.UserStats{
		UserID:    userID,
		Points:    points,
		Level:     domain.LevelFor(points),
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO user_stats (user_id, points, level, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE SET
			points = EXCLUDED.points, level = EXCLUDED.level, updated_at = EXCLUDED.updated_at`,
		stats.UserID, stats.Points, stats.Level, stats.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedStats upsert: %v", err)
	}

	return stats
}

// SeedBadge creates a badge catalog entry.
func SeedBadge(t *testing.T, pool *pgxpool.Pool, category domain.ActionType, threshold int) domain.Badge {
	t.Helper()
	ctx := context.Background()

	badge := domain.Badge{
		ID:          uuid.New(),
		Name:        "Seed Badge " + uniqueSuffix(),
		Description: "seeded for tests",
		Icon:        "star",
		Category:    category,
		Threshold:   threshold,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO badges (id, name, description, icon, category, threshold)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		badge.ID, badge.Name, badge.Description, badge.Icon,
		string(badge.Category), badge.Threshold,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedBadge insert: %v", err)
	}

	return badge
}

// SeedChallenge creates a daily challenge for the given date.
func SeedChallenge(t *testing.T, pool *pgxpool.Pool, challengeType domain.ActionType, target int, date time.Time) domain.DailyChallenge {
	t.Helper()
	ctx := context.Background()

	challenge := domain.DailyChallenge{
		ID:            uuid.New(),
		ChallengeType: challengeType,
		Description:   "seeded challenge " + uniqueSuffix(),
		TargetValue:   target,
		KarmaReward:   20,
		ActiveDate:    date,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO daily_challenges (id, challenge_type, description, target_value, karma_reward, active_date)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		challenge.ID, string(challenge.ChallengeType), challenge.Description,
		challenge.TargetValue, challenge.KarmaReward, challenge.ActiveDate,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedChallenge insert: %v", err)
	}

	return challenge
}

// SeedNotification creates an unread notification for the user.
func SeedNotification(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, ntype domain.NotificationType) domain.Notification {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	n := domain.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      ntype,
		Message:   "seed notification " + uniqueSuffix(),
		Read:      false,
		CreatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO notifications (id, user_id, type, message, read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.UserID, string(n.Type), n.Message, n.Read, n.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedNotification insert: %v", err)
	}

	return n
}
