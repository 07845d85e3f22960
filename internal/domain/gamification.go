package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserStats holds the cumulative engagement counters for one user.
// Level is a cache of LevelFor(Points); it is recomputed in the same
// transaction as every points mutation.
type UserStats struct {
	UserID         uuid.UUID
	Points         int
	Level          int
	StreakDays     int
	QuestionsCount int
	AnswersCount   int
	HeartsGiven    int
	HeartsReceived int
	LastActiveAt   *time.Time
	UpdatedAt      time.Time
}

// Badge is a catalog entry. The catalog is static and seeded once.
type Badge struct {
	ID          uuid.UUID
	Name        string
	Description string
	Icon        string
	Category    ActionType
	Threshold   int
}

// UserBadge is the append-only join of earned badges. A badge once earned is
// never revoked.
type UserBadge struct {
	UserID   uuid.UUID
	BadgeID  uuid.UUID
	EarnedAt time.Time
}

// DailyChallenge is a per-calendar-date goal. Exactly one set is created per
// day, idempotently.
type DailyChallenge struct {
	ID            uuid.UUID
	ChallengeType ActionType
	Description   string
	TargetValue   int
	KarmaReward   int
	ActiveDate    time.Time // date only, midnight UTC
}

// UserChallengeProgress tracks one user's progress on one challenge.
// Completed flips to true the instant Progress >= TargetValue and is sticky.
type UserChallengeProgress struct {
	UserID      uuid.UUID
	ChallengeID uuid.UUID
	Progress    int
	Completed   bool
	UpdatedAt   time.Time
}

// Quota is the daily content-creation allowance for one action type.
type Quota struct {
	Max       int
	Remaining int
	Allowed   bool
}

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	UserID    uuid.UUID
	Username  string
	AvatarURL *string
	Points    int
	Level     int
	Rank      int
}
