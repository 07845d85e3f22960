package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated application user.
type User struct {
	ID           uuid.UUID
	Email        string
	Username     string
	PasswordHash string
	AvatarURL    *string
	Role         UserRole
	// Timezone is the IANA zone used for daily-quota and streak boundaries.
	Timezone  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultTimezone is applied to new accounts until the user picks a zone.
const DefaultTimezone = "Europe/Amsterdam"
