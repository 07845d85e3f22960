package domain

// QuestionStatus represents the lifecycle state of a question.
type QuestionStatus string

const (
	QuestionStatusOpen   QuestionStatus = "OPEN"
	QuestionStatusClosed QuestionStatus = "CLOSED"
)

func (s QuestionStatus) String() string { return string(s) }

func (s QuestionStatus) IsValid() bool {
	switch s {
	case QuestionStatusOpen, QuestionStatusClosed:
		return true
	}
	return false
}

// ActionType identifies a rewarded user action. Badge thresholds and daily
// challenges are keyed by action type.
type ActionType string

const (
	ActionAskQuestion    ActionType = "ask_question"
	ActionAnswerQuestion ActionType = "answer_question"
	ActionGiveHeart      ActionType = "give_heart"
	ActionStreak         ActionType = "streak"
)

func (a ActionType) String() string { return string(a) }

func (a ActionType) IsValid() bool {
	switch a {
	case ActionAskQuestion, ActionAnswerQuestion, ActionGiveHeart, ActionStreak:
		return true
	}
	return false
}

// NotificationType identifies the kind of event a notification describes.
type NotificationType string

const (
	NotificationHeartReceived      NotificationType = "HEART_RECEIVED"
	NotificationAnswerReceived     NotificationType = "ANSWER_RECEIVED"
	NotificationBadgeEarned        NotificationType = "BADGE_EARNED"
	NotificationChallengeCompleted NotificationType = "CHALLENGE_COMPLETED"
	NotificationLevelUp            NotificationType = "LEVEL_UP"
)

func (n NotificationType) String() string { return string(n) }

func (n NotificationType) IsValid() bool {
	switch n {
	case NotificationHeartReceived, NotificationAnswerReceived,
		NotificationBadgeEarned, NotificationChallengeCompleted, NotificationLevelUp:
		return true
	}
	return false
}

// UserRole represents the authorization level of a user.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleUser, UserRoleAdmin:
		return true
	}
	return false
}

func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin
}
