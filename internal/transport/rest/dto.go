package rest

import (
	"time"

	"github.com/baloria-app/baloria-backend/internal/domain"
	"github.com/baloria-app/baloria-backend/internal/service/gamification"
)

type userResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
	Role      string  `json:"role"`
	Timezone  string  `json:"timezone"`
	CreatedAt string  `json:"createdAt"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
		Role:      u.Role.String(),
		Timezone:  u.Timezone,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

type questionResponse struct {
	ID           string `json:"id"`
	AuthorID     string `json:"authorId"`
	Theme        string `json:"theme"`
	Text         string `json:"text"`
	Status       string `json:"status"`
	HeartsCount  int    `json:"heartsCount"`
	AnswersCount int    `json:"answersCount"`
	CreatedAt    string `json:"createdAt"`
}

func toQuestionResponse(q *domain.Question) questionResponse {
	return questionResponse{
		ID:           q.ID.String(),
		AuthorID:     q.AuthorID.String(),
		Theme:        q.Theme,
		Text:         q.Text,
		Status:       q.Status.String(),
		HeartsCount:  q.HeartsCount,
		AnswersCount: q.AnswersCount,
		CreatedAt:    q.CreatedAt.Format(time.RFC3339),
	}
}

func toQuestionResponses(qs []*domain.Question) []questionResponse {
	out := make([]questionResponse, 0, len(qs))
	for _, q := range qs {
		out = append(out, toQuestionResponse(q))
	}
	return out
}

type answerResponse struct {
	ID         string `json:"id"`
	QuestionID string `json:"questionId"`
	AuthorID   string `json:"authorId"`
	Text       string `json:"text"`
	CreatedAt  string `json:"createdAt"`
}

func toAnswerResponse(a *domain.Answer) answerResponse {
	return answerResponse{
		ID:         a.ID.String(),
		QuestionID: a.QuestionID.String(),
		AuthorID:   a.AuthorID.String(),
		Text:       a.Text,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
	}
}

func toAnswerResponses(as []*domain.Answer) []answerResponse {
	out := make([]answerResponse, 0, len(as))
	for _, a := range as {
		out = append(out, toAnswerResponse(a))
	}
	return out
}

type quotaResponse struct {
	Max       int  `json:"max"`
	Remaining int  `json:"remaining"`
	Allowed   bool `json:"allowed"`
}

func toQuotaResponse(q domain.Quota) quotaResponse {
	return quotaResponse{Max: q.Max, Remaining: q.Remaining, Allowed: q.Allowed}
}

type badgeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
	Threshold   int    `json:"threshold"`
}

func toBadgeResponse(b domain.Badge) badgeResponse {
	return badgeResponse{
		ID:          b.ID.String(),
		Name:        b.Name,
		Description: b.Description,
		Icon:        b.Icon,
		Category:    string(b.Category),
		Threshold:   b.Threshold,
	}
}

type statsResponse struct {
	Points         int             `json:"points"`
	Level          int             `json:"level"`
	LevelName      string          `json:"levelName"`
	ProgressToNext float64         `json:"progressToNext"`
	PointsToNext   int             `json:"pointsToNext"`
	StreakDays     int             `json:"streakDays"`
	QuestionsCount int             `json:"questionsCount"`
	AnswersCount   int             `json:"answersCount"`
	HeartsGiven    int             `json:"heartsGiven"`
	HeartsReceived int             `json:"heartsReceived"`
	Badges         []badgeResponse `json:"badges"`
}

func toStatsResponse(v *gamification.StatsView) statsResponse {
	badges := make([]badgeResponse, 0, len(v.Badges))
	for _, b := range v.Badges {
		badges = append(badges, toBadgeResponse(b))
	}
	return statsResponse{
		Points:         v.Stats.Points,
		Level:          v.Level,
		LevelName:      v.LevelName,
		ProgressToNext: v.ProgressToNext,
		PointsToNext:   v.PointsToNext,
		StreakDays:     v.Stats.StreakDays,
		QuestionsCount: v.Stats.QuestionsCount,
		AnswersCount:   v.Stats.AnswersCount,
		HeartsGiven:    v.Stats.HeartsGiven,
		HeartsReceived: v.Stats.HeartsReceived,
		Badges:         badges,
	}
}

type challengeResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	TargetValue int    `json:"targetValue"`
	KarmaReward int    `json:"karmaReward"`
	Progress    int    `json:"progress"`
	Completed   bool   `json:"completed"`
}

func toChallengeResponses(views []gamification.ChallengeView) []challengeResponse {
	out := make([]challengeResponse, 0, len(views))
	for _, v := range views {
		out = append(out, challengeResponse{
			ID:          v.Challenge.ID.String(),
			Type:        string(v.Challenge.ChallengeType),
			Description: v.Challenge.Description,
			TargetValue: v.Challenge.TargetValue,
			KarmaReward: v.Challenge.KarmaReward,
			Progress:    v.Progress,
			Completed:   v.Completed,
		})
	}
	return out
}

type leaderboardEntryResponse struct {
	UserID    string  `json:"userId"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
	Points    int     `json:"points"`
	Level     int     `json:"level"`
	Rank      int     `json:"rank"`
}

func toLeaderboardResponse(entries []domain.LeaderboardEntry) []leaderboardEntryResponse {
	out := make([]leaderboardEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, leaderboardEntryResponse{
			UserID:    e.UserID.String(),
			Username:  e.Username,
			AvatarURL: e.AvatarURL,
			Points:    e.Points,
			Level:     e.Level,
			Rank:      e.Rank,
		})
	}
	return out
}

type notificationResponse struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Message    string  `json:"message"`
	QuestionID *string `json:"questionId,omitempty"`
	Read       bool    `json:"read"`
	CreatedAt  string  `json:"createdAt"`
}

func toNotificationResponses(ns []*domain.Notification) []notificationResponse {
	out := make([]notificationResponse, 0, len(ns))
	for _, n := range ns {
		resp := notificationResponse{
			ID:        n.ID.String(),
			Type:      string(n.Type),
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		}
		if n.QuestionID != nil {
			qid := n.QuestionID.String()
			resp.QuestionID = &qid
		}
		out = append(out, resp)
	}
	return out
}

type chatMessageResponse struct {
	ID         string `json:"id"`
	QuestionID string `json:"questionId"`
	AuthorID   string `json:"authorId"`
	Username   string `json:"username"`
	Text       string `json:"text"`
	CreatedAt  string `json:"createdAt"`
}

func toChatMessageResponse(m *domain.ChatMessage) chatMessageResponse {
	return chatMessageResponse{
		ID:         m.ID.String(),
		QuestionID: m.QuestionID.String(),
		AuthorID:   m.AuthorID.String(),
		Username:   m.Username,
		Text:       m.Text,
		CreatedAt:  m.CreatedAt.Format(time.RFC3339),
	}
}

func toChatMessageResponses(ms []*domain.ChatMessage) []chatMessageResponse {
	out := make([]chatMessageResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, toChatMessageResponse(m))
	}
	return out
}
