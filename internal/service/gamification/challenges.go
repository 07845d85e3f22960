package gamification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/baloria-app/baloria-backend/internal/domain"
)

// challengeDef is one entry of the rotating daily challenge pool.
type challengeDef struct {
	challengeType domain.ActionType
	description   string
	target        int
	reward        int
}

// challengeRotation is indexed per challenge type by day number, so every
// instance that runs the rollover for the same date derives the same set.
var challengeRotation = map[domain.ActionType][]challengeDef{
	domain.ActionAskQuestion: {
		{domain.ActionAskQuestion, "Stel vandaag 1 vraag", 1, 10},
		{domain.ActionAskQuestion, "Stel vandaag 2 vragen", 2, 20},
	},
	domain.ActionAnswerQuestion: {
		{domain.ActionAnswerQuestion, "Geef vandaag 3 antwoorden", 3, 15},
		{domain.ActionAnswerQuestion, "Geef vandaag 5 antwoorden", 5, 25},
		{domain.ActionAnswerQuestion, "Geef vandaag 1 antwoord", 1, 5},
	},
	domain.ActionGiveHeart: {
		{domain.ActionGiveHeart, "Geef vandaag 5 hartjes", 5, 10},
		{domain.ActionGiveHeart, "Geef vandaag 10 hartjes", 10, 20},
	},
}

// challengesFor returns the challenge set for a calendar date, one per
// rotating type, with ActiveDate normalized to midnight UTC.
func challengesFor(date time.Time) []domain.DailyChallenge {
	day := utcDate(date)
	dayNum := int(day.Unix() / 86400)

	var out []domain.DailyChallenge
	for _, typ := range []domain.ActionType{
		domain.ActionAskQuestion, domain.ActionAnswerQuestion, domain.ActionGiveHeart,
	} {
		pool := challengeRotation[typ]
		def := pool[dayNum%len(pool)]
		out = append(out, domain.DailyChallenge{
			ID:            uuid.New(),
			ChallengeType: def.challengeType,
			Description:   def.description,
			TargetValue:   def.target,
			KarmaReward:   def.reward,
			ActiveDate:    day,
		})
	}
	return out
}

// EnsureDailyChallenges creates the challenge set for the given date if it
// does not exist yet. Safe to call repeatedly and from multiple instances;
// the unique constraint on (active_date, challenge_type) makes the create a
// no-op for rows that already exist.
func (s *Service) EnsureDailyChallenges(ctx context.Context, date time.Time) error {
	for _, c := range challengesFor(date) {
		created, err := s.challenges.CreateForDate(ctx, c)
		if err != nil {
			return fmt.Errorf("gamification.EnsureDailyChallenges: %w", err)
		}
		if created {
			s.log.Info("daily challenge created",
				"date", c.ActiveDate.Format("2006-01-02"),
				"type", c.ChallengeType.String(),
				"target", c.TargetValue)
		}
	}
	return nil
}

// utcDate truncates t to midnight UTC of its UTC calendar date.
func utcDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
