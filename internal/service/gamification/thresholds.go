package gamification

import "github.com/baloria-app/baloria-backend/internal/domain"

// Candidate is one badge the evaluator may award: a display name plus the
// counter value at which it is earned.
type Candidate struct {
	Name      string
	Threshold int
}

// CheckThresholds returns the names of candidates whose threshold the current
// value has reached, excluding names already earned. Candidate order is
// preserved so callers can award in catalog order.
//
// Pure function. Awarding itself stays idempotent at the persistence layer,
// so a stale earned set can only cause a harmless no-op award.
func CheckThresholds(current int, candidates []Candidate, earned map[string]bool) []string {
	var newly []string
	for _, c := range candidates {
		if current < c.Threshold {
			continue
		}
		if earned[c.Name] {
			continue
		}
		newly = append(newly, c.Name)
	}
	return newly
}

// CatalogSeed returns the static badge catalog, grouped by the action whose
// counter drives each badge. The seeder upserts these by name; thresholds are
// re-read from the database at evaluation time so a rebalanced catalog takes
// effect without a redeploy.
func CatalogSeed() []domain.Badge {
	return []domain.Badge{
		{Name: "Eerste Vraag", Description: "Stel je eerste vraag", Icon: "❓", Category: domain.ActionAskQuestion, Threshold: 1},
		{Name: "Conversation Starter", Description: "Stel 10 vragen", Icon: "💬", Category: domain.ActionAskQuestion, Threshold: 10},
		{Name: "Nieuwsgierig", Description: "Stel 50 vragen", Icon: "🔍", Category: domain.ActionAskQuestion, Threshold: 50},

		{Name: "Eerste Antwoord", Description: "Geef je eerste antwoord", Icon: "✏️", Category: domain.ActionAnswerQuestion, Threshold: 1},
		{Name: "Behulpzaam", Description: "Geef 25 antwoorden", Icon: "🤝", Category: domain.ActionAnswerQuestion, Threshold: 25},
		{Name: "Guru", Description: "Geef 100 antwoorden", Icon: "🧠", Category: domain.ActionAnswerQuestion, Threshold: 100},

		{Name: "Eerste Hartje", Description: "Geef je eerste hartje", Icon: "❤️", Category: domain.ActionGiveHeart, Threshold: 1},
		{Name: "Vrijgevig", Description: "Geef 50 hartjes", Icon: "💝", Category: domain.ActionGiveHeart, Threshold: 50},

		{Name: "Volhouder", Description: "7 dagen op rij actief", Icon: "🔥", Category: domain.ActionStreak, Threshold: 7},
		{Name: "Onverslaanbaar", Description: "30 dagen op rij actief", Icon: "🏆", Category: domain.ActionStreak, Threshold: 30},
	}
}
