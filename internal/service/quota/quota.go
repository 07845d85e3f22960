package quota

import "github.com/baloria-app/baloria-backend/internal/domain"

// AdminMax is the effective daily limit for admin accounts.
const AdminMax = 9999

// Evaluate is a pure function. No DB, no context, no logger.
//
// Admins get AdminMax regardless of base and bonus. Everyone else gets
// baseMax + bonus; remaining never goes below zero even when usedToday
// overshoots the limit.
func Evaluate(usedToday, baseMax, bonus int, isAdmin bool) domain.Quota {
	max := baseMax + bonus
	if isAdmin {
		max = AdminMax
	}

	remaining := max - usedToday
	if remaining < 0 {
		remaining = 0
	}

	return domain.Quota{
		Max:       max,
		Remaining: remaining,
		Allowed:   remaining > 0,
	}
}

// badgeBonuses maps badge names to extra daily question slots. Only the
// question quota is affected; answers keep their base limit.
var badgeBonuses = map[string]int{
	"Conversation Starter": 2,
	"Guru":                 5,
}

// BonusForBadges sums the question-quota bonus of the given badge names.
func BonusForBadges(names []string) int {
	total := 0
	for _, name := range names {
		total += badgeBonuses[name]
	}
	return total
}
