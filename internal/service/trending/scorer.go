package trending

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/baloria-app/baloria-backend/internal/domain"
)

// DefaultThreshold is the minimum score a question needs to count as trending.
const DefaultThreshold = 1.0

// DefaultLimit is the number of questions a trending selection returns.
const DefaultLimit = 5

// minAgeHours guards freshly created questions from ranking on near-zero age.
const minAgeHours = 0.1

// Score is a pure function. No DB, no context, no logger.
//
// engagement = 2*hearts + answers, decayed by (hoursSince + 2)^1.5. Questions
// younger than 0.1h score 0, as does anything with a timestamp in the future.
// Negative counter values are clamped to 0, so the result is always finite
// and non-negative.
func Score(hearts, answers int, createdAt, now time.Time) float64 {
	hoursSince := now.Sub(createdAt).Hours()
	if hoursSince < minAgeHours {
		return 0
	}

	if hearts < 0 {
		hearts = 0
	}
	if answers < 0 {
		answers = 0
	}

	engagement := float64(2*hearts + answers)
	return engagement / math.Pow(hoursSince+2, 1.5)
}

// ScoredCandidate pairs a candidate with its computed score.
type ScoredCandidate struct {
	ID    uuid.UUID
	Score float64
}

// SelectTrending ranks candidates by score descending and returns at most
// limit entries scoring at or above threshold. The sort is stable: candidates
// with equal scores keep their input order. Zero or negative limit falls back
// to DefaultLimit. An empty candidate list selects nothing.
func SelectTrending(candidates []domain.TrendingCandidate, now time.Time, limit int, threshold float64) []ScoredCandidate {
	if limit <= 0 {
		limit = DefaultLimit
	}

	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		s := Score(c.HeartsCount, c.AnswersCount, c.CreatedAt, now)
		if s >= threshold {
			scored = append(scored, ScoredCandidate{ID: c.ID, Score: s})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	return scored
}

// IsTrending reports whether a single question clears the threshold.
func IsTrending(hearts, answers int, createdAt, now time.Time, threshold float64) bool {
	return Score(hearts, answers, createdAt, now) >= threshold
}
