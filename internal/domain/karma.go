package domain

// karmaThresholds maps level index → minimum points. Levels are capped at the
// last index; there is no uncapped growth beyond Onsterfelijk.
var karmaThresholds = [...]int{0, 50, 150, 300, 500, 800, 1200, 1800, 2500, 3500, 5000}

// karmaLevelNames maps level index → display name.
var karmaLevelNames = []string{
	"Nieuweling",
	"Beginner",
	"Luisteraar",
	"Verteller",
	"Denker",
	"Kenner",
	"Wijze",
	"Meester",
	"Goeroe",
	"Legende",
	"Onsterfelijk",
}

// MaxLevel is the highest attainable karma level.
const MaxLevel = len(karmaThresholds) - 1

// KarmaThresholds returns a copy of the level threshold table, index = level.
func KarmaThresholds() []int {
	out := make([]int, len(karmaThresholds))
	copy(out, karmaThresholds[:])
	return out
}

// LevelFor returns the level for the given points total: the largest index i
// such that points >= karmaThresholds[i], capped at MaxLevel.
func LevelFor(points int) int {
	if points < 0 {
		return 0
	}
	level := 0
	for i, min := range karmaThresholds {
		if points >= min {
			level = i
		}
	}
	return level
}

// ProgressToNext returns the percentage [0,100] of the way from the current
// level's threshold to the next. At MaxLevel the denominator uses the last
// two thresholds, so progress saturates at 100.
func ProgressToNext(points, level int) float64 {
	level = clampLevel(level)

	lower := karmaThresholds[level]
	var upper int
	if level < MaxLevel {
		upper = karmaThresholds[level+1]
	} else {
		lower = karmaThresholds[MaxLevel-1]
		upper = karmaThresholds[MaxLevel]
	}

	pct := float64(points-lower) / float64(upper-lower) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// PointsToNext returns how many points are missing for the next level.
// At MaxLevel it returns 0.
func PointsToNext(points, level int) int {
	level = clampLevel(level)

	next := karmaThresholds[MaxLevel]
	if level < MaxLevel {
		next = karmaThresholds[level+1]
	}

	if remaining := next - points; remaining > 0 {
		return remaining
	}
	return 0
}

// LevelName returns the display name for a level, clamped to the name list.
func LevelName(level int) string {
	return karmaLevelNames[clampLevel(level)]
}

func clampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}
