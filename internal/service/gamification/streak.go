package gamification

import "time"

// NextStreak computes the streak value after an action at now, given the
// previous streak and the last activity timestamp. Day boundaries are
// local-clock midnight in loc. Returns the new value and whether it differs
// from the previous one.
//
// First activity ever starts a streak of 1. Activity on the same local day
// leaves the streak untouched; the local day after the last one extends it;
// any longer gap resets it to 1.
func NextStreak(prev int, lastActive *time.Time, now time.Time, loc *time.Location) (int, bool) {
	if lastActive == nil {
		return 1, prev != 1
	}

	today := localDay(now, loc)
	lastDay := localDay(*lastActive, loc)

	switch {
	case lastDay.Equal(today):
		return prev, false
	case lastDay.Equal(today.AddDate(0, 0, -1)):
		return prev + 1, true
	default:
		return 1, prev != 1
	}
}

// localDay truncates t to midnight of its local calendar date in loc.
func localDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// parseTimezone loads an IANA zone, falling back to UTC for unknown names so
// a bad stored value can never break streak accounting.
func parseTimezone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
