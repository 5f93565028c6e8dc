package usage

import "time"

// DefaultDailyLimit applies when no limit is configured.
const DefaultDailyLimit = 20

// dayWindow maps an instant to its UTC calendar day and the start of
// the next one. Counters are keyed by the day, so rollover needs no
// reset sweep: a new day is simply a new key.
func dayWindow(now time.Time) (day time.Time, resetsAt time.Time) {
	day = now.UTC().Truncate(24 * time.Hour)
	return day, day.Add(24 * time.Hour)
}
