package habit

import "time"

// Streak counts consecutive completed days walking backward from today.
// The count is anchored to today: if today is not completed the streak is 0,
// even when yesterday was.
func Streak(c Completions, today time.Time) int {
	streak := 0
	for d := midday(today); c.Has(Day(d)); d = d.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}
