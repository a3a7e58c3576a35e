// Package habit 维护习惯集合、打卡日期与连续天数
// Package habit owns the habit collection, per-date completions and streaks.
package habit

import (
	"sort"
	"strconv"
)

// ID 习惯唯一标识（创建时间的毫秒时间戳）
// ID uniquely identifies a habit; derived from its creation time in Unix milliseconds.
type ID int64

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Completions 已完成日期集合，键为 YYYY-MM-DD
// Completions is the set of completed calendar dates keyed by YYYY-MM-DD.
type Completions map[string]struct{}

// Has reports whether day is completed.
func (c Completions) Has(day string) bool {
	_, ok := c[day]
	return ok
}

// Days returns the completed dates in ascending order.
func (c Completions) Days() []string {
	days := make([]string, 0, len(c))
	for d := range c {
		days = append(days, d)
	}
	sort.Strings(days)
	return days
}

func (c Completions) clone() Completions {
	out := make(Completions, len(c))
	for d := range c {
		out[d] = struct{}{}
	}
	return out
}

// Habit 单个习惯记录
// Habit is a single tracked habit. Streak is derived from Completions and is
// only ever written by the Tracker.
type Habit struct {
	ID          ID
	Name        string
	Completions Completions
	Streak      int
}

// Done reports whether the habit was completed on day.
func (h Habit) Done(day string) bool {
	return h.Completions.Has(day)
}

func (h Habit) clone() Habit {
	h.Completions = h.Completions.clone()
	return h
}
