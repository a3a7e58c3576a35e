package habit

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayLayout 日期格式 / Calendar date layout (ISO 8601 date only)
const DayLayout = "2006-01-02"

// Day formats t as YYYY-MM-DD in t's own location.
func Day(t time.Time) string {
	return t.Format(DayLayout)
}

// ValidDay reports whether s is a real calendar date in YYYY-MM-DD form.
func ValidDay(s string) bool {
	if len(s) != len(DayLayout) {
		return false
	}
	_, err := time.Parse(DayLayout, s)
	return err == nil
}

// ParseDay 解析命令行中的日期参数
// ParseDay resolves a user supplied date relative to today. Accepted forms are
// "today", "yesterday", a negative day offset such as "-3", or YYYY-MM-DD.
func ParseDay(arg string, today time.Time) (string, error) {
	arg = strings.ToLower(strings.TrimSpace(arg))
	today = midday(today)
	switch arg {
	case "", "today":
		return Day(today), nil
	case "yesterday":
		return Day(today.AddDate(0, 0, -1)), nil
	}
	if strings.HasPrefix(arg, "-") {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return "", fmt.Errorf("invalid day offset %q", arg)
		}
		return Day(today.AddDate(0, 0, n)), nil
	}
	if !ValidDay(arg) {
		return "", fmt.Errorf("invalid date %q, want YYYY-MM-DD", arg)
	}
	return arg, nil
}

// midday pins t to noon of its calendar day so AddDate never lands on a
// skipped or repeated hour.
func midday(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, t.Location())
}
