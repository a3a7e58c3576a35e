package habit

import "time"

// WindowDays 展示窗口天数 / Number of days in the display window
const WindowDays = 7

// Window returns the last WindowDays dates, oldest first, ending with today.
func Window(today time.Time) []string {
	return WindowOf(today, WindowDays)
}

// WindowOf returns the last n dates, oldest first, ending with today.
func WindowOf(today time.Time, n int) []string {
	if n <= 0 {
		return nil
	}
	today = midday(today)
	days := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, Day(today.AddDate(0, 0, -i)))
	}
	return days
}
