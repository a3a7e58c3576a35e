package printer

import (
	"strconv"

	"habits/internal/habit"
	"habits/internal/i18n"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const (
	markDone    = "✓"
	markMissing = "·"
)

// FormatGrid 以纯文本表格渲染习惯与日期窗口
// FormatGrid renders habits against the date window as a plain-text table:
// row number, name, id, streak, then one column per day (oldest first).
func FormatGrid(habits []habit.Habit, window []string) string {
	if len(habits) == 0 {
		return i18n.T("print.empty")
	}

	headers := []string{"#", i18n.T("grid.habit"), "id", i18n.T("grid.streak")}
	for _, day := range window {
		headers = append(headers, shortDay(day))
	}

	rows := make([][]string, 0, len(habits))
	for i, h := range habits {
		row := []string{strconv.Itoa(i + 1), h.Name, h.ID.String(), strconv.Itoa(h.Streak)}
		for _, day := range window {
			if h.Done(day) {
				row = append(row, markDone)
			} else {
				row = append(row, markMissing)
			}
		}
		rows = append(rows, row)
	}

	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderColumn(false).
		StyleFunc(func(row, col int) lipgloss.Style { return cell }).
		Headers(headers...).
		Rows(rows...)
	return t.String()
}

// Grid prints FormatGrid to the output writer.
func (p *Printer) Grid(habits []habit.Habit, window []string) {
	p.Info("%s", FormatGrid(habits, window))
}

// shortDay 把 YYYY-MM-DD 缩为 MM-DD
func shortDay(day string) string {
	if len(day) == len(habit.DayLayout) {
		return day[5:]
	}
	return day
}
