package tui

import (
	"strconv"
	"strings"

	"habits/internal/habit"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	markDone    = "✓"
	markMissing = "·"

	dayColWidth    = 7
	streakColWidth = 8
	minNameWidth   = 8
	maxNameWidth   = 24
)

// RenderMarkdown 使用 Glamour 渲染 markdown 文本
// RenderMarkdown renders markdown text using Glamour
func RenderMarkdown(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}

	return strings.TrimRight(rendered, "\n")
}

// gridView 网格渲染所需的数据快照
type gridView struct {
	habits   []habit.Habit
	window   []string
	today    string
	row, col int
	labels   gridLabels
}

type gridLabels struct {
	habit, streak, actions, hint, empty string
}

// RenderGrid 渲染习惯网格：名称、连续天数、窗口日期和操作提示
// RenderGrid draws one row per habit: name, streak, one cell per window
// date and an actions hint on the selected row.
func RenderGrid(v gridView, theme Theme) string {
	if len(v.habits) == 0 {
		return theme.MutedStyle.Render(v.labels.empty)
	}

	nameWidth := nameColumnWidth(v.habits, v.labels.habit)
	var b strings.Builder

	// 表头 / Header
	b.WriteString("  ")
	b.WriteString(theme.HeaderStyle.Render(runewidth.FillRight(v.labels.habit, nameWidth)))
	b.WriteString(theme.HeaderStyle.Width(streakColWidth).Align(lipgloss.Center).Render(v.labels.streak))
	for _, day := range v.window {
		style := theme.HeaderStyle
		if day == v.today {
			style = theme.TodayStyle
		}
		b.WriteString(style.Width(dayColWidth).Align(lipgloss.Center).Render(shortDay(day)))
	}
	b.WriteString(" ")
	b.WriteString(theme.HeaderStyle.Render(v.labels.actions))
	b.WriteString("\n")

	for i, h := range v.habits {
		selected := i == v.row
		cursor := "  "
		nameStyle := theme.RowStyle
		if selected {
			cursor = theme.TodayStyle.Render("› ")
			nameStyle = theme.SelectedStyle
		}
		b.WriteString(cursor)
		name := runewidth.Truncate(h.Name, nameWidth-2, "…")
		b.WriteString(nameStyle.Render(runewidth.FillRight(name, nameWidth)))
		b.WriteString(theme.StreakStyle.Width(streakColWidth).Align(lipgloss.Center).Render(strconv.Itoa(h.Streak)))

		for j, day := range v.window {
			mark, style := markMissing, theme.MissingStyle
			if h.Done(day) {
				mark, style = markDone, theme.DoneStyle
			}
			cell := style.Width(dayColWidth).Align(lipgloss.Center)
			if selected && j == v.col {
				cell = theme.CursorStyle.Width(dayColWidth).Align(lipgloss.Center)
			}
			b.WriteString(cell.Render(mark))
		}
		if selected {
			b.WriteString(" ")
			b.WriteString(theme.MutedStyle.Render(v.labels.hint))
		}
		if i < len(v.habits)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func nameColumnWidth(habits []habit.Habit, header string) int {
	w := runewidth.StringWidth(header)
	for _, h := range habits {
		if n := runewidth.StringWidth(h.Name); n > w {
			w = n
		}
	}
	if w < minNameWidth {
		w = minNameWidth
	}
	if w > maxNameWidth {
		w = maxNameWidth
	}
	return w + 2
}

// shortDay 把 YYYY-MM-DD 缩为 MM-DD
func shortDay(day string) string {
	if len(day) == len(habit.DayLayout) {
		return day[5:]
	}
	return day
}
