package tui

import "github.com/charmbracelet/lipgloss"

// Theme 定义 TUI 主题色彩和样式
// Theme defines TUI colors and styles
type Theme struct {
	// 基础色 / Base colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Danger    lipgloss.Color
	Success   lipgloss.Color
	Muted     lipgloss.Color
	Text      lipgloss.Color
	TextDim   lipgloss.Color
	Border    lipgloss.Color

	// 预构建样式 / Pre-built styles
	TitleStyle     lipgloss.Style
	HeaderStyle    lipgloss.Style
	TodayStyle     lipgloss.Style
	RowStyle       lipgloss.Style
	SelectedStyle  lipgloss.Style
	CursorStyle    lipgloss.Style
	DoneStyle      lipgloss.Style
	MissingStyle   lipgloss.Style
	StreakStyle    lipgloss.Style
	StatusBarStyle lipgloss.Style
	InputStyle     lipgloss.Style
	ErrorStyle     lipgloss.Style
	SuccessStyle   lipgloss.Style
	MutedStyle     lipgloss.Style
}

// DarkTheme 暗色主题（默认）
// DarkTheme is the default dark theme
func DarkTheme() Theme {
	t := Theme{
		Primary:   lipgloss.Color("#7C3AED"),
		Secondary: lipgloss.Color("#06B6D4"),
		Accent:    lipgloss.Color("#F59E0B"),
		Danger:    lipgloss.Color("#EF4444"),
		Success:   lipgloss.Color("#10B981"),
		Muted:     lipgloss.Color("#6B7280"),
		Text:      lipgloss.Color("#E5E7EB"),
		TextDim:   lipgloss.Color("#9CA3AF"),
		Border:    lipgloss.Color("#374151"),
	}

	t.TitleStyle = lipgloss.NewStyle().
		Foreground(t.Primary).
		Bold(true)

	t.HeaderStyle = lipgloss.NewStyle().
		Foreground(t.TextDim).
		Bold(true)

	t.TodayStyle = lipgloss.NewStyle().
		Foreground(t.Secondary).
		Bold(true)

	t.RowStyle = lipgloss.NewStyle().
		Foreground(t.Text)

	t.SelectedStyle = lipgloss.NewStyle().
		Foreground(t.Text).
		Bold(true)

	t.CursorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(t.Primary).
		Bold(true)

	t.DoneStyle = lipgloss.NewStyle().
		Foreground(t.Success).
		Bold(true)

	t.MissingStyle = lipgloss.NewStyle().
		Foreground(t.Muted)

	t.StreakStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	t.StatusBarStyle = lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(lipgloss.Color("#111827"))

	t.InputStyle = lipgloss.NewStyle().
		Foreground(t.Text).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(t.Danger).
		Bold(true)

	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(t.Success)

	t.MutedStyle = lipgloss.NewStyle().
		Foreground(t.Muted)

	return t
}
