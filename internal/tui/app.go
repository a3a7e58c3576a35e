package tui

import (
	"context"
	"strings"
	"time"

	"habits/internal/habit"
	"habits/internal/i18n"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RefreshInterval 定时重算连续天数的间隔
// RefreshInterval is how often the grid re-derives the window and streaks,
// so a session left open past midnight moves to the new day.
const RefreshInterval = time.Minute

// --- Tea Messages ---

// NoticeMsg 提示出现或消失 / The transient notice was posted or cleared
type NoticeMsg struct{}

// tickMsg 定时刷新 / Periodic refresh tick
type tickMsg time.Time

// App 习惯网格 / The habit grid program model
type App struct {
	// 布局 / Layout
	width  int
	height int

	// 数据 / Data
	ctx     context.Context
	tracker *habit.Tracker
	habits  []habit.Habit
	window  []string
	today   string

	// 光标 / Cursor
	row int
	col int

	// 输入 / Input
	input  textinput.Model
	adding bool

	// 状态 / State
	showHelp  bool
	helpCache string
	helpWidth int
	status    string
	lastError string

	// 配置 / Config
	theme  Theme
	keys   KeyMap
	locale *i18n.I18n
}

// NewApp 创建 TUI 应用
// NewApp creates the grid over tracker. The cursor starts on today's column.
func NewApp(ctx context.Context, tracker *habit.Tracker) App {
	if ctx == nil {
		ctx = context.Background()
	}
	ti := textinput.New()
	ti.Placeholder = i18n.T("input.placeholder")
	ti.Prompt = i18n.T("input.prompt")
	ti.CharLimit = 120

	a := App{
		ctx:     ctx,
		tracker: tracker,
		input:   ti,
		theme:   DarkTheme(),
		keys:    DefaultKeyMap(),
		locale:  i18n.Global(),
	}
	a.reload()
	a.col = len(a.window) - 1
	return a
}

func (a App) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.adding {
			return a.updateInput(msg)
		}
		return a.updateGrid(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = max(msg.Width-lipgloss.Width(a.input.Prompt)-2, 10)
		return a, nil

	case NoticeMsg:
		// 只需重新渲染 / re-render only
		return a, nil

	case tickMsg:
		wasToday := a.today
		if _, err := a.tracker.Refresh(a.ctx); err != nil {
			a.lastError = err.Error()
		}
		a.reload()
		if wasToday != a.today {
			a.col = len(a.window) - 1
		}
		return a, tick()
	}

	if a.adding {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.showHelp {
		switch {
		case key.Matches(msg, a.keys.Help), key.Matches(msg, a.keys.Cancel):
			a.showHelp = false
			return a, nil
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Up):
		if a.row > 0 {
			a.row--
		}
	case key.Matches(msg, a.keys.Down):
		if a.row < len(a.habits)-1 {
			a.row++
		}
	case key.Matches(msg, a.keys.Left):
		if a.col > 0 {
			a.col--
		}
	case key.Matches(msg, a.keys.Right):
		if a.col < len(a.window)-1 {
			a.col++
		}
	case key.Matches(msg, a.keys.Toggle):
		a.toggleSelected()
	case key.Matches(msg, a.keys.Add):
		a.adding = true
		a.input.SetValue("")
		return a, tea.Batch(a.input.Focus(), textinput.Blink)
	case key.Matches(msg, a.keys.Delete):
		a.deleteSelected()
	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
		a.renderHelp()
	}
	return a, nil
}

func (a App) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return a, tea.Quit
	case key.Matches(msg, a.keys.Cancel):
		a.adding = false
		a.input.Blur()
		return a, nil
	case key.Matches(msg, a.keys.Submit):
		name := a.input.Value()
		a.adding = false
		a.input.Blur()
		a.input.SetValue("")
		h, ok, err := a.tracker.Create(a.ctx, name)
		a.setError(err)
		a.reload()
		if ok {
			a.row = a.indexOf(h.ID)
		}
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) toggleSelected() {
	h, ok := a.selected()
	if !ok || a.col < 0 || a.col >= len(a.window) {
		return
	}
	_, _, err := a.tracker.ToggleDate(a.ctx, h.ID, a.window[a.col])
	a.setError(err)
	a.reload()
}

func (a *App) deleteSelected() {
	h, ok := a.selected()
	if !ok {
		return
	}
	_, err := a.tracker.Delete(a.ctx, h.ID)
	a.setError(err)
	if err == nil {
		a.status = a.locale.T("status.deleted", h.Name)
	}
	a.reload()
}

func (a *App) setError(err error) {
	if err != nil {
		a.lastError = err.Error()
		return
	}
	a.lastError = ""
}

// reload 从 tracker 取最新快照并夹紧光标
func (a *App) reload() {
	a.habits = a.tracker.Habits()
	a.window = a.tracker.Window()
	a.today = a.tracker.Today()
	if a.row >= len(a.habits) {
		a.row = len(a.habits) - 1
	}
	if a.row < 0 {
		a.row = 0
	}
	if a.col >= len(a.window) {
		a.col = len(a.window) - 1
	}
	if a.col < 0 {
		a.col = 0
	}
}

func (a App) selected() (habit.Habit, bool) {
	if a.row < 0 || a.row >= len(a.habits) {
		return habit.Habit{}, false
	}
	return a.habits[a.row], true
}

func (a App) indexOf(id habit.ID) int {
	for i, h := range a.habits {
		if h.ID == id {
			return i
		}
	}
	return a.row
}

func (a *App) renderHelp() {
	width := a.width
	if width <= 0 {
		width = 80
	}
	if a.helpCache != "" && a.helpWidth == width {
		return
	}
	a.helpCache = RenderMarkdown(a.locale.T("help.markdown"), width)
	a.helpWidth = width
}

func (a App) View() string {
	if a.showHelp {
		return a.helpCache + "\n\n" + a.theme.MutedStyle.Render(a.locale.T("keys.help"))
	}

	sections := []string{
		a.theme.TitleStyle.Render(a.locale.T("app.title")) + "  " + a.theme.MutedStyle.Render(a.today),
		"",
		RenderGrid(gridView{
			habits: a.habits,
			window: a.window,
			today:  a.today,
			row:    a.row,
			col:    a.col,
			labels: gridLabels{
				habit:   a.locale.T("grid.habit"),
				streak:  a.locale.T("grid.streak"),
				actions: a.locale.T("grid.actions"),
				hint:    a.locale.T("grid.actions_hint"),
				empty:   a.locale.T("grid.empty"),
			},
		}, a.theme),
		"",
	}

	if n, ok := a.tracker.Notice(); ok && n.Kind == habit.NoticeCreated {
		sections = append(sections, a.theme.SuccessStyle.Render("✓ "+a.locale.T("notice.created", n.Name)))
	}
	if a.lastError != "" {
		sections = append(sections, a.theme.ErrorStyle.Render(a.locale.T("status.error", a.lastError)))
	}
	if a.adding {
		sections = append(sections,
			a.theme.InputStyle.Render(a.input.View()),
			a.theme.MutedStyle.Render(a.locale.T("input.submit_hint")))
	} else {
		sections = append(sections, a.renderStatusBar())
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a App) renderStatusBar() string {
	left := a.status
	if left == "" {
		left = a.locale.T("status.ready")
	}
	hints := strings.Join([]string{
		a.locale.T("keys.move"),
		a.locale.T("keys.date"),
		a.locale.T("keys.toggle"),
		a.locale.T("keys.add"),
		a.locale.T("keys.delete"),
		a.locale.T("keys.help"),
		a.locale.T("keys.quit"),
	}, " · ")
	bar := " " + left + " │ " + hints
	if a.width > 0 {
		return a.theme.StatusBarStyle.Width(a.width).Render(bar)
	}
	return a.theme.StatusBarStyle.Render(bar)
}

// Run 启动 Bubble Tea TUI
// Run starts the grid and blocks until the user quits or ctx is done.
// Notifier changes are forwarded to the program so the notice clears on
// screen without a keypress.
func Run(ctx context.Context, tracker *habit.Tracker, notifier *habit.Notifier, altScreen bool) error {
	app := NewApp(ctx, tracker)
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(app, opts...)
	if notifier != nil {
		// Send 会阻塞直到事件循环接收，Post 可能在 Update 内触发
		notifier.OnChange(func() { go p.Send(NoticeMsg{}) })
		defer notifier.OnChange(nil)
	}
	_, err := p.Run()
	return err
}
