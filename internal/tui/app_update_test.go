package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"habits/internal/habit"
	"habits/internal/i18n"

	tea "github.com/charmbracelet/bubbletea"
)

type memSlot struct {
	data     []byte
	writeErr error
}

func (m *memSlot) Read(context.Context) ([]byte, error) { return m.data, nil }

func (m *memSlot) Write(_ context.Context, data []byte) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.data = append([]byte(nil), data...)
	return nil
}

var day0 = time.Date(2026, 10, 14, 9, 30, 0, 0, time.Local)

func newTestApp(t *testing.T) (App, *habit.Tracker, *habit.FixedClock, *memSlot) {
	t.Helper()
	i18n.Init("en")
	clock := habit.NewFixedClock(day0)
	notifier := habit.NewNotifier(time.Hour)
	t.Cleanup(notifier.Close)
	slot := &memSlot{}
	tr := habit.NewTracker(slot, habit.WithClock(clock), habit.WithNotifier(notifier))
	tr.Load(context.Background())
	app := NewApp(context.Background(), tr)
	app.width, app.height = 100, 30
	return app, tr, clock, slot
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func send(t *testing.T, app App, msgs ...tea.Msg) App {
	t.Helper()
	for _, msg := range msgs {
		m, _ := app.Update(msg)
		app = m.(App)
	}
	return app
}

func TestAppUpdate_AddHabit(t *testing.T) {
	app, tr, _, slot := newTestApp(t)
	if !strings.Contains(app.View(), "No habits yet") {
		t.Fatalf("empty view missing hint: %q", app.View())
	}

	app = send(t, app, runes("a"))
	if !app.adding {
		t.Fatal("expected input mode after a")
	}
	app = send(t, app, runes("R"), runes("e"), runes("a"), runes("d"), tea.KeyMsg{Type: tea.KeyEnter})
	if app.adding {
		t.Fatal("expected input mode closed after enter")
	}

	habits := tr.Habits()
	if len(habits) != 1 || habits[0].Name != "Read" {
		t.Fatalf("habits=%+v, want one named Read", habits)
	}
	if len(slot.data) == 0 {
		t.Fatal("create did not persist")
	}
	view := app.View()
	if !strings.Contains(view, "Read") {
		t.Fatalf("view missing habit row: %q", view)
	}
	if !strings.Contains(view, `Created habit "Read"`) {
		t.Fatalf("view missing created notice: %q", view)
	}
}

func TestAppUpdate_CancelAndBlankInput(t *testing.T) {
	app, tr, _, _ := newTestApp(t)

	app = send(t, app, runes("a"), runes("x"), tea.KeyMsg{Type: tea.KeyEsc})
	if app.adding || len(tr.Habits()) != 0 {
		t.Fatalf("esc should cancel without creating: adding=%v habits=%d", app.adding, len(tr.Habits()))
	}

	app = send(t, app, runes("a"), runes(" "), tea.KeyMsg{Type: tea.KeyEnter})
	if len(tr.Habits()) != 0 {
		t.Fatal("blank name created a habit")
	}

	// q 在输入框中是普通字符 / q is text while typing
	app = send(t, app, runes("a"), runes("q"))
	if !app.adding {
		t.Fatal("q left input mode")
	}
	if app.input.Value() != "q" {
		t.Fatalf("input=%q, want q", app.input.Value())
	}
}

func TestAppUpdate_ToggleAndMove(t *testing.T) {
	app, tr, _, _ := newTestApp(t)
	ctx := context.Background()
	h, _, _ := tr.Create(ctx, "Read")
	app = send(t, app, tea.WindowSizeMsg{Width: 100, Height: 30})
	app.reload()

	if app.col != len(app.window)-1 {
		t.Fatalf("cursor col=%d, want today (%d)", app.col, len(app.window)-1)
	}

	app = send(t, app, tea.KeyMsg{Type: tea.KeySpace})
	if got, _ := tr.Get(h.ID); got.Streak != 1 || !got.Done("2026-10-14") {
		t.Fatalf("after toggling today: %+v", got)
	}

	app = send(t, app, runes("h"), tea.KeyMsg{Type: tea.KeyEnter})
	if got, _ := tr.Get(h.ID); got.Streak != 2 || !got.Done("2026-10-13") {
		t.Fatalf("after toggling yesterday: %+v", got)
	}

	app = send(t, app, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeySpace})
	if got, _ := tr.Get(h.ID); got.Streak != 0 || got.Done("2026-10-14") {
		t.Fatalf("second toggle of today should clear it: %+v", got)
	}

	// 光标不越界 / cursor stays in bounds
	app = send(t, app, runes("l"), runes("l"), runes("j"), runes("j"), runes("k"), runes("k"))
	if app.col != len(app.window)-1 || app.row != 0 {
		t.Fatalf("cursor=(%d,%d), want (0,%d)", app.row, app.col, len(app.window)-1)
	}
}

func TestAppUpdate_Delete(t *testing.T) {
	app, tr, _, _ := newTestApp(t)
	ctx := context.Background()
	_, _, _ = tr.Create(ctx, "Read")
	_, _, _ = tr.Create(ctx, "Walk")
	app.reload()

	app = send(t, app, runes("j"), runes("d"))
	habits := tr.Habits()
	if len(habits) != 1 || habits[0].Name != "Read" {
		t.Fatalf("habits=%+v, want only Read", habits)
	}
	if app.row != 0 {
		t.Fatalf("row=%d, want clamped to 0", app.row)
	}
	if !strings.Contains(app.View(), "Deleted Walk") {
		t.Fatalf("view missing delete status: %q", app.View())
	}
}

func TestAppUpdate_HelpPage(t *testing.T) {
	app, tr, _, _ := newTestApp(t)
	_, _, _ = tr.Create(context.Background(), "Read")
	app.reload()

	app = send(t, app, runes("?"))
	if !app.showHelp {
		t.Fatal("expected help page")
	}
	if !strings.Contains(app.View(), "streak") {
		t.Fatalf("help view=%q", app.View())
	}

	// 帮助页中按键不修改数据 / keys do not mutate while help is open
	app = send(t, app, tea.KeyMsg{Type: tea.KeySpace}, runes("d"))
	if got := tr.Habits(); len(got) != 1 || got[0].Streak != 0 {
		t.Fatalf("help page let keys through: %+v", got)
	}

	app = send(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	if app.showHelp {
		t.Fatal("esc should close help")
	}
}

func TestAppUpdate_TickFollowsDate(t *testing.T) {
	app, tr, clock, _ := newTestApp(t)
	ctx := context.Background()
	h, _, _ := tr.Create(ctx, "Read")
	_, _, _ = tr.ToggleDate(ctx, h.ID, "2026-10-14")
	app.reload()
	app.col = 2

	clock.Advance(24 * time.Hour)
	m, cmd := app.Update(tickMsg(clock.Now()))
	app = m.(App)
	if cmd == nil {
		t.Fatal("tick should schedule the next tick")
	}
	if app.today != "2026-10-15" || app.window[len(app.window)-1] != "2026-10-15" {
		t.Fatalf("today=%q window=%v", app.today, app.window)
	}
	if app.col != len(app.window)-1 {
		t.Fatalf("col=%d, want reset to today", app.col)
	}
	if got, _ := tr.Get(h.ID); got.Streak != 0 {
		t.Fatalf("streak=%d after midnight, want 0", got.Streak)
	}
}

func TestAppUpdate_PersistErrorShown(t *testing.T) {
	app, _, _, slot := newTestApp(t)
	slot.writeErr = errors.New("disk full")
	app = send(t, app, runes("a"), runes("x"), tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(app.View(), "disk full") {
		t.Fatalf("view missing error: %q", app.View())
	}
}

func TestAppUpdate_Quit(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	for _, msg := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := app.Update(msg)
		if cmd == nil {
			t.Fatalf("%v: expected quit command", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%v: expected tea.QuitMsg", msg)
		}
	}
}
