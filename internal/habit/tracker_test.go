package habit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type memSlot struct {
	data     []byte
	readErr  error
	writeErr error
	writes   int
}

func (m *memSlot) Read(context.Context) ([]byte, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.data, nil
}

func (m *memSlot) Write(_ context.Context, data []byte) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.data = append([]byte(nil), data...)
	m.writes++
	return nil
}

func newTestTracker(t *testing.T, slot *memSlot) (*Tracker, *FixedClock) {
	t.Helper()
	clock := NewFixedClock(day0)
	tr := NewTracker(slot, WithClock(clock))
	tr.Load(context.Background())
	return tr, clock
}

func TestTracker_Create(t *testing.T) {
	ctx := context.Background()
	slot := &memSlot{}
	tr, _ := newTestTracker(t, slot)

	h, ok, err := tr.Create(ctx, "  Drink water  ")
	if err != nil || !ok {
		t.Fatalf("Create=%v, %v; want ok", ok, err)
	}
	if h.Name != "Drink water" {
		t.Fatalf("Name=%q, want %q", h.Name, "Drink water")
	}
	if h.Streak != 0 || len(h.Completions) != 0 {
		t.Fatalf("new habit should be empty: %+v", h)
	}
	if h.ID != ID(day0.UnixMilli()) {
		t.Fatalf("ID=%d, want creation millis %d", h.ID, day0.UnixMilli())
	}
	if got := tr.Habits(); len(got) != 1 {
		t.Fatalf("Habits count=%d, want 1", len(got))
	}
	if slot.writes != 1 {
		t.Fatalf("writes=%d, want 1", slot.writes)
	}
}

func TestTracker_CreateBlankIgnored(t *testing.T) {
	ctx := context.Background()
	slot := &memSlot{}
	tr, _ := newTestTracker(t, slot)

	for _, name := range []string{"", "   ", "\t\n"} {
		if _, ok, err := tr.Create(ctx, name); ok || err != nil {
			t.Fatalf("Create(%q)=%v, %v; want ignored", name, ok, err)
		}
	}
	if n := len(tr.Habits()); n != 0 {
		t.Fatalf("Habits count=%d, want 0", n)
	}
	if slot.writes != 0 {
		t.Fatalf("blank create should not persist, writes=%d", slot.writes)
	}
}

func TestTracker_IDsUniqueAndMonotonic(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t, &memSlot{})

	// clock does not move, ids still must differ
	var prev ID
	for i := 0; i < 5; i++ {
		h, _, err := tr.Create(ctx, "habit")
		if err != nil {
			t.Fatal(err)
		}
		if h.ID <= prev {
			t.Fatalf("id %d not greater than %d", h.ID, prev)
		}
		prev = h.ID
	}
}

func TestTracker_ToggleScenarios(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t, &memSlot{})
	h, _, _ := tr.Create(ctx, "Read")

	for _, d := range []string{"2026-10-14", "2026-10-13", "2026-10-12"} {
		if _, ok, err := tr.ToggleDate(ctx, h.ID, d); !ok || err != nil {
			t.Fatalf("ToggleDate(%s)=%v, %v", d, ok, err)
		}
	}
	got, _ := tr.Get(h.ID)
	if got.Streak != 3 {
		t.Fatalf("Streak=%d, want 3", got.Streak)
	}

	// un-complete today: yesterday's run no longer counts
	got, _, _ = tr.ToggleDate(ctx, h.ID, "2026-10-14")
	if got.Streak != 0 {
		t.Fatalf("Streak=%d after clearing today, want 0", got.Streak)
	}
}

func TestTracker_ToggleIsInverse(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t, &memSlot{})
	h, _, _ := tr.Create(ctx, "Read")
	tr.ToggleDate(ctx, h.ID, "2026-10-14")
	before, _ := tr.Get(h.ID)

	for _, d := range []string{"2026-10-13", "2026-10-14", "2026-09-01"} {
		tr.ToggleDate(ctx, h.ID, d)
		tr.ToggleDate(ctx, h.ID, d)
		after, _ := tr.Get(h.ID)
		if diff := cmp.Diff(before, after); diff != "" {
			t.Fatalf("double toggle of %s changed habit (-before +after):\n%s", d, diff)
		}
	}
}

func TestTracker_ToggleIgnoresBadInput(t *testing.T) {
	ctx := context.Background()
	slot := &memSlot{}
	tr, _ := newTestTracker(t, slot)
	h, _, _ := tr.Create(ctx, "Read")
	writes := slot.writes

	if _, ok, _ := tr.ToggleDate(ctx, h.ID+100, "2026-10-14"); ok {
		t.Fatal("unknown id should be ignored")
	}
	if _, ok, _ := tr.ToggleDate(ctx, h.ID, "yesterday"); ok {
		t.Fatal("malformed date should be ignored")
	}
	if slot.writes != writes {
		t.Fatalf("ignored toggles persisted: writes=%d, want %d", slot.writes, writes)
	}
}

func TestTracker_Delete(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t, &memSlot{})
	a, _, _ := tr.Create(ctx, "A")
	b, _, _ := tr.Create(ctx, "B")

	before := tr.Habits()
	if ok, err := tr.Delete(ctx, b.ID+a.ID); ok || err != nil {
		t.Fatalf("Delete(unknown)=%v, %v; want no-op", ok, err)
	}
	if diff := cmp.Diff(before, tr.Habits()); diff != "" {
		t.Fatalf("unknown delete changed collection:\n%s", diff)
	}

	if ok, err := tr.Delete(ctx, a.ID); !ok || err != nil {
		t.Fatalf("Delete=%v, %v", ok, err)
	}
	got := tr.Habits()
	if len(got) != 1 || got[0].ID != b.ID {
		t.Fatalf("unexpected habits after delete: %+v", got)
	}
}

func TestTracker_LoadRecomputesStreak(t *testing.T) {
	slot := &memSlot{data: []byte(`[{"id":1,"name":"Read","dates":{"2026-10-13":true,"2026-10-12":true},"streak":2}]`)}
	tr, _ := newTestTracker(t, slot)

	got := tr.Habits()
	if len(got) != 1 {
		t.Fatalf("Habits count=%d, want 1", len(got))
	}
	// cached streak 2 is stale: today is not completed
	if got[0].Streak != 0 {
		t.Fatalf("Streak=%d, want 0", got[0].Streak)
	}
}

func TestTracker_LoadFallsBackToEmpty(t *testing.T) {
	for name, slot := range map[string]*memSlot{
		"absent":    {},
		"malformed": {data: []byte(`{"habits": nope`)},
		"read fail": {readErr: errors.New("disk gone")},
	} {
		t.Run(name, func(t *testing.T) {
			tr, _ := newTestTracker(t, slot)
			if n := len(tr.Habits()); n != 0 {
				t.Fatalf("Habits count=%d, want 0", n)
			}
		})
	}
}

func TestTracker_PersistRoundTrip(t *testing.T) {
	ctx := context.Background()
	slot := &memSlot{}
	tr, clock := newTestTracker(t, slot)
	a, _, _ := tr.Create(ctx, "A")
	clock.Advance(time.Second)
	tr.Create(ctx, "B")
	tr.ToggleDate(ctx, a.ID, "2026-10-14")

	reloaded := NewTracker(slot, WithClock(clock))
	reloaded.Load(ctx)
	if diff := cmp.Diff(tr.Habits(), reloaded.Habits()); diff != "" {
		t.Fatalf("reload mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestTracker_WriteFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	slot := &memSlot{writeErr: errors.New("read-only")}
	tr, _ := newTestTracker(t, slot)

	_, ok, err := tr.Create(ctx, "A")
	if !ok || err == nil {
		t.Fatalf("Create=%v, %v; want created with persist error", ok, err)
	}
	if !errors.Is(err, slot.writeErr) {
		t.Fatalf("error should wrap slot error: %v", err)
	}
	if n := len(tr.Habits()); n != 1 {
		t.Fatalf("Habits count=%d, want 1", n)
	}
}

func TestTracker_RefreshAfterMidnight(t *testing.T) {
	ctx := context.Background()
	slot := &memSlot{}
	tr, clock := newTestTracker(t, slot)
	h, _, _ := tr.Create(ctx, "Read")
	tr.ToggleDate(ctx, h.ID, "2026-10-14")

	if changed, _ := tr.Refresh(ctx); changed {
		t.Fatal("refresh on same day should not change anything")
	}

	clock.Advance(24 * time.Hour)
	changed, err := tr.Refresh(ctx)
	if !changed || err != nil {
		t.Fatalf("Refresh=%v, %v; want changed", changed, err)
	}
	got, _ := tr.Get(h.ID)
	if got.Streak != 0 {
		t.Fatalf("Streak=%d on next day, want 0", got.Streak)
	}
}

func TestTracker_ImportExport(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t, &memSlot{})
	tr.Create(ctx, "old")

	n, err := tr.Import(ctx, []byte(`[{"id":5,"name":"Read","dates":{"2026-10-14":true}}]`))
	if err != nil || n != 1 {
		t.Fatalf("Import=%d, %v", n, err)
	}
	got := tr.Habits()
	if len(got) != 1 || got[0].Name != "Read" || got[0].Streak != 1 {
		t.Fatalf("unexpected habits after import: %+v", got)
	}

	if _, err := tr.Import(ctx, []byte(`garbage`)); err == nil {
		t.Fatal("Import(garbage) expected error")
	}
	if n := len(tr.Habits()); n != 1 {
		t.Fatalf("failed import changed collection, count=%d", n)
	}

	data, err := tr.Export()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `[{"id":5,"name":"Read","dates":{"2026-10-14":true},"streak":1}]` {
		t.Fatalf("Export=%s", data)
	}

	// ids after import keep increasing
	h, _, _ := tr.Create(ctx, "next")
	if h.ID <= 5 {
		t.Fatalf("ID=%d should be above imported ids", h.ID)
	}
}

func TestTracker_Lookup(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t, &memSlot{})
	a, _, _ := tr.Create(ctx, "A")
	b, _, _ := tr.Create(ctx, "B")

	if h, ok := tr.Lookup("2"); !ok || h.ID != b.ID {
		t.Fatalf("Lookup(2)=%+v, %v", h, ok)
	}
	if h, ok := tr.Lookup(a.ID.String()); !ok || h.ID != a.ID {
		t.Fatalf("Lookup(id)=%+v, %v", h, ok)
	}
	for _, ref := range []string{"0", "3", "-1", "x", ""} {
		if _, ok := tr.Lookup(ref); ok {
			t.Errorf("Lookup(%q) should miss", ref)
		}
	}
}

func TestTracker_CreatePostsNotice(t *testing.T) {
	ctx := context.Background()
	n := NewNotifier(time.Hour)
	t.Cleanup(n.Close)
	tr := NewTracker(&memSlot{}, WithClock(NewFixedClock(day0)), WithNotifier(n))

	if _, ok := tr.Notice(); ok {
		t.Fatal("no notice expected before create")
	}
	h, _, _ := tr.Create(ctx, "Read")
	got, ok := tr.Notice()
	if !ok || got.Kind != NoticeCreated || got.HabitID != h.ID || got.Name != "Read" {
		t.Fatalf("Notice=%+v, %v", got, ok)
	}
}
