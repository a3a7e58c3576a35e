package habit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Slot 持久化键值槽；尚无数据时 Read 返回 (nil, nil)
// Slot is the persisted key-value slot holding the serialized collection.
// Read returns (nil, nil) when nothing has been stored yet.
type Slot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// Option 配置 Tracker / Configures a Tracker
type Option func(*Tracker)

// WithClock sets the source of "today".
func WithClock(c Clock) Option {
	return func(t *Tracker) {
		if c != nil {
			t.clock = c
		}
	}
}

// WithNotifier sets where the "created" notice is posted.
func WithNotifier(n *Notifier) Option {
	return func(t *Tracker) { t.notifier = n }
}

// WithLogger sets the tracker's logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}

// Tracker 习惯集合的唯一数据源，每次变更后写回 Slot
// Tracker is the single source of truth for the habit collection. Every
// mutation recomputes derived streaks and writes the collection to its slot.
type Tracker struct {
	mu       sync.Mutex
	slot     Slot
	clock    Clock
	notifier *Notifier
	log      *zap.Logger

	habits []Habit
	lastID ID
}

// NewTracker returns an empty tracker backed by slot. Call Load to read the
// persisted collection.
func NewTracker(slot Slot, opts ...Option) *Tracker {
	t := &Tracker{
		slot:  slot,
		clock: SystemClock{},
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load 读取持久化数据；缺失或损坏时回退为空集合，不向调用方报错
// Load replaces the in-memory collection with the persisted one. A missing,
// unreadable or malformed slot yields an empty collection; the failure is
// logged and never returned. Streaks are recomputed for the current date.
func (t *Tracker) Load(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.habits = nil
	data, err := t.slot.Read(ctx)
	if err != nil {
		t.log.Warn("read habits failed, starting empty", zap.Error(err))
		return
	}
	habits, err := Decode(data)
	if err != nil {
		t.log.Warn("persisted habits malformed, starting empty", zap.Error(err))
		return
	}
	t.replaceLocked(habits)
	t.log.Debug("habits loaded", zap.Int("count", len(t.habits)))
}

// Create 新建习惯；名称去空白后为空则忽略
// Create appends a habit named name (trimmed). A blank name is ignored and
// reports false with a nil error. The returned error is a persistence
// failure only; the habit stays in the collection regardless.
func (t *Tracker) Create(ctx context.Context, name string) (Habit, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Habit{}, false, nil
	}

	t.mu.Lock()
	h := Habit{ID: t.nextIDLocked(), Name: name, Completions: Completions{}}
	t.habits = append(t.habits, h)
	err := t.persistLocked(ctx)
	t.mu.Unlock()

	t.log.Debug("habit created", zap.Int64("id", int64(h.ID)), zap.String("name", h.Name))
	if t.notifier != nil {
		t.notifier.Post(Notice{Kind: NoticeCreated, HabitID: h.ID, Name: h.Name})
	}
	return h.clone(), true, err
}

// ToggleDate 切换某日完成状态并重算连续天数
// ToggleDate flips completion of day for habit id and recomputes its streak.
// Unknown ids and malformed dates are ignored.
func (t *Tracker) ToggleDate(ctx context.Context, id ID, day string) (Habit, bool, error) {
	if !ValidDay(day) {
		return Habit{}, false, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexLocked(id)
	if i < 0 {
		return Habit{}, false, nil
	}
	h := &t.habits[i]
	if h.Completions == nil {
		h.Completions = Completions{}
	}
	if h.Completions.Has(day) {
		delete(h.Completions, day)
	} else {
		h.Completions[day] = struct{}{}
	}
	h.Streak = Streak(h.Completions, t.clock.Now())
	t.log.Debug("habit toggled",
		zap.Int64("id", int64(id)), zap.String("day", day), zap.Int("streak", h.Streak))
	return h.clone(), true, t.persistLocked(ctx)
}

// Delete removes habit id. Unknown ids are ignored.
func (t *Tracker) Delete(ctx context.Context, id ID) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexLocked(id)
	if i < 0 {
		return false, nil
	}
	t.habits = append(t.habits[:i], t.habits[i+1:]...)
	t.log.Debug("habit deleted", zap.Int64("id", int64(id)))
	return true, t.persistLocked(ctx)
}

// Refresh 日期变化后重算全部连续天数
// Refresh recomputes every streak for the current date and persists only
// when a value changed.
func (t *Tracker) Refresh(ctx context.Context) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	today := t.clock.Now()
	changed := false
	for i := range t.habits {
		if s := Streak(t.habits[i].Completions, today); s != t.habits[i].Streak {
			t.habits[i].Streak = s
			changed = true
		}
	}
	if !changed {
		return false, nil
	}
	return true, t.persistLocked(ctx)
}

// Import 以序列化数据替换集合；与 Load 不同，格式错误会返回错误
// Import replaces the collection with a serialized one and persists it.
// Unlike Load, malformed input is an error and leaves the collection as is.
func (t *Tracker) Import(ctx context.Context, data []byte) (int, error) {
	habits, err := Decode(data)
	if err != nil {
		return 0, fmt.Errorf("import habits: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.replaceLocked(habits)
	t.log.Info("habits imported", zap.Int("count", len(t.habits)))
	return len(t.habits), t.persistLocked(ctx)
}

// Export returns the serialized collection.
func (t *Tracker) Export() ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Encode(t.habits)
}

// Habits returns a copy of the collection in insertion order.
func (t *Tracker) Habits() []Habit {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Habit, 0, len(t.habits))
	for _, h := range t.habits {
		out = append(out, h.clone())
	}
	return out
}

// Get returns a copy of habit id.
func (t *Tracker) Get(id ID) (Habit, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i := t.indexLocked(id); i >= 0 {
		return t.habits[i].clone(), true
	}
	return Habit{}, false
}

// Lookup 按行号（从 1 开始）或 ID 查找习惯
// Lookup resolves ref as a 1-based row number, then as a habit id.
func (t *Tracker) Lookup(ref string) (Habit, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(ref), 10, 64)
	if err != nil || n <= 0 {
		return Habit{}, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if n <= int64(len(t.habits)) {
		return t.habits[n-1].clone(), true
	}
	if i := t.indexLocked(ID(n)); i >= 0 {
		return t.habits[i].clone(), true
	}
	return Habit{}, false
}

// Notice returns the active transient notice, if any.
func (t *Tracker) Notice() (Notice, bool) {
	if t.notifier == nil {
		return Notice{}, false
	}
	return t.notifier.Current()
}

// Now returns the tracker clock's current time.
func (t *Tracker) Now() time.Time {
	return t.clock.Now()
}

// Today returns the current date as YYYY-MM-DD.
func (t *Tracker) Today() string {
	return Day(t.clock.Now())
}

// Window returns the display window ending today.
func (t *Tracker) Window() []string {
	return Window(t.clock.Now())
}

func (t *Tracker) replaceLocked(habits []Habit) {
	today := t.clock.Now()
	for i := range habits {
		habits[i].Streak = Streak(habits[i].Completions, today)
		if habits[i].ID > t.lastID {
			t.lastID = habits[i].ID
		}
	}
	t.habits = habits
}

func (t *Tracker) indexLocked(id ID) int {
	for i := range t.habits {
		if t.habits[i].ID == id {
			return i
		}
	}
	return -1
}

// nextIDLocked 基于毫秒时间戳，保证单调递增
func (t *Tracker) nextIDLocked() ID {
	id := ID(t.clock.Now().UnixMilli())
	if id <= t.lastID {
		id = t.lastID + 1
	}
	t.lastID = id
	return id
}

func (t *Tracker) persistLocked(ctx context.Context) error {
	data, err := Encode(t.habits)
	if err != nil {
		return err
	}
	if err := t.slot.Write(ctx, data); err != nil {
		t.log.Error("persist habits failed", zap.Error(err))
		return fmt.Errorf("persist habits: %w", err)
	}
	return nil
}
