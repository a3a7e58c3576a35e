package habit

import (
	"sync"
	"time"
)

// NoticeDelay 提示自动消失的延迟 / How long a notice stays visible
const NoticeDelay = 3 * time.Second

// NoticeKind 提示类型 / Notice kind
type NoticeKind string

const (
	NoticeCreated NoticeKind = "created"
)

// Notice 短暂提示 / A transient confirmation shown to the user
type Notice struct {
	Kind    NoticeKind
	HabitID ID
	Name    string
}

// Notifier 持有当前提示，并在延迟后自动清除；Close 取消挂起的定时器
// Notifier holds the active notice and clears it after its delay. The
// pending clear is a cancellable task bound to the notifier's lifetime:
// Close stops it and later posts are dropped.
type Notifier struct {
	mu       sync.Mutex
	delay    time.Duration
	current  *Notice
	timer    *time.Timer
	seq      uint64
	closed   bool
	onChange func()
}

// NewNotifier returns a notifier; a non-positive delay means NoticeDelay.
func NewNotifier(delay time.Duration) *Notifier {
	if delay <= 0 {
		delay = NoticeDelay
	}
	return &Notifier{delay: delay}
}

// OnChange registers fn to run after a notice is posted or cleared. fn runs
// without the notifier lock held, possibly on the timer goroutine.
func (n *Notifier) OnChange(fn func()) {
	n.mu.Lock()
	n.onChange = fn
	n.mu.Unlock()
}

// Post makes notice current and reschedules the clear.
func (n *Notifier) Post(notice Notice) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	if n.timer != nil {
		n.timer.Stop()
	}
	n.seq++
	seq := n.seq
	n.current = &notice
	n.timer = time.AfterFunc(n.delay, func() { n.expire(seq) })
	fn := n.onChange
	n.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (n *Notifier) expire(seq uint64) {
	n.mu.Lock()
	// 已被新提示取代或已关闭 / superseded or closed
	if n.closed || seq != n.seq {
		n.mu.Unlock()
		return
	}
	n.current = nil
	n.timer = nil
	fn := n.onChange
	n.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Current returns the active notice, if any.
func (n *Notifier) Current() (Notice, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notice{}, false
	}
	return *n.current, true
}

// Close cancels the pending clear. It is safe to call more than once.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.closed = true
	n.current = nil
}
