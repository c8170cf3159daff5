// Package loop is the UI's single cooperative scheduling domain.
//
// Every periodic activity of the control surface (binding reconciliation,
// the fallback animation clock) and every piece of work marshalled from
// another goroutine runs through one Loop, one callback at a time. A
// front-end that already owns a UI thread (the bubbletea Update method,
// the raylib frame loop) calls RunDue from that thread; headless callers
// use Run.
package loop

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/san-kum/sway/internal/clock"
)

// Task is a registered periodic callback.
type Task interface {
	// Cancel stops the task. When called on the loop goroutine the
	// callback is guaranteed never to run again once Cancel returns.
	Cancel()
}

// Scheduler is the part of a Loop that bindings and telemetry sources
// depend on.
type Scheduler interface {
	Every(period time.Duration, fn func()) Task
	Post(fn func())
}

type Loop struct {
	clock clock.Clock

	mu     sync.Mutex
	timers []*timer
	posted []func()

	wake chan struct{}
}

type timer struct {
	loop      *Loop
	period    time.Duration
	next      time.Time
	fn        func()
	cancelled atomic.Bool
}

func New(c clock.Clock) *Loop {
	if c == nil {
		c = clock.Real()
	}
	return &Loop{
		clock: c,
		wake:  make(chan struct{}, 1),
	}
}

// Every runs fn every period, starting one period from now.
func (l *Loop) Every(period time.Duration, fn func()) Task {
	if period <= 0 {
		panic("loop: non-positive period")
	}
	t := &timer{
		loop:   l,
		period: period,
		next:   l.clock.Now().Add(period),
		fn:     fn,
	}
	l.mu.Lock()
	l.timers = append(l.timers, t)
	l.mu.Unlock()
	l.signal()
	return t
}

// Post queues fn to run on the loop. Safe to call from any goroutine.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.posted = append(l.posted, fn)
	l.mu.Unlock()
	l.signal()
}

func (t *timer) Cancel() {
	if t.cancelled.Swap(true) {
		return
	}
	t.loop.remove(t)
}

func (l *Loop) remove(t *timer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, other := range l.timers {
		if other == t {
			l.timers = append(l.timers[:i], l.timers[i+1:]...)
			return
		}
	}
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Len reports the number of live periodic tasks.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

// RunDue runs queued functions, then every task whose deadline has
// passed, once each, in deadline order. Periods missed while the loop
// was busy are dropped rather than replayed. It must only be called
// from the goroutine that owns the loop. Returns the number of
// callbacks run.
func (l *Loop) RunDue() int {
	l.mu.Lock()
	posted := l.posted
	l.posted = nil
	l.mu.Unlock()

	n := 0
	for _, fn := range posted {
		fn()
		n++
	}

	now := l.clock.Now()
	l.mu.Lock()
	due := make([]*timer, 0, len(l.timers))
	for _, t := range l.timers {
		if !t.next.After(now) {
			due = append(due, t)
		}
	}
	l.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].next.Before(due[j].next) })

	for _, t := range due {
		if t.cancelled.Load() {
			continue
		}
		l.mu.Lock()
		t.next = t.next.Add(t.period)
		if !t.next.After(now) {
			t.next = now.Add(t.period)
		}
		l.mu.Unlock()

		t.fn()
		n++
	}
	return n
}

func (l *Loop) nextDelay() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.posted) > 0 {
		return 0, true
	}
	if len(l.timers) == 0 {
		return 0, false
	}
	next := l.timers[0].next
	for _, t := range l.timers[1:] {
		if t.next.Before(next) {
			next = t.next
		}
	}
	return next.Sub(l.clock.Now()), true
}

// Run owns the loop until ctx is done, returning ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.RunDue()

		var wait <-chan time.Time
		if d, ok := l.nextDelay(); ok {
			wait = l.clock.After(d)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		case <-wait:
		}
	}
}
