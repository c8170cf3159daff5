// Package clock abstracts the time source used by the UI loop and the
// loopback host so reconciliation and telemetry timing can be driven
// deterministically in tests.
//
// Production code takes a Clock and is handed Real(). Tests hand it
// Fake(t0) and move time forward with Advance.
package clock

import (
	"sync"
	"time"
)

// Clock is the subset of the time package the UI needs.
type Clock interface {
	Now() time.Time

	// After returns a channel that receives once d has elapsed. If
	// d <= 0 the channel receives immediately.
	After(d time.Duration) <-chan time.Time

	// NewTicker delivers ticks every d on its C channel. Ticks are
	// dropped, not queued, when the consumer falls behind.
	NewTicker(d time.Duration) *Ticker
}

// Ticker is a periodic timer. Call Stop when done with it.
type Ticker struct {
	C <-chan time.Time

	stop func()
}

// Stop turns the ticker off. No tick is sent after Stop returns.
func (t *Ticker) Stop() { t.stop() }

// Real returns a Clock backed by the time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

func (realClock) NewTicker(d time.Duration) *Ticker {
	t := time.NewTicker(d)
	return &Ticker{C: t.C, stop: t.Stop}
}

// FakeClock only moves when Advance is called. Safe for concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	waiters []*waiter
}

type waiter struct {
	deadline time.Time
	interval time.Duration // non-zero for tickers
	ch       chan time.Time
	stopped  bool
}

// Fake returns a FakeClock set to initial.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{now: initial}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- c.now
		return ch
	}
	c.waiters = append(c.waiters, &waiter{deadline: c.now.Add(d), ch: ch})
	return ch
}

func (c *FakeClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	w := &waiter{deadline: c.now.Add(d), interval: d, ch: make(chan time.Time, 1)}
	c.waiters = append(c.waiters, w)
	return &Ticker{
		C: w.ch,
		stop: func() {
			c.mu.Lock()
			w.stopped = true
			c.mu.Unlock()
		},
	}
}

// Advance moves the clock forward by d, firing every waiter whose
// deadline falls inside the window. A ticker fires at most once per
// Advance call, matching the drop-on-backlog behaviour of time.Ticker.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
	kept := c.waiters[:0]
	for _, w := range c.waiters {
		if w.stopped {
			continue
		}
		if w.deadline.After(c.now) {
			kept = append(kept, w)
			continue
		}
		select {
		case w.ch <- c.now:
		default:
		}
		if w.interval > 0 {
			for !w.deadline.After(c.now) {
				w.deadline = w.deadline.Add(w.interval)
			}
			kept = append(kept, w)
		}
	}
	c.waiters = kept
}

// Pending reports how many timers and tickers are registered.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, w := range c.waiters {
		if !w.stopped {
			n++
		}
	}
	return n
}
