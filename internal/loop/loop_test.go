package loop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/san-kum/sway/internal/clock"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestEveryFiresOncePerPeriod(t *testing.T) {
	c := clock.Fake(epoch)
	l := New(c)

	count := 0
	l.Every(16*time.Millisecond, func() { count++ })

	if n := l.RunDue(); n != 0 {
		t.Errorf("expected nothing due at start, ran %d", n)
	}

	for i := 0; i < 5; i++ {
		c.Advance(16 * time.Millisecond)
		l.RunDue()
	}
	if count != 5 {
		t.Errorf("expected 5 runs, got %d", count)
	}
}

func TestMissedPeriodsAreDropped(t *testing.T) {
	c := clock.Fake(epoch)
	l := New(c)

	count := 0
	l.Every(16*time.Millisecond, func() { count++ })

	c.Advance(time.Second)
	l.RunDue()
	l.RunDue()
	if count != 1 {
		t.Errorf("expected a single catch-up run, got %d", count)
	}

	c.Advance(16 * time.Millisecond)
	l.RunDue()
	if count != 2 {
		t.Errorf("expected run one period later, got %d", count)
	}
}

func TestCancelStopsTask(t *testing.T) {
	c := clock.Fake(epoch)
	l := New(c)

	count := 0
	task := l.Every(10*time.Millisecond, func() { count++ })
	c.Advance(10 * time.Millisecond)
	l.RunDue()

	task.Cancel()
	task.Cancel()
	if l.Len() != 0 {
		t.Errorf("expected no live tasks after cancel, got %d", l.Len())
	}

	c.Advance(time.Second)
	l.RunDue()
	if count != 1 {
		t.Errorf("task ran after cancel: %d runs", count)
	}
}

func TestCancelFromSiblingCallback(t *testing.T) {
	c := clock.Fake(epoch)
	l := New(c)

	var second Task
	secondRuns := 0
	l.Every(10*time.Millisecond, func() { second.Cancel() })
	second = l.Every(10*time.Millisecond, func() { secondRuns++ })

	c.Advance(10 * time.Millisecond)
	l.RunDue()
	if secondRuns != 0 {
		t.Errorf("cancelled sibling still ran %d times", secondRuns)
	}
}

func TestPostRunsBeforeTimers(t *testing.T) {
	c := clock.Fake(epoch)
	l := New(c)

	var order []string
	l.Every(5*time.Millisecond, func() { order = append(order, "tick") })
	l.Post(func() { order = append(order, "posted") })

	c.Advance(5 * time.Millisecond)
	l.RunDue()

	if len(order) != 2 || order[0] != "posted" || order[1] != "tick" {
		t.Errorf("unexpected order %v", order)
	}
}

func TestRunStopsOnContext(t *testing.T) {
	l := New(clock.Real())
	ctx, cancel := context.WithCancel(context.Background())

	ran := make(chan struct{})
	l.Post(func() {
		close(ran)
		cancel()
	})

	err := l.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	select {
	case <-ran:
	default:
		t.Error("posted function did not run")
	}
}
