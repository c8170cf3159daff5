package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeAfter(t *testing.T) {
	c := Fake(epoch)
	ch := c.After(10 * time.Millisecond)

	c.Advance(5 * time.Millisecond)
	select {
	case <-ch:
		t.Fatal("fired before deadline")
	default:
	}

	c.Advance(5 * time.Millisecond)
	select {
	case got := <-ch:
		if !got.Equal(epoch.Add(10 * time.Millisecond)) {
			t.Errorf("expected fire time %v, got %v", epoch.Add(10*time.Millisecond), got)
		}
	default:
		t.Fatal("did not fire at deadline")
	}

	if c.Pending() != 0 {
		t.Errorf("expected no pending waiters, got %d", c.Pending())
	}
}

func TestFakeAfterNonPositive(t *testing.T) {
	c := Fake(epoch)
	select {
	case <-c.After(0):
	default:
		t.Fatal("After(0) should fire immediately")
	}
}

func TestFakeTicker(t *testing.T) {
	c := Fake(epoch)
	tk := c.NewTicker(16 * time.Millisecond)

	ticks := 0
	for i := 0; i < 3; i++ {
		c.Advance(16 * time.Millisecond)
		select {
		case <-tk.C:
			ticks++
		default:
		}
	}
	if ticks != 3 {
		t.Errorf("expected 3 ticks, got %d", ticks)
	}

	tk.Stop()
	c.Advance(time.Second)
	select {
	case <-tk.C:
		t.Error("tick delivered after Stop")
	default:
	}
}

func TestFakeTickerDropsBacklog(t *testing.T) {
	c := Fake(epoch)
	tk := c.NewTicker(10 * time.Millisecond)

	c.Advance(100 * time.Millisecond)
	<-tk.C
	select {
	case <-tk.C:
		t.Error("backlogged ticks should be dropped")
	default:
	}
}
