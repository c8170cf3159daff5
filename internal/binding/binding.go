// Package binding keeps UI-held parameter values consistent with the
// host's authoritative values.
//
// Each binding is Detached until mounted against a present host, then
// reconciles against the host on a fixed period. While the user drags a
// control the binding is Dragging: reconciliation is suppressed and
// every local write goes straight through to the host.
//
// Bindings are not safe for concurrent use. Create, mount, write and
// unmount them from the goroutine that owns the loop.Scheduler.
package binding

import (
	"log/slog"
	"time"

	"github.com/san-kum/sway/internal/bridge"
	"github.com/san-kum/sway/internal/loop"
)

// DefaultPeriod is the reconciliation period, one frame at 60Hz.
const DefaultPeriod = 16 * time.Millisecond

type State int

const (
	Detached State = iota
	BoundIdle
	BoundDragging
)

func (s State) String() string {
	switch s {
	case Detached:
		return "detached"
	case BoundIdle:
		return "bound-idle"
	case BoundDragging:
		return "bound-dragging"
	default:
		return "unknown"
	}
}

// Options are shared by every binding of one control surface.
type Options struct {
	Adapter   *bridge.Adapter
	Scheduler loop.Scheduler
	Period    time.Duration
	Logger    *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Adapter == nil {
		o.Adapter = bridge.Absent()
	}
	if o.Period <= 0 {
		o.Period = DefaultPeriod
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// cell holds a local value and notifies watchers when it changes.
type cell[T comparable] struct {
	v        T
	next     int
	watchers []watcher[T]
}

type watcher[T comparable] struct {
	id int
	fn func(T)
}

func (c *cell[T]) set(v T) {
	if c.v == v {
		return
	}
	c.v = v
	for _, w := range append([]watcher[T](nil), c.watchers...) {
		w.fn(v)
	}
}

func (c *cell[T]) watch(fn func(T)) (cancel func()) {
	c.next++
	id := c.next
	c.watchers = append(c.watchers, watcher[T]{id: id, fn: fn})
	return func() {
		for i, w := range c.watchers {
			if w.id == id {
				c.watchers = append(c.watchers[:i], c.watchers[i+1:]...)
				return
			}
		}
	}
}

// reconciler owns the periodic task of one bound binding.
type reconciler struct {
	opts Options
	task loop.Task
}

func (r *reconciler) start(fn func()) {
	if r.opts.Scheduler == nil {
		return
	}
	r.task = r.opts.Scheduler.Every(r.opts.Period, fn)
}

func (r *reconciler) stop() {
	if r.task != nil {
		r.task.Cancel()
		r.task = nil
	}
}
