package telemetry

import (
	"github.com/san-kum/sway/internal/bridge"
	"github.com/san-kum/sway/internal/loop"
)

// Channel is a mounted telemetry source. The source is chosen once, at
// Open, from host presence and never re-evaluated.
type Channel struct {
	src Source
}

// Open picks HostFeed when a host is present and Demo otherwise, and
// starts it.
func Open(a *bridge.Adapter, s loop.Scheduler, cfg Config) *Channel {
	cfg = cfg.withDefaults()
	var src Source
	if a != nil && a.IsHostPresent() {
		src = NewHostFeed(a, cfg)
	} else {
		src = NewDemo(s, cfg)
	}
	cfg.Logger.Info("telemetry channel open", "source", src.Name())
	src.Start()
	return &Channel{src: src}
}

// Source names the active strategy: "host" or "demo".
func (c *Channel) Source() string { return c.src.Name() }

// Latest returns the most recent frame, or the zero frame before the
// first delivery.
func (c *Channel) Latest() Frame { return c.src.Latest() }

// Close stops the source. No delivery is recorded after Close returns.
func (c *Channel) Close() { c.src.Stop() }
