package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/sway/internal/binding"
	"github.com/san-kum/sway/internal/bridge"
	"github.com/san-kum/sway/internal/clock"
	"github.com/san-kum/sway/internal/config"
	"github.com/san-kum/sway/internal/host/loopback"
	"github.com/san-kum/sway/internal/host/wire"
	"github.com/san-kum/sway/internal/loop"
	"github.com/san-kum/sway/internal/params"
	"github.com/san-kum/sway/internal/telemetry"
)

// session is everything a surface needs: the bridge to the host, the
// loop that owns bindings and telemetry, and the mounted bindings.
type session struct {
	adapter *bridge.Adapter
	loop    *loop.Loop
	bank    *binding.Bank
	channel *telemetry.Channel
	label   string

	// host is set in loopback mode.
	host   *loopback.Host
	client *wire.Client
	cancel context.CancelFunc
}

func connect(ctx context.Context, c *config.Config, log *slog.Logger) (*session, error) {
	ctx, cancel := context.WithCancel(ctx)
	s := &session{label: c.Host.Mode, cancel: cancel}

	switch c.Host.Mode {
	case config.HostNone:
		s.adapter = bridge.Absent()
	case config.HostLoopback:
		s.host = loopback.New(loopback.Options{Logger: log, Event: c.TelemetryEvent})
		go s.host.Run(ctx, clock.Real(), c.Host.EmitRate)
		s.adapter = bridge.New(bridge.Static(s.host), log)
	case config.HostSocket:
		client, err := wire.Dial(ctx, c.Host.Socket, wire.ClientOptions{CallTimeout: c.Host.CallTimeout, Logger: log})
		if err != nil {
			// An unreachable host is the same as no host: the surface
			// still runs, detached, on demo telemetry.
			log.Warn("host unreachable, running detached", "socket", c.Host.Socket, "error", err)
			s.label = "socket (unreachable)"
			s.adapter = bridge.Absent()
			break
		}
		s.client = client
		s.label = "socket " + c.Host.Socket
		s.adapter = bridge.New(client.Locator(), log)
	default:
		cancel()
		return nil, fmt.Errorf("%w: host mode %q", config.ErrInvalid, c.Host.Mode)
	}

	if c.Preset != "" {
		if err := applyPreset(s.adapter, c.Preset); err != nil {
			s.Close()
			return nil, err
		}
		log.Info("preset applied", "preset", c.Preset)
	}

	s.loop = loop.New(clock.Real())
	s.bank = binding.NewBank(params.All(), binding.Options{
		Adapter:   s.adapter,
		Scheduler: s.loop,
		Period:    c.ReconcilePeriod,
		Logger:    log,
	})
	s.bank.Mount()
	s.channel = telemetry.Open(s.adapter, s.loop, telemetry.Config{
		Event:       c.TelemetryEvent,
		FramePeriod: c.FramePeriod(),
		Increment:   c.DemoIncrement,
		Logger:      log,
	})

	log.Info("session open", "host", s.label, "present", s.adapter.IsHostPresent(),
		"bound", s.bank.Bound(), "telemetry", s.channel.Source())
	return s, nil
}

// applyPreset writes preset values through the bridge, so it works for
// any host that is present.
func applyPreset(a *bridge.Adapter, name string) error {
	values, err := config.GetPreset(name)
	if err != nil {
		return err
	}
	if !a.IsHostPresent() {
		return nil
	}
	for id, v := range values {
		def, err := params.Lookup(id)
		if err != nil {
			return err
		}
		if def.Kind == params.Toggle {
			if t, ok := a.Toggle(id); ok {
				t.SetValue(v >= 0.5)
			}
			continue
		}
		if sl, ok := a.Slider(id); ok {
			sl.SetScaled(v)
		}
	}
	return nil
}

func (s *session) Close() {
	if s.channel != nil {
		s.channel.Close()
	}
	if s.bank != nil {
		s.bank.Close()
	}
	if s.client != nil {
		s.client.Close()
	}
	s.cancel()
}
