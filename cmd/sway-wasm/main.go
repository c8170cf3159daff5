//go:build js && wasm

// Command sway-wasm runs inside the plugin's web view. It binds to the
// host through window.__JUCE__ and exposes the visualizer to the page.
package main

import (
	"log/slog"
	"os"
	"syscall/js"

	"github.com/san-kum/sway/internal/binding"
	"github.com/san-kum/sway/internal/bridge"
	"github.com/san-kum/sway/internal/bridge/jsbridge"
	"github.com/san-kum/sway/internal/clock"
	"github.com/san-kum/sway/internal/export"
	"github.com/san-kum/sway/internal/loop"
	"github.com/san-kum/sway/internal/params"
	"github.com/san-kum/sway/internal/scene"
	"github.com/san-kum/sway/internal/telemetry"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	a := bridge.New(jsbridge.Locate, log)
	lp := loop.New(clock.Real())
	bank := binding.NewBank(params.All(), binding.Options{Adapter: a, Scheduler: lp, Logger: log})
	bank.Mount()
	ch := telemetry.Open(a, lp, telemetry.Config{Logger: log})

	// swayFrame runs due work and returns the current frame as SVG. The
	// page calls it from requestAnimationFrame.
	js.Global().Set("swayFrame", js.FuncOf(func(this js.Value, args []js.Value) any {
		lp.RunDue()
		cmds := scene.Render(scene.InputsFrom(bank.Snapshot()), ch.Latest())
		return export.CommandsToSVG(cmds, 1)
	}))

	// swayDrag(id, phase, value) drives one knob gesture from the page:
	// phase is "start", "move" or "end".
	js.Global().Set("swayDrag", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 2 {
			return nil
		}
		c := bank.Continuous(args[0].String())
		if c == nil {
			return nil
		}
		switch args[1].String() {
		case "start":
			c.BeginDrag()
		case "move":
			if len(args) > 2 {
				c.SetValue(args[2].Float())
			}
		case "end":
			c.EndDrag()
		}
		return nil
	}))

	log.Info("sway ui ready", "host", a.IsHostPresent(), "telemetry", ch.Source())
	select {}
}
