package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/sway/internal/analysis"
	"github.com/san-kum/sway/internal/automation"
	"github.com/san-kum/sway/internal/clock"
	"github.com/san-kum/sway/internal/config"
	"github.com/san-kum/sway/internal/export"
	"github.com/san-kum/sway/internal/gui"
	"github.com/san-kum/sway/internal/host/loopback"
	"github.com/san-kum/sway/internal/host/wire"
	"github.com/san-kum/sway/internal/params"
	"github.com/san-kum/sway/internal/scene"
	"github.com/san-kum/sway/internal/storage"
	"github.com/san-kum/sway/internal/surface"
	"github.com/san-kum/sway/internal/telemetry"
	"github.com/san-kum/sway/internal/viz"
)

const defaultRecordTime = 10 * time.Second

var (
	automationFile string
	recordFor      time.Duration
	quiet          bool
	columns        []string
	outFile        string
	modeName       string
	phase          float64
	scale          float64
	braille        bool
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runUI(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	log := slog.Default()
	s, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer s.Close()

	return surface.Run(surface.Options{
		Bank:      s.bank,
		Channel:   s.channel,
		Loop:      s.loop,
		Clock:     clock.Real(),
		FrameRate: cfg.FrameRate,
		Theme:     cfg.Theme,
		HostLabel: s.label,
		Logger:    log,
	})
}

func runGUI(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	log := slog.Default()
	s, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer s.Close()

	gui.Run(gui.Options{
		Bank:      s.bank,
		Channel:   s.channel,
		Loop:      s.loop,
		Clock:     clock.Real(),
		FrameRate: cfg.FrameRate,
		Theme:     cfg.Theme,
		HostLabel: s.label,
		Logger:    log,
	})
	return nil
}

func serveHost(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	log := slog.Default()
	h := loopback.New(loopback.Options{Logger: log, Event: cfg.TelemetryEvent})
	if cfg.Preset != "" {
		values, err := config.GetPreset(cfg.Preset)
		if err != nil {
			return err
		}
		if err := h.ApplyPreset(values); err != nil {
			return err
		}
	}

	var script *automation.Script
	if automationFile != "" {
		var err error
		if script, err = automation.Load(automationFile); err != nil {
			return err
		}
	}

	go func() {
		if err := h.Run(ctx, clock.Real(), cfg.Host.EmitRate); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("telemetry emitter stopped", "error", err)
		}
	}()
	if script != nil {
		go func() {
			if err := automation.Play(ctx, script, h, clock.Real(), log); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("automation stopped", "error", err)
			}
		}()
	}

	return wire.NewServer(cfg.Host.Socket, h, log).Serve(ctx)
}

func listParams(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tKIND\tRANGE\tDEFAULT")
	for _, def := range params.All() {
		rng := fmt.Sprintf("%s .. %s", def.Format(def.Min), def.Format(def.Max))
		if def.Kind == params.Choice {
			rng = fmt.Sprintf("%v", def.Choices)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", def.ID, def.Name, def.Kind, rng, def.Format(def.Default))
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, name := range config.ListPresets() {
			fmt.Println(name)
		}
		return nil
	}

	values, err := config.GetPreset(args[0])
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, id := range ids {
		def := params.MustLookup(id)
		fmt.Fprintf(w, "%s\t%s\n", def.Name, def.Format(values[id]))
	}
	return w.Flush()
}

// recordCapture samples the telemetry channel once per frame on the
// session loop and saves the result.
func recordCapture(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	log := slog.Default()
	s, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer s.Close()

	samples, err := sample(ctx, s, recordFor)
	if err != nil {
		return err
	}

	st := storage.New(cfg.CapturesDir())
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(s.channel.Source(), float64(cfg.FrameRate), s.bank.Snapshot(), samples)
	if err != nil {
		return err
	}
	log.Info("capture saved", "id", id, "frames", len(samples))
	fmt.Printf("capture: %s (%d frames)\n", id, len(samples))
	return nil
}

// sample runs the session loop for d, or until ctx is done, collecting
// one telemetry frame per display frame.
func sample(ctx context.Context, s *session, d time.Duration) ([]storage.Sample, error) {
	var live *surface.LiveRenderer
	if !quiet {
		live = surface.NewLiveRenderer(os.Stdout, cfg.FrameRate, 72)
		live.Start()
		defer live.Stop()
	}

	start := time.Now()
	var samples []storage.Sample
	task := s.loop.Every(cfg.FramePeriod(), func() {
		now := time.Now()
		f := s.channel.Latest()
		samples = append(samples, storage.Sample{T: now.Sub(start).Seconds(), Frame: f})
		if live != nil {
			live.OnFrame(now, s.bank.Snapshot(), f)
		}
	})
	defer task.Cancel()

	runCtx := ctx
	if d > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	if err := s.loop.Run(runCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return nil, err
	}
	return samples, nil
}

func listCaptures(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.CapturesDir())
	caps, err := st.List()
	if err != nil {
		return err
	}

	if len(caps) == 0 {
		fmt.Println("no captures found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tTIME\tFRAMES\tMODE")
	for _, c := range caps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			c.ID,
			c.Source,
			c.Timestamp.Format("2006-01-02 15:04:05"),
			c.Frames,
			scene.ModeOf(int(c.Params[params.Mode])),
		)
	}
	return w.Flush()
}

func plotCapture(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.CapturesDir())
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(samples) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("capture: %s\n", meta.ID)
	fmt.Printf("source: %s\n", meta.Source)
	fmt.Printf("samples: %d\n\n", len(samples))

	for _, col := range columns {
		data, err := storage.Trace(samples, col)
		if err != nil {
			return fmt.Errorf("%w (columns: %v)", err, storage.Columns())
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(col),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeCapture(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.CapturesDir())
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("capture: %s\n", meta.ID)
	if set, ok := meta.Params[params.Rate]; ok {
		fmt.Printf("rate setting: %s\n", params.MustLookup(params.Rate).Format(set))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tRATE\tMIN\tMAX\tMEAN\tRMS")
	for _, col := range []string{"lfoValue", "modDepthL", "modDepthR"} {
		data, err := storage.Trace(samples, col)
		if err != nil {
			return err
		}
		rate := "-"
		if hz, ok := analysis.DominantRate(data, meta.Rate); ok {
			rate = fmt.Sprintf("%.2fHz", hz)
		}
		s := analysis.Summarize(data)
		fmt.Fprintf(w, "%s\t%s\t%.3f\t%.3f\t%.3f\t%.3f\n", col, rate, s.Min, s.Max, s.Mean, s.RMS)
	}
	return w.Flush()
}

func exportCapture(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.CapturesDir())
	samples, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(columns) != 1 {
		return fmt.Errorf("export takes exactly one column")
	}
	data, err := storage.Trace(samples, columns[0])
	if err != nil {
		return err
	}

	lo, hi := -1.0, 1.0
	for _, v := range data {
		lo, hi = min(lo, v), max(hi, v)
	}
	return writeOut(export.TraceToSVG(data, lo, hi, 800, 200, "#00ff88"))
}

// snapshot draws one frame of demo telemetry with default parameters in
// the given mode.
func snapshot(cmd *cobra.Command, args []string) error {
	mode, err := scene.ParseMode(modeName)
	if err != nil {
		return err
	}

	values := make(map[string]float64)
	for _, def := range params.All() {
		values[def.ID] = def.Default
	}
	if cfg.Preset != "" {
		preset, err := config.GetPreset(cfg.Preset)
		if err != nil {
			return err
		}
		for id, v := range preset {
			values[id] = v
		}
	}
	values[params.Mode] = float64(mode)

	cmds := scene.Render(scene.InputsFrom(values), telemetry.DemoFrame(phase))
	if braille {
		c := viz.NewCanvas(100, 25)
		viz.Rasterize(c, cmds)
		return writeOut(export.CanvasToSVG(c, scale))
	}
	return writeOut(export.CommandsToSVG(cmds, scale))
}

func writeOut(doc string) error {
	if outFile == "" {
		_, err := fmt.Println(doc)
		return err
	}
	if err := os.WriteFile(outFile, []byte(doc), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

// automate plays a script against a fresh loopback host and shows the
// result through the same bindings a surface would use.
func automate(cmd *cobra.Command, args []string) error {
	script, err := automation.Load(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	log := slog.Default()
	c := *cfg
	c.Host.Mode = config.HostLoopback
	s, err := connect(ctx, &c, log)
	if err != nil {
		return err
	}
	defer s.Close()

	playCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	errc := make(chan error, 1)
	go func() {
		errc <- automation.Play(playCtx, script, s.host, clock.Real(), log)
		cancel()
	}()

	if _, err := sample(playCtx, s, 0); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
