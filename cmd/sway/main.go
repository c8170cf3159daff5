package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/sway/internal/config"
)

var (
	configFile string
	logLevel   string
	logFormat  string
	logFile    string
	hostMode   string
	socketPath string
	themeName  string
	presetName string

	// set by loadConfig in the root PersistentPreRunE
	cfg *config.Config

	// Commands that draw to the terminal send their logs to a file.
	ownsTerminal = map[string]bool{"sway": true, "ui": true, "gui": true, "record": true, "automate": true}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sway",
		Short: "control surface and visualizer for the Sway modulation plugin",
		// Default to the terminal surface when no command is given.
		RunE:              runUI,
		PersistentPreRunE: loadConfig,
		SilenceUsage:      true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "text", "log format: text or json")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file")
	pf.StringVar(&hostMode, "host", config.HostLoopback, "host: none, loopback or socket")
	pf.StringVar(&socketPath, "socket", config.DefaultSocket, "host socket path")
	pf.StringVar(&themeName, "theme", config.DefaultTheme, "color theme")
	pf.StringVar(&presetName, "preset", "", "apply a preset on connect")

	uiCmd := &cobra.Command{
		Use:   "ui",
		Short: "terminal control surface",
		RunE:  runUI,
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "window control surface",
		RunE:  runGUI,
	}

	hostCmd := &cobra.Command{
		Use:   "host",
		Short: "stand-in plugin host",
	}
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve a loopback host on the socket",
		RunE:  serveHost,
	}
	serveCmd.Flags().StringVar(&automationFile, "automation", "", "automation script to play against the host")
	hostCmd.AddCommand(serveCmd)

	paramsCmd := &cobra.Command{
		Use:   "params",
		Short: "list plugin parameters",
		RunE:  listParams,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "record telemetry to a capture",
		RunE:  recordCapture,
	}
	recordCmd.Flags().DurationVar(&recordFor, "time", defaultRecordTime, "recording length")
	recordCmd.Flags().BoolVar(&quiet, "quiet", false, "do not draw while recording")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list captures",
		RunE:  listCaptures,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [capture_id]",
		Short: "plot capture telemetry",
		Args:  cobra.ExactArgs(1),
		RunE:  plotCapture,
	}
	plotCmd.Flags().StringSliceVar(&columns, "column", []string{"lfoValue"}, "columns to plot")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [capture_id]",
		Short: "measure modulation rate and range",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeCapture,
	}

	exportCmd := &cobra.Command{
		Use:   "export [capture_id]",
		Short: "export one capture column as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCapture,
	}
	exportCmd.Flags().StringSliceVar(&columns, "column", []string{"lfoValue"}, "column to export")
	exportCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render one visualizer frame as svg",
		RunE:  snapshot,
	}
	snapshotCmd.Flags().StringVar(&modeName, "mode", "chorus", "mode to draw")
	snapshotCmd.Flags().Float64Var(&phase, "phase", 0, "demo LFO phase in radians")
	snapshotCmd.Flags().Float64Var(&scale, "scale", 2, "output scale")
	snapshotCmd.Flags().BoolVar(&braille, "braille", false, "draw the terminal rendition instead")
	snapshotCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	automateCmd := &cobra.Command{
		Use:   "automate [script]",
		Short: "play an automation script against a loopback host",
		Args:  cobra.ExactArgs(1),
		RunE:  automate,
	}
	automateCmd.Flags().BoolVar(&quiet, "quiet", false, "do not draw while playing")

	rootCmd.AddCommand(uiCmd, guiCmd, hostCmd, paramsCmd, presetsCmd, recordCmd,
		listCmd, plotCmd, analyzeCmd, exportCmd, snapshotCmd, automateCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file, lets explicitly set flags win, and
// installs the default logger.
func loadConfig(cmd *cobra.Command, args []string) error {
	c := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		c = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		c.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		c.Log.Format = logFormat
	}
	if flags.Changed("log-file") {
		c.Log.File = logFile
	}
	if flags.Changed("host") {
		c.Host.Mode = hostMode
	}
	if flags.Changed("socket") {
		c.Host.Socket = socketPath
	}
	if flags.Changed("theme") {
		c.Theme = themeName
	}
	if flags.Changed("preset") {
		c.Preset = presetName
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c

	toFile := c.Log.File != "" || ownsTerminal[cmd.Name()]
	return setupLogging(c, toFile)
}

func setupLogging(c *config.Config, toFile bool) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return fmt.Errorf("log level %q: %w", c.Log.Level, err)
	}

	var out io.Writer = os.Stderr
	if toFile {
		path := c.LogPath()
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		out = f
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if strings.EqualFold(c.Log.Format, "json") {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}
	slog.SetDefault(slog.New(h))
	return nil
}
