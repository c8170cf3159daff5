package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultReconcilePeriod = 16 * time.Millisecond
	DefaultFrameRate       = 60
	DefaultDemoIncrement   = 0.02
	DefaultTelemetryEvent  = "visualizerData"
	DefaultCallTimeout     = 250 * time.Millisecond
	DefaultEmitRate        = 60.0
	DefaultSocket          = "/tmp/sway.sock"
	DefaultTheme           = "studio"
	DefaultDataDir         = ".sway"
)

// Host modes.
const (
	HostNone     = "none"
	HostLoopback = "loopback"
	HostSocket   = "socket"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	ReconcilePeriod time.Duration `yaml:"reconcile_period"`
	FrameRate       int           `yaml:"frame_rate"`
	DemoIncrement   float64       `yaml:"demo_increment"`
	TelemetryEvent  string        `yaml:"telemetry_event"`
	Host            HostConfig    `yaml:"host"`
	Theme           string        `yaml:"theme"`
	DataDir         string        `yaml:"data_dir"`
	Preset          string        `yaml:"preset,omitempty"`
	Log             LogConfig     `yaml:"log"`
}

type HostConfig struct {
	Mode        string        `yaml:"mode"`
	Socket      string        `yaml:"socket"`
	CallTimeout time.Duration `yaml:"call_timeout"`
	EmitRate    float64       `yaml:"emit_rate"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		ReconcilePeriod: DefaultReconcilePeriod,
		FrameRate:       DefaultFrameRate,
		DemoIncrement:   DefaultDemoIncrement,
		TelemetryEvent:  DefaultTelemetryEvent,
		Host: HostConfig{
			Mode:        HostLoopback,
			Socket:      DefaultSocket,
			CallTimeout: DefaultCallTimeout,
			EmitRate:    DefaultEmitRate,
		},
		Theme:   DefaultTheme,
		DataDir: DefaultDataDir,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.ReconcilePeriod <= 0 {
		return fmt.Errorf("%w: reconcile_period must be positive", ErrInvalid)
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("%w: frame_rate must be positive", ErrInvalid)
	}
	if c.Host.EmitRate <= 0 {
		return fmt.Errorf("%w: host.emit_rate must be positive", ErrInvalid)
	}
	switch c.Host.Mode {
	case HostNone, HostLoopback, HostSocket:
	default:
		return fmt.Errorf("%w: host.mode %q", ErrInvalid, c.Host.Mode)
	}
	if c.Preset != "" {
		if _, err := GetPreset(c.Preset); err != nil {
			return err
		}
	}
	return nil
}

// FramePeriod is the display refresh interval.
func (c *Config) FramePeriod() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}

// LogPath resolves the log file, defaulting into the data directory.
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.DataDir, "sway.log")
}

// CapturesDir is where recorded telemetry lives.
func (c *Config) CapturesDir() string {
	return filepath.Join(c.DataDir, "captures")
}
