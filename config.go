package sprig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime and window settings.
type Config struct {
	Window  WindowConfig  `toml:"window" yaml:"window" envPrefix:"SPRIG_WINDOW_"`
	Loop    LoopConfig    `toml:"loop" yaml:"loop" envPrefix:"SPRIG_LOOP_"`
	Physics PhysicsConfig `toml:"physics" yaml:"physics" envPrefix:"SPRIG_PHYSICS_"`
	Logging LoggingConfig `toml:"logging" yaml:"logging" envPrefix:"SPRIG_LOG_"`

	// Debug enables per-frame system timings and tree-shape warnings.
	Debug bool `toml:"debug" yaml:"debug" env:"SPRIG_DEBUG"`
}

type WindowConfig struct {
	Title     string `toml:"title" yaml:"title" env:"TITLE"`
	Width     int    `toml:"width" yaml:"width" env:"WIDTH"`
	Height    int    `toml:"height" yaml:"height" env:"HEIGHT"`
	Resizable bool   `toml:"resizable" yaml:"resizable" env:"RESIZABLE"`

	ScreenshotDir string `toml:"screenshot_dir" yaml:"screenshot_dir" env:"SCREENSHOT_DIR"`
}

type LoopConfig struct {
	TPS int `toml:"tps" yaml:"tps" env:"TPS"` // logic ticks per second
}

type PhysicsConfig struct {
	GravityX float64 `toml:"gravity_x" yaml:"gravity_x" env:"GRAVITY_X"`
	GravityY float64 `toml:"gravity_y" yaml:"gravity_y" env:"GRAVITY_Y"`
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level" env:"LEVEL"`
	Format string `toml:"format" yaml:"format" env:"FORMAT"` // "json" or "console"
}

// DefaultConfig returns the settings used when no file overrides them.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "sprig",
			Width:  640,
			Height: 480,

			ScreenshotDir: "screenshots",
		},
		Loop: LoopConfig{
			TPS: 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig reads a TOML or YAML file (chosen by extension) over the
// defaults, then applies SPRIG_* environment overrides. An empty path skips
// the file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return ParseConfig("", nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(path, data)
}

// ParseConfig is LoadConfig for bytes already in memory, such as an embedded
// file. name selects the format by extension. Nil data skips decoding.
func ParseConfig(name string, data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if data != nil {
		if err := decodeConfig(name, data, cfg); err != nil {
			return nil, err
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeConfig(path string, data []byte, cfg *Config) error {
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("parse config %s: unsupported format %q", path, ext)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Loop.TPS <= 0 {
		return fmt.Errorf("config: loop.tps must be positive, got %d", c.Loop.TPS)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("config: window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	return nil
}

// withDefaults returns a copy of c with every field validate rejects reset
// to its default.
func (c *Config) withDefaults() *Config {
	out := *c
	def := DefaultConfig()
	if out.Loop.TPS <= 0 {
		out.Loop.TPS = def.Loop.TPS
	}
	if out.Window.Width <= 0 || out.Window.Height <= 0 {
		out.Window.Width, out.Window.Height = def.Window.Width, def.Window.Height
	}
	return &out
}

// Gravity returns the configured physics gravity.
func (c *Config) Gravity() Vec2 {
	return Vec2{c.Physics.GravityX, c.Physics.GravityY}
}
