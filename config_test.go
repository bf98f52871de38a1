package sprig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Window.Width != 640 || cfg.Window.Height != 480 {
		t.Errorf("window = %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Loop.TPS != 60 {
		t.Errorf("TPS = %d", cfg.Loop.TPS)
	}
	if cfg.Gravity() != (Vec2{}) {
		t.Errorf("Gravity = %v", cfg.Gravity())
	}
}

func TestParseConfigTOML(t *testing.T) {
	data := []byte(`
debug = true

[window]
title = "ships"
width = 800

[physics]
gravity_y = 1.5
`)
	cfg, err := ParseConfig("game.toml", data)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Window.Title != "ships" || cfg.Window.Width != 800 {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.Window.Height != 480 {
		t.Errorf("unset fields should keep defaults, Height = %d", cfg.Window.Height)
	}
	if !cfg.Debug || cfg.Gravity() != (Vec2{0, 1.5}) {
		t.Errorf("debug = %v gravity = %v", cfg.Debug, cfg.Gravity())
	}
}

func TestParseConfigYAML(t *testing.T) {
	data := []byte(`
loop:
  tps: 30
logging:
  level: debug
  format: json
`)
	cfg, err := ParseConfig("game.yaml", data)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Loop.TPS != 30 || cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name, file, data, want string
	}{
		{"unsupported", "game.ini", "x=1", "unsupported format"},
		{"bad toml", "game.toml", "[window", "parse config"},
		{"bad yaml", "game.yml", "loop: [", "parse config"},
		{"zero tps", "game.toml", "[loop]\ntps = 0", "loop.tps must be positive"},
		{"zero size", "game.toml", "[window]\nwidth = 0", "window size must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig(tt.file, []byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestConfigEnvOverride(t *testing.T) {
	t.Setenv("SPRIG_LOOP_TPS", "120")
	t.Setenv("SPRIG_WINDOW_TITLE", "from env")
	t.Setenv("SPRIG_DEBUG", "true")

	cfg, err := ParseConfig("game.toml", []byte("[loop]\ntps = 30"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Loop.TPS != 120 {
		t.Errorf("TPS = %d, want env override 120", cfg.Loop.TPS)
	}
	if cfg.Window.Title != "from env" || !cfg.Debug {
		t.Errorf("title = %q debug = %v", cfg.Window.Title, cfg.Debug)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sprig.toml")
	if err := os.WriteFile(path, []byte("[window]\ntitle = \"file\""), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Window.Title != "file" {
		t.Errorf("title = %q", cfg.Window.Title)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file should be an error")
	}

	cfg, err = LoadConfig("")
	if err != nil || cfg.Window.Title != "sprig" {
		t.Errorf("LoadConfig(\"\") = %+v, %v", cfg, err)
	}
}

func TestNewLogger(t *testing.T) {
	for _, cfg := range []LoggingConfig{
		{Level: "debug", Format: "json"},
		{Level: "warn", Format: "console"},
		{Level: "bogus"},
	} {
		log, err := NewLogger(cfg)
		if err != nil {
			t.Fatalf("NewLogger(%+v): %v", cfg, err)
		}
		log.Info("hello")
	}
}
