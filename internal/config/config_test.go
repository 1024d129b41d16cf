package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

// ---------------------------------------------------------------------------
// DefaultConfig
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Document.Theme != "clean" {
		t.Errorf("Document.Theme = %q, want clean", cfg.Document.Theme)
	}
	if cfg.Document.Paper != "Letter" {
		t.Errorf("Document.Paper = %q, want Letter", cfg.Document.Paper)
	}
	if cfg.Document.Margin != "16mm" {
		t.Errorf("Document.Margin = %q, want 16mm", cfg.Document.Margin)
	}
	if !cfg.Document.TOCEnabled() {
		t.Error("TOC should be enabled by default")
	}
	if cfg.Document.HeaderFooter {
		t.Error("HeaderFooter should be disabled by default")
	}
	if cfg.Render.Engine != "rod" {
		t.Errorf("Render.Engine = %q, want rod", cfg.Render.Engine)
	}
	if !cfg.Render.RemoteImagesEnabled() {
		t.Error("remote images should be enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// Validate
// ---------------------------------------------------------------------------

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	if err := validateFieldLength("f", "abc", 3); err != nil {
		t.Errorf("at limit: error = %v", err)
	}
	err := validateFieldLength("f", "abcd", 3)
	if !errors.Is(err, ErrFieldTooLong) {
		t.Fatalf("over limit: error = %v, want ErrFieldTooLong", err)
	}
	if !strings.Contains(err.Error(), "f (4 chars, max 3)") {
		t.Errorf("error message = %q", err.Error())
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty config", mutate: func(c *Config) { *c = Config{} }},
		{name: "every theme", mutate: func(c *Config) { c.Document.Theme = "github-dark" }},
		{name: "unknown theme", mutate: func(c *Config) { c.Document.Theme = "neon" }, wantErr: ErrInvalidValue},
		{name: "chromedp engine", mutate: func(c *Config) { c.Render.Engine = "chromedp" }},
		{name: "unknown engine", mutate: func(c *Config) { c.Render.Engine = "webkit" }, wantErr: ErrInvalidValue},
		{name: "bad timeout", mutate: func(c *Config) { c.Render.Timeout = "soon" }, wantErr: ErrInvalidValue},
		{name: "negative image timeout", mutate: func(c *Config) { c.Render.ImageTimeout = "-1s" }, wantErr: ErrInvalidValue},
		{name: "image concurrency", mutate: func(c *Config) { c.Render.ImageConcurrency = 8 }},
		{name: "negative image concurrency", mutate: func(c *Config) { c.Render.ImageConcurrency = -1 }, wantErr: ErrInvalidValue},
		{name: "image concurrency above max", mutate: func(c *Config) { c.Render.ImageConcurrency = MaxImageConcurrency + 1 }, wantErr: ErrInvalidValue},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: ErrInvalidValue},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: ErrInvalidValue},
		{name: "long title", mutate: func(c *Config) { c.Document.Title = strings.Repeat("t", MaxTitleLength+1) }, wantErr: ErrFieldTooLong},
		{name: "long slot", mutate: func(c *Config) { c.Footer.Right = strings.Repeat("s", MaxSlotLength+1) }, wantErr: ErrFieldTooLong},
		{name: "long css path", mutate: func(c *Config) { c.CSS = []string{strings.Repeat("p", MaxPathLength+1)} }, wantErr: ErrFieldTooLong},
		{name: "too many css files", mutate: func(c *Config) { c.CSS = make([]string, MaxCSSFiles+1) }, wantErr: ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRenderConfig_Durations(t *testing.T) {
	t.Parallel()

	r := RenderConfig{Timeout: "90s"}
	d, err := r.TimeoutDuration()
	if err != nil || d != 90*time.Second {
		t.Errorf("TimeoutDuration() = %v, %v; want 90s", d, err)
	}
	d, err = r.ImageTimeoutDuration()
	if err != nil || d != 0 {
		t.Errorf("ImageTimeoutDuration() = %v, %v; want 0", d, err)
	}
}

// ---------------------------------------------------------------------------
// LoadConfig
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("file path loads and keeps defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "press.yaml", `document:
  theme: serif
  toc: false
  headerFooter: true
header:
  left: "{title}"
footer:
  right: "{page}/{total}"
css:
  - extra.css
render:
  engine: chromedp
  remoteImages: false
server:
  defaultFile: notes.md
log:
  level: debug
  format: json
`)

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Document.Theme != "serif" {
			t.Errorf("Document.Theme = %q, want serif", cfg.Document.Theme)
		}
		if cfg.Document.TOCEnabled() {
			t.Error("TOC should be disabled")
		}
		if !cfg.Document.HeaderFooter {
			t.Error("HeaderFooter should be enabled")
		}
		if cfg.Document.Paper != "Letter" {
			t.Errorf("Document.Paper = %q, want default Letter", cfg.Document.Paper)
		}
		if cfg.Header.Left != "{title}" || cfg.Footer.Right != "{page}/{total}" {
			t.Errorf("slots = %+v / %+v", cfg.Header, cfg.Footer)
		}
		if len(cfg.CSS) != 1 || cfg.CSS[0] != "extra.css" {
			t.Errorf("CSS = %v", cfg.CSS)
		}
		if cfg.Render.Engine != "chromedp" || cfg.Render.RemoteImagesEnabled() {
			t.Errorf("Render = %+v", cfg.Render)
		}
		if cfg.Render.Timeout != "60s" {
			t.Errorf("Render.Timeout = %q, want default 60s", cfg.Render.Timeout)
		}
		if cfg.Server.DefaultFile != "notes.md" || cfg.Server.Addr != ":3000" {
			t.Errorf("Server = %+v", cfg.Server)
		}
		if lc := cfg.Log.Logger(); lc.Level != "debug" || lc.Format != "json" {
			t.Errorf("Log.Logger() = %+v", lc)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfig("/nonexistent/path/config.yaml"); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "bad.yaml", "document: [unclosed")
		if _, err := LoadConfig(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "typo.yaml", "document:\n  thme: serif\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value fails validation", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "neon.yaml", "document:\n  theme: neon\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})
}

func TestLoadConfig_ByName(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))

	t.Run("current directory yml", func(t *testing.T) {
		writeConfig(t, dir, "local.yml", "document:\n  paper: A4\n")

		cfg, err := LoadConfig("local")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Document.Paper != "A4" {
			t.Errorf("Document.Paper = %q, want A4", cfg.Document.Paper)
		}
	})

	t.Run("user config directory", func(t *testing.T) {
		if runtime.GOOS != "linux" {
			t.Skip("XDG_CONFIG_HOME only drives os.UserConfigDir on Linux")
		}
		userDir := filepath.Join(dir, "xdg", AppName)
		if err := os.MkdirAll(userDir, 0o755); err != nil {
			t.Fatalf("setup: %v", err)
		}
		writeConfig(t, userDir, "shared.yaml", "document:\n  margin: 1in\n")

		cfg, err := LoadConfig("shared")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Document.Margin != "1in" {
			t.Errorf("Document.Margin = %q, want 1in", cfg.Document.Margin)
		}
	})

	t.Run("missing name lists tried paths", func(t *testing.T) {
		_, err := LoadConfig("absent")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "absent.yaml") || !strings.Contains(err.Error(), "absent.yml") {
			t.Errorf("error should list tried paths: %v", err)
		}
	})
}
