package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-inkpress/internal/assets"
	"github.com/alnah/go-inkpress/internal/fileutil"
	"github.com/alnah/go-inkpress/internal/hints"
	"github.com/alnah/go-inkpress/internal/logger"
	"github.com/alnah/go-inkpress/internal/yamlutil"
)

// AppName names the per-user configuration directory.
const AppName = "inkpress"

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxThemeLength  = 32
	MaxPaperLength  = 16
	MaxMarginLength = 16
	MaxTitleLength  = 200
	MaxSlotLength   = 500
	MaxPathLength   = 4096
	MaxAddrLength   = 255
	MaxCSSFiles     = 32
)

// MaxImageConcurrency bounds render.imageConcurrency.
const MaxImageConcurrency = 64

// Engines accepted by render.engine.
var Engines = []string{"rod", "chromedp"}

// Config holds defaults for conversions, the HTTP server and logging.
type Config struct {
	Document DocumentConfig `yaml:"document"`
	Header   SlotsConfig    `yaml:"header"`
	Footer   SlotsConfig    `yaml:"footer"`
	CSS      []string       `yaml:"css"` // extra stylesheet files, applied in order
	Assets   AssetsConfig   `yaml:"assets"`
	Render   RenderConfig   `yaml:"render"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// DocumentConfig defines page and theme defaults.
type DocumentConfig struct {
	Theme        string `yaml:"theme"`  // clean, serif, academic, github-dark
	Paper        string `yaml:"paper"`  // Letter, A4, ...
	Margin       string `yaml:"margin"` // length with unit: 16mm, 0.5in
	Title        string `yaml:"title"`
	TOC          *bool  `yaml:"toc"` // nil = enabled
	HeaderFooter bool   `yaml:"headerFooter"`
}

// TOCEnabled reports whether [[toc]] placeholders are expanded.
func (d DocumentConfig) TOCEnabled() bool {
	return d.TOC == nil || *d.TOC
}

// SlotsConfig holds the text of a header or footer row.
type SlotsConfig struct {
	Left   string `yaml:"left"`
	Center string `yaml:"center"`
	Right  string `yaml:"right"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// RenderConfig defines rendering engine options.
type RenderConfig struct {
	Engine           string `yaml:"engine"`           // rod (default) or chromedp
	Timeout          string `yaml:"timeout"`          // Go duration, whole conversion
	ImageTimeout     string `yaml:"imageTimeout"`     // Go duration, per remote image
	RemoteImages     *bool  `yaml:"remoteImages"`     // nil = enabled
	ImageConcurrency int    `yaml:"imageConcurrency"` // parallel image loads, 0 = default
}

// TimeoutDuration parses Timeout. Empty means zero.
func (r RenderConfig) TimeoutDuration() (time.Duration, error) {
	return parseDuration("render.timeout", r.Timeout)
}

// ImageTimeoutDuration parses ImageTimeout. Empty means zero.
func (r RenderConfig) ImageTimeoutDuration() (time.Duration, error) {
	return parseDuration("render.imageTimeout", r.ImageTimeout)
}

// RemoteImagesEnabled reports whether http(s) images are fetched.
func (r RenderConfig) RemoteImagesEnabled() bool {
	return r.RemoteImages == nil || *r.RemoteImages
}

// ServerConfig defines the HTTP front end.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	DefaultFile string `yaml:"defaultFile"` // loaded by the editor when no file is given
	Root        string `yaml:"root"`        // Empty = no confinement
}

// LogConfig defines logging output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
	File   string `yaml:"file"`   // rotated log file, empty = none
}

// Logger converts the log section to a logger.Config.
func (l LogConfig) Logger() logger.Config {
	return logger.Config{Level: l.Level, Format: l.Format, File: l.File}
}

// Validate checks enums, durations and field lengths.
// Called by LoadConfig; available for configs built in code.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"document.theme", c.Document.Theme, MaxThemeLength},
		{"document.paper", c.Document.Paper, MaxPaperLength},
		{"document.margin", c.Document.Margin, MaxMarginLength},
		{"document.title", c.Document.Title, MaxTitleLength},
		{"header.left", c.Header.Left, MaxSlotLength},
		{"header.center", c.Header.Center, MaxSlotLength},
		{"header.right", c.Header.Right, MaxSlotLength},
		{"footer.left", c.Footer.Left, MaxSlotLength},
		{"footer.center", c.Footer.Center, MaxSlotLength},
		{"footer.right", c.Footer.Right, MaxSlotLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"server.addr", c.Server.Addr, MaxAddrLength},
		{"server.defaultFile", c.Server.DefaultFile, MaxPathLength},
		{"server.root", c.Server.Root, MaxPathLength},
		{"log.file", c.Log.File, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if len(c.CSS) > MaxCSSFiles {
		return fmt.Errorf("%w: css: %d files, max %d", ErrInvalidValue, len(c.CSS), MaxCSSFiles)
	}
	for i, path := range c.CSS {
		if err := validateFieldLength(fmt.Sprintf("css[%d]", i), path, MaxPathLength); err != nil {
			return err
		}
	}

	if c.Document.Theme != "" {
		if _, err := assets.LookupTheme(c.Document.Theme); err != nil {
			return fmt.Errorf("%w: document.theme: %v", ErrInvalidValue, err)
		}
	}
	if c.Render.Engine != "" && !slices.Contains(Engines, c.Render.Engine) {
		return fmt.Errorf("%w: render.engine %q (must be %s)", ErrInvalidValue, c.Render.Engine, strings.Join(Engines, " or "))
	}
	if _, err := c.Render.TimeoutDuration(); err != nil {
		return err
	}
	if _, err := c.Render.ImageTimeoutDuration(); err != nil {
		return err
	}
	if c.Render.ImageConcurrency < 0 || c.Render.ImageConcurrency > MaxImageConcurrency {
		return fmt.Errorf("%w: render.imageConcurrency %d (must be 0-%d)", ErrInvalidValue, c.Render.ImageConcurrency, MaxImageConcurrency)
	}
	if c.Log.Level != "" {
		if _, err := logger.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("%w: log.level: %v", ErrInvalidValue, err)
		}
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: log.format %q (must be console or json)", ErrInvalidValue, c.Log.Format)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidValue, field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s: must not be negative", ErrInvalidValue, field)
	}
	return d, nil
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Document: DocumentConfig{
			Theme:  assets.DefaultTheme,
			Paper:  "Letter",
			Margin: "16mm",
		},
		Render: RenderConfig{
			Engine:       "rod",
			Timeout:      "60s",
			ImageTimeout: "15s",
		},
		Server: ServerConfig{Addr: ":3000"},
		Log:    LogConfig{Level: "info", Format: "console"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Values absent from the file keep their DefaultConfig value.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, `/\`)
}

// resolveConfigPath searches for NAME.yaml or NAME.yml in the current
// directory, then in the user config directory under AppName.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	dirs := []string{""}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(userConfigDir, AppName))
	}

	tried := make([]string, 0, len(dirs)*len(extensions))
	for _, dir := range dirs {
		for _, ext := range extensions {
			candidate := filepath.Join(dir, name+ext)
			if fileutil.FileExists(candidate) {
				return candidate, nil
			}
			tried = append(tried, candidate)
		}
	}

	return "", fmt.Errorf("%w: tried %s%s", ErrConfigNotFound, strings.Join(tried, ", "), hints.ForConfigNotFound(tried))
}
