package inkpress

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout      time.Duration
	imageTimeout time.Duration
	assetPath    string
	assetRoot    string
	engine       string
	httpClient   *http.Client
	noRemote     bool
	imageWorkers int
}

// Default timeouts used when no option overrides them.
const (
	DefaultTimeout      = 60 * time.Second
	DefaultImageTimeout = 15 * time.Second
)

// WithTimeout bounds a whole Render call, rendering engine included.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("inkpress: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithImageTimeout bounds each remote image download.
// Panics if d <= 0.
func WithImageTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("inkpress: WithImageTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.imageTimeout = d
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithAssetPath loads styles and templates from dir first, falling back to
// the embedded assets for anything dir does not provide.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithEngine selects the rendering engine: rod (default) or chromedp.
func WithEngine(name string) Option {
	return func(c *Converter) {
		c.cfg.engine = name
	}
}

// WithHTTPClient sets the client used to download remote images.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Converter) {
		c.cfg.httpClient = client
	}
}

// WithAssetRoot restricts local images to files under dir.
func WithAssetRoot(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetRoot = dir
	}
}

// WithoutRemoteImages leaves http and https images unresolved.
func WithoutRemoteImages() Option {
	return func(c *Converter) {
		c.cfg.noRemote = true
	}
}

// WithImageConcurrency limits how many images one document loads at once.
// Values <= 0 keep the default.
func WithImageConcurrency(n int) Option {
	return func(c *Converter) {
		c.cfg.imageWorkers = n
	}
}

// WithRasterizer replaces the rendering engine, typically in tests.
func WithRasterizer(r Rasterizer) Option {
	return func(c *Converter) {
		c.rasterizer = r
	}
}
