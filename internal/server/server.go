// Package server serves the browser editor and the preview and PDF
// endpoints behind it.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	inkpress "github.com/alnah/go-inkpress"
	"github.com/alnah/go-inkpress/internal/assets"
)

// HTTP server defaults.
const (
	DefaultAddr      = ":3000"
	DefaultBodyLimit = 20 << 20 // 20 MiB

	defaultReadHeaderTimeout = 10 * time.Second
	defaultWriteTimeout      = 3 * time.Minute
	defaultIdleTimeout       = 60 * time.Second
	defaultShutdownTimeout   = 15 * time.Second
)

// Sentinel errors.
var (
	ErrEditorPage  = errors.New("editor page unavailable")
	ErrInvalidRoot = errors.New("invalid server root")
)

// Renderer builds documents and PDFs. *inkpress.Converter implements it.
type Renderer interface {
	Document(ctx context.Context, opts inkpress.RenderOptions) (*inkpress.Document, error)
	Render(ctx context.Context, opts inkpress.RenderOptions) (*inkpress.Result, error)
}

var _ Renderer = (*inkpress.Converter)(nil)

// Config configures a Server.
type Config struct {
	Addr        string // Listen address (default: :3000)
	DefaultFile string // Loaded by the editor when no file is requested
	Root        string // Confines loaded files and stylesheets; empty allows any path
	BodyLimit   int64  // Maximum request body size (default: 20 MiB)
	WorkDir     string // Base directory for requests without one (default: working directory)
}

// Server is the HTTP front end.
type Server struct {
	cfg      Config
	renderer Renderer
	logger   *zap.Logger
	router   *gin.Engine
	metrics  *metrics
	editor   []byte
	root     string
}

// New creates a Server with every route registered.
func New(cfg Config, renderer Renderer, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = DefaultBodyLimit
	}
	if cfg.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		cfg.WorkDir = wd
	}

	s := &Server{
		cfg:      cfg,
		renderer: renderer,
		logger:   logger,
		metrics:  newMetrics(),
	}

	if cfg.Root != "" {
		root, err := filepath.Abs(cfg.Root)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
		}
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, cfg.Root)
		}
		s.root = root
	}

	page, err := assets.NewEmbeddedLoader().LoadTemplate(assets.EditorTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEditorPage, err)
	}
	s.editor = []byte(page)

	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler with all routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(s.recovery(), s.requestLogger(), s.bodyLimit())

	r.GET("/", s.handleEditor)
	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(s.metrics.handler()))

	api := r.Group("/api")
	api.GET("/load", s.handleLoad)
	api.POST("/preview", s.handlePreview)
	api.POST("/pdf", s.handlePDF)

	return r
}

// Run listens on the configured address until ctx is canceled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
	}

	s.logger.Info("editor listening", zap.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}
