package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	inkpress "github.com/alnah/go-inkpress"
	"github.com/alnah/go-inkpress/internal/config"
	"github.com/alnah/go-inkpress/internal/logger"
	"github.com/alnah/go-inkpress/internal/server"
)

// runServe starts the editor front end and blocks until ctx is canceled.
func runServe(ctx context.Context, f *serveFlags, env *Environment) error {
	cfg, err := loadConfig(f.common.config)
	if err != nil {
		return err
	}
	mergeServeFlags(f, cfg)
	applyVerbosity(f.common, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Logger(), env.Stderr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	defer func() { _ = log.Sync() }()

	opts, err := converterOptions(cfg, log)
	if err != nil {
		return err
	}
	if cfg.Server.Root != "" {
		root, err := filepath.Abs(cfg.Server.Root)
		if err != nil {
			return fmt.Errorf("%w: %v", server.ErrInvalidRoot, err)
		}
		opts = append(opts, inkpress.WithAssetRoot(root))
	}

	renderer, err := env.NewRenderer(opts...)
	if err != nil {
		return err
	}

	if f.common.verbose {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	srv, err := server.New(server.Config{
		Addr:        cfg.Server.Addr,
		DefaultFile: cfg.Server.DefaultFile,
		Root:        cfg.Server.Root,
	}, renderer, log)
	if err != nil {
		return err
	}

	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Editor running at %s\n", displayURL(cfg.Server.Addr))
	}
	log.Info("server starting",
		zap.String("addr", cfg.Server.Addr),
		zap.String("engine", cfg.Render.Engine),
		zap.String("root", cfg.Server.Root))

	return srv.Run(ctx)
}

// mergeServeFlags overrides config values with the flags given on the
// command line.
func mergeServeFlags(f *serveFlags, cfg *config.Config) {
	mergeString(f.changed, "addr", f.addr, &cfg.Server.Addr)
	mergeString(f.changed, "file", f.file, &cfg.Server.DefaultFile)
	mergeString(f.changed, "root", f.root, &cfg.Server.Root)
	mergeRenderFlags(f.changed, f.render, cfg)
}

// displayURL turns a listen address into a clickable URL.
func displayURL(addr string) string {
	if addr == "" {
		addr = server.DefaultAddr
	}
	if addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
