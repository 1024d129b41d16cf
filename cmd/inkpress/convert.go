package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	inkpress "github.com/alnah/go-inkpress"
	"github.com/alnah/go-inkpress/internal/assets"
	"github.com/alnah/go-inkpress/internal/config"
	"github.com/alnah/go-inkpress/internal/fileutil"
	"github.com/alnah/go-inkpress/internal/hints"
	"github.com/alnah/go-inkpress/internal/logger"
)

const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// runConvert converts one markdown file to PDF.
func runConvert(ctx context.Context, positional []string, f *convertFlags, env *Environment) error {
	start := env.Now()

	cfg, err := loadConfig(f.common.config)
	if err != nil {
		return err
	}
	if err := mergeConvertFlags(f, cfg); err != nil {
		return err
	}
	applyVerbosity(f.common, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	css, err := absolutePaths(cfg.CSS)
	if err != nil {
		return err
	}
	if err := assets.CheckCSSFiles(css); err != nil {
		return err
	}

	inputPath, err := resolveInput(f.input, positional)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(inputPath) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}

	outputPath := f.output
	if outputPath == "" {
		outputPath = fileutil.SwapExtension(inputPath, ".pdf")
	}

	basedir := f.document.basedir
	if basedir == "" {
		basedir = filepath.Dir(inputPath)
	}
	if basedir, err = filepath.Abs(basedir); err != nil {
		return fmt.Errorf("resolving basedir: %w", err)
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
	renderer, err := env.NewRenderer(opts...)
	if err != nil {
		return err
	}

	log.Debug("converting",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
		zap.String("theme", cfg.Document.Theme),
		zap.String("engine", cfg.Render.Engine))

	result, err := renderer.Render(ctx, inkpress.RenderOptions{
		Markdown:     string(content),
		BaseDir:      basedir,
		Theme:        cfg.Document.Theme,
		Paper:        cfg.Document.Paper,
		Margin:       cfg.Document.Margin,
		NoTOC:        !cfg.Document.TOCEnabled(),
		CSS:          css,
		Title:        cfg.Document.Title,
		HeaderFooter: cfg.Document.HeaderFooter,
		Header:       inkpress.Slots(cfg.Header),
		Footer:       inkpress.Slots(cfg.Footer),
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), dirPermissions); err != nil {
		return fmt.Errorf("%w: creating output directory: %v", ErrWritePDF, err)
	}
	// #nosec G306 -- PDFs are meant to be readable
	if err := os.WriteFile(outputPath, result.PDF, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWritePDF, err)
	}

	switch {
	case f.common.quiet:
	case f.common.verbose:
		fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", inputPath, outputPath, env.Now().Sub(start).Round(time.Millisecond))
	default:
		fmt.Fprintf(env.Stdout, "Created %s\n", outputPath)
	}
	return nil
}

// loadConfig returns the named config, or the defaults without a name.
func loadConfig(name string) (*config.Config, error) {
	if name == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(name)
}

// mergeConvertFlags overrides config values with the flags given on the
// command line.
func mergeConvertFlags(f *convertFlags, cfg *config.Config) error {
	d := f.document
	if f.changed["theme"] {
		cfg.Document.Theme = d.theme
	}
	if f.changed["paper"] {
		cfg.Document.Paper = d.paper
	}
	if f.changed["margin"] {
		cfg.Document.Margin = d.margin
	}
	if f.changed["title"] {
		cfg.Document.Title = d.title
	}
	if f.changed["css"] {
		cfg.CSS = d.css
	}
	if f.changed["no-toc"] {
		toc := !d.noTOC
		cfg.Document.TOC = &toc
	}

	if f.changed["header-footer"] && f.changed["no-header-footer"] {
		return fmt.Errorf("%w: --header-footer and --no-header-footer are mutually exclusive", ErrUsage)
	}
	if f.changed["header-footer"] {
		cfg.Document.HeaderFooter = d.headerFooter
	}
	if f.changed["no-header-footer"] {
		cfg.Document.HeaderFooter = !d.noHeaderFooter
	}

	s := f.slots
	mergeString(f.changed, "header-left", s.headerLeft, &cfg.Header.Left)
	mergeString(f.changed, "header-center", s.headerCenter, &cfg.Header.Center)
	mergeString(f.changed, "header-right", s.headerRight, &cfg.Header.Right)
	mergeString(f.changed, "footer-left", s.footerLeft, &cfg.Footer.Left)
	mergeString(f.changed, "footer-center", s.footerCenter, &cfg.Footer.Center)
	mergeString(f.changed, "footer-right", s.footerRight, &cfg.Footer.Right)

	mergeRenderFlags(f.changed, f.render, cfg)
	return nil
}

// mergeRenderFlags overrides engine settings shared by convert and serve.
func mergeRenderFlags(changed map[string]bool, r renderFlags, cfg *config.Config) {
	mergeString(changed, "engine", r.engine, &cfg.Render.Engine)
	mergeString(changed, "timeout", r.timeout, &cfg.Render.Timeout)
	mergeString(changed, "asset-path", r.assetPath, &cfg.Assets.BasePath)
	if changed["no-remote-images"] {
		remote := !r.noRemote
		cfg.Render.RemoteImages = &remote
	}
}

func mergeString(changed map[string]bool, name, value string, dst *string) {
	if changed[name] {
		*dst = value
	}
}

// applyVerbosity maps -q and -v to a log level. Verbose wins.
func applyVerbosity(c commonFlags, cfg *config.Config) {
	switch {
	case c.verbose:
		cfg.Log.Level = "debug"
	case c.quiet:
		cfg.Log.Level = "error"
	}
}

// resolveInput picks the input file from -i or the first argument and
// checks that it exists.
func resolveInput(flagValue string, positional []string) (string, error) {
	input := flagValue
	if input == "" && len(positional) > 0 {
		input = positional[0]
	}
	if input == "" {
		return "", fmt.Errorf("%w%s", ErrNoInput, hints.ForMissingInput())
	}
	if (flagValue != "" && len(positional) > 0) || len(positional) > 1 {
		return "", fmt.Errorf("%w: unexpected argument %q", ErrUsage, positional[len(positional)-1])
	}

	info, err := os.Stat(input)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrInputNotFound, input)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrReadMarkdown, input)
	}
	return input, nil
}

// absolutePaths resolves stylesheet paths against the working directory.
func absolutePaths(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving css path %q: %w", p, err)
		}
		out[i] = abs
	}
	return out, nil
}

// converterOptions translates config to converter options.
func converterOptions(cfg *config.Config, log *zap.Logger) ([]inkpress.Option, error) {
	opts := []inkpress.Option{
		inkpress.WithLogger(log),
		inkpress.WithEngine(cfg.Render.Engine),
	}

	timeout, err := cfg.Render.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append(opts, inkpress.WithTimeout(timeout))
	}

	imageTimeout, err := cfg.Render.ImageTimeoutDuration()
	if err != nil {
		return nil, err
	}
	if imageTimeout > 0 {
		opts = append(opts, inkpress.WithImageTimeout(imageTimeout))
	}

	if cfg.Assets.BasePath != "" {
		opts = append(opts, inkpress.WithAssetPath(cfg.Assets.BasePath))
	}
	if !cfg.Render.RemoteImagesEnabled() {
		opts = append(opts, inkpress.WithoutRemoteImages())
	}
	if cfg.Render.ImageConcurrency > 0 {
		opts = append(opts, inkpress.WithImageConcurrency(cfg.Render.ImageConcurrency))
	}
	return opts, nil
}
