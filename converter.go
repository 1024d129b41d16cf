package inkpress

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-inkpress/internal/assets"
	"github.com/alnah/go-inkpress/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.DocumentTransformer = (*pipeline.Transformer)(nil)
	_ assets.AssetLoader           = (*assets.AssetResolver)(nil)
)

// Converter orchestrates the Markdown to PDF pipeline.
// A Converter holds no per-document state and is safe for concurrent use;
// every Render call launches and releases its own rendering engine.
type Converter struct {
	cfg         converterConfig
	logger      *zap.Logger
	loader      assets.AssetLoader
	styles      *assets.StyleComposer
	transformer pipeline.DocumentTransformer
	inliner     *pipeline.ImageInliner
	pages       *pipeline.PageComposer
	rasterizer  Rasterizer
}

// NewConverter creates a Converter. Returns an error when the asset path,
// the engine name or a page template is invalid.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:      DefaultTimeout,
			imageTimeout: DefaultImageTimeout,
		},
		logger: zap.NewNop(),
		loader: assets.NewEmbeddedLoader(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssets, err)
		}
		c.loader = resolver
	}

	pages, err := pipeline.NewPageComposer(c.loader)
	if err != nil {
		return nil, fmt.Errorf("initializing page composer: %w", err)
	}
	c.pages = pages
	c.styles = assets.NewStyleComposer(c.loader)
	c.transformer = pipeline.NewTransformer(c.logger)

	inlineOpts := []pipeline.InlineOption{
		pipeline.WithFetchTimeout(c.cfg.imageTimeout),
		pipeline.WithInlineLogger(c.logger),
		pipeline.WithConcurrency(c.cfg.imageWorkers),
	}
	if c.cfg.httpClient != nil {
		inlineOpts = append(inlineOpts, pipeline.WithHTTPClient(c.cfg.httpClient))
	}
	if c.cfg.assetRoot != "" {
		inlineOpts = append(inlineOpts, pipeline.WithRoot(c.cfg.assetRoot))
	}
	if c.cfg.noRemote {
		inlineOpts = append(inlineOpts, pipeline.WithoutRemote())
	}
	c.inliner = pipeline.NewImageInliner(inlineOpts...)

	if c.rasterizer == nil {
		c.rasterizer, err = newRasterizer(c.cfg.engine, c.logger)
		if err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Document builds the standalone HTML document without rendering it.
//
// Stages run in order: style composition (unknown themes and missing CSS
// files fail here, before any image is loaded), Markdown transformation,
// image path normalization, image inlining and page composition.
// Images that cannot be loaded are left as they are.
func (c *Converter) Document(ctx context.Context, opts RenderOptions) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	css, err := c.styles.Compose(opts.theme(), opts.CSS)
	if err != nil {
		return nil, err
	}

	title := ResolveTitle(opts.Markdown, opts.Title)

	start := time.Now()
	fragment, err := c.transformer.Transform(ctx, opts.Markdown, !opts.NoTOC)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}
	c.logger.Debug("markdown transformed",
		zap.Int("bytes", len(fragment)),
		zap.Duration("duration", time.Since(start)))

	basedir := opts.BaseDir
	if basedir == "" {
		if basedir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("resolving base directory: %w", err)
		}
	}

	fragment = pipeline.NormalizeImageSources(fragment, basedir)

	start = time.Now()
	fragment = c.inliner.Inline(ctx, fragment, basedir)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.logger.Debug("images resolved", zap.Duration("duration", time.Since(start)))

	page, err := c.pages.Compose(fragment, css, title)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrComposition, err)
	}

	return &Document{
		Fragment: fragment,
		Title:    title,
		CSS:      css,
		HTML:     page,
	}, nil
}

// Render builds the document and prints it to PDF. The whole call is
// bounded by the converter timeout. Paper and margin errors are reported
// before any work starts.
func (c *Converter) Render(ctx context.Context, opts RenderOptions) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	paper, err := LookupPaper(opts.paper())
	if err != nil {
		return nil, err
	}
	margins, err := ResolveMargins(opts.theme(), opts.margin(), opts.HeaderFooter)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	doc, err := c.Document(ctx, opts)
	if err != nil {
		return nil, err
	}

	layout := PrintOptions{
		Paper:        paper,
		Margins:      margins,
		HeaderFooter: opts.HeaderFooter,
	}
	if opts.HeaderFooter {
		layout.HeaderTemplate, layout.FooterTemplate, err = c.headerFooter(opts, doc.Title)
		if err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	pdf, err := c.rasterizer.Rasterize(ctx, doc.HTML, layout)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("pdf rendered",
		zap.Int("bytes", len(pdf)),
		zap.Duration("duration", time.Since(start)))

	return &Result{Document: doc, PDF: pdf}, nil
}

func (c *Converter) headerFooter(opts RenderOptions, title string) (string, string, error) {
	theme, err := assets.LookupTheme(opts.theme())
	if err != nil {
		return "", "", err
	}
	header, footer := pipeline.ResolveSlots(opts.Header, opts.Footer, title)

	headerHTML, err := c.pages.HeaderTemplate(header, title, theme.RuleColor())
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrComposition, err)
	}
	footerHTML, err := c.pages.FooterTemplate(footer, title, theme.RuleColor())
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrComposition, err)
	}
	return headerHTML, footerHTML, nil
}
