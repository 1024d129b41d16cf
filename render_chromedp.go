package inkpress

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/alnah/go-inkpress/internal/fileutil"
	"github.com/alnah/go-inkpress/internal/hints"
)

// chromedpRasterizer drives Chrome through the DevTools protocol with
// chromedp. CHROME_PATH selects the binary.
type chromedpRasterizer struct {
	logger *zap.Logger
}

var _ Rasterizer = (*chromedpRasterizer)(nil)

func newChromedpRasterizer(logger *zap.Logger) *chromedpRasterizer {
	return &chromedpRasterizer{logger: logger}
}

func (r *chromedpRasterizer) Rasterize(ctx context.Context, document string, opts PrintOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(document, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if p := os.Getenv("CHROME_PATH"); p != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(p))
	}
	if os.Getenv("CI") == "true" || hints.IsInContainer() {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(r.logger.Sugar().Debugf),
	)
	defer cancelTask()

	// Starting the browser is the first action so launch failures are told
	// apart from page failures.
	if err := chromedp.Run(taskCtx); err != nil {
		return nil, fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect(EngineChromedp))
	}
	r.logger.Debug("browser started", zap.String("engine", EngineChromedp))

	idle := newIdleTracker()
	chromedp.ListenTarget(taskCtx, idle.observe)

	err = chromedp.Run(taskCtx,
		page.SetLifecycleEventsEnabled(true),
		chromedp.Navigate("file://"+tmpPath),
		chromedp.ActionFunc(idle.wait),
		chromedp.Evaluate("("+imagesReady+")()", nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %v%s", ErrPageLoad, ctxErr, hints.ForTimeout())
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	var pdf []byte
	err = chromedp.Run(taskCtx,
		emulation.SetEmulatedMedia().WithMedia("print"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = printToPDF(opts).Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

func printToPDF(opts PrintOptions) *page.PrintToPDFParams {
	header, footer := opts.HeaderTemplate, opts.FooterTemplate
	if !opts.HeaderFooter || header == "" {
		header = emptyTemplate
	}
	if !opts.HeaderFooter || footer == "" {
		footer = emptyTemplate
	}

	return page.PrintToPDF().
		WithPaperWidth(opts.Paper.Width).
		WithPaperHeight(opts.Paper.Height).
		WithMarginTop(opts.Margins.Top).
		WithMarginBottom(opts.Margins.Bottom).
		WithMarginLeft(opts.Margins.Left).
		WithMarginRight(opts.Margins.Right).
		WithPrintBackground(true).
		WithDisplayHeaderFooter(opts.HeaderFooter).
		WithHeaderTemplate(header).
		WithFooterTemplate(footer)
}

// idleTracker records which page loads reached the networkIdle lifecycle
// event.
type idleTracker struct {
	mu     sync.Mutex
	idle   map[cdp.LoaderID]bool
	notify chan struct{}
}

func newIdleTracker() *idleTracker {
	return &idleTracker{
		idle:   make(map[cdp.LoaderID]bool),
		notify: make(chan struct{}, 1),
	}
}

func (t *idleTracker) observe(ev any) {
	e, ok := ev.(*page.EventLifecycleEvent)
	if !ok || e.Name != "networkIdle" {
		return
	}
	t.mu.Lock()
	t.idle[e.LoaderID] = true
	t.mu.Unlock()

	select {
	case t.notify <- struct{}{}:
	default:
	}
}

// wait blocks until the main frame's current load is network idle.
func (t *idleTracker) wait(ctx context.Context) error {
	tree, err := page.GetFrameTree().Do(ctx)
	if err != nil {
		return err
	}
	loader := tree.Frame.LoaderID

	for {
		t.mu.Lock()
		done := t.idle[loader]
		t.mu.Unlock()
		if done {
			return nil
		}

		select {
		case <-t.notify:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
