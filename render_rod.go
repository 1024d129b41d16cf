package inkpress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/alnah/go-inkpress/internal/fileutil"
	"github.com/alnah/go-inkpress/internal/hints"
	"github.com/alnah/go-inkpress/internal/process"
)

// requestIdle is how long the network must stay quiet before printing.
const requestIdle = 500 * time.Millisecond

// rodRasterizer drives headless Chrome through go-rod.
// Rod downloads Chromium on first run if no browser is configured.
type rodRasterizer struct {
	logger *zap.Logger
}

var _ Rasterizer = (*rodRasterizer)(nil)

func newRodRasterizer(logger *zap.Logger) *rodRasterizer {
	return &rodRasterizer{logger: logger}
}

// Rasterize launches a browser, prints document and tears the browser down.
func (r *rodRasterizer) Rasterize(ctx context.Context, document string, opts PrintOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(document, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	l := launcher.New().Context(ctx)

	// Use pre-installed browser if specified (Docker/containerized environments)
	bin := os.Getenv("ROD_BROWSER_BIN")
	if bin != "" {
		l = l.Bin(bin)
	}
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || bin != "" {
		l = l.NoSandbox(true)
	}
	defer l.Cleanup()

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect(EngineRod))
	}
	defer func() {
		process.KillProcessGroup(l.PID())
		l.Kill()
	}()

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect(EngineRod))
	}
	defer func() { _ = browser.Close() }()

	r.logger.Debug("browser started", zap.String("engine", EngineRod), zap.Int("pid", l.PID()))

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: creating page: %v", ErrPageLoad, err)
	}
	defer func() { _ = page.Close() }()

	if err := loadPage(page, "file://"+tmpPath); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %v%s", ErrPageLoad, ctxErr, hints.ForTimeout())
		}
		return nil, err
	}

	if err := (proto.EmulationSetEmulatedMedia{Media: "print"}).Call(page); err != nil {
		return nil, fmt.Errorf("%w: emulating print media: %v", ErrPDFGeneration, err)
	}

	reader, err := page.PDF(printParams(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// loadPage navigates to url and waits for the load event, network
// quiescence and every image.
func loadPage(page *rod.Page, url string) error {
	waitIdle := page.WaitRequestIdle(requestIdle, nil, nil, nil)

	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	waitIdle()

	if _, err := page.Eval(imagesReady); err != nil {
		return fmt.Errorf("%w: waiting for images: %v", ErrPageLoad, err)
	}
	return nil
}

func printParams(opts PrintOptions) *proto.PagePrintToPDF {
	header, footer := opts.HeaderTemplate, opts.FooterTemplate
	if !opts.HeaderFooter || header == "" {
		header = emptyTemplate
	}
	if !opts.HeaderFooter || footer == "" {
		footer = emptyTemplate
	}

	return &proto.PagePrintToPDF{
		PaperWidth:          floatPtr(opts.Paper.Width),
		PaperHeight:         floatPtr(opts.Paper.Height),
		MarginTop:           floatPtr(opts.Margins.Top),
		MarginBottom:        floatPtr(opts.Margins.Bottom),
		MarginLeft:          floatPtr(opts.Margins.Left),
		MarginRight:         floatPtr(opts.Margins.Right),
		PrintBackground:     true,
		DisplayHeaderFooter: opts.HeaderFooter,
		HeaderTemplate:      header,
		FooterTemplate:      footer,
	}
}
