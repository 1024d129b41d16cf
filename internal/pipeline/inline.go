package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-inkpress/internal/fileutil"
)

// Defaults for ImageInliner.
const (
	DefaultFetchTimeout     = 15 * time.Second
	DefaultFetchConcurrency = 8
	MaxImageSize            = 32 << 20
)

// Image fetch errors. They are logged, never returned by Inline.
var (
	ErrImageStatus      = errors.New("unexpected image response status")
	ErrImageTooLarge    = errors.New("image too large")
	ErrImageOutsideRoot = errors.New("image outside allowed root")
	ErrRemoteDisabled   = errors.New("remote images disabled")
	ErrNotFetchable     = errors.New("image source is not fetchable")
)

var driveLetterPath = regexp.MustCompile(`^/[a-zA-Z]:/`)

// ImageInliner embeds image files as base64 data URLs.
type ImageInliner struct {
	client        *http.Client
	timeout       time.Duration
	concurrency   int
	root          string
	disableRemote bool
	logger        *zap.Logger
}

// InlineOption configures an ImageInliner.
type InlineOption func(*ImageInliner)

// WithHTTPClient sets the client used for remote images.
func WithHTTPClient(c *http.Client) InlineOption {
	return func(i *ImageInliner) {
		if c != nil {
			i.client = c
		}
	}
}

// WithFetchTimeout bounds each remote image request.
func WithFetchTimeout(d time.Duration) InlineOption {
	return func(i *ImageInliner) {
		if d > 0 {
			i.timeout = d
		}
	}
}

// WithConcurrency limits how many images are loaded at once.
func WithConcurrency(n int) InlineOption {
	return func(i *ImageInliner) {
		if n > 0 {
			i.concurrency = n
		}
	}
}

// WithRoot refuses local images outside dir.
func WithRoot(dir string) InlineOption {
	return func(i *ImageInliner) {
		i.root = dir
	}
}

// WithoutRemote leaves http and https images untouched.
func WithoutRemote() InlineOption {
	return func(i *ImageInliner) {
		i.disableRemote = true
	}
}

// WithInlineLogger sets the logger for unresolved images.
func WithInlineLogger(l *zap.Logger) InlineOption {
	return func(i *ImageInliner) {
		if l != nil {
			i.logger = l
		}
	}
}

// NewImageInliner creates an ImageInliner.
func NewImageInliner(opts ...InlineOption) *ImageInliner {
	i := &ImageInliner{
		client:      &http.Client{},
		timeout:     DefaultFetchTimeout,
		concurrency: DefaultFetchConcurrency,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.root != "" {
		i.root = realPath(i.root)
	}
	return i
}

// Inline replaces every loadable <img> src with a data URL. Distinct
// sources are loaded concurrently; a source that fails to load keeps its
// value. Relative paths are resolved against basedir.
func (i *ImageInliner) Inline(ctx context.Context, htmlContent, basedir string) string {
	var sources []string
	seen := make(map[string]bool)
	rewriteImageSources(htmlContent, func(src string) string {
		if !seen[src] && isFetchable(src) {
			seen[src] = true
			sources = append(sources, src)
		}
		return src
	})
	if len(sources) == 0 {
		return htmlContent
	}

	base := absDir(basedir)
	var mu sync.Mutex
	replacements := make(map[string]string, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)
	for _, src := range sources {
		g.Go(func() error {
			data, mime, err := i.load(gctx, src, base)
			if err != nil {
				i.logger.Debug("image left unresolved", zap.String("src", truncate(src, 200)), zap.Error(err))
				return nil
			}
			dataURL := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)

			mu.Lock()
			replacements[src] = dataURL
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return rewriteImageSources(htmlContent, func(src string) string {
		if dataURL, ok := replacements[src]; ok {
			return dataURL
		}
		return src
	})
}

func isFetchable(src string) bool {
	if src == "" {
		return false
	}
	switch ClassifyImageSource(src) {
	case SourceData, SourceBlob, SourceFragment:
		return false
	}
	return true
}

// load returns the bytes and MIME type of one image source.
func (i *ImageInliner) load(ctx context.Context, src, basedir string) ([]byte, string, error) {
	switch ClassifyImageSource(src) {
	case SourceRemote:
		return i.fetchRemote(ctx, src)
	case SourceFileURL:
		path, err := fileURLToPath(src)
		if err != nil {
			return nil, "", err
		}
		return i.readLocal(path)
	case SourceAbsolute, SourceWindowsDrive:
		return i.readLocal(src)
	case SourceRelative:
		return i.readLocal(filepath.Join(basedir, src))
	}
	return nil, "", fmt.Errorf("%w: %s", ErrNotFetchable, src)
}

func (i *ImageInliner) fetchRemote(ctx context.Context, src string) ([]byte, string, error) {
	if i.disableRemote {
		return nil, "", ErrRemoteDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := i.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("%w: %s", ErrImageStatus, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageSize+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > MaxImageSize {
		return nil, "", ErrImageTooLarge
	}

	mime := strings.TrimSpace(strings.Split(resp.Header.Get("Content-Type"), ";")[0])
	if mime == "" {
		mime = mimetype.Detect(data).String()
	}
	return data, mime, nil
}

func (i *ImageInliner) readLocal(path string) ([]byte, string, error) {
	if i.root != "" {
		resolved := realPath(path)
		if !fileutil.IsWithin(resolved, i.root) {
			return nil, "", fmt.Errorf("%w: %s", ErrImageOutsideRoot, path)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}
	if info.Size() > MaxImageSize {
		return nil, "", ErrImageTooLarge
	}

	data, err := os.ReadFile(path) // #nosec G304 -- image referenced by the document
	if err != nil {
		return nil, "", err
	}
	return data, MIMEFromPath(path), nil
}

// MIMEFromPath maps an image file extension to its MIME type.
func MIMEFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".bmp":
		return "image/bmp"
	}
	return "application/octet-stream"
}

// fileURLToPath decodes a file:// URL. A leading slash before a drive
// letter (file:///C:/x) is dropped.
func fileURLToPath(fileURL string) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", err
	}
	p := u.Path
	if driveLetterPath.MatchString(p) {
		p = p[1:]
	}
	return filepath.FromSlash(p), nil
}

// realPath returns the absolute, symlink-resolved form of path when it
// exists, the absolute form otherwise.
func realPath(path string) string {
	abs := absDir(path)
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
