package pipeline

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// onePixelPNG is a valid 1x1 transparent PNG.
var onePixelPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

var pngDataURL = "data:image/png;base64," + base64.StdEncoding.EncodeToString(onePixelPNG)

func writeImage(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, onePixelPNG, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// ---------------------------------------------------------------------------
// Local images
// ---------------------------------------------------------------------------

func TestImageInliner_Local(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	abs := writeImage(t, dir, "x.png")
	writeImage(t, dir, "photo.JPG")

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "relative path",
			html: `<img src="./x.png" alt="x">`,
			want: `<img src="` + pngDataURL + `" alt="x">`,
		},
		{
			name: "file url from step one",
			html: `<img src="` + NormalizeImageSource("x.png", dir) + `">`,
			want: `<img src="` + pngDataURL + `">`,
		},
		{
			name: "absolute path",
			html: `<img src="` + abs + `">`,
			want: `<img src="` + pngDataURL + `">`,
		},
		{
			name: "mime from extension",
			html: `<img src="photo.JPG">`,
			want: `<img src="data:image/jpeg;base64,` + base64.StdEncoding.EncodeToString(onePixelPNG) + `">`,
		},
		{
			name: "missing file left unresolved",
			html: `<img src="./missing.png">`,
			want: `<img src="./missing.png">`,
		},
		{
			name: "data blob and fragment untouched",
			html: `<img src="data:image/gif;base64,R0"><img src="blob:x"><img src="#f">`,
			want: `<img src="data:image/gif;base64,R0"><img src="blob:x"><img src="#f">`,
		},
		{
			name: "no images",
			html: `<p>plain</p>`,
			want: `<p>plain</p>`,
		},
	}

	inliner := NewImageInliner()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := inliner.Inline(context.Background(), tt.html, dir); got != tt.want {
				t.Errorf("Inline()\n got: %s\nwant: %s", got, tt.want)
			}
		})
	}
}

func TestImageInliner_Root(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	outside := t.TempDir()
	writeImage(t, root, "in.png")
	outsidePath := writeImage(t, outside, "out.png")

	inliner := NewImageInliner(WithRoot(root))
	html := `<img src="in.png"><img src="` + outsidePath + `">`

	got := inliner.Inline(context.Background(), html, root)
	want := `<img src="` + pngDataURL + `"><img src="` + outsidePath + `">`
	if got != want {
		t.Errorf("Inline()\n got: %s\nwant: %s", got, want)
	}
}

// ---------------------------------------------------------------------------
// Remote images
// ---------------------------------------------------------------------------

func TestImageInliner_Remote(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/typed.png":
			w.Header().Set("Content-Type", "image/png; charset=binary")
			_, _ = w.Write(onePixelPNG)
		case "/untyped":
			w.Header()["Content-Type"] = nil
			_, _ = w.Write(onePixelPNG)
		case "/slow.png":
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "content type parameters stripped", src: srv.URL + "/typed.png", want: pngDataURL},
		{name: "missing content type is sniffed", src: srv.URL + "/untyped", want: pngDataURL},
		{name: "non-2xx left unresolved", src: srv.URL + "/missing.png", want: srv.URL + "/missing.png"},
		{name: "timeout left unresolved", src: srv.URL + "/slow.png", want: srv.URL + "/slow.png"},
	}

	inliner := NewImageInliner(WithHTTPClient(srv.Client()), WithFetchTimeout(100*time.Millisecond))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := inliner.Inline(context.Background(), `<img src="`+tt.src+`">`, "")
			if want := `<img src="` + tt.want + `">`; got != want {
				t.Errorf("Inline()\n got: %s\nwant: %s", got, want)
			}
		})
	}
}

func TestImageInliner_Deduplicates(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(onePixelPNG)
	}))
	t.Cleanup(srv.Close)

	src := srv.URL + "/a.png"
	html := `<img src="` + src + `"><p>between</p><img alt="again" src="` + src + `">`

	got := NewImageInliner(WithHTTPClient(srv.Client())).Inline(context.Background(), html, "")

	if n := hits.Load(); n != 1 {
		t.Errorf("server hit %d times, want 1", n)
	}
	if strings.Count(got, pngDataURL) != 2 {
		t.Errorf("both occurrences should be replaced, got: %s", got)
	}
	if strings.Contains(got, src) {
		t.Errorf("remote URL should be gone, got: %s", got)
	}
}

func TestImageInliner_Concurrency(t *testing.T) {
	t.Parallel()

	var inFlight, peak atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(onePixelPNG)
	}))
	t.Cleanup(srv.Close)

	var html strings.Builder
	for _, name := range []string{"a", "b", "c", "d"} {
		html.WriteString(`<img src="` + srv.URL + "/" + name + `.png">`)
	}

	got := NewImageInliner(WithHTTPClient(srv.Client()), WithConcurrency(1)).Inline(context.Background(), html.String(), "")

	if n := strings.Count(got, pngDataURL); n != 4 {
		t.Errorf("inlined %d images, want 4", n)
	}
	if p := peak.Load(); p != 1 {
		t.Errorf("peak concurrent requests = %d, want 1", p)
	}
}

func TestWithConcurrency_NonPositiveKeepsDefault(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, -3} {
		if got := NewImageInliner(WithConcurrency(n)).concurrency; got != DefaultFetchConcurrency {
			t.Errorf("WithConcurrency(%d): concurrency = %d, want %d", n, got, DefaultFetchConcurrency)
		}
	}
}

func TestImageInliner_WithoutRemote(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write(onePixelPNG)
	}))
	t.Cleanup(srv.Close)

	html := `<img src="` + srv.URL + `/a.png">`
	got := NewImageInliner(WithoutRemote()).Inline(context.Background(), html, "")

	if got != html {
		t.Errorf("Inline() = %s, want unchanged", got)
	}
	if hits.Load() != 0 {
		t.Error("server should not be contacted")
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func TestMIMEFromPath(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"a.png":     "image/png",
		"a.JPG":     "image/jpeg",
		"a.jpeg":    "image/jpeg",
		"a.gif":     "image/gif",
		"a.webp":    "image/webp",
		"a.svg":     "image/svg+xml",
		"a.bmp":     "image/bmp",
		"a.tiff":    "application/octet-stream",
		"noext":     "application/octet-stream",
		"dir/a.Png": "image/png",
	}

	for path, want := range tests {
		if got := MIMEFromPath(path); got != want {
			t.Errorf("MIMEFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestFileURLToPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{"file:///docs/pic.png", filepath.FromSlash("/docs/pic.png")},
		{"file:///docs/a%20b.png", filepath.FromSlash("/docs/a b.png")},
		{"file:///C:/img/pic.png", filepath.FromSlash("C:/img/pic.png")},
	}

	for _, tt := range tests {
		got, err := fileURLToPath(tt.url)
		if err != nil {
			t.Fatalf("fileURLToPath(%q) error = %v", tt.url, err)
		}
		if got != tt.want {
			t.Errorf("fileURLToPath(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
