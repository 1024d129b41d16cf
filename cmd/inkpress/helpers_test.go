package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	inkpress "github.com/alnah/go-inkpress"
	"github.com/alnah/go-inkpress/internal/server"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Mock renderer and environment
// ---------------------------------------------------------------------------

type mockRenderer struct {
	mu    sync.Mutex
	calls []inkpress.RenderOptions
	pdf   []byte
	err   error
}

func (m *mockRenderer) Document(_ context.Context, opts inkpress.RenderOptions) (*inkpress.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, opts)
	if m.err != nil {
		return nil, m.err
	}
	return &inkpress.Document{Title: inkpress.ResolveTitle(opts.Markdown, opts.Title), HTML: "<html></html>"}, nil
}

func (m *mockRenderer) Render(ctx context.Context, opts inkpress.RenderOptions) (*inkpress.Result, error) {
	doc, err := m.Document(ctx, opts)
	if err != nil {
		return nil, err
	}
	pdf := m.pdf
	if pdf == nil {
		pdf = []byte("%PDF-1.4 mock")
	}
	return &inkpress.Result{Document: doc, PDF: pdf}, nil
}

func (m *mockRenderer) lastCall(t *testing.T) inkpress.RenderOptions {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		t.Fatal("renderer was not called")
	}
	return m.calls[len(m.calls)-1]
}

var _ server.Renderer = (*mockRenderer)(nil)

type testEnv struct {
	*Environment
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	renderer *mockRenderer
	options  int
}

func newTestEnv() *testEnv {
	te := &testEnv{
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
		renderer: &mockRenderer{},
	}
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	te.Environment = &Environment{
		Now:    func() time.Time { return start },
		Stdout: te.stdout,
		Stderr: te.stderr,
		NewRenderer: func(opts ...inkpress.Option) (server.Renderer, error) {
			te.options = len(opts)
			return te.renderer, nil
		},
	}
	return te
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
