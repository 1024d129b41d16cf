package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestNewAssetResolver(t *testing.T) {
	t.Parallel()

	t.Run("embedded only", func(t *testing.T) {
		t.Parallel()

		resolver, err := NewAssetResolver("")
		if err != nil {
			t.Fatalf("NewAssetResolver(\"\") error = %v", err)
		}
		if resolver.custom != nil {
			t.Error("expected no custom loader for empty path")
		}
	})

	t.Run("custom path", func(t *testing.T) {
		t.Parallel()

		resolver, err := NewAssetResolver(t.TempDir())
		if err != nil {
			t.Fatalf("NewAssetResolver() error = %v", err)
		}
		if resolver.custom == nil {
			t.Error("expected custom loader")
		}
	})

	t.Run("invalid custom path", func(t *testing.T) {
		t.Parallel()

		_, err := NewAssetResolver("/nonexistent/path/abc123xyz")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewAssetResolver() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestAssetResolver_CustomFirst(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAsset(t, dir, "styles", "clean.css", "/* house clean */")
	writeAsset(t, dir, "templates", "headerfooter.html", "<div>{{.Center}}</div>")

	resolver, err := NewAssetResolver(dir)
	if err != nil {
		t.Fatalf("NewAssetResolver() error = %v", err)
	}

	tests := []struct {
		name        string
		load        func() (string, error)
		want        string
		wantContain string
		wantErr     error
	}{
		{
			name: "custom style overrides embedded",
			load: func() (string, error) { return resolver.LoadStyle("clean") },
			want: "/* house clean */",
		},
		{
			name:        "embedded style when custom lacks it",
			load:        func() (string, error) { return resolver.LoadStyle("serif") },
			wantContain: "serif",
		},
		{
			name: "custom template overrides embedded",
			load: func() (string, error) { return resolver.LoadTemplate(HeaderFooterTemplate) },
			want: "<div>{{.Center}}</div>",
		},
		{
			name:        "embedded template when custom lacks it",
			load:        func() (string, error) { return resolver.LoadTemplate(DocumentTemplate) },
			wantContain: "page-wrap",
		},
		{
			name:    "missing everywhere",
			load:    func() (string, error) { return resolver.LoadStyle("nowhere") },
			wantErr: ErrStyleNotFound,
		},
		{
			name:    "validation error does not fall back",
			load:    func() (string, error) { return resolver.LoadStyle("a.b") },
			wantErr: ErrInvalidAssetName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.load()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.want != "" && got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if tt.wantContain != "" && !strings.Contains(got, tt.wantContain) {
				t.Errorf("got %q, want it to contain %q", got, tt.wantContain)
			}
		})
	}
}
